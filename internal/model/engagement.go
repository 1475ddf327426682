package model

import "time"

// Bookmark is a per-user flag on an artifact, toggled in place. At most one
// row exists per (user, artifact) pair and rows are never deleted.
type Bookmark struct {
	UserID     uint64    // bookmarks.user_id
	ArtifactID uint64    // bookmarks.artifact_id
	IsBookmark bool      // bookmarks.is_bookmark
	CreatedAt  time.Time // bookmarks.created_at
	UpdatedAt  time.Time // bookmarks.updated_at
}

// ReadMark records that a user has opened an artifact. Created on first read;
// once set it stays set.
type ReadMark struct {
	UserID     uint64    // read_marks.user_id
	ArtifactID uint64    // read_marks.artifact_id
	IsRead     bool      // read_marks.is_read
	CreatedAt  time.Time // read_marks.created_at
	UpdatedAt  time.Time // read_marks.updated_at
}
