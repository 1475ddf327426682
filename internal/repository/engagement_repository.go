package repository

import (
	"context"
	"database/sql"
)

// EngagementRepo persists the per-user bookmark and read flags on artifacts.
// Rows are lazily created on first interaction and mutated in place, never
// deleted. Both operations are single atomic upserts so concurrent toggles
// cannot lose updates.
type EngagementRepo struct{ DB *sql.DB }

func NewEngagementRepo(db *sql.DB) *EngagementRepo { return &EngagementRepo{DB: db} }

// ToggleBookmark flips the caller's bookmark flag on an artifact, creating
// the row with the flag set on first use. It returns the resulting state.
func (r *EngagementRepo) ToggleBookmark(ctx context.Context, userID, artifactID uint64) (bool, error) {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO bookmarks (user_id, artifact_id, is_bookmark) VALUES (?,?,TRUE)
		 ON DUPLICATE KEY UPDATE is_bookmark = NOT is_bookmark, updated_at = NOW()`,
		userID, artifactID)
	if err != nil {
		return false, err
	}
	var state bool
	err = r.DB.QueryRowContext(ctx,
		"SELECT is_bookmark FROM bookmarks WHERE user_id=? AND artifact_id=?",
		userID, artifactID).Scan(&state)
	return state, err
}

// MarkRead sets the caller's read flag on an artifact, creating the row on
// first read. Repeated calls are no-ops.
func (r *EngagementRepo) MarkRead(ctx context.Context, userID, artifactID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO read_marks (user_id, artifact_id, is_read) VALUES (?,?,TRUE)
		 ON DUPLICATE KEY UPDATE is_read = TRUE, updated_at = NOW()`,
		userID, artifactID)
	return err
}
