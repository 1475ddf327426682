package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/artefacto/heritage-api/internal/model"
)

// ArtifactRepo provides CRUD operations for the `artifacts` table plus the
// per-user bookmark/read decorations used by the catalog endpoints.
type ArtifactRepo struct{ DB *sql.DB }

func NewArtifactRepo(db *sql.DB) *ArtifactRepo { return &ArtifactRepo{DB: db} }

// ArtifactDetail is an artifact joined with its temple title and the
// requesting user's bookmark/read flags. It is returned by the list and
// detail queries for display to clients.
type ArtifactDetail struct {
	ID                 uint64    `json:"id"`
	TempleID           uint64    `json:"temple_id"`
	TempleTitle        string    `json:"temple_title"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	ImageURL           string    `json:"image_url"`
	DetailPeriod       string    `json:"detail_period"`
	DetailMaterial     string    `json:"detail_material"`
	DetailSize         string    `json:"detail_size"`
	DetailStyle        string    `json:"detail_style"`
	FunfactTitle       string    `json:"funfact_title"`
	FunfactDescription string    `json:"funfact_description"`
	LocationURL        string    `json:"location_url"`
	IsBookmarked       bool      `json:"is_bookmarked"`
	IsRead             bool      `json:"is_read"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

const artifactDetailQuery = `
SELECT a.id, a.temple_id, t.title, a.title, a.description, a.image_url,
       a.detail_period, a.detail_material, a.detail_size, a.detail_style,
       a.funfact_title, a.funfact_description, a.location_url,
       COALESCE(b.is_bookmark, FALSE), COALESCE(r.is_read, FALSE),
       a.created_at, a.updated_at
FROM artifacts a
JOIN temples t ON t.id = a.temple_id
LEFT JOIN bookmarks b ON b.artifact_id = a.id AND b.user_id = ?
LEFT JOIN read_marks r ON r.artifact_id = a.id AND r.user_id = ?`

// Create inserts an artifact and populates the generated ID on the record.
// The temple reference is validated by the FK; a missing temple surfaces as
// ErrNotFound from the handler's prior lookup, not here.
func (r *ArtifactRepo) Create(ctx context.Context, a *model.Artifact) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO artifacts (temple_id, title, description, image_url,
		   detail_period, detail_material, detail_size, detail_style,
		   funfact_title, funfact_description, location_url)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		a.TempleID, a.Title, a.Description, a.ImageURL,
		a.DetailPeriod, a.DetailMaterial, a.DetailSize, a.DetailStyle,
		a.FunfactTitle, a.FunfactDescription, a.LocationURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM artifacts WHERE id=?", a.ID).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

// GetByID fetches a bare artifact row without joins, for admin mutations.
func (r *ArtifactRepo) GetByID(ctx context.Context, id uint64) (model.Artifact, error) {
	var a model.Artifact
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, temple_id, title, description, image_url,
		   detail_period, detail_material, detail_size, detail_style,
		   funfact_title, funfact_description, location_url, created_at, updated_at
		 FROM artifacts WHERE id=? LIMIT 1`, id).
		Scan(&a.ID, &a.TempleID, &a.Title, &a.Description, &a.ImageURL,
			&a.DetailPeriod, &a.DetailMaterial, &a.DetailSize, &a.DetailStyle,
			&a.FunfactTitle, &a.FunfactDescription, &a.LocationURL, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	return a, err
}

// ListDetails returns artifacts decorated with the caller's flags, newest
// first. templeID filters by owning temple when non-zero.
func (r *ArtifactRepo) ListDetails(ctx context.Context, userID, templeID uint64) ([]ArtifactDetail, error) {
	q := artifactDetailQuery
	args := []interface{}{userID, userID}
	if templeID != 0 {
		q += " WHERE a.temple_id = ?"
		args = append(args, templeID)
	}
	q += " ORDER BY a.created_at DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]ArtifactDetail, 0)
	for rows.Next() {
		var d ArtifactDetail
		if err := scanArtifactDetail(rows.Scan, &d); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// GetDetail returns one artifact decorated with the caller's flags.
func (r *ArtifactRepo) GetDetail(ctx context.Context, id, userID uint64) (ArtifactDetail, error) {
	var d ArtifactDetail
	row := r.DB.QueryRowContext(ctx, artifactDetailQuery+" WHERE a.id = ? LIMIT 1", userID, userID, id)
	err := scanArtifactDetail(row.Scan, &d)
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	return d, err
}

// Update persists all mutable columns of an artifact.
func (r *ArtifactRepo) Update(ctx context.Context, a *model.Artifact) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE artifacts SET temple_id=?, title=?, description=?, image_url=?,
		   detail_period=?, detail_material=?, detail_size=?, detail_style=?,
		   funfact_title=?, funfact_description=?, location_url=?, updated_at=NOW()
		 WHERE id=?`,
		a.TempleID, a.Title, a.Description, a.ImageURL,
		a.DetailPeriod, a.DetailMaterial, a.DetailSize, a.DetailStyle,
		a.FunfactTitle, a.FunfactDescription, a.LocationURL, a.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an artifact row. Missing rows yield ErrNotFound.
func (r *ArtifactRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM artifacts WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanArtifactDetail(scan func(...interface{}) error, d *ArtifactDetail) error {
	return scan(&d.ID, &d.TempleID, &d.TempleTitle, &d.Title, &d.Description, &d.ImageURL,
		&d.DetailPeriod, &d.DetailMaterial, &d.DetailSize, &d.DetailStyle,
		&d.FunfactTitle, &d.FunfactDescription, &d.LocationURL,
		&d.IsBookmarked, &d.IsRead, &d.CreatedAt, &d.UpdatedAt)
}
