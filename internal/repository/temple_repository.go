package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/artefacto/heritage-api/internal/model"
)

// TempleRepo provides CRUD operations for the `temples` table.
type TempleRepo struct{ DB *sql.DB }

func NewTempleRepo(db *sql.DB) *TempleRepo { return &TempleRepo{DB: db} }

const templeColumns = "id, title, description, image_url, funfact_title, funfact_description, location_url, created_at, updated_at"

// Create inserts a temple and populates the generated ID on the record.
func (r *TempleRepo) Create(ctx context.Context, t *model.Temple) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO temples (title, description, image_url, funfact_title, funfact_description, location_url) VALUES (?,?,?,?,?,?)",
		t.Title, t.Description, t.ImageURL, t.FunfactTitle, t.FunfactDescription, t.LocationURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM temples WHERE id=?", t.ID).
		Scan(&t.CreatedAt, &t.UpdatedAt)
}

// GetByID fetches a single temple. Missing rows yield ErrNotFound.
func (r *TempleRepo) GetByID(ctx context.Context, id uint64) (model.Temple, error) {
	var t model.Temple
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+templeColumns+" FROM temples WHERE id=? LIMIT 1", id).
		Scan(&t.ID, &t.Title, &t.Description, &t.ImageURL, &t.FunfactTitle,
			&t.FunfactDescription, &t.LocationURL, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return t, ErrNotFound
	}
	return t, err
}

// List returns all temples, newest first.
func (r *TempleRepo) List(ctx context.Context) ([]model.Temple, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+templeColumns+" FROM temples ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	temples := make([]model.Temple, 0)
	for rows.Next() {
		var t model.Temple
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.ImageURL, &t.FunfactTitle,
			&t.FunfactDescription, &t.LocationURL, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		temples = append(temples, t)
	}
	return temples, rows.Err()
}

// Update persists all mutable columns of a temple.
func (r *TempleRepo) Update(ctx context.Context, t *model.Temple) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE temples SET title=?, description=?, image_url=?, funfact_title=?, funfact_description=?, location_url=?, updated_at=NOW() WHERE id=?",
		t.Title, t.Description, t.ImageURL, t.FunfactTitle, t.FunfactDescription, t.LocationURL, t.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a temple row. Missing rows yield ErrNotFound.
func (r *TempleRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM temples WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
