package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/artefacto/heritage-api/internal/model"
)

// TicketRepo provides CRUD operations for the `tickets` table.
type TicketRepo struct{ DB *sql.DB }

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{DB: db} }

// TicketDetail is a ticket joined with its temple's display fields, returned
// by the read endpoints and embedded in transaction responses.
type TicketDetail struct {
	ID             uint64    `json:"id"`
	TempleID       uint64    `json:"temple_id"`
	TempleTitle    string    `json:"temple_title"`
	TempleLocation string    `json:"temple_location_url"`
	Price          int64     `json:"price"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

const ticketDetailQuery = `
SELECT k.id, k.temple_id, t.title, t.location_url, k.price, k.description, k.created_at, k.updated_at
FROM tickets k
JOIN temples t ON t.id = k.temple_id`

// Create inserts a ticket and populates the generated ID on the record.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tickets (temple_id, price, description) VALUES (?,?,?)",
		t.TempleID, t.Price, t.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM tickets WHERE id=?", t.ID).
		Scan(&t.CreatedAt, &t.UpdatedAt)
}

// GetByID fetches a bare ticket row.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (model.Ticket, error) {
	var t model.Ticket
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, temple_id, price, description, created_at, updated_at FROM tickets WHERE id=? LIMIT 1", id).
		Scan(&t.ID, &t.TempleID, &t.Price, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return t, ErrNotFound
	}
	return t, err
}

// GetDetail fetches a ticket joined with its temple.
func (r *TicketRepo) GetDetail(ctx context.Context, id uint64) (TicketDetail, error) {
	var d TicketDetail
	err := r.DB.QueryRowContext(ctx, ticketDetailQuery+" WHERE k.id=? LIMIT 1", id).
		Scan(&d.ID, &d.TempleID, &d.TempleTitle, &d.TempleLocation, &d.Price,
			&d.Description, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	return d, err
}

// ListDetails returns all tickets with temple display data, newest first.
// templeID filters by owning temple when non-zero.
func (r *TicketRepo) ListDetails(ctx context.Context, templeID uint64) ([]TicketDetail, error) {
	q := ticketDetailQuery
	args := []interface{}{}
	if templeID != 0 {
		q += " WHERE k.temple_id = ?"
		args = append(args, templeID)
	}
	q += " ORDER BY k.created_at DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]TicketDetail, 0)
	for rows.Next() {
		var d TicketDetail
		if err := rows.Scan(&d.ID, &d.TempleID, &d.TempleTitle, &d.TempleLocation,
			&d.Price, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// Update persists price and description for an existing ticket.
func (r *TicketRepo) Update(ctx context.Context, t *model.Ticket) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE tickets SET price=?, description=?, updated_at=NOW() WHERE id=?",
		t.Price, t.Description, t.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a ticket row. Missing rows yield ErrNotFound.
func (r *TicketRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM tickets WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
