package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/artefacto/heritage-api/internal/model"
)

// OwnedTicketRepo provides persistence for the `owned_tickets` table,
// including the conditional status update that makes redemption race-free.
type OwnedTicketRepo struct{ DB *sql.DB }

func NewOwnedTicketRepo(db *sql.DB) *OwnedTicketRepo { return &OwnedTicketRepo{DB: db} }

// OwnedTicketDetail is an owned ticket joined with ticket and temple display
// fields for client rendering.
type OwnedTicketDetail struct {
	ID             uint64    `json:"id"`
	UserID         uint64    `json:"user_id"`
	TicketID       uint64    `json:"ticket_id"`
	TransactionID  *uint64   `json:"transaction_id,omitempty"`
	UniqueCode     string    `json:"unique_code"`
	UsageStatus    string    `json:"usage_status"`
	ValidDate      string    `json:"valid_date"`
	TicketPrice    int64     `json:"ticket_price"`
	TempleTitle    string    `json:"temple_title"`
	TempleLocation string    `json:"temple_location_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

const ownedTicketDetailQuery = `
SELECT o.id, o.user_id, o.ticket_id, o.transaction_id, o.unique_code,
       o.usage_status, o.valid_date, k.price, t.title, t.location_url,
       o.created_at, o.updated_at
FROM owned_tickets o
JOIN tickets k ON k.id = o.ticket_id
JOIN temples t ON t.id = k.temple_id`

// CreateBatchTx inserts the given owned-ticket records in a single statement
// within an existing SQL transaction. The generated IDs are populated in
// order, relying on MySQL's contiguous auto-increment allocation for
// multi-row inserts. Passing an empty slice has no effect.
func (r *OwnedTicketRepo) CreateBatchTx(ctx context.Context, tx *sql.Tx, recs []model.OwnedTicket) error {
	if len(recs) == 0 {
		return nil
	}
	query := "INSERT INTO owned_tickets (user_id, ticket_id, transaction_id, unique_code, usage_status, valid_date) VALUES "
	args := make([]interface{}, 0, len(recs)*6)
	for i := range recs {
		if i > 0 {
			query += ","
		}
		query += "(?,?,?,?,?,?)"
		args = append(args, recs[i].UserID, recs[i].TicketID, recs[i].TransactionID,
			recs[i].UniqueCode, recs[i].UsageStatus, recs[i].ValidDate)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	first, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for i := range recs {
		recs[i].ID = uint64(first) + uint64(i)
	}
	return nil
}

// Create inserts a standalone owned ticket (no owning transaction) and
// populates the generated ID on the record.
func (r *OwnedTicketRepo) Create(ctx context.Context, rec *model.OwnedTicket) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO owned_tickets (user_id, ticket_id, transaction_id, unique_code, usage_status, valid_date) VALUES (?,?,?,?,?,?)",
		rec.UserID, rec.TicketID, rec.TransactionID, rec.UniqueCode, rec.UsageStatus, rec.ValidDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM owned_tickets WHERE id=?", rec.ID).
		Scan(&rec.CreatedAt, &rec.UpdatedAt)
}

// ListByUser returns the caller's owned tickets with display data, newest
// first.
func (r *OwnedTicketRepo) ListByUser(ctx context.Context, userID uint64) ([]OwnedTicketDetail, error) {
	rows, err := r.DB.QueryContext(ctx,
		ownedTicketDetailQuery+" WHERE o.user_id = ? ORDER BY o.id DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]OwnedTicketDetail, 0)
	for rows.Next() {
		var d OwnedTicketDetail
		if err := scanOwnedTicketDetail(rows.Scan, &d); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// ListByTransactionTx returns the owned tickets minted for a transaction,
// read within the creating SQL transaction so the purchase response reflects
// exactly what was committed.
func (r *OwnedTicketRepo) ListByTransactionTx(ctx context.Context, tx *sql.Tx, transactionID uint64) ([]OwnedTicketDetail, error) {
	rows, err := tx.QueryContext(ctx,
		ownedTicketDetailQuery+" WHERE o.transaction_id = ? ORDER BY o.id", transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]OwnedTicketDetail, 0)
	for rows.Next() {
		var d OwnedTicketDetail
		if err := scanOwnedTicketDetail(rows.Scan, &d); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// GetForUser returns a single owned ticket with display data. Ownership is
// part of the predicate: another user's ticket reads as ErrNotFound.
func (r *OwnedTicketRepo) GetForUser(ctx context.Context, id, userID uint64) (OwnedTicketDetail, error) {
	var d OwnedTicketDetail
	row := r.DB.QueryRowContext(ctx,
		ownedTicketDetailQuery+" WHERE o.id = ? AND o.user_id = ? LIMIT 1", id, userID)
	err := scanOwnedTicketDetail(row.Scan, &d)
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	return d, err
}

// Redeem transitions an owned ticket from unused to used with a single
// conditional update, so two concurrent redemptions cannot both succeed. When
// no row is affected a follow-up read distinguishes the already-used case
// (ErrConflict) from a missing or foreign ticket (ErrNotFound). On success
// the updated record is returned with display data.
func (r *OwnedTicketRepo) Redeem(ctx context.Context, id, userID uint64) (OwnedTicketDetail, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE owned_tickets SET usage_status=?, updated_at=NOW() WHERE id=? AND user_id=? AND usage_status=?",
		model.UsageStatusUsed, id, userID, model.UsageStatusUnused)
	if err != nil {
		return OwnedTicketDetail{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return OwnedTicketDetail{}, err
	}
	if n == 0 {
		d, err := r.GetForUser(ctx, id, userID)
		if err != nil {
			return OwnedTicketDetail{}, err // ErrNotFound or query failure
		}
		if d.UsageStatus == model.UsageStatusUsed {
			return OwnedTicketDetail{}, ErrConflict
		}
		return OwnedTicketDetail{}, ErrNotFound
	}
	return r.GetForUser(ctx, id, userID)
}

func scanOwnedTicketDetail(scan func(...interface{}) error, d *OwnedTicketDetail) error {
	var txID sql.NullInt64
	if err := scan(&d.ID, &d.UserID, &d.TicketID, &txID, &d.UniqueCode,
		&d.UsageStatus, &d.ValidDate, &d.TicketPrice, &d.TempleTitle,
		&d.TempleLocation, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return err
	}
	if txID.Valid {
		v := uint64(txID.Int64)
		d.TransactionID = &v
	}
	return nil
}
