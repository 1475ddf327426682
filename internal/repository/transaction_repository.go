package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/artefacto/heritage-api/internal/model"
)

// TransactionRepo provides persistence for the `transactions` table. The
// purchase flow writes through CreateTx inside an explicit SQL transaction so
// the transaction row and its owned tickets commit together or not at all.
type TransactionRepo struct{ DB *sql.DB }

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{DB: db} }

// TransactionDetail is a transaction joined with ticket and temple display
// fields, returned by the listing endpoints and the purchase response.
type TransactionDetail struct {
	ID              uint64    `json:"id"`
	UserID          uint64    `json:"user_id"`
	TicketID        uint64    `json:"ticket_id"`
	Quantity        int       `json:"quantity"`
	TotalPrice      int64     `json:"total_price"`
	ValidDate       string    `json:"valid_date"`
	Status          string    `json:"status"`
	TransactionDate time.Time `json:"transaction_date"`
	TicketPrice     int64     `json:"ticket_price"`
	TempleTitle     string    `json:"temple_title"`
	TempleLocation  string    `json:"temple_location_url"`
}

const transactionDetailQuery = `
SELECT x.id, x.user_id, x.ticket_id, x.quantity, x.total_price, x.valid_date,
       x.status, x.transaction_date, k.price, t.title, t.location_url
FROM transactions x
JOIN tickets k ON k.id = x.ticket_id
JOIN temples t ON t.id = k.temple_id`

// CreateTx inserts a transaction row within the scope of an existing SQL
// transaction and populates the generated ID on the record. The caller must
// commit or roll back.
func (r *TransactionRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *model.Transaction) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO transactions (user_id, ticket_id, quantity, total_price, valid_date, status, transaction_date) VALUES (?,?,?,?,?,?,?)",
		rec.UserID, rec.TicketID, rec.Quantity, rec.TotalPrice, rec.ValidDate, rec.Status, rec.TransactionDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// ListByUser returns the caller's transactions, newest first.
func (r *TransactionRepo) ListByUser(ctx context.Context, userID uint64) ([]TransactionDetail, error) {
	return r.list(ctx, transactionDetailQuery+" WHERE x.user_id = ? ORDER BY x.transaction_date DESC", userID)
}

// ListAll returns every transaction, newest first. Admin listing only.
func (r *TransactionRepo) ListAll(ctx context.Context) ([]TransactionDetail, error) {
	return r.list(ctx, transactionDetailQuery+" ORDER BY x.transaction_date DESC")
}

func (r *TransactionRepo) list(ctx context.Context, q string, args ...interface{}) ([]TransactionDetail, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]TransactionDetail, 0)
	for rows.Next() {
		var d TransactionDetail
		if err := rows.Scan(&d.ID, &d.UserID, &d.TicketID, &d.Quantity, &d.TotalPrice,
			&d.ValidDate, &d.Status, &d.TransactionDate, &d.TicketPrice,
			&d.TempleTitle, &d.TempleLocation); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
