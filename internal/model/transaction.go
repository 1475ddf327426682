package model

import "time"

// TransactionStatusSuccess is the only status a transaction ever carries:
// payment processing is out of scope and a purchase is considered successful
// the instant it is recorded.
const TransactionStatusSuccess = "success"

// Transaction records a purchase event covering one or more OwnedTicket
// units. TotalPrice is computed as ticket price × quantity at creation time
// and never re-validated later.
type Transaction struct {
	ID              uint64    // transactions.id
	UserID          uint64    // transactions.user_id
	TicketID        uint64    // transactions.ticket_id
	Quantity        int       // transactions.quantity
	TotalPrice      int64     // transactions.total_price (whole rupiah)
	ValidDate       string    // transactions.valid_date (YYYY-MM-DD, accepted as-is)
	Status          string    // transactions.status
	TransactionDate time.Time // transactions.transaction_date
}
