package model

import "time"

// Usage status values for an OwnedTicket. The Indonesian strings are part of
// the API contract and are stored verbatim. The only permitted transition is
// unused → used, performed by the redemption endpoint.
const (
	UsageStatusUnused = "Belum Digunakan"
	UsageStatusUsed   = "Sudah Digunakan"
)

// OwnedTicket is an individually redeemable instance of a purchased Ticket.
// TransactionID is nullable: tickets created directly (outside a purchase)
// have no owning transaction.
type OwnedTicket struct {
	ID            uint64    // owned_tickets.id
	UserID        uint64    // owned_tickets.user_id
	TicketID      uint64    // owned_tickets.ticket_id
	TransactionID *uint64   // owned_tickets.transaction_id (nullable)
	UniqueCode    string    // owned_tickets.unique_code (16 hex chars)
	UsageStatus   string    // owned_tickets.usage_status
	ValidDate     string    // owned_tickets.valid_date
	CreatedAt     time.Time // owned_tickets.created_at
	UpdatedAt     time.Time // owned_tickets.updated_at
}
