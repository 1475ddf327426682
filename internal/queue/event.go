// Package queue defines message payloads exchanged over the message broker
// and the background consumer that drains them.
package queue

// TicketPurchasedEvent is published after a purchase commits. It carries
// enough information for downstream consumers to log or notify without
// querying the primary database.
type TicketPurchasedEvent struct {
	TransactionID uint64   `json:"transaction_id"`
	UserID        uint64   `json:"user_id"`
	TicketID      uint64   `json:"ticket_id"`
	TempleTitle   string   `json:"temple_title"`
	Quantity      int      `json:"quantity"`
	TotalPrice    int64    `json:"total_price"`
	ValidDate     string   `json:"valid_date"`
	UniqueCodes   []string `json:"unique_codes"`
	PurchasedAt   string   `json:"purchased_at"`
}
