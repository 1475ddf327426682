package model

import "time"

// Ticket is a purchasable admission product tied to a Temple. Prices are whole
// rupiah stored as integers, so price arithmetic is exact.
type Ticket struct {
	ID          uint64    // tickets.id
	TempleID    uint64    // tickets.temple_id
	Price       int64     // tickets.price (whole rupiah)
	Description string    // tickets.description
	CreatedAt   time.Time // tickets.created_at
	UpdatedAt   time.Time // tickets.updated_at
}
