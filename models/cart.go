package models

import (
	"time"

	"bookstore/pricing"
)

type CartItem struct {
	ID        int       `json:"id,omitempty"`
	CartID    int       `json:"cart_id,omitempty"`
	BookID    int       `json:"book_id"`
	Book      *Book     `json:"book,omitempty"`
	Quantity  int       `json:"quantity"`
	UnitPrice int       `json:"unit_price"`
	LineTotal int       `json:"line_total"`
	AddedAt   time.Time `json:"added_at"`
}

type GuestCartItem struct {
	BookID   int       `json:"book_id"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

type GuestCart struct {
	GuestID   string          `json:"guest_id"`
	Items     []GuestCartItem `json:"items"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CartOwner identifies either a signed-in user or a guest session.
type CartOwner struct {
	UserID  int
	GuestID string
}

func (o CartOwner) IsGuest() bool {
	return o.UserID == 0
}

type CartView struct {
	UserID  int            `json:"user_id,omitempty"`
	GuestID string         `json:"guest_id,omitempty"`
	Items   []CartItem     `json:"items"`
	Totals  pricing.Totals `json:"totals"`
}
