package models

import (
	"time"

	"bookstore/pricing"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusPaid       = "paid"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"

	ChannelOnline = "online"
	ChannelPOS    = "pos"

	PaymentTypeCard = "card"
	PaymentTypeCash = "cash"
)

// orderTransitions lists the statuses an order may move to from each status.
var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:       {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusCompleted},
}

func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type ShippingAddress struct {
	FullName   string `json:"full_name" binding:"required,min=3,max=100"`
	Phone      string `json:"phone" binding:"omitempty,max=20"`
	Line       string `json:"line" binding:"required,max=255"`
	City       string `json:"city" binding:"required,max=100"`
	PostalCode string `json:"postal_code" binding:"required,max=20"`
	Country    string `json:"country" binding:"required,len=2"`
}

func (a ShippingAddress) IsComplete() bool {
	return a.FullName != "" && a.Line != "" && a.City != "" && a.PostalCode != "" && a.Country != ""
}

type Order struct {
	ID              int             `json:"id"`
	OrderNumber     string          `json:"order_number"`
	UserID          *int            `json:"user_id,omitempty"`
	StaffID         *int            `json:"staff_id,omitempty"`
	Channel         string          `json:"channel"`
	Status          string          `json:"status"`
	Shipping        ShippingAddress `json:"shipping"`
	CustomerEmail   string          `json:"customer_email,omitempty"`
	PaymentMethodID *int            `json:"payment_method_id,omitempty"`
	PaymentIntentID *string         `json:"payment_intent_id,omitempty"`
	PaymentType     *string         `json:"payment_type,omitempty"`
	Subtotal        int             `json:"subtotal"`
	DiscountTotal   int             `json:"discount_total"`
	ShippingFee     int             `json:"shipping_fee"`
	Total           int             `json:"total"`
	Items           []OrderItem     `json:"items,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID        int    `json:"id"`
	OrderID   int    `json:"order_id"`
	BookID    int    `json:"book_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	ListPrice int    `json:"list_price"`
	UnitPrice int    `json:"unit_price"`
	LineTotal int    `json:"line_total"`
}

type OrderSummary struct {
	ID          int       `json:"id"`
	OrderNumber string    `json:"order_number"`
	Channel     string    `json:"channel"`
	Status      string    `json:"status"`
	Total       int       `json:"total"`
	ItemCount   int       `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type OrderFilter struct {
	Page    int
	Limit   int
	Status  string
	Channel string
	Search  string
}

// FinalizeCheckoutParams carries what the finalize-order transaction needs to
// record a paid online order. Lines and Totals are the cart as it was charged.
type FinalizeCheckoutParams struct {
	UserID          int
	CustomerEmail   string
	OrderNumber     string
	PaymentIntentID string
	PaymentMethodID int
	Shipping        ShippingAddress
	Lines           []OrderItem
	Totals          pricing.Totals
	ExpectedTotal   int
}
