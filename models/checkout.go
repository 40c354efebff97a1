package models

import (
	"time"

	"bookstore/pricing"
)

type CheckoutStep string

const (
	StepAddress        CheckoutStep = "address"
	StepPaymentMethod  CheckoutStep = "payment_method"
	StepReview         CheckoutStep = "review"
	StepPaymentPending CheckoutStep = "payment_pending"
	StepCompleted      CheckoutStep = "completed"
)

var stepOrder = map[CheckoutStep]int{
	StepAddress:        0,
	StepPaymentMethod:  1,
	StepReview:         2,
	StepPaymentPending: 3,
	StepCompleted:      4,
}

// Reached reports whether s is at or past other in the checkout flow.
func (s CheckoutStep) Reached(other CheckoutStep) bool {
	return stepOrder[s] >= stepOrder[other]
}

type CheckoutSession struct {
	ID              string           `json:"id"`
	UserID          int              `json:"user_id"`
	Step            CheckoutStep     `json:"step"`
	Address         *ShippingAddress `json:"address,omitempty"`
	PaymentMethodID int              `json:"payment_method_id,omitempty"`
	PaymentIntentID string           `json:"payment_intent_id,omitempty"`
	ClientSecret    string           `json:"client_secret,omitempty"`
	Amount          int              `json:"amount,omitempty"`
	Currency        string           `json:"currency,omitempty"`
	OrderID         int              `json:"order_id,omitempty"`
	// Lines and Totals are captured at confirmation and are what the order records.
	Lines     []OrderItem     `json:"lines,omitempty"`
	Totals    *pricing.Totals `json:"totals,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CheckoutReview struct {
	Session       *CheckoutSession `json:"session"`
	PaymentMethod *PaymentMethod   `json:"payment_method"`
	Cart          *CartView        `json:"cart"`
}

type CheckoutConfirmation struct {
	Session         *CheckoutSession `json:"session"`
	PaymentIntentID string           `json:"payment_intent_id"`
	ClientSecret    string           `json:"client_secret"`
	Amount          int              `json:"amount"`
	Currency        string           `json:"currency"`
}
