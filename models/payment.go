package models

import "time"

const (
	IntentRequiresPaymentMethod = "requires_payment_method"
	IntentRequiresConfirmation  = "requires_confirmation"
	IntentRequiresAction        = "requires_action"
	IntentProcessing            = "processing"
	IntentSucceeded             = "succeeded"
	IntentCanceled              = "canceled"
)

type PaymentMethod struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id"`
	ProcessorToken string    `json:"-"`
	Brand          string    `json:"brand"`
	Last4          string    `json:"last4"`
	ExpMonth       int       `json:"exp_month"`
	ExpYear        int       `json:"exp_year"`
	IsDefault      bool      `json:"is_default"`
	CreatedAt      time.Time `json:"created_at"`
}

type PaymentIntent struct {
	ID           string            `json:"id"`
	Amount       int               `json:"amount"`
	Currency     string            `json:"currency"`
	Status       string            `json:"status"`
	ClientSecret string            `json:"client_secret"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type CreatePaymentIntentParams struct {
	Amount         int
	Currency       string
	PaymentMethod  string
	CustomerEmail  string
	IdempotencyKey string
	Metadata       map[string]string
}
