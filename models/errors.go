package models

import "errors"

var (
	ErrNotFound            = errors.New("record not found")
	ErrBookUnavailable     = errors.New("book is not available")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrCartEmpty           = errors.New("cart is empty")
	ErrForbidden           = errors.New("access denied")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrCheckoutStep        = errors.New("checkout step not allowed")
	ErrPaymentNotCompleted = errors.New("payment has not succeeded")
	ErrPaymentMismatch     = errors.New("payment does not match order total")
	ErrPaymentGateway      = errors.New("payment processor error")
	ErrTransactionClosed   = errors.New("transaction is no longer open")
	ErrInvalidTransition   = errors.New("invalid status transition")
)

// ValidationError reports a rule violation in caller input.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string { return e.Message }

func NewValidationError(msg string) error {
	return ValidationError{Message: msg}
}

func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}
