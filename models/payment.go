package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents a payment in the database
type Payment struct {
	ID              string          `json:"id"`
	OrderID         string          `json:"orderId"`
	InstallmentID   *string         `json:"installmentId,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentDate     time.Time       `json:"paymentDate"`
	ReferenceNumber string          `json:"referenceNumber,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// PaymentRecord is the shape inserted directly into payments
type PaymentRecord struct {
	OrderID         string
	InstallmentID   *string
	Amount          decimal.Decimal
	PaymentMethod   string
	PaymentDate     time.Time
	ReferenceNumber string
	Notes           string
}

// InstallmentPaymentRequest is the input of the payment processing procedure
type InstallmentPaymentRequest struct {
	OrderID         string
	InstallmentID   string
	Amount          decimal.Decimal
	PaymentMethod   string
	ReferenceNumber string
	Notes           string
}

// ProcessedPayment is returned by the payment processing procedure
type ProcessedPayment struct {
	PaymentID       string          `json:"payment_id"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

// FirstPaymentInput is the payment collected while submitting a financed order.
// A zero Amount means "use the suggested amount".
// Example: {"amount": "183.33", "paymentMethod": "cash", "referenceNumber": "R-1"}
type FirstPaymentInput struct {
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentDate     string          `json:"paymentDate,omitempty"` // YYYY-MM-DD, defaults to today
	ReferenceNumber string          `json:"referenceNumber,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}
