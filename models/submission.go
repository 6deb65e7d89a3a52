package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubmissionStage is a state of one order submission attempt
type SubmissionStage string

// Submission stages, in the order they are reached
const (
	StageIdle              SubmissionStage = "idle"
	StageOrderCreated      SubmissionStage = "order_created"
	StageItemsPersisted    SubmissionStage = "items_persisted"
	StageScheduleGenerated SubmissionStage = "schedule_generated"
	StagePaymentCaptured   SubmissionStage = "payment_captured"
	StageDone              SubmissionStage = "done"
)

// Submission statuses
const (
	SubmissionInProgress = "in_progress"
	SubmissionDone       = "done"
	SubmissionFailed     = "failed"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// Submission is the persisted journal of one submission attempt
type Submission struct {
	ID                 string          `json:"id"`
	Status             string          `json:"status"`
	LastCompletedStage SubmissionStage `json:"lastCompletedStage"`
	FailedStage        SubmissionStage `json:"failedStage,omitempty"`
	OrderID            string          `json:"orderId,omitempty"`
	Error              string          `json:"error,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// SubmitOrderRequest represents the request body for creating an order
// Example:
// {
//   "customerId": "6f1c...",
//   "paymentMethod": "installment",
//   "installmentPlanId": "0b4e...",
//   "orderDate": "2026-10-19",
//   "items": [{"productId": "a1...", "quantity": 2, "unitPrice": "500"}],
//   "firstPayment": {"paymentMethod": "cash"}
// }
type SubmitOrderRequest struct {
	CustomerID        string             `json:"customerId"`
	PaymentMethod     string             `json:"paymentMethod"`
	Status            string             `json:"status,omitempty"`
	OrderDate         string             `json:"orderDate,omitempty"`
	InstallmentPlanID string             `json:"installmentPlanId,omitempty"`
	Items             []OrderItemInput   `json:"items"`
	FirstPayment      *FirstPaymentInput `json:"firstPayment,omitempty"`
}

// SubmitOrderResponse is returned when a submission reaches Done
type SubmitOrderResponse struct {
	SubmissionID        string      `json:"submissionId"`
	Order               Order       `json:"order"`
	Items               []OrderItem `json:"items"`
	InstallmentsCreated int         `json:"installmentsCreated"`
	Payment             *Payment    `json:"payment,omitempty"`
	Warnings            []string    `json:"warnings,omitempty"`
}

// QuoteRequest asks for the payable total of a prospective order
// Example: {"paymentMethod": "installment", "installmentPlanId": "0b4e...", "items": [...]}
type QuoteRequest struct {
	PaymentMethod     string           `json:"paymentMethod"`
	InstallmentPlanID string           `json:"installmentPlanId,omitempty"`
	BaseAmount        *decimal.Decimal `json:"baseAmount,omitempty"`
	Items             []OrderItemInput `json:"items,omitempty"`
}

// QuoteResponse is the priced breakdown of a prospective order
type QuoteResponse struct {
	PaymentMethod         string          `json:"paymentMethod"`
	InstallmentPlanID     string          `json:"installmentPlanId,omitempty"`
	Base                  decimal.Decimal `json:"base"`
	Advance               decimal.Decimal `json:"advance"`
	Remaining             decimal.Decimal `json:"remaining"`
	Interest              decimal.Decimal `json:"interest"`
	Total                 decimal.Decimal `json:"total"`
	SuggestedFirstPayment decimal.Decimal `json:"suggestedFirstPayment"`
}
