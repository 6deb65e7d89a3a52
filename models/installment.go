package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installment statuses
const (
	InstallmentStatusPending = "pending"
	InstallmentStatusPaid    = "paid"
	InstallmentStatusLate    = "late"
)

// Installment sequence labels. Labels are opaque text: the generated schedule
// numbers its rows "1".."n" and the advance of a flexible plan is stored as its
// own row outside that sequence.
const (
	FirstInstallmentLabel = "1"
	AdvancePaymentLabel   = "Advance Payment"
)

// Installment represents one row of a repayment schedule
type Installment struct {
	ID          string              `json:"id"`
	OrderID     string              `json:"orderId"`
	PlanID      string              `json:"installmentPlanId"`
	Label       string              `json:"installmentNumber"`
	DueDate     time.Time           `json:"dueDate"`
	Amount      decimal.Decimal     `json:"amount"`
	Status      string              `json:"status"`
	LateFee     decimal.NullDecimal `json:"lateFee"`
	PaymentDate *time.Time          `json:"paymentDate,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// ScheduleResult is returned by the schedule generation procedure
type ScheduleResult struct {
	InstallmentsCreated int `json:"installments_created"`
}
