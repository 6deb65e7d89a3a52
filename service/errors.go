package service

import (
	"errors"
	"fmt"

	"installment-backoffice/models"
	"installment-backoffice/repository"
)

var (
	// ErrValidation is the root of pre-flight validation failures
	ErrValidation = models.ErrValidation
	// ErrNotFound is returned when an order, plan, customer or submission does not exist
	ErrNotFound = repository.ErrNotFound
	// ErrOrderLocked is returned when a shipped or delivered order is edited or deleted
	ErrOrderLocked = errors.New("order is locked")
	// ErrCustomerLocked is returned when a customer with orders is deleted
	ErrCustomerLocked = errors.New("customer has orders")
	// ErrOrderImmutable is returned when an edit touches anything but the status
	ErrOrderImmutable = errors.New("only the order status can be changed")
	// ErrInvalidStatus is returned for unknown order statuses
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrDuplicateSubmission is returned when an idempotency key was already claimed
	ErrDuplicateSubmission = errors.New("duplicate order submission")
	// ErrSubmissionAbandoned is returned when the caller cancels before the order is created
	ErrSubmissionAbandoned = errors.New("order submission abandoned")
)

// StageError reports a collaborator failure during an order submission.
// Stage is the stage that could not be reached; everything up to
// LastCompleted was persisted and is not rolled back.
type StageError struct {
	Stage         models.SubmissionStage
	LastCompleted models.SubmissionStage
	SubmissionID  string
	OrderID       string
	Err           error
}

func (e *StageError) Error() string {
	if e.OrderID == "" {
		return fmt.Sprintf("order submission %s failed at %s: %v", e.SubmissionID, e.Stage, e.Err)
	}
	return fmt.Sprintf("order submission %s failed at %s after %s (order %s): %v",
		e.SubmissionID, e.Stage, e.LastCompleted, e.OrderID, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FirstPaymentWarning describes a first payment that was recorded in a
// degraded way. It is reported alongside a successful result.
type FirstPaymentWarning struct {
	OrderID string
	Reason  string
}

func (w *FirstPaymentWarning) Error() string {
	return fmt.Sprintf("order %s: %s", w.OrderID, w.Reason)
}
