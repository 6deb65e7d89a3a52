package repository

import (
	"context"
	"time"

	"installment-backoffice/models"
)

// OrderRepositoryInterface defines the contract for order repository operations
type OrderRepositoryInterface interface {
	Create(ctx context.Context, header models.OrderHeader) (*models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status string) (*models.Order, error)
	Delete(ctx context.Context, id string) error
	CountByCustomer(ctx context.Context, customerID string) (int, error)
}

// OrderItemRepositoryInterface defines the contract for order item repository operations
type OrderItemRepositoryInterface interface {
	CreateBatch(ctx context.Context, orderID string, items []models.OrderItemInput) ([]models.OrderItem, error)
	ListByOrder(ctx context.Context, orderID string) ([]models.OrderItem, error)
}

// InstallmentRepositoryInterface defines the contract for installment repository operations
type InstallmentRepositoryInterface interface {
	GenerateSchedule(ctx context.Context, orderID, planID string, startDate time.Time) (*models.ScheduleResult, error)
	ListByOrderAndLabel(ctx context.Context, orderID, label string) ([]models.Installment, error)
	ListByOrder(ctx context.Context, orderID string) ([]models.Installment, error)
	Create(ctx context.Context, installment models.Installment) (*models.Installment, error)
	RefreshOverdue(ctx context.Context) (int, error)
}

// PaymentRepositoryInterface defines the contract for payment repository operations
type PaymentRepositoryInterface interface {
	ProcessInstallmentPayment(ctx context.Context, req models.InstallmentPaymentRequest) (*models.ProcessedPayment, error)
	Create(ctx context.Context, record models.PaymentRecord) (*models.Payment, error)
	ListByOrder(ctx context.Context, orderID string) ([]models.Payment, error)
}

// InstallmentPlanRepositoryInterface defines the contract for installment plan repository operations
type InstallmentPlanRepositoryInterface interface {
	GetByID(ctx context.Context, id string) (*models.InstallmentPlan, error)
	List(ctx context.Context) ([]models.InstallmentPlan, error)
	Create(ctx context.Context, plan models.InstallmentPlan) (*models.InstallmentPlan, error)
}

// CustomerRepositoryInterface defines the contract for customer repository operations
type CustomerRepositoryInterface interface {
	Delete(ctx context.Context, id string) error
}

// SubmissionRepositoryInterface defines the contract for the submission journal
type SubmissionRepositoryInterface interface {
	Begin(ctx context.Context, id string) error
	MarkStage(ctx context.Context, id string, stage models.SubmissionStage, orderID string) error
	MarkDone(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, stage models.SubmissionStage, cause string) error
	GetByID(ctx context.Context, id string) (*models.Submission, error)
}
