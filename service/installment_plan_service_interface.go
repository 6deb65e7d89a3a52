package service

import (
	"context"

	"installment-backoffice/models"
)

// InstallmentPlanServiceInterface defines the contract for installment plan operations
type InstallmentPlanServiceInterface interface {
	List(ctx context.Context) ([]models.InstallmentPlan, error)
	Create(ctx context.Context, req models.CreateInstallmentPlanRequest) (*models.InstallmentPlan, error)
}
