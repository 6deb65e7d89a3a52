package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"installment-backoffice/models"
	"installment-backoffice/repository"
	"installment-backoffice/utils"
)

// InstallmentPlanService handles installment plan operations
type InstallmentPlanService struct {
	plans repository.InstallmentPlanRepositoryInterface
	log   *zap.Logger
}

// Ensure InstallmentPlanService implements InstallmentPlanServiceInterface
var _ InstallmentPlanServiceInterface = (*InstallmentPlanService)(nil)

// NewInstallmentPlanService creates a new InstallmentPlanService
func NewInstallmentPlanService(plans repository.InstallmentPlanRepositoryInterface, log *zap.Logger) *InstallmentPlanService {
	return &InstallmentPlanService{plans: plans, log: log.Named("service.installment_plan")}
}

// List returns every plan
func (s *InstallmentPlanService) List(ctx context.Context) ([]models.InstallmentPlan, error) {
	return s.plans.List(ctx)
}

// Create validates and stores a plan
func (s *InstallmentPlanService) Create(ctx context.Context, req models.CreateInstallmentPlanRequest) (*models.InstallmentPlan, error) {
	plan := models.InstallmentPlan{
		Name:                 strings.TrimSpace(req.Name),
		Type:                 utils.NormalizeCode(req.Type),
		Duration:             req.Duration,
		InterestRate:         req.InterestRate,
		GracePeriod:          req.GracePeriod,
		AdvancePaymentAmount: req.AdvancePaymentAmount,
	}
	if err := plan.Validate(); err != nil {
		s.log.Warn("CreateInstallmentPlan: invalid plan", zap.String("name", plan.Name), zap.Error(err))
		return nil, err
	}
	return s.plans.Create(ctx, plan)
}
