package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"installment-backoffice/db"
	"installment-backoffice/models"
)

// InstallmentPlanRepository handles database operations for installment plans
type InstallmentPlanRepository struct {
	log *zap.Logger
}

// NewInstallmentPlanRepository creates a new InstallmentPlanRepository
func NewInstallmentPlanRepository(log *zap.Logger) *InstallmentPlanRepository {
	return &InstallmentPlanRepository{log: log.Named("repository.installment_plan")}
}

// Ensure InstallmentPlanRepository implements InstallmentPlanRepositoryInterface
var _ InstallmentPlanRepositoryInterface = (*InstallmentPlanRepository)(nil)

const planColumns = `id, name, plan_type, duration, interest_rate, grace_period, advance_payment_amount, created_at, updated_at`

func scanPlan(row rowScanner) (*models.InstallmentPlan, error) {
	var p models.InstallmentPlan
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Type,
		&p.Duration,
		&p.InterestRate,
		&p.GracePeriod,
		&p.AdvancePaymentAmount,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID returns a single plan
func (r *InstallmentPlanRepository) GetByID(ctx context.Context, id string) (*models.InstallmentPlan, error) {
	plan, err := scanPlan(db.DB.QueryRowContext(ctx, `SELECT `+planColumns+` FROM installment_plans WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch installment plan %s: %w", id, classify(err, false))
	}
	return plan, nil
}

// List returns every plan ordered by name
func (r *InstallmentPlanRepository) List(ctx context.Context) ([]models.InstallmentPlan, error) {
	rows, err := db.DB.QueryContext(ctx, `SELECT `+planColumns+` FROM installment_plans ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list installment plans: %w", err)
	}
	defer rows.Close()

	plans := []models.InstallmentPlan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment plan: %w", err)
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

// Create inserts a validated plan
func (r *InstallmentPlanRepository) Create(ctx context.Context, plan models.InstallmentPlan) (*models.InstallmentPlan, error) {
	query := `
		INSERT INTO installment_plans (name, plan_type, duration, interest_rate, grace_period, advance_payment_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + planColumns

	created, err := scanPlan(db.DB.QueryRowContext(ctx, query,
		plan.Name,
		plan.Type,
		plan.Duration,
		plan.InterestRate,
		plan.GracePeriod,
		plan.AdvancePaymentAmount,
	))
	if err != nil {
		r.log.Error("CreateInstallmentPlan: insert failed", zap.String("name", plan.Name), zap.Error(err))
		return nil, fmt.Errorf("failed to insert installment plan: %w", err)
	}

	r.log.Info("CreateInstallmentPlan: plan created", zap.String("plan_id", created.ID), zap.String("plan_type", created.Type))
	return created, nil
}
