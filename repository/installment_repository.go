package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"installment-backoffice/db"
	"installment-backoffice/models"
)

// InstallmentRepository handles database operations for installments and the
// schedule procedures behind them
type InstallmentRepository struct {
	log *zap.Logger
}

// NewInstallmentRepository creates a new InstallmentRepository
func NewInstallmentRepository(log *zap.Logger) *InstallmentRepository {
	return &InstallmentRepository{log: log.Named("repository.installment")}
}

// Ensure InstallmentRepository implements InstallmentRepositoryInterface
var _ InstallmentRepositoryInterface = (*InstallmentRepository)(nil)

const installmentColumns = `id, order_id, installment_plan_id, installment_number, due_date, amount, status, late_fee, payment_date, created_at`

func scanInstallment(row rowScanner) (*models.Installment, error) {
	var in models.Installment
	var paymentDate sql.NullTime
	if err := row.Scan(
		&in.ID,
		&in.OrderID,
		&in.PlanID,
		&in.Label,
		&in.DueDate,
		&in.Amount,
		&in.Status,
		&in.LateFee,
		&paymentDate,
		&in.CreatedAt,
	); err != nil {
		return nil, err
	}
	if paymentDate.Valid {
		in.PaymentDate = &paymentDate.Time
	}
	return &in, nil
}

// GenerateSchedule calls create_installments_for_order
func (r *InstallmentRepository) GenerateSchedule(ctx context.Context, orderID, planID string, startDate time.Time) (*models.ScheduleResult, error) {
	var raw []byte
	err := db.DB.QueryRowContext(ctx,
		`SELECT create_installments_for_order($1, $2, $3::date)`,
		orderID, planID, startDate.Format(models.DateLayout),
	).Scan(&raw)
	if err != nil {
		r.log.Error("GenerateSchedule: procedure failed", zap.String("order_id", orderID), zap.String("plan_id", planID), zap.Error(err))
		return nil, fmt.Errorf("failed to generate installment schedule: %w", classify(err, false))
	}

	var result models.ScheduleResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode schedule result: %w", err)
	}

	r.log.Info("GenerateSchedule: schedule generated", zap.String("order_id", orderID), zap.Int("installments_created", result.InstallmentsCreated))
	return &result, nil
}

// ListByOrderAndLabel returns the installments of an order carrying the given sequence label
func (r *InstallmentRepository) ListByOrderAndLabel(ctx context.Context, orderID, label string) ([]models.Installment, error) {
	query := `SELECT ` + installmentColumns + `
		FROM installments
		WHERE order_id = $1 AND installment_number = $2
		ORDER BY due_date, created_at`
	return r.list(ctx, query, orderID, label)
}

// ListByOrder returns the whole schedule of an order, earliest due date first
func (r *InstallmentRepository) ListByOrder(ctx context.Context, orderID string) ([]models.Installment, error) {
	query := `SELECT ` + installmentColumns + `
		FROM installments
		WHERE order_id = $1
		ORDER BY due_date, created_at`
	return r.list(ctx, query, orderID)
}

func (r *InstallmentRepository) list(ctx context.Context, query string, args ...any) ([]models.Installment, error) {
	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", classify(err, false))
	}
	defer rows.Close()

	installments := []models.Installment{}
	for rows.Next() {
		in, err := scanInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		installments = append(installments, *in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate installments: %w", err)
	}
	return installments, nil
}

// Create inserts a single installment row outside the generated schedule
func (r *InstallmentRepository) Create(ctx context.Context, in models.Installment) (*models.Installment, error) {
	var paymentDate sql.NullTime
	if in.PaymentDate != nil {
		paymentDate = sql.NullTime{Time: *in.PaymentDate, Valid: true}
	}

	query := `
		INSERT INTO installments (order_id, installment_plan_id, installment_number, due_date, amount, status, late_fee, payment_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + installmentColumns

	created, err := scanInstallment(db.DB.QueryRowContext(ctx, query,
		in.OrderID,
		in.PlanID,
		in.Label,
		in.DueDate,
		in.Amount,
		in.Status,
		in.LateFee,
		paymentDate,
	))
	if err != nil {
		r.log.Error("CreateInstallment: insert failed", zap.String("order_id", in.OrderID), zap.String("label", in.Label), zap.Error(err))
		return nil, fmt.Errorf("failed to insert installment: %w", classify(err, false))
	}

	r.log.Info("CreateInstallment: installment created", zap.String("order_id", created.OrderID), zap.String("installment_id", created.ID), zap.String("label", created.Label))
	return created, nil
}

// RefreshOverdue flags pending installments past their due date as late
func (r *InstallmentRepository) RefreshOverdue(ctx context.Context) (int, error) {
	var updated int
	if err := db.DB.QueryRowContext(ctx, `SELECT update_overdue_installments()`).Scan(&updated); err != nil {
		r.log.Error("RefreshOverdue: procedure failed", zap.Error(err))
		return 0, fmt.Errorf("failed to refresh overdue installments: %w", err)
	}

	r.log.Info("RefreshOverdue: installments updated", zap.Int("updated", updated))
	return updated, nil
}
