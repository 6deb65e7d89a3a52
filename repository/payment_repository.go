package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"installment-backoffice/db"
	"installment-backoffice/models"
)

// PaymentRepository handles database operations for payments
type PaymentRepository struct {
	log *zap.Logger
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(log *zap.Logger) *PaymentRepository {
	return &PaymentRepository{log: log.Named("repository.payment")}
}

// Ensure PaymentRepository implements PaymentRepositoryInterface
var _ PaymentRepositoryInterface = (*PaymentRepository)(nil)

const paymentColumns = `id, order_id, installment_id, amount, payment_method, payment_date, reference_number, notes, created_at`

func scanPayment(row rowScanner) (*models.Payment, error) {
	var p models.Payment
	var installmentID, reference, notes sql.NullString
	if err := row.Scan(
		&p.ID,
		&p.OrderID,
		&installmentID,
		&p.Amount,
		&p.PaymentMethod,
		&p.PaymentDate,
		&reference,
		&notes,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	if installmentID.Valid {
		p.InstallmentID = &installmentID.String
	}
	p.ReferenceNumber = reference.String
	p.Notes = notes.String
	return &p, nil
}

// ProcessInstallmentPayment calls process_payment, which records the payment
// and settles the installment it is linked to
func (r *PaymentRepository) ProcessInstallmentPayment(ctx context.Context, req models.InstallmentPaymentRequest) (*models.ProcessedPayment, error) {
	var raw []byte
	err := db.DB.QueryRowContext(ctx,
		`SELECT process_payment($1, $2, $3, $4, $5, $6)`,
		req.OrderID,
		req.Amount,
		req.PaymentMethod,
		req.InstallmentID,
		nullString(req.ReferenceNumber),
		nullString(req.Notes),
	).Scan(&raw)
	if err != nil {
		r.log.Error("ProcessPayment: procedure failed",
			zap.String("order_id", req.OrderID),
			zap.String("installment_id", req.InstallmentID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to process installment payment: %w", classify(err, false))
	}

	var result models.ProcessedPayment
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode payment result: %w", err)
	}

	r.log.Info("ProcessPayment: payment recorded",
		zap.String("order_id", req.OrderID),
		zap.String("payment_id", result.PaymentID),
		zap.String("remaining", result.RemainingAmount.StringFixed(2)),
	)
	return &result, nil
}

// Create inserts a payment row directly
func (r *PaymentRepository) Create(ctx context.Context, rec models.PaymentRecord) (*models.Payment, error) {
	var installmentID sql.NullString
	if rec.InstallmentID != nil {
		installmentID = sql.NullString{String: *rec.InstallmentID, Valid: true}
	}

	query := `
		INSERT INTO payments (order_id, installment_id, amount, payment_method, payment_date, reference_number, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + paymentColumns

	payment, err := scanPayment(db.DB.QueryRowContext(ctx, query,
		rec.OrderID,
		installmentID,
		rec.Amount,
		rec.PaymentMethod,
		rec.PaymentDate,
		nullString(rec.ReferenceNumber),
		nullString(rec.Notes),
	))
	if err != nil {
		r.log.Error("CreatePayment: insert failed", zap.String("order_id", rec.OrderID), zap.Error(err))
		return nil, fmt.Errorf("failed to insert payment: %w", classify(err, false))
	}

	r.log.Info("CreatePayment: payment created", zap.String("order_id", payment.OrderID), zap.String("payment_id", payment.ID))
	return payment, nil
}

// ListByOrder returns every payment of an order, oldest first
func (r *PaymentRepository) ListByOrder(ctx context.Context, orderID string) ([]models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1 ORDER BY payment_date, created_at`

	rows, err := db.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", classify(err, false))
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}
