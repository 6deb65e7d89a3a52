package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"installment-backoffice/db"
	"installment-backoffice/models"
)

// OrderRepository handles database operations for orders
type OrderRepository struct {
	log *zap.Logger
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(log *zap.Logger) *OrderRepository {
	return &OrderRepository{log: log.Named("repository.order")}
}

// Ensure OrderRepository implements OrderRepositoryInterface
var _ OrderRepositoryInterface = (*OrderRepository)(nil)

const orderColumns = `id, customer_id, total_amount, payment_method, status, order_date, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	if err := row.Scan(
		&o.ID,
		&o.CustomerID,
		&o.TotalAmount,
		&o.PaymentMethod,
		&o.Status,
		&o.OrderDate,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts the order header and returns the stored row
func (r *OrderRepository) Create(ctx context.Context, header models.OrderHeader) (*models.Order, error) {
	query := `
		INSERT INTO orders (customer_id, total_amount, payment_method, status, order_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + orderColumns

	order, err := scanOrder(db.DB.QueryRowContext(ctx, query,
		header.CustomerID,
		header.TotalAmount,
		header.PaymentMethod,
		header.Status,
		header.OrderDate,
	))
	if err != nil {
		r.log.Error("CreateOrder: insert failed", zap.String("customer_id", header.CustomerID), zap.Error(err))
		return nil, fmt.Errorf("failed to insert order: %w", classify(err, false))
	}

	r.log.Info("CreateOrder: order created", zap.String("order_id", order.ID), zap.String("total", order.TotalAmount.StringFixed(2)))
	return order, nil
}

// GetByID returns a single order
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order %s: %w", id, classify(err, false))
	}
	return order, nil
}

// UpdateStatus changes the status of an order, nothing else
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status string) (*models.Order, error) {
	query := `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + orderColumns

	order, err := scanOrder(db.DB.QueryRowContext(ctx, query, id, status))
	if err != nil {
		r.log.Error("UpdateOrderStatus: update failed", zap.String("order_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update order status: %w", classify(err, false))
	}

	r.log.Info("UpdateOrderStatus: status changed", zap.String("order_id", id), zap.String("status", status))
	return order, nil
}

// Delete removes an order. Items, installments and payments go with it.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	res, err := db.DB.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", classify(err, true))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}

	r.log.Info("DeleteOrder: order deleted", zap.String("order_id", id))
	return nil
}

// CountByCustomer returns how many orders reference the customer
func (r *OrderRepository) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	var count int
	err := db.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE customer_id = $1`, customerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count customer orders: %w", classify(err, false))
	}
	return count, nil
}
