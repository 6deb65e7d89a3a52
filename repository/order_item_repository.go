package repository

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"installment-backoffice/db"
	"installment-backoffice/models"
)

// OrderItemRepository handles database operations for order line items
type OrderItemRepository struct {
	log *zap.Logger
}

// NewOrderItemRepository creates a new OrderItemRepository
func NewOrderItemRepository(log *zap.Logger) *OrderItemRepository {
	return &OrderItemRepository{log: log.Named("repository.order_item")}
}

// Ensure OrderItemRepository implements OrderItemRepositoryInterface
var _ OrderItemRepositoryInterface = (*OrderItemRepository)(nil)

const orderItemColumns = `id, order_id, product_id, quantity, unit_price, total_price, created_at`

// CreateBatch inserts every line of an order in a single statement
func (r *OrderItemRepository) CreateBatch(ctx context.Context, orderID string, items []models.OrderItemInput) ([]models.OrderItem, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no order items to insert")
	}

	values := make([]string, 0, len(items))
	args := make([]any, 0, len(items)*5)
	for i, item := range items {
		n := i * 5
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5))
		args = append(args, orderID, item.ProductID, item.Quantity, item.UnitPrice, item.LineTotal())
	}

	query := `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price, total_price)
		VALUES ` + strings.Join(values, ", ") + `
		RETURNING ` + orderItemColumns

	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Error("CreateOrderItems: insert failed", zap.String("order_id", orderID), zap.Int("items", len(items)), zap.Error(err))
		return nil, fmt.Errorf("failed to insert order items: %w", classify(err, false))
	}
	defer rows.Close()

	created := make([]models.OrderItem, 0, len(items))
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		created = append(created, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to insert order items: %w", classify(err, false))
	}

	r.log.Info("CreateOrderItems: items created", zap.String("order_id", orderID), zap.Int("items", len(created)))
	return created, nil
}

// ListByOrder returns the lines of an order
func (r *OrderItemRepository) ListByOrder(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + ` FROM order_items WHERE order_id = $1 ORDER BY created_at, id`

	rows, err := db.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", classify(err, false))
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
