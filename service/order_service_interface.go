package service

import (
	"context"

	"installment-backoffice/models"
)

// OrderServiceInterface defines the contract for operations on existing orders
type OrderServiceInterface interface {
	GetDetail(ctx context.Context, orderID string) (*models.OrderDetail, error)
	UpdateStatus(ctx context.Context, orderID, status string) (*models.Order, error)
	UpdateOrder(ctx context.Context, orderID string, req models.UpdateOrderRequest) (*models.Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
	DeleteCustomer(ctx context.Context, customerID string) error
	ListInstallments(ctx context.Context, orderID string) ([]models.Installment, error)
	RefreshOverdue(ctx context.Context) (int, error)
}
