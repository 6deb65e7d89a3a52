package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"installment-backoffice/models"
	"installment-backoffice/repository"
	"installment-backoffice/utils"
)

// OrderService handles existing orders. Once created, an order only changes status;
// its items, schedule and payments are anchored to the original total.
type OrderService struct {
	orders       repository.OrderRepositoryInterface
	items        repository.OrderItemRepositoryInterface
	installments repository.InstallmentRepositoryInterface
	payments     repository.PaymentRepositoryInterface
	customers    repository.CustomerRepositoryInterface
	log          *zap.Logger
}

// Ensure OrderService implements OrderServiceInterface
var _ OrderServiceInterface = (*OrderService)(nil)

// NewOrderService creates a new OrderService
func NewOrderService(
	orders repository.OrderRepositoryInterface,
	items repository.OrderItemRepositoryInterface,
	installments repository.InstallmentRepositoryInterface,
	payments repository.PaymentRepositoryInterface,
	customers repository.CustomerRepositoryInterface,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:       orders,
		items:        items,
		installments: installments,
		payments:     payments,
		customers:    customers,
		log:          log.Named("service.order"),
	}
}

// GetDetail returns an order with its items, schedule and payments
func (s *OrderService) GetDetail(ctx context.Context, orderID string) (*models.OrderDetail, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items, err := s.items.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	installments, err := s.installments.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &models.OrderDetail{
		Order:        *order,
		Items:        items,
		Installments: installments,
		Payments:     payments,
	}, nil
}

// UpdateStatus is the only mutation allowed on an existing order
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	status = utils.NormalizeCode(status)
	if !models.IsValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateOrder applies a full edit. Locked orders reject every full edit; other
// orders accept it only when nothing but the status changes.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID string, req models.UpdateOrderRequest) (*models.Order, error) {
	current, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if models.IsLockedStatus(current.Status) {
		s.log.Warn("UpdateOrder: order is locked", zap.String("order_id", orderID), zap.String("status", current.Status))
		return nil, fmt.Errorf("%w: order %s is %s", ErrOrderLocked, orderID, current.Status)
	}
	if req.TouchesImmutableFields() {
		return nil, fmt.Errorf("%w: order %s", ErrOrderImmutable, orderID)
	}
	if req.Status == nil {
		return current, nil
	}
	return s.UpdateStatus(ctx, orderID, *req.Status)
}

// DeleteOrder removes an order that has not been shipped or delivered
func (s *OrderService) DeleteOrder(ctx context.Context, orderID string) error {
	current, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if models.IsLockedStatus(current.Status) {
		s.log.Warn("DeleteOrder: order is locked", zap.String("order_id", orderID), zap.String("status", current.Status))
		return fmt.Errorf("%w: order %s is %s", ErrOrderLocked, orderID, current.Status)
	}
	return s.orders.Delete(ctx, orderID)
}

// DeleteCustomer removes a customer without orders
func (s *OrderService) DeleteCustomer(ctx context.Context, customerID string) error {
	count, err := s.orders.CountByCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	if count > 0 {
		s.log.Warn("DeleteCustomer: customer has orders", zap.String("customer_id", customerID), zap.Int("orders", count))
		return fmt.Errorf("%w: customer %s has %d orders", ErrCustomerLocked, customerID, count)
	}

	if err := s.customers.Delete(ctx, customerID); err != nil {
		// an order created after the count still blocks the delete
		if errors.Is(err, repository.ErrReferenced) {
			return fmt.Errorf("%w: customer %s", ErrCustomerLocked, customerID)
		}
		return err
	}
	return nil
}

// ListInstallments returns the schedule of an order
func (s *OrderService) ListInstallments(ctx context.Context, orderID string) ([]models.Installment, error) {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.installments.ListByOrder(ctx, orderID)
}

// RefreshOverdue marks pending installments past due as late
func (s *OrderService) RefreshOverdue(ctx context.Context) (int, error) {
	return s.installments.RefreshOverdue(ctx)
}
