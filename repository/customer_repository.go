package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"installment-backoffice/db"
)

// CustomerRepository handles the customer operations the back office guards
type CustomerRepository struct {
	log *zap.Logger
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(log *zap.Logger) *CustomerRepository {
	return &CustomerRepository{log: log.Named("repository.customer")}
}

// Ensure CustomerRepository implements CustomerRepositoryInterface
var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)

// Delete removes a customer. Returns ErrReferenced if orders still point at it.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	res, err := db.DB.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		r.log.Error("DeleteCustomer: delete failed", zap.String("customer_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete customer: %w", classify(err, true))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}

	r.log.Info("DeleteCustomer: customer deleted", zap.String("customer_id", id))
	return nil
}
