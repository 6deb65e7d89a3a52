package controller

import (
	"net/http"

	"go.uber.org/zap"

	"installment-backoffice/service"
)

// CustomerController handles the guarded customer operations
type CustomerController struct {
	orders service.OrderServiceInterface
	log    *zap.Logger
}

// NewCustomerController creates a new CustomerController
func NewCustomerController(orders service.OrderServiceInterface, log *zap.Logger) *CustomerController {
	return &CustomerController{orders: orders, log: log.Named("controller.customer")}
}

// DeleteCustomer handles DELETE /admin/customers/{id}
// Customers with orders cannot be deleted (409).
func (c *CustomerController) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, c.log, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	customerID, ok := pathID(r.URL.Path, "/admin/customers/", "")
	if !ok {
		writeError(w, c.log, http.StatusBadRequest, "invalid customer id")
		return
	}

	if err := c.orders.DeleteCustomer(r.Context(), customerID); err != nil {
		writeServiceError(w, c.log, "DeleteCustomer", err)
		return
	}

	c.log.Info("DeleteCustomer: customer deleted", zap.String("customer_id", customerID))
	w.WriteHeader(http.StatusNoContent)
}
