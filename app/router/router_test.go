package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"installment-backoffice/app/controller"
	"installment-backoffice/models"
)

type stubOrders struct{}

func (stubOrders) GetDetail(ctx context.Context, orderID string) (*models.OrderDetail, error) {
	return &models.OrderDetail{Order: models.Order{ID: orderID}}, nil
}

func (stubOrders) UpdateStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	return &models.Order{ID: orderID, Status: status}, nil
}

func (stubOrders) UpdateOrder(ctx context.Context, orderID string, req models.UpdateOrderRequest) (*models.Order, error) {
	return &models.Order{ID: orderID}, nil
}

func (stubOrders) DeleteOrder(ctx context.Context, orderID string) error { return nil }

func (stubOrders) DeleteCustomer(ctx context.Context, customerID string) error { return nil }

func (stubOrders) ListInstallments(ctx context.Context, orderID string) ([]models.Installment, error) {
	return nil, nil
}

func (stubOrders) RefreshOverdue(ctx context.Context) (int, error) { return 0, nil }

func newTestMux() *http.ServeMux {
	log := zap.NewNop()
	orders := stubOrders{}
	mux := http.NewServeMux()
	SetupRoutes(mux, &Controllers{
		Order:       controller.NewOrderController(nil, orders, log),
		Installment: controller.NewInstallmentController(nil, orders, log),
		Customer:    controller.NewCustomerController(orders, log),
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
	})
	return mux
}

func TestSetupRoutes_Dispatch(t *testing.T) {
	const id = "5b0f3c1e-2a7d-4a43-9e57-1f0c8c2f6a11"

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/ping", http.StatusOK},
		{http.MethodPost, "/ping", http.StatusMethodNotAllowed},
		{http.MethodGet, "/metrics", http.StatusTeapot},
		{http.MethodGet, "/admin/orders/" + id, http.StatusOK},
		{http.MethodDelete, "/admin/orders/" + id, http.StatusNoContent},
		{http.MethodPost, "/admin/orders/" + id, http.StatusMethodNotAllowed},
		{http.MethodGet, "/admin/orders/" + id + "/installments", http.StatusOK},
		{http.MethodPost, "/admin/orders/" + id + "/installments", http.StatusMethodNotAllowed},
		{http.MethodGet, "/admin/orders/" + id + "/status", http.StatusMethodNotAllowed},
		{http.MethodGet, "/admin/orders/not-a-uuid", http.StatusBadRequest},
		{http.MethodPost, "/admin/installments/refresh-overdue", http.StatusOK},
		{http.MethodDelete, "/admin/installment-plans", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/admin/customers/" + id, http.StatusNoContent},
	}

	mux := newTestMux()
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
