package controller

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"installment-backoffice/models"
	"installment-backoffice/service"
)

// IdempotencyKeyHeader carries the optional client key of a submission
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderController handles HTTP requests for orders
type OrderController struct {
	submissions service.OrderSubmissionServiceInterface
	orders      service.OrderServiceInterface
	log         *zap.Logger
}

// NewOrderController creates a new OrderController
func NewOrderController(submissions service.OrderSubmissionServiceInterface, orders service.OrderServiceInterface, log *zap.Logger) *OrderController {
	return &OrderController{
		submissions: submissions,
		orders:      orders,
		log:         log.Named("controller.order"),
	}
}

// SubmitOrder handles POST /admin/orders
// Example request:
// POST /admin/orders
// Idempotency-Key: 3f0c1c8e-...
//
//	{
//	  "customerId": "6f1c...",
//	  "paymentMethod": "installment",
//	  "installmentPlanId": "0b4e...",
//	  "items": [{"productId": "a1...", "quantity": 2, "unitPrice": "500"}],
//	  "firstPayment": {"paymentMethod": "cash"}
//	}
//
// Example response (201):
//
//	{
//	  "submissionId": "9d2e...",
//	  "order": {"id": "...", "totalAmount": "1100", "status": "pending", ...},
//	  "items": [...],
//	  "installmentsCreated": 6,
//	  "payment": {"id": "...", "installmentId": "...", "amount": "183.33", ...}
//	}
func (c *OrderController) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	c.log.Info("SubmitOrder: received request", zap.String("method", r.Method), zap.String("path", r.URL.Path))

	if r.Method != http.MethodPost {
		writeError(w, c.log, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.SubmitOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		c.log.Warn("SubmitOrder: failed to decode request body", zap.Error(err))
		writeError(w, c.log, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	resp, err := c.submissions.Submit(r.Context(), req, r.Header.Get(IdempotencyKeyHeader))
	if err != nil {
		writeServiceError(w, c.log, "SubmitOrder", err)
		return
	}

	c.log.Info("SubmitOrder: order created",
		zap.String("order_id", resp.Order.ID),
		zap.String("submission_id", resp.SubmissionID),
		zap.Int("warnings", len(resp.Warnings)),
	)
	writeJSON(w, c.log, http.StatusCreated, resp)
}

// QuoteOrder handles POST /admin/orders/quote
// Example request:
// {"paymentMethod": "installment", "installmentPlanId": "0b4e...", "baseAmount": "2000"}
// Example response:
// {"base": "2000", "advance": "500", "remaining": "1500", "interest": "75", "total": "2075", "suggestedFirstPayment": "500", ...}
func (c *OrderController) QuoteOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, c.log, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.QuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, c.log, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	quote, err := c.submissions.Quote(r.Context(), req)
	if err != nil {
		writeServiceError(w, c.log, "QuoteOrder", err)
		return
	}
	writeJSON(w, c.log, http.StatusOK, quote)
}

// GetOrder handles GET /admin/orders/{id}
func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r.URL.Path, "/admin/orders/", "")
	if !ok {
		writeError(w, c.log, http.StatusBadRequest, "invalid order id")
		return
	}

	detail, err := c.orders.GetDetail(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, c.log, "GetOrder", err)
		return
	}
	writeJSON(w, c.log, http.StatusOK, detail)
}

// UpdateOrderStatus handles PATCH /admin/orders/{id}/status
// Example request: {"status": "shipped"}
func (c *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r.URL.Path, "/admin/orders/", "/status")
	if !ok {
		writeError(w, c.log, http.StatusBadRequest, "invalid order id")
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, c.log, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		writeError(w, c.log, http.StatusBadRequest, "status is required")
		return
	}

	order, err := c.orders.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		writeServiceError(w, c.log, "UpdateOrderStatus", err)
		return
	}

	c.log.Info("UpdateOrderStatus: status updated", zap.String("order_id", order.ID), zap.String("status", order.Status))
	writeJSON(w, c.log, http.StatusOK, order)
}

// UpdateOrder handles PUT /admin/orders/{id}
// Only {"status": ...} is accepted; other fields are fixed once the order exists.
func (c *OrderController) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r.URL.Path, "/admin/orders/", "")
	if !ok {
		writeError(w, c.log, http.StatusBadRequest, "invalid order id")
		return
	}

	var req models.UpdateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, c.log, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	order, err := c.orders.UpdateOrder(r.Context(), orderID, req)
	if err != nil {
		writeServiceError(w, c.log, "UpdateOrder", err)
		return
	}
	writeJSON(w, c.log, http.StatusOK, order)
}

// DeleteOrder handles DELETE /admin/orders/{id}
func (c *OrderController) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r.URL.Path, "/admin/orders/", "")
	if !ok {
		writeError(w, c.log, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := c.orders.DeleteOrder(r.Context(), orderID); err != nil {
		writeServiceError(w, c.log, "DeleteOrder", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListInstallments handles GET /admin/orders/{id}/installments
func (c *OrderController) ListInstallments(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r.URL.Path, "/admin/orders/", "/installments")
	if !ok {
		writeError(w, c.log, http.StatusBadRequest, "invalid order id")
		return
	}

	installments, err := c.orders.ListInstallments(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, c.log, "ListInstallments", err)
		return
	}
	writeJSON(w, c.log, http.StatusOK, map[string]any{"installments": installments})
}
