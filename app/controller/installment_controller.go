package controller

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"installment-backoffice/models"
	"installment-backoffice/service"
)

// InstallmentController handles HTTP requests for plans and schedules
type InstallmentController struct {
	plans  service.InstallmentPlanServiceInterface
	orders service.OrderServiceInterface
	log    *zap.Logger
}

// NewInstallmentController creates a new InstallmentController
func NewInstallmentController(plans service.InstallmentPlanServiceInterface, orders service.OrderServiceInterface, log *zap.Logger) *InstallmentController {
	return &InstallmentController{plans: plans, orders: orders, log: log.Named("controller.installment")}
}

// ListPlans handles GET /admin/installment-plans
func (c *InstallmentController) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := c.plans.List(r.Context())
	if err != nil {
		writeServiceError(w, c.log, "ListPlans", err)
		return
	}
	writeJSON(w, c.log, http.StatusOK, map[string]any{"plans": plans})
}

// CreatePlan handles POST /admin/installment-plans
// Example request:
// {"name": "Advance 500", "planType": "flexible", "duration": 3, "interestRate": "0.05", "advancePaymentAmount": "500"}
func (c *InstallmentController) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInstallmentPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, c.log, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	plan, err := c.plans.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, c.log, "CreatePlan", err)
		return
	}

	c.log.Info("CreatePlan: plan created", zap.String("plan_id", plan.ID), zap.String("plan_type", plan.Type))
	writeJSON(w, c.log, http.StatusCreated, plan)
}

// RefreshOverdue handles POST /admin/installments/refresh-overdue
// Example response: {"updated": 3}
func (c *InstallmentController) RefreshOverdue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, c.log, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	updated, err := c.orders.RefreshOverdue(r.Context())
	if err != nil {
		writeServiceError(w, c.log, "RefreshOverdue", err)
		return
	}
	writeJSON(w, c.log, http.StatusOK, map[string]int{"updated": updated})
}
