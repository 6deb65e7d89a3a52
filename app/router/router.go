package router

import (
	"net/http"
	"strings"

	"installment-backoffice/app/controller"
)

type Controllers struct {
	Order       *controller.OrderController
	Submission  *controller.SubmissionController
	Installment *controller.InstallmentController
	Customer    *controller.CustomerController
	Statement   *controller.StatementController
	// Metrics serves the Prometheus exposition format; nil disables /metrics
	Metrics http.Handler
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	if controllers.Metrics != nil {
		mux.Handle("/metrics", controllers.Metrics)
	}

	// Orders routes
	// Create order (with optional financing and first payment)
	mux.HandleFunc("/admin/orders", controllers.Order.SubmitOrder)

	// Price preview, nothing is persisted
	mux.HandleFunc("/admin/orders/quote", controllers.Order.QuoteOrder)

	// Order by ID and its sub-resources
	mux.HandleFunc("/admin/orders/", func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		switch {
		case strings.HasSuffix(path, "/statement"), strings.HasSuffix(path, "/statement.pdf"):
			controllers.Statement.GetStatement(w, r)
		case strings.HasSuffix(path, "/installments"):
			if r.Method != http.MethodGet {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			controllers.Order.ListInstallments(w, r)
		case strings.HasSuffix(path, "/status"):
			if r.Method != http.MethodPatch && r.Method != http.MethodPut {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			controllers.Order.UpdateOrderStatus(w, r)
		default:
			switch r.Method {
			case http.MethodGet:
				controllers.Order.GetOrder(w, r)
			case http.MethodPut:
				controllers.Order.UpdateOrder(w, r)
			case http.MethodDelete:
				controllers.Order.DeleteOrder(w, r)
			default:
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		}
	})

	// Submission journal
	mux.HandleFunc("/admin/submissions/", controllers.Submission.GetSubmission)

	// Installment plans routes
	mux.HandleFunc("/admin/installment-plans", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			controllers.Installment.ListPlans(w, r)
		} else if r.Method == http.MethodPost {
			controllers.Installment.CreatePlan(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Mark overdue installments as late
	mux.HandleFunc("/admin/installments/refresh-overdue", controllers.Installment.RefreshOverdue)

	// Customers routes
	mux.HandleFunc("/admin/customers/", controllers.Customer.DeleteCustomer)
}
