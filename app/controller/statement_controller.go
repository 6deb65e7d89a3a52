package controller

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"installment-backoffice/service"
)

// StatementController serves repayment statements
type StatementController struct {
	statements service.StatementServiceInterface
	log        *zap.Logger
}

// NewStatementController creates a new StatementController
func NewStatementController(statements service.StatementServiceInterface, log *zap.Logger) *StatementController {
	return &StatementController{statements: statements, log: log.Named("controller.statement")}
}

// GetStatement handles GET /admin/orders/{id}/statement and GET /admin/orders/{id}/statement.pdf
func (c *StatementController) GetStatement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, c.log, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	asPDF := strings.HasSuffix(r.URL.Path, "/statement.pdf")
	suffix := "/statement"
	if asPDF {
		suffix = "/statement.pdf"
	}

	orderID, ok := pathID(r.URL.Path, "/admin/orders/", suffix)
	if !ok {
		writeError(w, c.log, http.StatusBadRequest, "invalid order id")
		return
	}

	if !asPDF {
		html, err := c.statements.RenderHTML(r.Context(), orderID)
		if err != nil {
			writeServiceError(w, c.log, "GetStatement", err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(html)); err != nil {
			c.log.Error("GetStatement: error writing response", zap.Error(err))
		}
		return
	}

	pdf, err := c.statements.GeneratePDF(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, c.log, "GetStatement", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="statement-%s.pdf"`, orderID))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		c.log.Error("GetStatement: error writing PDF", zap.Error(err))
	}
}
