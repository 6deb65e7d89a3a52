package controller

import (
	"net/http"

	"go.uber.org/zap"

	"installment-backoffice/service"
)

// SubmissionController exposes the submission journal for manual reconciliation
type SubmissionController struct {
	submissions service.OrderSubmissionServiceInterface
	log         *zap.Logger
}

// NewSubmissionController creates a new SubmissionController
func NewSubmissionController(submissions service.OrderSubmissionServiceInterface, log *zap.Logger) *SubmissionController {
	return &SubmissionController{submissions: submissions, log: log.Named("controller.submission")}
}

// GetSubmission handles GET /admin/submissions/{id}
// Example response:
// {"id": "9d2e...", "status": "failed", "lastCompletedStage": "order_created", "failedStage": "items_persisted", "orderId": "...", "error": "..."}
func (c *SubmissionController) GetSubmission(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, c.log, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id, ok := pathID(r.URL.Path, "/admin/submissions/", "")
	if !ok {
		writeError(w, c.log, http.StatusBadRequest, "invalid submission id")
		return
	}

	submission, err := c.submissions.GetSubmission(r.Context(), id)
	if err != nil {
		writeServiceError(w, c.log, "GetSubmission", err)
		return
	}
	writeJSON(w, c.log, http.StatusOK, submission)
}
