package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"installment-backoffice/models"
	"installment-backoffice/service"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// stageFailureResponse tells the caller what was persisted before the failure
type stageFailureResponse struct {
	Error              string `json:"error"`
	Stage              string `json:"stage"`
	LastCompletedStage string `json:"lastCompletedStage"`
	OrderID            string `json:"orderId,omitempty"`
	SubmissionID       string `json:"submissionId"`
}

func writeJSON(w http.ResponseWriter, log *zap.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("writeJSON: error encoding response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, log *zap.Logger, status int, message string) {
	writeJSON(w, log, status, errorResponse{Error: message})
}

// writeServiceError maps service errors onto HTTP statuses
func writeServiceError(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	var stageErr *service.StageError
	var validationErr *models.ValidationError

	switch {
	case errors.As(err, &stageErr):
		log.Error(op+": stage failure", zap.String("stage", string(stageErr.Stage)), zap.Error(err))
		writeJSON(w, log, http.StatusBadGateway, stageFailureResponse{
			Error:              stageErr.Err.Error(),
			Stage:              string(stageErr.Stage),
			LastCompletedStage: string(stageErr.LastCompleted),
			OrderID:            stageErr.OrderID,
			SubmissionID:       stageErr.SubmissionID,
		})
	case errors.As(err, &validationErr):
		log.Warn(op+": validation failed", zap.Error(err))
		writeJSON(w, log, http.StatusBadRequest, errorResponse{Error: validationErr.Message, Field: validationErr.Field})
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidStatus):
		log.Warn(op+": invalid request", zap.Error(err))
		writeError(w, log, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, log, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrOrderLocked),
		errors.Is(err, service.ErrCustomerLocked),
		errors.Is(err, service.ErrOrderImmutable),
		errors.Is(err, service.ErrDuplicateSubmission):
		log.Warn(op+": rejected", zap.Error(err))
		writeError(w, log, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrSubmissionAbandoned):
		log.Info(op+": abandoned by caller", zap.Error(err))
		writeError(w, log, http.StatusRequestTimeout, err.Error())
	default:
		log.Error(op+": internal error", zap.Error(err))
		writeError(w, log, http.StatusInternalServerError, err.Error())
	}
}

// pathID extracts and validates the uuid between prefix and suffix,
// e.g. pathID("/admin/orders/{id}/status", "/admin/orders/", "/status")
func pathID(path, prefix, suffix string) (string, bool) {
	rest := strings.TrimPrefix(path, prefix)
	if rest == path {
		return "", false
	}
	if suffix != "" {
		trimmed := strings.TrimSuffix(rest, suffix)
		if trimmed == rest {
			return "", false
		}
		rest = trimmed
	}
	rest = strings.Trim(rest, "/")
	if _, err := uuid.Parse(rest); err != nil {
		return "", false
	}
	return rest, true
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
