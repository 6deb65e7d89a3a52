package service

import (
	"context"

	"installment-backoffice/models"
)

// OrderSubmissionServiceInterface defines the contract for creating financed and unfinanced orders
type OrderSubmissionServiceInterface interface {
	Quote(ctx context.Context, req models.QuoteRequest) (*models.QuoteResponse, error)
	Submit(ctx context.Context, req models.SubmitOrderRequest, idempotencyKey string) (*models.SubmitOrderResponse, error)
	GetSubmission(ctx context.Context, id string) (*models.Submission, error)
}
