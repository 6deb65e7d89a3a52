package service

import "context"

// StatementServiceInterface defines the contract for repayment statements
type StatementServiceInterface interface {
	RenderHTML(ctx context.Context, orderID string) (string, error)
	GeneratePDF(ctx context.Context, orderID string) ([]byte, error)
}
