package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"installment-backoffice/db"
	"installment-backoffice/models"
)

// SubmissionRepository persists the stage journal of order submissions
type SubmissionRepository struct {
	log *zap.Logger
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(log *zap.Logger) *SubmissionRepository {
	return &SubmissionRepository{log: log.Named("repository.submission")}
}

// Ensure SubmissionRepository implements SubmissionRepositoryInterface
var _ SubmissionRepositoryInterface = (*SubmissionRepository)(nil)

// Begin records a new attempt in Idle
func (r *SubmissionRepository) Begin(ctx context.Context, id string) error {
	_, err := db.DB.ExecContext(ctx,
		`INSERT INTO order_submissions (id, status, last_completed_stage) VALUES ($1, $2, $3)`,
		id, models.SubmissionInProgress, string(models.StageIdle),
	)
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

// MarkStage advances the last completed stage. orderID is kept once known.
func (r *SubmissionRepository) MarkStage(ctx context.Context, id string, stage models.SubmissionStage, orderID string) error {
	_, err := db.DB.ExecContext(ctx, `
		UPDATE order_submissions
		SET last_completed_stage = $2, order_id = COALESCE($3, order_id), updated_at = NOW()
		WHERE id = $1`,
		id, string(stage), nullString(orderID),
	)
	if err != nil {
		return fmt.Errorf("failed to update submission stage: %w", err)
	}
	return nil
}

// MarkDone closes the attempt successfully
func (r *SubmissionRepository) MarkDone(ctx context.Context, id string) error {
	_, err := db.DB.ExecContext(ctx, `
		UPDATE order_submissions
		SET status = $2, last_completed_stage = $3, updated_at = NOW()
		WHERE id = $1`,
		id, models.SubmissionDone, string(models.StageDone),
	)
	if err != nil {
		return fmt.Errorf("failed to close submission: %w", err)
	}
	return nil
}

// MarkFailed records the stage that failed; the last completed stage is left as is
func (r *SubmissionRepository) MarkFailed(ctx context.Context, id string, stage models.SubmissionStage, cause string) error {
	_, err := db.DB.ExecContext(ctx, `
		UPDATE order_submissions
		SET status = $2, failed_stage = $3, error = $4, updated_at = NOW()
		WHERE id = $1`,
		id, models.SubmissionFailed, string(stage), cause,
	)
	if err != nil {
		return fmt.Errorf("failed to mark submission failed: %w", err)
	}
	return nil
}

// GetByID returns the journal entry of an attempt
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	var s models.Submission
	var lastStage string
	var failedStage, orderID, cause sql.NullString

	err := db.DB.QueryRowContext(ctx, `
		SELECT id, status, last_completed_stage, failed_stage, order_id, error, created_at, updated_at
		FROM order_submissions
		WHERE id = $1`, id,
	).Scan(&s.ID, &s.Status, &lastStage, &failedStage, &orderID, &cause, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submission %s: %w", id, classify(err, false))
	}

	s.LastCompletedStage = models.SubmissionStage(lastStage)
	s.FailedStage = models.SubmissionStage(failedStage.String)
	s.OrderID = orderID.String
	s.Error = cause.String
	return &s, nil
}
