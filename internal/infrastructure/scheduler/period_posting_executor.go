package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PeriodPoster posts the draft lines of open assets falling inside a period
type PeriodPoster interface {
	ComputeEntriesForPeriod(ctx context.Context, tenantID, periodID uuid.UUID, categoryID *uuid.UUID) ([]uuid.UUID, error)
}

// PeriodPostingExecutor runs period posting jobs against the posting service
type PeriodPostingExecutor struct {
	poster PeriodPoster
	logger *zap.Logger
}

// NewPeriodPostingExecutor creates a new executor
func NewPeriodPostingExecutor(poster PeriodPoster, logger *zap.Logger) *PeriodPostingExecutor {
	return &PeriodPostingExecutor{poster: poster, logger: logger}
}

// Execute implements JobExecutor
func (e *PeriodPostingExecutor) Execute(ctx context.Context, job *Job) (int, error) {
	start := time.Now()
	moveIDs, err := e.poster.ComputeEntriesForPeriod(ctx, job.TenantID, job.PeriodID, job.CategoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to compute entries for period %s: %w", job.PeriodID, err)
	}

	e.logger.Info("Computed depreciation entries for period",
		zap.String("tenant_id", job.TenantID.String()),
		zap.String("period_id", job.PeriodID.String()),
		zap.Int("moves", len(moveIDs)),
		zap.Duration("duration", time.Since(start)),
	)
	return len(moveIDs), nil
}
