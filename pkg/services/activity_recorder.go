package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lindenrow/dealdesk-engine/pkg/models"
	"github.com/lindenrow/dealdesk-engine/pkg/repositories"
)

// ActivityRecorder writes activity log entries best-effort: a failed write
// is logged and swallowed, never surfaced to the operation it describes.
type ActivityRecorder struct {
	repo   repositories.ActivityLogRepository
	logger *zap.Logger
}

// NewActivityRecorder creates an ActivityRecorder.
func NewActivityRecorder(repo repositories.ActivityLogRepository, logger *zap.Logger) *ActivityRecorder {
	return &ActivityRecorder{repo: repo, logger: logger}
}

// RecordMatchingRun records one matching run, success or failure. Uses its
// own context so a canceled request cannot prevent the write.
func (a *ActivityRecorder) RecordMatchingRun(
	actor string,
	engagementID uuid.UUID,
	started time.Time,
	promptTokens, outputTokens int,
	runErr error,
) {
	if a == nil || a.repo == nil {
		return
	}

	entry := &models.ActivityLog{
		Action:       models.ActivityBuyerMatching,
		Actor:        actor,
		EngagementID: &engagementID,
		Success:      runErr == nil,
		DurationMS:   time.Since(started).Milliseconds(),
		PromptTokens: promptTokens,
		OutputTokens: outputTokens,
	}
	if runErr != nil {
		entry.ErrorDetail = runErr.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.repo.Create(ctx, entry); err != nil {
		a.logger.Warn("Failed to record matching activity",
			zap.String("engagement_id", engagementID.String()),
			zap.Error(err))
	}
}
