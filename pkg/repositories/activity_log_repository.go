package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lindenrow/dealdesk-engine/pkg/database"
	"github.com/lindenrow/dealdesk-engine/pkg/models"
)

// ActivityLogRepository records engine activity for audit and usage dashboards.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
}

type activityLogRepository struct {
	db *database.DB
}

// NewActivityLogRepository creates a new ActivityLogRepository.
func NewActivityLogRepository(db *database.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

var _ ActivityLogRepository = (*activityLogRepository)(nil)

func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO activity_logs (
			id, action, actor, engagement_id,
			success, error_detail, duration_ms,
			prompt_tokens, output_tokens, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.Action, entry.Actor, entry.EngagementID,
		entry.Success, entry.ErrorDetail, entry.DurationMS,
		entry.PromptTokens, entry.OutputTokens, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create activity log: %w", err)
	}

	return nil
}
