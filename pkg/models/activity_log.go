package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity actions recorded by the engine.
const (
	ActivityBuyerMatching = "buyer_matching"
)

// ActivityLog records one engine operation for audit and usage dashboards.
// Best-effort: a failed write never fails the operation it describes.
// Stored in activity_logs table.
type ActivityLog struct {
	ID           uuid.UUID  `json:"id"`
	Action       string     `json:"action"`
	Actor        string     `json:"actor"`
	EngagementID *uuid.UUID `json:"engagement_id,omitempty"`
	Success      bool       `json:"success"`
	ErrorDetail  string     `json:"error_detail,omitempty"`
	DurationMS   int64      `json:"duration_ms"`
	PromptTokens int        `json:"prompt_tokens"`
	OutputTokens int        `json:"output_tokens"`
	CreatedAt    time.Time  `json:"created_at"`
}
