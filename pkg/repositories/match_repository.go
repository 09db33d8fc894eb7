package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lindenrow/dealdesk-engine/pkg/database"
	"github.com/lindenrow/dealdesk-engine/pkg/models"
)

// MatchRepository persists the match set for an engagement.
type MatchRepository interface {
	// ReplaceForEngagement atomically replaces every stored match for the
	// engagement with the given set. Delete and insert happen in a single
	// transaction: either the new set commits whole, or the prior set stays
	// untouched. An empty set is a valid replacement and clears the matches.
	ReplaceForEngagement(ctx context.Context, engagementID uuid.UUID, matches []*models.BuyerMatch) error

	// ListByEngagement returns the stored match set, best fit first.
	ListByEngagement(ctx context.Context, engagementID uuid.UUID) ([]*models.BuyerMatch, error)
}

type matchRepository struct {
	db *database.DB
}

// NewMatchRepository creates a new MatchRepository.
func NewMatchRepository(db *database.DB) MatchRepository {
	return &matchRepository{db: db}
}

var _ MatchRepository = (*matchRepository)(nil)

func (r *matchRepository) ReplaceForEngagement(ctx context.Context, engagementID uuid.UUID, matches []*models.BuyerMatch) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin match replacement: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`DELETE FROM buyer_matches WHERE engagement_id = $1`, engagementID); err != nil {
		return fmt.Errorf("failed to delete prior matches: %w", err)
	}

	insert := `
		INSERT INTO buyer_matches (
			id, engagement_id, buyer_id,
			overall_score, sector_fit, financial_fit, geographic_fit, strategic_fit,
			reasoning, risk_factors, recommended_approach,
			generated_at, generated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	now := time.Now()
	for _, m := range matches {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		if m.GeneratedAt.IsZero() {
			m.GeneratedAt = now
		}
		m.EngagementID = engagementID

		if _, err := tx.Exec(ctx, insert,
			m.ID, m.EngagementID, m.BuyerID,
			m.OverallScore, m.SectorFit, m.FinancialFit, m.GeographicFit, m.StrategicFit,
			m.Reasoning, m.RiskFactors, m.RecommendedApproach,
			m.GeneratedAt, m.GeneratedBy,
		); err != nil {
			return fmt.Errorf("failed to insert match for buyer %s: %w", m.BuyerID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit match replacement: %w", err)
	}

	return nil
}

func (r *matchRepository) ListByEngagement(ctx context.Context, engagementID uuid.UUID) ([]*models.BuyerMatch, error) {
	query := `
		SELECT m.id, m.engagement_id, m.buyer_id, b.name,
		       m.overall_score, m.sector_fit, m.financial_fit, m.geographic_fit, m.strategic_fit,
		       m.reasoning, m.risk_factors, m.recommended_approach,
		       m.generated_at, m.generated_by
		FROM buyer_matches m
		JOIN buyers b ON b.id = m.buyer_id
		WHERE m.engagement_id = $1
		ORDER BY m.overall_score DESC, b.name ASC`

	rows, err := r.db.Query(ctx, query, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.BuyerMatch
	for rows.Next() {
		var m models.BuyerMatch
		var reasoning, approach *string
		err := rows.Scan(
			&m.ID, &m.EngagementID, &m.BuyerID, &m.BuyerName,
			&m.OverallScore, &m.SectorFit, &m.FinancialFit, &m.GeographicFit, &m.StrategicFit,
			&reasoning, &m.RiskFactors, &approach,
			&m.GeneratedAt, &m.GeneratedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		if reasoning != nil {
			m.Reasoning = *reasoning
		}
		if approach != nil {
			m.RecommendedApproach = *approach
		}
		matches = append(matches, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %w", err)
	}

	return matches, nil
}
