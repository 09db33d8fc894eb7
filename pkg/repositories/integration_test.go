package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindenrow/dealdesk-engine/pkg/apperrors"
	"github.com/lindenrow/dealdesk-engine/pkg/models"
	"github.com/lindenrow/dealdesk-engine/pkg/testhelpers"
)

func seedCompany(t *testing.T, db *testhelpers.EngineDB, name, sector string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.DB.Exec(context.Background(),
		`INSERT INTO companies (id, name, sector, revenue) VALUES ($1, $2, $3, $4)`,
		id, name, sector, 12_500_000.0)
	require.NoError(t, err)
	return id
}

func seedEngagement(t *testing.T, db *testhelpers.EngineDB, companyID *uuid.UUID, engagementType string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.DB.Exec(context.Background(),
		`INSERT INTO engagements (id, company_id, name, type) VALUES ($1, $2, $3, $4)`,
		id, companyID, "Project Harbor", engagementType)
	require.NoError(t, err)
	return id
}

func seedBuyer(t *testing.T, db *testhelpers.EngineDB, name string, active bool) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.DB.Exec(context.Background(),
		`INSERT INTO buyers (id, name, active, sector_focus) VALUES ($1, $2, $3, $4)`,
		id, name, active, []string{"logistics"})
	require.NoError(t, err)
	return id
}

func match(engagementID, buyerID uuid.UUID, overall int) *models.BuyerMatch {
	return &models.BuyerMatch{
		EngagementID:  engagementID,
		BuyerID:       buyerID,
		OverallScore:  overall,
		SectorFit:     overall,
		FinancialFit:  overall,
		GeographicFit: overall,
		StrategicFit:  overall,
		Reasoning:     "test reasoning",
		GeneratedBy:   "advisor@example.com",
	}
}

func TestEngagementRepository_GetWithCompany(t *testing.T) {
	db := testhelpers.GetEngineDB(t)
	ctx := context.Background()
	repo := NewEngagementRepository(db.DB)

	companyID := seedCompany(t, db, "Harbor Freight Solutions", "Logistics")
	engagementID := seedEngagement(t, db, &companyID, models.EngagementTypeSellSide)

	engagement, err := repo.GetWithCompany(ctx, engagementID)
	require.NoError(t, err)
	assert.True(t, engagement.IsSellSide())
	require.NotNil(t, engagement.Company)
	assert.Equal(t, "Harbor Freight Solutions", engagement.Company.Name)
	assert.Equal(t, "Logistics", engagement.Company.Sector)
	require.NotNil(t, engagement.Company.Revenue)
	assert.InDelta(t, 12_500_000, *engagement.Company.Revenue, 0.01)
	assert.False(t, engagement.Company.CreatedAt.IsZero(), "company timestamps carry over from the join")
	assert.False(t, engagement.Company.UpdatedAt.IsZero())
}

func TestEngagementRepository_GetWithCompany_NoCompany(t *testing.T) {
	db := testhelpers.GetEngineDB(t)
	repo := NewEngagementRepository(db.DB)

	engagementID := seedEngagement(t, db, nil, models.EngagementTypeSellSide)

	engagement, err := repo.GetWithCompany(context.Background(), engagementID)
	require.NoError(t, err)
	assert.Nil(t, engagement.Company)
}

func TestEngagementRepository_GetWithCompany_NotFound(t *testing.T) {
	db := testhelpers.GetEngineDB(t)
	repo := NewEngagementRepository(db.DB)

	_, err := repo.GetWithCompany(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBuyerRepository_ListActive(t *testing.T) {
	db := testhelpers.GetEngineDB(t)
	repo := NewBuyerRepository(db.DB)

	activeID := seedBuyer(t, db, "ZZZ Active Capital", true)
	seedBuyer(t, db, "ZZZ Dormant Capital", false)

	buyers, err := repo.ListActive(context.Background())
	require.NoError(t, err)

	var names []string
	found := false
	for _, b := range buyers {
		names = append(names, b.Name)
		assert.True(t, b.Active)
		if b.ID == activeID {
			found = true
			assert.Equal(t, []string{"logistics"}, b.SectorFocus)
		}
	}
	assert.True(t, found, "active buyer must be listed")
	assert.NotContains(t, names, "ZZZ Dormant Capital")
	assert.IsIncreasing(t, names, "pool order is stable name order")
}

func TestMatchRepository_ReplaceForEngagement(t *testing.T) {
	db := testhelpers.GetEngineDB(t)
	ctx := context.Background()
	repo := NewMatchRepository(db.DB)

	companyID := seedCompany(t, db, "Replace Co", "Logistics")
	engagementID := seedEngagement(t, db, &companyID, models.EngagementTypeSellSide)
	buyerA := seedBuyer(t, db, "AAA Replace Partners", true)
	buyerB := seedBuyer(t, db, "BBB Replace Partners", true)

	// First run stores two matches.
	require.NoError(t, repo.ReplaceForEngagement(ctx, engagementID, []*models.BuyerMatch{
		match(engagementID, buyerA, 80),
		match(engagementID, buyerB, 60),
	}))

	stored, err := repo.ListByEngagement(ctx, engagementID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, buyerA, stored[0].BuyerID, "best fit first")
	assert.Equal(t, "AAA Replace Partners", stored[0].BuyerName)

	// Second run replaces, never accumulates.
	require.NoError(t, repo.ReplaceForEngagement(ctx, engagementID, []*models.BuyerMatch{
		match(engagementID, buyerB, 95),
	}))

	stored, err = repo.ListByEngagement(ctx, engagementID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, buyerB, stored[0].BuyerID)
	assert.Equal(t, 95, stored[0].OverallScore)
}

func TestMatchRepository_ReplaceWithEmptySetClears(t *testing.T) {
	db := testhelpers.GetEngineDB(t)
	ctx := context.Background()
	repo := NewMatchRepository(db.DB)

	companyID := seedCompany(t, db, "Clear Co", "Logistics")
	engagementID := seedEngagement(t, db, &companyID, models.EngagementTypeSellSide)
	buyerID := seedBuyer(t, db, "CCC Clear Partners", true)

	require.NoError(t, repo.ReplaceForEngagement(ctx, engagementID, []*models.BuyerMatch{
		match(engagementID, buyerID, 70),
	}))
	require.NoError(t, repo.ReplaceForEngagement(ctx, engagementID, nil))

	stored, err := repo.ListByEngagement(ctx, engagementID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestMatchRepository_FailedReplaceLeavesPriorSet(t *testing.T) {
	db := testhelpers.GetEngineDB(t)
	ctx := context.Background()
	repo := NewMatchRepository(db.DB)

	companyID := seedCompany(t, db, "Atomic Co", "Logistics")
	engagementID := seedEngagement(t, db, &companyID, models.EngagementTypeSellSide)
	buyerID := seedBuyer(t, db, "DDD Atomic Partners", true)

	require.NoError(t, repo.ReplaceForEngagement(ctx, engagementID, []*models.BuyerMatch{
		match(engagementID, buyerID, 70),
	}))

	// Second insert references a buyer that does not exist; the FK violation
	// must roll the whole replacement back, delete included.
	err := repo.ReplaceForEngagement(ctx, engagementID, []*models.BuyerMatch{
		match(engagementID, buyerID, 90),
		match(engagementID, uuid.New(), 50),
	})
	require.Error(t, err)

	stored, err := repo.ListByEngagement(ctx, engagementID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 70, stored[0].OverallScore, "prior set survives a failed replacement")
}

func TestActivityLogRepository_Create(t *testing.T) {
	db := testhelpers.GetEngineDB(t)
	ctx := context.Background()
	repo := NewActivityLogRepository(db.DB)

	companyID := seedCompany(t, db, "Activity Co", "Logistics")
	engagementID := seedEngagement(t, db, &companyID, models.EngagementTypeSellSide)

	entry := &models.ActivityLog{
		Action:       models.ActivityBuyerMatching,
		Actor:        "advisor@example.com",
		EngagementID: &engagementID,
		Success:      true,
		DurationMS:   4200,
		PromptTokens: 1200,
		OutputTokens: 340,
	}
	require.NoError(t, repo.Create(ctx, entry))

	var count int
	err := db.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM activity_logs WHERE engagement_id = $1 AND action = $2`,
		engagementID, models.ActivityBuyerMatching).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
