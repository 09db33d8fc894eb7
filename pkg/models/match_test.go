package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoredCandidate_Clamp(t *testing.T) {
	s := &ScoredCandidate{
		BuyerName:     "Acme Capital Partners",
		OverallScore:  130,
		SectorFit:     -5,
		FinancialFit:  100,
		GeographicFit: 0,
		StrategicFit:  55,
	}

	s.Clamp()

	assert.Equal(t, 100, s.OverallScore)
	assert.Equal(t, 0, s.SectorFit)
	assert.Equal(t, 100, s.FinancialFit)
	assert.Equal(t, 0, s.GeographicFit)
	assert.Equal(t, 55, s.StrategicFit)
}

func TestScoredCandidate_UnmarshalFractionalScores(t *testing.T) {
	var s ScoredCandidate
	err := json.Unmarshal([]byte(`{
		"buyer_name": "Acme Capital Partners",
		"overall_score": 85.5,
		"sector_fit": 72.4,
		"financial_fit": 90,
		"geographic_fit": 60.5,
		"strategic_fit": 44.49,
		"reasoning": "solid overlap"
	}`), &s)

	require.NoError(t, err)
	assert.Equal(t, "Acme Capital Partners", s.BuyerName)
	assert.Equal(t, 86, s.OverallScore)
	assert.Equal(t, 72, s.SectorFit)
	assert.Equal(t, 90, s.FinancialFit)
	assert.Equal(t, 61, s.GeographicFit)
	assert.Equal(t, 44, s.StrategicFit)
	assert.Equal(t, "solid overlap", s.Reasoning)
}

func TestEngagement_IsSellSide(t *testing.T) {
	assert.True(t, (&Engagement{Type: EngagementTypeSellSide}).IsSellSide())
	assert.False(t, (&Engagement{Type: EngagementTypeBuySide}).IsSellSide())
	assert.False(t, (&Engagement{}).IsSellSide())
}
