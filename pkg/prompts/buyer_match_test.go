package prompts

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/lindenrow/dealdesk-engine/pkg/models"
)

func f64(v float64) *float64 { return &v }

func TestBuildTargetNarrative(t *testing.T) {
	count := 120
	target := &models.TargetProfile{
		EngagementID:  uuid.New(),
		CompanyName:   "Harbor Freight Solutions",
		Sector:        "Logistics",
		Location:      "Rotterdam, NL",
		Revenue:       f64(12_500_000),
		EmployeeCount: &count,
		Tags:          []string{"cold chain", "last mile"},
	}

	narrative := BuildTargetNarrative(target)

	assert.Contains(t, narrative, "Company: Harbor Freight Solutions")
	assert.Contains(t, narrative, "Sector: Logistics")
	assert.Contains(t, narrative, "Revenue: $12.5M")
	assert.Contains(t, narrative, "Employees: 120")
	assert.Contains(t, narrative, "Tags: cold chain, last mile")
	assert.NotContains(t, narrative, "Subsector", "absent fields are omitted")
	assert.NotContains(t, narrative, "EBITDA")
}

func TestBuildTargetNarrative_Deterministic(t *testing.T) {
	target := &models.TargetProfile{CompanyName: "Harbor Freight Solutions", Sector: "Logistics"}
	assert.Equal(t, BuildTargetNarrative(target), BuildTargetNarrative(target))
}

func TestBuildCandidateNarrative(t *testing.T) {
	c := models.BuyerCandidate{
		ID:               uuid.New(),
		Name:             "Acme Capital Partners",
		Type:             models.BuyerTypeFinancial,
		SectorFocus:      []string{"logistics", "industrials"},
		SectorExclusions: []string{"tobacco"},
		RevenueMin:       f64(5_000_000),
		RevenueMax:       f64(50_000_000),
	}

	narrative := BuildCandidateNarrative(2, c)

	assert.True(t, strings.HasPrefix(narrative, "### Buyer 3: Acme Capital Partners\n"),
		"header carries the one-based ordinal and the exact stored name")
	assert.Contains(t, narrative, "Sector focus: logistics, industrials")
	assert.Contains(t, narrative, "Revenue range: $5.0M - $50.0M")
}

func TestBuildBuyerMatchPrompt(t *testing.T) {
	target := &models.TargetProfile{CompanyName: "Harbor Freight Solutions", Sector: "Logistics"}
	candidates := []models.BuyerCandidate{
		{ID: uuid.New(), Name: "Acme Capital Partners"},
		{ID: uuid.New(), Name: "Meridian Holdings"},
	}

	prompt := BuildBuyerMatchPrompt(target, candidates, 30)

	assert.Contains(t, prompt, "Harbor Freight Solutions")
	assert.Contains(t, prompt, "### Buyer 1: Acme Capital Partners")
	assert.Contains(t, prompt, "### Buyer 2: Meridian Holdings")
	assert.Contains(t, prompt, `"matches"`)
	assert.Contains(t, prompt, "overall_score of 30 or higher")
	assert.Contains(t, prompt, "Repeat each buyer_name exactly")
	assert.Contains(t, prompt, "Return ONLY the JSON object")
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{1_500_000_000, "$1.5B"},
		{12_500_000, "$12.5M"},
		{5_000_000, "$5.0M"},
		{750_000, "$750K"},
		{900, "$900"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(tt.value))
	}
}
