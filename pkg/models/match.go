package models

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
)

// Score bounds for all fit dimensions.
const (
	ScoreMin = 0
	ScoreMax = 100
)

// TargetProfile is a run-scoped, read-only view of the company being sold,
// assembled from the engagement and its linked company. It exists only for
// the duration of one matching run.
type TargetProfile struct {
	EngagementID         uuid.UUID
	CompanyName          string
	Sector               string
	Subsector            string
	Location             string
	Revenue              *float64
	EBITDA               *float64
	EmployeeCount        *int
	Description          string
	Summary              string
	Tags                 []string
	DesiredBuyerProfile  string
	DesiredTargetProfile string
}

// BuyerCandidate is a snapshot of one active buyer at filter time.
// Immutable within a run.
type BuyerCandidate struct {
	ID               uuid.UUID
	Name             string
	Type             string
	SectorFocus      []string
	SectorExclusions []string
	GeographyFocus   []string
	RevenueMin       *float64
	RevenueMax       *float64
	EBITDAMin        *float64
	EBITDAMax        *float64
	DealSizeMin      *float64
	DealSizeMax      *float64
	InvestmentThesis string
	Keywords         []string
	Highlights       []string
}

// CandidateFromBuyer snapshots a buyer record into an immutable candidate.
func CandidateFromBuyer(b *Buyer) BuyerCandidate {
	return BuyerCandidate{
		ID:               b.ID,
		Name:             b.Name,
		Type:             b.Type,
		SectorFocus:      b.SectorFocus,
		SectorExclusions: b.SectorExclusions,
		GeographyFocus:   b.GeographyFocus,
		RevenueMin:       b.RevenueMin,
		RevenueMax:       b.RevenueMax,
		EBITDAMin:        b.EBITDAMin,
		EBITDAMax:        b.EBITDAMax,
		DealSizeMin:      b.DealSizeMin,
		DealSizeMax:      b.DealSizeMax,
		InvestmentThesis: b.InvestmentThesis,
		Keywords:         b.Keywords,
		Highlights:       b.Highlights,
	}
}

// ScoredCandidate is the scorer's output for one candidate. The buyer is
// referenced by free-text name only; reconciliation maps it back to an ID.
type ScoredCandidate struct {
	BuyerName           string   `json:"buyer_name"`
	OverallScore        int      `json:"overall_score"`
	SectorFit           int      `json:"sector_fit"`
	FinancialFit        int      `json:"financial_fit"`
	GeographicFit       int      `json:"geographic_fit"`
	StrategicFit        int      `json:"strategic_fit"`
	Reasoning           string   `json:"reasoning"`
	RiskFactors         []string `json:"risk_factors,omitempty"`
	RecommendedApproach string   `json:"recommended_approach,omitempty"`
}

// UnmarshalJSON accepts fractional scores. The scorer is instructed to
// return integers but occasionally returns values like 85.5; those are
// rounded rather than failing the whole run.
func (s *ScoredCandidate) UnmarshalJSON(data []byte) error {
	var raw struct {
		BuyerName           string   `json:"buyer_name"`
		OverallScore        float64  `json:"overall_score"`
		SectorFit           float64  `json:"sector_fit"`
		FinancialFit        float64  `json:"financial_fit"`
		GeographicFit       float64  `json:"geographic_fit"`
		StrategicFit        float64  `json:"strategic_fit"`
		Reasoning           string   `json:"reasoning"`
		RiskFactors         []string `json:"risk_factors"`
		RecommendedApproach string   `json:"recommended_approach"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.BuyerName = raw.BuyerName
	s.OverallScore = int(math.Round(raw.OverallScore))
	s.SectorFit = int(math.Round(raw.SectorFit))
	s.FinancialFit = int(math.Round(raw.FinancialFit))
	s.GeographicFit = int(math.Round(raw.GeographicFit))
	s.StrategicFit = int(math.Round(raw.StrategicFit))
	s.Reasoning = raw.Reasoning
	s.RiskFactors = raw.RiskFactors
	s.RecommendedApproach = raw.RecommendedApproach
	return nil
}

// Clamp forces every score into [ScoreMin, ScoreMax]. The scorer is
// instructed to stay in range but its output is never trusted.
func (s *ScoredCandidate) Clamp() {
	s.OverallScore = clampScore(s.OverallScore)
	s.SectorFit = clampScore(s.SectorFit)
	s.FinancialFit = clampScore(s.FinancialFit)
	s.GeographicFit = clampScore(s.GeographicFit)
	s.StrategicFit = clampScore(s.StrategicFit)
}

func clampScore(v int) int {
	if v < ScoreMin {
		return ScoreMin
	}
	if v > ScoreMax {
		return ScoreMax
	}
	return v
}

// BuyerMatch is one persisted match result for an engagement. The full set
// for an engagement is always replaced together by a completed run; there is
// no partial update and no accumulation across runs.
// Stored in buyer_matches table.
type BuyerMatch struct {
	ID                  uuid.UUID `json:"id"`
	EngagementID        uuid.UUID `json:"engagement_id"`
	BuyerID             uuid.UUID `json:"buyer_id"`
	BuyerName           string    `json:"buyer_name"`
	OverallScore        int       `json:"overall_score"`
	SectorFit           int       `json:"sector_fit"`
	FinancialFit        int       `json:"financial_fit"`
	GeographicFit       int       `json:"geographic_fit"`
	StrategicFit        int       `json:"strategic_fit"`
	Reasoning           string    `json:"reasoning,omitempty"`
	RiskFactors         []string  `json:"risk_factors,omitempty"`
	RecommendedApproach string    `json:"recommended_approach,omitempty"`
	GeneratedAt         time.Time `json:"generated_at"`
	GeneratedBy         string    `json:"generated_by"`
}
