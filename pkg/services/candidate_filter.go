package services

import (
	"strings"

	"github.com/lindenrow/dealdesk-engine/pkg/models"
)

// CandidateFilter applies deterministic sector-exclusion and financial-range
// rules to the active buyer pool before anything reaches the scorer, then
// caps the surviving list.
type CandidateFilter struct {
	// Cap bounds the candidate list. Survivors are truncated in pool order;
	// no pre-scoring ranking is applied.
	Cap int
}

// NewCandidateFilter creates a filter with the given candidate cap.
func NewCandidateFilter(cap int) *CandidateFilter {
	return &CandidateFilter{Cap: cap}
}

// Filter returns the buyers compatible with the target, snapshotted as
// immutable candidates, in pool order, at most Cap entries. An empty result
// is a valid outcome, not an error.
func (f *CandidateFilter) Filter(target *models.TargetProfile, pool []*models.Buyer) []models.BuyerCandidate {
	candidates := make([]models.BuyerCandidate, 0, len(pool))

	for _, buyer := range pool {
		if excludedBySector(target.Sector, buyer.SectorExclusions) {
			continue
		}
		if outsideRange(target.Revenue, buyer.RevenueMin, buyer.RevenueMax) {
			continue
		}
		if outsideRange(target.EBITDA, buyer.EBITDAMin, buyer.EBITDAMax) {
			continue
		}

		candidates = append(candidates, models.CandidateFromBuyer(buyer))
		if len(candidates) == f.Cap {
			break
		}
	}

	return candidates
}

// excludedBySector reports whether the target sector trips one of the
// buyer's exclusion terms. Containment is checked both ways, case
// insensitively, so "logistics" excludes "Logistics & Freight" and vice
// versa. An unknown target sector never excludes.
func excludedBySector(targetSector string, exclusions []string) bool {
	sector := strings.ToLower(strings.TrimSpace(targetSector))
	if sector == "" {
		return false
	}

	for _, term := range exclusions {
		excl := strings.ToLower(strings.TrimSpace(term))
		if excl == "" {
			continue
		}
		if strings.Contains(sector, excl) || strings.Contains(excl, sector) {
			return true
		}
	}
	return false
}

// outsideRange reports whether a target metric falls outside a buyer's
// declared window. Missing data on either side skips the check: absence of
// information never excludes a buyer.
func outsideRange(value, min, max *float64) bool {
	if value == nil {
		return false
	}
	if min != nil && *value < *min {
		return true
	}
	if max != nil && *value > *max {
		return true
	}
	return false
}
