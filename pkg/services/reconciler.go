package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/lindenrow/dealdesk-engine/pkg/models"
)

// ResolvedMatch pairs a scorer result with the candidate it was resolved to.
type ResolvedMatch struct {
	BuyerID uuid.UUID
	Scored  models.ScoredCandidate
}

// ReconcileResult separates resolved entries from the ones no candidate
// could be found for. Unresolved entries are not an error, but they are
// surfaced so callers can observe reconciliation loss instead of inferring
// it from missing counts.
type ReconcileResult struct {
	Resolved   []ResolvedMatch
	Unresolved []models.ScoredCandidate
}

// ResultReconciler maps the scorer's free-text buyer names back to
// structured candidate IDs. The scorer is instructed to repeat names
// verbatim but may not: resolution runs in three tiers, exact name, then
// normalized name, then bidirectional substring containment.
type ResultReconciler struct{}

// NewResultReconciler creates a reconciler.
func NewResultReconciler() *ResultReconciler {
	return &ResultReconciler{}
}

// Reconcile resolves each scored entry against the candidate list. At most
// one entry per buyer appears in the output: if the scorer returns the same
// name twice, the first resolution wins.
func (r *ResultReconciler) Reconcile(candidates []models.BuyerCandidate, scored []models.ScoredCandidate) ReconcileResult {
	exact := make(map[string]uuid.UUID, len(candidates))
	normalized := make(map[string]uuid.UUID, len(candidates))
	for _, c := range candidates {
		if _, ok := exact[c.Name]; !ok {
			exact[c.Name] = c.ID
		}
		key := normalizeName(c.Name)
		if _, ok := normalized[key]; !ok {
			normalized[key] = c.ID
		}
	}

	var result ReconcileResult
	seen := make(map[uuid.UUID]bool, len(scored))

	for _, s := range scored {
		id, ok := r.resolve(s.BuyerName, exact, normalized, candidates)
		if !ok {
			result.Unresolved = append(result.Unresolved, s)
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		result.Resolved = append(result.Resolved, ResolvedMatch{BuyerID: id, Scored: s})
	}

	return result
}

func (r *ResultReconciler) resolve(
	name string,
	exact map[string]uuid.UUID,
	normalized map[string]uuid.UUID,
	candidates []models.BuyerCandidate,
) (uuid.UUID, bool) {
	// Tier 1: exact, then normalized (case/whitespace-insensitive) lookup.
	if id, ok := exact[name]; ok {
		return id, true
	}
	key := normalizeName(name)
	if key == "" {
		return uuid.Nil, false
	}
	if id, ok := normalized[key]; ok {
		return id, true
	}

	// Tier 2: fuzzy fallback. First candidate whose normalized name contains
	// the returned name, or is contained by it, wins.
	for _, c := range candidates {
		candidate := normalizeName(c.Name)
		if strings.Contains(candidate, key) || strings.Contains(key, candidate) {
			return c.ID, true
		}
	}

	return uuid.Nil, false
}

// normalizeName lowercases, trims, and collapses internal whitespace.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
