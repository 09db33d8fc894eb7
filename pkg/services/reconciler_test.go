package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindenrow/dealdesk-engine/pkg/models"
)

func candidate(name string) models.BuyerCandidate {
	return models.BuyerCandidate{ID: uuid.New(), Name: name}
}

func scored(name string, overall int) models.ScoredCandidate {
	return models.ScoredCandidate{BuyerName: name, OverallScore: overall}
}

func TestResultReconciler_ExactMatch(t *testing.T) {
	c := candidate("Acme Capital Partners")
	result := NewResultReconciler().Reconcile(
		[]models.BuyerCandidate{c},
		[]models.ScoredCandidate{scored("Acme Capital Partners", 80)},
	)

	require.Len(t, result.Resolved, 1)
	assert.Equal(t, c.ID, result.Resolved[0].BuyerID)
	assert.Empty(t, result.Unresolved)
}

func TestResultReconciler_CaseAndWhitespaceInsensitive(t *testing.T) {
	c := candidate("Acme Capital Partners")
	result := NewResultReconciler().Reconcile(
		[]models.BuyerCandidate{c},
		[]models.ScoredCandidate{scored("acme   capital partners", 75)},
	)

	require.Len(t, result.Resolved, 1)
	assert.Equal(t, c.ID, result.Resolved[0].BuyerID)
}

func TestResultReconciler_FuzzyContainment(t *testing.T) {
	c := candidate("Acme Capital Partners LLC")

	tests := []struct {
		name     string
		returned string
	}{
		{"returned name is a prefix of the candidate", "Acme Capital Partners"},
		{"returned name contains the candidate", "The Acme Capital Partners LLC Group"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewResultReconciler().Reconcile(
				[]models.BuyerCandidate{c},
				[]models.ScoredCandidate{scored(tt.returned, 60)},
			)
			require.Len(t, result.Resolved, 1)
			assert.Equal(t, c.ID, result.Resolved[0].BuyerID)
		})
	}
}

func TestResultReconciler_UnresolvedSurfaced(t *testing.T) {
	result := NewResultReconciler().Reconcile(
		[]models.BuyerCandidate{candidate("Acme Capital Partners")},
		[]models.ScoredCandidate{
			scored("Acme Capital Partners", 80),
			scored("Completely Unknown Holdings", 90),
		},
	)

	require.Len(t, result.Resolved, 1)
	require.Len(t, result.Unresolved, 1)
	assert.Equal(t, "Completely Unknown Holdings", result.Unresolved[0].BuyerName)
}

func TestResultReconciler_DuplicateNameFirstWins(t *testing.T) {
	c := candidate("Acme Capital Partners")
	result := NewResultReconciler().Reconcile(
		[]models.BuyerCandidate{c},
		[]models.ScoredCandidate{
			scored("Acme Capital Partners", 80),
			scored("acme capital partners", 40),
		},
	)

	require.Len(t, result.Resolved, 1)
	assert.Equal(t, 80, result.Resolved[0].Scored.OverallScore)
	assert.Empty(t, result.Unresolved)
}

func TestResultReconciler_ExactBeatsFuzzy(t *testing.T) {
	// "Acme" alone would fuzzily hit "Acme Capital Partners" too; the exact
	// entry must win its own resolution.
	exact := candidate("Acme")
	longer := candidate("Acme Capital Partners")

	result := NewResultReconciler().Reconcile(
		[]models.BuyerCandidate{longer, exact},
		[]models.ScoredCandidate{scored("Acme", 70)},
	)

	require.Len(t, result.Resolved, 1)
	assert.Equal(t, exact.ID, result.Resolved[0].BuyerID)
}

func TestResultReconciler_EmptyName(t *testing.T) {
	result := NewResultReconciler().Reconcile(
		[]models.BuyerCandidate{candidate("Acme Capital Partners")},
		[]models.ScoredCandidate{scored("   ", 50)},
	)

	assert.Empty(t, result.Resolved)
	require.Len(t, result.Unresolved, 1)
}
