// Package prompts builds the prompts sent to the fit-scoring provider.
// Narrative construction is deterministic and side-effect-free: the same
// profile always renders to the same text.
package prompts

import (
	"fmt"
	"strings"

	"github.com/lindenrow/dealdesk-engine/pkg/models"
)

// BuildTargetNarrative renders the selling company into a compact, labeled
// natural-language block. Absent fields are omitted.
func BuildTargetNarrative(t *models.TargetProfile) string {
	var b strings.Builder

	writeField(&b, "Company", t.CompanyName)
	writeField(&b, "Sector", t.Sector)
	writeField(&b, "Subsector", t.Subsector)
	writeField(&b, "Location", t.Location)
	writeMoney(&b, "Revenue", t.Revenue)
	writeMoney(&b, "EBITDA", t.EBITDA)
	if t.EmployeeCount != nil {
		fmt.Fprintf(&b, "Employees: %d\n", *t.EmployeeCount)
	}
	writeField(&b, "Description", t.Description)
	writeField(&b, "Summary", t.Summary)
	writeList(&b, "Tags", t.Tags)
	writeField(&b, "Desired buyer profile", t.DesiredBuyerProfile)
	writeField(&b, "Desired target profile", t.DesiredTargetProfile)

	return b.String()
}

// BuildCandidateNarrative renders one buyer candidate, tagged with its
// ordinal index and its exact stored name. The name is the reconciliation
// key: the scorer is instructed to repeat it verbatim.
func BuildCandidateNarrative(index int, c models.BuyerCandidate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "### Buyer %d: %s\n", index+1, c.Name)
	writeField(&b, "Type", c.Type)
	writeList(&b, "Sector focus", c.SectorFocus)
	writeList(&b, "Sector exclusions", c.SectorExclusions)
	writeList(&b, "Geography focus", c.GeographyFocus)
	writeMoneyRange(&b, "Revenue range", c.RevenueMin, c.RevenueMax)
	writeMoneyRange(&b, "EBITDA range", c.EBITDAMin, c.EBITDAMax)
	writeMoneyRange(&b, "Deal size range", c.DealSizeMin, c.DealSizeMax)
	writeField(&b, "Investment thesis", c.InvestmentThesis)
	writeList(&b, "Keywords", c.Keywords)
	writeList(&b, "Highlights", c.Highlights)

	return b.String()
}

// BuildBuyerMatchPrompt assembles the full scoring prompt: target narrative,
// one narrative per candidate, and the JSON response contract.
// minScore is a request-time instruction only; the pipeline never assumes
// the provider honors it.
func BuildBuyerMatchPrompt(target *models.TargetProfile, candidates []models.BuyerCandidate, minScore int) string {
	var prompt strings.Builder

	prompt.WriteString("# Buyer Fit Analysis\n\n")
	prompt.WriteString("Evaluate how well each prospective buyer fits the acquisition target below.\n\n")

	prompt.WriteString("## Target Company\n\n")
	prompt.WriteString(BuildTargetNarrative(target))
	prompt.WriteString("\n## Prospective Buyers\n\n")

	for i, c := range candidates {
		prompt.WriteString(BuildCandidateNarrative(i, c))
		prompt.WriteString("\n")
	}

	prompt.WriteString("## Response Format\n\n")
	prompt.WriteString("Respond with a JSON object in exactly this shape:\n\n")
	prompt.WriteString(`{
  "matches": [
    {
      "buyer_name": "exact buyer name as listed above",
      "overall_score": 0-100,
      "sector_fit": 0-100,
      "financial_fit": 0-100,
      "geographic_fit": 0-100,
      "strategic_fit": 0-100,
      "reasoning": "2-3 sentences on why this buyer fits or does not",
      "risk_factors": ["specific concern", "..."],
      "recommended_approach": "one sentence on how to approach this buyer"
    }
  ]
}`)
	prompt.WriteString("\n\n")
	fmt.Fprintf(&prompt, "Only include buyers with an overall_score of %d or higher. ", minScore)
	prompt.WriteString("Repeat each buyer_name exactly as it appears in the buyer list. ")
	prompt.WriteString("Return ONLY the JSON object.")

	return prompt.String()
}

// BuildBuyerMatchSystemMessage returns the system message for fit scoring.
func BuildBuyerMatchSystemMessage() string {
	return "You are an M&A advisory analyst evaluating prospective buyers for a sell-side engagement. " +
		"You score buyer fit across four dimensions: sector, financial, geographic, and strategic. " +
		"Scores are integers from 0 to 100. Be specific and grounded in the profiles provided; " +
		"do not invent facts about buyers or the target."
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func writeList(b *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(values, ", "))
}

func writeMoney(b *strings.Builder, label string, value *float64) {
	if value == nil {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, formatMoney(*value))
}

func writeMoneyRange(b *strings.Builder, label string, min, max *float64) {
	if min == nil && max == nil {
		return
	}
	lo, hi := "open", "open"
	if min != nil {
		lo = formatMoney(*min)
	}
	if max != nil {
		hi = formatMoney(*max)
	}
	fmt.Fprintf(b, "%s: %s - %s\n", label, lo, hi)
}

// formatMoney renders a dollar amount compactly ($4.5M, $1.2B).
func formatMoney(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.0fK", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}
