package models

import (
	"time"

	"github.com/google/uuid"
)

// Buyer type values
const (
	BuyerTypeStrategic    = "strategic"
	BuyerTypeFinancial    = "financial"
	BuyerTypeFamilyOffice = "family_office"
)

// Buyer represents a corporate buyer profile tracked by the platform.
// Stored in buyers table.
type Buyer struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"` // "strategic", "financial", "family_office"
	Active           bool      `json:"active"`
	SectorFocus      []string  `json:"sector_focus,omitempty"`
	SectorExclusions []string  `json:"sector_exclusions,omitempty"`
	GeographyFocus   []string  `json:"geography_focus,omitempty"`
	RevenueMin       *float64  `json:"revenue_min,omitempty"`
	RevenueMax       *float64  `json:"revenue_max,omitempty"`
	EBITDAMin        *float64  `json:"ebitda_min,omitempty"`
	EBITDAMax        *float64  `json:"ebitda_max,omitempty"`
	DealSizeMin      *float64  `json:"deal_size_min,omitempty"`
	DealSizeMax      *float64  `json:"deal_size_max,omitempty"`
	InvestmentThesis string    `json:"investment_thesis,omitempty"`
	Keywords         []string  `json:"keywords,omitempty"`
	Highlights       []string  `json:"highlights,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
