package models

import (
	"time"

	"github.com/google/uuid"
)

// Engagement type values
const (
	EngagementTypeSellSide = "sell_side" // Advisory mandate to sell a company
	EngagementTypeBuySide  = "buy_side"  // Advisory mandate to acquire
)

// Engagement status values
const (
	EngagementStatusActive = "active"
	EngagementStatusClosed = "closed"
)

// Engagement represents an advisory mandate for a specific company.
// Stored in engagements table.
type Engagement struct {
	ID                   uuid.UUID  `json:"id"`
	CompanyID            *uuid.UUID `json:"company_id,omitempty"`
	Name                 string     `json:"name"`
	Type                 string     `json:"type"` // "sell_side", "buy_side"
	Status               string     `json:"status"`
	DesiredBuyerProfile  string     `json:"desired_buyer_profile,omitempty"`
	DesiredTargetProfile string     `json:"desired_target_profile,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	// Company is populated when the engagement is loaded with its company.
	Company *Company `json:"company,omitempty"`
}

// IsSellSide reports whether matching is defined for this engagement.
func (e *Engagement) IsSellSide() bool {
	return e.Type == EngagementTypeSellSide
}

// Company represents the business being sold under a sell-side engagement.
// Stored in companies table.
type Company struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Sector        string    `json:"sector,omitempty"`
	Subsector     string    `json:"subsector,omitempty"`
	Location      string    `json:"location,omitempty"`
	Revenue       *float64  `json:"revenue,omitempty"`
	EBITDA        *float64  `json:"ebitda,omitempty"`
	EmployeeCount *int      `json:"employee_count,omitempty"`
	Description   string    `json:"description,omitempty"`
	Summary       string    `json:"summary,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
