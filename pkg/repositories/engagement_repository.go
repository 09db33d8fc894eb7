package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lindenrow/dealdesk-engine/pkg/apperrors"
	"github.com/lindenrow/dealdesk-engine/pkg/database"
	"github.com/lindenrow/dealdesk-engine/pkg/models"
)

// EngagementRepository provides read access to engagements and their companies.
type EngagementRepository interface {
	// GetWithCompany loads an engagement together with its linked company.
	// Returns apperrors.ErrNotFound if the engagement does not exist.
	// The Company field is nil when no company is linked.
	GetWithCompany(ctx context.Context, id uuid.UUID) (*models.Engagement, error)
}

type engagementRepository struct {
	db *database.DB
}

// NewEngagementRepository creates a new EngagementRepository.
func NewEngagementRepository(db *database.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

var _ EngagementRepository = (*engagementRepository)(nil)

func (r *engagementRepository) GetWithCompany(ctx context.Context, id uuid.UUID) (*models.Engagement, error) {
	query := `
		SELECT e.id, e.company_id, e.name, e.type, e.status,
		       e.desired_buyer_profile, e.desired_target_profile,
		       e.created_at, e.updated_at,
		       c.id, c.name, c.sector, c.subsector, c.location,
		       c.revenue, c.ebitda, c.employee_count,
		       c.description, c.summary, c.tags,
		       c.created_at, c.updated_at
		FROM engagements e
		LEFT JOIN companies c ON c.id = e.company_id
		WHERE e.id = $1`

	var e models.Engagement
	var companyID *uuid.UUID
	var cID *uuid.UUID
	var cName, cSector, cSubsector, cLocation, cDescription, cSummary *string
	var cRevenue, cEBITDA *float64
	var cEmployeeCount *int
	var cTags []string
	var cCreatedAt, cUpdatedAt *time.Time

	row := r.db.QueryRow(ctx, query, id)
	err := row.Scan(
		&e.ID, &companyID, &e.Name, &e.Type, &e.Status,
		&e.DesiredBuyerProfile, &e.DesiredTargetProfile,
		&e.CreatedAt, &e.UpdatedAt,
		&cID, &cName, &cSector, &cSubsector, &cLocation,
		&cRevenue, &cEBITDA, &cEmployeeCount,
		&cDescription, &cSummary, &cTags,
		&cCreatedAt, &cUpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load engagement: %w", err)
	}

	e.CompanyID = companyID
	if cID != nil {
		company := &models.Company{
			ID:            *cID,
			Tags:          cTags,
			Revenue:       cRevenue,
			EBITDA:        cEBITDA,
			EmployeeCount: cEmployeeCount,
		}
		company.Name = deref(cName)
		company.Sector = deref(cSector)
		company.Subsector = deref(cSubsector)
		company.Location = deref(cLocation)
		company.Description = deref(cDescription)
		company.Summary = deref(cSummary)
		if cCreatedAt != nil {
			company.CreatedAt = *cCreatedAt
		}
		if cUpdatedAt != nil {
			company.UpdatedAt = *cUpdatedAt
		}
		e.Company = company
	}

	return &e, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
