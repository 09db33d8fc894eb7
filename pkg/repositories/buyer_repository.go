package repositories

import (
	"context"
	"fmt"

	"github.com/lindenrow/dealdesk-engine/pkg/database"
	"github.com/lindenrow/dealdesk-engine/pkg/models"
)

// BuyerRepository provides read access to the buyer pool.
type BuyerRepository interface {
	// ListActive returns all buyers flagged active, in stable name order.
	// This order is the "natural" candidate order the filter cap applies to.
	ListActive(ctx context.Context) ([]*models.Buyer, error)
}

type buyerRepository struct {
	db *database.DB
}

// NewBuyerRepository creates a new BuyerRepository.
func NewBuyerRepository(db *database.DB) BuyerRepository {
	return &buyerRepository{db: db}
}

var _ BuyerRepository = (*buyerRepository)(nil)

func (r *buyerRepository) ListActive(ctx context.Context) ([]*models.Buyer, error) {
	query := `
		SELECT id, name, type, active,
		       sector_focus, sector_exclusions, geography_focus,
		       revenue_min, revenue_max, ebitda_min, ebitda_max,
		       deal_size_min, deal_size_max,
		       investment_thesis, keywords, highlights,
		       created_at, updated_at
		FROM buyers
		WHERE active = TRUE
		ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active buyers: %w", err)
	}
	defer rows.Close()

	var buyers []*models.Buyer
	for rows.Next() {
		var b models.Buyer
		var thesis *string
		err := rows.Scan(
			&b.ID, &b.Name, &b.Type, &b.Active,
			&b.SectorFocus, &b.SectorExclusions, &b.GeographyFocus,
			&b.RevenueMin, &b.RevenueMax, &b.EBITDAMin, &b.EBITDAMax,
			&b.DealSizeMin, &b.DealSizeMax,
			&thesis, &b.Keywords, &b.Highlights,
			&b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan buyer: %w", err)
		}
		if thesis != nil {
			b.InvestmentThesis = *thesis
		}
		buyers = append(buyers, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate buyers: %w", err)
	}

	return buyers, nil
}
