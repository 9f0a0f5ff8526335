package document

import (
	"context"

	"github.com/agency/planner/internal/domain/shared"
	"github.com/google/uuid"
)

// ListFilter narrows document listings
type ListFilter struct {
	shared.Filter
	ClientID *uuid.UUID
	Status   string
}

// QuotationRepository defines the interface for quotation persistence.
// Every read excludes soft-deleted rows.
type QuotationRepository interface {
	// FindByID finds a quotation by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Quotation, error)

	// FindByIDs returns the non-deleted quotations among ids
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Quotation, error)

	// List returns a page of quotations, newest first, and the total count
	List(ctx context.Context, filter ListFilter) ([]Quotation, int64, error)

	// Save creates or updates a quotation
	Save(ctx context.Context, q *Quotation) error

	// SoftDelete flags the quotation as deleted
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// CampaignPlanRepository defines the interface for campaign plan persistence
type CampaignPlanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CampaignPlan, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]CampaignPlan, error)
	List(ctx context.Context, filter ListFilter) ([]CampaignPlan, int64, error)
	Save(ctx context.Context, p *CampaignPlan) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// ContractRepository defines the interface for contract persistence
type ContractRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	List(ctx context.Context, filter ListFilter) ([]Contract, int64, error)
	Save(ctx context.Context, c *Contract) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
