package persistence

import (
	"context"

	"github.com/agency/planner/internal/domain/document"
	"github.com/agency/planner/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// documentScopes turns a document listing filter into query conditions
func documentScopes(filter document.ListFilter, searchCols ...string) []Scope {
	scopes := []Scope{Search(filter.Search, searchCols...)}
	if filter.ClientID != nil {
		scopes = append(scopes, OwnedBy(*filter.ClientID))
	}
	if filter.Status != "" {
		status := filter.Status
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", status)
		})
	}
	return scopes
}

// GormQuotationRepository implements QuotationRepository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// FindByID finds a quotation by its ID
func (r *GormQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Quotation, error) {
	model, err := findOne[models.QuotationModel](ctx, r.db, "find quotation", id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the non-deleted quotations among ids
func (r *GormQuotationRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]document.Quotation, error) {
	rows, err := findMany[models.QuotationModel](ctx, r.db, "find quotations", ids)
	if err != nil {
		return nil, err
	}
	return toDomainSlice(rows, (*models.QuotationModel).ToDomain), nil
}

// List returns a page of quotations
func (r *GormQuotationRepository) List(ctx context.Context, filter document.ListFilter) ([]document.Quotation, int64, error) {
	rows, total, err := listPage[models.QuotationModel](ctx, r.db, "list quotations", filter.Filter, DocumentSortFields,
		documentScopes(filter, "number", "client_name")...)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.QuotationModel).ToDomain), total, nil
}

// Save creates or updates a quotation
func (r *GormQuotationRepository) Save(ctx context.Context, q *document.Quotation) error {
	return save(ctx, r.db, "save quotation", models.QuotationModelFromDomain(q))
}

// SoftDelete flags a quotation as deleted
func (r *GormQuotationRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.QuotationModel](ctx, r.db, "delete quotation", id)
}

// GormCampaignPlanRepository implements CampaignPlanRepository using GORM
type GormCampaignPlanRepository struct {
	db *gorm.DB
}

// NewGormCampaignPlanRepository creates a new GormCampaignPlanRepository
func NewGormCampaignPlanRepository(db *gorm.DB) *GormCampaignPlanRepository {
	return &GormCampaignPlanRepository{db: db}
}

// FindByID finds a campaign plan by its ID
func (r *GormCampaignPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.CampaignPlan, error) {
	model, err := findOne[models.CampaignPlanModel](ctx, r.db, "find campaign plan", id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the non-deleted campaign plans among ids
func (r *GormCampaignPlanRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]document.CampaignPlan, error) {
	rows, err := findMany[models.CampaignPlanModel](ctx, r.db, "find campaign plans", ids)
	if err != nil {
		return nil, err
	}
	return toDomainSlice(rows, (*models.CampaignPlanModel).ToDomain), nil
}

// List returns a page of campaign plans. Plans carry no status, so a status
// filter is ignored.
func (r *GormCampaignPlanRepository) List(ctx context.Context, filter document.ListFilter) ([]document.CampaignPlan, int64, error) {
	filter.Status = ""
	rows, total, err := listPage[models.CampaignPlanModel](ctx, r.db, "list campaign plans", filter.Filter, DocumentSortFields,
		documentScopes(filter, "number", "description")...)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.CampaignPlanModel).ToDomain), total, nil
}

// Save creates or updates a campaign plan
func (r *GormCampaignPlanRepository) Save(ctx context.Context, p *document.CampaignPlan) error {
	return save(ctx, r.db, "save campaign plan", models.CampaignPlanModelFromDomain(p))
}

// SoftDelete flags a campaign plan as deleted
func (r *GormCampaignPlanRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.CampaignPlanModel](ctx, r.db, "delete campaign plan", id)
}

// GormContractRepository implements ContractRepository using GORM
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// FindByID finds a contract by its ID
func (r *GormContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Contract, error) {
	model, err := findOne[models.ContractModel](ctx, r.db, "find contract", id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns a page of contracts
func (r *GormContractRepository) List(ctx context.Context, filter document.ListFilter) ([]document.Contract, int64, error) {
	rows, total, err := listPage[models.ContractModel](ctx, r.db, "list contracts", filter.Filter, ContractSortFields,
		documentScopes(filter, "number", "client_name", "client_name_ar")...)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.ContractModel).ToDomain), total, nil
}

// Save creates or updates a contract
func (r *GormContractRepository) Save(ctx context.Context, c *document.Contract) error {
	return save(ctx, r.db, "save contract", models.ContractModelFromDomain(c))
}

// SoftDelete flags a contract as deleted
func (r *GormContractRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.ContractModel](ctx, r.db, "delete contract", id)
}

// Ensure the repositories implement their domain interfaces
var (
	_ document.QuotationRepository    = (*GormQuotationRepository)(nil)
	_ document.CampaignPlanRepository = (*GormCampaignPlanRepository)(nil)
	_ document.ContractRepository     = (*GormContractRepository)(nil)
)
