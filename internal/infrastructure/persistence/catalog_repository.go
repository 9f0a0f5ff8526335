package persistence

import (
	"context"

	"github.com/agency/planner/internal/domain/catalog"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormServiceRepository implements ServiceRepository using GORM
type GormServiceRepository struct {
	db *gorm.DB
}

// NewGormServiceRepository creates a new GormServiceRepository
func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

// FindByID finds a service by its ID
func (r *GormServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	model, err := findOne[models.ServiceModel](ctx, r.db, "find service", id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the non-deleted services among ids
func (r *GormServiceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Service, error) {
	rows, err := findMany[models.ServiceModel](ctx, r.db, "find services", ids)
	if err != nil {
		return nil, err
	}
	return toDomainSlice(rows, (*models.ServiceModel).ToDomain), nil
}

// List returns a page of services. With a client filter the page holds the
// global services plus the client's own.
func (r *GormServiceRepository) List(ctx context.Context, filter catalog.ServiceFilter) ([]catalog.Service, int64, error) {
	scopes := []Scope{Search(filter.Search, "name_en", "name_ar", "description")}
	if filter.Category != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("category = ?", filter.Category)
		})
	}
	if filter.ClientID != nil {
		clientID := *filter.ClientID
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("is_global = ? OR client_id = ?", true, clientID)
		})
	}
	rows, total, err := listPage[models.ServiceModel](ctx, r.db, "list services", filter.Filter, ServiceSortFields, scopes...)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.ServiceModel).ToDomain), total, nil
}

// Save creates or updates a service
func (r *GormServiceRepository) Save(ctx context.Context, service *catalog.Service) error {
	return save(ctx, r.db, "save service", models.ServiceModelFromDomain(service))
}

// SoftDelete flags a service as deleted
func (r *GormServiceRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.ServiceModel](ctx, r.db, "delete service", id)
}

// GormPackageRepository implements PackageRepository using GORM
type GormPackageRepository struct {
	db *gorm.DB
}

// NewGormPackageRepository creates a new GormPackageRepository
func NewGormPackageRepository(db *gorm.DB) *GormPackageRepository {
	return &GormPackageRepository{db: db}
}

// FindByID finds a package by its ID
func (r *GormPackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Package, error) {
	model, err := findOne[models.PackageModel](ctx, r.db, "find package", id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the non-deleted packages among ids. Inactive packages are
// still returned: documents may keep quoting them.
func (r *GormPackageRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Package, error) {
	rows, err := findMany[models.PackageModel](ctx, r.db, "find packages", ids)
	if err != nil {
		return nil, err
	}
	return toDomainSlice(rows, (*models.PackageModel).ToDomain), nil
}

// List returns a page of packages
func (r *GormPackageRepository) List(ctx context.Context, filter shared.Filter, activeOnly bool) ([]catalog.Package, int64, error) {
	scopes := []Scope{Search(filter.Search, "name_en", "name_ar")}
	if activeOnly {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true)
		})
	}
	rows, total, err := listPage[models.PackageModel](ctx, r.db, "list packages", filter, PackageSortFields, scopes...)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.PackageModel).ToDomain), total, nil
}

// Save creates or updates a package
func (r *GormPackageRepository) Save(ctx context.Context, pkg *catalog.Package) error {
	return save(ctx, r.db, "save package", models.PackageModelFromDomain(pkg))
}

// SoftDelete flags a package as deleted
func (r *GormPackageRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.PackageModel](ctx, r.db, "delete package", id)
}

// GormContractTermRepository implements ContractTermRepository using GORM
type GormContractTermRepository struct {
	db *gorm.DB
}

// NewGormContractTermRepository creates a new GormContractTermRepository
func NewGormContractTermRepository(db *gorm.DB) *GormContractTermRepository {
	return &GormContractTermRepository{db: db}
}

// FindByID finds a contract term by its ID
func (r *GormContractTermRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ContractTerm, error) {
	model, err := findOne[models.ContractTermModel](ctx, r.db, "find contract term", id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the non-deleted contract terms among ids
func (r *GormContractTermRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.ContractTerm, error) {
	rows, err := findMany[models.ContractTermModel](ctx, r.db, "find contract terms", ids)
	if err != nil {
		return nil, err
	}
	return toDomainSlice(rows, (*models.ContractTermModel).ToDomain), nil
}

// List returns a page of contract terms
func (r *GormContractTermRepository) List(ctx context.Context, filter shared.Filter) ([]catalog.ContractTerm, int64, error) {
	rows, total, err := listPage[models.ContractTermModel](ctx, r.db, "list contract terms", filter, TermSortFields,
		Search(filter.Search, "term_key", "term_key_ar"))
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.ContractTermModel).ToDomain), total, nil
}

// Save creates or updates a contract term
func (r *GormContractTermRepository) Save(ctx context.Context, term *catalog.ContractTerm) error {
	return save(ctx, r.db, "save contract term", models.ContractTermModelFromDomain(term))
}

// SoftDelete flags a contract term as deleted
func (r *GormContractTermRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.ContractTermModel](ctx, r.db, "delete contract term", id)
}

// Ensure the repositories implement their domain interfaces
var (
	_ catalog.ServiceRepository      = (*GormServiceRepository)(nil)
	_ catalog.PackageRepository      = (*GormPackageRepository)(nil)
	_ catalog.ContractTermRepository = (*GormContractTermRepository)(nil)
)
