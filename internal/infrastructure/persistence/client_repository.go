package persistence

import (
	"context"

	"github.com/agency/planner/internal/domain/client"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by its ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	model, err := findOne[models.ClientModel](ctx, r.db, "find client", id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// Exists reports whether a non-deleted client with the ID exists
func (r *GormClientRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists[models.ClientModel](ctx, r.db, "find client", id)
}

// List returns a page of clients
func (r *GormClientRepository) List(ctx context.Context, filter shared.Filter) ([]client.Client, int64, error) {
	rows, total, err := listPage[models.ClientModel](ctx, r.db, "list clients", filter, ClientSortFields,
		Search(filter.Search, "business_name", "contact_name", "email"))
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.ClientModel).ToDomain), total, nil
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, c *client.Client) error {
	return save(ctx, r.db, "save client", models.ClientModelFromDomain(c))
}

// SoftDelete flags a client as deleted. Its scoped entities and documents are kept.
func (r *GormClientRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[models.ClientModel](ctx, r.db, "delete client", id)
}

// GormScopedRepository implements ScopedRepository for one client-owned
// entity D persisted as model M.
type GormScopedRepository[D any, M any] struct {
	db         *gorm.DB
	name       string
	searchCols []string
	toDomain   func(*M) *D
	fromDomain func(*D) *M
}

// NewGormSegmentRepository creates the segment repository
func NewGormSegmentRepository(db *gorm.DB) *GormScopedRepository[client.Segment, models.SegmentModel] {
	return &GormScopedRepository[client.Segment, models.SegmentModel]{
		db:         db,
		name:       "segment",
		searchCols: []string{"name_en", "name_ar"},
		toDomain:   (*models.SegmentModel).ToDomain,
		fromDomain: models.SegmentModelFromDomain,
	}
}

// NewGormCompetitorRepository creates the competitor repository
func NewGormCompetitorRepository(db *gorm.DB) *GormScopedRepository[client.Competitor, models.CompetitorModel] {
	return &GormScopedRepository[client.Competitor, models.CompetitorModel]{
		db:         db,
		name:       "competitor",
		searchCols: []string{"name", "website"},
		toDomain:   (*models.CompetitorModel).ToDomain,
		fromDomain: models.CompetitorModelFromDomain,
	}
}

// NewGormBranchRepository creates the branch repository
func NewGormBranchRepository(db *gorm.DB) *GormScopedRepository[client.Branch, models.BranchModel] {
	return &GormScopedRepository[client.Branch, models.BranchModel]{
		db:         db,
		name:       "branch",
		searchCols: []string{"name_en", "name_ar", "city"},
		toDomain:   (*models.BranchModel).ToDomain,
		fromDomain: models.BranchModelFromDomain,
	}
}

// NewGormSocialLinkRepository creates the social link repository
func NewGormSocialLinkRepository(db *gorm.DB) *GormScopedRepository[client.SocialLink, models.SocialLinkModel] {
	return &GormScopedRepository[client.SocialLink, models.SocialLinkModel]{
		db:         db,
		name:       "social link",
		searchCols: []string{"platform", "platform_name", "url"},
		toDomain:   (*models.SocialLinkModel).ToDomain,
		fromDomain: models.SocialLinkModelFromDomain,
	}
}

// FindByID finds an entity by its ID
func (r *GormScopedRepository[D, M]) FindByID(ctx context.Context, id uuid.UUID) (*D, error) {
	model, err := findOne[M](ctx, r.db, "find "+r.name, id)
	if err != nil {
		return nil, err
	}
	return r.toDomain(model), nil
}

// FindByIDs returns the non-deleted entities among ids, whichever client owns them
func (r *GormScopedRepository[D, M]) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]D, error) {
	rows, err := findMany[M](ctx, r.db, "find "+r.name, ids)
	if err != nil {
		return nil, err
	}
	return toDomainSlice(rows, r.toDomain), nil
}

// ListByClient returns a page of a client's entities
func (r *GormScopedRepository[D, M]) ListByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]D, int64, error) {
	rows, total, err := listPage[M](ctx, r.db, "list "+r.name, filter, ScopedSortFields,
		OwnedBy(clientID), Search(filter.Search, r.searchCols...))
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, r.toDomain), total, nil
}

// Save creates or updates an entity
func (r *GormScopedRepository[D, M]) Save(ctx context.Context, entity *D) error {
	return save(ctx, r.db, "save "+r.name, r.fromDomain(entity))
}

// SoftDelete flags an entity as deleted
func (r *GormScopedRepository[D, M]) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[M](ctx, r.db, "delete "+r.name, id)
}

// Ensure the repositories implement their domain interfaces
var (
	_ client.ClientRepository     = (*GormClientRepository)(nil)
	_ client.SegmentRepository    = (*GormScopedRepository[client.Segment, models.SegmentModel])(nil)
	_ client.CompetitorRepository = (*GormScopedRepository[client.Competitor, models.CompetitorModel])(nil)
	_ client.BranchRepository     = (*GormScopedRepository[client.Branch, models.BranchModel])(nil)
	_ client.SocialLinkRepository = (*GormScopedRepository[client.SocialLink, models.SocialLinkModel])(nil)
)
