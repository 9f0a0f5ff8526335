package catalog

import (
	"context"

	"github.com/agency/planner/internal/domain/shared"
	"github.com/google/uuid"
)

// ServiceFilter narrows service listings
type ServiceFilter struct {
	shared.Filter
	Category ServiceCategory
	// ClientID restricts the listing to global services plus those owned by the client
	ClientID *uuid.UUID
}

// ServiceRepository defines the interface for service persistence.
// Every read excludes soft-deleted rows.
type ServiceRepository interface {
	// FindByID finds a service by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Service, error)

	// FindByIDs finds the services among ids that exist and are not deleted
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Service, error)

	// List returns a page of services and the total count
	List(ctx context.Context, filter ServiceFilter) ([]Service, int64, error)

	// Save creates or updates a service
	Save(ctx context.Context, service *Service) error

	// SoftDelete flags the service as deleted
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// PackageRepository defines the interface for package persistence
type PackageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Package, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Package, error)
	List(ctx context.Context, filter shared.Filter, activeOnly bool) ([]Package, int64, error)
	Save(ctx context.Context, pkg *Package) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// ContractTermRepository defines the interface for contract term persistence
type ContractTermRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ContractTerm, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ContractTerm, error)
	List(ctx context.Context, filter shared.Filter) ([]ContractTerm, int64, error)
	Save(ctx context.Context, term *ContractTerm) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
