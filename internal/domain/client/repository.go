package client

import (
	"context"

	"github.com/agency/planner/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientRepository defines the interface for client persistence.
// Every read excludes soft-deleted rows.
type ClientRepository interface {
	// FindByID finds a client by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// Exists reports whether a non-deleted client with the ID exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// List returns a page of clients and the total count
	List(ctx context.Context, filter shared.Filter) ([]Client, int64, error)

	// Save creates or updates a client
	Save(ctx context.Context, client *Client) error

	// SoftDelete flags the client as deleted
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// ScopedRepository is the persistence contract shared by segments,
// competitors, branches and social links.
type ScopedRepository[T any] interface {
	// FindByID finds an entity by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)

	// FindByIDs returns the non-deleted entities among ids, whichever client owns them
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]T, error)

	// ListByClient returns a page of a client's entities and the total count
	ListByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]T, int64, error)

	// Save creates or updates an entity
	Save(ctx context.Context, entity *T) error

	// SoftDelete flags the entity as deleted
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// SegmentRepository persists segments
type SegmentRepository = ScopedRepository[Segment]

// CompetitorRepository persists competitors
type CompetitorRepository = ScopedRepository[Competitor]

// BranchRepository persists branches
type BranchRepository = ScopedRepository[Branch]

// SocialLinkRepository persists social links
type SocialLinkRepository = ScopedRepository[SocialLink]
