package identity

import (
	"context"

	"github.com/agency/planner/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by its lower-cased username
	FindByUsername(ctx context.Context, username string) (*User, error)

	// ExistsByUsername checks if a username already exists
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// List returns a page of users and the total count. filter.Filters may
	// hold "role" to restrict the page to one role.
	List(ctx context.Context, filter shared.Filter) ([]User, int64, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error
}
