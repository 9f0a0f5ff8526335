package persistence

import (
	"context"
	"strings"

	"github.com/agency/planner/internal/domain/identity"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	model, err := findOne[models.UserModel](ctx, r.db, "find user", id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUsername finds a user by username. Usernames are stored lowercase.
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	var model models.UserModel
	if err := conn(ctx, r.db).Scopes(NotDeleted).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		First(&model).Error; err != nil {
		return nil, findError("find user", err)
	}
	return model.ToDomain(), nil
}

// ExistsByUsername checks if a username is taken
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&models.UserModel{}).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		Count(&count).Error; err != nil {
		return false, findError("find user", err)
	}
	return count > 0, nil
}

// List returns a page of users, optionally of one role
func (r *GormUserRepository) List(ctx context.Context, filter shared.Filter) ([]identity.User, int64, error) {
	scopes := []Scope{Search(filter.Search, "username", "display_name")}
	if role, ok := filter.Filters["role"].(identity.Role); ok && role != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("role = ?", role)
		})
	}
	rows, total, err := listPage[models.UserModel](ctx, r.db, "list users", filter, UserSortFields, scopes...)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.UserModel).ToDomain), total, nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return save(ctx, r.db, "save user", models.UserModelFromDomain(user))
}

// Ensure GormUserRepository implements UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)
