package identity

import (
	"context"

	"github.com/agency/planner/internal/domain/audit"
	"github.com/agency/planner/internal/domain/identity"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const entityUser = "user"

// UserService handles user administration. Passwords never leave it.
type UserService struct {
	users  identity.UserRepository
	audit  audit.Sink
	logger *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(users identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// SetAuditSink sets the audit sink
func (s *UserService) SetAuditSink(sink audit.Sink) {
	s.audit = sink
}

// List retrieves a page of users
func (s *UserService) List(ctx context.Context, filter UserListFilter) (*UserListResponse, error) {
	base := shared.DefaultFilter()
	base.Search = filter.Search
	if filter.Page > 0 {
		base.Page = filter.Page
	}
	if filter.PageSize > 0 {
		base.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		base.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		base.OrderDir = filter.OrderDir
	}
	if filter.Role != "" {
		base.Filters["role"] = identity.Role(filter.Role)
	}

	users, total, err := s.users.List(ctx, base)
	if err != nil {
		return nil, err
	}
	items := make([]UserResponse, len(users))
	for i := range users {
		items[i] = ToUserResponse(&users[i])
	}
	return &UserListResponse{Items: items, Total: total, Page: base.Page, PageSize: base.PageSize}, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Update changes the display name, role or active flag of a user. Admins
// cannot demote or deactivate their own account.
func (s *UserService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	self := actor.UserID == id
	if req.Role != nil {
		role := identity.Role(*req.Role)
		if self && role != user.Role {
			return nil, shared.NewValidationError("role", "cannot change your own role")
		}
		if err := user.ChangeRole(role); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil && *req.IsActive != user.IsActive() {
		if self && !*req.IsActive {
			return nil, shared.NewValidationError("is_active", "cannot deactivate your own account")
		}
		if *req.IsActive {
			user.Activate()
		} else {
			user.Deactivate()
		}
	}
	if req.DisplayName != nil {
		if err := user.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User updated",
		zap.String("user_id", id.String()),
		zap.String("role", string(user.Role)),
		zap.String("status", string(user.Status)),
		zap.String("by", actor.UserID.String()),
	)
	resp := ToUserResponse(user)
	if s.audit != nil {
		s.audit.Record(ctx, audit.NewEntry(actor, audit.ActionUpdate, entityUser, id, resp))
	}
	return &resp, nil
}

// ToUserResponse converts a domain user to a response
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		DisplayName:    u.DisplayName,
		Role:           string(u.Role),
		Status:         string(u.Status),
		IsActive:       u.IsActive(),
		LastLoginAt:    u.LastLoginAt,
		FailedAttempts: u.FailedAttempts,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
		Version:        u.Version,
	}
}
