package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/agency/planner/internal/domain/audit"
	"github.com/agency/planner/internal/domain/identity"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type auditEntries []audit.Entry

func (a *auditEntries) Record(_ context.Context, entry audit.Entry) {
	*a = append(*a, entry)
}

func ptr[T any](v T) *T { return &v }

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	alice := newTestUser(t, identity.RoleManager)
	repo.On("List", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Search == "ali" && f.Page == 2 && f.PageSize == 5 &&
			f.Filters["role"] == identity.RoleManager
	})).Return([]identity.User{*alice}, int64(6), nil)
	svc := NewUserService(repo, zap.NewNop())

	result, err := svc.List(ctx, UserListFilter{Search: "ali", Role: "manager", Page: 2, PageSize: 5})

	require.NoError(t, err)
	assert.Equal(t, int64(6), result.Total)
	assert.Equal(t, 2, result.Page)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "alice", result.Items[0].Username)
	assert.True(t, result.Items[0].IsActive)
	repo.AssertExpectations(t)
}

func TestUserService_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	id := uuid.New()
	repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)
	svc := NewUserService(repo, zap.NewNop())

	_, err := svc.GetByID(ctx, id)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	admin := audit.Actor{UserID: uuid.New(), Role: "admin", IP: "10.0.0.9"}

	t.Run("changes role and deactivates", func(t *testing.T) {
		repo := new(MockUserRepository)
		user := newTestUser(t, identity.RoleViewer)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)
		sink := &auditEntries{}
		svc := NewUserService(repo, zap.NewNop())
		svc.SetAuditSink(sink)

		resp, err := svc.Update(ctx, admin, user.ID, UpdateUserRequest{
			DisplayName: ptr("  Alice Doe "),
			Role:        ptr("manager"),
			IsActive:    ptr(false),
		})

		require.NoError(t, err)
		assert.Equal(t, "manager", resp.Role)
		assert.False(t, resp.IsActive)
		assert.Equal(t, "Alice Doe", resp.DisplayName)
		assert.False(t, user.CanLogin())
		require.Len(t, *sink, 1)
		entry := (*sink)[0]
		assert.Equal(t, audit.ActionUpdate, entry.Action)
		assert.Equal(t, "user", entry.EntityType)
		assert.Equal(t, user.ID, entry.EntityID)
		assert.Equal(t, admin.UserID, entry.UserID)
	})

	t.Run("reactivation clears the login lock", func(t *testing.T) {
		repo := new(MockUserRepository)
		user := newTestUser(t, identity.RoleViewer)
		user.RecordLoginFailure(1, 0)
		user.Deactivate()
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)
		svc := NewUserService(repo, zap.NewNop())

		resp, err := svc.Update(ctx, admin, user.ID, UpdateUserRequest{IsActive: ptr(true)})

		require.NoError(t, err)
		assert.True(t, resp.IsActive)
		assert.Equal(t, 0, resp.FailedAttempts)
		assert.True(t, user.CanLogin())
	})

	t.Run("cannot demote yourself", func(t *testing.T) {
		repo := new(MockUserRepository)
		user := newTestUser(t, identity.RoleAdmin)
		self := audit.Actor{UserID: user.ID, Role: "admin"}
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		svc := NewUserService(repo, zap.NewNop())

		_, err := svc.Update(ctx, self, user.ID, UpdateUserRequest{Role: ptr("viewer")})

		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "role", verr.Field)
		assert.Equal(t, identity.RoleAdmin, user.Role)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("cannot deactivate yourself", func(t *testing.T) {
		repo := new(MockUserRepository)
		user := newTestUser(t, identity.RoleAdmin)
		self := audit.Actor{UserID: user.ID, Role: "admin"}
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		svc := NewUserService(repo, zap.NewNop())

		_, err := svc.Update(ctx, self, user.ID, UpdateUserRequest{IsActive: ptr(false)})

		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.True(t, user.IsActive())
	})

	t.Run("self update of display name is allowed", func(t *testing.T) {
		repo := new(MockUserRepository)
		user := newTestUser(t, identity.RoleAdmin)
		self := audit.Actor{UserID: user.ID, Role: "admin"}
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)
		svc := NewUserService(repo, zap.NewNop())

		resp, err := svc.Update(ctx, self, user.ID, UpdateUserRequest{
			DisplayName: ptr("Root"),
			Role:        ptr("admin"),
			IsActive:    ptr(true),
		})

		require.NoError(t, err)
		assert.Equal(t, "Root", resp.DisplayName)
	})

	t.Run("save failure is returned", func(t *testing.T) {
		repo := new(MockUserRepository)
		user := newTestUser(t, identity.RoleViewer)
		boom := errors.New("connection reset")
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("Save", ctx, user).Return(boom)
		sink := &auditEntries{}
		svc := NewUserService(repo, zap.NewNop())
		svc.SetAuditSink(sink)

		_, err := svc.Update(ctx, admin, user.ID, UpdateUserRequest{Role: ptr("manager")})

		assert.ErrorIs(t, err, boom)
		assert.Empty(t, *sink)
	})
}
