package client

import (
	"context"
	"errors"
	"testing"

	"github.com/agency/planner/internal/domain/audit"
	"github.com/agency/planner/internal/domain/client"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockClientRepository) List(ctx context.Context, filter shared.Filter) ([]client.Client, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]client.Client), args.Get(1).(int64), args.Error(2)
}

func (m *MockClientRepository) Save(ctx context.Context, c *client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockScopedRepository[T any] struct {
	mock.Mock
}

func (m *MockScopedRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockScopedRepository[T]) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]T, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockScopedRepository[T]) ListByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]T, int64, error) {
	args := m.Called(ctx, clientID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]T), args.Get(1).(int64), args.Error(2)
}

func (m *MockScopedRepository[T]) Save(ctx context.Context, entity *T) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockScopedRepository[T]) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type sinkSpy struct {
	entries []audit.Entry
}

func (s *sinkSpy) Record(_ context.Context, e audit.Entry) {
	s.entries = append(s.entries, e)
}

func TestClientService_Create(t *testing.T) {
	ctx := context.Background()
	actor := audit.Actor{UserID: uuid.New()}

	t.Run("success", func(t *testing.T) {
		repo := new(MockClientRepository)
		spy := &sinkSpy{}
		svc := NewClientService(repo)
		svc.SetAuditSink(spy)
		repo.On("Save", ctx, mock.AnythingOfType("*client.Client")).Return(nil)

		resp, err := svc.Create(ctx, actor, CreateClientRequest{
			BusinessName: "  Acme Cafe ", ContactName: "Sara", Email: "sara@acme.test", Notes: "VIP",
		})

		require.NoError(t, err)
		assert.Equal(t, "Acme Cafe", resp.BusinessName)
		assert.Equal(t, "VIP", resp.Notes)
		assert.Equal(t, 1, resp.Version)
		require.Len(t, spy.entries, 1)
		assert.Equal(t, "client", spy.entries[0].EntityType)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := NewClientService(new(MockClientRepository)).Create(ctx, actor, CreateClientRequest{
			BusinessName: "Acme", Email: "not-an-email",
		})

		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "email", verr.Field)
	})

	t.Run("save failure", func(t *testing.T) {
		repo := new(MockClientRepository)
		repo.On("Save", ctx, mock.Anything).Return(shared.NewStorageError("save client", errors.New("db down")))

		_, err := NewClientService(repo).Create(ctx, actor, CreateClientRequest{BusinessName: "Acme"})

		assert.ErrorIs(t, err, shared.ErrStorage)
	})
}

func TestClientService_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(MockClientRepository)
	c, err := client.NewClient("Acme Cafe", "Sara")
	require.NoError(t, err)
	require.NoError(t, c.SetContact("sara@acme.test", "555"))
	repo.On("FindByID", ctx, c.ID).Return(c, nil)
	repo.On("Save", ctx, c).Return(nil)
	phone := "777"

	resp, err := NewClientService(repo).Update(ctx, audit.Actor{}, c.ID, UpdateClientRequest{Phone: &phone})

	require.NoError(t, err)
	assert.Equal(t, "Acme Cafe", resp.BusinessName)
	assert.Equal(t, "sara@acme.test", resp.Email)
	assert.Equal(t, "777", resp.Phone)
	assert.Equal(t, 2, resp.Version)
}

func TestClientService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockClientRepository)
	repo.On("List", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2 && f.PageSize == 20 && f.Search == "acme"
	})).Return([]client.Client{{BusinessName: "Acme"}}, int64(21), nil)

	resp, err := NewClientService(repo).List(ctx, ClientListFilter{Search: "acme", Page: 2})

	require.NoError(t, err)
	assert.Equal(t, int64(21), resp.Total)
	assert.Len(t, resp.Items, 1)
}

func TestSegmentService(t *testing.T) {
	ctx := context.Background()
	actor := audit.Actor{UserID: uuid.New()}
	clientID := uuid.New()

	t.Run("create for live client", func(t *testing.T) {
		clients := new(MockClientRepository)
		segments := new(MockScopedRepository[client.Segment])
		clients.On("Exists", ctx, clientID).Return(true, nil)
		segments.On("Save", ctx, mock.AnythingOfType("*client.Segment")).Return(nil)
		spy := &sinkSpy{}
		svc := NewSegmentService(segments, clients)
		svc.SetAuditSink(spy)

		resp, err := svc.Create(ctx, actor, SegmentRequest{ClientID: &clientID, En: "Students"})

		require.NoError(t, err)
		assert.Equal(t, clientID, resp.ClientID)
		assert.Equal(t, "Students", resp.En)
		require.Len(t, spy.entries, 1)
		assert.Equal(t, resp.ID, spy.entries[0].EntityID)
	})

	t.Run("deleted client", func(t *testing.T) {
		clients := new(MockClientRepository)
		segments := new(MockScopedRepository[client.Segment])
		clients.On("Exists", ctx, clientID).Return(false, nil)

		_, err := NewSegmentService(segments, clients).Create(ctx, actor, SegmentRequest{ClientID: &clientID, En: "Students"})

		assert.ErrorIs(t, err, shared.ErrInvalidClient)
		segments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("client required", func(t *testing.T) {
		_, err := NewSegmentService(new(MockScopedRepository[client.Segment]), new(MockClientRepository)).
			Create(ctx, actor, SegmentRequest{En: "Students"})

		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("ownership cannot move", func(t *testing.T) {
		segments := new(MockScopedRepository[client.Segment])
		seg, err := client.NewSegment(clientID, valueobject.NewLocalizedText("Students", ""), "")
		require.NoError(t, err)
		segments.On("FindByID", ctx, seg.ID).Return(seg, nil)
		other := uuid.New()

		_, err = NewSegmentService(segments, new(MockClientRepository)).Update(ctx, actor, seg.ID, SegmentRequest{ClientID: &other, En: "Parents"})

		assert.ErrorIs(t, err, shared.ErrValidation)
		segments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("list requires client", func(t *testing.T) {
		_, err := NewSegmentService(new(MockScopedRepository[client.Segment]), new(MockClientRepository)).List(ctx, ScopedListFilter{})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestBranchService_CreateKeepsPhone(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.New()
	clients := new(MockClientRepository)
	branches := new(MockScopedRepository[client.Branch])
	clients.On("Exists", ctx, clientID).Return(true, nil)
	branches.On("Save", ctx, mock.AnythingOfType("*client.Branch")).Return(nil)

	resp, err := NewBranchService(branches, clients).Create(ctx, audit.Actor{}, BranchRequest{
		ClientID: &clientID, En: "Downtown", Ar: "وسط المدينة", City: "Riyadh", Phone: "555",
	})

	require.NoError(t, err)
	assert.Equal(t, "555", resp.Phone)
	assert.Equal(t, "Riyadh", resp.City)
}

func TestCompetitorService_Delete(t *testing.T) {
	ctx := context.Background()
	competitors := new(MockScopedRepository[client.Competitor])
	comp, err := client.NewCompetitor(uuid.New(), "Rival", "https://rival.test", "")
	require.NoError(t, err)
	competitors.On("FindByID", ctx, comp.ID).Return(comp, nil)
	competitors.On("SoftDelete", ctx, comp.ID).Return(nil)
	spy := &sinkSpy{}
	svc := NewCompetitorService(competitors, new(MockClientRepository))
	svc.SetAuditSink(spy)

	require.NoError(t, svc.Delete(ctx, audit.Actor{}, comp.ID))

	competitors.AssertExpectations(t)
	require.Len(t, spy.entries, 1)
	assert.Equal(t, audit.ActionDelete, spy.entries[0].Action)
}

func TestSegmentService_BulkCreate(t *testing.T) {
	ctx := context.Background()
	actor := audit.Actor{UserID: uuid.New()}
	clientID, goneID := uuid.New(), uuid.New()
	clients := new(MockClientRepository)
	segments := new(MockScopedRepository[client.Segment])
	clients.On("Exists", ctx, clientID).Return(true, nil)
	clients.On("Exists", ctx, goneID).Return(false, nil)
	segments.On("Save", ctx, mock.AnythingOfType("*client.Segment")).Return(nil)
	spy := &sinkSpy{}
	svc := NewSegmentService(segments, clients)
	svc.SetAuditSink(spy)

	result, err := svc.BulkCreate(ctx, actor, []SegmentRequest{
		{ClientID: &clientID, En: "Students"},
		{ClientID: &goneID, En: "Parents"},
		{ClientID: &clientID},
		{ClientID: &clientID, Ar: "موظفون"},
	})

	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalProcessed)
	require.Len(t, result.Successful, 2)
	assert.Equal(t, "Students", result.Successful[0].En)
	assert.Equal(t, "موظفون", result.Successful[1].Ar)

	require.Len(t, result.Failed, 2)
	assert.Equal(t, 1, result.Failed[0].Index)
	assert.Equal(t, shared.ErrInvalidClient.Code, result.Failed[0].Code)
	assert.Equal(t, 2, result.Failed[1].Index)
	assert.Equal(t, shared.ErrValidation.Code, result.Failed[1].Code)

	segments.AssertNumberOfCalls(t, "Save", 2)
	assert.Len(t, spy.entries, 2, "only created items are audited")
}

func TestCompetitorService_BulkCreateStorageFailure(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.New()
	clients := new(MockClientRepository)
	competitors := new(MockScopedRepository[client.Competitor])
	clients.On("Exists", ctx, clientID).Return(true, nil)
	competitors.On("Save", ctx, mock.MatchedBy(func(c *client.Competitor) bool { return c.Name == "Rival" })).
		Return(shared.NewStorageError("save competitor", errors.New("deadlock detected")))
	competitors.On("Save", ctx, mock.AnythingOfType("*client.Competitor")).Return(nil)

	result, err := NewCompetitorService(competitors, clients).BulkCreate(ctx, audit.Actor{}, []CompetitorRequest{
		{ClientID: &clientID, Name: "Rival"},
		{ClientID: &clientID, Name: "Other"},
	})

	require.NoError(t, err)
	require.Len(t, result.Successful, 1)
	assert.Equal(t, "Other", result.Successful[0].Name)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, shared.ErrStorage.Code, result.Failed[0].Code)
	assert.NotContains(t, result.Failed[0].Error, "deadlock")
}

func TestSocialLinkService(t *testing.T) {
	ctx := context.Background()
	actor := audit.Actor{UserID: uuid.New()}
	clientID := uuid.New()

	t.Run("create defaults to business", func(t *testing.T) {
		clients := new(MockClientRepository)
		links := new(MockScopedRepository[client.SocialLink])
		clients.On("Exists", ctx, clientID).Return(true, nil)
		links.On("Save", ctx, mock.AnythingOfType("*client.SocialLink")).Return(nil)
		spy := &sinkSpy{}
		svc := NewSocialLinkService(links, clients)
		svc.SetAuditSink(spy)

		resp, err := svc.Create(ctx, actor, SocialLinkRequest{
			ClientID: &clientID, Platform: "instagram", PlatformName: "@acme", URL: "https://instagram.com/acme",
		})

		require.NoError(t, err)
		assert.Equal(t, clientID, resp.ClientID)
		assert.Equal(t, "business", resp.Type)
		require.Len(t, spy.entries, 1)
		assert.Equal(t, "social_link", spy.entries[0].EntityType)
	})

	t.Run("update keeps owner", func(t *testing.T) {
		links := new(MockScopedRepository[client.SocialLink])
		link, err := client.NewSocialLink(clientID, "x", "", "https://x.com/acme", "")
		require.NoError(t, err)
		links.On("FindByID", ctx, link.ID).Return(link, nil)
		links.On("Save", ctx, link).Return(nil)

		resp, err := NewSocialLinkService(links, new(MockClientRepository)).Update(ctx, actor, link.ID, SocialLinkRequest{
			Platform: "x", URL: "https://x.com/acme_sa", Type: "personal",
		})

		require.NoError(t, err)
		assert.Equal(t, clientID, resp.ClientID)
		assert.Equal(t, "personal", resp.Type)
		assert.Equal(t, "https://x.com/acme_sa", resp.URL)
	})
}
