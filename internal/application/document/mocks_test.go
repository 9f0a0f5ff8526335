package document

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/agency/planner/internal/domain/audit"
	"github.com/agency/planner/internal/domain/catalog"
	"github.com/agency/planner/internal/domain/client"
	"github.com/agency/planner/internal/domain/document"
	"github.com/agency/planner/internal/domain/pricing"
	"github.com/agency/planner/internal/domain/scope"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockQuotationRepository is a mock implementation of QuotationRepository
type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Quotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]document.Quotation, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) List(ctx context.Context, filter document.ListFilter) ([]document.Quotation, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]document.Quotation), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuotationRepository) Save(ctx context.Context, q *document.Quotation) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuotationRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCampaignPlanRepository is a mock implementation of CampaignPlanRepository
type MockCampaignPlanRepository struct {
	mock.Mock
}

func (m *MockCampaignPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.CampaignPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.CampaignPlan), args.Error(1)
}

func (m *MockCampaignPlanRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]document.CampaignPlan, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.CampaignPlan), args.Error(1)
}

func (m *MockCampaignPlanRepository) List(ctx context.Context, filter document.ListFilter) ([]document.CampaignPlan, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]document.CampaignPlan), args.Get(1).(int64), args.Error(2)
}

func (m *MockCampaignPlanRepository) Save(ctx context.Context, p *document.CampaignPlan) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockCampaignPlanRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockContractRepository is a mock implementation of ContractRepository
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Contract), args.Error(1)
}

func (m *MockContractRepository) List(ctx context.Context, filter document.ListFilter) ([]document.Contract, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]document.Contract), args.Get(1).(int64), args.Error(2)
}

func (m *MockContractRepository) Save(ctx context.Context, c *document.Contract) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContractRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeClients serves clients from memory
type fakeClients map[uuid.UUID]*client.Client

func (f fakeClients) FindByID(_ context.Context, id uuid.UUID) (*client.Client, error) {
	c, ok := f[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

// memSequence is an in-memory SequenceStore
type memSequence struct {
	mu     sync.Mutex
	values map[string]int64
}

func (s *memSequence) NextValue(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name]++
	return s.values[name], nil
}

// fakeTx runs the function directly
type fakeTx struct {
	calls int
}

func (f *fakeTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// recordingSink keeps audit entries in memory
type recordingSink struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *recordingSink) Record(_ context.Context, entry audit.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func findIn[T any](m map[uuid.UUID]T) func(context.Context, []uuid.UUID) ([]T, error) {
	return func(_ context.Context, ids []uuid.UUID) ([]T, error) {
		out := make([]T, 0, len(ids))
		for _, id := range ids {
			if v, ok := m[id]; ok {
				out = append(out, v)
			}
		}
		return out, nil
	}
}

// harness wires the services over in-memory catalogs and mocked document repositories
type harness struct {
	clientA    *client.Client
	clientB    *client.Client
	actor      audit.Actor
	clients    fakeClients
	services   map[uuid.UUID]catalog.Service
	packages   map[uuid.UUID]catalog.Package
	segments   map[uuid.UUID]client.Segment
	links      map[uuid.UUID]client.SocialLink
	terms      map[uuid.UUID]catalog.ContractTerm
	quotations *MockQuotationRepository
	plans      *MockCampaignPlanRepository
	contracts  *MockContractRepository
	seq        *memSequence
	tx         *fakeTx
	sink       *recordingSink
	assembler  *Assembler
	numbers    *document.NumberGenerator
	composer   *document.TermComposer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clientA, err := client.NewClient("Acme Cafe", "Sara")
	require.NoError(t, err)
	clientB, err := client.NewClient("Other Co", "Omar")
	require.NoError(t, err)

	h := &harness{
		clientA:    clientA,
		clientB:    clientB,
		actor:      audit.Actor{UserID: uuid.New(), Role: "manager", IP: "127.0.0.1"},
		clients:    fakeClients{clientA.ID: clientA, clientB.ID: clientB},
		services:   map[uuid.UUID]catalog.Service{},
		packages:   map[uuid.UUID]catalog.Package{},
		segments:   map[uuid.UUID]client.Segment{},
		links:      map[uuid.UUID]client.SocialLink{},
		terms:      map[uuid.UUID]catalog.ContractTerm{},
		quotations: new(MockQuotationRepository),
		plans:      new(MockCampaignPlanRepository),
		contracts:  new(MockContractRepository),
		seq:        &memSequence{values: map[string]int64{}},
		tx:         &fakeTx{},
		sink:       &recordingSink{},
	}

	validator := scope.NewValidator().
		Register(scope.KindSegments, scope.LookupFrom[client.Segment](findIn(h.segments))).
		Register(scope.KindSocialLinks, scope.LookupFrom[client.SocialLink](findIn(h.links))).
		Register(scope.KindQuotations, scope.LookupFrom[document.Quotation](h.quotations.FindByIDs)).
		Register(scope.KindCampaignPlans, scope.LookupFrom[document.CampaignPlan](h.plans.FindByIDs))
	normalizer := pricing.NewNormalizer(
		pricing.ItemsFrom[catalog.Service](findIn(h.services)),
		pricing.ItemsFrom[catalog.Package](findIn(h.packages)),
	)
	h.assembler = NewAssembler(h.clients, validator, normalizer)
	h.numbers = document.NewNumberGenerator(h.seq).WithClock(func() time.Time {
		return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	})
	h.composer = document.NewTermComposer(func(_ context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
		var out []uuid.UUID
		for _, id := range ids {
			if _, ok := h.terms[id]; ok {
				out = append(out, id)
			}
		}
		return out, nil
	})
	return h
}

func (h *harness) addService(t *testing.T, price string, discount valueobject.Discount, owner *uuid.UUID) uuid.UUID {
	t.Helper()
	s, err := catalog.NewService(valueobject.NewLocalizedText("Shoot", "تصوير"), d(price), owner == nil, owner)
	require.NoError(t, err)
	require.NoError(t, s.SetPrice(d(price), discount))
	h.services[s.ID] = *s
	return s.ID
}

func (h *harness) addPackage(t *testing.T, price string) uuid.UUID {
	t.Helper()
	p, err := catalog.NewPackage(valueobject.NewLocalizedText("Starter", "أساسي"), d(price))
	require.NoError(t, err)
	h.packages[p.ID] = *p
	return p.ID
}

func (h *harness) addSegment(t *testing.T, owner uuid.UUID) uuid.UUID {
	t.Helper()
	s, err := client.NewSegment(owner, valueobject.NewLocalizedText("Students", "طلاب"), "")
	require.NoError(t, err)
	h.segments[s.ID] = *s
	return s.ID
}

func (h *harness) addSocialLink(t *testing.T, owner uuid.UUID) uuid.UUID {
	t.Helper()
	l, err := client.NewSocialLink(owner, "instagram", "@acme", "https://instagram.com/acme", "")
	require.NoError(t, err)
	h.links[l.ID] = *l
	return l.ID
}

func (h *harness) addTerm(t *testing.T) uuid.UUID {
	t.Helper()
	term, err := catalog.NewContractTerm("Payment", "الدفع", "50% upfront", "50% مقدما")
	require.NoError(t, err)
	h.terms[term.ID] = *term
	return term.ID
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}
