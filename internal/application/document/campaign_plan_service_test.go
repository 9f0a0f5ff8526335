package document

import (
	"context"
	"errors"
	"testing"

	"github.com/agency/planner/internal/domain/document"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCampaignPlanService(h *harness) *CampaignPlanService {
	svc := NewCampaignPlanService(h.plans, h.assembler, h.numbers, h.tx)
	svc.SetAuditSink(h.sink)
	return svc
}

func TestCampaignPlanService_Create(t *testing.T) {
	t.Run("segment of another client is rejected and nothing persisted", func(t *testing.T) {
		h := newHarness(t)
		s1 := h.addSegment(t, h.clientA.ID)
		s2 := h.addSegment(t, h.clientB.ID)

		_, err := newCampaignPlanService(h).Create(context.Background(), h.actor, CreateCampaignPlanRequest{
			ClientID: h.clientA.ID,
			Segments: []uuid.UUID{s1, s2},
		})

		var crossErr *shared.CrossTenantError
		require.ErrorAs(t, err, &crossErr)
		assert.Equal(t, "segments", crossErr.Kind)
		assert.Equal(t, []uuid.UUID{s2}, crossErr.IDs)
		var notFound *shared.NotFoundError
		assert.False(t, errors.As(err, &notFound))
		assert.Equal(t, 0, h.tx.calls)
		assert.Empty(t, h.seq.values)
		assert.Empty(t, h.sink.entries)
		h.plans.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("reports missing and foreign segments together", func(t *testing.T) {
		h := newHarness(t)
		foreign := h.addSegment(t, h.clientB.ID)
		missing := uuid.New()

		_, err := newCampaignPlanService(h).Create(context.Background(), h.actor, CreateCampaignPlanRequest{
			ClientID: h.clientA.ID,
			Segments: []uuid.UUID{missing, foreign},
		})

		var scopeErr *shared.ScopeError
		require.ErrorAs(t, err, &scopeErr)
		assert.Equal(t, []uuid.UUID{missing}, scopeErr.MissingIDs())
		assert.Equal(t, []uuid.UUID{foreign}, scopeErr.CrossTenantIDs())
	})

	t.Run("scope failure is reported before a pricing failure", func(t *testing.T) {
		h := newHarness(t)
		foreign := h.addSegment(t, h.clientB.ID)

		_, err := newCampaignPlanService(h).Create(context.Background(), h.actor, CreateCampaignPlanRequest{
			ClientID:   h.clientA.ID,
			Segments:   []uuid.UUID{foreign},
			LinesInput: LinesInput{Services: []uuid.UUID{uuid.New()}},
		})

		assert.ErrorIs(t, err, shared.ErrCrossTenant)
		assert.False(t, errors.Is(err, shared.ErrInvalidReference))
	})

	t.Run("pricing failure is reported when scopes pass", func(t *testing.T) {
		h := newHarness(t)
		own := h.addSegment(t, h.clientA.ID)
		missing := uuid.New()

		_, err := newCampaignPlanService(h).Create(context.Background(), h.actor, CreateCampaignPlanRequest{
			ClientID:   h.clientA.ID,
			Segments:   []uuid.UUID{own},
			LinesInput: LinesInput{Services: []uuid.UUID{missing}},
		})

		var refErr *shared.InvalidReferenceError
		require.ErrorAs(t, err, &refErr)
		assert.Equal(t, missing, refErr.ID)
		assert.Equal(t, 0, h.tx.calls)
	})

	t.Run("stores plan with priced lines", func(t *testing.T) {
		h := newHarness(t)
		s1 := h.addSegment(t, h.clientA.ID)
		own := h.addService(t, "300", valueobject.PercentOff(50), &h.clientA.ID)
		h.plans.On("Save", mock.Anything, mock.AnythingOfType("*document.CampaignPlan")).Return(nil).Once()

		resp, err := newCampaignPlanService(h).Create(context.Background(), h.actor, CreateCampaignPlanRequest{
			ClientID:    h.clientA.ID,
			Segments:    []uuid.UUID{s1},
			Swot:        SwotInput{Strengths: []string{"Location"}},
			Description: "Summer launch",
			Objectives:  []ObjectiveInput{{Name: "Awareness", NameAr: "الوعي"}},
			Strategy:    StrategyInput{Budget: d("5000"), Timeline: []TimelineInput{{Start: "2025-06", End: "2025-08"}}},
			LinesInput:  LinesInput{Services: []uuid.UUID{own}},
		})

		require.NoError(t, err)
		assert.Equal(t, "PLAN-000001", resp.PlanNumber)
		assert.Equal(t, []uuid.UUID{s1}, resp.Segments)
		assert.Empty(t, resp.Branches)
		assert.True(t, resp.Total.Equal(d("150")))
		assert.True(t, resp.Strategy.Budget.Equal(d("5000")))
		require.Len(t, resp.Objectives, 1)
		assert.Equal(t, "الوعي", resp.Objectives[0].NameAr)
		h.plans.AssertExpectations(t)
	})

	t.Run("social link of another client is rejected", func(t *testing.T) {
		h := newHarness(t)
		own := h.addSocialLink(t, h.clientA.ID)
		foreign := h.addSocialLink(t, h.clientB.ID)

		_, err := newCampaignPlanService(h).Create(context.Background(), h.actor, CreateCampaignPlanRequest{
			ClientID:    h.clientA.ID,
			SocialLinks: []uuid.UUID{own, foreign},
		})

		var scopeErr *shared.ScopeError
		require.ErrorAs(t, err, &scopeErr)
		assert.Equal(t, "social_links", scopeErr.Kind)
		assert.Equal(t, []uuid.UUID{foreign}, scopeErr.CrossTenantIDs())
		h.plans.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("stores social links", func(t *testing.T) {
		h := newHarness(t)
		own := h.addSocialLink(t, h.clientA.ID)
		h.plans.On("Save", mock.Anything, mock.AnythingOfType("*document.CampaignPlan")).Return(nil).Once()

		resp, err := newCampaignPlanService(h).Create(context.Background(), h.actor, CreateCampaignPlanRequest{
			ClientID:    h.clientA.ID,
			SocialLinks: []uuid.UUID{own},
		})

		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{own}, resp.SocialLinks)
	})

	t.Run("objective without arabic name", func(t *testing.T) {
		h := newHarness(t)

		_, err := newCampaignPlanService(h).Create(context.Background(), h.actor, CreateCampaignPlanRequest{
			ClientID:   h.clientA.ID,
			Objectives: []ObjectiveInput{{Name: "Awareness"}},
		})

		assert.ErrorIs(t, err, shared.ErrValidation)
		h.plans.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("client is required", func(t *testing.T) {
		h := newHarness(t)

		_, err := newCampaignPlanService(h).Create(context.Background(), h.actor, CreateCampaignPlanRequest{})

		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestCampaignPlanService_Update(t *testing.T) {
	existing := func(t *testing.T, h *harness, segments ...uuid.UUID) *document.CampaignPlan {
		t.Helper()
		p, err := document.NewCampaignPlan("PLAN-000009", h.clientA.ID, h.actor.UserID)
		require.NoError(t, err)
		p.SetReferences(nil, segments, nil)
		p.Description = "Original"
		return p
	}

	t.Run("moving to another client revalidates references", func(t *testing.T) {
		h := newHarness(t)
		s1 := h.addSegment(t, h.clientA.ID)
		p := existing(t, h, s1)
		h.plans.On("FindByID", mock.Anything, p.ID).Return(p, nil)

		_, err := newCampaignPlanService(h).Update(context.Background(), h.actor, p.ID, UpdateCampaignPlanRequest{
			ClientID: Some(h.clientB.ID),
		})

		var crossErr *shared.CrossTenantError
		require.ErrorAs(t, err, &crossErr)
		assert.Equal(t, []uuid.UUID{s1}, crossErr.IDs)
		assert.Equal(t, h.clientA.ID, p.ClientID)
		h.plans.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("absent fields keep stored values", func(t *testing.T) {
		h := newHarness(t)
		s1 := h.addSegment(t, h.clientA.ID)
		p := existing(t, h, s1)
		h.plans.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		h.plans.On("Save", mock.Anything, p).Return(nil)

		resp, err := newCampaignPlanService(h).Update(context.Background(), h.actor, p.ID, UpdateCampaignPlanRequest{
			Swot: Some(SwotInput{Threats: []string{"New rival"}}),
		})

		require.NoError(t, err)
		assert.Equal(t, "Original", resp.Description)
		assert.Equal(t, []uuid.UUID{s1}, resp.Segments)
		assert.Equal(t, []string{"New rival"}, resp.Swot.Threats)
	})

	t.Run("null list clears references", func(t *testing.T) {
		h := newHarness(t)
		s1 := h.addSegment(t, h.clientA.ID)
		p := existing(t, h, s1)
		h.plans.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		h.plans.On("Save", mock.Anything, p).Return(nil)

		resp, err := newCampaignPlanService(h).Update(context.Background(), h.actor, p.ID, UpdateCampaignPlanRequest{
			Segments: Null[[]uuid.UUID](),
		})

		require.NoError(t, err)
		assert.Empty(t, resp.Segments)
	})

	t.Run("client cannot be removed", func(t *testing.T) {
		h := newHarness(t)
		p := existing(t, h)
		h.plans.On("FindByID", mock.Anything, p.ID).Return(p, nil)

		_, err := newCampaignPlanService(h).Update(context.Background(), h.actor, p.ID, UpdateCampaignPlanRequest{
			ClientID: Null[uuid.UUID](),
		})

		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}
