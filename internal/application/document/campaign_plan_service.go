package document

import (
	"context"

	"github.com/agency/planner/internal/domain/audit"
	"github.com/agency/planner/internal/domain/document"
	"github.com/agency/planner/internal/domain/scope"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// CampaignPlanService handles campaign plan business operations
type CampaignPlanService struct {
	instrumentation
	plans     document.CampaignPlanRepository
	assembler *Assembler
	numbers   *document.NumberGenerator
	tx        shared.Transactor
}

// NewCampaignPlanService creates a new CampaignPlanService
func NewCampaignPlanService(
	plans document.CampaignPlanRepository,
	assembler *Assembler,
	numbers *document.NumberGenerator,
	tx shared.Transactor,
) *CampaignPlanService {
	return &CampaignPlanService{
		plans:     plans,
		assembler: assembler,
		numbers:   numbers,
		tx:        tx,
	}
}

func planScopeRequests(branches, segments, competitors, socialLinks []uuid.UUID) []scope.Request {
	return []scope.Request{
		{Kind: scope.KindBranches, IDs: branches},
		{Kind: scope.KindSegments, IDs: segments},
		{Kind: scope.KindCompetitors, IDs: competitors},
		{Kind: scope.KindSocialLinks, IDs: socialLinks},
	}
}

// Create validates every scoped reference against the plan's client, prices
// the lines and stores the plan. Nothing is stored when any check fails.
func (s *CampaignPlanService) Create(ctx context.Context, actor audit.Actor, req CreateCampaignPlanRequest) (*CampaignPlanResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, TypeCampaignPlan, "create")
	defer span.End()

	if req.ClientID == uuid.Nil {
		return nil, s.fail(ctx, span, TypeCampaignPlan, shared.NewValidationError("client_id", "is required"))
	}
	clientID := req.ClientID
	priced, err := s.assembler.Price(ctx, &clientID,
		planScopeRequests(req.Branches, req.Segments, req.Competitors, req.SocialLinks), req.LinesInput)
	if err != nil {
		return nil, s.fail(ctx, span, TypeCampaignPlan, err)
	}

	var p *document.CampaignPlan
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		number, err := s.numbers.PlanNumber(ctx)
		if err != nil {
			return shared.NewStorageError("generate plan number", err)
		}
		p, err = document.NewCampaignPlan(number, clientID, actor.UserID)
		if err != nil {
			return err
		}
		p.SetReferences(req.Branches, req.Segments, req.Competitors)
		p.SetSocialLinks(req.SocialLinks)
		p.Swot = document.Swot(req.Swot)
		p.Description = req.Description
		if err := p.SetObjectives(toObjectives(req.Objectives)); err != nil {
			return err
		}
		if err := p.SetStrategy(toStrategy(req.Strategy)); err != nil {
			return err
		}
		if err := priced.ApplyTo(&p.Pricing); err != nil {
			return err
		}
		return s.plans.Save(ctx, p)
	})
	if err != nil {
		return nil, s.fail(ctx, span, TypeCampaignPlan, err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrCampaignPlanID, p.ID.String(), telemetry.SpanAttrClientID, clientID.String())
	s.created(ctx, TypeCampaignPlan, p.Total)
	resp := ToCampaignPlanResponse(p)
	s.record(ctx, actor, audit.ActionCreate, TypeCampaignPlan, p.ID, resp)
	telemetry.SetOK(span)
	return &resp, nil
}

// GetByID retrieves a campaign plan by ID
func (s *CampaignPlanService) GetByID(ctx context.Context, id uuid.UUID) (*CampaignPlanResponse, error) {
	p, err := s.plans.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCampaignPlanResponse(p)
	return &resp, nil
}

// List retrieves a page of campaign plans
func (s *CampaignPlanService) List(ctx context.Context, filter ListFilter) (*ListResponse[CampaignPlanResponse], error) {
	domainFilter := toDomainFilter(filter)
	plans, total, err := s.plans.List(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]CampaignPlanResponse, len(plans))
	for i := range plans {
		items[i] = ToCampaignPlanResponse(&plans[i])
	}
	return &ListResponse[CampaignPlanResponse]{
		Items:    items,
		Total:    total,
		Page:     domainFilter.Page,
		PageSize: domainFilter.PageSize,
	}, nil
}

// Update changes a campaign plan. Changed reference lists are revalidated;
// moving the plan to another client revalidates all of them along with the
// lines.
func (s *CampaignPlanService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, req UpdateCampaignPlanRequest) (*CampaignPlanResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, TypeCampaignPlan, "update")
	defer span.End()

	p, err := s.plans.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, TypeCampaignPlan, err)
	}
	if req.ClientID.IsNull() {
		return nil, s.fail(ctx, span, TypeCampaignPlan, shared.NewValidationError("client_id", "cannot be removed"))
	}

	clientID := p.ClientID
	if req.ClientID.Set {
		clientID = *req.ClientID.Value
	}
	clientChanged := clientID != p.ClientID

	branches := req.Branches.Resolve(p.BranchIDs)
	segments := req.Segments.Resolve(p.SegmentIDs)
	competitors := req.Competitors.Resolve(p.CompetitorIDs)
	socialLinks := req.SocialLinks.Resolve(p.SocialLinkIDs)

	var requests []scope.Request
	if clientChanged {
		requests = planScopeRequests(branches, segments, competitors, socialLinks)
	} else {
		if req.Branches.Set {
			requests = append(requests, scope.Request{Kind: scope.KindBranches, IDs: branches})
		}
		if req.Segments.Set {
			requests = append(requests, scope.Request{Kind: scope.KindSegments, IDs: segments})
		}
		if req.Competitors.Set {
			requests = append(requests, scope.Request{Kind: scope.KindCompetitors, IDs: competitors})
		}
		if req.SocialLinks.Set {
			requests = append(requests, scope.Request{Kind: scope.KindSocialLinks, IDs: socialLinks})
		}
	}

	var priced *Priced
	switch {
	case req.touchesLines() || clientChanged:
		priced, err = s.assembler.Price(ctx, &clientID, requests, req.mergeInto(&p.Pricing))
	case len(requests) > 0:
		err = s.assembler.ValidateReferences(ctx, clientID, requests...)
	}
	if err != nil {
		return nil, s.fail(ctx, span, TypeCampaignPlan, err)
	}

	if err := p.ChangeClient(clientID); err != nil {
		return nil, s.fail(ctx, span, TypeCampaignPlan, err)
	}
	p.SetReferences(branches, segments, competitors)
	p.SetSocialLinks(socialLinks)
	if req.Swot.Set {
		p.Swot = document.Swot(req.Swot.Or(SwotInput{}))
	}
	p.Description = req.Description.Resolve(p.Description)
	if req.Objectives.Set {
		if err := p.SetObjectives(toObjectives(req.Objectives.Or(nil))); err != nil {
			return nil, s.fail(ctx, span, TypeCampaignPlan, err)
		}
	}
	if req.Strategy.Set {
		if err := p.SetStrategy(toStrategy(req.Strategy.Or(StrategyInput{}))); err != nil {
			return nil, s.fail(ctx, span, TypeCampaignPlan, err)
		}
	}
	if priced != nil {
		err = priced.ApplyTo(&p.Pricing)
	} else if req.OverriddenTotal.Set {
		err = p.SetOverride(req.OverriddenTotal.Value)
	}
	if err != nil {
		return nil, s.fail(ctx, span, TypeCampaignPlan, err)
	}

	p.Touch()
	p.IncrementVersion()
	if err := s.plans.Save(ctx, p); err != nil {
		return nil, s.fail(ctx, span, TypeCampaignPlan, err)
	}

	resp := ToCampaignPlanResponse(p)
	s.record(ctx, actor, audit.ActionUpdate, TypeCampaignPlan, p.ID, resp)
	telemetry.SetOK(span)
	return &resp, nil
}

// Delete soft-deletes a campaign plan
func (s *CampaignPlanService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	if _, err := s.plans.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.plans.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, audit.ActionDelete, TypeCampaignPlan, id, nil)
	return nil
}
