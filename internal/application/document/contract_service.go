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

// ContractService handles contract business operations
type ContractService struct {
	instrumentation
	contracts document.ContractRepository
	assembler *Assembler
	terms     *document.TermComposer
	numbers   *document.NumberGenerator
	tx        shared.Transactor
}

// NewContractService creates a new ContractService
func NewContractService(
	contracts document.ContractRepository,
	assembler *Assembler,
	terms *document.TermComposer,
	numbers *document.NumberGenerator,
	tx shared.Transactor,
) *ContractService {
	return &ContractService{
		contracts: contracts,
		assembler: assembler,
		terms:     terms,
		numbers:   numbers,
		tx:        tx,
	}
}

func sourceRequests(quotationID, campaignPlanID *uuid.UUID) []scope.Request {
	var requests []scope.Request
	if quotationID != nil {
		requests = append(requests, scope.Request{Kind: scope.KindQuotations, IDs: []uuid.UUID{*quotationID}})
	}
	if campaignPlanID != nil {
		requests = append(requests, scope.Request{Kind: scope.KindCampaignPlans, IDs: []uuid.UUID{*campaignPlanID}})
	}
	return requests
}

func toEntries(in []TermInput) []document.TermEntry {
	out := make([]document.TermEntry, len(in))
	for i, t := range in {
		out[i] = t.toEntry()
	}
	return out
}

// Create validates the client, the source documents, the lines and the terms,
// then stores a draft contract
func (s *ContractService) Create(ctx context.Context, actor audit.Actor, req CreateContractRequest) (*ContractResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, TypeContract, "create")
	defer span.End()

	period, err := document.NewPeriod(req.StartDate, req.EndDate)
	if err != nil {
		return nil, s.fail(ctx, span, TypeContract, err)
	}
	if req.ClientID == uuid.Nil {
		return nil, s.fail(ctx, span, TypeContract, shared.NewValidationError("client_id", "is required"))
	}
	clientID := req.ClientID

	priced, err := s.assembler.Price(ctx, &clientID, sourceRequests(req.QuotationID, req.CampaignPlanID), req.LinesInput)
	if err != nil {
		return nil, s.fail(ctx, span, TypeContract, err)
	}
	terms, err := s.terms.ReplaceAll(ctx, toEntries(req.Terms))
	if err != nil {
		return nil, s.fail(ctx, span, TypeContract, err)
	}

	var c *document.Contract
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		number, err := s.numbers.ContractNumber(ctx)
		if err != nil {
			return shared.NewStorageError("generate contract number", err)
		}
		c, err = document.NewContract(number, clientID, actor.UserID, period)
		if err != nil {
			return err
		}
		c.SetSources(req.QuotationID, req.CampaignPlanID)
		c.ClientName = req.ClientName
		if c.ClientName == "" {
			c.ClientName = priced.Client.BusinessName
		}
		c.ClientNameAr = req.ClientNameAr
		c.Body = req.ContractBody
		c.BodyAr = req.ContractBodyAr
		c.Note = req.Note
		if err := priced.ApplyTo(&c.Pricing); err != nil {
			return err
		}
		if err := c.ValidateSources(); err != nil {
			return err
		}
		c.SetTerms(terms)
		return s.contracts.Save(ctx, c)
	})
	if err != nil {
		return nil, s.fail(ctx, span, TypeContract, err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrContractID, c.ID.String(), telemetry.SpanAttrContractNumber, c.Number)
	s.created(ctx, TypeContract, c.Value())
	resp := ToContractResponse(c)
	s.record(ctx, actor, audit.ActionCreate, TypeContract, c.ID, resp)
	telemetry.SetOK(span)
	return &resp, nil
}

// GetByID retrieves a contract by ID
func (s *ContractService) GetByID(ctx context.Context, id uuid.UUID) (*ContractResponse, error) {
	c, err := s.contracts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToContractResponse(c)
	return &resp, nil
}

// List retrieves a page of contracts
func (s *ContractService) List(ctx context.Context, filter ListFilter) (*ListResponse[ContractResponse], error) {
	if filter.Status != "" && !document.ContractStatus(filter.Status).IsValid() {
		return nil, shared.NewValidationError("status", "unknown status "+filter.Status)
	}
	domainFilter := toDomainFilter(filter)
	contracts, total, err := s.contracts.List(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]ContractResponse, len(contracts))
	for i := range contracts {
		items[i] = ToContractResponse(&contracts[i])
	}
	return &ListResponse[ContractResponse]{
		Items:    items,
		Total:    total,
		Page:     domainFilter.Page,
		PageSize: domainFilter.PageSize,
	}, nil
}

// Update changes a contract's details, sources and lines. Terms and status
// have their own operations.
func (s *ContractService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, req UpdateContractRequest) (*ContractResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, TypeContract, "update")
	defer span.End()

	c, err := s.contracts.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, TypeContract, err)
	}
	if c.Status == document.ContractCancelled {
		return nil, s.fail(ctx, span, TypeContract,
			shared.NewDomainError(shared.ErrInvalidState.Code, "Cannot modify a cancelled contract"))
	}
	if req.ClientID.IsNull() {
		return nil, s.fail(ctx, span, TypeContract, shared.NewValidationError("client_id", "cannot be removed"))
	}

	clientID := c.ClientID
	if req.ClientID.Set {
		clientID = *req.ClientID.Value
	}
	clientChanged := clientID != c.ClientID
	quotationID := req.QuotationID.Apply(c.QuotationID)
	campaignPlanID := req.CampaignPlanID.Apply(c.CampaignPlanID)

	period := c.Period
	if req.StartDate.Set || req.EndDate.Set {
		period, err = document.NewPeriod(req.StartDate.Or(c.Period.Start), req.EndDate.Or(c.Period.End))
		if err != nil {
			return nil, s.fail(ctx, span, TypeContract, err)
		}
	}

	var requests []scope.Request
	if clientChanged {
		requests = sourceRequests(quotationID, campaignPlanID)
	} else {
		var q, p *uuid.UUID
		if req.QuotationID.Set {
			q = quotationID
		}
		if req.CampaignPlanID.Set {
			p = campaignPlanID
		}
		requests = sourceRequests(q, p)
	}

	var priced *Priced
	switch {
	case req.touchesLines() || clientChanged:
		priced, err = s.assembler.Price(ctx, &clientID, requests, req.mergeInto(&c.Pricing))
	case len(requests) > 0:
		err = s.assembler.ValidateReferences(ctx, clientID, requests...)
	}
	if err != nil {
		return nil, s.fail(ctx, span, TypeContract, err)
	}

	c.ClientID = clientID
	c.SetSources(quotationID, campaignPlanID)
	c.Period = period
	if req.ClientName.Set {
		c.ClientName = req.ClientName.Or("")
	} else if clientChanged && priced != nil {
		c.ClientName = priced.Client.BusinessName
	}
	c.ClientNameAr = req.ClientNameAr.Resolve(c.ClientNameAr)
	c.Body = req.ContractBody.Resolve(c.Body)
	c.BodyAr = req.ContractBodyAr.Resolve(c.BodyAr)
	c.Note = req.Note.Resolve(c.Note)
	if priced != nil {
		err = priced.ApplyTo(&c.Pricing)
	} else if req.OverriddenTotal.Set {
		err = c.SetOverride(req.OverriddenTotal.Value)
	}
	if err == nil {
		err = c.ValidateSources()
	}
	if err != nil {
		return nil, s.fail(ctx, span, TypeContract, err)
	}

	c.Touch()
	c.IncrementVersion()
	if err := s.contracts.Save(ctx, c); err != nil {
		return nil, s.fail(ctx, span, TypeContract, err)
	}

	resp := ToContractResponse(c)
	s.record(ctx, actor, audit.ActionUpdate, TypeContract, c.ID, resp)
	telemetry.SetOK(span)
	return &resp, nil
}

// Delete soft-deletes a contract
func (s *ContractService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	if _, err := s.contracts.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.contracts.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, audit.ActionDelete, TypeContract, id, nil)
	return nil
}

// ReplaceTerms replaces every term of the contract
func (s *ContractService) ReplaceTerms(ctx context.Context, actor audit.Actor, id uuid.UUID, req ReplaceTermsRequest) (*ContractResponse, error) {
	return s.change(ctx, actor, id, "replace_terms", audit.ActionTermsChange, func(ctx context.Context, c *document.Contract) error {
		terms, err := s.terms.ReplaceAll(ctx, toEntries(req.Terms))
		if err != nil {
			return err
		}
		c.SetTerms(terms)
		return nil
	})
}

// AppendTerm adds one term after the existing ones
func (s *ContractService) AppendTerm(ctx context.Context, actor audit.Actor, id uuid.UUID, req TermInput) (*ContractResponse, error) {
	return s.change(ctx, actor, id, "append_term", audit.ActionTermsChange, func(ctx context.Context, c *document.Contract) error {
		terms, err := s.terms.Append(ctx, c.Terms, req.toEntry())
		if err != nil {
			return err
		}
		c.SetTerms(terms)
		return nil
	})
}

// ReorderTerms moves existing terms to new orders
func (s *ContractService) ReorderTerms(ctx context.Context, actor audit.Actor, id uuid.UUID, req ReorderTermsRequest) (*ContractResponse, error) {
	return s.change(ctx, actor, id, "reorder_terms", audit.ActionTermsChange, func(_ context.Context, c *document.Contract) error {
		terms, err := s.terms.Reorder(c.Terms, req.Terms)
		if err != nil {
			return err
		}
		c.SetTerms(terms)
		return nil
	})
}

// Sign records the signature date
func (s *ContractService) Sign(ctx context.Context, actor audit.Actor, id uuid.UUID, req SignContractRequest) (*ContractResponse, error) {
	return s.change(ctx, actor, id, "sign", audit.ActionStatusChange, func(_ context.Context, c *document.Contract) error {
		return c.Sign(req.SignedDate)
	})
}

// Activate moves the contract to active
func (s *ContractService) Activate(ctx context.Context, actor audit.Actor, id uuid.UUID) (*ContractResponse, error) {
	return s.change(ctx, actor, id, "activate", audit.ActionStatusChange, func(_ context.Context, c *document.Contract) error {
		return c.Activate()
	})
}

// Complete moves the contract to completed
func (s *ContractService) Complete(ctx context.Context, actor audit.Actor, id uuid.UUID) (*ContractResponse, error) {
	return s.change(ctx, actor, id, "complete", audit.ActionStatusChange, func(_ context.Context, c *document.Contract) error {
		return c.Complete()
	})
}

// Cancel moves the contract to cancelled
func (s *ContractService) Cancel(ctx context.Context, actor audit.Actor, id uuid.UUID, req CancelContractRequest) (*ContractResponse, error) {
	return s.change(ctx, actor, id, "cancel", audit.ActionStatusChange, func(_ context.Context, c *document.Contract) error {
		return c.Cancel(req.Reason)
	})
}

// Renew starts a new period, optionally with a new value
func (s *ContractService) Renew(ctx context.Context, actor audit.Actor, id uuid.UUID, req RenewContractRequest) (*ContractResponse, error) {
	period, err := document.NewPeriod(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	return s.change(ctx, actor, id, "renew", audit.ActionStatusChange, func(_ context.Context, c *document.Contract) error {
		return c.Renew(period, req.Value)
	})
}

// change loads a contract, applies fn and saves it. Nothing is saved when fn fails.
func (s *ContractService) change(
	ctx context.Context,
	actor audit.Actor,
	id uuid.UUID,
	method string,
	action audit.Action,
	fn func(ctx context.Context, c *document.Contract) error,
) (*ContractResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, TypeContract, method)
	defer span.End()

	c, err := s.contracts.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, TypeContract, err)
	}
	before := c.Status
	if err := fn(ctx, c); err != nil {
		return nil, s.fail(ctx, span, TypeContract, err)
	}
	c.IncrementVersion()
	if err := s.contracts.Save(ctx, c); err != nil {
		return nil, s.fail(ctx, span, TypeContract, err)
	}

	resp := ToContractResponse(c)
	s.record(ctx, actor, action, TypeContract, c.ID, map[string]any{
		"operation":   method,
		"from_status": before,
		"to_status":   c.Status,
		"terms":       len(c.Terms),
	})
	telemetry.SetOK(span)
	return &resp, nil
}
