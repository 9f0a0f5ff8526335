package document

import (
	"context"
	"fmt"
	"time"

	"github.com/agency/planner/internal/domain/audit"
	"github.com/agency/planner/internal/domain/document"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// QuotationService handles quotation business operations
type QuotationService struct {
	instrumentation
	quotations document.QuotationRepository
	contracts  document.ContractRepository
	assembler  *Assembler
	numbers    *document.NumberGenerator
	tx         shared.Transactor
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(
	quotations document.QuotationRepository,
	contracts document.ContractRepository,
	assembler *Assembler,
	numbers *document.NumberGenerator,
	tx shared.Transactor,
) *QuotationService {
	return &QuotationService{
		quotations: quotations,
		contracts:  contracts,
		assembler:  assembler,
		numbers:    numbers,
		tx:         tx,
	}
}

// Create prices and stores a new draft quotation
func (s *QuotationService) Create(ctx context.Context, actor audit.Actor, req CreateQuotationRequest) (*QuotationResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, TypeQuotation, "create")
	defer span.End()

	clientID := req.ClientID
	if clientID != nil && *clientID == uuid.Nil {
		clientID = nil
	}
	priced, err := s.assembler.Price(ctx, clientID, nil, req.LinesInput)
	if err != nil {
		return nil, s.fail(ctx, span, TypeQuotation, err)
	}

	var q *document.Quotation
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		number, err := s.numbers.QuotationNumber(ctx)
		if err != nil {
			return shared.NewStorageError("generate quotation number", err)
		}
		q, err = document.NewQuotation(number, actor.UserID)
		if err != nil {
			return err
		}
		if clientID != nil {
			q.SetClient(clientID)
		} else {
			q.SetClientName(req.ClientName)
		}
		q.SetDetails(req.Note, req.ValidUntil)
		if err := priced.ApplyTo(&q.Pricing); err != nil {
			return err
		}
		return s.quotations.Save(ctx, q)
	})
	if err != nil {
		return nil, s.fail(ctx, span, TypeQuotation, err)
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrQuotationID, q.ID.String(),
		telemetry.SpanAttrQuotationNumber, q.Number,
		telemetry.SpanAttrTotal, q.Total.String(),
		telemetry.SpanAttrLineCount, len(q.Lines)+len(q.CustomLines),
	)
	s.created(ctx, TypeQuotation, q.Total)
	resp := ToQuotationResponse(q)
	s.record(ctx, actor, audit.ActionCreate, TypeQuotation, q.ID, resp)
	telemetry.SetOK(span)
	return &resp, nil
}

// GetByID retrieves a quotation by ID
func (s *QuotationService) GetByID(ctx context.Context, id uuid.UUID) (*QuotationResponse, error) {
	q, err := s.quotations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToQuotationResponse(q)
	return &resp, nil
}

// List retrieves a page of quotations
func (s *QuotationService) List(ctx context.Context, filter ListFilter) (*ListResponse[QuotationResponse], error) {
	if filter.Status != "" && !document.QuotationStatus(filter.Status).IsValid() {
		return nil, shared.NewValidationError("status", fmt.Sprintf("unknown status %q", filter.Status))
	}
	domainFilter := toDomainFilter(filter)
	quotations, total, err := s.quotations.List(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]QuotationResponse, len(quotations))
	for i := range quotations {
		items[i] = ToQuotationResponse(&quotations[i])
	}
	return &ListResponse[QuotationResponse]{
		Items:    items,
		Total:    total,
		Page:     domainFilter.Page,
		PageSize: domainFilter.PageSize,
	}, nil
}

// Update changes a quotation. Lines are repriced when any line field or the
// client changes; otherwise only the override is reapplied.
func (s *QuotationService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, req UpdateQuotationRequest) (*QuotationResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, TypeQuotation, "update")
	defer span.End()

	q, err := s.quotations.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, TypeQuotation, err)
	}

	clientID := q.ClientID
	clientChanged := false
	switch {
	case req.ClientID.Set && req.ClientID.Value != nil && *req.ClientID.Value != uuid.Nil:
		clientID = req.ClientID.Value
		clientChanged = q.ClientID == nil || *q.ClientID != *clientID
	case req.ClientID.Set:
		clientID = nil
		clientChanged = q.ClientID != nil
	case req.ClientName.Set && req.ClientName.Value != nil:
		clientID = nil
		clientChanged = q.ClientID != nil
	}

	var priced *Priced
	if req.touchesLines() || clientChanged {
		priced, err = s.assembler.Price(ctx, clientID, nil, req.mergeInto(&q.Pricing))
		if err != nil {
			return nil, s.fail(ctx, span, TypeQuotation, err)
		}
	}

	if clientID != nil {
		q.SetClient(clientID)
	} else if req.ClientName.Set {
		q.SetClientName(req.ClientName.Or(""))
	} else if clientChanged {
		q.SetClient(nil)
	}

	if req.Status.Set && req.Status.Value != nil {
		if err := q.ChangeStatus(document.QuotationStatus(*req.Status.Value)); err != nil {
			return nil, s.fail(ctx, span, TypeQuotation, err)
		}
	}
	if req.Note.Set || req.ValidUntil.Set {
		q.SetDetails(req.Note.Resolve(q.Note), req.ValidUntil.Apply(q.ValidUntil))
	}

	if priced != nil {
		err = priced.ApplyTo(&q.Pricing)
	} else if req.OverriddenTotal.Set {
		err = q.SetOverride(req.OverriddenTotal.Value)
	}
	if err != nil {
		return nil, s.fail(ctx, span, TypeQuotation, err)
	}

	q.Touch()
	q.IncrementVersion()
	if err := s.quotations.Save(ctx, q); err != nil {
		return nil, s.fail(ctx, span, TypeQuotation, err)
	}

	resp := ToQuotationResponse(q)
	s.record(ctx, actor, audit.ActionUpdate, TypeQuotation, q.ID, resp)
	telemetry.SetOK(span)
	return &resp, nil
}

// Delete soft-deletes a quotation
func (s *QuotationService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	if _, err := s.quotations.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.quotations.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, audit.ActionDelete, TypeQuotation, id, nil)
	return nil
}

// ConvertToContract creates a draft contract from a quotation and approves
// the quotation. Both writes happen in one transaction.
func (s *QuotationService) ConvertToContract(ctx context.Context, actor audit.Actor, id uuid.UUID, req ConvertToContractRequest) (*ContractResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, TypeQuotation, "convert_to_contract")
	defer span.End()

	period, err := document.NewPeriod(req.StartDate, req.EndDate)
	if err != nil {
		return nil, s.fail(ctx, span, TypeContract, err)
	}

	q, err := s.quotations.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, TypeContract, err)
	}
	if q.ClientID == nil {
		return nil, s.fail(ctx, span, TypeContract,
			shared.NewValidationError("client_id", "quotation has no client to contract with"))
	}
	if q.Status == document.QuotationApproved {
		return nil, s.fail(ctx, span, TypeContract,
			shared.NewDomainError(shared.ErrInvalidTransition.Code, "Quotation is already approved"))
	}
	cl, err := s.assembler.RequireClient(ctx, *q.ClientID)
	if err != nil {
		return nil, s.fail(ctx, span, TypeContract, err)
	}

	var c *document.Contract
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		number, err := s.numbers.ContractNumber(ctx)
		if err != nil {
			return shared.NewStorageError("generate contract number", err)
		}
		c, err = document.NewContractFromQuotation(number, q, actor.UserID, period)
		if err != nil {
			return err
		}
		c.ClientName = cl.BusinessName
		c.ClientNameAr = req.ClientNameAr
		c.Body = req.ContractBody
		c.BodyAr = req.ContractBodyAr
		if err := q.Approve(); err != nil {
			return err
		}
		q.IncrementVersion()
		if err := s.contracts.Save(ctx, c); err != nil {
			return err
		}
		return s.quotations.Save(ctx, q)
	})
	if err != nil {
		return nil, s.fail(ctx, span, TypeContract, err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrQuotationID, q.ID.String(), telemetry.SpanAttrContractID, c.ID.String())
	s.created(ctx, TypeContract, c.Value())
	resp := ToContractResponse(c)
	s.record(ctx, actor, audit.ActionConvertToContract, TypeQuotation, q.ID, map[string]any{
		"contract_id":     c.ID,
		"contract_number": c.Number,
		"value":           c.Value(),
		"converted_at":    time.Now(),
	})
	telemetry.SetOK(span)
	return &resp, nil
}

func toDomainFilter(f ListFilter) document.ListFilter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.OrderBy == "" {
		f.OrderBy = "created_at"
	}
	if f.OrderDir == "" {
		f.OrderDir = "desc"
	}
	return document.ListFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
			Search:   f.Search,
		},
		ClientID: f.ClientID,
		Status:   f.Status,
	}
}
