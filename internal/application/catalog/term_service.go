package catalog

import (
	"context"

	"github.com/agency/planner/internal/application/bulk"
	"github.com/agency/planner/internal/domain/audit"
	"github.com/agency/planner/internal/domain/catalog"
	"github.com/google/uuid"
)

const entityTerm = "contract_term"

// TermService handles contract term catalog operations
type TermService struct {
	terms catalog.ContractTermRepository
	audit audit.Sink
}

// NewTermService creates a new TermService
func NewTermService(terms catalog.ContractTermRepository) *TermService {
	return &TermService{terms: terms}
}

// SetAuditSink sets the audit sink
func (s *TermService) SetAuditSink(sink audit.Sink) {
	s.audit = sink
}

// Create creates a contract term
func (s *TermService) Create(ctx context.Context, actor audit.Actor, req TermRequest) (*TermResponse, error) {
	term, err := catalog.NewContractTerm(req.Key, req.KeyAr, req.Value, req.ValueAr)
	if err != nil {
		return nil, err
	}
	if err := s.terms.Save(ctx, term); err != nil {
		return nil, err
	}
	resp := ToTermResponse(term)
	recordAudit(ctx, s.audit, actor, audit.ActionCreate, entityTerm, term.ID, resp)
	return &resp, nil
}

// BulkCreate creates each term of the batch on its own and reports the
// items that failed
func (s *TermService) BulkCreate(ctx context.Context, actor audit.Actor, reqs []TermRequest) (*bulk.Result[TermResponse], error) {
	return bulk.Run(ctx, reqs, func(ctx context.Context, req TermRequest) (*TermResponse, error) {
		return s.Create(ctx, actor, req)
	})
}

// GetByID retrieves a contract term by ID
func (s *TermService) GetByID(ctx context.Context, id uuid.UUID) (*TermResponse, error) {
	term, err := s.terms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTermResponse(term)
	return &resp, nil
}

// List retrieves a page of contract terms
func (s *TermService) List(ctx context.Context, filter PageFilter) (*ListResponse[TermResponse], error) {
	base := toFilter(filter.Search, filter.Page, filter.PageSize)
	terms, total, err := s.terms.List(ctx, base)
	if err != nil {
		return nil, err
	}
	items := make([]TermResponse, len(terms))
	for i := range terms {
		items[i] = ToTermResponse(&terms[i])
	}
	return &ListResponse[TermResponse]{Items: items, Total: total, Page: base.Page, PageSize: base.PageSize}, nil
}

// Update replaces a term's text. Contracts referencing it render the new text.
func (s *TermService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, req TermRequest) (*TermResponse, error) {
	term, err := s.terms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := term.Update(req.Key, req.KeyAr, req.Value, req.ValueAr); err != nil {
		return nil, err
	}
	if err := s.terms.Save(ctx, term); err != nil {
		return nil, err
	}
	resp := ToTermResponse(term)
	recordAudit(ctx, s.audit, actor, audit.ActionUpdate, entityTerm, term.ID, resp)
	return &resp, nil
}

// Delete soft-deletes a contract term. Contracts keep their reference and
// new references to it are rejected.
func (s *TermService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	if _, err := s.terms.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.terms.SoftDelete(ctx, id); err != nil {
		return err
	}
	recordAudit(ctx, s.audit, actor, audit.ActionDelete, entityTerm, id, nil)
	return nil
}
