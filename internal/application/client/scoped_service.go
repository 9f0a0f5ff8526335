package client

import (
	"context"
	"fmt"

	"github.com/agency/planner/internal/application/bulk"
	"github.com/agency/planner/internal/domain/audit"
	"github.com/agency/planner/internal/domain/client"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// scopedEntity is implemented by every client-owned aggregate
type scopedEntity interface {
	GetID() uuid.UUID
	GetClientID() uuid.UUID
}

// scopedBehavior binds a request and response type to one kind of scoped entity
type scopedBehavior[T any, Req any, Resp any] struct {
	entityType string
	build      func(clientID uuid.UUID, req Req) (*T, error)
	update     func(entity *T, req Req) error
	clientOf   func(req Req) *uuid.UUID
	respond    func(entity *T) Resp
}

// ScopedService provides CRUD for entities that belong to one client.
// Ownership is fixed at creation.
type ScopedService[T any, Req any, Resp any] struct {
	entities client.ScopedRepository[T]
	clients  client.ClientRepository
	behavior scopedBehavior[T, Req, Resp]
	audit    audit.Sink
}

// SegmentService manages client segments
type SegmentService = ScopedService[client.Segment, SegmentRequest, SegmentResponse]

// CompetitorService manages client competitors
type CompetitorService = ScopedService[client.Competitor, CompetitorRequest, CompetitorResponse]

// BranchService manages client branches
type BranchService = ScopedService[client.Branch, BranchRequest, BranchResponse]

// SocialLinkService manages client social links
type SocialLinkService = ScopedService[client.SocialLink, SocialLinkRequest, SocialLinkResponse]

// NewSegmentService creates a new SegmentService
func NewSegmentService(segments client.SegmentRepository, clients client.ClientRepository) *SegmentService {
	return &SegmentService{
		entities: segments,
		clients:  clients,
		behavior: scopedBehavior[client.Segment, SegmentRequest, SegmentResponse]{
			entityType: "segment",
			build: func(clientID uuid.UUID, req SegmentRequest) (*client.Segment, error) {
				return client.NewSegment(clientID, valueobject.NewLocalizedText(req.En, req.Ar), req.Description)
			},
			update: func(s *client.Segment, req SegmentRequest) error {
				return s.Update(valueobject.NewLocalizedText(req.En, req.Ar), req.Description)
			},
			clientOf: func(req SegmentRequest) *uuid.UUID { return req.ClientID },
			respond:  ToSegmentResponse,
		},
	}
}

// NewCompetitorService creates a new CompetitorService
func NewCompetitorService(competitors client.CompetitorRepository, clients client.ClientRepository) *CompetitorService {
	return &CompetitorService{
		entities: competitors,
		clients:  clients,
		behavior: scopedBehavior[client.Competitor, CompetitorRequest, CompetitorResponse]{
			entityType: "competitor",
			build: func(clientID uuid.UUID, req CompetitorRequest) (*client.Competitor, error) {
				return client.NewCompetitor(clientID, req.Name, req.Website, req.Notes)
			},
			update: func(c *client.Competitor, req CompetitorRequest) error {
				return c.Update(req.Name, req.Website, req.Notes)
			},
			clientOf: func(req CompetitorRequest) *uuid.UUID { return req.ClientID },
			respond:  ToCompetitorResponse,
		},
	}
}

// NewBranchService creates a new BranchService
func NewBranchService(branches client.BranchRepository, clients client.ClientRepository) *BranchService {
	return &BranchService{
		entities: branches,
		clients:  clients,
		behavior: scopedBehavior[client.Branch, BranchRequest, BranchResponse]{
			entityType: "branch",
			build: func(clientID uuid.UUID, req BranchRequest) (*client.Branch, error) {
				b, err := client.NewBranch(clientID, valueobject.NewLocalizedText(req.En, req.Ar), req.Address, req.City)
				if err != nil {
					return nil, err
				}
				b.Phone = req.Phone
				return b, nil
			},
			update: func(b *client.Branch, req BranchRequest) error {
				return b.Update(valueobject.NewLocalizedText(req.En, req.Ar), req.Address, req.City, req.Phone)
			},
			clientOf: func(req BranchRequest) *uuid.UUID { return req.ClientID },
			respond:  ToBranchResponse,
		},
	}
}

// NewSocialLinkService creates a new SocialLinkService
func NewSocialLinkService(links client.SocialLinkRepository, clients client.ClientRepository) *SocialLinkService {
	return &SocialLinkService{
		entities: links,
		clients:  clients,
		behavior: scopedBehavior[client.SocialLink, SocialLinkRequest, SocialLinkResponse]{
			entityType: "social_link",
			build: func(clientID uuid.UUID, req SocialLinkRequest) (*client.SocialLink, error) {
				return client.NewSocialLink(clientID, req.Platform, req.PlatformName, req.URL, client.SocialLinkType(req.Type))
			},
			update: func(l *client.SocialLink, req SocialLinkRequest) error {
				return l.Update(req.Platform, req.PlatformName, req.URL, client.SocialLinkType(req.Type))
			},
			clientOf: func(req SocialLinkRequest) *uuid.UUID { return req.ClientID },
			respond:  ToSocialLinkResponse,
		},
	}
}

// SetAuditSink sets the audit sink
func (s *ScopedService[T, Req, Resp]) SetAuditSink(sink audit.Sink) {
	s.audit = sink
}

// Create creates an entity owned by the request's client
func (s *ScopedService[T, Req, Resp]) Create(ctx context.Context, actor audit.Actor, req Req) (*Resp, error) {
	clientID := s.behavior.clientOf(req)
	if clientID == nil || *clientID == uuid.Nil {
		return nil, shared.NewValidationError("client_id", "is required")
	}
	if err := s.requireClient(ctx, *clientID); err != nil {
		return nil, err
	}

	entity, err := s.behavior.build(*clientID, req)
	if err != nil {
		return nil, err
	}
	if err := s.entities.Save(ctx, entity); err != nil {
		return nil, err
	}
	resp := s.behavior.respond(entity)
	recordAudit(ctx, s.audit, actor, audit.ActionCreate, s.behavior.entityType, idOf(entity), resp)
	return &resp, nil
}

// BulkCreate creates each entity of the batch on its own. Every request
// names its client; failed items are reported and do not affect the rest.
func (s *ScopedService[T, Req, Resp]) BulkCreate(ctx context.Context, actor audit.Actor, reqs []Req) (*bulk.Result[Resp], error) {
	return bulk.Run(ctx, reqs, func(ctx context.Context, req Req) (*Resp, error) {
		return s.Create(ctx, actor, req)
	})
}

// GetByID retrieves an entity by ID
func (s *ScopedService[T, Req, Resp]) GetByID(ctx context.Context, id uuid.UUID) (*Resp, error) {
	entity, err := s.entities.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.behavior.respond(entity)
	return &resp, nil
}

// List retrieves a page of one client's entities
func (s *ScopedService[T, Req, Resp]) List(ctx context.Context, filter ScopedListFilter) (*ListResponse[Resp], error) {
	if filter.ClientID == uuid.Nil {
		return nil, shared.NewValidationError("client_id", "is required")
	}
	base := toFilter(filter.Search, filter.Page, filter.PageSize)
	entities, total, err := s.entities.ListByClient(ctx, filter.ClientID, base)
	if err != nil {
		return nil, err
	}
	items := make([]Resp, len(entities))
	for i := range entities {
		items[i] = s.behavior.respond(&entities[i])
	}
	return &ListResponse[Resp]{Items: items, Total: total, Page: base.Page, PageSize: base.PageSize}, nil
}

// Update replaces an entity's details. A client id in the request must match
// the current owner.
func (s *ScopedService[T, Req, Resp]) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, req Req) (*Resp, error) {
	entity, err := s.entities.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if clientID := s.behavior.clientOf(req); clientID != nil && *clientID != ownerOf(entity) {
		return nil, shared.NewValidationError("client_id", "ownership cannot change")
	}
	if err := s.behavior.update(entity, req); err != nil {
		return nil, err
	}
	if err := s.entities.Save(ctx, entity); err != nil {
		return nil, err
	}
	resp := s.behavior.respond(entity)
	recordAudit(ctx, s.audit, actor, audit.ActionUpdate, s.behavior.entityType, id, resp)
	return &resp, nil
}

// Delete soft-deletes an entity
func (s *ScopedService[T, Req, Resp]) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	if _, err := s.entities.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.entities.SoftDelete(ctx, id); err != nil {
		return err
	}
	recordAudit(ctx, s.audit, actor, audit.ActionDelete, s.behavior.entityType, id, nil)
	return nil
}

func (s *ScopedService[T, Req, Resp]) requireClient(ctx context.Context, id uuid.UUID) error {
	ok, err := s.clients.Exists(ctx, id)
	if err != nil {
		return shared.NewStorageError("find client", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrInvalidClient, id)
	}
	return nil
}

func idOf[T any](entity *T) uuid.UUID {
	if e, ok := any(entity).(scopedEntity); ok {
		return e.GetID()
	}
	return uuid.Nil
}

func ownerOf[T any](entity *T) uuid.UUID {
	if e, ok := any(entity).(scopedEntity); ok {
		return e.GetClientID()
	}
	return uuid.Nil
}
