// Package client holds the application services for clients and the
// entities each client owns.
package client

import (
	"context"

	"github.com/agency/planner/internal/domain/audit"
	"github.com/agency/planner/internal/domain/client"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/google/uuid"
)

const entityClient = "client"

// ClientService handles client operations
type ClientService struct {
	clients client.ClientRepository
	audit   audit.Sink
}

// NewClientService creates a new ClientService
func NewClientService(clients client.ClientRepository) *ClientService {
	return &ClientService{clients: clients}
}

// SetAuditSink sets the audit sink
func (s *ClientService) SetAuditSink(sink audit.Sink) {
	s.audit = sink
}

// Create creates a client
func (s *ClientService) Create(ctx context.Context, actor audit.Actor, req CreateClientRequest) (*ClientResponse, error) {
	c, err := client.NewClient(req.BusinessName, req.ContactName)
	if err != nil {
		return nil, err
	}
	if err := c.SetContact(req.Email, req.Phone); err != nil {
		return nil, err
	}
	c.Notes = req.Notes

	if err := s.clients.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToClientResponse(c)
	recordAudit(ctx, s.audit, actor, audit.ActionCreate, entityClient, c.ID, resp)
	return &resp, nil
}

// GetByID retrieves a client by ID
func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	c, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToClientResponse(c)
	return &resp, nil
}

// List retrieves a page of clients
func (s *ClientService) List(ctx context.Context, filter ClientListFilter) (*ListResponse[ClientResponse], error) {
	base := toFilter(filter.Search, filter.Page, filter.PageSize)
	if filter.OrderBy != "" {
		base.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		base.OrderDir = filter.OrderDir
	}
	clients, total, err := s.clients.List(ctx, base)
	if err != nil {
		return nil, err
	}
	items := make([]ClientResponse, len(clients))
	for i := range clients {
		items[i] = ToClientResponse(&clients[i])
	}
	return &ListResponse[ClientResponse]{Items: items, Total: total, Page: base.Page, PageSize: base.PageSize}, nil
}

// Update changes a client
func (s *ClientService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	c, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	businessName, contactName := c.BusinessName, c.ContactName
	if req.BusinessName != nil {
		businessName = *req.BusinessName
	}
	if req.ContactName != nil {
		contactName = *req.ContactName
	}
	if err := c.Update(businessName, contactName); err != nil {
		return nil, err
	}

	email, phone := c.Email, c.Phone
	if req.Email != nil {
		email = *req.Email
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if err := c.SetContact(email, phone); err != nil {
		return nil, err
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}

	if err := s.clients.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToClientResponse(c)
	recordAudit(ctx, s.audit, actor, audit.ActionUpdate, entityClient, c.ID, resp)
	return &resp, nil
}

// Delete soft-deletes a client. Documents keep their client reference but
// new documents and scoped entities can no longer point at it.
func (s *ClientService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	if _, err := s.clients.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.clients.SoftDelete(ctx, id); err != nil {
		return err
	}
	recordAudit(ctx, s.audit, actor, audit.ActionDelete, entityClient, id, nil)
	return nil
}

func toFilter(search string, page, pageSize int) shared.Filter {
	f := shared.DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	f.Search = search
	return f
}

func recordAudit(ctx context.Context, sink audit.Sink, actor audit.Actor, action audit.Action, entityType string, id uuid.UUID, changes any) {
	if sink == nil {
		return
	}
	sink.Record(ctx, audit.NewEntry(actor, action, entityType, id, changes))
}
