package catalog

import (
	"context"
	"fmt"

	"github.com/agency/planner/internal/domain/audit"
	"github.com/agency/planner/internal/domain/catalog"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientChecker reports whether a client exists and is not deleted
type ClientChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

const entityService = "service"

// ServiceCatalogService handles catalog service operations
type ServiceCatalogService struct {
	services catalog.ServiceRepository
	clients  ClientChecker
	audit    audit.Sink
}

// NewServiceCatalogService creates a new ServiceCatalogService
func NewServiceCatalogService(services catalog.ServiceRepository, clients ClientChecker) *ServiceCatalogService {
	return &ServiceCatalogService{services: services, clients: clients}
}

// SetAuditSink sets the audit sink
func (s *ServiceCatalogService) SetAuditSink(sink audit.Sink) {
	s.audit = sink
}

// Create creates a global or client-owned service
func (s *ServiceCatalogService) Create(ctx context.Context, actor audit.Actor, req CreateServiceRequest) (*ServiceResponse, error) {
	discount, err := toDiscount(req.Discount, req.DiscountType)
	if err != nil {
		return nil, err
	}
	if err := s.checkClient(ctx, req.IsGlobal, req.ClientID); err != nil {
		return nil, err
	}

	svc, err := catalog.NewService(valueobject.NewLocalizedText(req.En, req.Ar), req.Price, req.IsGlobal, req.ClientID)
	if err != nil {
		return nil, err
	}
	if err := svc.Update(svc.Name, req.Description, catalog.ServiceCategory(req.Category)); err != nil {
		return nil, err
	}
	if err := svc.SetPrice(req.Price, discount); err != nil {
		return nil, err
	}
	svc.Version = 1

	if err := s.services.Save(ctx, svc); err != nil {
		return nil, err
	}
	resp := ToServiceResponse(svc)
	recordAudit(ctx, s.audit, actor, audit.ActionCreate, entityService, svc.ID, resp)
	return &resp, nil
}

// GetByID retrieves a service by ID
func (s *ServiceCatalogService) GetByID(ctx context.Context, id uuid.UUID) (*ServiceResponse, error) {
	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToServiceResponse(svc)
	return &resp, nil
}

// List retrieves a page of services. With a client filter the page holds
// global services and the ones owned by that client.
func (s *ServiceCatalogService) List(ctx context.Context, filter ServiceListFilter) (*ListResponse[ServiceResponse], error) {
	base := toFilter(filter.Search, filter.Page, filter.PageSize)
	if filter.OrderBy != "" {
		base.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		base.OrderDir = filter.OrderDir
	}
	services, total, err := s.services.List(ctx, catalog.ServiceFilter{
		Filter:   base,
		Category: catalog.ServiceCategory(filter.Category),
		ClientID: filter.ClientID,
	})
	if err != nil {
		return nil, err
	}
	items := make([]ServiceResponse, len(services))
	for i := range services {
		items[i] = ToServiceResponse(&services[i])
	}
	return &ListResponse[ServiceResponse]{Items: items, Total: total, Page: base.Page, PageSize: base.PageSize}, nil
}

// Update changes a service. Documents already priced keep their lines.
func (s *ServiceCatalogService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, req UpdateServiceRequest) (*ServiceResponse, error) {
	svc, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := svc.Name
	if req.En != nil {
		name.En = *req.En
	}
	if req.Ar != nil {
		name.Ar = *req.Ar
	}
	description := svc.Description
	if req.Description != nil {
		description = *req.Description
	}
	category := svc.Category
	if req.Category != nil {
		category = catalog.ServiceCategory(*req.Category)
	}
	if err := svc.Update(name, description, category); err != nil {
		return nil, err
	}

	if req.Price != nil || req.Discount != nil || req.DiscountType != nil {
		price := svc.Price
		if req.Price != nil {
			price = *req.Price
		}
		value := svc.Discount.Value()
		if req.Discount != nil {
			value = *req.Discount
		}
		kind := string(svc.Discount.Kind())
		if req.DiscountType != nil {
			kind = *req.DiscountType
		}
		discount, err := toDiscount(value, kind)
		if err != nil {
			return nil, err
		}
		if err := svc.SetPrice(price, discount); err != nil {
			return nil, err
		}
	}

	if req.IsGlobal != nil || req.ClientID != nil {
		isGlobal := svc.IsGlobal
		if req.IsGlobal != nil {
			isGlobal = *req.IsGlobal
		}
		clientID := req.ClientID
		if clientID == nil && !isGlobal {
			clientID = svc.ClientID
		}
		if isGlobal {
			clientID = nil
		}
		if err := s.checkClient(ctx, isGlobal, clientID); err != nil {
			return nil, err
		}
		if err := svc.SetScope(isGlobal, clientID); err != nil {
			return nil, err
		}
	}

	if err := s.services.Save(ctx, svc); err != nil {
		return nil, err
	}
	resp := ToServiceResponse(svc)
	recordAudit(ctx, s.audit, actor, audit.ActionUpdate, entityService, svc.ID, resp)
	return &resp, nil
}

// Delete soft-deletes a service
func (s *ServiceCatalogService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	if _, err := s.services.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.services.SoftDelete(ctx, id); err != nil {
		return err
	}
	recordAudit(ctx, s.audit, actor, audit.ActionDelete, entityService, id, nil)
	return nil
}

func (s *ServiceCatalogService) checkClient(ctx context.Context, isGlobal bool, clientID *uuid.UUID) error {
	if isGlobal || clientID == nil {
		return nil
	}
	ok, err := s.clients.Exists(ctx, *clientID)
	if err != nil {
		return shared.NewStorageError("find client", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrInvalidClient, *clientID)
	}
	return nil
}

func toDiscount(value decimal.Decimal, kind string) (valueobject.Discount, error) {
	d, err := valueobject.NewDiscount(value, valueobject.DiscountKind(kind))
	if err != nil {
		return valueobject.Discount{}, shared.NewValidationError("discount", err.Error())
	}
	return d, nil
}

func toFilter(search string, page, pageSize int) shared.Filter {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   search,
	}
}

func recordAudit(ctx context.Context, sink audit.Sink, actor audit.Actor, action audit.Action, entityType string, id uuid.UUID, changes any) {
	if sink == nil {
		return
	}
	sink.Record(ctx, audit.NewEntry(actor, action, entityType, id, changes))
}
