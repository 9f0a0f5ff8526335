package catalog

import (
	"strings"

	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceCategory groups services for listing
type ServiceCategory string

const (
	CategoryPhotography ServiceCategory = "photography"
	CategoryWeb         ServiceCategory = "web"
	CategoryReels       ServiceCategory = "reels"
	CategoryOther       ServiceCategory = "other"
)

// IsValid reports whether the category is known
func (c ServiceCategory) IsValid() bool {
	switch c {
	case CategoryPhotography, CategoryWeb, CategoryReels, CategoryOther:
		return true
	}
	return false
}

// Service is a priced catalog item. A global service is offered to every
// client; a client service belongs to exactly one client.
type Service struct {
	shared.BaseAggregateRoot
	Name        valueobject.LocalizedText
	Description string
	Category    ServiceCategory
	Price       decimal.Decimal
	Discount    valueobject.Discount
	IsGlobal    bool
	ClientID    *uuid.UUID
}

// NewService creates a new service. clientID must be nil for a global service
// and set for a client service.
func NewService(name valueobject.LocalizedText, price decimal.Decimal, isGlobal bool, clientID *uuid.UUID) (*Service, error) {
	s := &Service{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Category:          CategoryOther,
		Discount:          valueobject.NoDiscount(),
	}
	if err := s.setName(name); err != nil {
		return nil, err
	}
	if err := s.SetPrice(price, valueobject.NoDiscount()); err != nil {
		return nil, err
	}
	if err := s.SetScope(isGlobal, clientID); err != nil {
		return nil, err
	}
	return s, nil
}

// Update changes the descriptive fields of the service
func (s *Service) Update(name valueobject.LocalizedText, description string, category ServiceCategory) error {
	if err := s.setName(name); err != nil {
		return err
	}
	if category == "" {
		category = CategoryOther
	}
	if !category.IsValid() {
		return shared.NewValidationError("category", "must be one of photography, web, reels, other")
	}
	s.Description = strings.TrimSpace(description)
	s.Category = category
	s.Touch()
	s.IncrementVersion()
	return nil
}

// SetPrice sets the canonical price and the discount applied when the
// service is quoted.
func (s *Service) SetPrice(price decimal.Decimal, discount valueobject.Discount) error {
	if price.IsNegative() {
		return shared.NewValidationError("price", "cannot be negative")
	}
	s.Price = price
	s.Discount = discount
	s.Touch()
	return nil
}

// SetScope switches the service between global and client-owned
func (s *Service) SetScope(isGlobal bool, clientID *uuid.UUID) error {
	if isGlobal && clientID != nil {
		return shared.NewValidationError("client_id", "global services cannot belong to a client")
	}
	if !isGlobal && (clientID == nil || *clientID == uuid.Nil) {
		return shared.NewValidationError("client_id", "client services require a client")
	}
	s.IsGlobal = isGlobal
	s.ClientID = clientID
	s.Touch()
	return nil
}

func (s *Service) setName(name valueobject.LocalizedText) error {
	if !name.IsComplete() {
		return shared.NewValidationError("name", "english and arabic names are required")
	}
	s.Name = valueobject.NewLocalizedText(name.En, name.Ar)
	return nil
}

// CanonicalPrice returns the catalog price
func (s *Service) CanonicalPrice() decimal.Decimal { return s.Price }

// LineDiscount returns the discount applied to quoted lines of this service
func (s *Service) LineDiscount() valueobject.Discount { return s.Discount }

// OwnerID returns the owning client, or nil for global services
func (s *Service) OwnerID() *uuid.UUID {
	if s.IsGlobal {
		return nil
	}
	return s.ClientID
}
