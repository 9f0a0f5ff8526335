package catalog

import (
	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Feature is one bullet of a package offer
type Feature struct {
	En       string `json:"en"`
	Ar       string `json:"ar"`
	Quantity string `json:"quantity,omitempty"`
}

// Package bundles services at a single price. Packages are always global.
type Package struct {
	shared.BaseAggregateRoot
	Name       valueobject.LocalizedText
	Price      decimal.Decimal
	Discount   valueobject.Discount
	Features   []Feature
	IsActive   bool
	ServiceIDs []uuid.UUID
}

// NewPackage creates an active package
func NewPackage(name valueobject.LocalizedText, price decimal.Decimal) (*Package, error) {
	if !name.IsComplete() {
		return nil, shared.NewValidationError("name", "english and arabic names are required")
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("price", "cannot be negative")
	}
	return &Package{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              valueobject.NewLocalizedText(name.En, name.Ar),
		Price:             price,
		Discount:          valueobject.NoDiscount(),
		Features:          []Feature{},
		IsActive:          true,
		ServiceIDs:        []uuid.UUID{},
	}, nil
}

// Update replaces the package contents
func (p *Package) Update(name valueobject.LocalizedText, price decimal.Decimal, discount valueobject.Discount, features []Feature, serviceIDs []uuid.UUID) error {
	if !name.IsComplete() {
		return shared.NewValidationError("name", "english and arabic names are required")
	}
	if price.IsNegative() {
		return shared.NewValidationError("price", "cannot be negative")
	}
	if features == nil {
		features = []Feature{}
	}
	if serviceIDs == nil {
		serviceIDs = []uuid.UUID{}
	}
	p.Name = valueobject.NewLocalizedText(name.En, name.Ar)
	p.Price = price
	p.Discount = discount
	p.Features = features
	p.ServiceIDs = serviceIDs
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetActive toggles whether the package is offered
func (p *Package) SetActive(active bool) {
	p.IsActive = active
	p.Touch()
}

// CanonicalPrice returns the catalog price
func (p *Package) CanonicalPrice() decimal.Decimal { return p.Price }

// LineDiscount returns the discount applied to quoted lines of this package
func (p *Package) LineDiscount() valueobject.Discount { return p.Discount }

// OwnerID always returns nil
func (p *Package) OwnerID() *uuid.UUID { return nil }
