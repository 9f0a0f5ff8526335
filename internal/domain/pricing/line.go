// Package pricing turns catalog references and ad-hoc entries into priced
// lines and reduces them to document totals.
package pricing

import (
	"github.com/agency/planner/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogKind names the catalog a line was resolved from
type CatalogKind string

const (
	KindService CatalogKind = "services"
	KindPackage CatalogKind = "packages"
)

// LineItem is a sealed variant: the only implementations are CatalogLine and
// CustomLine. Consumers switch on the concrete type and must handle both.
type LineItem interface {
	lineItem()
	// Price returns the unit price before the line discount
	Price() decimal.Decimal
	// LineDiscount returns the discount applied to this line
	LineDiscount() valueobject.Discount
}

// CatalogLine is a line priced from a catalog item
type CatalogLine struct {
	Kind      CatalogKind          `json:"kind"`
	RefID     uuid.UUID            `json:"refId"`
	UnitPrice decimal.Decimal      `json:"unitPrice"`
	Discount  valueobject.Discount `json:"discount"`
	// Overridden is set when UnitPrice came from the caller instead of the catalog
	Overridden bool `json:"overridden,omitempty"`
}

func (CatalogLine) lineItem() {}

// Price returns the unit price
func (l CatalogLine) Price() decimal.Decimal { return l.UnitPrice }

// LineDiscount returns the catalog discount
func (l CatalogLine) LineDiscount() valueobject.Discount { return l.Discount }

// CustomLine is an ad-hoc line described by the caller
type CustomLine struct {
	ID        string                    `json:"id,omitempty"`
	Label     valueobject.LocalizedText `json:"label"`
	UnitPrice decimal.Decimal           `json:"unitPrice"`
	Discount  valueobject.Discount      `json:"discount"`
}

func (CustomLine) lineItem() {}

// Price returns the unit price
func (l CustomLine) Price() decimal.Decimal { return l.UnitPrice }

// LineDiscount returns the caller-supplied discount
func (l CustomLine) LineDiscount() valueobject.Discount { return l.Discount }

// Net returns the line's amount after its own discount
func Net(line LineItem) decimal.Decimal {
	switch l := line.(type) {
	case CatalogLine:
		return valueobject.ApplyDiscount(l.UnitPrice, l.Discount)
	case CustomLine:
		return valueobject.ApplyDiscount(l.UnitPrice, l.Discount)
	default:
		panic("pricing: unknown line item type")
	}
}
