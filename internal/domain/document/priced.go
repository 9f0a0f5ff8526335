// Package document holds the priced documents of the planner: quotations,
// campaign plans and contracts.
package document

import (
	"github.com/agency/planner/internal/domain/pricing"
	"github.com/agency/planner/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pricing is the priced part shared by every document.
// IsTotalOverridden is true exactly when OverriddenTotal is set, and Total is
// then equal to it; otherwise Total is the computed total.
type Pricing struct {
	Lines             []pricing.CatalogLine
	CustomLines       []pricing.CustomLine
	DocumentDiscount  valueobject.Discount
	Subtotal          decimal.Decimal
	Total             decimal.Decimal
	OverriddenTotal   *decimal.Decimal
	IsTotalOverridden bool
}

// Reprice replaces the lines and discount and recomputes the totals,
// applying override when non-nil. The document is unchanged on error.
func (p *Pricing) Reprice(lines pricing.Normalized, discount valueobject.Discount, override *decimal.Decimal) error {
	totals, err := pricing.Reconcile(pricing.ComputeTotals(lines.Lines, lines.CustomLines, discount), override)
	if err != nil {
		return err
	}
	p.Lines = lines.Lines
	p.CustomLines = lines.CustomLines
	p.DocumentDiscount = discount
	p.Subtotal = totals.Subtotal
	p.Total = totals.Total
	p.OverriddenTotal = totals.OverriddenTotal
	p.IsTotalOverridden = totals.IsTotalOverridden
	return nil
}

// SetOverride changes only the manual override, keeping lines and discount
func (p *Pricing) SetOverride(override *decimal.Decimal) error {
	return p.Reprice(pricing.Normalized{Lines: p.Lines, CustomLines: p.CustomLines}, p.DocumentDiscount, override)
}

// CatalogIDs returns the referenced catalog ids of one kind, in line order
func (p *Pricing) CatalogIDs(kind pricing.CatalogKind) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Lines))
	for _, l := range p.Lines {
		if l.Kind == kind {
			ids = append(ids, l.RefID)
		}
	}
	return ids
}

// CopyPricing returns a deep copy safe to attach to another document
func (p *Pricing) CopyPricing() Pricing {
	c := *p
	c.Lines = append([]pricing.CatalogLine(nil), p.Lines...)
	c.CustomLines = append([]pricing.CustomLine(nil), p.CustomLines...)
	if p.OverriddenTotal != nil {
		o := *p.OverriddenTotal
		c.OverriddenTotal = &o
	}
	return c
}
