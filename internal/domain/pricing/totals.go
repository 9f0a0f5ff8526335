package pricing

import (
	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Totals is the computed result of a set of lines and a document discount
type Totals struct {
	Subtotal decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals sums every line after its own discount into the subtotal,
// clamps it at zero, and applies the document discount to get the total.
// Catalog and custom lines are treated alike. The function is pure.
func ComputeTotals(lines []CatalogLine, customLines []CustomLine, documentDiscount valueobject.Discount) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(Net(l))
	}
	for _, l := range customLines {
		subtotal = subtotal.Add(Net(l))
	}
	if subtotal.IsNegative() {
		subtotal = decimal.Zero
	}
	return Totals{
		Subtotal: subtotal,
		Total:    valueobject.ApplyDiscount(subtotal, documentDiscount),
	}
}

// PricedTotals is what a document persists: the computed subtotal, the total in
// effect and the manual override if one was supplied.
type PricedTotals struct {
	Subtotal          decimal.Decimal
	ComputedTotal     decimal.Decimal
	Total             decimal.Decimal
	OverriddenTotal   *decimal.Decimal
	IsTotalOverridden bool
}

// Reconcile applies an optional manual override to computed totals.
// The subtotal is never affected; a nil override keeps the computed total.
func Reconcile(t Totals, overriddenTotal *decimal.Decimal) (PricedTotals, error) {
	result := PricedTotals{
		Subtotal:      t.Subtotal,
		ComputedTotal: t.Total,
		Total:         t.Total,
	}
	if overriddenTotal == nil {
		return result, nil
	}
	if overriddenTotal.IsNegative() {
		return PricedTotals{}, shared.NewValidationError("overridden_total", "cannot be negative")
	}
	override := *overriddenTotal
	result.Total = override
	result.OverriddenTotal = &override
	result.IsTotalOverridden = true
	return result, nil
}
