package valueobject

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DiscountKind is how a discount value is interpreted
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// DefaultDiscountKind is used when a request names a value but no kind
const DefaultDiscountKind = DiscountPercentage

var hundred = decimal.NewFromInt(100)

// IsValid reports whether the kind is known
func (k DiscountKind) IsValid() bool {
	return k == DiscountPercentage || k == DiscountFixed
}

// Discount is an immutable discount: a non-negative value and
// the kind that says whether it is a percentage of the base or a fixed amount.
// The zero Discount applies nothing.
type Discount struct {
	value decimal.Decimal
	kind  DiscountKind
}

// NewDiscount creates a Discount, rejecting negative values and unknown kinds.
// An empty kind defaults to percentage.
func NewDiscount(value decimal.Decimal, kind DiscountKind) (Discount, error) {
	if kind == "" {
		kind = DefaultDiscountKind
	}
	if !kind.IsValid() {
		return Discount{}, fmt.Errorf("invalid discount kind %q", kind)
	}
	if value.IsNegative() {
		return Discount{}, errors.New("discount value cannot be negative")
	}
	return Discount{value: value, kind: kind}, nil
}

// MustNewDiscount is NewDiscount for literals known to be valid. It panics otherwise.
func MustNewDiscount(value decimal.Decimal, kind DiscountKind) Discount {
	d, err := NewDiscount(value, kind)
	if err != nil {
		panic(err)
	}
	return d
}

// PercentOff creates a percentage discount from an int
func PercentOff(percent int64) Discount {
	return MustNewDiscount(decimal.NewFromInt(percent), DiscountPercentage)
}

// AmountOff creates a fixed discount from an int
func AmountOff(amount int64) Discount {
	return MustNewDiscount(decimal.NewFromInt(amount), DiscountFixed)
}

// NoDiscount returns a discount that leaves any base unchanged
func NoDiscount() Discount {
	return Discount{kind: DefaultDiscountKind}
}

// Value returns the discount value
func (d Discount) Value() decimal.Decimal {
	return d.value
}

// Kind returns the discount kind, defaulting to percentage for the zero Discount
func (d Discount) Kind() DiscountKind {
	if d.kind == "" {
		return DefaultDiscountKind
	}
	return d.kind
}

// IsZero reports whether applying the discount is a no-op
func (d Discount) IsZero() bool {
	return d.value.IsZero()
}

// Apply returns base reduced by the discount, never below zero.
func (d Discount) Apply(base decimal.Decimal) decimal.Decimal {
	return ApplyDiscount(base, d)
}

// ApplyDiscount computes the discounted amount of base:
// percentage gives base - base*value/100, fixed gives base - value.
// The result is clamped at zero and a zero discount returns base unchanged.
func ApplyDiscount(base decimal.Decimal, d Discount) decimal.Decimal {
	if d.value.IsZero() {
		return base
	}
	var result decimal.Decimal
	switch d.Kind() {
	case DiscountFixed:
		result = base.Sub(d.value)
	default:
		result = base.Sub(base.Mul(d.value).Div(hundred))
	}
	if result.IsNegative() {
		return decimal.Zero
	}
	return result
}

// Equals compares two discounts by value and kind
func (d Discount) Equals(other Discount) bool {
	return d.Kind() == other.Kind() && d.value.Equal(other.value)
}

// String renders the discount as "10%" or "20"
func (d Discount) String() string {
	if d.Kind() == DiscountPercentage {
		return d.value.String() + "%"
	}
	return d.value.String()
}

type discountJSON struct {
	Value decimal.Decimal `json:"value"`
	Kind  DiscountKind    `json:"kind"`
}

// MarshalJSON implements json.Marshaler
func (d Discount) MarshalJSON() ([]byte, error) {
	return json.Marshal(discountJSON{Value: d.value, Kind: d.Kind()})
}

// UnmarshalJSON implements json.Unmarshaler and validates through NewDiscount
func (d *Discount) UnmarshalJSON(data []byte) error {
	var v discountJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := NewDiscount(v.Value, v.Kind)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
