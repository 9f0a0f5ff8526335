package document

import (
	"context"
	"fmt"
	"time"
)

// SequenceStore hands out strictly increasing values per sequence name.
// Two callers never receive the same value for the same name.
type SequenceStore interface {
	NextValue(ctx context.Context, name string) (int64, error)
}

// NumberGenerator produces human-readable document numbers from sequences
type NumberGenerator struct {
	seq SequenceStore
	now func() time.Time
}

// NewNumberGenerator creates a generator backed by seq
func NewNumberGenerator(seq SequenceStore) *NumberGenerator {
	return &NumberGenerator{seq: seq, now: time.Now}
}

// WithClock overrides the clock used for the year component
func (g *NumberGenerator) WithClock(now func() time.Time) *NumberGenerator {
	g.now = now
	return g
}

// QuotationNumber returns the next QUO-YYYY-NNNN number
func (g *NumberGenerator) QuotationNumber(ctx context.Context) (string, error) {
	return g.yearly(ctx, "QUO")
}

// ContractNumber returns the next CNT-YYYY-NNNN number
func (g *NumberGenerator) ContractNumber(ctx context.Context) (string, error) {
	return g.yearly(ctx, "CNT")
}

// PlanNumber returns the next PLAN-NNNNNN number
func (g *NumberGenerator) PlanNumber(ctx context.Context) (string, error) {
	n, err := g.seq.NextValue(ctx, "PLAN")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PLAN-%06d", n), nil
}

func (g *NumberGenerator) yearly(ctx context.Context, prefix string) (string, error) {
	year := g.now().Year()
	name := fmt.Sprintf("%s-%d", prefix, year)
	n, err := g.seq.NextValue(ctx, name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", name, n), nil
}
