package pricing

import (
	"context"
	"fmt"

	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// CatalogItem is the view of a service or package the normalizer prices from
type CatalogItem interface {
	GetID() uuid.UUID
	CanonicalPrice() decimal.Decimal
	LineDiscount() valueobject.Discount
	// OwnerID is nil for items offered to every client
	OwnerID() *uuid.UUID
}

// CatalogLookup batch-fetches the non-deleted items of one catalog among ids
type CatalogLookup func(ctx context.Context, ids []uuid.UUID) ([]CatalogItem, error)

// ItemsFrom adapts a typed repository read into a CatalogLookup
func ItemsFrom[T any, P interface {
	*T
	CatalogItem
}](find func(ctx context.Context, ids []uuid.UUID) ([]T, error)) CatalogLookup {
	return func(ctx context.Context, ids []uuid.UUID) ([]CatalogItem, error) {
		items, err := find(ctx, ids)
		if err != nil {
			return nil, err
		}
		out := make([]CatalogItem, len(items))
		for i := range items {
			out[i] = P(&items[i])
		}
		return out, nil
	}
}

// CatalogRef is one requested catalog line
type CatalogRef struct {
	Kind CatalogKind
	ID   uuid.UUID
}

// NormalizeInput describes the lines of a document before pricing
type NormalizeInput struct {
	// ClientID is nil for documents without a client
	ClientID       *uuid.UUID
	Refs           []CatalogRef
	PriceOverrides map[uuid.UUID]decimal.Decimal
	CustomLines    []CustomLine
}

// Normalized holds priced lines in request order
type Normalized struct {
	Lines       []CatalogLine
	CustomLines []CustomLine
}

// Normalizer resolves catalog references into priced lines
type Normalizer struct {
	lookups map[CatalogKind]CatalogLookup
}

// NewNormalizer creates a normalizer over the service and package catalogs
func NewNormalizer(services, packages CatalogLookup) *Normalizer {
	return &Normalizer{lookups: map[CatalogKind]CatalogLookup{
		KindService: services,
		KindPackage: packages,
	}}
}

// Normalize fetches every referenced catalog item and prices it at the
// caller's override or the catalog price, keeping request order. It fails on
// the first reference that is missing or deleted, and on any item owned by a
// different client. Nothing is returned on failure.
func (n *Normalizer) Normalize(ctx context.Context, in NormalizeInput) (Normalized, error) {
	if err := validateInput(in); err != nil {
		return Normalized{}, err
	}

	byKind := make(map[CatalogKind][]uuid.UUID)
	for _, ref := range in.Refs {
		if _, ok := n.lookups[ref.Kind]; !ok {
			return Normalized{}, shared.NewValidationError("kind", fmt.Sprintf("unknown catalog %q", ref.Kind))
		}
		byKind[ref.Kind] = appendUnique(byKind[ref.Kind], ref.ID)
	}

	found, err := n.fetch(ctx, byKind)
	if err != nil {
		return Normalized{}, err
	}

	lines := make([]CatalogLine, 0, len(in.Refs))
	for _, ref := range in.Refs {
		item, ok := found[ref.Kind][ref.ID]
		if !ok {
			return Normalized{}, &shared.InvalidReferenceError{Kind: string(ref.Kind), ID: ref.ID}
		}
		line := CatalogLine{
			Kind:      ref.Kind,
			RefID:     ref.ID,
			UnitPrice: item.CanonicalPrice(),
			Discount:  item.LineDiscount(),
		}
		if override, ok := in.PriceOverrides[ref.ID]; ok {
			line.UnitPrice = override
			line.Overridden = true
		}
		lines = append(lines, line)
	}

	if err := checkOwnership(in.ClientID, in.Refs, found); err != nil {
		return Normalized{}, err
	}

	custom := make([]CustomLine, len(in.CustomLines))
	copy(custom, in.CustomLines)
	return Normalized{Lines: lines, CustomLines: custom}, nil
}

// fetch runs one lookup per catalog concurrently
func (n *Normalizer) fetch(ctx context.Context, byKind map[CatalogKind][]uuid.UUID) (map[CatalogKind]map[uuid.UUID]CatalogItem, error) {
	kinds := make([]CatalogKind, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	results := make([][]CatalogItem, len(kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			items, err := n.lookups[kind](gctx, byKind[kind])
			if err != nil {
				return shared.NewStorageError(fmt.Sprintf("find %s", kind), err)
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	found := make(map[CatalogKind]map[uuid.UUID]CatalogItem, len(kinds))
	for i, kind := range kinds {
		m := make(map[uuid.UUID]CatalogItem, len(results[i]))
		for _, item := range results[i] {
			m[item.GetID()] = item
		}
		found[kind] = m
	}
	return found, nil
}

func checkOwnership(clientID *uuid.UUID, refs []CatalogRef, found map[CatalogKind]map[uuid.UUID]CatalogItem) error {
	for _, kind := range []CatalogKind{KindService, KindPackage} {
		var foreign []uuid.UUID
		seen := make(map[uuid.UUID]struct{})
		for _, ref := range refs {
			if ref.Kind != kind {
				continue
			}
			if _, dup := seen[ref.ID]; dup {
				continue
			}
			seen[ref.ID] = struct{}{}
			owner := found[kind][ref.ID].OwnerID()
			if owner != nil && (clientID == nil || *owner != *clientID) {
				foreign = append(foreign, ref.ID)
			}
		}
		if len(foreign) > 0 {
			return &shared.CrossTenantError{Kind: string(kind), IDs: foreign}
		}
	}
	return nil
}

func validateInput(in NormalizeInput) error {
	for id, price := range in.PriceOverrides {
		if price.IsNegative() {
			return shared.NewValidationError("services_pricing", fmt.Sprintf("price for %s cannot be negative", id))
		}
	}
	for i, l := range in.CustomLines {
		if l.UnitPrice.IsNegative() {
			return shared.NewValidationError(fmt.Sprintf("customServices[%d].price", i), "cannot be negative")
		}
	}
	return nil
}

func appendUnique(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
