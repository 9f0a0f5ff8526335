// Package scope checks that entities attached to a document belong to the
// document's client.
package scope

import (
	"context"
	"errors"
	"fmt"

	"github.com/agency/planner/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Kind labels a family of client-scoped entities in errors
type Kind string

const (
	KindSegments      Kind = "segments"
	KindCompetitors   Kind = "competitors"
	KindBranches      Kind = "branches"
	KindQuotations    Kind = "quotations"
	KindCampaignPlans Kind = "campaign_plans"
	KindSocialLinks   Kind = "social_links"
)

// Entity is the view of a scoped entity the validator needs
type Entity interface {
	GetID() uuid.UUID
	GetClientID() uuid.UUID
}

// Lookup batch-fetches the non-deleted entities of one kind among ids.
// Missing ids are simply absent from the result.
type Lookup func(ctx context.Context, ids []uuid.UUID) ([]Entity, error)

// LookupFrom adapts a typed repository read into a Lookup
func LookupFrom[T any, P interface {
	*T
	Entity
}](find func(ctx context.Context, ids []uuid.UUID) ([]T, error)) Lookup {
	return func(ctx context.Context, ids []uuid.UUID) ([]Entity, error) {
		items, err := find(ctx, ids)
		if err != nil {
			return nil, err
		}
		out := make([]Entity, len(items))
		for i := range items {
			out[i] = P(&items[i])
		}
		return out, nil
	}
}

// Validator validates scoped references through one lookup per kind
type Validator struct {
	lookups map[Kind]Lookup
}

// NewValidator creates a validator with no registered kinds
func NewValidator() *Validator {
	return &Validator{lookups: make(map[Kind]Lookup)}
}

// Register sets the lookup for a kind and returns the validator for chaining
func (v *Validator) Register(kind Kind, lookup Lookup) *Validator {
	v.lookups[kind] = lookup
	return v
}

// Validate confirms every id exists, is not deleted and belongs to clientID.
// An empty ids slice always succeeds. On failure the returned *shared.ScopeError
// lists every missing id and every id owned by another client, in input order.
func (v *Validator) Validate(ctx context.Context, clientID uuid.UUID, kind Kind, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	lookup, ok := v.lookups[kind]
	if !ok {
		return fmt.Errorf("scope: no lookup registered for kind %q", kind)
	}

	unique := dedupe(ids)
	found, err := lookup(ctx, unique)
	if err != nil {
		return shared.NewStorageError(fmt.Sprintf("find %s", kind), err)
	}

	owners := make(map[uuid.UUID]uuid.UUID, len(found))
	for _, e := range found {
		owners[e.GetID()] = e.GetClientID()
	}

	var missing, foreign []uuid.UUID
	for _, id := range unique {
		owner, ok := owners[id]
		switch {
		case !ok:
			missing = append(missing, id)
		case owner != clientID:
			foreign = append(foreign, id)
		}
	}
	if len(missing) == 0 && len(foreign) == 0 {
		return nil
	}

	scopeErr := &shared.ScopeError{Kind: string(kind)}
	if len(missing) > 0 {
		scopeErr.Missing = &shared.NotFoundError{Kind: string(kind), IDs: missing}
	}
	if len(foreign) > 0 {
		scopeErr.CrossTenant = &shared.CrossTenantError{Kind: string(kind), IDs: foreign}
	}
	return scopeErr
}

// Request is one kind's worth of ids to validate
type Request struct {
	Kind Kind
	IDs  []uuid.UUID
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ValidateAll runs Validate for every request concurrently against the same
// client. Lookups of independent kinds do not wait on each other, but all of
// them complete before ValidateAll returns. Scope failures from several kinds
// are joined; a storage failure cancels the remaining lookups and is returned alone.
func (v *Validator) ValidateAll(ctx context.Context, clientID uuid.UUID, requests ...Request) error {
	results := make([]error, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	for i, req := range requests {
		g.Go(func() error {
			err := v.Validate(gctx, clientID, req.Kind, req.IDs)
			var scopeErr *shared.ScopeError
			if err != nil && !errors.As(err, &scopeErr) {
				return err
			}
			results[i] = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errors.Join(results...)
}
