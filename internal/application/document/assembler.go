// Package document assembles quotations, campaign plans and contracts from
// requests: it checks the client and every scoped reference, prices the
// lines and persists the result.
package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/agency/planner/internal/domain/client"
	"github.com/agency/planner/internal/domain/pricing"
	"github.com/agency/planner/internal/domain/scope"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ClientDirectory resolves the client a document belongs to
type ClientDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*client.Client, error)
}

// Priced is the outcome of the checks shared by every document write
type Priced struct {
	// Client is nil for documents without a client
	Client   *client.Client
	Lines    pricing.Normalized
	Discount valueobject.Discount
	Override *decimal.Decimal
}

// Assembler runs the read-only part of a document write: client lookup,
// scoped reference validation and line pricing. It never writes.
type Assembler struct {
	clients    ClientDirectory
	scopes     *scope.Validator
	normalizer *pricing.Normalizer
}

// NewAssembler creates an Assembler
func NewAssembler(clients ClientDirectory, scopes *scope.Validator, normalizer *pricing.Normalizer) *Assembler {
	return &Assembler{
		clients:    clients,
		scopes:     scopes,
		normalizer: normalizer,
	}
}

// RequireClient returns the client or an INVALID_CLIENT error when it is
// missing or deleted
func (a *Assembler) RequireClient(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	c, err := a.clients.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", shared.ErrInvalidClient, id)
		}
		return nil, shared.NewStorageError("find client", err)
	}
	if c.IsDeleted() {
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidClient, id)
	}
	return c, nil
}

// Price validates the request and prices its lines for clientID (nil for
// documents without a client). Scoped references and catalog lines are
// checked concurrently; a scope failure is reported before a pricing failure.
func (a *Assembler) Price(ctx context.Context, clientID *uuid.UUID, requests []scope.Request, in LinesInput) (*Priced, error) {
	input, discount, err := toNormalizeInput(clientID, in)
	if err != nil {
		return nil, err
	}
	if in.OverriddenTotal != nil && in.OverriddenTotal.IsNegative() {
		return nil, shared.NewValidationError("overridden_total", "cannot be negative")
	}

	priced := &Priced{Discount: discount, Override: in.OverriddenTotal}
	if clientID == nil {
		for _, r := range requests {
			if len(r.IDs) > 0 {
				return nil, shared.NewValidationError("client_id", fmt.Sprintf("is required to reference %s", r.Kind))
			}
		}
	} else {
		c, err := a.RequireClient(ctx, *clientID)
		if err != nil {
			return nil, err
		}
		priced.Client = c
	}

	var scopeErr error
	var g errgroup.Group
	if clientID != nil && len(requests) > 0 {
		g.Go(func() error {
			scopeErr = a.scopes.ValidateAll(ctx, *clientID, requests...)
			return scopeErr
		})
	}
	g.Go(func() error {
		lines, err := a.normalizer.Normalize(ctx, input)
		if err != nil {
			return err
		}
		priced.Lines = lines
		return nil
	})
	if err := g.Wait(); err != nil {
		// Wait keeps whichever failure came first; a scope failure wins
		if scopeErr != nil {
			return nil, scopeErr
		}
		return nil, err
	}
	return priced, nil
}

// ValidateReferences checks scoped references without pricing anything
func (a *Assembler) ValidateReferences(ctx context.Context, clientID uuid.UUID, requests ...scope.Request) error {
	if _, err := a.RequireClient(ctx, clientID); err != nil {
		return err
	}
	return a.scopes.ValidateAll(ctx, clientID, requests...)
}

// ApplyTo reprices doc with the checked lines
func (p *Priced) ApplyTo(doc interface {
	Reprice(pricing.Normalized, valueobject.Discount, *decimal.Decimal) error
}) error {
	return doc.Reprice(p.Lines, p.Discount, p.Override)
}

func toNormalizeInput(clientID *uuid.UUID, in LinesInput) (pricing.NormalizeInput, valueobject.Discount, error) {
	discount, err := toDiscount("discount_type", in.DiscountValue, in.DiscountType)
	if err != nil {
		return pricing.NormalizeInput{}, valueobject.Discount{}, err
	}

	refs := make([]pricing.CatalogRef, 0, len(in.Services)+len(in.Packages))
	for _, id := range in.Services {
		refs = append(refs, pricing.CatalogRef{Kind: pricing.KindService, ID: id})
	}
	for _, id := range in.Packages {
		refs = append(refs, pricing.CatalogRef{Kind: pricing.KindPackage, ID: id})
	}

	custom := make([]pricing.CustomLine, len(in.CustomServices))
	for i, cs := range in.CustomServices {
		field := fmt.Sprintf("custom_services[%d]", i)
		label := valueobject.NewLocalizedText(cs.En, cs.Ar)
		if label.IsEmpty() {
			return pricing.NormalizeInput{}, valueobject.Discount{}, shared.NewValidationError(field, "en or ar is required")
		}
		d, err := toDiscount(field+".discount_type", cs.Discount, cs.DiscountType)
		if err != nil {
			return pricing.NormalizeInput{}, valueobject.Discount{}, err
		}
		id := cs.ID
		if id == "" {
			id = uuid.NewString()
		}
		custom[i] = pricing.CustomLine{ID: id, Label: label, UnitPrice: cs.Price, Discount: d}
	}

	return pricing.NormalizeInput{
		ClientID:       clientID,
		Refs:           refs,
		PriceOverrides: in.ServicesPricing,
		CustomLines:    custom,
	}, discount, nil
}

func newFieldError(field string, err error) error {
	return shared.NewValidationError(field, err.Error())
}
