package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeItem struct {
	id       uuid.UUID
	price    decimal.Decimal
	discount valueobject.Discount
	owner    *uuid.UUID
}

func (i *fakeItem) GetID() uuid.UUID                   { return i.id }
func (i *fakeItem) CanonicalPrice() decimal.Decimal    { return i.price }
func (i *fakeItem) LineDiscount() valueobject.Discount { return i.discount }
func (i *fakeItem) OwnerID() *uuid.UUID                { return i.owner }

func lookupOf(items ...*fakeItem) CatalogLookup {
	return func(_ context.Context, ids []uuid.UUID) ([]CatalogItem, error) {
		var out []CatalogItem
		for _, id := range ids {
			for _, it := range items {
				if it.id == id {
					out = append(out, it)
				}
			}
		}
		return out, nil
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.New()
	otherClient := uuid.New()

	svcA := &fakeItem{id: uuid.New(), price: d("200"), discount: valueobject.PercentOff(10)}
	svcB := &fakeItem{id: uuid.New(), price: d("75")}
	svcOwned := &fakeItem{id: uuid.New(), price: d("40"), owner: &clientID}
	svcForeign := &fakeItem{id: uuid.New(), price: d("40"), owner: &otherClient}
	pkg := &fakeItem{id: uuid.New(), price: d("1000"), discount: valueobject.AmountOff(100)}

	n := NewNormalizer(lookupOf(svcA, svcB, svcOwned, svcForeign), lookupOf(pkg))

	t.Run("prices from catalog and preserves order", func(t *testing.T) {
		out, err := n.Normalize(ctx, NormalizeInput{
			ClientID: &clientID,
			Refs: []CatalogRef{
				{Kind: KindService, ID: svcB.id},
				{Kind: KindPackage, ID: pkg.id},
				{Kind: KindService, ID: svcA.id},
			},
		})
		require.NoError(t, err)
		require.Len(t, out.Lines, 3)
		assert.Equal(t, svcB.id, out.Lines[0].RefID)
		assert.Equal(t, KindPackage, out.Lines[1].Kind)
		assert.Equal(t, svcA.id, out.Lines[2].RefID)
		assert.True(t, out.Lines[2].UnitPrice.Equal(d("200")))
		assert.True(t, out.Lines[2].Discount.Equals(valueobject.PercentOff(10)))
		assert.False(t, out.Lines[2].Overridden)
	})

	t.Run("override replaces catalog price", func(t *testing.T) {
		out, err := n.Normalize(ctx, NormalizeInput{
			Refs:           []CatalogRef{{Kind: KindService, ID: svcA.id}},
			PriceOverrides: map[uuid.UUID]decimal.Decimal{svcA.id: d("150")},
		})
		require.NoError(t, err)
		assert.True(t, out.Lines[0].UnitPrice.Equal(d("150")))
		assert.True(t, out.Lines[0].Overridden)
	})

	t.Run("custom lines pass through", func(t *testing.T) {
		custom := []CustomLine{{ID: "c1", UnitPrice: d("50")}, {ID: "c2", UnitPrice: d("5")}}
		out, err := n.Normalize(ctx, NormalizeInput{CustomLines: custom})
		require.NoError(t, err)
		assert.Empty(t, out.Lines)
		assert.Equal(t, custom, out.CustomLines)
	})

	t.Run("duplicate references produce one line each", func(t *testing.T) {
		out, err := n.Normalize(ctx, NormalizeInput{Refs: []CatalogRef{
			{Kind: KindService, ID: svcB.id},
			{Kind: KindService, ID: svcB.id},
		}})
		require.NoError(t, err)
		assert.Len(t, out.Lines, 2)
	})

	t.Run("missing reference aborts with invalid reference", func(t *testing.T) {
		missing := uuid.New()
		out, err := n.Normalize(ctx, NormalizeInput{Refs: []CatalogRef{
			{Kind: KindService, ID: svcA.id},
			{Kind: KindPackage, ID: missing},
		}})
		var refErr *shared.InvalidReferenceError
		require.ErrorAs(t, err, &refErr)
		assert.Equal(t, "packages", refErr.Kind)
		assert.Equal(t, missing, refErr.ID)
		assert.Empty(t, out.Lines)
	})

	t.Run("client-owned service is usable by its owner", func(t *testing.T) {
		_, err := n.Normalize(ctx, NormalizeInput{ClientID: &clientID, Refs: []CatalogRef{{Kind: KindService, ID: svcOwned.id}}})
		assert.NoError(t, err)
	})

	t.Run("service owned by another client is rejected", func(t *testing.T) {
		_, err := n.Normalize(ctx, NormalizeInput{ClientID: &clientID, Refs: []CatalogRef{
			{Kind: KindService, ID: svcForeign.id},
			{Kind: KindService, ID: svcA.id},
		}})
		var crossTenant *shared.CrossTenantError
		require.ErrorAs(t, err, &crossTenant)
		assert.Equal(t, []uuid.UUID{svcForeign.id}, crossTenant.IDs)
	})

	t.Run("client-owned service is rejected for documents without client", func(t *testing.T) {
		_, err := n.Normalize(ctx, NormalizeInput{Refs: []CatalogRef{{Kind: KindService, ID: svcOwned.id}}})
		assert.ErrorIs(t, err, shared.ErrCrossTenant)
	})

	t.Run("negative override is rejected", func(t *testing.T) {
		_, err := n.Normalize(ctx, NormalizeInput{
			Refs:           []CatalogRef{{Kind: KindService, ID: svcA.id}},
			PriceOverrides: map[uuid.UUID]decimal.Decimal{svcA.id: d("-1")},
		})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("negative custom price is rejected", func(t *testing.T) {
		_, err := n.Normalize(ctx, NormalizeInput{CustomLines: []CustomLine{{UnitPrice: d("-5")}}})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("lookup failure is a storage error", func(t *testing.T) {
		broken := NewNormalizer(func(context.Context, []uuid.UUID) ([]CatalogItem, error) {
			return nil, errors.New("db down")
		}, lookupOf(pkg))
		_, err := broken.Normalize(ctx, NormalizeInput{Refs: []CatalogRef{{Kind: KindService, ID: svcA.id}}})
		assert.ErrorIs(t, err, shared.ErrStorage)
	})
}

func TestNormalizeThenTotals(t *testing.T) {
	svc := &fakeItem{id: uuid.New(), price: d("200"), discount: valueobject.PercentOff(10)}
	n := NewNormalizer(lookupOf(svc), lookupOf())

	out, err := n.Normalize(context.Background(), NormalizeInput{
		Refs:        []CatalogRef{{Kind: KindService, ID: svc.id}},
		CustomLines: []CustomLine{{UnitPrice: d("50")}},
	})
	require.NoError(t, err)

	totals := ComputeTotals(out.Lines, out.CustomLines, valueobject.AmountOff(20))
	assert.True(t, totals.Subtotal.Equal(d("230")))
	assert.True(t, totals.Total.Equal(d("210")))
}
