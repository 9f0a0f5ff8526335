package document

import (
	"context"
	"errors"
	"testing"

	"github.com/agency/planner/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func knownTerms(ids ...uuid.UUID) TermLookup {
	return func(_ context.Context, want []uuid.UUID) ([]uuid.UUID, error) {
		var out []uuid.UUID
		for _, w := range want {
			for _, id := range ids {
				if w == id {
					out = append(out, w)
				}
			}
		}
		return out, nil
	}
}

func refEntry(termID uuid.UUID, order int) TermEntry {
	return TermEntry{Order: order, TermID: &termID}
}

func customEntry(key string, order int) TermEntry {
	return TermEntry{Order: order, IsCustom: true, CustomKey: key, CustomKeyAr: key + "-ar", CustomValue: "v"}
}

func TestTermEntry_Validate(t *testing.T) {
	termID := uuid.New()

	tests := []struct {
		name    string
		entry   TermEntry
		wantErr error
	}{
		{"reference term", refEntry(termID, 0), nil},
		{"custom term", customEntry("Scope", 0), nil},
		{"custom without arabic key", TermEntry{IsCustom: true, CustomKey: "Scope"}, shared.ErrInvalidCustomTerm},
		{"custom with term id", TermEntry{IsCustom: true, CustomKey: "a", CustomKeyAr: "b", TermID: &termID}, shared.ErrInvalidCustomTerm},
		{"reference without id", TermEntry{}, shared.ErrInvalidCustomTerm},
		{"reference with custom keys", TermEntry{TermID: &termID, CustomKey: "x"}, shared.ErrInvalidCustomTerm},
		{"negative order", TermEntry{Order: -1, TermID: &termID}, shared.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate(0)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTermComposer_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	t1, t2 := uuid.New(), uuid.New()
	c := NewTermComposer(knownTerms(t1, t2))

	t.Run("accepts mixed entries and assigns ids", func(t *testing.T) {
		list, err := c.ReplaceAll(ctx, []TermEntry{refEntry(t1, 2), customEntry("Scope", 0), refEntry(t2, 1)})
		require.NoError(t, err)
		require.Len(t, list, 3)
		for _, e := range list {
			assert.NotEqual(t, uuid.Nil, e.ID)
		}
		sorted := list.Sorted()
		assert.True(t, sorted[0].IsCustom)
		assert.Equal(t, t2, *sorted[1].TermID)
		assert.Equal(t, t1, *sorted[2].TermID)
	})

	t.Run("duplicate order fails", func(t *testing.T) {
		_, err := c.ReplaceAll(ctx, []TermEntry{refEntry(t1, 0), customEntry("Scope", 0)})
		var dupErr *shared.DuplicateOrderError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, 0, dupErr.Order)
	})

	t.Run("keeps supplied ids", func(t *testing.T) {
		id := uuid.New()
		entry := customEntry("Scope", 0)
		entry.ID = id
		list, err := c.ReplaceAll(ctx, []TermEntry{entry, customEntry("Fees", 1)})
		require.NoError(t, err)
		assert.Equal(t, id, list[0].ID)
		assert.NotEqual(t, id, list[1].ID)
	})

	t.Run("duplicate id fails", func(t *testing.T) {
		id := uuid.New()
		first, second := customEntry("A", 0), customEntry("B", 1)
		first.ID, second.ID = id, id
		list, err := c.ReplaceAll(ctx, []TermEntry{first, second})
		assert.Nil(t, list)
		var valErr *shared.ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "terms[1].id", valErr.Field)
	})

	t.Run("unknown term reference fails", func(t *testing.T) {
		missing := uuid.New()
		_, err := c.ReplaceAll(ctx, []TermEntry{refEntry(t1, 0), refEntry(missing, 1)})
		var refErr *shared.InvalidReferenceError
		require.ErrorAs(t, err, &refErr)
		assert.Equal(t, KindTerms, refErr.Kind)
		assert.Equal(t, missing, refErr.ID)
	})

	t.Run("invalid custom entry fails", func(t *testing.T) {
		_, err := c.ReplaceAll(ctx, []TermEntry{{IsCustom: true, CustomKey: "only english", Order: 0}})
		assert.ErrorIs(t, err, shared.ErrInvalidCustomTerm)
	})

	t.Run("empty list clears terms", func(t *testing.T) {
		list, err := c.ReplaceAll(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("lookup failure is a storage error", func(t *testing.T) {
		broken := NewTermComposer(func(context.Context, []uuid.UUID) ([]uuid.UUID, error) {
			return nil, errors.New("db down")
		})
		_, err := broken.ReplaceAll(ctx, []TermEntry{refEntry(t1, 0)})
		assert.ErrorIs(t, err, shared.ErrStorage)
	})
}

func TestTermComposer_Append(t *testing.T) {
	ctx := context.Background()
	t1 := uuid.New()
	c := NewTermComposer(knownTerms(t1))

	current, err := c.ReplaceAll(ctx, []TermEntry{customEntry("A", 0), customEntry("B", 1)})
	require.NoError(t, err)

	t.Run("ignores caller order", func(t *testing.T) {
		out, err := c.Append(ctx, current, refEntry(t1, 99))
		require.NoError(t, err)
		require.Len(t, out, 3)
		assert.Equal(t, 2, out[2].Order)
		assert.Len(t, current, 2, "input list must not change")
	})

	t.Run("assigns a fresh id", func(t *testing.T) {
		entry := customEntry("C", 0)
		entry.ID = current[0].ID
		out, err := c.Append(ctx, current, entry)
		require.NoError(t, err)
		require.Len(t, out, 3)
		assert.NotEqual(t, current[0].ID, out[2].ID)
		assert.NotEqual(t, uuid.Nil, out[2].ID)

		reordered, err := c.Reorder(out, []OrderChange{{ID: current[0].ID, Order: 9}})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{current[1].ID, out[2].ID, current[0].ID}, ids(reordered))
	})

	t.Run("appending to empty list gives order zero", func(t *testing.T) {
		out, err := c.Append(ctx, nil, customEntry("First", 7))
		require.NoError(t, err)
		assert.Equal(t, 0, out[0].Order)
	})

	t.Run("rejects invalid entry", func(t *testing.T) {
		_, err := c.Append(ctx, current, TermEntry{IsCustom: true})
		assert.ErrorIs(t, err, shared.ErrInvalidCustomTerm)
	})

	t.Run("rejects unknown reference", func(t *testing.T) {
		_, err := c.Append(ctx, current, refEntry(uuid.New(), 0))
		assert.ErrorIs(t, err, shared.ErrInvalidReference)
	})
}

func TestTermComposer_Reorder(t *testing.T) {
	ctx := context.Background()
	c := NewTermComposer(knownTerms())

	current, err := c.ReplaceAll(ctx, []TermEntry{customEntry("A", 0), customEntry("B", 1), customEntry("C", 2)})
	require.NoError(t, err)
	a, b, cc := current[0].ID, current[1].ID, current[2].ID

	t.Run("applies orders and sorts", func(t *testing.T) {
		out, err := c.Reorder(current, []OrderChange{{ID: a, Order: 5}, {ID: cc, Order: 0}})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{cc, b, a}, ids(out))
	})

	t.Run("ignores unknown ids", func(t *testing.T) {
		out, err := c.Reorder(current, []OrderChange{{ID: uuid.New(), Order: 0}, {ID: a, Order: 9}})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{b, cc, a}, ids(out))
	})

	t.Run("fails when nothing matches", func(t *testing.T) {
		_, err := c.Reorder(current, []OrderChange{{ID: uuid.New(), Order: 0}})
		assert.ErrorIs(t, err, shared.ErrNoMatchingTerms)
	})

	t.Run("ties keep previous relative order", func(t *testing.T) {
		out, err := c.Reorder(current, []OrderChange{{ID: cc, Order: 1}})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{a, b, cc}, ids(out))
		assert.Equal(t, 1, out[1].Order)
		assert.Equal(t, 1, out[2].Order)

		out, err = c.Reorder(current, []OrderChange{{ID: a, Order: 2}})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{b, a, cc}, ids(out))
	})

	t.Run("rejects negative order", func(t *testing.T) {
		_, err := c.Reorder(current, []OrderChange{{ID: a, Order: -1}})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		_, err := c.Reorder(current, []OrderChange{{ID: a, Order: 10}})
		require.NoError(t, err)
		assert.Equal(t, 0, current[0].Order)
	})
}

func ids(terms Terms) []uuid.UUID {
	out := make([]uuid.UUID, len(terms))
	for i, e := range terms {
		out[i] = e.ID
	}
	return out
}
