package document

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agency/planner/internal/domain/shared"
	"github.com/google/uuid"
)

// KindTerms labels contract-term catalog references in errors
const KindTerms = "terms"

// TermEntry is one clause of a contract: either a reference to a catalog
// term or a custom bilingual key/value pair.
type TermEntry struct {
	ID            uuid.UUID  `json:"id"`
	Order         int        `json:"order"`
	IsCustom      bool       `json:"isCustom"`
	TermID        *uuid.UUID `json:"term,omitempty"`
	CustomKey     string     `json:"customKey,omitempty"`
	CustomKeyAr   string     `json:"customKeyAr,omitempty"`
	CustomValue   string     `json:"customValue,omitempty"`
	CustomValueAr string     `json:"customValueAr,omitempty"`
}

// Validate checks the reference-or-custom rule for the entry at index
func (e TermEntry) Validate(index int) error {
	if e.Order < 0 {
		return shared.NewValidationError(fmt.Sprintf("terms[%d].order", index), "cannot be negative")
	}
	hasCustomKeys := strings.TrimSpace(e.CustomKey) != "" || strings.TrimSpace(e.CustomKeyAr) != ""
	if e.IsCustom {
		if e.TermID != nil {
			return &shared.InvalidCustomTermError{Index: index, Reason: "custom term cannot reference a catalog term"}
		}
		if strings.TrimSpace(e.CustomKey) == "" || strings.TrimSpace(e.CustomKeyAr) == "" {
			return &shared.InvalidCustomTermError{Index: index, Reason: "custom term requires customKey and customKeyAr"}
		}
		return nil
	}
	if e.TermID == nil || *e.TermID == uuid.Nil {
		return &shared.InvalidCustomTermError{Index: index, Reason: "term reference requires a term id"}
	}
	if hasCustomKeys {
		return &shared.InvalidCustomTermError{Index: index, Reason: "term reference cannot carry custom keys"}
	}
	return nil
}

// Terms is a contract's term list. Storage order is not significant;
// Sorted renders it by Order.
type Terms []TermEntry

// Sorted returns a copy ordered by Order, ties kept in list order
func (t Terms) Sorted() Terms {
	out := append(Terms(nil), t...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// TermIDs returns the catalog term ids referenced by the list
func (t Terms) TermIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t))
	for _, e := range t {
		if !e.IsCustom && e.TermID != nil {
			ids = append(ids, *e.TermID)
		}
	}
	return ids
}

// OrderChange moves one existing entry to a new order
type OrderChange struct {
	ID    uuid.UUID `json:"id"`
	Order int       `json:"order"`
}

// TermLookup returns which of ids are non-deleted catalog terms
type TermLookup func(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

// TermComposer validates and applies changes to term lists. Every method
// returns a new list and leaves its input untouched.
type TermComposer struct {
	lookup TermLookup
}

// NewTermComposer creates a composer checking references through lookup
func NewTermComposer(lookup TermLookup) *TermComposer {
	return &TermComposer{lookup: lookup}
}

// ReplaceAll validates every entry and the uniqueness of their orders and
// ids, then returns the entries as the new list. Duplicate orders are an
// error, never renumbered. Entries without an id get a fresh one.
func (c *TermComposer) ReplaceAll(ctx context.Context, entries []TermEntry) (Terms, error) {
	seen := make(map[int]struct{}, len(entries))
	seenIDs := make(map[uuid.UUID]struct{}, len(entries))
	for i, e := range entries {
		if err := e.Validate(i); err != nil {
			return nil, err
		}
		if _, dup := seen[e.Order]; dup {
			return nil, &shared.DuplicateOrderError{Order: e.Order}
		}
		seen[e.Order] = struct{}{}
		if e.ID == uuid.Nil {
			continue
		}
		if _, dup := seenIDs[e.ID]; dup {
			return nil, shared.NewValidationError(fmt.Sprintf("terms[%d].id", i), "duplicate term id")
		}
		seenIDs[e.ID] = struct{}{}
	}

	list := make(Terms, len(entries))
	for i, e := range entries {
		list[i] = normalizeEntry(e)
	}
	if err := c.checkReferences(ctx, list.TermIDs()); err != nil {
		return nil, err
	}
	return list, nil
}

// Append validates entry and adds it at the end, with Order set to the
// current length and a fresh ID whatever the caller supplied.
func (c *TermComposer) Append(ctx context.Context, current Terms, entry TermEntry) (Terms, error) {
	entry.Order = len(current)
	entry.ID = uuid.New()
	if err := entry.Validate(len(current)); err != nil {
		return nil, err
	}
	entry = normalizeEntry(entry)
	if !entry.IsCustom {
		if err := c.checkReferences(ctx, []uuid.UUID{*entry.TermID}); err != nil {
			return nil, err
		}
	}
	out := make(Terms, 0, len(current)+1)
	out = append(out, current...)
	return append(out, entry), nil
}

// Reorder applies new orders to the entries named by id and re-sorts the list.
// Ids not in the list are ignored, but at least one must match. New orders
// are not checked for uniqueness; entries that end up sharing an order keep
// their previous relative position.
func (c *TermComposer) Reorder(current Terms, changes []OrderChange) (Terms, error) {
	for i, ch := range changes {
		if ch.Order < 0 {
			return nil, shared.NewValidationError(fmt.Sprintf("terms[%d].order", i), "cannot be negative")
		}
	}

	out := current.Sorted()
	index := make(map[uuid.UUID]int, len(out))
	for i, e := range out {
		index[e.ID] = i
	}

	matched := 0
	for _, ch := range changes {
		if i, ok := index[ch.ID]; ok {
			out[i].Order = ch.Order
			matched++
		}
	}
	if matched == 0 {
		ids := make([]uuid.UUID, len(changes))
		for i, ch := range changes {
			ids[i] = ch.ID
		}
		return nil, &shared.NoMatchingTermsError{IDs: ids}
	}
	return out.Sorted(), nil
}

func (c *TermComposer) checkReferences(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	existing, err := c.lookup(ctx, ids)
	if err != nil {
		return shared.NewStorageError("find contract terms", err)
	}
	known := make(map[uuid.UUID]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return &shared.InvalidReferenceError{Kind: KindTerms, ID: id}
		}
	}
	return nil
}

func normalizeEntry(e TermEntry) TermEntry {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.IsCustom {
		e.CustomKey = strings.TrimSpace(e.CustomKey)
		e.CustomKeyAr = strings.TrimSpace(e.CustomKeyAr)
		e.CustomValue = strings.TrimSpace(e.CustomValue)
		e.CustomValueAr = strings.TrimSpace(e.CustomValueAr)
	} else {
		id := *e.TermID
		e.TermID = &id
		e.CustomValue = ""
		e.CustomValueAr = ""
	}
	return e
}
