// Package audit records who changed what.
package audit

import (
	"context"
	"time"

	"github.com/agency/planner/internal/domain/shared"
	"github.com/google/uuid"
)

// Action is what was done to an entity
type Action string

const (
	ActionCreate            Action = "create"
	ActionUpdate            Action = "update"
	ActionDelete            Action = "delete"
	ActionConvertToContract Action = "convert_to_contract"
	ActionStatusChange      Action = "status_change"
	ActionTermsChange       Action = "terms_change"
)

// Actor identifies the user and client connection behind a change
type Actor struct {
	UserID    uuid.UUID
	Role      string
	IP        string
	UserAgent string
}

// Entry is one audit log record
type Entry struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Action     Action
	EntityType string
	EntityID   uuid.UUID
	Changes    any
	IP         string
	UserAgent  string
	CreatedAt  time.Time
}

// NewEntry creates an entry for an action performed by actor
func NewEntry(actor Actor, action Action, entityType string, entityID uuid.UUID, changes any) Entry {
	return Entry{
		ID:         uuid.New(),
		UserID:     actor.UserID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes:    changes,
		IP:         actor.IP,
		UserAgent:  actor.UserAgent,
		CreatedAt:  time.Now(),
	}
}

// Sink accepts audit entries. Record never fails the caller: implementations
// log and drop entries they cannot store.
type Sink interface {
	Record(ctx context.Context, entry Entry)
}

// Filter narrows audit listings
type Filter struct {
	shared.Filter
	EntityType string
	EntityID   *uuid.UUID
	UserID     *uuid.UUID
}

// Repository stores audit entries
type Repository interface {
	Create(ctx context.Context, entry Entry) error
	List(ctx context.Context, filter Filter) ([]Entry, int64, error)
}
