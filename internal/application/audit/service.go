// Package audit records and lists the audit trail of user changes.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/agency/planner/internal/domain/audit"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder stores audit entries through a repository. It implements
// audit.Sink: storage failures are logged and dropped.
type Recorder struct {
	repo    audit.Repository
	logger  *zap.Logger
	timeout time.Duration
}

// NewRecorder creates a Recorder
func NewRecorder(repo audit.Repository, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{repo: repo, logger: logger, timeout: 5 * time.Second}
}

// Record stores entry. The write outlives cancellation of ctx so that an
// aborted request still leaves its trail.
func (r *Recorder) Record(ctx context.Context, entry audit.Entry) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	if err := r.repo.Create(ctx, entry); err != nil {
		r.logger.Error("Failed to create audit log",
			zap.String("action", string(entry.Action)),
			zap.String("entity_type", entry.EntityType),
			zap.String("entity_id", entry.EntityID.String()),
			zap.Error(err))
	}
}

// EntryResponse represents an audit entry in API responses
type EntryResponse struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	IPAddress  string          `json:"ip_address,omitempty"`
	UserAgent  string          `json:"user_agent,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ListFilter represents query parameters for audit listings
type ListFilter struct {
	EntityType string     `form:"entity_type"`
	EntityID   *uuid.UUID `form:"-"`
	UserID     *uuid.UUID `form:"-"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ListResponse is a page of audit entries
type ListResponse struct {
	Items    []EntryResponse `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// Service lists audit entries
type Service struct {
	repo audit.Repository
}

// NewService creates a new audit Service
func NewService(repo audit.Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of entries, newest first
func (s *Service) List(ctx context.Context, filter ListFilter) (*ListResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	entries, total, err := s.repo.List(ctx, audit.Filter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "created_at",
			OrderDir: "desc",
		},
		EntityType: filter.EntityType,
		EntityID:   filter.EntityID,
		UserID:     filter.UserID,
	})
	if err != nil {
		return nil, err
	}

	items := make([]EntryResponse, len(entries))
	for i, e := range entries {
		items[i] = EntryResponse{
			ID:         e.ID,
			UserID:     e.UserID,
			Action:     string(e.Action),
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Changes:    toRaw(e.Changes),
			IPAddress:  e.IP,
			UserAgent:  e.UserAgent,
			CreatedAt:  e.CreatedAt,
		}
	}
	return &ListResponse{Items: items, Total: total, Page: filter.Page, PageSize: filter.PageSize}, nil
}

func toRaw(changes any) json.RawMessage {
	switch v := changes.(type) {
	case nil:
		return nil
	case json.RawMessage:
		return v
	case []byte:
		return v
	}
	b, err := json.Marshal(changes)
	if err != nil {
		return nil
	}
	return b
}
