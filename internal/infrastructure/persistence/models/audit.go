package models

import (
	"encoding/json"
	"time"

	"github.com/agency/planner/internal/domain/audit"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLogModel is the persistence model for an audit entry. Entries are
// append-only, so it carries no version or deleted flag.
type AuditLogModel struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key"`
	UserID     uuid.UUID      `gorm:"type:uuid;index"`
	Action     string         `gorm:"type:varchar(50);not null"`
	EntityType string         `gorm:"type:varchar(50);not null;index:idx_audit_entity,priority:1"`
	EntityID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_audit_entity,priority:2"`
	Changes    datatypes.JSON
	IP         string         `gorm:"column:ip;type:varchar(45)"`
	UserAgent  string         `gorm:"type:varchar(500)"`
	CreatedAt  time.Time      `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts the persistence model to a domain audit Entry.
// Changes come back as decoded JSON.
func (m *AuditLogModel) ToDomain() audit.Entry {
	var changes any
	if len(m.Changes) > 0 {
		if err := json.Unmarshal(m.Changes, &changes); err != nil {
			changes = nil
		}
	}
	return audit.Entry{
		ID:         m.ID,
		UserID:     m.UserID,
		Action:     audit.Action(m.Action),
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Changes:    changes,
		IP:         m.IP,
		UserAgent:  m.UserAgent,
		CreatedAt:  m.CreatedAt,
	}
}

// AuditLogModelFromDomain creates a new persistence model from a domain audit Entry.
func AuditLogModelFromDomain(e audit.Entry) (*AuditLogModel, error) {
	m := &AuditLogModel{
		ID:         e.ID,
		UserID:     e.UserID,
		Action:     string(e.Action),
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		IP:         e.IP,
		UserAgent:  e.UserAgent,
		CreatedAt:  e.CreatedAt,
	}
	if e.Changes != nil {
		raw, err := json.Marshal(e.Changes)
		if err != nil {
			return nil, err
		}
		m.Changes = datatypes.JSON(raw)
	}
	return m, nil
}
