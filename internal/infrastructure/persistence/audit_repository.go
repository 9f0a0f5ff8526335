package persistence

import (
	"context"

	"github.com/agency/planner/internal/domain/audit"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// auditSortFields contains allowed sort fields for audit entries
var auditSortFields = map[string]bool{
	"created_at":  true,
	"entity_type": true,
	"action":      true,
}

// GormAuditRepository implements audit.Repository using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Create stores an entry
func (r *GormAuditRepository) Create(ctx context.Context, entry audit.Entry) error {
	model, err := models.AuditLogModelFromDomain(entry)
	if err != nil {
		return shared.NewStorageError("encode audit changes", err)
	}
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return shared.NewStorageError("save audit entry", err)
	}
	return nil
}

// List returns a page of entries, newest first by default
func (r *GormAuditRepository) List(ctx context.Context, filter audit.Filter) ([]audit.Entry, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.EntityType != "" {
			db = db.Where("entity_type = ?", filter.EntityType)
		}
		if filter.EntityID != nil {
			db = db.Where("entity_id = ?", *filter.EntityID)
		}
		if filter.UserID != nil {
			db = db.Where("user_id = ?", *filter.UserID)
		}
		return db
	}

	var total int64
	if err := conn(ctx, r.db).Model(&models.AuditLogModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, shared.NewStorageError("list audit entries", err)
	}

	var rows []models.AuditLogModel
	if err := conn(ctx, r.db).Scopes(scope, Ordered(filter.Filter, auditSortFields), Paginate(filter.Filter)).
		Find(&rows).Error; err != nil {
		return nil, 0, shared.NewStorageError("list audit entries", err)
	}

	entries := make([]audit.Entry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, total, nil
}

// Ensure GormAuditRepository implements Repository
var _ audit.Repository = (*GormAuditRepository)(nil)
