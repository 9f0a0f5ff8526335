package persistence

import (
	"context"
	"time"

	"github.com/agency/planner/internal/domain/document"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSequenceStore implements document.SequenceStore with one row per
// sequence name. The row is created on first use and incremented by an
// upsert, whose row lock keeps concurrent callers from reading the same value.
type GormSequenceStore struct {
	db *gorm.DB
	tx *GormTransactor
}

// NewGormSequenceStore creates a new GormSequenceStore
func NewGormSequenceStore(db *gorm.DB) *GormSequenceStore {
	return &GormSequenceStore{db: db, tx: NewGormTransactor(db)}
}

// NextValue increments the named sequence and returns its new value.
// Inside a transaction the row stays locked until that transaction ends.
func (s *GormSequenceStore) NextValue(ctx context.Context, name string) (int64, error) {
	var value int64
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		now := time.Now()
		row := models.DocumentSequenceModel{Name: name, Value: 1, UpdatedAt: now}
		if err := conn(ctx, s.db).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]any{
				"value":      gorm.Expr("document_sequences.value + 1"),
				"updated_at": now,
			}),
		}).Create(&row).Error; err != nil {
			return err
		}
		var current models.DocumentSequenceModel
		if err := conn(ctx, s.db).First(&current, "name = ?", name).Error; err != nil {
			return err
		}
		value = current.Value
		return nil
	})
	if err != nil {
		return 0, shared.NewStorageError("next document number", err)
	}
	return value, nil
}

// Ensure GormSequenceStore implements SequenceStore
var _ document.SequenceStore = (*GormSequenceStore)(nil)
