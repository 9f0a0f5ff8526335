package persistence

import (
	"context"

	"github.com/agency/planner/internal/domain/shared"
	"gorm.io/gorm"
)

type txKey struct{}

// GormTransactor implements shared.Transactor using GORM transactions.
// The transaction travels in the context, so every repository called with
// that context writes through it.
type GormTransactor struct {
	db *gorm.DB
}

// NewGormTransactor creates a new GormTransactor.
func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

// Transaction runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
// A call made inside an open transaction joins it.
func (t *GormTransactor) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction carried by ctx, or db bound to ctx
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// Ensure GormTransactor implements Transactor
var _ shared.Transactor = (*GormTransactor)(nil)
