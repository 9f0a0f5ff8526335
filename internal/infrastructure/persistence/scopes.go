package persistence

import (
	"errors"
	"strings"

	"github.com/agency/planner/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotDeleted hides soft-deleted rows
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// OwnedBy restricts a query to the rows of one client
func OwnedBy(clientID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("client_id = ?", clientID)
	}
}

// Search matches term case-insensitively against any of columns.
// LOWER/LIKE keeps the query portable between PostgreSQL and SQLite.
func Search(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(term) + "%"
		clauses := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}

// Paginate applies the filter's page window
func Paginate(filter shared.Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Page > 0 && filter.PageSize > 0 {
			return db.Offset(filter.Offset()).Limit(filter.PageSize)
		}
		return db
	}
}

// Ordered applies the filter's ordering, validated against allowed.
// Ties are broken by id so pages are stable.
func Ordered(filter shared.Filter, allowed map[string]bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		field := ValidateSortField(filter.OrderBy, allowed, "created_at")
		return db.Order(field + " " + ValidateSortOrder(filter.OrderDir)).Order("id ASC")
	}
}

// findError maps a single-row read error: a missing row becomes shared.ErrNotFound
func findError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return shared.NewStorageError(op, err)
}
