package persistence

import (
	"context"
	"time"

	"github.com/agency/planner/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope is a reusable query condition
type Scope = func(db *gorm.DB) *gorm.DB

// findOne loads one non-deleted row of M by id
func findOne[M any](ctx context.Context, db *gorm.DB, op string, id uuid.UUID) (*M, error) {
	var model M
	if err := conn(ctx, db).Scopes(NotDeleted).First(&model, "id = ?", id).Error; err != nil {
		return nil, findError(op, err)
	}
	return &model, nil
}

// findMany loads the non-deleted rows of M among ids. Missing ids are absent
// from the result; an empty ids slice makes no query.
func findMany[M any](ctx context.Context, db *gorm.DB, op string, ids []uuid.UUID) ([]M, error) {
	if len(ids) == 0 {
		return []M{}, nil
	}
	var rows []M
	if err := conn(ctx, db).Scopes(NotDeleted).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, shared.NewStorageError(op, err)
	}
	return rows, nil
}

// listPage counts the non-deleted rows of M matching scopes and loads the
// requested page.
func listPage[M any](ctx context.Context, db *gorm.DB, op string, filter shared.Filter, allowed map[string]bool, scopes ...Scope) ([]M, int64, error) {
	scopes = append([]Scope{NotDeleted}, scopes...)

	var total int64
	if err := conn(ctx, db).Model(new(M)).Scopes(scopes...).Count(&total).Error; err != nil {
		return nil, 0, shared.NewStorageError(op, err)
	}

	var rows []M
	if err := conn(ctx, db).Scopes(scopes...).
		Scopes(Ordered(filter, allowed), Paginate(filter)).
		Find(&rows).Error; err != nil {
		return nil, 0, shared.NewStorageError(op, err)
	}
	return rows, total, nil
}

// save creates or updates model by primary key
func save(ctx context.Context, db *gorm.DB, op string, model any) error {
	if err := conn(ctx, db).Save(model).Error; err != nil {
		return shared.NewStorageError(op, err)
	}
	return nil
}

// softDelete flags the row of M with id as deleted. Deleting a missing or
// already deleted row returns shared.ErrNotFound.
func softDelete[M any](ctx context.Context, db *gorm.DB, op string, id uuid.UUID) error {
	result := conn(ctx, db).Model(new(M)).
		Scopes(NotDeleted).
		Where("id = ?", id).
		Updates(map[string]any{"is_deleted": true, "updated_at": time.Now()})
	if result.Error != nil {
		return shared.NewStorageError(op, result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// exists reports whether a non-deleted row of M with id exists
func exists[M any](ctx context.Context, db *gorm.DB, op string, id uuid.UUID) (bool, error) {
	var count int64
	if err := conn(ctx, db).Model(new(M)).Scopes(NotDeleted).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, shared.NewStorageError(op, err)
	}
	return count > 0, nil
}

func toDomainSlice[M any, D any](rows []M, convert func(*M) *D) []D {
	out := make([]D, len(rows))
	for i := range rows {
		out[i] = *convert(&rows[i])
	}
	return out
}
