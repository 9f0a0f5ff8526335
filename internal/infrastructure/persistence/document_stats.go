package persistence

import (
	"context"

	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDocumentStats counts live documents for the business metrics gauge
type GormDocumentStats struct {
	db *gorm.DB
}

// NewGormDocumentStats creates a new GormDocumentStats
func NewGormDocumentStats(db *gorm.DB) *GormDocumentStats {
	return &GormDocumentStats{db: db}
}

type statusCount struct {
	Status string
	Count  int64
}

// CountDocumentsByStatus returns non-deleted document counts keyed by
// document type and then status. Campaign plans carry no status and are
// reported under "active".
func (s *GormDocumentStats) CountDocumentsByStatus(ctx context.Context) (map[string]map[string]int64, error) {
	result := make(map[string]map[string]int64, 3)

	for docType, model := range map[string]any{
		"quotation": &models.QuotationModel{},
		"contract":  &models.ContractModel{},
	} {
		var rows []statusCount
		err := conn(ctx, s.db).Model(model).Scopes(NotDeleted).
			Select("status, COUNT(*) AS count").
			Group("status").
			Scan(&rows).Error
		if err != nil {
			return nil, shared.NewStorageError("count "+docType+" by status", err)
		}
		byStatus := make(map[string]int64, len(rows))
		for _, r := range rows {
			byStatus[r.Status] = r.Count
		}
		result[docType] = byStatus
	}

	var plans int64
	if err := conn(ctx, s.db).Model(&models.CampaignPlanModel{}).Scopes(NotDeleted).Count(&plans).Error; err != nil {
		return nil, shared.NewStorageError("count campaign plans", err)
	}
	result["campaign_plan"] = map[string]int64{"active": plans}

	return result, nil
}
