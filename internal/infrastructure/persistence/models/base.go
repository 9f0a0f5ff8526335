package models

import (
	"time"

	"github.com/agency/planner/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
	IsDeleted bool      `gorm:"not null;default:false;index"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		Deleted:   m.IsDeleted,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
	m.IsDeleted = e.Deleted
}

// AggregateModel provides common persistence fields for aggregate roots.
// It extends BaseModel with version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// ToAggregateRoot converts AggregateModel to domain BaseAggregateRoot
func (m *AggregateModel) ToAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: m.BaseModel.ToDomain(),
		Version:    m.Version,
	}
}

// AuthoredAggregateModel adds the creating user to AggregateModel.
// Documents use it.
type AuthoredAggregateModel struct {
	AggregateModel
	CreatedBy uuid.UUID `gorm:"type:uuid;index"`
}

// FromDomainAuthoredAggregateRoot populates the model from a domain AuthoredAggregateRoot
func (m *AuthoredAggregateModel) FromDomainAuthoredAggregateRoot(a shared.AuthoredAggregateRoot) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.CreatedBy = a.CreatedBy
}

// ToAuthoredAggregateRoot converts the model to a domain AuthoredAggregateRoot
func (m *AuthoredAggregateModel) ToAuthoredAggregateRoot() shared.AuthoredAggregateRoot {
	return shared.AuthoredAggregateRoot{
		BaseAggregateRoot: m.ToAggregateRoot(),
		CreatedBy:         m.CreatedBy,
	}
}
