package models

import (
	"github.com/agency/planner/internal/domain/catalog"
	"github.com/agency/planner/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DiscountColumns stores a discount as a value and its kind
type DiscountColumns struct {
	DiscountValue decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountKind  string          `gorm:"type:varchar(20);not null;default:'percentage'"`
}

// FromDiscount populates the columns from a domain Discount
func (c *DiscountColumns) FromDiscount(d valueobject.Discount) {
	c.DiscountValue = d.Value()
	c.DiscountKind = string(d.Kind())
}

// ToDiscount rebuilds the discount. Rows are validated on write; a row that
// no longer validates reads back as no discount.
func (c DiscountColumns) ToDiscount() valueobject.Discount {
	d, err := valueobject.NewDiscount(c.DiscountValue, valueobject.DiscountKind(c.DiscountKind))
	if err != nil {
		return valueobject.NoDiscount()
	}
	return d
}

// ServiceModel is the persistence model for the Service catalog entity.
type ServiceModel struct {
	AggregateModel
	DiscountColumns
	NameEn      string                  `gorm:"type:varchar(200);not null"`
	NameAr      string                  `gorm:"type:varchar(200);not null"`
	Description string                  `gorm:"type:text"`
	Category    catalog.ServiceCategory `gorm:"type:varchar(20);not null;default:'other';index"`
	Price       decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	IsGlobal    bool                    `gorm:"not null;default:true"`
	ClientID    *uuid.UUID              `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ServiceModel) TableName() string {
	return "services"
}

// ToDomain converts the persistence model to a domain Service entity.
func (m *ServiceModel) ToDomain() *catalog.Service {
	return &catalog.Service{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              valueobject.LocalizedText{En: m.NameEn, Ar: m.NameAr},
		Description:       m.Description,
		Category:          m.Category,
		Price:             m.Price,
		Discount:          m.ToDiscount(),
		IsGlobal:          m.IsGlobal,
		ClientID:          m.ClientID,
	}
}

// FromDomain populates the persistence model from a domain Service entity.
func (m *ServiceModel) FromDomain(s *catalog.Service) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.FromDiscount(s.Discount)
	m.NameEn = s.Name.En
	m.NameAr = s.Name.Ar
	m.Description = s.Description
	m.Category = s.Category
	m.Price = s.Price
	m.IsGlobal = s.IsGlobal
	m.ClientID = s.ClientID
}

// ServiceModelFromDomain creates a new persistence model from a domain Service entity.
func ServiceModelFromDomain(s *catalog.Service) *ServiceModel {
	m := &ServiceModel{}
	m.FromDomain(s)
	return m
}

// PackageModel is the persistence model for the Package catalog entity.
type PackageModel struct {
	AggregateModel
	DiscountColumns
	NameEn     string                               `gorm:"type:varchar(200);not null"`
	NameAr     string                               `gorm:"type:varchar(200);not null"`
	Price      decimal.Decimal                      `gorm:"type:decimal(18,4);not null;default:0"`
	Features   datatypes.JSONSlice[catalog.Feature] `gorm:"not null"`
	IsActive   bool                                 `gorm:"not null;default:true;index"`
	ServiceIDs datatypes.JSONSlice[uuid.UUID]       `gorm:"column:service_ids;not null"`
}

// TableName returns the table name for GORM
func (PackageModel) TableName() string {
	return "packages"
}

// ToDomain converts the persistence model to a domain Package entity.
func (m *PackageModel) ToDomain() *catalog.Package {
	features := []catalog.Feature(m.Features)
	if features == nil {
		features = []catalog.Feature{}
	}
	serviceIDs := []uuid.UUID(m.ServiceIDs)
	if serviceIDs == nil {
		serviceIDs = []uuid.UUID{}
	}
	return &catalog.Package{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              valueobject.LocalizedText{En: m.NameEn, Ar: m.NameAr},
		Price:             m.Price,
		Discount:          m.ToDiscount(),
		Features:          features,
		IsActive:          m.IsActive,
		ServiceIDs:        serviceIDs,
	}
}

// FromDomain populates the persistence model from a domain Package entity.
func (m *PackageModel) FromDomain(p *catalog.Package) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.FromDiscount(p.Discount)
	m.NameEn = p.Name.En
	m.NameAr = p.Name.Ar
	m.Price = p.Price
	m.Features = datatypes.NewJSONSlice(p.Features)
	m.IsActive = p.IsActive
	m.ServiceIDs = datatypes.NewJSONSlice(p.ServiceIDs)
}

// PackageModelFromDomain creates a new persistence model from a domain Package entity.
func PackageModelFromDomain(p *catalog.Package) *PackageModel {
	m := &PackageModel{}
	m.FromDomain(p)
	return m
}

// ContractTermModel is the persistence model for the ContractTerm catalog entity.
type ContractTermModel struct {
	AggregateModel
	Key     string `gorm:"column:term_key;type:varchar(200);not null"`
	KeyAr   string `gorm:"column:term_key_ar;type:varchar(200);not null"`
	Value   string `gorm:"type:text"`
	ValueAr string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ContractTermModel) TableName() string {
	return "contract_terms"
}

// ToDomain converts the persistence model to a domain ContractTerm entity.
func (m *ContractTermModel) ToDomain() *catalog.ContractTerm {
	return &catalog.ContractTerm{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Key:               m.Key,
		KeyAr:             m.KeyAr,
		Value:             m.Value,
		ValueAr:           m.ValueAr,
	}
}

// ContractTermModelFromDomain creates a new persistence model from a domain ContractTerm entity.
func ContractTermModelFromDomain(t *catalog.ContractTerm) *ContractTermModel {
	m := &ContractTermModel{
		Key:     t.Key,
		KeyAr:   t.KeyAr,
		Value:   t.Value,
		ValueAr: t.ValueAr,
	}
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	return m
}
