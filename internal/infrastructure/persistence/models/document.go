package models

import (
	"time"

	"github.com/agency/planner/internal/domain/document"
	"github.com/agency/planner/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PricingColumns stores the priced part shared by every document
type PricingColumns struct {
	Lines             datatypes.JSONSlice[pricing.CatalogLine] `gorm:"not null"`
	CustomLines       datatypes.JSONSlice[pricing.CustomLine]  `gorm:"not null"`
	DocumentDiscount  DiscountColumns                          `gorm:"embedded;embeddedPrefix:document_"`
	Subtotal          decimal.Decimal                          `gorm:"type:decimal(18,4);not null;default:0"`
	Total             decimal.Decimal                          `gorm:"type:decimal(18,4);not null;default:0"`
	OverriddenTotal   *decimal.Decimal                         `gorm:"type:decimal(18,4)"`
	IsTotalOverridden bool                                     `gorm:"not null;default:false"`
}

// FromPricing populates the columns from a document's pricing
func (c *PricingColumns) FromPricing(p document.Pricing) {
	c.Lines = datatypes.NewJSONSlice(p.Lines)
	c.CustomLines = datatypes.NewJSONSlice(p.CustomLines)
	c.DocumentDiscount.FromDiscount(p.DocumentDiscount)
	c.Subtotal = p.Subtotal
	c.Total = p.Total
	c.OverriddenTotal = p.OverriddenTotal
	c.IsTotalOverridden = p.IsTotalOverridden
}

// ToPricing converts the columns to a document's pricing
func (c *PricingColumns) ToPricing() document.Pricing {
	return document.Pricing{
		Lines:             nonNil(c.Lines),
		CustomLines:       nonNil(c.CustomLines),
		DocumentDiscount:  c.DocumentDiscount.ToDiscount(),
		Subtotal:          c.Subtotal,
		Total:             c.Total,
		OverriddenTotal:   c.OverriddenTotal,
		IsTotalOverridden: c.IsTotalOverridden,
	}
}

// QuotationModel is the persistence model for the Quotation aggregate.
type QuotationModel struct {
	AuthoredAggregateModel
	PricingColumns
	Number     string                   `gorm:"type:varchar(30);not null;uniqueIndex"`
	ClientID   *uuid.UUID               `gorm:"type:uuid;index"`
	ClientName string                   `gorm:"type:varchar(200)"`
	Status     document.QuotationStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Note       string                   `gorm:"type:text"`
	ValidUntil *time.Time
}

// TableName returns the table name for GORM
func (QuotationModel) TableName() string {
	return "quotations"
}

// ToDomain converts the persistence model to a domain Quotation.
func (m *QuotationModel) ToDomain() *document.Quotation {
	return &document.Quotation{
		AuthoredAggregateRoot: m.ToAuthoredAggregateRoot(),
		Pricing:               m.ToPricing(),
		Number:                m.Number,
		ClientID:              m.ClientID,
		ClientName:            m.ClientName,
		Status:                m.Status,
		Note:                  m.Note,
		ValidUntil:            m.ValidUntil,
	}
}

// QuotationModelFromDomain creates a new persistence model from a domain Quotation.
func QuotationModelFromDomain(q *document.Quotation) *QuotationModel {
	m := &QuotationModel{
		Number:     q.Number,
		ClientID:   q.ClientID,
		ClientName: q.ClientName,
		Status:     q.Status,
		Note:       q.Note,
		ValidUntil: q.ValidUntil,
	}
	m.FromDomainAuthoredAggregateRoot(q.AuthoredAggregateRoot)
	m.FromPricing(q.Pricing)
	return m
}

// CampaignPlanModel is the persistence model for the CampaignPlan aggregate.
type CampaignPlanModel struct {
	AuthoredAggregateModel
	PricingColumns
	Number        string                                  `gorm:"type:varchar(30);not null;uniqueIndex"`
	ClientID      uuid.UUID                               `gorm:"type:uuid;not null;index"`
	BranchIDs     datatypes.JSONSlice[uuid.UUID]          `gorm:"column:branch_ids;not null"`
	SegmentIDs    datatypes.JSONSlice[uuid.UUID]          `gorm:"column:segment_ids;not null"`
	CompetitorIDs datatypes.JSONSlice[uuid.UUID]          `gorm:"column:competitor_ids;not null"`
	SocialLinkIDs datatypes.JSONSlice[uuid.UUID]          `gorm:"column:social_link_ids;not null"`
	Swot          datatypes.JSONType[document.Swot]       `gorm:"not null"`
	Description   string                                  `gorm:"type:text"`
	Objectives    datatypes.JSONSlice[document.Objective] `gorm:"not null"`
	Strategy      datatypes.JSONType[document.Strategy]   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CampaignPlanModel) TableName() string {
	return "campaign_plans"
}

// ToDomain converts the persistence model to a domain CampaignPlan.
func (m *CampaignPlanModel) ToDomain() *document.CampaignPlan {
	strategy := m.Strategy.Data()
	if strategy.Timeline == nil {
		strategy.Timeline = []document.TimelineEntry{}
	}
	return &document.CampaignPlan{
		AuthoredAggregateRoot: m.ToAuthoredAggregateRoot(),
		Pricing:               m.ToPricing(),
		Number:                m.Number,
		ClientID:              m.ClientID,
		BranchIDs:             nonNil(m.BranchIDs),
		SegmentIDs:            nonNil(m.SegmentIDs),
		CompetitorIDs:         nonNil(m.CompetitorIDs),
		SocialLinkIDs:         nonNil(m.SocialLinkIDs),
		Swot:                  m.Swot.Data(),
		Description:           m.Description,
		Objectives:            nonNil(m.Objectives),
		Strategy:              strategy,
	}
}

// CampaignPlanModelFromDomain creates a new persistence model from a domain CampaignPlan.
func CampaignPlanModelFromDomain(p *document.CampaignPlan) *CampaignPlanModel {
	m := &CampaignPlanModel{
		Number:        p.Number,
		ClientID:      p.ClientID,
		BranchIDs:     datatypes.NewJSONSlice(p.BranchIDs),
		SegmentIDs:    datatypes.NewJSONSlice(p.SegmentIDs),
		CompetitorIDs: datatypes.NewJSONSlice(p.CompetitorIDs),
		SocialLinkIDs: datatypes.NewJSONSlice(p.SocialLinkIDs),
		Swot:          datatypes.NewJSONType(p.Swot),
		Description:   p.Description,
		Objectives:    datatypes.NewJSONSlice(p.Objectives),
		Strategy:      datatypes.NewJSONType(p.Strategy),
	}
	m.FromDomainAuthoredAggregateRoot(p.AuthoredAggregateRoot)
	m.FromPricing(p.Pricing)
	return m
}

// ContractModel is the persistence model for the Contract aggregate.
type ContractModel struct {
	AuthoredAggregateModel
	PricingColumns
	Number         string                                  `gorm:"type:varchar(30);not null;uniqueIndex"`
	ClientID       uuid.UUID                               `gorm:"type:uuid;not null;index"`
	ClientName     string                                  `gorm:"type:varchar(200)"`
	ClientNameAr   string                                  `gorm:"type:varchar(200)"`
	QuotationID    *uuid.UUID                              `gorm:"type:uuid;index"`
	CampaignPlanID *uuid.UUID                              `gorm:"type:uuid;index"`
	Terms          datatypes.JSONSlice[document.TermEntry] `gorm:"not null"`
	StartDate      time.Time                               `gorm:"not null"`
	EndDate        time.Time                               `gorm:"not null"`
	Body           string                                  `gorm:"type:text"`
	BodyAr         string                                  `gorm:"type:text"`
	Status         document.ContractStatus                 `gorm:"type:varchar(20);not null;default:'draft';index"`
	SignedDate     *time.Time
	Note           string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ContractModel) TableName() string {
	return "contracts"
}

// ToDomain converts the persistence model to a domain Contract.
func (m *ContractModel) ToDomain() *document.Contract {
	return &document.Contract{
		AuthoredAggregateRoot: m.ToAuthoredAggregateRoot(),
		Pricing:               m.ToPricing(),
		Number:                m.Number,
		ClientID:              m.ClientID,
		ClientName:            m.ClientName,
		ClientNameAr:          m.ClientNameAr,
		QuotationID:           m.QuotationID,
		CampaignPlanID:        m.CampaignPlanID,
		Terms:                 document.Terms(nonNil(m.Terms)),
		Period:                document.Period{Start: m.StartDate, End: m.EndDate},
		Body:                  m.Body,
		BodyAr:                m.BodyAr,
		Status:                m.Status,
		SignedDate:            m.SignedDate,
		Note:                  m.Note,
	}
}

// ContractModelFromDomain creates a new persistence model from a domain Contract.
func ContractModelFromDomain(c *document.Contract) *ContractModel {
	m := &ContractModel{
		Number:         c.Number,
		ClientID:       c.ClientID,
		ClientName:     c.ClientName,
		ClientNameAr:   c.ClientNameAr,
		QuotationID:    c.QuotationID,
		CampaignPlanID: c.CampaignPlanID,
		Terms:          datatypes.NewJSONSlice([]document.TermEntry(c.Terms)),
		StartDate:      c.Period.Start,
		EndDate:        c.Period.End,
		Body:           c.Body,
		BodyAr:         c.BodyAr,
		Status:         c.Status,
		SignedDate:     c.SignedDate,
		Note:           c.Note,
	}
	m.FromDomainAuthoredAggregateRoot(c.AuthoredAggregateRoot)
	m.FromPricing(c.Pricing)
	return m
}

// DocumentSequenceModel holds the last number handed out for one sequence,
// such as QUO-2025 or PLAN.
type DocumentSequenceModel struct {
	Name      string `gorm:"type:varchar(50);primary_key"`
	Value     int64  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
