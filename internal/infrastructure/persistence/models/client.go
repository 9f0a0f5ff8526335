package models

import (
	"github.com/agency/planner/internal/domain/client"
	"github.com/agency/planner/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ClientModel is the persistence model for the Client aggregate.
type ClientModel struct {
	AggregateModel
	BusinessName string `gorm:"type:varchar(200);not null;index"`
	ContactName  string `gorm:"type:varchar(200)"`
	Email        string `gorm:"type:varchar(200)"`
	Phone        string `gorm:"type:varchar(50)"`
	Notes        string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client.
func (m *ClientModel) ToDomain() *client.Client {
	return &client.Client{
		BaseAggregateRoot: m.ToAggregateRoot(),
		BusinessName:      m.BusinessName,
		ContactName:       m.ContactName,
		Email:             m.Email,
		Phone:             m.Phone,
		Notes:             m.Notes,
	}
}

// ClientModelFromDomain creates a new persistence model from a domain Client.
func ClientModelFromDomain(c *client.Client) *ClientModel {
	m := &ClientModel{
		BusinessName: c.BusinessName,
		ContactName:  c.ContactName,
		Email:        c.Email,
		Phone:        c.Phone,
		Notes:        c.Notes,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

// ClientOwnedModel is embedded by every model owned by one client
type ClientOwnedModel struct {
	AggregateModel
	ClientID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// SegmentModel is the persistence model for a client segment.
type SegmentModel struct {
	ClientOwnedModel
	NameEn      string `gorm:"type:varchar(200)"`
	NameAr      string `gorm:"type:varchar(200)"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SegmentModel) TableName() string {
	return "segments"
}

// ToDomain converts the persistence model to a domain Segment.
func (m *SegmentModel) ToDomain() *client.Segment {
	return &client.Segment{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Ownership:         client.Ownership{ClientID: m.ClientID},
		Name:              valueobject.LocalizedText{En: m.NameEn, Ar: m.NameAr},
		Description:       m.Description,
	}
}

// SegmentModelFromDomain creates a new persistence model from a domain Segment.
func SegmentModelFromDomain(s *client.Segment) *SegmentModel {
	m := &SegmentModel{
		NameEn:      s.Name.En,
		NameAr:      s.Name.Ar,
		Description: s.Description,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.ClientID = s.ClientID
	return m
}

// CompetitorModel is the persistence model for a client competitor.
type CompetitorModel struct {
	ClientOwnedModel
	Name    string `gorm:"type:varchar(200);not null"`
	Website string `gorm:"type:varchar(500)"`
	Notes   string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CompetitorModel) TableName() string {
	return "competitors"
}

// ToDomain converts the persistence model to a domain Competitor.
func (m *CompetitorModel) ToDomain() *client.Competitor {
	return &client.Competitor{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Ownership:         client.Ownership{ClientID: m.ClientID},
		Name:              m.Name,
		Website:           m.Website,
		Notes:             m.Notes,
	}
}

// CompetitorModelFromDomain creates a new persistence model from a domain Competitor.
func CompetitorModelFromDomain(c *client.Competitor) *CompetitorModel {
	m := &CompetitorModel{
		Name:    c.Name,
		Website: c.Website,
		Notes:   c.Notes,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.ClientID = c.ClientID
	return m
}

// BranchModel is the persistence model for a client branch.
type BranchModel struct {
	ClientOwnedModel
	NameEn  string `gorm:"type:varchar(200)"`
	NameAr  string `gorm:"type:varchar(200)"`
	Address string `gorm:"type:varchar(500)"`
	City    string `gorm:"type:varchar(100)"`
	Phone   string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (BranchModel) TableName() string {
	return "branches"
}

// ToDomain converts the persistence model to a domain Branch.
func (m *BranchModel) ToDomain() *client.Branch {
	return &client.Branch{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Ownership:         client.Ownership{ClientID: m.ClientID},
		Name:              valueobject.LocalizedText{En: m.NameEn, Ar: m.NameAr},
		Address:           m.Address,
		City:              m.City,
		Phone:             m.Phone,
	}
}

// BranchModelFromDomain creates a new persistence model from a domain Branch.
func BranchModelFromDomain(b *client.Branch) *BranchModel {
	m := &BranchModel{
		NameEn:  b.Name.En,
		NameAr:  b.Name.Ar,
		Address: b.Address,
		City:    b.City,
		Phone:   b.Phone,
	}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.ClientID = b.ClientID
	return m
}

// SocialLinkModel is the persistence model for a client social link.
type SocialLinkModel struct {
	ClientOwnedModel
	Platform     string `gorm:"type:varchar(50);not null"`
	PlatformName string `gorm:"type:varchar(200)"`
	URL          string `gorm:"column:url;type:varchar(500);not null"`
	Type         string `gorm:"type:varchar(20);not null;default:business"`
}

// TableName returns the table name for GORM
func (SocialLinkModel) TableName() string {
	return "social_links"
}

// ToDomain converts the persistence model to a domain SocialLink.
func (m *SocialLinkModel) ToDomain() *client.SocialLink {
	return &client.SocialLink{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Ownership:         client.Ownership{ClientID: m.ClientID},
		Platform:          m.Platform,
		PlatformName:      m.PlatformName,
		URL:               m.URL,
		Type:              client.SocialLinkType(m.Type),
	}
}

// SocialLinkModelFromDomain creates a new persistence model from a domain SocialLink.
func SocialLinkModelFromDomain(l *client.SocialLink) *SocialLinkModel {
	m := &SocialLinkModel{
		Platform:     l.Platform,
		PlatformName: l.PlatformName,
		URL:          l.URL,
		Type:         string(l.Type),
	}
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.ClientID = l.ClientID
	return m
}
