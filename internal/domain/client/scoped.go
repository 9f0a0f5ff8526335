package client

import (
	"strings"

	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Ownership ties an entity to exactly one client
type Ownership struct {
	ClientID uuid.UUID
}

// GetClientID returns the owning client
func (o Ownership) GetClientID() uuid.UUID {
	return o.ClientID
}

func newOwnership(clientID uuid.UUID) (Ownership, error) {
	if clientID == uuid.Nil {
		return Ownership{}, shared.NewValidationError("client_id", "is required")
	}
	return Ownership{ClientID: clientID}, nil
}

// Segment is a target audience segment of a client
type Segment struct {
	shared.BaseAggregateRoot
	Ownership
	Name        valueobject.LocalizedText
	Description string
}

// NewSegment creates a segment for a client
func NewSegment(clientID uuid.UUID, name valueobject.LocalizedText, description string) (*Segment, error) {
	owner, err := newOwnership(clientID)
	if err != nil {
		return nil, err
	}
	if name.IsEmpty() {
		return nil, shared.NewValidationError("name", "is required")
	}
	return &Segment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Ownership:         owner,
		Name:              valueobject.NewLocalizedText(name.En, name.Ar),
		Description:       strings.TrimSpace(description),
	}, nil
}

// Update changes the segment text
func (s *Segment) Update(name valueobject.LocalizedText, description string) error {
	if name.IsEmpty() {
		return shared.NewValidationError("name", "is required")
	}
	s.Name = valueobject.NewLocalizedText(name.En, name.Ar)
	s.Description = strings.TrimSpace(description)
	s.Touch()
	s.IncrementVersion()
	return nil
}

// Competitor is a competitor tracked for a client
type Competitor struct {
	shared.BaseAggregateRoot
	Ownership
	Name    string
	Website string
	Notes   string
}

// NewCompetitor creates a competitor for a client
func NewCompetitor(clientID uuid.UUID, name, website, notes string) (*Competitor, error) {
	owner, err := newOwnership(clientID)
	if err != nil {
		return nil, err
	}
	c := &Competitor{BaseAggregateRoot: shared.NewBaseAggregateRoot(), Ownership: owner}
	if err := c.Update(name, website, notes); err != nil {
		return nil, err
	}
	c.Version = 1
	return c, nil
}

// Update changes the competitor details
func (c *Competitor) Update(name, website, notes string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("name", "is required")
	}
	c.Name = name
	c.Website = strings.TrimSpace(website)
	c.Notes = strings.TrimSpace(notes)
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Branch is a physical location of a client
type Branch struct {
	shared.BaseAggregateRoot
	Ownership
	Name    valueobject.LocalizedText
	Address string
	City    string
	Phone   string
}

// NewBranch creates a branch for a client
func NewBranch(clientID uuid.UUID, name valueobject.LocalizedText, address, city string) (*Branch, error) {
	owner, err := newOwnership(clientID)
	if err != nil {
		return nil, err
	}
	b := &Branch{BaseAggregateRoot: shared.NewBaseAggregateRoot(), Ownership: owner}
	if err := b.Update(name, address, city, ""); err != nil {
		return nil, err
	}
	b.Version = 1
	return b, nil
}

// Update changes the branch details
func (b *Branch) Update(name valueobject.LocalizedText, address, city, phone string) error {
	if name.IsEmpty() {
		return shared.NewValidationError("name", "is required")
	}
	b.Name = valueobject.NewLocalizedText(name.En, name.Ar)
	b.Address = strings.TrimSpace(address)
	b.City = strings.TrimSpace(city)
	b.Phone = strings.TrimSpace(phone)
	b.Touch()
	b.IncrementVersion()
	return nil
}

// SocialLinkType tells a business account from a personal one
type SocialLinkType string

const (
	SocialLinkBusiness SocialLinkType = "business"
	SocialLinkPersonal SocialLinkType = "personal"
)

// SocialLink is a social media account of a client
type SocialLink struct {
	shared.BaseAggregateRoot
	Ownership
	Platform     string
	PlatformName string
	URL          string
	Type         SocialLinkType
}

// NewSocialLink creates a social link for a client. An empty type is business.
func NewSocialLink(clientID uuid.UUID, platform, platformName, url string, linkType SocialLinkType) (*SocialLink, error) {
	owner, err := newOwnership(clientID)
	if err != nil {
		return nil, err
	}
	l := &SocialLink{BaseAggregateRoot: shared.NewBaseAggregateRoot(), Ownership: owner}
	if err := l.Update(platform, platformName, url, linkType); err != nil {
		return nil, err
	}
	l.Version = 1
	return l, nil
}

// Update changes the social link details
func (l *SocialLink) Update(platform, platformName, url string, linkType SocialLinkType) error {
	platform = strings.TrimSpace(platform)
	if platform == "" {
		return shared.NewValidationError("platform", "is required")
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return shared.NewValidationError("url", "is required")
	}
	switch linkType {
	case "":
		linkType = SocialLinkBusiness
	case SocialLinkBusiness, SocialLinkPersonal:
	default:
		return shared.NewValidationError("type", "must be business or personal")
	}
	l.Platform = platform
	l.PlatformName = strings.TrimSpace(platformName)
	l.URL = url
	l.Type = linkType
	l.Touch()
	l.IncrementVersion()
	return nil
}
