package document

import (
	"fmt"
	"strings"

	"github.com/agency/planner/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Swot holds the SWOT analysis of a plan
type Swot struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// Objective is one bilingual goal of a plan
type Objective struct {
	Name          string `json:"name"`
	NameAr        string `json:"ar"`
	Description   string `json:"description,omitempty"`
	DescriptionAr string `json:"descriptionAr,omitempty"`
}

// TimelineEntry is one phase of a strategy
type TimelineEntry struct {
	Start       string `json:"timelineStart,omitempty"`
	End         string `json:"timelineEnd,omitempty"`
	ObjectiveEn string `json:"objectiveEn,omitempty"`
	ObjectiveAr string `json:"objectiveAr,omitempty"`
}

// Strategy is the budget and phased plan of a campaign
type Strategy struct {
	Budget        decimal.Decimal `json:"budget"`
	Timeline      []TimelineEntry `json:"timeline"`
	Description   string          `json:"description,omitempty"`
	DescriptionAr string          `json:"descriptionAr,omitempty"`
}

// CampaignPlan is a marketing plan for one client. Every branch, segment,
// competitor and social link it references belongs to that client.
type CampaignPlan struct {
	shared.AuthoredAggregateRoot
	Pricing
	Number        string
	ClientID      uuid.UUID
	BranchIDs     []uuid.UUID
	SegmentIDs    []uuid.UUID
	CompetitorIDs []uuid.UUID
	SocialLinkIDs []uuid.UUID
	Swot          Swot
	Description   string
	Objectives    []Objective
	Strategy      Strategy
}

// NewCampaignPlan creates an empty plan for a client
func NewCampaignPlan(number string, clientID, createdBy uuid.UUID) (*CampaignPlan, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewValidationError("plan_id", "is required")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewValidationError("client_id", "is required")
	}
	return &CampaignPlan{
		AuthoredAggregateRoot: shared.NewAuthoredAggregateRoot(createdBy),
		Number:                number,
		ClientID:              clientID,
		BranchIDs:             []uuid.UUID{},
		SegmentIDs:            []uuid.UUID{},
		CompetitorIDs:         []uuid.UUID{},
		SocialLinkIDs:         []uuid.UUID{},
		Objectives:            []Objective{},
		Strategy:              Strategy{Timeline: []TimelineEntry{}},
	}, nil
}

// GetClientID returns the owning client
func (p *CampaignPlan) GetClientID() uuid.UUID {
	return p.ClientID
}

// ChangeClient moves the plan to another client. The caller revalidates every
// scoped reference against the new client.
func (p *CampaignPlan) ChangeClient(clientID uuid.UUID) error {
	if clientID == uuid.Nil {
		return shared.NewValidationError("client_id", "is required")
	}
	p.ClientID = clientID
	return nil
}

// SetReferences replaces the scoped references. Nil slices are stored empty.
func (p *CampaignPlan) SetReferences(branches, segments, competitors []uuid.UUID) {
	p.BranchIDs = nonNilIDs(branches)
	p.SegmentIDs = nonNilIDs(segments)
	p.CompetitorIDs = nonNilIDs(competitors)
}

// SetSocialLinks replaces the social accounts the plan runs on
func (p *CampaignPlan) SetSocialLinks(ids []uuid.UUID) {
	p.SocialLinkIDs = nonNilIDs(ids)
}

// SetObjectives replaces the objectives. Each needs both names.
func (p *CampaignPlan) SetObjectives(objectives []Objective) error {
	for i, o := range objectives {
		if strings.TrimSpace(o.Name) == "" || strings.TrimSpace(o.NameAr) == "" {
			return shared.NewValidationError(fmt.Sprintf("objectives[%d]", i), "name and ar are required")
		}
	}
	if objectives == nil {
		objectives = []Objective{}
	}
	p.Objectives = objectives
	return nil
}

// SetStrategy replaces the strategy
func (p *CampaignPlan) SetStrategy(s Strategy) error {
	if s.Budget.IsNegative() {
		return shared.NewValidationError("strategy.budget", "cannot be negative")
	}
	if s.Timeline == nil {
		s.Timeline = []TimelineEntry{}
	}
	p.Strategy = s
	return nil
}

func nonNilIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
