package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/agency/planner/internal/domain/pricing"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractStatus represents the status of a contract
type ContractStatus string

const (
	ContractDraft     ContractStatus = "draft"
	ContractActive    ContractStatus = "active"
	ContractCompleted ContractStatus = "completed"
	ContractCancelled ContractStatus = "cancelled"
	ContractRenewed   ContractStatus = "renewed"
)

// IsValid checks if the status is a valid ContractStatus
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractDraft, ContractActive, ContractCompleted, ContractCancelled, ContractRenewed:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s ContractStatus) CanTransitionTo(target ContractStatus) bool {
	switch s {
	case ContractDraft:
		return target == ContractActive || target == ContractCancelled
	case ContractActive:
		return target == ContractCompleted || target == ContractCancelled || target == ContractRenewed
	case ContractRenewed:
		return target == ContractActive || target == ContractCompleted || target == ContractCancelled || target == ContractRenewed
	case ContractCompleted:
		return target == ContractRenewed
	case ContractCancelled:
		return false
	}
	return false
}

// Period is the validity window of a contract; End is after Start
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod validates that end is after start
func NewPeriod(start, end time.Time) (Period, error) {
	if start.IsZero() || end.IsZero() {
		return Period{}, shared.NewValidationError("start_date", "startDate and endDate are required")
	}
	if !end.After(start) {
		return Period{}, shared.NewValidationError("end_date", "must be after startDate")
	}
	return Period{Start: start, End: end}, nil
}

// Contract is the agreement signed with a client. Its value is the priced total.
type Contract struct {
	shared.AuthoredAggregateRoot
	Pricing
	Number         string
	ClientID       uuid.UUID
	ClientName     string
	ClientNameAr   string
	QuotationID    *uuid.UUID
	CampaignPlanID *uuid.UUID
	Terms          Terms
	Period         Period
	Body           string
	BodyAr         string
	Status         ContractStatus
	SignedDate     *time.Time
	Note           string
}

// NewContract creates a draft contract for a client
func NewContract(number string, clientID, createdBy uuid.UUID, period Period) (*Contract, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewValidationError("contract_number", "is required")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewValidationError("client_id", "is required")
	}
	return &Contract{
		AuthoredAggregateRoot: shared.NewAuthoredAggregateRoot(createdBy),
		Number:                number,
		ClientID:              clientID,
		Period:                period,
		Terms:                 Terms{},
		Status:                ContractDraft,
	}, nil
}

// NewContractFromQuotation creates a contract carrying the quotation's client,
// lines and totals. The quotation must be linked to a client.
func NewContractFromQuotation(number string, q *Quotation, createdBy uuid.UUID, period Period) (*Contract, error) {
	if q.ClientID == nil {
		return nil, shared.NewValidationError("client_id", "quotation has no client to contract with")
	}
	c, err := NewContract(number, *q.ClientID, createdBy, period)
	if err != nil {
		return nil, err
	}
	qid := q.ID
	c.QuotationID = &qid
	c.ClientName = q.ClientName
	c.Pricing = q.CopyPricing()
	c.Note = q.Note
	return c, nil
}

// GetClientID returns the owning client
func (c *Contract) GetClientID() uuid.UUID {
	return c.ClientID
}

// Value returns the contract value, which is its total
func (c *Contract) Value() decimal.Decimal {
	return c.Total
}

// SetSources records the documents the contract was drawn from
func (c *Contract) SetSources(quotationID, campaignPlanID *uuid.UUID) {
	c.QuotationID = quotationID
	c.CampaignPlanID = campaignPlanID
}

// ValidateSources requires a quotation, a campaign plan or a package line
func (c *Contract) ValidateSources() error {
	if c.QuotationID != nil || c.CampaignPlanID != nil {
		return nil
	}
	if len(c.CatalogIDs(pricing.KindPackage)) > 0 {
		return nil
	}
	return shared.NewValidationError("source", "at least one of packageId, campaignPlanId, or quotationId is required")
}

// SetTerms replaces the whole term list
func (c *Contract) SetTerms(terms Terms) {
	if terms == nil {
		terms = Terms{}
	}
	c.Terms = terms
	c.Touch()
}

// Sign records the signature date, defaulting to now
func (c *Contract) Sign(at *time.Time) error {
	if c.Status == ContractCancelled {
		return shared.NewDomainError(shared.ErrInvalidTransition.Code, "Cannot sign a cancelled contract")
	}
	signed := time.Now()
	if at != nil {
		signed = *at
	}
	c.SignedDate = &signed
	c.Touch()
	return nil
}

// Activate moves the contract to active
func (c *Contract) Activate() error {
	return c.moveTo(ContractActive)
}

// Complete moves the contract to completed
func (c *Contract) Complete() error {
	return c.moveTo(ContractCompleted)
}

// Cancel moves the contract to cancelled, keeping the reason as its note
func (c *Contract) Cancel(reason string) error {
	if err := c.moveTo(ContractCancelled); err != nil {
		return err
	}
	c.Note = strings.TrimSpace(reason)
	return nil
}

// Renew starts a new period. A non-nil value replaces the total as a manual override.
func (c *Contract) Renew(period Period, value *decimal.Decimal) error {
	if !c.Status.CanTransitionTo(ContractRenewed) {
		return c.transitionError(ContractRenewed)
	}
	if value != nil {
		if err := c.SetOverride(value); err != nil {
			return err
		}
	}
	c.Period = period
	c.Status = ContractRenewed
	c.Touch()
	return nil
}

func (c *Contract) moveTo(target ContractStatus) error {
	if !c.Status.CanTransitionTo(target) {
		return c.transitionError(target)
	}
	c.Status = target
	c.Touch()
	return nil
}

func (c *Contract) transitionError(target ContractStatus) error {
	return shared.NewDomainError(shared.ErrInvalidTransition.Code,
		fmt.Sprintf("Cannot move contract from %s to %s", c.Status, target))
}
