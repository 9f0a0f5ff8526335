package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/agency/planner/internal/domain/shared"
	"github.com/google/uuid"
)

// QuotationStatus represents the status of a quotation
type QuotationStatus string

const (
	QuotationDraft    QuotationStatus = "draft"
	QuotationSent     QuotationStatus = "sent"
	QuotationApproved QuotationStatus = "approved"
	QuotationRejected QuotationStatus = "rejected"
)

// IsValid checks if the status is a valid QuotationStatus
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationDraft, QuotationSent, QuotationApproved, QuotationRejected:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s QuotationStatus) CanTransitionTo(target QuotationStatus) bool {
	if s == target {
		return true
	}
	switch s {
	case QuotationDraft:
		return target == QuotationSent || target == QuotationApproved || target == QuotationRejected
	case QuotationSent:
		return target == QuotationDraft || target == QuotationApproved || target == QuotationRejected
	case QuotationRejected:
		return target == QuotationDraft
	case QuotationApproved:
		return false
	}
	return false
}

// Quotation is a priced offer to a client. The client is either a known
// client (ClientID) or a free-text name for prospects (ClientName); never both.
type Quotation struct {
	shared.AuthoredAggregateRoot
	Pricing
	Number     string
	ClientID   *uuid.UUID
	ClientName string
	Status     QuotationStatus
	Note       string
	ValidUntil *time.Time
}

// NewQuotation creates a draft quotation with no lines
func NewQuotation(number string, createdBy uuid.UUID) (*Quotation, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewValidationError("quotation_number", "is required")
	}
	return &Quotation{
		AuthoredAggregateRoot: shared.NewAuthoredAggregateRoot(createdBy),
		Number:                number,
		Status:                QuotationDraft,
	}, nil
}

// SetClient links the quotation to a known client and clears the free-text name.
// A nil id unlinks the client.
func (q *Quotation) SetClient(clientID *uuid.UUID) {
	if clientID == nil || *clientID == uuid.Nil {
		q.ClientID = nil
		return
	}
	id := *clientID
	q.ClientID = &id
	q.ClientName = ""
}

// SetClientName records a prospect name and unlinks any known client
func (q *Quotation) SetClientName(name string) {
	q.ClientName = strings.TrimSpace(name)
	q.ClientID = nil
}

// GetClientID returns the linked client, or uuid.Nil for prospects
func (q *Quotation) GetClientID() uuid.UUID {
	if q.ClientID == nil {
		return uuid.Nil
	}
	return *q.ClientID
}

// SetDetails sets note and validity
func (q *Quotation) SetDetails(note string, validUntil *time.Time) {
	q.Note = strings.TrimSpace(note)
	q.ValidUntil = validUntil
}

// ChangeStatus moves the quotation to another status
func (q *Quotation) ChangeStatus(target QuotationStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("status", fmt.Sprintf("unknown status %q", target))
	}
	if !q.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.ErrInvalidTransition.Code,
			fmt.Sprintf("Cannot move quotation from %s to %s", q.Status, target))
	}
	q.Status = target
	q.Touch()
	return nil
}

// Approve marks the quotation approved. An approved quotation cannot be
// approved or converted again.
func (q *Quotation) Approve() error {
	if q.Status == QuotationApproved {
		return shared.NewDomainError(shared.ErrInvalidTransition.Code, "Quotation is already approved")
	}
	return q.ChangeStatus(QuotationApproved)
}
