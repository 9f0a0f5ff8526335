package client

import (
	"net/mail"
	"strings"

	"github.com/agency/planner/internal/domain/shared"
)

// Client is the tenant every scoped entity and priced document belongs to
type Client struct {
	shared.BaseAggregateRoot
	BusinessName string
	ContactName  string
	Email        string
	Phone        string
	Notes        string
}

// NewClient creates a client. A business name is required.
func NewClient(businessName, contactName string) (*Client, error) {
	c := &Client{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := c.Update(businessName, contactName); err != nil {
		return nil, err
	}
	c.Version = 1
	return c, nil
}

// Update changes the client names
func (c *Client) Update(businessName, contactName string) error {
	businessName = strings.TrimSpace(businessName)
	if businessName == "" {
		return shared.NewValidationError("business_name", "is required")
	}
	if len(businessName) > 200 {
		return shared.NewValidationError("business_name", "cannot exceed 200 characters")
	}
	c.BusinessName = businessName
	c.ContactName = strings.TrimSpace(contactName)
	c.Touch()
	c.IncrementVersion()
	return nil
}

// SetContact sets email and phone. An empty email is allowed.
func (c *Client) SetContact(email, phone string) error {
	email = strings.TrimSpace(email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewValidationError("email", "is not a valid address")
		}
	}
	c.Email = email
	c.Phone = strings.TrimSpace(phone)
	c.Touch()
	return nil
}
