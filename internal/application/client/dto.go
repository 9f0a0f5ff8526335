package client

import (
	"time"

	"github.com/agency/planner/internal/domain/client"
	"github.com/google/uuid"
)

// ==================== Client DTOs ====================

// CreateClientRequest represents a request to create a client
type CreateClientRequest struct {
	BusinessName string `json:"business_name" binding:"required,max=200"`
	ContactName  string `json:"contact_name" binding:"max=200"`
	Email        string `json:"email" binding:"omitempty,email"`
	Phone        string `json:"phone" binding:"max=50"`
	Notes        string `json:"notes" binding:"max=2000"`
}

// UpdateClientRequest represents a request to update a client.
// Nil fields keep their stored value.
type UpdateClientRequest struct {
	BusinessName *string `json:"business_name" binding:"omitempty,max=200"`
	ContactName  *string `json:"contact_name" binding:"omitempty,max=200"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Phone        *string `json:"phone" binding:"omitempty,max=50"`
	Notes        *string `json:"notes" binding:"omitempty,max=2000"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID           uuid.UUID `json:"id"`
	BusinessName string    `json:"business_name"`
	ContactName  string    `json:"contact_name,omitempty"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

// ToClientResponse converts a domain client to a response
func ToClientResponse(c *client.Client) ClientResponse {
	return ClientResponse{
		ID:           c.ID,
		BusinessName: c.BusinessName,
		ContactName:  c.ContactName,
		Email:        c.Email,
		Phone:        c.Phone,
		Notes:        c.Notes,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		Version:      c.Version,
	}
}

// ClientListFilter represents query parameters for listing clients
type ClientListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ScopedListFilter represents query parameters for listing a client's entities
type ScopedListFilter struct {
	ClientID uuid.UUID `form:"-"`
	Search   string    `form:"search"`
	Page     int       `form:"page" binding:"omitempty,min=1"`
	PageSize int       `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ListResponse is a page of items
type ListResponse[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// ==================== Scoped entity DTOs ====================

// SegmentRequest represents a request to create or replace a segment
type SegmentRequest struct {
	ClientID    *uuid.UUID `json:"client_id"`
	En          string     `json:"en" binding:"max=200"`
	Ar          string     `json:"ar" binding:"max=200"`
	Description string     `json:"description" binding:"max=2000"`
}

// SegmentResponse represents a segment in API responses
type SegmentResponse struct {
	ID          uuid.UUID `json:"id"`
	ClientID    uuid.UUID `json:"client_id"`
	En          string    `json:"en"`
	Ar          string    `json:"ar"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CompetitorRequest represents a request to create or replace a competitor
type CompetitorRequest struct {
	ClientID *uuid.UUID `json:"client_id"`
	Name     string     `json:"name" binding:"required,max=200"`
	Website  string     `json:"website" binding:"omitempty,url"`
	Notes    string     `json:"notes" binding:"max=2000"`
}

// CompetitorResponse represents a competitor in API responses
type CompetitorResponse struct {
	ID        uuid.UUID `json:"id"`
	ClientID  uuid.UUID `json:"client_id"`
	Name      string    `json:"name"`
	Website   string    `json:"website,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BranchRequest represents a request to create or replace a branch
type BranchRequest struct {
	ClientID *uuid.UUID `json:"client_id"`
	En       string     `json:"en" binding:"max=200"`
	Ar       string     `json:"ar" binding:"max=200"`
	Address  string     `json:"address" binding:"max=500"`
	City     string     `json:"city" binding:"max=100"`
	Phone    string     `json:"phone" binding:"max=50"`
}

// BranchResponse represents a branch in API responses
type BranchResponse struct {
	ID        uuid.UUID `json:"id"`
	ClientID  uuid.UUID `json:"client_id"`
	En        string    `json:"en"`
	Ar        string    `json:"ar"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SocialLinkRequest represents a request to create or replace a social link
type SocialLinkRequest struct {
	ClientID     *uuid.UUID `json:"client_id"`
	Platform     string     `json:"platform" binding:"required,max=50"`
	PlatformName string     `json:"platform_name" binding:"max=200"`
	URL          string     `json:"url" binding:"required,url,max=500"`
	Type         string     `json:"type" binding:"omitempty,oneof=business personal"`
}

// SocialLinkResponse represents a social link in API responses
type SocialLinkResponse struct {
	ID           uuid.UUID `json:"id"`
	ClientID     uuid.UUID `json:"client_id"`
	Platform     string    `json:"platform"`
	PlatformName string    `json:"platform_name,omitempty"`
	URL          string    `json:"url"`
	Type         string    `json:"type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToSegmentResponse converts a domain segment to a response
func ToSegmentResponse(s *client.Segment) SegmentResponse {
	return SegmentResponse{
		ID:          s.ID,
		ClientID:    s.ClientID,
		En:          s.Name.En,
		Ar:          s.Name.Ar,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToCompetitorResponse converts a domain competitor to a response
func ToCompetitorResponse(c *client.Competitor) CompetitorResponse {
	return CompetitorResponse{
		ID:        c.ID,
		ClientID:  c.ClientID,
		Name:      c.Name,
		Website:   c.Website,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToBranchResponse converts a domain branch to a response
func ToBranchResponse(b *client.Branch) BranchResponse {
	return BranchResponse{
		ID:        b.ID,
		ClientID:  b.ClientID,
		En:        b.Name.En,
		Ar:        b.Name.Ar,
		Address:   b.Address,
		City:      b.City,
		Phone:     b.Phone,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// ToSocialLinkResponse converts a domain social link to a response
func ToSocialLinkResponse(l *client.SocialLink) SocialLinkResponse {
	return SocialLinkResponse{
		ID:           l.ID,
		ClientID:     l.ClientID,
		Platform:     l.Platform,
		PlatformName: l.PlatformName,
		URL:          l.URL,
		Type:         string(l.Type),
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}
