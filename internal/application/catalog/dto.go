package catalog

import (
	"time"

	"github.com/agency/planner/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Service DTOs ====================

// CreateServiceRequest represents a request to create a catalog service
type CreateServiceRequest struct {
	En           string          `json:"en" binding:"required,max=200"`
	Ar           string          `json:"ar" binding:"required,max=200"`
	Description  string          `json:"description" binding:"max=2000"`
	Category     string          `json:"category" binding:"omitempty,oneof=photography web reels other"`
	Price        decimal.Decimal `json:"price"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType string          `json:"discount_type" binding:"omitempty,discount_kind"`
	IsGlobal     bool            `json:"is_global"`
	ClientID     *uuid.UUID      `json:"client_id"`
}

// UpdateServiceRequest represents a request to update a catalog service.
// Nil fields keep their stored value.
type UpdateServiceRequest struct {
	En           *string          `json:"en" binding:"omitempty,max=200"`
	Ar           *string          `json:"ar" binding:"omitempty,max=200"`
	Description  *string          `json:"description" binding:"omitempty,max=2000"`
	Category     *string          `json:"category" binding:"omitempty,oneof=photography web reels other"`
	Price        *decimal.Decimal `json:"price"`
	Discount     *decimal.Decimal `json:"discount"`
	DiscountType *string          `json:"discount_type" binding:"omitempty,discount_kind"`
	IsGlobal     *bool            `json:"is_global"`
	ClientID     *uuid.UUID       `json:"client_id"`
}

// ServiceListFilter represents query parameters for listing services
type ServiceListFilter struct {
	Search   string     `form:"search"`
	Category string     `form:"category" binding:"omitempty,oneof=photography web reels other"`
	ClientID *uuid.UUID `form:"-"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ServiceResponse represents a catalog service in API responses
type ServiceResponse struct {
	ID           uuid.UUID       `json:"id"`
	En           string          `json:"en"`
	Ar           string          `json:"ar"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType string          `json:"discount_type"`
	IsGlobal     bool            `json:"is_global"`
	ClientID     *uuid.UUID      `json:"client_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// ToServiceResponse converts a domain service to a response
func ToServiceResponse(s *catalog.Service) ServiceResponse {
	return ServiceResponse{
		ID:           s.ID,
		En:           s.Name.En,
		Ar:           s.Name.Ar,
		Description:  s.Description,
		Category:     string(s.Category),
		Price:        s.Price,
		Discount:     s.Discount.Value(),
		DiscountType: string(s.Discount.Kind()),
		IsGlobal:     s.IsGlobal,
		ClientID:     s.ClientID,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		Version:      s.Version,
	}
}

// ==================== Package DTOs ====================

// FeatureInput is one bullet of a package
type FeatureInput struct {
	En       string `json:"en" binding:"required"`
	Ar       string `json:"ar" binding:"required"`
	Quantity string `json:"quantity"`
}

// PackageRequest represents a request to create or replace a package
type PackageRequest struct {
	En           string          `json:"en" binding:"required,max=200"`
	Ar           string          `json:"ar" binding:"required,max=200"`
	Price        decimal.Decimal `json:"price"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType string          `json:"discount_type" binding:"omitempty,discount_kind"`
	Features     []FeatureInput  `json:"features" binding:"dive"`
	Services     []uuid.UUID     `json:"services"`
	IsActive     *bool           `json:"is_active"`
}

// PackageListFilter represents query parameters for listing packages
type PackageListFilter struct {
	Search     string `form:"search"`
	ActiveOnly bool   `form:"active_only"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// PackageResponse represents a package in API responses
type PackageResponse struct {
	ID           uuid.UUID       `json:"id"`
	En           string          `json:"en"`
	Ar           string          `json:"ar"`
	Price        decimal.Decimal `json:"price"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType string          `json:"discount_type"`
	Features     []FeatureInput  `json:"features"`
	Services     []uuid.UUID     `json:"services"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// ToPackageResponse converts a domain package to a response
func ToPackageResponse(p *catalog.Package) PackageResponse {
	features := make([]FeatureInput, len(p.Features))
	for i, f := range p.Features {
		features[i] = FeatureInput(f)
	}
	return PackageResponse{
		ID:           p.ID,
		En:           p.Name.En,
		Ar:           p.Name.Ar,
		Price:        p.Price,
		Discount:     p.Discount.Value(),
		DiscountType: string(p.Discount.Kind()),
		Features:     features,
		Services:     p.ServiceIDs,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// ==================== Contract Term DTOs ====================

// TermRequest represents a request to create or replace a contract term
type TermRequest struct {
	Key     string `json:"key" binding:"required,max=200"`
	KeyAr   string `json:"key_ar" binding:"required,max=200"`
	Value   string `json:"value"`
	ValueAr string `json:"value_ar"`
}

// TermResponse represents a contract term in API responses
type TermResponse struct {
	ID        uuid.UUID `json:"id"`
	Key       string    `json:"key"`
	KeyAr     string    `json:"key_ar"`
	Value     string    `json:"value"`
	ValueAr   string    `json:"value_ar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToTermResponse converts a domain term to a response
func ToTermResponse(t *catalog.ContractTerm) TermResponse {
	return TermResponse{
		ID:        t.ID,
		Key:       t.Key,
		KeyAr:     t.KeyAr,
		Value:     t.Value,
		ValueAr:   t.ValueAr,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// PageFilter represents plain pagination query parameters
type PageFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ListResponse is a page of catalog items
type ListResponse[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}
