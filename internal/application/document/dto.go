package document

import (
	"time"

	"github.com/agency/planner/internal/domain/document"
	"github.com/agency/planner/internal/domain/pricing"
	"github.com/agency/planner/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Line DTOs ====================

// CustomServiceInput describes an ad-hoc priced line
type CustomServiceInput struct {
	ID           string          `json:"id"`
	En           string          `json:"en" binding:"max=200"`
	Ar           string          `json:"ar" binding:"max=200"`
	Price        decimal.Decimal `json:"price"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType string          `json:"discount_type" binding:"omitempty,discount_kind"`
}

// LinesInput is the full description of a document's priced lines
type LinesInput struct {
	Services        []uuid.UUID                   `json:"services"`
	Packages        []uuid.UUID                   `json:"packages"`
	ServicesPricing map[uuid.UUID]decimal.Decimal `json:"services_pricing"`
	CustomServices  []CustomServiceInput          `json:"custom_services" binding:"dive"`
	DiscountValue   decimal.Decimal               `json:"discount_value"`
	DiscountType    string                        `json:"discount_type" binding:"omitempty,discount_kind"`
	OverriddenTotal *decimal.Decimal              `json:"overridden_total"`
}

// LinesPatch changes some of a document's lines. Fields left out keep their
// stored value; overridden_total: null removes the override.
type LinesPatch struct {
	Services        Optional[[]uuid.UUID]                   `json:"services"`
	Packages        Optional[[]uuid.UUID]                   `json:"packages"`
	ServicesPricing Optional[map[uuid.UUID]decimal.Decimal] `json:"services_pricing"`
	CustomServices  Optional[[]CustomServiceInput]          `json:"custom_services"`
	DiscountValue   Optional[decimal.Decimal]               `json:"discount_value"`
	DiscountType    Optional[string]                        `json:"discount_type"`
	OverriddenTotal Optional[decimal.Decimal]               `json:"overridden_total"`
}

// touchesLines reports whether any field that changes the lines was sent
func (p LinesPatch) touchesLines() bool {
	return p.Services.Set || p.Packages.Set || p.ServicesPricing.Set ||
		p.CustomServices.Set || p.DiscountValue.Set || p.DiscountType.Set
}

// mergeInto returns the lines of current with the patch applied
func (p LinesPatch) mergeInto(current *document.Pricing) LinesInput {
	in := linesInputFrom(current)
	if p.Services.Set {
		in.Services = p.Services.Or(nil)
	}
	if p.Packages.Set {
		in.Packages = p.Packages.Or(nil)
	}
	if p.ServicesPricing.Set {
		in.ServicesPricing = p.ServicesPricing.Or(nil)
	}
	if p.CustomServices.Set {
		in.CustomServices = p.CustomServices.Or(nil)
	}
	if p.DiscountValue.Set {
		in.DiscountValue = p.DiscountValue.Or(decimal.Zero)
	}
	if p.DiscountType.Set {
		in.DiscountType = p.DiscountType.Or("")
	}
	in.OverriddenTotal = p.OverriddenTotal.Apply(current.OverriddenTotal)
	return in
}

func linesInputFrom(p *document.Pricing) LinesInput {
	in := LinesInput{
		Services:        p.CatalogIDs(pricing.KindService),
		Packages:        p.CatalogIDs(pricing.KindPackage),
		ServicesPricing: make(map[uuid.UUID]decimal.Decimal),
		CustomServices:  make([]CustomServiceInput, 0, len(p.CustomLines)),
		DiscountValue:   p.DocumentDiscount.Value(),
		DiscountType:    string(p.DocumentDiscount.Kind()),
		OverriddenTotal: p.OverriddenTotal,
	}
	for _, l := range p.Lines {
		if l.Overridden {
			in.ServicesPricing[l.RefID] = l.UnitPrice
		}
	}
	for _, l := range p.CustomLines {
		in.CustomServices = append(in.CustomServices, CustomServiceInput{
			ID:           l.ID,
			En:           l.Label.En,
			Ar:           l.Label.Ar,
			Price:        l.UnitPrice,
			Discount:     l.Discount.Value(),
			DiscountType: string(l.Discount.Kind()),
		})
	}
	return in
}

// LineResponse is one priced catalog line
type LineResponse struct {
	Kind         string          `json:"kind"`
	RefID        uuid.UUID       `json:"ref_id"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType string          `json:"discount_type"`
	Net          decimal.Decimal `json:"net"`
	Overridden   bool            `json:"overridden"`
}

// CustomLineResponse is one priced custom line
type CustomLineResponse struct {
	ID           string          `json:"id"`
	En           string          `json:"en"`
	Ar           string          `json:"ar"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType string          `json:"discount_type"`
	Net          decimal.Decimal `json:"net"`
}

// PricingResponse is the priced part of every document response
type PricingResponse struct {
	Lines             []LineResponse       `json:"lines"`
	CustomServices    []CustomLineResponse `json:"custom_services"`
	DiscountValue     decimal.Decimal      `json:"discount_value"`
	DiscountType      string               `json:"discount_type"`
	Subtotal          decimal.Decimal      `json:"subtotal"`
	Total             decimal.Decimal      `json:"total"`
	OverriddenTotal   *decimal.Decimal     `json:"overridden_total,omitempty"`
	IsTotalOverridden bool                 `json:"is_total_overridden"`
}

// ToPricingResponse converts document pricing to its response form
func ToPricingResponse(p *document.Pricing) PricingResponse {
	resp := PricingResponse{
		Lines:             make([]LineResponse, len(p.Lines)),
		CustomServices:    make([]CustomLineResponse, len(p.CustomLines)),
		DiscountValue:     p.DocumentDiscount.Value(),
		DiscountType:      string(p.DocumentDiscount.Kind()),
		Subtotal:          p.Subtotal,
		Total:             p.Total,
		OverriddenTotal:   p.OverriddenTotal,
		IsTotalOverridden: p.IsTotalOverridden,
	}
	for i, l := range p.Lines {
		resp.Lines[i] = LineResponse{
			Kind:         string(l.Kind),
			RefID:        l.RefID,
			UnitPrice:    l.UnitPrice,
			Discount:     l.Discount.Value(),
			DiscountType: string(l.Discount.Kind()),
			Net:          pricing.Net(l),
			Overridden:   l.Overridden,
		}
	}
	for i, l := range p.CustomLines {
		resp.CustomServices[i] = CustomLineResponse{
			ID:           l.ID,
			En:           l.Label.En,
			Ar:           l.Label.Ar,
			UnitPrice:    l.UnitPrice,
			Discount:     l.Discount.Value(),
			DiscountType: string(l.Discount.Kind()),
			Net:          pricing.Net(l),
		}
	}
	return resp
}

// ListFilter represents query parameters for document listings
type ListFilter struct {
	Search   string     `form:"search"`
	ClientID *uuid.UUID `form:"-"`
	Status   string     `form:"status"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ListResponse is a page of documents
type ListResponse[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// ==================== Quotation DTOs ====================

// CreateQuotationRequest represents a request to create a quotation
type CreateQuotationRequest struct {
	ClientID   *uuid.UUID `json:"client_id"`
	ClientName string     `json:"client_name" binding:"max=200"`
	LinesInput
	Note       string     `json:"note" binding:"max=2000"`
	ValidUntil *time.Time `json:"valid_until"`
}

// UpdateQuotationRequest changes a quotation. Absent fields are kept;
// client_id: null unlinks the client.
type UpdateQuotationRequest struct {
	ClientID   Optional[uuid.UUID] `json:"client_id"`
	ClientName Optional[string]    `json:"client_name"`
	LinesPatch
	Status     Optional[string]    `json:"status"`
	Note       Optional[string]    `json:"note"`
	ValidUntil Optional[time.Time] `json:"valid_until"`
}

// ConvertToContractRequest carries what a quotation lacks to become a contract
type ConvertToContractRequest struct {
	StartDate      time.Time `json:"start_date" binding:"required"`
	EndDate        time.Time `json:"end_date" binding:"required"`
	ContractBody   string    `json:"contract_body"`
	ContractBodyAr string    `json:"contract_body_ar"`
	ClientNameAr   string    `json:"client_name_ar"`
}

// QuotationResponse represents a quotation in API responses
type QuotationResponse struct {
	ID              uuid.UUID  `json:"id"`
	QuotationNumber string     `json:"quotation_number"`
	ClientID        *uuid.UUID `json:"client_id,omitempty"`
	ClientName      string     `json:"client_name,omitempty"`
	Status          string     `json:"status"`
	PricingResponse
	Note       string     `json:"note,omitempty"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`
	CreatedBy  uuid.UUID  `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Version    int        `json:"version"`
}

// ToQuotationResponse converts a domain quotation to a response
func ToQuotationResponse(q *document.Quotation) QuotationResponse {
	return QuotationResponse{
		ID:              q.ID,
		QuotationNumber: q.Number,
		ClientID:        q.ClientID,
		ClientName:      q.ClientName,
		Status:          string(q.Status),
		PricingResponse: ToPricingResponse(&q.Pricing),
		Note:            q.Note,
		ValidUntil:      q.ValidUntil,
		CreatedBy:       q.CreatedBy,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
		Version:         q.Version,
	}
}

// ==================== Campaign Plan DTOs ====================

// ObjectiveInput is one bilingual plan objective
type ObjectiveInput struct {
	Name          string `json:"name" binding:"required"`
	NameAr        string `json:"name_ar" binding:"required"`
	Description   string `json:"description"`
	DescriptionAr string `json:"description_ar"`
}

// TimelineInput is one phase of a plan strategy
type TimelineInput struct {
	Start       string `json:"timeline_start"`
	End         string `json:"timeline_end"`
	ObjectiveEn string `json:"objective_en"`
	ObjectiveAr string `json:"objective_ar"`
}

// StrategyInput is a plan's budget and timeline
type StrategyInput struct {
	Budget        decimal.Decimal `json:"budget"`
	Timeline      []TimelineInput `json:"timeline"`
	Description   string          `json:"description"`
	DescriptionAr string          `json:"description_ar"`
}

// SwotInput holds the four SWOT lists
type SwotInput struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// CreateCampaignPlanRequest represents a request to create a campaign plan
type CreateCampaignPlanRequest struct {
	ClientID    uuid.UUID        `json:"client_id" binding:"required"`
	Branches    []uuid.UUID      `json:"branches"`
	Segments    []uuid.UUID      `json:"segments"`
	Competitors []uuid.UUID      `json:"competitors"`
	SocialLinks []uuid.UUID      `json:"social_links"`
	Swot        SwotInput        `json:"swot"`
	Description string           `json:"description"`
	Objectives  []ObjectiveInput `json:"objectives" binding:"dive"`
	Strategy    StrategyInput    `json:"strategy"`
	LinesInput
}

// UpdateCampaignPlanRequest changes a campaign plan. Absent fields are kept.
type UpdateCampaignPlanRequest struct {
	ClientID    Optional[uuid.UUID]        `json:"client_id"`
	Branches    Optional[[]uuid.UUID]      `json:"branches"`
	Segments    Optional[[]uuid.UUID]      `json:"segments"`
	Competitors Optional[[]uuid.UUID]      `json:"competitors"`
	SocialLinks Optional[[]uuid.UUID]      `json:"social_links"`
	Swot        Optional[SwotInput]        `json:"swot"`
	Description Optional[string]           `json:"description"`
	Objectives  Optional[[]ObjectiveInput] `json:"objectives"`
	Strategy    Optional[StrategyInput]    `json:"strategy"`
	LinesPatch
}

// CampaignPlanResponse represents a campaign plan in API responses
type CampaignPlanResponse struct {
	ID          uuid.UUID        `json:"id"`
	PlanNumber  string           `json:"plan_number"`
	ClientID    uuid.UUID        `json:"client_id"`
	Branches    []uuid.UUID      `json:"branches"`
	Segments    []uuid.UUID      `json:"segments"`
	Competitors []uuid.UUID      `json:"competitors"`
	SocialLinks []uuid.UUID      `json:"social_links"`
	Swot        SwotInput        `json:"swot"`
	Description string           `json:"description,omitempty"`
	Objectives  []ObjectiveInput `json:"objectives"`
	Strategy    StrategyInput    `json:"strategy"`
	PricingResponse
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// ToCampaignPlanResponse converts a domain campaign plan to a response
func ToCampaignPlanResponse(p *document.CampaignPlan) CampaignPlanResponse {
	objectives := make([]ObjectiveInput, len(p.Objectives))
	for i, o := range p.Objectives {
		objectives[i] = ObjectiveInput(o)
	}
	timeline := make([]TimelineInput, len(p.Strategy.Timeline))
	for i, t := range p.Strategy.Timeline {
		timeline[i] = TimelineInput(t)
	}
	return CampaignPlanResponse{
		ID:          p.ID,
		PlanNumber:  p.Number,
		ClientID:    p.ClientID,
		Branches:    p.BranchIDs,
		Segments:    p.SegmentIDs,
		Competitors: p.CompetitorIDs,
		SocialLinks: p.SocialLinkIDs,
		Swot:        SwotInput(p.Swot),
		Description: p.Description,
		Objectives:  objectives,
		Strategy: StrategyInput{
			Budget:        p.Strategy.Budget,
			Timeline:      timeline,
			Description:   p.Strategy.Description,
			DescriptionAr: p.Strategy.DescriptionAr,
		},
		PricingResponse: ToPricingResponse(&p.Pricing),
		CreatedBy:       p.CreatedBy,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		Version:         p.Version,
	}
}

func toObjectives(in []ObjectiveInput) []document.Objective {
	out := make([]document.Objective, len(in))
	for i, o := range in {
		out[i] = document.Objective(o)
	}
	return out
}

func toStrategy(in StrategyInput) document.Strategy {
	timeline := make([]document.TimelineEntry, len(in.Timeline))
	for i, t := range in.Timeline {
		timeline[i] = document.TimelineEntry(t)
	}
	return document.Strategy{
		Budget:        in.Budget,
		Timeline:      timeline,
		Description:   in.Description,
		DescriptionAr: in.DescriptionAr,
	}
}

// ==================== Contract DTOs ====================

// TermInput is one contract term as sent by clients
type TermInput struct {
	ID            uuid.UUID  `json:"id"`
	Order         int        `json:"order"`
	IsCustom      bool       `json:"is_custom"`
	TermID        *uuid.UUID `json:"term"`
	CustomKey     string     `json:"custom_key"`
	CustomKeyAr   string     `json:"custom_key_ar"`
	CustomValue   string     `json:"custom_value"`
	CustomValueAr string     `json:"custom_value_ar"`
}

func (t TermInput) toEntry() document.TermEntry {
	return document.TermEntry(t)
}

// ReplaceTermsRequest replaces every term of a contract
type ReplaceTermsRequest struct {
	Terms []TermInput `json:"terms"`
}

// ReorderTermsRequest moves existing terms to new orders
type ReorderTermsRequest struct {
	Terms []document.OrderChange `json:"terms" binding:"required,min=1"`
}

// CreateContractRequest represents a request to create a contract
type CreateContractRequest struct {
	ClientID       uuid.UUID   `json:"client_id" binding:"required"`
	ClientName     string      `json:"client_name" binding:"max=200"`
	ClientNameAr   string      `json:"client_name_ar" binding:"max=200"`
	QuotationID    *uuid.UUID  `json:"quotation_id"`
	CampaignPlanID *uuid.UUID  `json:"campaign_plan_id"`
	LinesInput
	Terms          []TermInput `json:"terms"`
	StartDate      time.Time   `json:"start_date" binding:"required"`
	EndDate        time.Time   `json:"end_date" binding:"required"`
	ContractBody   string      `json:"contract_body"`
	ContractBodyAr string      `json:"contract_body_ar"`
	Note           string      `json:"note"`
}

// UpdateContractRequest changes a contract. Absent fields are kept.
type UpdateContractRequest struct {
	ClientID       Optional[uuid.UUID] `json:"client_id"`
	ClientName     Optional[string]    `json:"client_name"`
	ClientNameAr   Optional[string]    `json:"client_name_ar"`
	QuotationID    Optional[uuid.UUID] `json:"quotation_id"`
	CampaignPlanID Optional[uuid.UUID] `json:"campaign_plan_id"`
	LinesPatch
	StartDate      Optional[time.Time] `json:"start_date"`
	EndDate        Optional[time.Time] `json:"end_date"`
	ContractBody   Optional[string]    `json:"contract_body"`
	ContractBodyAr Optional[string]    `json:"contract_body_ar"`
	Note           Optional[string]    `json:"note"`
}

// SignContractRequest optionally names the signature date
type SignContractRequest struct {
	SignedDate *time.Time `json:"signed_date"`
}

// CancelContractRequest carries the cancellation reason
type CancelContractRequest struct {
	Reason string `json:"reason" binding:"max=2000"`
}

// RenewContractRequest starts a new contract period
type RenewContractRequest struct {
	StartDate time.Time        `json:"start_date" binding:"required"`
	EndDate   time.Time        `json:"end_date" binding:"required"`
	Value     *decimal.Decimal `json:"value"`
}

// TermResponse is a contract term in API responses
type TermResponse = TermInput

// ContractResponse represents a contract in API responses
type ContractResponse struct {
	ID             uuid.UUID  `json:"id"`
	ContractNumber string     `json:"contract_number"`
	ClientID       uuid.UUID  `json:"client_id"`
	ClientName     string     `json:"client_name,omitempty"`
	ClientNameAr   string     `json:"client_name_ar,omitempty"`
	QuotationID    *uuid.UUID `json:"quotation_id,omitempty"`
	CampaignPlanID *uuid.UUID `json:"campaign_plan_id,omitempty"`
	PricingResponse
	Value          decimal.Decimal `json:"value"`
	Terms          []TermResponse  `json:"terms"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	ContractBody   string          `json:"contract_body,omitempty"`
	ContractBodyAr string          `json:"contract_body_ar,omitempty"`
	Status         string          `json:"status"`
	SignedDate     *time.Time      `json:"signed_date,omitempty"`
	Note           string          `json:"note,omitempty"`
	CreatedBy      uuid.UUID       `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// ToContractResponse converts a domain contract to a response. Terms are
// rendered in order.
func ToContractResponse(c *document.Contract) ContractResponse {
	sorted := c.Terms.Sorted()
	terms := make([]TermResponse, len(sorted))
	for i, t := range sorted {
		terms[i] = TermResponse(t)
	}
	return ContractResponse{
		ID:              c.ID,
		ContractNumber:  c.Number,
		ClientID:        c.ClientID,
		ClientName:      c.ClientName,
		ClientNameAr:    c.ClientNameAr,
		QuotationID:     c.QuotationID,
		CampaignPlanID:  c.CampaignPlanID,
		PricingResponse: ToPricingResponse(&c.Pricing),
		Value:           c.Value(),
		Terms:           terms,
		StartDate:       c.Period.Start,
		EndDate:         c.Period.End,
		ContractBody:    c.Body,
		ContractBodyAr:  c.BodyAr,
		Status:          string(c.Status),
		SignedDate:      c.SignedDate,
		Note:            c.Note,
		CreatedBy:       c.CreatedBy,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Version:         c.Version,
	}
}

func toDiscount(field string, value decimal.Decimal, kind string) (valueobject.Discount, error) {
	d, err := valueobject.NewDiscount(value, valueobject.DiscountKind(kind))
	if err != nil {
		return valueobject.Discount{}, newFieldError(field, err)
	}
	return d, nil
}
