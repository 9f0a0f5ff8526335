package handler

import (
	docapp "github.com/agency/planner/internal/application/document"
	"github.com/agency/planner/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// QuotationHandler handles quotation endpoints
type QuotationHandler struct {
	BaseHandler
	quotationService *docapp.QuotationService
}

// NewQuotationHandler creates a new QuotationHandler
func NewQuotationHandler(quotationService *docapp.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// Create godoc
// @Summary      Create a quotation
// @Description  Prices the requested services, packages and custom lines and assigns a QUO-YYYY-NNNN number
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        request body docapp.CreateQuotationRequest true "Quotation"
// @Success      201 {object} dto.Response{data=docapp.QuotationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	var req docapp.CreateQuotationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	quotation, err := h.quotationService.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, quotation)
}

// GetByID godoc
// @Summary      Get a quotation
// @Tags         quotations
// @Produce      json
// @Param        id path string true "Quotation ID" format(uuid)
// @Success      200 {object} dto.Response{data=docapp.QuotationResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations/{id} [get]
func (h *QuotationHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	quotation, err := h.quotationService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// List godoc
// @Summary      List quotations
// @Tags         quotations
// @Produce      json
// @Param        client_id query string false "Client ID" format(uuid)
// @Param        status query string false "Status" Enums(draft, sent, approved, rejected)
// @Success      200 {object} dto.Response{data=[]docapp.QuotationResponse}
// @Security     BearerAuth
// @Router       /quotations [get]
func (h *QuotationHandler) List(c *gin.Context) {
	filter, ok := bindDocumentFilter(&h.BaseHandler, c)
	if !ok {
		return
	}

	result, err := h.quotationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @Summary      Update a quotation
// @Description  Absent fields are kept; client_id: null unlinks the client
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        id path string true "Quotation ID" format(uuid)
// @Param        request body docapp.UpdateQuotationRequest true "Changed fields"
// @Success      200 {object} dto.Response{data=docapp.QuotationResponse}
// @Security     BearerAuth
// @Router       /quotations/{id} [put]
func (h *QuotationHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req docapp.UpdateQuotationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	quotation, err := h.quotationService.Update(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// Delete godoc
// @Summary      Delete a quotation
// @Tags         quotations
// @Param        id path string true "Quotation ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /quotations/{id} [delete]
func (h *QuotationHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.quotationService.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ConvertToContract godoc
// @Summary      Convert a quotation into a contract
// @Description  Copies client, lines and totals into a new contract and approves the quotation
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        id path string true "Quotation ID" format(uuid)
// @Param        request body docapp.ConvertToContractRequest true "Contract period and body"
// @Success      201 {object} dto.Response{data=docapp.ContractResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations/{id}/convert-to-contract [post]
func (h *QuotationHandler) ConvertToContract(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req docapp.ConvertToContractRequest
	if !h.BindJSON(c, &req) {
		return
	}

	contract, err := h.quotationService.ConvertToContract(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, contract)
}

// bindDocumentFilter binds the list query shared by the document endpoints
func bindDocumentFilter(h *BaseHandler, c *gin.Context) (docapp.ListFilter, bool) {
	var filter docapp.ListFilter
	if !h.BindQuery(c, &filter) {
		return filter, false
	}
	clientID, ok := h.QueryUUID(c, "client_id")
	filter.ClientID = clientID
	return filter, ok
}
