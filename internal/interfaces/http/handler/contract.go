package handler

import (
	docapp "github.com/agency/planner/internal/application/document"
	"github.com/agency/planner/internal/domain/audit"
	"github.com/agency/planner/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContractHandler handles contract endpoints
type ContractHandler struct {
	BaseHandler
	contractService *docapp.ContractService
}

// NewContractHandler creates a new ContractHandler
func NewContractHandler(contractService *docapp.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

// Create godoc
// @Summary      Create a contract
// @Description  Prices the lines, composes the terms and assigns a CON-YYYY-NNNN number
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        request body docapp.CreateContractRequest true "Contract"
// @Success      201 {object} dto.Response{data=docapp.ContractResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /contracts [post]
func (h *ContractHandler) Create(c *gin.Context) {
	var req docapp.CreateContractRequest
	if !h.BindJSON(c, &req) {
		return
	}

	contract, err := h.contractService.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, contract)
}

// GetByID godoc
// @Summary      Get a contract
// @Tags         contracts
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Success      200 {object} dto.Response{data=docapp.ContractResponse}
// @Security     BearerAuth
// @Router       /contracts/{id} [get]
func (h *ContractHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	contract, err := h.contractService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// List godoc
// @Summary      List contracts
// @Tags         contracts
// @Produce      json
// @Param        client_id query string false "Client ID" format(uuid)
// @Param        status query string false "Status" Enums(draft, signed, active, completed, cancelled)
// @Success      200 {object} dto.Response{data=[]docapp.ContractResponse}
// @Security     BearerAuth
// @Router       /contracts [get]
func (h *ContractHandler) List(c *gin.Context) {
	filter, ok := bindDocumentFilter(&h.BaseHandler, c)
	if !ok {
		return
	}

	result, err := h.contractService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @Summary      Update a contract
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Param        request body docapp.UpdateContractRequest true "Changed fields"
// @Success      200 {object} dto.Response{data=docapp.ContractResponse}
// @Security     BearerAuth
// @Router       /contracts/{id} [put]
func (h *ContractHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req docapp.UpdateContractRequest
	if !h.BindJSON(c, &req) {
		return
	}

	contract, err := h.contractService.Update(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// Delete godoc
// @Summary      Delete a contract
// @Tags         contracts
// @Param        id path string true "Contract ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /contracts/{id} [delete]
func (h *ContractHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.contractService.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ReplaceTerms godoc
// @Summary      Replace all contract terms
// @Description  Unordered entries are numbered after the highest explicit order
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Param        request body docapp.ReplaceTermsRequest true "Terms"
// @Success      200 {object} dto.Response{data=docapp.ContractResponse}
// @Security     BearerAuth
// @Router       /contracts/{id}/terms [put]
func (h *ContractHandler) ReplaceTerms(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req docapp.ReplaceTermsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	contract, err := h.contractService.ReplaceTerms(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// AppendTerm godoc
// @Summary      Append a term to a contract
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Param        request body docapp.TermInput true "Term"
// @Success      200 {object} dto.Response{data=docapp.ContractResponse}
// @Security     BearerAuth
// @Router       /contracts/{id}/terms [post]
func (h *ContractHandler) AppendTerm(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req docapp.TermInput
	if !h.BindJSON(c, &req) {
		return
	}

	contract, err := h.contractService.AppendTerm(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// ReorderTerms godoc
// @Summary      Reorder contract terms
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Param        request body docapp.ReorderTermsRequest true "Order changes"
// @Success      200 {object} dto.Response{data=docapp.ContractResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /contracts/{id}/terms/reorder [patch]
func (h *ContractHandler) ReorderTerms(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req docapp.ReorderTermsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	contract, err := h.contractService.ReorderTerms(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// Sign godoc
// @Summary      Sign a draft contract
// @Description  signed_date defaults to today
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Param        request body docapp.SignContractRequest false "Signing date"
// @Success      200 {object} dto.Response{data=docapp.ContractResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /contracts/{id}/sign [patch]
func (h *ContractHandler) Sign(c *gin.Context) {
	var req docapp.SignContractRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	h.transition(c, func(actor audit.Actor, id uuid.UUID) (*docapp.ContractResponse, error) {
		return h.contractService.Sign(c.Request.Context(), actor, id, req)
	})
}

// Activate godoc
// @Summary      Activate a signed contract
// @Tags         contracts
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Success      200 {object} dto.Response{data=docapp.ContractResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /contracts/{id}/activate [patch]
func (h *ContractHandler) Activate(c *gin.Context) {
	h.transition(c, func(actor audit.Actor, id uuid.UUID) (*docapp.ContractResponse, error) {
		return h.contractService.Activate(c.Request.Context(), actor, id)
	})
}

// Complete godoc
// @Summary      Complete an active contract
// @Tags         contracts
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Success      200 {object} dto.Response{data=docapp.ContractResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /contracts/{id}/complete [patch]
func (h *ContractHandler) Complete(c *gin.Context) {
	h.transition(c, func(actor audit.Actor, id uuid.UUID) (*docapp.ContractResponse, error) {
		return h.contractService.Complete(c.Request.Context(), actor, id)
	})
}

// Cancel godoc
// @Summary      Cancel a contract
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Param        request body docapp.CancelContractRequest false "Reason"
// @Success      200 {object} dto.Response{data=docapp.ContractResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /contracts/{id}/cancel [patch]
func (h *ContractHandler) Cancel(c *gin.Context) {
	var req docapp.CancelContractRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	h.transition(c, func(actor audit.Actor, id uuid.UUID) (*docapp.ContractResponse, error) {
		return h.contractService.Cancel(c.Request.Context(), actor, id, req)
	})
}

// Renew godoc
// @Summary      Renew a contract
// @Description  Moves the contract to a new period, optionally with a new value
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Param        request body docapp.RenewContractRequest true "New period"
// @Success      200 {object} dto.Response{data=docapp.ContractResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /contracts/{id}/renew [post]
func (h *ContractHandler) Renew(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req docapp.RenewContractRequest
	if !h.BindJSON(c, &req) {
		return
	}

	contract, err := h.contractService.Renew(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

func (h *ContractHandler) transition(c *gin.Context, fn func(audit.Actor, uuid.UUID) (*docapp.ContractResponse, error)) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	contract, err := fn(middleware.Actor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// bindOptionalJSON binds the body when one was sent
func (h *ContractHandler) bindOptionalJSON(c *gin.Context, obj any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return h.BindJSON(c, obj)
}
