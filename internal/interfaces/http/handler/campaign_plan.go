package handler

import (
	docapp "github.com/agency/planner/internal/application/document"
	"github.com/agency/planner/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CampaignPlanHandler handles campaign plan endpoints
type CampaignPlanHandler struct {
	BaseHandler
	planService *docapp.CampaignPlanService
}

// NewCampaignPlanHandler creates a new CampaignPlanHandler
func NewCampaignPlanHandler(planService *docapp.CampaignPlanService) *CampaignPlanHandler {
	return &CampaignPlanHandler{planService: planService}
}

// Create godoc
// @Summary      Create a campaign plan
// @Description  Branches, segments and competitors must belong to the plan's client
// @Tags         campaign-plans
// @Accept       json
// @Produce      json
// @Param        request body docapp.CreateCampaignPlanRequest true "Campaign plan"
// @Success      201 {object} dto.Response{data=docapp.CampaignPlanResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /campaign-plans [post]
func (h *CampaignPlanHandler) Create(c *gin.Context) {
	var req docapp.CreateCampaignPlanRequest
	if !h.BindJSON(c, &req) {
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, plan)
}

// GetByID godoc
// @Summary      Get a campaign plan
// @Tags         campaign-plans
// @Produce      json
// @Param        id path string true "Campaign plan ID" format(uuid)
// @Success      200 {object} dto.Response{data=docapp.CampaignPlanResponse}
// @Security     BearerAuth
// @Router       /campaign-plans/{id} [get]
func (h *CampaignPlanHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// List godoc
// @Summary      List campaign plans
// @Tags         campaign-plans
// @Produce      json
// @Param        client_id query string false "Client ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]docapp.CampaignPlanResponse}
// @Security     BearerAuth
// @Router       /campaign-plans [get]
func (h *CampaignPlanHandler) List(c *gin.Context) {
	filter, ok := bindDocumentFilter(&h.BaseHandler, c)
	if !ok {
		return
	}

	result, err := h.planService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @Summary      Update a campaign plan
// @Tags         campaign-plans
// @Accept       json
// @Produce      json
// @Param        id path string true "Campaign plan ID" format(uuid)
// @Param        request body docapp.UpdateCampaignPlanRequest true "Changed fields"
// @Success      200 {object} dto.Response{data=docapp.CampaignPlanResponse}
// @Security     BearerAuth
// @Router       /campaign-plans/{id} [put]
func (h *CampaignPlanHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req docapp.UpdateCampaignPlanRequest
	if !h.BindJSON(c, &req) {
		return
	}

	plan, err := h.planService.Update(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// Delete godoc
// @Summary      Delete a campaign plan
// @Tags         campaign-plans
// @Param        id path string true "Campaign plan ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /campaign-plans/{id} [delete]
func (h *CampaignPlanHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.planService.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
