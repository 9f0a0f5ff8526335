package handler

import (
	auditapp "github.com/agency/planner/internal/application/audit"
	"github.com/gin-gonic/gin"
)

// AuditHandler exposes the audit trail
type AuditHandler struct {
	BaseHandler
	auditService *auditapp.Service
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *auditapp.Service) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List godoc
// @Summary      List audit entries
// @Description  Newest first. Admin only.
// @Tags         audit
// @Produce      json
// @Param        entity_type query string false "Entity type"
// @Param        entity_id query string false "Entity ID" format(uuid)
// @Param        user_id query string false "User ID" format(uuid)
// @Param        page query int false "Page" minimum(1)
// @Param        page_size query int false "Page size" minimum(1) maximum(100)
// @Success      200 {object} dto.Response{data=[]auditapp.EntryResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	var filter auditapp.ListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	var ok bool
	if filter.EntityID, ok = h.QueryUUID(c, "entity_id"); !ok {
		return
	}
	if filter.UserID, ok = h.QueryUUID(c, "user_id"); !ok {
		return
	}

	result, err := h.auditService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}
