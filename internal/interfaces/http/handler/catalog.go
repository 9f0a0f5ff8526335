package handler

import (
	catalogapp "github.com/agency/planner/internal/application/catalog"
	"github.com/agency/planner/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CatalogHandler handles services, packages and reusable contract terms
type CatalogHandler struct {
	BaseHandler
	services *catalogapp.ServiceCatalogService
	packages *catalogapp.PackageService
	terms    *catalogapp.TermService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(
	services *catalogapp.ServiceCatalogService,
	packages *catalogapp.PackageService,
	terms *catalogapp.TermService,
) *CatalogHandler {
	return &CatalogHandler{services: services, packages: packages, terms: terms}
}

// ==================== Services ====================

// CreateService godoc
// @Summary      Create a catalog service
// @Description  A global service has no client; a client-owned service must name one
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateServiceRequest true "Service"
// @Success      201 {object} dto.Response{data=catalogapp.ServiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /services [post]
func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req catalogapp.CreateServiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	svc, err := h.services.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, svc)
}

// GetService godoc
// @Summary      Get a catalog service
// @Tags         services
// @Produce      json
// @Param        id path string true "Service ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ServiceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /services/{id} [get]
func (h *CatalogHandler) GetService(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	svc, err := h.services.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, svc)
}

// ListServices godoc
// @Summary      List catalog services
// @Description  With client_id, returns global services plus that client's own
// @Tags         services
// @Produce      json
// @Param        client_id query string false "Client ID" format(uuid)
// @Param        category query string false "Category" Enums(photography, web, reels, other)
// @Success      200 {object} dto.Response{data=[]catalogapp.ServiceResponse}
// @Security     BearerAuth
// @Router       /services [get]
func (h *CatalogHandler) ListServices(c *gin.Context) {
	var filter catalogapp.ServiceListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	var ok bool
	if filter.ClientID, ok = h.QueryUUID(c, "client_id"); !ok {
		return
	}

	result, err := h.services.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UpdateService godoc
// @Summary      Update a catalog service
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        id path string true "Service ID" format(uuid)
// @Param        request body catalogapp.UpdateServiceRequest true "Changed fields"
// @Success      200 {object} dto.Response{data=catalogapp.ServiceResponse}
// @Security     BearerAuth
// @Router       /services/{id} [put]
func (h *CatalogHandler) UpdateService(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateServiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	svc, err := h.services.Update(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, svc)
}

// DeleteService godoc
// @Summary      Delete a catalog service
// @Tags         services
// @Param        id path string true "Service ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /services/{id} [delete]
func (h *CatalogHandler) DeleteService(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.services.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ==================== Packages ====================

// CreatePackage godoc
// @Summary      Create a package
// @Tags         packages
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.PackageRequest true "Package"
// @Success      201 {object} dto.Response{data=catalogapp.PackageResponse}
// @Security     BearerAuth
// @Router       /packages [post]
func (h *CatalogHandler) CreatePackage(c *gin.Context) {
	var req catalogapp.PackageRequest
	if !h.BindJSON(c, &req) {
		return
	}

	pkg, err := h.packages.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, pkg)
}

// GetPackage godoc
// @Summary      Get a package
// @Tags         packages
// @Produce      json
// @Param        id path string true "Package ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.PackageResponse}
// @Security     BearerAuth
// @Router       /packages/{id} [get]
func (h *CatalogHandler) GetPackage(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	pkg, err := h.packages.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pkg)
}

// ListPackages godoc
// @Summary      List packages
// @Tags         packages
// @Produce      json
// @Param        active_only query bool false "Only active packages"
// @Success      200 {object} dto.Response{data=[]catalogapp.PackageResponse}
// @Security     BearerAuth
// @Router       /packages [get]
func (h *CatalogHandler) ListPackages(c *gin.Context) {
	var filter catalogapp.PackageListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	result, err := h.packages.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UpdatePackage godoc
// @Summary      Replace a package
// @Tags         packages
// @Accept       json
// @Produce      json
// @Param        id path string true "Package ID" format(uuid)
// @Param        request body catalogapp.PackageRequest true "Package"
// @Success      200 {object} dto.Response{data=catalogapp.PackageResponse}
// @Security     BearerAuth
// @Router       /packages/{id} [put]
func (h *CatalogHandler) UpdatePackage(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.PackageRequest
	if !h.BindJSON(c, &req) {
		return
	}

	pkg, err := h.packages.Update(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pkg)
}

// DeletePackage godoc
// @Summary      Delete a package
// @Tags         packages
// @Param        id path string true "Package ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /packages/{id} [delete]
func (h *CatalogHandler) DeletePackage(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.packages.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ==================== Contract terms ====================

// CreateTerm godoc
// @Summary      Create a reusable contract term
// @Tags         contract-terms
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.TermRequest true "Term"
// @Success      201 {object} dto.Response{data=catalogapp.TermResponse}
// @Security     BearerAuth
// @Router       /contract-terms [post]
func (h *CatalogHandler) CreateTerm(c *gin.Context) {
	var req catalogapp.TermRequest
	if !h.BindJSON(c, &req) {
		return
	}

	term, err := h.terms.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, term)
}

// BulkCreateTerms godoc
// @Summary      Create several contract terms
// @Description  Each term is created on its own; failed items are listed by index
// @Tags         contract-terms
// @Accept       json
// @Produce      json
// @Param        request body []catalogapp.TermRequest true "Terms, at most 50"
// @Success      201 {object} dto.Response{data=bulk.Result[catalogapp.TermResponse]}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /contract-terms/bulk [post]
func (h *CatalogHandler) BulkCreateTerms(c *gin.Context) {
	var reqs []catalogapp.TermRequest
	if !h.BindJSON(c, &reqs) {
		return
	}

	result, err := h.terms.BulkCreate(c.Request.Context(), middleware.Actor(c), reqs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	bulkCreated(&h.BaseHandler, c, result)
}

// GetTerm godoc
// @Summary      Get a contract term
// @Tags         contract-terms
// @Produce      json
// @Param        id path string true "Term ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.TermResponse}
// @Security     BearerAuth
// @Router       /contract-terms/{id} [get]
func (h *CatalogHandler) GetTerm(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	term, err := h.terms.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, term)
}

// ListTerms godoc
// @Summary      List contract terms
// @Tags         contract-terms
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.TermResponse}
// @Security     BearerAuth
// @Router       /contract-terms [get]
func (h *CatalogHandler) ListTerms(c *gin.Context) {
	var filter catalogapp.PageFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	result, err := h.terms.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UpdateTerm godoc
// @Summary      Replace a contract term
// @Tags         contract-terms
// @Accept       json
// @Produce      json
// @Param        id path string true "Term ID" format(uuid)
// @Param        request body catalogapp.TermRequest true "Term"
// @Success      200 {object} dto.Response{data=catalogapp.TermResponse}
// @Security     BearerAuth
// @Router       /contract-terms/{id} [put]
func (h *CatalogHandler) UpdateTerm(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.TermRequest
	if !h.BindJSON(c, &req) {
		return
	}

	term, err := h.terms.Update(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, term)
}

// DeleteTerm godoc
// @Summary      Delete a contract term
// @Tags         contract-terms
// @Param        id path string true "Term ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /contract-terms/{id} [delete]
func (h *CatalogHandler) DeleteTerm(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.terms.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
