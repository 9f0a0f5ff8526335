package handler

import (
	clientapp "github.com/agency/planner/internal/application/client"
	"github.com/agency/planner/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ClientHandler handles client endpoints
type ClientHandler struct {
	BaseHandler
	clientService *clientapp.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *clientapp.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// Create godoc
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        request body clientapp.CreateClientRequest true "Client"
// @Success      201 {object} dto.Response{data=clientapp.ClientResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req clientapp.CreateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, client)
}

// GetByID godoc
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Success      200 {object} dto.Response{data=clientapp.ClientResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /clients/{id} [get]
func (h *ClientHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// List godoc
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Param        search query string false "Search in business or contact name"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]clientapp.ClientResponse}
// @Security     BearerAuth
// @Router       /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	var filter clientapp.ClientListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	result, err := h.clientService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id path string true "Client ID" format(uuid)
// @Param        request body clientapp.UpdateClientRequest true "Changed fields"
// @Success      200 {object} dto.Response{data=clientapp.ClientResponse}
// @Security     BearerAuth
// @Router       /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req clientapp.UpdateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Delete godoc
// @Summary      Delete a client
// @Tags         clients
// @Param        id path string true "Client ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.clientService.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ScopedHandler serves the entities owned by one client: segments,
// competitors, branches and social links share it.
type ScopedHandler[T, Req, Resp any] struct {
	BaseHandler
	service *clientapp.ScopedService[T, Req, Resp]
}

// NewScopedHandler creates a handler over a client-scoped service
func NewScopedHandler[T, Req, Resp any](service *clientapp.ScopedService[T, Req, Resp]) *ScopedHandler[T, Req, Resp] {
	return &ScopedHandler[T, Req, Resp]{service: service}
}

// Create adds an entity to the client named in the body
func (h *ScopedHandler[T, Req, Resp]) Create(c *gin.Context) {
	var req Req
	if !h.BindJSON(c, &req) {
		return
	}

	entity, err := h.service.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entity)
}

// BulkCreate adds a batch of entities; each item names its client
func (h *ScopedHandler[T, Req, Resp]) BulkCreate(c *gin.Context) {
	var reqs []Req
	if !h.BindJSON(c, &reqs) {
		return
	}

	result, err := h.service.BulkCreate(c.Request.Context(), middleware.Actor(c), reqs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	bulkCreated(&h.BaseHandler, c, result)
}

// GetByID returns one entity
func (h *ScopedHandler[T, Req, Resp]) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	entity, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entity)
}

// List pages one client's entities; client_id is required
func (h *ScopedHandler[T, Req, Resp]) List(c *gin.Context) {
	var filter clientapp.ScopedListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	clientID, ok := h.QueryUUID(c, "client_id")
	if !ok {
		return
	}
	if clientID != nil {
		filter.ClientID = *clientID
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update replaces an entity's details
func (h *ScopedHandler[T, Req, Resp]) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req Req
	if !h.BindJSON(c, &req) {
		return
	}

	entity, err := h.service.Update(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entity)
}

// Delete soft-deletes an entity
func (h *ScopedHandler[T, Req, Resp]) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
