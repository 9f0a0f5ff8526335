package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/agency/planner/internal/application/bulk"
	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/infrastructure/logger"
	"github.com/agency/planner/internal/interfaces/http/dto"
	"github.com/agency/planner/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	return c.GetString(middleware.RequestIDContextKey)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// bulkCreated sends 201 with a batch result, failure codes in the API format
func bulkCreated[T any](h *BaseHandler, c *gin.Context, result *bulk.Result[T]) {
	for i := range result.Failed {
		result.Failed[i].Code = dto.NormalizeErrorCode(result.Failed[i].Code)
	}
	h.Created(c, result)
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ErrorWithCode sends an error response, deriving the status from the code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.errorWithDetails(c, code, message, nil)
}

func (h *BaseHandler) errorWithDetails(c *gin.Context, code, message string, details any) {
	c.Set(middleware.ErrorCodeContextKey, code)
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithDetails(code, message, getRequestID(c), details))
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context) {
	h.ErrorWithCode(c, dto.ErrCodeInternal, "An unexpected error occurred")
}

// ValidationError sends a 400 validation error response with field details
func (h *BaseHandler) ValidationError(c *gin.Context, message string, fields []dto.ValidationDetail) {
	c.Set(middleware.ErrorCodeContextKey, dto.ErrCodeValidation)
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(message, getRequestID(c), fields))
}

// BindJSON binds the request body, answering 400 on failure
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.bindError(c, err)
		return false
	}
	return true
}

// BindQuery binds query parameters, answering 400 on failure
func (h *BaseHandler) BindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.bindError(c, err)
		return false
	}
	return true
}

func (h *BaseHandler) bindError(c *gin.Context, err error) {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		h.ErrorWithCode(c, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
		return
	}
	if fields := middleware.ValidationDetails(err); fields != nil {
		h.ValidationError(c, "Request validation failed", fields)
		return
	}
	h.ValidationError(c, "Malformed request: "+err.Error(), nil)
}

// ParseID reads a UUID path parameter, answering 400 when it is malformed
func (h *BaseHandler) ParseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		h.ValidationError(c, "Invalid "+param, []dto.ValidationDetail{{Field: param, Message: "Invalid UUID format"}})
		return uuid.Nil, false
	}
	return id, true
}

// QueryUUID reads an optional UUID query parameter. A malformed value
// answers 400 and returns ok=false.
func (h *BaseHandler) QueryUUID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		h.ValidationError(c, "Invalid "+key, []dto.ValidationDetail{{Field: key, Message: "Invalid UUID format"}})
		return nil, false
	}
	return &id, true
}

// HandleError maps an application error onto the response envelope.
// Typed errors contribute their offending ids or field to error.details.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var (
		validationErr  *shared.ValidationError
		scopeErr       *shared.ScopeError
		notFoundErr    *shared.NotFoundError
		crossTenantErr *shared.CrossTenantError
		invalidRefErr  *shared.InvalidReferenceError
		noMatchErr     *shared.NoMatchingTermsError
		storageErr     *shared.StorageError
		domainErr      *shared.DomainError
	)

	switch {
	case errors.As(err, &validationErr):
		fields := []dto.ValidationDetail{{Field: validationErr.Field, Message: validationErr.Reason}}
		if validationErr.Field == "" {
			fields = nil
		}
		h.ValidationError(c, validationErr.Error(), fields)

	case errors.As(err, &scopeErr):
		h.scopeError(c, collectScopeErrors(err))

	case errors.As(err, &notFoundErr):
		h.errorWithDetails(c, dto.ErrCodeReferenceNotFound, notFoundErr.Error(), dto.ReferenceDetails{
			Kind:    notFoundErr.Kind,
			Missing: idStrings(notFoundErr.IDs),
		})

	case errors.As(err, &crossTenantErr):
		h.errorWithDetails(c, dto.ErrCodeCrossTenant, crossTenantErr.Error(), dto.ReferenceDetails{
			Kind:        crossTenantErr.Kind,
			CrossTenant: idStrings(crossTenantErr.IDs),
		})

	case errors.As(err, &invalidRefErr):
		h.errorWithDetails(c, dto.ErrCodeInvalidReference, invalidRefErr.Error(), dto.ReferenceDetails{
			Kind:    invalidRefErr.Kind,
			Missing: []string{invalidRefErr.ID.String()},
		})

	case errors.As(err, &noMatchErr):
		h.errorWithDetails(c, dto.ErrCodeNoMatchingTerms, noMatchErr.Error(), dto.ReferenceDetails{
			Kind:    "terms",
			Missing: idStrings(noMatchErr.IDs),
		})

	case errors.As(err, &storageErr):
		logger.FromContext(c.Request.Context()).Error("Storage failure",
			zap.String("op", storageErr.Op),
			zap.Error(storageErr.Err))
		h.ErrorWithCode(c, dto.ErrCodeStorage, "A storage error occurred")

	case errors.As(err, &domainErr):
		// Typed errors not matched above still carry a useful message
		h.ErrorWithCode(c, dto.NormalizeErrorCode(domainErr.Code), err.Error())

	default:
		logger.FromContext(c.Request.Context()).Error("Unhandled error", zap.Error(err))
		h.InternalError(c)
	}
}

// scopeError reports every failing kind. A single kind keeps the object form
// of error.details; several kinds produce one details entry per kind.
func (h *BaseHandler) scopeError(c *gin.Context, errs []*shared.ScopeError) {
	code := dto.ErrCodeCrossTenant
	messages := make([]string, len(errs))
	details := make([]dto.ReferenceDetails, len(errs))
	for i, e := range errs {
		if e.Missing != nil {
			code = dto.ErrCodeReferenceNotFound
		}
		messages[i] = e.Error()
		details[i] = dto.ReferenceDetails{
			Kind:        e.Kind,
			Missing:     idStrings(e.MissingIDs()),
			CrossTenant: idStrings(e.CrossTenantIDs()),
		}
	}
	if len(details) == 1 {
		h.errorWithDetails(c, code, messages[0], details[0])
		return
	}
	h.errorWithDetails(c, code, strings.Join(messages, "; "), details)
}

// collectScopeErrors walks err, including joined errors, and returns every
// ScopeError in it in order.
func collectScopeErrors(err error) []*shared.ScopeError {
	if err == nil {
		return nil
	}
	if scopeErr, ok := err.(*shared.ScopeError); ok {
		return []*shared.ScopeError{scopeErr}
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		var out []*shared.ScopeError
		for _, e := range u.Unwrap() {
			out = append(out, collectScopeErrors(e)...)
		}
		return out
	case interface{ Unwrap() error }:
		return collectScopeErrors(u.Unwrap())
	}
	return nil
}

func idStrings(ids []uuid.UUID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
