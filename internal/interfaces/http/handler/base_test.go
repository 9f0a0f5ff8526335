package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agency/planner/internal/domain/shared"
	"github.com/agency/planner/internal/interfaces/http/dto"
	"github.com/agency/planner/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code      string                 `json:"code"`
		Message   string                 `json:"message"`
		RequestID string                 `json:"request_id"`
		Details   dto.ReferenceDetails   `json:"details"`
		Fields    []dto.ValidationDetail `json:"fields"`
	} `json:"error"`
}

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	c.Set(middleware.RequestIDContextKey, "req-123")
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	assert.False(t, body.Success)
	return body
}

func TestHandleError(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMissing []string
		wantForeign []string
	}{
		{
			name:       "validation",
			err:        shared.NewValidationError("client_id", "is required"),
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeValidation,
		},
		{
			name: "scope with missing ids",
			err: &shared.ScopeError{Kind: "segments",
				Missing: &shared.NotFoundError{Kind: "segments", IDs: []uuid.UUID{a}}},
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    dto.ErrCodeReferenceNotFound,
			wantMissing: []string{a.String()},
		},
		{
			name: "scope with foreign ids only",
			err: &shared.ScopeError{Kind: "branches",
				CrossTenant: &shared.CrossTenantError{Kind: "branches", IDs: []uuid.UUID{b}}},
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    dto.ErrCodeCrossTenant,
			wantForeign: []string{b.String()},
		},
		{
			name: "scope with both classes reports not found",
			err: fmt.Errorf("create plan: %w", &shared.ScopeError{Kind: "segments",
				Missing:     &shared.NotFoundError{Kind: "segments", IDs: []uuid.UUID{a}},
				CrossTenant: &shared.CrossTenantError{Kind: "segments", IDs: []uuid.UUID{b}}}),
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    dto.ErrCodeReferenceNotFound,
			wantMissing: []string{a.String()},
			wantForeign: []string{b.String()},
		},
		{
			name:        "cross tenant service",
			err:         &shared.CrossTenantError{Kind: "services", IDs: []uuid.UUID{a}},
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    dto.ErrCodeCrossTenant,
			wantForeign: []string{a.String()},
		},
		{
			name:        "invalid catalog reference",
			err:         &shared.InvalidReferenceError{Kind: "packages", ID: a},
			wantStatus:  http.StatusBadRequest,
			wantCode:    dto.ErrCodeInvalidReference,
			wantMissing: []string{a.String()},
		},
		{
			name:        "no matching terms",
			err:         &shared.NoMatchingTermsError{IDs: []uuid.UUID{a, b}},
			wantStatus:  http.StatusNotFound,
			wantCode:    dto.ErrCodeNoMatchingTerms,
			wantMissing: []string{a.String(), b.String()},
		},
		{
			name:       "duplicate term order",
			err:        &shared.DuplicateOrderError{Order: 2},
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeDuplicateOrder,
		},
		{
			name:       "invalid custom term",
			err:        &shared.InvalidCustomTermError{Index: 1, Reason: "custom_key is required"},
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeInvalidCustomTerm,
		},
		{
			name:       "invalid client",
			err:        fmt.Errorf("%w: %s", shared.ErrInvalidClient, a),
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeInvalidClient,
		},
		{
			name:       "not found",
			err:        shared.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeNotFound,
		},
		{
			name:       "invalid transition",
			err:        shared.NewDomainError(shared.ErrInvalidTransition.Code, "cannot sign an active contract"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   dto.ErrCodeInvalidTransition,
		},
		{
			name:       "locked account",
			err:        shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked"),
			wantStatus: http.StatusLocked,
			wantCode:   dto.ErrCodeAccountLocked,
		},
		{
			name:       "storage",
			err:        shared.NewStorageError("save quotation", errors.New("disk full")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeStorage,
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodPost, "/", "")
			h := &BaseHandler{}

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, "req-123", body.Error.RequestID)
			assert.Equal(t, tt.wantMissing, body.Error.Details.Missing)
			assert.Equal(t, tt.wantForeign, body.Error.Details.CrossTenant)
			assert.Equal(t, tt.wantCode, c.GetString(middleware.ErrorCodeContextKey))
		})
	}
}

func TestHandleError_ScopeErrorsFromSeveralKinds(t *testing.T) {
	seg, comp, branch := uuid.New(), uuid.New(), uuid.New()
	joined := fmt.Errorf("create plan: %w", errors.Join(
		&shared.ScopeError{Kind: "segments",
			Missing: &shared.NotFoundError{Kind: "segments", IDs: []uuid.UUID{seg}}},
		nil,
		&shared.ScopeError{Kind: "competitors",
			CrossTenant: &shared.CrossTenantError{Kind: "competitors", IDs: []uuid.UUID{comp}}},
		&shared.ScopeError{Kind: "branches",
			CrossTenant: &shared.CrossTenantError{Kind: "branches", IDs: []uuid.UUID{branch}}},
	))

	c, w := newTestContext(http.MethodPost, "/", "")
	(&BaseHandler{}).HandleError(c, joined)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body struct {
		Error struct {
			Code    string                 `json:"code"`
			Message string                 `json:"message"`
			Details []dto.ReferenceDetails `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	assert.Equal(t, dto.ErrCodeReferenceNotFound, body.Error.Code)
	assert.Contains(t, body.Error.Message, seg.String())
	assert.Contains(t, body.Error.Message, comp.String())
	assert.Contains(t, body.Error.Message, branch.String())
	assert.Equal(t, []dto.ReferenceDetails{
		{Kind: "segments", Missing: []string{seg.String()}},
		{Kind: "competitors", CrossTenant: []string{comp.String()}},
		{Kind: "branches", CrossTenant: []string{branch.String()}},
	}, body.Error.Details)
}

func TestHandleError_ValidationFields(t *testing.T) {
	c, w := newTestContext(http.MethodPost, "/", "")
	(&BaseHandler{}).HandleError(c, shared.NewValidationError("end_date", "must be after start_date"))

	body := decodeError(t, w)
	assert.Equal(t, []dto.ValidationDetail{{Field: "end_date", Message: "must be after start_date"}}, body.Error.Fields)
}

func TestHandleError_StorageHidesCause(t *testing.T) {
	c, w := newTestContext(http.MethodPost, "/", "")
	(&BaseHandler{}).HandleError(c, shared.NewStorageError("save", errors.New("password=hunter2")))

	assert.NotContains(t, w.Body.String(), "hunter2")
}

func TestBindJSON(t *testing.T) {
	type request struct {
		Name  string `json:"name" binding:"required"`
		Items []struct {
			DiscountType string `json:"discount_type" binding:"omitempty,discount_kind"`
		} `json:"items" binding:"dive"`
	}

	t.Run("valid", func(t *testing.T) {
		c, _ := newTestContext(http.MethodPost, "/", `{"name":"x"}`)
		var req request
		assert.True(t, (&BaseHandler{}).BindJSON(c, &req))
		assert.Equal(t, "x", req.Name)
	})

	t.Run("field errors", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/", `{"items":[{"discount_type":"bogus"}]}`)
		var req request
		assert.False(t, (&BaseHandler{}).BindJSON(c, &req))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		body := decodeError(t, w)
		assert.Equal(t, dto.ErrCodeValidation, body.Error.Code)
		fields := make([]string, len(body.Error.Fields))
		for i, f := range body.Error.Fields {
			fields[i] = f.Field
		}
		assert.ElementsMatch(t, []string{"name", "items[0].discount_type"}, fields)
	})

	t.Run("malformed", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/", `{"name":`)
		var req request
		assert.False(t, (&BaseHandler{}).BindJSON(c, &req))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.True(t, strings.HasPrefix(decodeError(t, w).Error.Message, "Malformed request"))
	})

	t.Run("too large", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/", `{"name":"`+strings.Repeat("a", 64)+`"}`)
		c.Request.Body = http.MaxBytesReader(w, c.Request.Body, 16)
		var req request
		assert.False(t, (&BaseHandler{}).BindJSON(c, &req))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, dto.ErrCodeRequestTooLarge, decodeError(t, w).Error.Code)
	})
}

func TestParseID(t *testing.T) {
	id := uuid.New()

	c, _ := newTestContext(http.MethodGet, "/", "")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	got, ok := (&BaseHandler{}).ParseID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, id, got)

	c, w := newTestContext(http.MethodGet, "/", "")
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	_, ok = (&BaseHandler{}).ParseID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "id", decodeError(t, w).Error.Fields[0].Field)
}

func TestQueryUUID(t *testing.T) {
	id := uuid.New()

	c, _ := newTestContext(http.MethodGet, "/?client_id="+id.String(), "")
	got, ok := (&BaseHandler{}).QueryUUID(c, "client_id")
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, id, *got)

	c, _ = newTestContext(http.MethodGet, "/", "")
	got, ok = (&BaseHandler{}).QueryUUID(c, "client_id")
	assert.True(t, ok)
	assert.Nil(t, got)

	c, w := newTestContext(http.MethodGet, "/?client_id=42", "")
	_, ok = (&BaseHandler{}).QueryUUID(c, "client_id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
