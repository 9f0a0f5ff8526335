package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeStorage is used when the database rejects or fails an operation
	ErrCodeStorage = "ERR_STORAGE"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked       = "ERR_TOKEN_REVOKED"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeAccountLocked      = "ERR_ACCOUNT_LOCKED"
	ErrCodeAccountInactive    = "ERR_ACCOUNT_INACTIVE"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
)

// Reference error codes cover ids inside a request body that point at
// missing, deleted or foreign entities.
const (
	ErrCodeInvalidReference  = "ERR_INVALID_REFERENCE"
	ErrCodeReferenceNotFound = "ERR_REFERENCE_NOT_FOUND"
	ErrCodeCrossTenant       = "ERR_CROSS_TENANT_REFERENCE"
	ErrCodeInvalidClient     = "ERR_INVALID_CLIENT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeInvalidTransition is used for a disallowed status change
	ErrCodeInvalidTransition = "ERR_INVALID_STATUS_TRANSITION"
	ErrCodeDuplicateOrder    = "ERR_DUPLICATE_TERM_ORDER"
	ErrCodeNoMatchingTerms   = "ERR_NO_MATCHING_TERMS"
	ErrCodeInvalidCustomTerm = "ERR_INVALID_CUSTOM_TERM"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,
	ErrCodeStorage:  http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeAccountLocked:      http.StatusLocked,
	ErrCodeAccountInactive:    http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,

	// Reference errors: a bad id in the body is a client input error, a
	// failed scoped lookup is an unprocessable request
	ErrCodeInvalidReference:  http.StatusBadRequest,
	ErrCodeInvalidClient:     http.StatusBadRequest,
	ErrCodeReferenceNotFound: http.StatusUnprocessableEntity,
	ErrCodeCrossTenant:       http.StatusUnprocessableEntity,

	// Business rule errors
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInvalidTransition: http.StatusUnprocessableEntity,
	ErrCodeDuplicateOrder:    http.StatusBadRequest,
	ErrCodeInvalidCustomTerm: http.StatusBadRequest,
	ErrCodeNoMatchingTerms:   http.StatusNotFound,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                 ErrCodeNotFound,
	"ALREADY_EXISTS":            ErrCodeAlreadyExists,
	"INVALID_INPUT":             ErrCodeInvalidInput,
	"INVALID_STATE":             ErrCodeInvalidState,
	"UNAUTHORIZED":              ErrCodeUnauthorized,
	"FORBIDDEN":                 ErrCodeForbidden,
	"VALIDATION_ERROR":          ErrCodeValidation,
	"INVALID_REFERENCE":         ErrCodeInvalidReference,
	"REFERENCE_NOT_FOUND":       ErrCodeReferenceNotFound,
	"CROSS_TENANT_REFERENCE":    ErrCodeCrossTenant,
	"INVALID_CLIENT":            ErrCodeInvalidClient,
	"DUPLICATE_TERM_ORDER":      ErrCodeDuplicateOrder,
	"NO_MATCHING_TERMS":         ErrCodeNoMatchingTerms,
	"INVALID_CUSTOM_TERM":       ErrCodeInvalidCustomTerm,
	"INVALID_STATUS_TRANSITION": ErrCodeInvalidTransition,
	"STORAGE_ERROR":             ErrCodeStorage,
	"INVALID_CREDENTIALS":       ErrCodeInvalidCredentials,
	"ACCOUNT_LOCKED":            ErrCodeAccountLocked,
	"ACCOUNT_DEACTIVATED":       ErrCodeAccountInactive,
	"ACCOUNT_INACTIVE":          ErrCodeAccountInactive,
	"USER_NOT_FOUND":            ErrCodeNotFound,
	"TOKEN_EXPIRED":             ErrCodeTokenExpired,
	"TOKEN_INVALID":             ErrCodeTokenInvalid,
	"TOKEN_MAX_REFRESH":         ErrCodeTokenExpired,
	"TOKEN_ERROR":               ErrCodeTokenInvalid,
	"BAD_REQUEST":               ErrCodeBadRequest,
	"INTERNAL_ERROR":            ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes already in the API format or unknown are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
