package shared

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized  = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden     = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Pricing and composition errors. The typed errors below unwrap to one of these
// so callers can match on the code with errors.Is / errors.As.
var (
	ErrValidation         = NewDomainError("VALIDATION_ERROR", "Validation failed")
	ErrInvalidReference   = NewDomainError("INVALID_REFERENCE", "Referenced item does not exist or has been deleted")
	ErrReferenceNotFound  = NewDomainError("REFERENCE_NOT_FOUND", "Referenced entities not found")
	ErrCrossTenant        = NewDomainError("CROSS_TENANT_REFERENCE", "Referenced entities belong to another client")
	ErrDuplicateOrder     = NewDomainError("DUPLICATE_TERM_ORDER", "Term order values must be unique")
	ErrNoMatchingTerms    = NewDomainError("NO_MATCHING_TERMS", "None of the given terms exist on the contract")
	ErrInvalidCustomTerm  = NewDomainError("INVALID_CUSTOM_TERM", "Term entry is neither a valid reference nor a valid custom term")
	ErrInvalidClient      = NewDomainError("INVALID_CLIENT", "Client not found or has been deleted")
	ErrStorage            = NewDomainError("STORAGE_ERROR", "Storage operation failed")
	ErrInvalidTransition  = NewDomainError("INVALID_STATUS_TRANSITION", "Status transition not allowed")
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
)

// ValidationError reports malformed or impossible input.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// InvalidReferenceError reports a catalog reference that is missing or soft-deleted.
type InvalidReferenceError struct {
	Kind string
	ID   uuid.UUID
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("%s with ID %s not found or has been deleted", e.Kind, e.ID)
}

func (e *InvalidReferenceError) Unwrap() error { return ErrInvalidReference }

// NotFoundError lists every id of a kind that could not be found.
type NotFoundError struct {
	Kind string
	IDs  []uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, joinIDs(e.IDs))
}

func (e *NotFoundError) Unwrap() error { return ErrReferenceNotFound }

// CrossTenantError lists every id of a kind owned by a different client.
type CrossTenantError struct {
	Kind string
	IDs  []uuid.UUID
}

func (e *CrossTenantError) Error() string {
	return fmt.Sprintf("%s belong to another client: %s", e.Kind, joinIDs(e.IDs))
}

func (e *CrossTenantError) Unwrap() error { return ErrCrossTenant }

// ScopeError is the result of one scoped validation: it carries the missing
// and cross-tenant sets together. At least one of them is non-nil.
type ScopeError struct {
	Kind        string
	Missing     *NotFoundError
	CrossTenant *CrossTenantError
}

func (e *ScopeError) Error() string {
	parts := make([]string, 0, 2)
	if e.Missing != nil {
		parts = append(parts, e.Missing.Error())
	}
	if e.CrossTenant != nil {
		parts = append(parts, e.CrossTenant.Error())
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes both failure classes to errors.As.
func (e *ScopeError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Missing != nil {
		errs = append(errs, e.Missing)
	}
	if e.CrossTenant != nil {
		errs = append(errs, e.CrossTenant)
	}
	return errs
}

// MissingIDs returns the ids that were not found, or nil
func (e *ScopeError) MissingIDs() []uuid.UUID {
	if e.Missing == nil {
		return nil
	}
	return e.Missing.IDs
}

// CrossTenantIDs returns the ids owned by another client, or nil
func (e *ScopeError) CrossTenantIDs() []uuid.UUID {
	if e.CrossTenant == nil {
		return nil
	}
	return e.CrossTenant.IDs
}

// DuplicateOrderError reports a term order value used more than once.
type DuplicateOrderError struct {
	Order int
}

func (e *DuplicateOrderError) Error() string {
	return fmt.Sprintf("duplicate term order %d", e.Order)
}

func (e *DuplicateOrderError) Unwrap() error { return ErrDuplicateOrder }

// NoMatchingTermsError reports a reorder request that matched no existing term.
type NoMatchingTermsError struct {
	IDs []uuid.UUID
}

func (e *NoMatchingTermsError) Error() string {
	return fmt.Sprintf("no matching terms for ids: %s", joinIDs(e.IDs))
}

func (e *NoMatchingTermsError) Unwrap() error { return ErrNoMatchingTerms }

// InvalidCustomTermError reports a term entry violating the reference-or-custom rule.
type InvalidCustomTermError struct {
	Index  int
	Reason string
}

func (e *InvalidCustomTermError) Error() string {
	return fmt.Sprintf("term entry %d: %s", e.Index, e.Reason)
}

func (e *InvalidCustomTermError) Unwrap() error { return ErrInvalidCustomTerm }

// StorageError wraps a failure of a store collaborator.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err, returning nil when err is nil.
// An err that is already a StorageError is returned unchanged.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*StorageError); ok {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

func joinIDs(ids []uuid.UUID) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = id.String()
	}
	return strings.Join(s, ", ")
}
