package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to every table
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = withCommon("username", "display_name", "role", "status", "last_login_at")

// ClientSortFields contains allowed sort fields for clients
var ClientSortFields = withCommon("business_name", "contact_name", "email")

// ScopedSortFields contains allowed sort fields for the client-scoped entities
var ScopedSortFields = withCommon("name", "name_en", "name_ar", "city", "platform")

// ServiceSortFields contains allowed sort fields for services
var ServiceSortFields = withCommon("name_en", "name_ar", "category", "price")

// PackageSortFields contains allowed sort fields for packages
var PackageSortFields = withCommon("name_en", "name_ar", "price")

// TermSortFields contains allowed sort fields for contract terms
var TermSortFields = withCommon("term_key", "term_key_ar")

// DocumentSortFields contains allowed sort fields for quotations, plans and contracts
var DocumentSortFields = withCommon("number", "status", "total", "subtotal")

// ContractSortFields adds the contract period to DocumentSortFields
var ContractSortFields = withCommon("number", "status", "total", "subtotal", "start_date", "end_date", "signed_date")

func withCommon(fields ...string) map[string]bool {
	allowed := make(map[string]bool, len(CommonSortFields)+len(fields))
	for f := range CommonSortFields {
		allowed[f] = true
	}
	for _, f := range fields {
		allowed[f] = true
	}
	return allowed
}
