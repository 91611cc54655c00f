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

// TenantSortFields contains allowed sort fields for tenants
var TenantSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"subdomain":  true,
	"plan":       true,
	"status":     true,
}

// BranchSortFields contains allowed sort fields for branches
var BranchSortFields = map[string]bool{
	"created_at": true,
	"name":       true,
	"city":       true,
}

// UserSortFields contains allowed sort fields for user profiles
var UserSortFields = map[string]bool{
	"created_at":    true,
	"email":         true,
	"display_name":  true,
	"role":          true,
	"last_login_at": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"created_at": true,
	"name":       true,
	"price":      true,
	"sort_order": true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"created_at":        true,
	"sequence":          true,
	"total":             true,
	"status":            true,
	"status_changed_at": true,
}

// CashRegisterSortFields contains allowed sort fields for cash registers
var CashRegisterSortFields = map[string]bool{
	"opened_at": true,
	"closed_at": true,
	"name":      true,
}

// ExpenseSortFields contains allowed sort fields for expenses
var ExpenseSortFields = map[string]bool{
	"expense_date": true,
	"created_at":   true,
	"amount":       true,
	"category":     true,
}
