package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeRouteNotFound       = "ERR_ROUTE_NOT_FOUND"
	ErrCodeTenantRequired      = "ERR_TENANT_REQUIRED"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// ErrCodeRateLimited is used when rate limit is exceeded
const ErrCodeRateLimited = "ERR_RATE_LIMITED"

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeRouteNotFound:       http.StatusNotFound,
	ErrCodeTenantRequired:      http.StatusBadRequest,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// domainCodeStatus holds the domain codes that do not answer 422
var domainCodeStatus = map[string]int{
	// not found
	"USER_NOT_FOUND":     http.StatusNotFound,
	"PRODUCT_NOT_FOUND":  http.StatusNotFound,
	"EXTRA_NOT_FOUND":    http.StatusNotFound,
	"ITEM_NOT_FOUND":     http.StatusNotFound,
	"MOVEMENT_NOT_FOUND": http.StatusNotFound,

	// authentication
	"WRONG_PASSWORD":    http.StatusUnauthorized,
	"SESSION_EXPIRED":   http.StatusUnauthorized,
	"PROVIDER_REJECTED": http.StatusUnauthorized,
	"INVALID_SECRET":    http.StatusUnauthorized,

	// permission
	"ACCOUNT_DISABLED":   http.StatusForbidden,
	"BOOTSTRAP_DISABLED": http.StatusForbidden,
	"LIMIT_REACHED":      http.StatusForbidden,
	"CANNOT_REMOVE_SELF": http.StatusForbidden,
	"TENANT_INACTIVE":    http.StatusForbidden,

	// conflicts
	"EMAIL_IN_USE":          http.StatusConflict,
	"SUBDOMAIN_TAKEN":       http.StatusConflict,
	"SUPERADMIN_EXISTS":     http.StatusConflict,
	"EXTRA_EXISTS":          http.StatusConflict,
	"MOVEMENT_EXISTS":       http.StatusConflict,
	"REGISTER_ALREADY_OPEN": http.StatusConflict,

	// state rules named like input errors
	"INVALID_TRANSITION":         http.StatusUnprocessableEntity,
	"INVALID_PAYMENT_TRANSITION": http.StatusUnprocessableEntity,

	// media
	"FILE_TOO_LARGE":        http.StatusRequestEntityTooLarge,
	"UNSUPPORTED_FILE_TYPE": http.StatusUnsupportedMediaType,
	"FILE_REQUIRED":         http.StatusBadRequest,
	"URL_REQUIRED":          http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainHTTPStatus returns the HTTP status for a domain error code.
// Codes named INVALID_* or *_REQUIRED are input errors (400); any other
// business rule violation answers 422.
func DomainHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if status, ok := domainCodeStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") || strings.HasSuffix(code, "_REQUIRED") || code == "WEAK_PASSWORD" || code == "PASSWORD_MISMATCH" {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}

// LegacyErrorCodeMapping maps the generic domain codes to standardized codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"IN_USE":               ErrCodeConflict,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a legacy error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
