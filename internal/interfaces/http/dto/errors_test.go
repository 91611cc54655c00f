package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestDomainHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{"LIMIT_REACHED", http.StatusForbidden},
		{"WRONG_PASSWORD", http.StatusUnauthorized},
		{"EMAIL_IN_USE", http.StatusConflict},
		{"REGISTER_ALREADY_OPEN", http.StatusConflict},
		{"INVALID_TRANSITION", http.StatusUnprocessableEntity},
		{"INVALID_PAYMENT_TRANSITION", http.StatusUnprocessableEntity},
		{"INVALID_EMAIL", http.StatusBadRequest},
		{"ORDER_NOT_EDITABLE", http.StatusUnprocessableEntity},
		{"LAST_ITEM", http.StatusUnprocessableEntity},
		{"CUSTOMER_NAME_REQUIRED", http.StatusBadRequest},
		{"WEAK_PASSWORD", http.StatusBadRequest},
		{"BELOW_MINIMUM_ORDER", http.StatusUnprocessableEntity},
		{"STORE_CLOSED", http.StatusUnprocessableEntity},
		{"CATEGORY_HAS_PRODUCTS", http.StatusUnprocessableEntity},
		{"FILE_TOO_LARGE", http.StatusRequestEntityTooLarge},
		{"UNSUPPORTED_FILE_TYPE", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, DomainHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"INVALID_INPUT", ErrCodeInvalidInput},
		{"INVALID_STATE", ErrCodeInvalidState},
		{"FORBIDDEN", ErrCodeForbidden},
		{"CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict},
		{"IN_USE", ErrCodeConflict},
		// New codes should pass through unchanged
		{ErrCodeNotFound, ErrCodeNotFound},
		// Domain specific codes pass through unchanged
		{"STORE_CLOSED", "STORE_CLOSED"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestErrorCodesHaveStatus(t *testing.T) {
	for _, code := range []string{
		ErrCodeUnknown, ErrCodeInternal, ErrCodeValidation, ErrCodeUnauthorized,
		ErrCodeForbidden, ErrCodeTokenExpired, ErrCodeTokenInvalid, ErrCodeNotFound,
		ErrCodeRouteNotFound, ErrCodeTenantRequired, ErrCodeAlreadyExists, ErrCodeConflict,
		ErrCodeConcurrencyConflict, ErrCodeInvalidState, ErrCodeBusinessRule, ErrCodeBadRequest,
		ErrCodeInvalidInput, ErrCodeInvalidJSON, ErrCodeRequestTooLarge, ErrCodeRateLimited,
	} {
		_, ok := ErrorCodeHTTPStatus[code]
		assert.True(t, ok, "Error code %s should be in ErrorCodeHTTPStatus map", code)
		assert.Contains(t, code, "ERR_")
	}
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Recurso no encontrado", "req-test-123")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.NotContains(t, decoded, "data")
	errInfo := decoded["error"].(map[string]any)
	assert.Equal(t, ErrCodeNotFound, errInfo["code"])
	assert.Equal(t, "Recurso no encontrado", errInfo["message"])
	assert.Equal(t, "req-test-123", errInfo["request_id"])
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		total         int64
		pageSize      int
		expectedPages int
	}{
		{100, 10, 10},
		{101, 10, 11},
		{0, 10, 0},
		{9, 10, 1},
		{5, 0, 0},
	}

	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta([]string{}, tt.total, 1, tt.pageSize)
		assert.True(t, resp.Success)
		assert.Equal(t, tt.expectedPages, resp.Meta.TotalPages)
	}
}

func TestNewPaginatedResponse(t *testing.T) {
	page := shared.NewPaginated([]string(nil), 0, 1, 20)
	resp := NewPaginatedResponse(page)

	assert.True(t, resp.Success)
	assert.Equal(t, []string{}, resp.Data)
	assert.Equal(t, int64(0), resp.Meta.Total)
	assert.Equal(t, 20, resp.Meta.PageSize)
}

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func TestTranslateValidationErrors(t *testing.T) {
	require.NoError(t, SetupValidator())

	err := binding.Validator.ValidateStruct(&signupRequest{Email: "no-es-correo", Password: "123"})
	require.Error(t, err)

	details, ok := TranslateValidationErrors(err, "es")
	require.True(t, ok)
	require.Len(t, details, 2)
	assert.Equal(t, "email", details[0].Field)
	assert.Equal(t, "email", details[0].Tag)
	assert.Contains(t, details[0].Message, "correo")
	assert.Equal(t, "password", details[1].Field)
	assert.Equal(t, "min", details[1].Tag)

	english, ok := TranslateValidationErrors(err, "en")
	require.True(t, ok)
	assert.Contains(t, english[1].Message, "at least 6 characters")

	_, ok = TranslateValidationErrors(assert.AnError, "es")
	assert.False(t, ok)
}
