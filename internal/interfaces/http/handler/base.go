package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/logger"
	"github.com/menuhub/backend/internal/interfaces/http/dto"
	"github.com/menuhub/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Paginated sends a page of items with pagination meta
func Paginated[T any](c *gin.Context, page shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response. message is used when the catalog has no
// text for code in the request language.
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	msg := middleware.GetLocalizer(c).Translate(code, message)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, msg, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "")
}

// Forbidden sends a 403 forbidden response
func (h *BaseHandler) Forbidden(c *gin.Context) {
	h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, "")
}

// BindJSON decodes the request body into req. Validation failures answer 400
// with one detail per field, in the request language.
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	return h.bind(c, c.ShouldBindJSON(req))
}

// BindQuery decodes the query string into req
func (h *BaseHandler) BindQuery(c *gin.Context, req any) bool {
	return h.bind(c, c.ShouldBindQuery(req))
}

func (h *BaseHandler) bind(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}
	loc := middleware.GetLocalizer(c)
	if details, ok := dto.TranslateValidationErrors(err, loc.Base()); ok {
		msg := loc.Translate(dto.ErrCodeValidation, "")
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(msg, middleware.GetRequestID(c), details))
		return false
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "")
		return false
	}
	if errors.Is(err, io.EOF) {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "")
		return false
	}
	h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "")
	return false
}

// HandleError converts service errors to HTTP responses. Domain errors keep
// their code; Spanish requests get the domain message as written.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		msg := domainErr.Message
		if loc := middleware.GetLocalizer(c); loc.Base() != "es" {
			msg = loc.Translate(domainErr.Code, loc.Translate(code, domainErr.Message))
		}
		c.JSON(dto.DomainHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, msg, middleware.GetRequestID(c)))
		return
	}

	logger.FromGin(c).Error("unhandled error", zap.Error(err), zap.String("path", c.FullPath()))
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "")
}

// tenantID returns the tenant resolved by the Tenant middleware
func (h *BaseHandler) tenantID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetTenantUUID(c)
	if !ok {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeTenantRequired, "")
	}
	return id, ok
}

// userID returns the authenticated user
func (h *BaseHandler) userID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserUUID(c)
	if !ok {
		h.Unauthorized(c)
	}
	return id, ok
}

// uuidParam parses a path parameter as UUID
func (h *BaseHandler) uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Identificador inválido: "+name)
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUIDQuery parses a UUID query parameter; empty means nil
func (h *BaseHandler) optionalUUIDQuery(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Identificador inválido: "+name)
		return nil, false
	}
	return &id, true
}

// optionalBoolQuery parses a boolean query parameter; empty means nil
func (h *BaseHandler) optionalBoolQuery(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Valor inválido: "+name)
		return nil, false
	}
	return &v, true
}

// optionalTimeQuery accepts RFC 3339 timestamps or plain dates (YYYY-MM-DD)
func (h *BaseHandler) optionalTimeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := parseTime(raw)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Fecha inválida: "+name)
		return nil, false
	}
	return &t, true
}

// periodQuery reads from/to, defaulting to the current month. A plain to
// date includes the whole day.
func (h *BaseHandler) periodQuery(c *gin.Context) (from, to time.Time, ok bool) {
	fromPtr, ok := h.optionalTimeQuery(c, "from")
	if !ok {
		return from, to, false
	}
	toPtr, ok := h.optionalTimeQuery(c, "to")
	if !ok {
		return from, to, false
	}
	now := time.Now().UTC()
	from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to = now
	if fromPtr != nil {
		from = *fromPtr
	}
	if toPtr != nil {
		to = *toPtr
		if len(c.Query("to")) == len(time.DateOnly) {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
	}
	if to.Before(from) {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "El rango de fechas es inválido")
		return from, to, false
	}
	return from, to, true
}

func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, raw)
}
