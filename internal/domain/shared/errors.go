package shared

import "errors"

// DomainError is a business error with a stable code and a user-facing message.
// Messages are written in Spanish, the language of the storefront and back office.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped sentinels compare equal
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
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
	ErrNotFound            = NewDomainError("NOT_FOUND", "Recurso no encontrado")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "El recurso ya existe")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Datos inválidos")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "El recurso fue modificado por otro usuario, recarga e intenta de nuevo")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Debes iniciar sesión")
	ErrForbidden           = NewDomainError("FORBIDDEN", "No tienes permiso para realizar esta acción")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operación no permitida en el estado actual")
	ErrLimitReached        = NewDomainError("LIMIT_REACHED", "Límite alcanzado")
	ErrInUse               = NewDomainError("IN_USE", "El recurso está en uso y no puede eliminarse")
)

// IsNotFound reports whether err is (or wraps) ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
