package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrFileTooLarge       = errors.New("archivo demasiado grande")
	ErrUnsupportedType    = errors.New("tipo de archivo no soportado")
)

// Errores clasificados del cliente HTTP. Se comparan con errors.Is contra
// *APIError y *ValidationError.
var (
	ErrUnauthenticated = errors.New("sesión no autenticada o expirada")
	ErrClient          = errors.New("error de cliente")
	ErrServer          = errors.New("error del servidor")
	ErrNetwork         = errors.New("error de red")
	ErrTimeout         = errors.New("tiempo de espera agotado")
	ErrValidation      = errors.New("validación local fallida")
)

// ErrorKind clasificación de un error del cliente.
type ErrorKind string

const (
	KindUnknown         ErrorKind = ""
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindClient          ErrorKind = "client_error"
	KindServer          ErrorKind = "server_error"
	KindNetwork         ErrorKind = "network_error"
	KindTimeout         ErrorKind = "timeout"
	KindValidation      ErrorKind = "validation"
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindUnauthenticated:
		return ErrUnauthenticated
	case KindClient:
		return ErrClient
	case KindServer:
		return ErrServer
	case KindNetwork:
		return ErrNetwork
	case KindTimeout:
		return ErrTimeout
	case KindValidation:
		return ErrValidation
	}
	return nil
}

// APIError error clasificado producido por el transporte HTTP.
// StatusCode es 0 cuando no hubo respuesta (red, timeout).
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Code       string // código opcional devuelto por el servidor (ej. "NOT_FOUND")
	Message    string // mensaje del servidor o descripción local
	Method     string
	Path       string
	Err        error // causa subyacente (error de red, contexto, etc.)
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Method != "" || e.Path != "" {
		fmt.Fprintf(&b, " %s %s", e.Method, e.Path)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is permite errors.Is(err, domain.ErrTimeout) y similares.
func (e *APIError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

func (e *APIError) Unwrap() error { return e.Err }

// NewAPIError construye un APIError del tipo indicado.
func NewAPIError(kind ErrorKind, status int, message string, cause error) *APIError {
	return &APIError{Kind: kind, StatusCode: status, Message: message, Err: cause}
}

// ValidationError rechazo local previo a cualquier llamada de red.
type ValidationError struct {
	Field  string // nombre del campo o archivo rechazado
	Reason string
	Err    error // ErrFileTooLarge, ErrUnsupportedType, ErrInvalidInput...
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validación: " + e.Reason
	}
	return fmt.Sprintf("validación: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError construye un ValidationError.
func NewValidationError(field, reason string, cause error) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Err: cause}
}

// KindOf devuelve la clasificación de err, o KindUnknown si no es un error clasificado.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return KindValidation
	}
	return KindUnknown
}

// MessageOf devuelve el mensaje del servidor si err es un APIError, o err.Error().
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
