package domain

import "net/http"

// APIError is the RFC 7807 problem body returned by every failing endpoint.
// Errors maps JSON field names to messages for rejected request bodies.
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

const (
	ErrorTypeValidation      = "validation_error"
	ErrorTypeNotFound        = "not_found"
	ErrorTypeBadRequest      = "bad_request"
	ErrorTypeConflict        = "conflict"
	ErrorTypeUnauthorized    = "unauthorized"
	ErrorTypeForbidden       = "forbidden"
	ErrorTypeTooManyRequests = "rate_limited"
	ErrorTypeInternal        = "internal_error"
)

var statusErrorTypes = map[int]string{
	http.StatusBadRequest:      ErrorTypeBadRequest,
	http.StatusUnauthorized:    ErrorTypeUnauthorized,
	http.StatusForbidden:       ErrorTypeForbidden,
	http.StatusNotFound:        ErrorTypeNotFound,
	http.StatusConflict:        ErrorTypeConflict,
	http.StatusTooManyRequests: ErrorTypeTooManyRequests,
}

// ErrorTypeFor maps an HTTP status to its problem type; unknown statuses
// report an internal error.
func ErrorTypeFor(status int) string {
	if t, ok := statusErrorTypes[status]; ok {
		return t
	}
	return ErrorTypeInternal
}

// NewAPIError builds a problem without field errors
func NewAPIError(status int, errType, title, detail string) *APIError {
	return &APIError{Type: errType, Title: title, Status: status, Detail: detail}
}

// NewProblem derives type and title from the status
func NewProblem(status int, detail string) *APIError {
	return NewAPIError(status, ErrorTypeFor(status), http.StatusText(status), detail)
}

// fallback messages for validator tags without a parameterised message
var validationMessages = map[string]string{
	"required": "This field is required",
	"email":    "Must be a valid email address",
	"url":      "Must be a valid URL",
	"numeric":  "Must be a numeric value",
	"len":      "Must be exactly the specified length",
	"eqfield":  "Must match the related field",
	"dive":     "Contains an invalid entry",
}

// ValidationMessage returns the message shown for a failed validator tag
func ValidationMessage(tag string) string {
	if msg, ok := validationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}
