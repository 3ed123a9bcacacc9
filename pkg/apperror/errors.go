package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies every failure the client can surface
type Kind string

const (
	KindNetwork    Kind = "NETWORK_FAILURE"    // request could not complete
	KindHTTP       Kind = "HTTP_ERROR"         // non-2xx response
	KindMalformed  Kind = "MALFORMED_RESPONSE" // 2xx but unusable body
	KindValidation Kind = "VALIDATION_ERROR"   // client-side, before submission
)

// Error is the tagged error result used across the client.
// Fields is only populated for KindValidation (field -> reason).
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindValidation && len(e.Fields) > 0:
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
		}
		return strings.Join(parts, "; ")
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// =====================================================
// CONSTRUCTORS
// =====================================================

// Network wraps a transport failure
func Network(message string, err error) *Error {
	return &Error{Kind: KindNetwork, Message: message, Err: err}
}

// HTTP builds an error for a non-2xx response
func HTTP(status int, message string) *Error {
	return &Error{Kind: KindHTTP, Status: status, Message: message}
}

// Malformed builds an error for a 2xx response that could not be used
func Malformed(message string, err error) *Error {
	return &Error{Kind: KindMalformed, Message: message, Err: err}
}

// Validation builds a field-level error. An empty map yields a nil error.
func Validation(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// Field is shorthand for a single-field validation error
func Field(field, reason string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: map[string]string{field: reason}}
}

// =====================================================
// HELPERS
// =====================================================

// As extracts *Error from err chain
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" when err is not an *Error
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return ""
}

// HTTPStatus maps an error to the status the local web surface answers with
func HTTPStatus(err error) int {
	appErr, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch appErr.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindHTTP:
		// Remote 4xx are meaningful to the caller, remote 5xx are our upstream failing
		if appErr.Status >= 400 && appErr.Status < 500 {
			return appErr.Status
		}
		return http.StatusBadGateway
	case KindNetwork, KindMalformed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
