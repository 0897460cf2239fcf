// Package http provides HTTP server and handler implementations.
//
// This file implements a small builder for JSON responses so every handler
// shares the same content type, error body and status handling.

package http

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"trashday/internal/core"
	applog "trashday/internal/log"
)

// ErrorBody is the JSON shape of every API error.
type ErrorBody struct {
	Error string `json:"error"`
	Type  string `json:"type"`
}

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	payload    any
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the value encoded as the response body.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.payload = v
	return b
}

// Write encodes the payload and sends the response. An encoding failure
// is reported as a 500 with an internal_error body.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	body, err := json.Marshal(b.payload)
	status := b.statusCode
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorBody{Error: "failed to encode response", Type: applog.ErrorTypeInternal})
	}

	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// ErrorResponse creates a standard JSON error response.
func ErrorResponse(statusCode int, message, errType string) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(statusCode).
		Body(ErrorBody{Error: message, Type: errType})
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message, applog.ErrorTypeValidation)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message, applog.ErrorTypeNotFound)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message, applog.ErrorTypeInternal)
}

// ServiceUnavailableError creates a 503 response for an unloadable dataset.
func ServiceUnavailableError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusServiceUnavailable, message, applog.ErrorTypeLoad)
}

// FromError maps a service error to a response. Dataset load failures
// become 503; anything else is an internal error.
func FromError(err error) *JSONResponseBuilder {
	var le *core.LoadError
	if errors.As(err, &le) {
		return ServiceUnavailableError(le.Error())
	}
	return InternalServerError("internal error")
}
