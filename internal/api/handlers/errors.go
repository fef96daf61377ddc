// Package handlers implements the HTTP endpoints of the chatbridge server:
// payload conversion, format detection, batch conversion and pair listing.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/sjson"
)

// ErrorResponse represents a standard error response format for the API.
// It contains a single ErrorDetail field.
type ErrorResponse struct {
	// Error contains detailed information about the error that occurred.
	Error ErrorDetail `json:"error"`
}

// ErrorDetail provides specific information about an error that occurred.
type ErrorDetail struct {
	// Message is a human-readable message providing more details about the error.
	Message string `json:"message"`

	// Type is the category of error that occurred (e.g., "invalid_request_error").
	Type string `json:"type"`
}

// BuildErrorResponseBody builds a JSON error response body for the status.
func BuildErrorResponseBody(status int, errText string) []byte {
	if status <= 0 {
		status = http.StatusInternalServerError
	}
	if strings.TrimSpace(errText) == "" {
		errText = http.StatusText(status)
	}

	errType := "invalid_request_error"
	if status >= http.StatusInternalServerError {
		errType = "server_error"
	}

	out := `{"error":{"message":"","type":""}}`
	out, _ = sjson.Set(out, "error.message", errText)
	out, _ = sjson.Set(out, "error.type", errType)
	return []byte(out)
}

// WriteError aborts the request with a JSON error body.
func WriteError(c *gin.Context, status int, errText string) {
	c.Data(status, "application/json", BuildErrorResponseBody(status, errText))
	c.Abort()
}
