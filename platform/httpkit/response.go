// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"errors"
	"net/http"

	"transaction_dashboard_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Kind    string      `json:"kind,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// MessageResponse is the standard acknowledgement format.
type MessageResponse struct {
	Message string `json:"message"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Error sends an error response with the given status code and message.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// HandleError maps domain errors to HTTP responses.
// If the error chain carries a typed *apperr.Error, its Kind decides the
// status code. Otherwise the error is treated as internal and its text is
// not leaked to the caller.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	_ = c.Error(err)

	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{
			Error:   domainErr.Message,
			Kind:    domainErr.Kind.String(),
			Details: domainErr.Details,
		})
		return true
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	return true
}
