// Package respond renders the API response envelope.
//
// Every endpoint answers with {"data": ..., "error": null} or
// {"data": null, "error": {"message": ..., "code": ...}}.
package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stashd/stashd/pkg/stashd/apierr"
)

// ErrorBody is the error half of the envelope
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Envelope is the uniform response shape
type Envelope struct {
	Data  interface{} `json:"data"`
	Error *ErrorBody  `json:"error"`
}

// Data writes a successful envelope with the given status
func Data(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Data: data})
}

// Error maps err onto the taxonomy and writes the error envelope
func Error(c *gin.Context, err error) {
	c.JSON(statusFor(err), Envelope{
		Error: &ErrorBody{Message: err.Error(), Code: apierr.Code(err)},
	})
}

// AbortError is Error plus request abortion, for use in middleware
func AbortError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// BadRequest writes a validation-style error for malformed request bodies
func BadRequest(c *gin.Context, err error) {
	Error(c, apierr.Validation(err.Error()))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apierr.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apierr.ErrInvalidAPIToken):
		return http.StatusForbidden
	case errors.Is(err, apierr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apierr.ErrNotAuthorized):
		return http.StatusForbidden
	case apierr.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
