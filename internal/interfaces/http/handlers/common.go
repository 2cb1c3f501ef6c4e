// Package handlers implements the REST endpoints for the valuation API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrcar-cl/tasador/pkg/errors"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an application error to its HTTP status via the error
// code table.  Unknown internals are masked.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	message := err.Error()
	if status == http.StatusInternalServerError && code == errors.ErrCodeUnknown {
		message = "internal server error"
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{
		Code:    string(code),
		Message: message,
	})
}
