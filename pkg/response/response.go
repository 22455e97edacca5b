package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
)

// ErrorBody is the error contract shared with the sync client's remote adapter.
type ErrorBody struct {
	Error *appErrors.Error `json:"error"`
}

// Ack is the acknowledgement returned by mutating endpoints.
type Ack struct {
	Success bool `json:"success"`
}

// JSON sends the payload as the raw response body.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// OK acknowledges a successful mutation.
func OK(c *gin.Context) {
	JSON(c, http.StatusOK, Ack{Success: true})
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, ErrorBody{Error: appErr})
}
