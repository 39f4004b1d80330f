package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/andresdelrio/clubs/pkg/errors"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data  interface{}            `json:"data,omitempty"`
	Error *ErrorBody             `json:"error,omitempty"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

// ErrorBody is the wire form of an application error.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// JSON sends a success response with optional metadata.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	envelope := Envelope{Data: data}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends the error envelope and records the error on the context for the request logger.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	status := StatusFor(appErr.Kind)
	_ = c.Error(appErr)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	if appErr.Kind == appErrors.KindUnavailable {
		c.Header("Retry-After", "1")
	}
	c.JSON(status, Envelope{Error: &ErrorBody{Code: appErr.Code, Message: appErr.Message, Status: status}})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind appErrors.Kind) int {
	switch kind {
	case appErrors.KindBadRequest:
		return http.StatusBadRequest
	case appErrors.KindUnauthorized:
		return http.StatusUnauthorized
	case appErrors.KindForbidden:
		return http.StatusForbidden
	case appErrors.KindNotFound:
		return http.StatusNotFound
	case appErrors.KindConflict:
		return http.StatusConflict
	case appErrors.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
