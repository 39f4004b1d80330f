package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresdelrio/clubs/internal/dto"
	appErrors "github.com/andresdelrio/clubs/pkg/errors"
	"github.com/andresdelrio/clubs/pkg/response"
)

type configurationService interface {
	List(ctx context.Context) ([]dto.ConfigurationItem, error)
	EnrollmentsEnabled(ctx context.Context) (bool, error)
	SetEnrollmentsEnabled(ctx context.Context, enabled bool, updatedBy string) (*dto.EnrollmentsToggleResponse, error)
}

// ConfigurationHandler exposes configuration endpoints.
type ConfigurationHandler struct {
	service configurationService
}

// NewConfigurationHandler builds a new handler.
func NewConfigurationHandler(service configurationService) *ConfigurationHandler {
	return &ConfigurationHandler{service: service}
}

// List godoc
// @Summary List configurations
// @Tags Configuration
// @Produce json
// @Success 200 {object} response.Envelope
// @Security AdminAuth
// @Router /configuracion [get]
func (h *ConfigurationHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// EnrollmentsEnabled godoc
// @Summary Whether self-registration is open
// @Tags Configuration
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /configuracion/inscripciones-habilitadas [get]
func (h *ConfigurationHandler) EnrollmentsEnabled(c *gin.Context) {
	enabled, err := h.service.EnrollmentsEnabled(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.EnrollmentsToggleResponse{Enabled: enabled})
}

// SetEnrollments godoc
// @Summary Open or close self-registration
// @Tags Configuration
// @Accept json
// @Produce json
// @Param payload body dto.EnrollmentsToggleRequest true "Toggle payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security AdminAuth
// @Router /configuracion/inscripciones [patch]
func (h *ConfigurationHandler) SetEnrollments(c *gin.Context) {
	var req dto.EnrollmentsToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "enabled must be a boolean"))
		return
	}
	resp, err := h.service.SetEnrollmentsEnabled(c.Request.Context(), *req.Enabled, "admin@"+c.ClientIP())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
