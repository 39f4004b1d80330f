package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresdelrio/clubs/internal/dto"
	"github.com/andresdelrio/clubs/internal/models"
	appErrors "github.com/andresdelrio/clubs/pkg/errors"
	"github.com/andresdelrio/clubs/pkg/response"
)

type clubService interface {
	ListSedes(ctx context.Context) ([]models.Sede, error)
	ListClubsBySede(ctx context.Context, slug string) (*dto.SedeClubsResponse, error)
	GetClub(ctx context.Context, id string) (*models.ClubSummary, error)
	CreateClub(ctx context.Context, req dto.CreateClubRequest) (*models.ClubSummary, error)
	UpdateClub(ctx context.Context, id string, req dto.UpdateClubRequest) (*models.ClubSummary, error)
	UpdateCapacity(ctx context.Context, id string, capacity int) (*models.ClubSummary, error)
	DeleteClub(ctx context.Context, id string) error
}

// ClubHandler exposes the sede catalogue and club administration.
type ClubHandler struct {
	service clubService
}

// NewClubHandler constructs the handler.
func NewClubHandler(service clubService) *ClubHandler {
	return &ClubHandler{service: service}
}

// ListSedes godoc
// @Summary List sedes
// @Tags Catalogue
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sedes [get]
func (h *ClubHandler) ListSedes(c *gin.Context) {
	sedes, err := h.service.ListSedes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sedes)
}

// ListClubsBySede godoc
// @Summary List the clubs of a sede with availability
// @Tags Catalogue
// @Produce json
// @Param slug path string true "Sede slug"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sedes/{slug}/clubs [get]
func (h *ClubHandler) ListClubsBySede(c *gin.Context) {
	result, err := h.service.ListClubsBySede(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// GetClub godoc
// @Summary Get a club
// @Tags Catalogue
// @Produce json
// @Param id path string true "Club ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /clubs/{id} [get]
func (h *ClubHandler) GetClub(c *gin.Context) {
	club, err := h.service.GetClub(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, club)
}

// Create godoc
// @Summary Create a club
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.CreateClubRequest true "Club payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security AdminAuth
// @Router /admin/clubs [post]
func (h *ClubHandler) Create(c *gin.Context) {
	var req dto.CreateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation, "invalid club payload"))
		return
	}
	club, err := h.service.CreateClub(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, club)
}

// Update godoc
// @Summary Replace club data
// @Description Capacity may not drop below the current active enrollments.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Club ID"
// @Param payload body dto.UpdateClubRequest true "Club payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security AdminAuth
// @Router /admin/clubs/{id} [put]
func (h *ClubHandler) Update(c *gin.Context) {
	var req dto.UpdateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation, "invalid club payload"))
		return
	}
	club, err := h.service.UpdateClub(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, club)
}

// UpdateCapacity godoc
// @Summary Change club capacity
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Club ID"
// @Param payload body dto.UpdateCapacityRequest true "Capacity payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security AdminAuth
// @Router /admin/clubs/{id}/capacity [patch]
func (h *ClubHandler) UpdateCapacity(c *gin.Context) {
	var req dto.UpdateCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Capacity == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "capacity is required"))
		return
	}
	club, err := h.service.UpdateCapacity(c.Request.Context(), c.Param("id"), *req.Capacity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, club)
}

// Delete godoc
// @Summary Delete a club without active enrollments
// @Tags Admin
// @Param id path string true "Club ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Security AdminAuth
// @Router /admin/clubs/{id} [delete]
func (h *ClubHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteClub(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
