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

type enrollmentService interface {
	Register(ctx context.Context, document, clubID string) (*models.EnrollmentDetail, error)
	AdminAssign(ctx context.Context, document, clubID string) (*models.EnrollmentDetail, error)
	Move(ctx context.Context, enrollmentID, newClubID string) (*models.EnrollmentDetail, error)
	Cancel(ctx context.Context, enrollmentID string) (*models.EnrollmentDetail, error)
	CheckStatus(ctx context.Context, document string) (*dto.EnrollmentStatus, error)
}

// EnrollmentHandler exposes self-registration and the admin enrollment operations.
type EnrollmentHandler struct {
	enrollments enrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Register godoc
// @Summary Self-register into a club
// @Description Requires enrollments to be open and the warning to be accepted.
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body dto.RegisterEnrollmentRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /inscripciones [post]
func (h *EnrollmentHandler) Register(c *gin.Context) {
	var req dto.RegisterEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation, "invalid enrollment payload"))
		return
	}
	if !req.AcceptWarning {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "the warning must be accepted before enrolling"))
		return
	}
	detail, err := h.enrollments.Register(c.Request.Context(), req.Document, req.ClubID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, detail)
}

// Status godoc
// @Summary Look up the active enrollment of a document
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body dto.EnrollmentStatusRequest true "Lookup payload"
// @Success 200 {object} response.Envelope
// @Router /inscripciones/consulta [post]
func (h *EnrollmentHandler) Status(c *gin.Context) {
	var req dto.EnrollmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation, "invalid lookup payload"))
		return
	}
	status, err := h.enrollments.CheckStatus(c.Request.Context(), req.Document)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status)
}

// Assign godoc
// @Summary Enroll a student on their behalf
// @Description Same rules as self-registration, without the open-enrollments gate.
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.AssignEnrollmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security AdminAuth
// @Router /admin/inscripciones [post]
func (h *EnrollmentHandler) Assign(c *gin.Context) {
	var req dto.AssignEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation, "invalid assignment payload"))
		return
	}
	detail, err := h.enrollments.AdminAssign(c.Request.Context(), req.Document, req.ClubID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, detail)
}

// Move godoc
// @Summary Move an active enrollment to another club of the same sede
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param payload body dto.MoveEnrollmentRequest true "Destination club"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security AdminAuth
// @Router /admin/inscripciones/{id}/mover [patch]
func (h *EnrollmentHandler) Move(c *gin.Context) {
	var req dto.MoveEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation, "invalid move payload"))
		return
	}
	detail, err := h.enrollments.Move(c.Request.Context(), c.Param("id"), req.NewClubID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

// Cancel godoc
// @Summary Cancel an enrollment
// @Tags Admin
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security AdminAuth
// @Router /admin/inscripciones/{id} [delete]
func (h *EnrollmentHandler) Cancel(c *gin.Context) {
	detail, err := h.enrollments.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}
