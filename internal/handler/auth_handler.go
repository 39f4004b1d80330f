package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresdelrio/clubs/internal/dto"
	appErrors "github.com/andresdelrio/clubs/pkg/errors"
	"github.com/andresdelrio/clubs/pkg/response"
)

type adminAuthService interface {
	Login(req dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service adminAuthService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc adminAuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Exchange the admin code for a session token
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.AdminLoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation, "invalid login payload"))
		return
	}
	res, err := h.service.Login(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Ping godoc
// @Summary Check admin credentials
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Security AdminAuth
// @Router /admin/ping [get]
func (h *AuthHandler) Ping(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"ok": true})
}
