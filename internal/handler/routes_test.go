package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresdelrio/clubs/internal/dto"
	"github.com/andresdelrio/clubs/internal/middleware"
	"github.com/andresdelrio/clubs/internal/models"
	"github.com/andresdelrio/clubs/internal/service"
	appErrors "github.com/andresdelrio/clubs/pkg/errors"
)

type routesFixture struct {
	router      *gin.Engine
	enrollments *enrollmentServiceMock
	config      *gateConfigMock
}

type gateConfigMock struct {
	configurationServiceMock
}

func (m *gateConfigMock) RequireEnrollmentsOpen(ctx context.Context) error {
	if !m.enabled {
		return appErrors.Clone(appErrors.ErrEnrollmentsClosed, "")
	}
	return nil
}

func buildRouter(t *testing.T) routesFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth := service.NewAuthService(service.AuthConfig{AccessCode: "s3cret", TokenSecret: "key"}, nil)
	enrollments := &enrollmentServiceMock{detail: &models.EnrollmentDetail{Enrollment: models.Enrollment{ID: "e1"}}}
	cfg := &gateConfigMock{}

	router := gin.New()
	Routes{
		Clubs:           NewClubHandler(&clubServiceMock{}),
		Enrollments:     NewEnrollmentHandler(enrollments),
		Students:        NewStudentHandler(&studentServiceMock{}, 1024),
		Configuration:   NewConfigurationHandler(cfg),
		Reports:         NewReportHandler(&reportServiceMock{}),
		Auth:            NewAuthHandler(auth),
		RequireAdmin:    middleware.AdminAuth(auth),
		EnrollmentsOpen: middleware.EnrollmentsOpen(cfg),
	}.Register(router.Group("/api"))
	return routesFixture{router: router, enrollments: enrollments, config: cfg}
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRoutesPublicRegistrationGate(t *testing.T) {
	f := buildRouter(t)
	payload := `{"document":"A-1","clubId":"c1","acceptWarning":true}`

	req, _ := http.NewRequest(http.MethodPost, "/api/inscripciones", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(f.router, req)
	require.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "ENROLLMENTS_CLOSED")
	assert.Zero(t, f.enrollments.calls)

	f.config.enabled = true
	req, _ = http.NewRequest(http.MethodPost, "/api/inscripciones", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp = performRequest(f.router, req)
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, 1, f.enrollments.calls)
}

func TestRoutesAdminSurfaceRequiresCredentials(t *testing.T) {
	f := buildRouter(t)

	for _, target := range []struct{ method, path string }{
		{http.MethodGet, "/api/admin/ping"},
		{http.MethodPost, "/api/admin/inscripciones"},
		{http.MethodDelete, "/api/admin/clubs/c1"},
		{http.MethodGet, "/api/reportes/inscripciones"},
		{http.MethodPatch, "/api/configuracion/inscripciones"},
	} {
		req, _ := http.NewRequest(target.method, target.path, nil)
		resp := performRequest(f.router, req)
		assert.Equal(t, http.StatusUnauthorized, resp.Code, target.path)
	}

	req, _ := http.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set(middleware.AdminCodeHeader, "s3cret")
	resp := performRequest(f.router, req)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestRoutesAdminLoginThenToken(t *testing.T) {
	f := buildRouter(t)

	req, _ := http.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewBufferString(`{"code":"s3cret"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(f.router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	var session dto.AdminLoginResponse
	decodeEnvelope(t, resp, &session)
	require.NotEmpty(t, session.Token)

	req, _ = http.NewRequest(http.MethodDelete, "/api/admin/inscripciones/e1", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	resp = performRequest(f.router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "e1", f.enrollments.lastID)
}

func TestRoutesPublicFlagIsOpen(t *testing.T) {
	f := buildRouter(t)
	req, _ := http.NewRequest(http.MethodGet, "/api/configuracion/inscripciones-habilitadas", nil)
	resp := performRequest(f.router, req)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"enabled":false`)
}
