package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresdelrio/clubs/internal/dto"
	"github.com/andresdelrio/clubs/internal/models"
	appErrors "github.com/andresdelrio/clubs/pkg/errors"
)

type enrollmentServiceMock struct {
	detail   *models.EnrollmentDetail
	err      error
	calls    int
	lastDoc  string
	lastClub string
	lastID   string
	status   *dto.EnrollmentStatus
}

func (m *enrollmentServiceMock) Register(ctx context.Context, document, clubID string) (*models.EnrollmentDetail, error) {
	m.calls++
	m.lastDoc, m.lastClub = document, clubID
	return m.detail, m.err
}

func (m *enrollmentServiceMock) AdminAssign(ctx context.Context, document, clubID string) (*models.EnrollmentDetail, error) {
	m.calls++
	m.lastDoc, m.lastClub = document, clubID
	return m.detail, m.err
}

func (m *enrollmentServiceMock) Move(ctx context.Context, enrollmentID, newClubID string) (*models.EnrollmentDetail, error) {
	m.calls++
	m.lastID, m.lastClub = enrollmentID, newClubID
	return m.detail, m.err
}

func (m *enrollmentServiceMock) Cancel(ctx context.Context, enrollmentID string) (*models.EnrollmentDetail, error) {
	m.calls++
	m.lastID = enrollmentID
	return m.detail, m.err
}

func (m *enrollmentServiceMock) CheckStatus(ctx context.Context, document string) (*dto.EnrollmentStatus, error) {
	m.calls++
	m.lastDoc = document
	return m.status, m.err
}

func TestEnrollmentHandlerRegisterRequiresWarning(t *testing.T) {
	svc := &enrollmentServiceMock{}
	handler := NewEnrollmentHandler(svc)

	body, _ := json.Marshal(dto.RegisterEnrollmentRequest{Document: "A-1", ClubID: "club"})
	c, w := newGinContext(http.MethodPost, "/inscripciones", body)
	handler.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.calls)
}

func TestEnrollmentHandlerRegisterCreated(t *testing.T) {
	svc := &enrollmentServiceMock{detail: &models.EnrollmentDetail{Enrollment: models.Enrollment{ID: "e1", State: models.EnrollmentStateActive}, ClubName: "Ajedrez"}}
	handler := NewEnrollmentHandler(svc)

	c, w := newGinContext(http.MethodPost, "/inscripciones", []byte(`{"document":"a-1","clubId":"c1","acceptWarning":true}`))
	handler.Register(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "a-1", svc.lastDoc)
	assert.Equal(t, "c1", svc.lastClub)
	var detail models.EnrollmentDetail
	decodeEnvelope(t, w, &detail)
	assert.Equal(t, "e1", detail.ID)
}

func TestEnrollmentHandlerMapsConflicts(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
		code   string
	}{
		"full":        {appErrors.Clone(appErrors.ErrClubFull, ""), http.StatusConflict, "CLUB_FULL"},
		"unknown":     {appErrors.Clone(appErrors.ErrNotFound, "club not found"), http.StatusNotFound, "NOT_FOUND"},
		"unavailable": {appErrors.Clone(appErrors.ErrUnavailable, ""), http.StatusServiceUnavailable, "UNAVAILABLE"},
		"cross sede":  {appErrors.Clone(appErrors.ErrCrossSedeMove, ""), http.StatusConflict, "CROSS_SEDE_MOVE"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			handler := NewEnrollmentHandler(&enrollmentServiceMock{err: tc.err})
			c, w := newGinContext(http.MethodPatch, "/admin/inscripciones/e1/mover", []byte(`{"newClubId":"c2"}`))
			c.Params = gin.Params{{Key: "id", Value: "e1"}}
			handler.Move(c)

			require.Equal(t, tc.status, w.Code)
			env := decodeEnvelope(t, w, nil)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
}

func TestEnrollmentHandlerCancelAndStatus(t *testing.T) {
	svc := &enrollmentServiceMock{
		detail: &models.EnrollmentDetail{Enrollment: models.Enrollment{ID: "e1", State: models.EnrollmentStateCancelled}},
		status: &dto.EnrollmentStatus{Enrolled: false},
	}
	handler := NewEnrollmentHandler(svc)

	c, w := newGinContext(http.MethodDelete, "/admin/inscripciones/e1", nil)
	c.Params = gin.Params{{Key: "id", Value: "e1"}}
	handler.Cancel(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "e1", svc.lastID)

	c, w = newGinContext(http.MethodPost, "/inscripciones/consulta", []byte(`{"document":"X-9"}`))
	handler.Status(c)
	require.Equal(t, http.StatusOK, w.Code)
	var status dto.EnrollmentStatus
	decodeEnvelope(t, w, &status)
	assert.False(t, status.Enrolled)
	assert.Equal(t, "X-9", svc.lastDoc)
}

func TestEnrollmentHandlerAssignInvalidBody(t *testing.T) {
	svc := &enrollmentServiceMock{}
	c, w := newGinContext(http.MethodPost, "/admin/inscripciones", []byte(`{`))
	NewEnrollmentHandler(svc).Assign(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.calls)
}
