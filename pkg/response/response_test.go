package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/andresdelrio/clubs/pkg/errors"
)

func TestErrorMapsKindToStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[*appErrors.Error]int{
		appErrors.ErrValidation:   http.StatusBadRequest,
		appErrors.ErrNotFound:     http.StatusNotFound,
		appErrors.ErrClubFull:     http.StatusConflict,
		appErrors.ErrUnavailable:  http.StatusServiceUnavailable,
		appErrors.ErrUnauthorized: http.StatusUnauthorized,
	}
	for appErr, status := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		Error(c, appErr)
		assert.Equal(t, status, w.Code, appErr.Code)

		var body Envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotNil(t, body.Error)
		assert.Equal(t, appErr.Code, body.Error.Code)
	}
}

func TestErrorHidesForeignErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Error(c, errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}
