package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, HTTPError) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Respond(c, zap.NewNop(), err)

	var body HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRespond_BusinessValidation(t *testing.T) {
	err := FieldError("start_time", "past_start_time", "Appointment start time cannot be in the past")

	w, body := respond(t, fmt.Errorf("create: %w", err))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation Error", body.Error)
	assert.Equal(t, TypeValidation, body.Type)
	assert.Equal(t, "Appointment start time cannot be in the past", body.Detail)
	assert.Contains(t, body.Fields, "start_time")
}

func TestRespond_NotFound(t *testing.T) {
	w, body := respond(t, gorm.ErrRecordNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, TypeNotFound, body.Type)
}

func TestRespond_IntegrityErrors(t *testing.T) {
	for _, code := range []string{"23505", "23503", "23P01"} {
		w, body := respond(t, &pgconn.PgError{Code: code})

		assert.Equal(t, http.StatusConflict, w.Code, code)
		assert.Equal(t, TypeIntegrity, body.Type, code)
	}
}

func TestRespond_UnknownErrorHidesInternals(t *testing.T) {
	w, body := respond(t, errors.New("pq: relation secret_table does not exist"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, TypeServer, body.Type)
	assert.NotContains(t, w.Body.String(), "secret_table")
}

func TestIsBusiness(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrBusiness("invalid_status"))

	assert.True(t, IsBusiness(err, "invalid_status"))
	assert.False(t, IsBusiness(err, "other"))
	assert.False(t, IsBusiness(errors.New("x"), "invalid_status"))
}

func TestWithFieldDoesNotShareMaps(t *testing.T) {
	base := Validation("bad", "bad")
	a := base.WithField("a", "x")
	b := a.WithField("b", "y")

	assert.Len(t, a.Fields, 1)
	assert.Len(t, b.Fields, 2)
}
