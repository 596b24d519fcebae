package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/medspa-scheduler/internal/middleware"
	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
	"github.com/BruksfildServices01/medspa-scheduler/internal/timezone"
)

var fixedNow = time.Date(2030, 6, 2, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func init() {
	gin.SetMode(gin.TestMode)
	timezone.SetBusiness("UTC")
}

// asUser stands in for the auth middleware.
func asUser(id uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Set(middleware.ContextUsername, "ana")
		c.Set(middleware.ContextUserRole, role)
		c.Next()
	}
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(asUser(1, models.RoleAdmin))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
