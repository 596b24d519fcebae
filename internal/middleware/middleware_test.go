package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/medspa-scheduler/internal/config"
	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
	"github.com/BruksfildServices01/medspa-scheduler/internal/ratelimit"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func token(t *testing.T, role, typ string, ttl time.Duration) string {
	t.Helper()
	tok, err := SignToken(secret, 7, "ana", role, typ, ttl, time.Now())
	require.NoError(t, err)
	return tok
}

// ======================================================
// AUTH
// ======================================================

func authEngine() *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(&config.Config{JWTSecret: secret}))
	r.GET("/x", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": *UserID(c), "role": Role(c)})
	})
	return r
}

func TestAuth_AcceptsAccessToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, models.RoleStaff, TokenAccess, time.Hour))

	w := serve(authEngine(), req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":7,"role":"staff"}`, w.Body.String())
}

func TestAuth_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing": "",
		"scheme":  "Token abc",
		"garbage": "Bearer abc.def.ghi",
		"refresh": "Bearer " + token(t, models.RoleStaff, TokenRefresh, time.Hour),
		"expired": "Bearer " + token(t, models.RoleStaff, TokenAccess, -time.Minute),
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := serve(authEngine(), req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"type":"authentication_error"`)
		})
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	tok := token(t, models.RoleAdmin, TokenAccess, time.Hour)
	_, err := ParseToken("other", tok, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// ======================================================
// PERMISSIONS
// ======================================================

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(models.RoleAdmin, PermCreateMedspa))
	assert.True(t, HasPermission(models.RoleStaff, PermCreateAppointment))
	assert.True(t, HasPermission(models.RoleStaff, PermUpdateAppointment))
	assert.False(t, HasPermission(models.RoleStaff, PermCreateService))
	assert.False(t, HasPermission("", PermCreateAppointment))
}

func TestRequirePermissions(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(ContextUserRole, c.GetHeader("X-Role")) })
	r.POST("/medspas", RequirePermissions(PermCreateMedspa), func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodPost, "/medspas", nil)
	req.Header.Set("X-Role", models.RoleStaff)
	w := serve(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"permission_denied"`)

	req = httptest.NewRequest(http.MethodPost, "/medspas", nil)
	req.Header.Set("X-Role", models.RoleAdmin)
	assert.Equal(t, http.StatusCreated, serve(r, req).Code)
}

// ======================================================
// CORS
// ======================================================

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.example"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example")
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

// ======================================================
// REQUEST VALIDATION
// ======================================================

func validationEngine() *gin.Engine {
	r := gin.New()
	r.Use(RequestValidation(64))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.POST("/api/token/", ok)
	r.POST("/api/medspas", ok)
	r.POST("/api/services/:id/image", ok)
	r.GET("/api/medspas", ok)
	r.GET("/health", ok)
	return r
}

func TestRequestValidation(t *testing.T) {
	cases := []struct {
		name   string
		method string
		path   string
		ctype  string
		body   string
		auth   bool
		want   int
		typ    string
	}{
		{"health is open", http.MethodGet, "/health", "", "", false, http.StatusOK, ""},
		{"token is public", http.MethodPost, "/api/token/", "application/json", `{}`, false, http.StatusOK, ""},
		{"missing authorization", http.MethodGet, "/api/medspas", "", "", false, http.StatusBadRequest, "validation_error"},
		{"wrong content type", http.MethodPost, "/api/medspas", "text/plain", "hi", true, http.StatusUnsupportedMediaType, "unsupported_media_type"},
		{"invalid json", http.MethodPost, "/api/medspas", "application/json", `{"a":`, true, http.StatusBadRequest, "json_error"},
		{"too large", http.MethodPost, "/api/medspas", "application/json", `{"a":"` + strings.Repeat("x", 100) + `"}`, true, http.StatusRequestEntityTooLarge, "payload_too_large"},
		{"multipart upload", http.MethodPost, "/api/services/1/image", "multipart/form-data; boundary=x", "--x--", true, http.StatusOK, ""},
		{"valid json", http.MethodPost, "/api/medspas", "application/json; charset=utf-8", `{"a":1}`, true, http.StatusOK, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			if tc.ctype != "" {
				req.Header.Set("Content-Type", tc.ctype)
			}
			if tc.auth {
				req.Header.Set("Authorization", "Bearer x")
			}

			w := serve(validationEngine(), req)
			assert.Equal(t, tc.want, w.Code)
			if tc.typ != "" {
				assert.Contains(t, w.Body.String(), `"type":"`+tc.typ+`"`)
			}
		})
	}
}

// ======================================================
// RECOVERY / REQUEST ID / TIMING
// ======================================================

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery(nil))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"server_error"`)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestRequestIDAndTiming(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), AccessLog(nil))
	r.GET("/x", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "abc")
	w := serve(r, req)

	assert.Equal(t, "abc", w.Header().Get(HeaderRequestID))
	assert.True(t, strings.HasSuffix(w.Header().Get(HeaderRequestDuration), "s"))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, w.Header().Get(HeaderRequestID), 36)
}

// ======================================================
// RATE LIMIT
// ======================================================

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(ContextUserID, uint(1)) })
	r.GET("/x", RateLimit(ratelimit.NewLocalLimiter(2, time.Hour), "availability", nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
	}
	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"Rate limit exceeded"`)
}
