package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medspa-scheduler/internal/logging"
	"github.com/BruksfildServices01/medspa-scheduler/internal/metrics"
	"github.com/BruksfildServices01/medspa-scheduler/internal/ratelimit"
)

// RateLimit budgets requests per authenticated user, falling back to the
// client IP. Limiter failures let the request through.
func RateLimit(limiter ratelimit.Limiter, scope string, log *zap.Logger) gin.HandlerFunc {
	log = logging.OrNop(log)

	return func(c *gin.Context) {
		key := scope + ":ip:" + c.ClientIP()
		if uid := UserID(c); uid != nil {
			key = fmt.Sprintf("%s:user:%d", scope, *uid)
		}

		ok, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("rate limiter error", zap.String("scope", scope), zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			metrics.RateLimited(scope)
			httperr.Write(c, http.StatusTooManyRequests, httperr.TypeRateLimited, "Request was throttled. Try again later.")
			return
		}

		c.Next()
	}
}
