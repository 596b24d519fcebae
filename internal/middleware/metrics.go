package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/medspa-scheduler/internal/metrics"
)

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.InFlightInc()
		start := time.Now()

		c.Next()

		metrics.InFlightDec()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
