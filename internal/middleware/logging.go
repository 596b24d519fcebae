package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/medspa-scheduler/internal/logging"
)

const (
	HeaderRequestDuration = "X-Request-Duration"
	slowRequest           = time.Second
)

// timingWriter stamps the elapsed time header right before the first
// byte of the response goes out.
type timingWriter struct {
	gin.ResponseWriter
	start time.Time
}

func (w *timingWriter) stamp() {
	if !w.Written() {
		w.Header().Set(HeaderRequestDuration, fmt.Sprintf("%.3fs", time.Since(w.start).Seconds()))
	}
}

func (w *timingWriter) WriteHeaderNow() {
	w.stamp()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *timingWriter) Write(b []byte) (int, error) {
	w.stamp()
	return w.ResponseWriter.Write(b)
}

func (w *timingWriter) WriteString(s string) (int, error) {
	w.stamp()
	return w.ResponseWriter.WriteString(s)
}

// AccessLog writes one structured line per request. Requests slower than
// a second are logged at warn, server errors at error.
func AccessLog(log *zap.Logger) gin.HandlerFunc {
	log = logging.OrNop(log)

	return func(c *gin.Context) {
		start := time.Now()
		c.Writer = &timingWriter{ResponseWriter: c.Writer, start: start}

		c.Next()

		d := time.Since(start)
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.String("request_id", c.GetString(ContextRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", status),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("duration", d),
			zap.String("client_ip", c.ClientIP()),
		}
		if uid := UserID(c); uid != nil {
			fields = append(fields, zap.Uint("user_id", *uid))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.Error("request", fields...)
		case d > slowRequest:
			log.Warn("slow request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
