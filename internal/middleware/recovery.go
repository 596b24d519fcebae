package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medspa-scheduler/internal/logging"
)

func Recovery(log *zap.Logger) gin.HandlerFunc {
	log = logging.OrNop(log)

	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.String("panic", fmt.Sprint(r)),
					zap.String("request_id", c.GetString(ContextRequestID)),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				httperr.Internal(c)
			}
		}()
		c.Next()
	}
}
