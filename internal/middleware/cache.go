package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/medspa-scheduler/internal/cache"
)

const HeaderCache = "X-Cache"

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CacheResponse serves successful GET responses from the store for ttl.
func CacheResponse(store *cache.Store, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || !store.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := store.Key(ctx, "resp", c.Request.URL.RequestURI())

		if body, ok := store.Get(ctx, key); ok {
			c.Header(HeaderCache, "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		c.Header(HeaderCache, "MISS")
		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec

		c.Next()

		if rec.Status() == http.StatusOK {
			store.Set(ctx, key, rec.buf.Bytes(), ttl)
		}
	}
}

// InvalidateCache retires cached responses after any successful write.
func InvalidateCache(store *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		if c.Writer.Status() < 400 {
			store.Invalidate(c.Request.Context())
		}
	}
}
