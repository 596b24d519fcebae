package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
)

var publicPrefixes = []string{"/api/token/"}

// RequestValidation guards /api routes: write methods must carry JSON
// (multipart uploads excepted) within the size cap, and every route
// outside token issuance needs an Authorization header.
func RequestValidation(maxBody int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !strings.HasPrefix(path, "/api/") {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			if !checkBody(c, maxBody) {
				return
			}
		}

		if !isPublic(path) && c.GetHeader("Authorization") == "" {
			httperr.Write(c, http.StatusBadRequest, httperr.TypeValidation,
				"The following headers are required: Authorization")
			return
		}

		c.Next()
	}
}

func checkBody(c *gin.Context, maxBody int64) bool {
	if c.Request.ContentLength > maxBody {
		tooLarge(c, maxBody)
		return false
	}

	ct := c.ContentType()
	if ct == gin.MIMEMultipartPOSTForm {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBody)
		return true
	}
	if ct != gin.MIMEJSON {
		httperr.Write(c, http.StatusUnsupportedMediaType, httperr.TypeMediaType, "Request must be application/json")
		return false
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBody+1))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			tooLarge(c, maxBody)
			return false
		}
		httperr.InvalidJSON(c)
		return false
	}
	if int64(len(body)) > maxBody {
		tooLarge(c, maxBody)
		return false
	}
	if len(bytes.TrimSpace(body)) > 0 && !json.Valid(body) {
		httperr.InvalidJSON(c)
		return false
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	return true
}

func tooLarge(c *gin.Context, maxBody int64) {
	httperr.Write(c, http.StatusRequestEntityTooLarge, httperr.TypeTooLarge,
		fmt.Sprintf("Request payload must not exceed %d bytes", maxBody))
}

func isPublic(path string) bool {
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
