package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type HTTPError struct {
	Error  string              `json:"error"`
	Detail string              `json:"detail"`
	Type   string              `json:"type"`
	Fields map[string][]string `json:"fields,omitempty"`
}

var titles = map[string]string{
	TypeValidation:     "Validation Error",
	TypeJSON:           "Invalid JSON",
	TypeNotFound:       "Not Found",
	TypeIntegrity:      "Data Integrity Error",
	TypeAuthentication: "Authentication Error",
	TypePermission:     "Permission Denied",
	TypeMediaType:      "Invalid Content-Type",
	TypeTooLarge:       "Payload Too Large",
	TypeRateLimited:    "Rate limit exceeded",
	TypeUnavailable:    "Service Unavailable",
	TypeServer:         "Internal Server Error",
}

var statuses = map[string]int{
	TypeValidation:     http.StatusBadRequest,
	TypeJSON:           http.StatusBadRequest,
	TypeNotFound:       http.StatusNotFound,
	TypeIntegrity:      http.StatusConflict,
	TypeAuthentication: http.StatusUnauthorized,
	TypePermission:     http.StatusForbidden,
	TypeMediaType:      http.StatusUnsupportedMediaType,
	TypeTooLarge:       http.StatusRequestEntityTooLarge,
	TypeRateLimited:    http.StatusTooManyRequests,
	TypeUnavailable:    http.StatusServiceUnavailable,
	TypeServer:         http.StatusInternalServerError,
}

func StatusFor(errType string) int {
	if s, ok := statuses[errType]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func Write(c *gin.Context, status int, errType, detail string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Error:  title(errType),
		Detail: detail,
		Type:   errType,
	})
}

func WriteFields(c *gin.Context, errType, detail string, fields map[string][]string) {
	c.AbortWithStatusJSON(StatusFor(errType), HTTPError{
		Error:  title(errType),
		Detail: detail,
		Type:   errType,
		Fields: fields,
	})
}

func BadRequest(c *gin.Context, detail string) {
	Write(c, http.StatusBadRequest, TypeValidation, detail)
}

func InvalidJSON(c *gin.Context) {
	Write(c, http.StatusBadRequest, TypeJSON, "The request contains invalid JSON data")
}

func NotFound(c *gin.Context, detail string) {
	Write(c, http.StatusNotFound, TypeNotFound, detail)
}

func Internal(c *gin.Context) {
	Write(c, http.StatusInternalServerError, TypeServer, "An unexpected error occurred")
}

func Unauthorized(c *gin.Context, detail string) {
	Write(c, http.StatusUnauthorized, TypeAuthentication, detail)
}

func Forbidden(c *gin.Context, detail string) {
	Write(c, http.StatusForbidden, TypePermission, detail)
}

// Respond maps an error coming out of a use case or repository to the
// envelope. Unknown errors are logged with a stack trace and reported as
// a generic server error.
func Respond(c *gin.Context, log *zap.Logger, err error) {
	if be, ok := AsBusiness(err); ok {
		detail := be.Detail
		if detail == "" {
			detail = be.Code
		}
		WriteFields(c, be.Type, detail, be.Fields)
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "Not found.")
		return
	}

	if IsIntegrityViolation(err) {
		if log != nil {
			log.Warn("database integrity error", zap.Error(err))
		}
		Write(c, http.StatusConflict, TypeIntegrity, "The operation could not be completed due to a data conflict")
		return
	}

	if log != nil {
		log.Error("unexpected error",
			zap.Error(err),
			zap.String("path", c.FullPath()),
			zap.Stack("stack"),
		)
	}
	Internal(c)
}

func title(errType string) string {
	if t, ok := titles[errType]; ok {
		return t
	}
	return titles[TypeServer]
}
