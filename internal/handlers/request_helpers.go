package handlers

import (
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
)

const fieldRequired = "This field is required."

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// pathID reads the :id route parameter. Non-numeric ids are treated as
// unknown resources.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.NotFound(c, "Not found.")
		return 0, false
	}
	return uint(id), true
}

// queryUint reads an optional numeric query parameter.
func queryUint(c *gin.Context, key string) (*uint, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.WriteFields(c, httperr.TypeValidation, "Invalid query parameter: "+key,
			map[string][]string{key: {"A valid integer is required."}})
		return nil, false
	}
	v := uint(n)
	return &v, true
}

// bindJSON decodes the body into dst and writes the error envelope on
// failure.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := map[string][]string{}
		for _, fe := range verrs {
			fields[fe.Field()] = append(fields[fe.Field()], validationMessage(fe))
		}
		httperr.WriteFields(c, httperr.TypeValidation, "Invalid input.", fields)
		return false
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		httperr.WriteFields(c, httperr.TypeValidation, "Invalid input.",
			map[string][]string{typeErr.Field: {"Invalid value type."}})
		return false
	}

	httperr.InvalidJSON(c)
	return false
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fieldRequired
	case "max":
		return "Ensure this field has no more than " + fe.Param() + " characters."
	case "min":
		return "Ensure this field has at least " + fe.Param() + " characters."
	case "email":
		return "Enter a valid email address."
	default:
		return "Invalid value."
	}
}

// requireFields reports missing request fields as one validation error.
func requireFields(c *gin.Context, present map[string]bool) bool {
	var missing []string
	for name, ok := range present {
		if !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return true
	}

	fields := make(map[string][]string, len(missing))
	for _, name := range missing {
		fields[name] = []string{fieldRequired}
	}
	httperr.WriteFields(c, httperr.TypeValidation, "Missing required fields", fields)
	return false
}

// startAction logs the start of a named action and returns a func that
// logs its outcome.
func startAction(log *zap.Logger, c *gin.Context, action string) func(error) {
	start := time.Now()
	base := []zap.Field{
		zap.String("action", action),
		zap.String("path", c.Request.URL.Path),
	}
	log.Info("action started", base...)

	return func(err error) {
		fields := append(base, zap.Duration("duration", time.Since(start)))
		if err != nil {
			log.Warn("action failed", append(fields, zap.Error(err))...)
			return
		}
		log.Info("action completed", fields...)
	}
}
