package httperr

import (
	"errors"
	"fmt"
)

// Error types used in the "type" field of the envelope.
const (
	TypeValidation     = "validation_error"
	TypeJSON           = "json_error"
	TypeNotFound       = "not_found"
	TypeIntegrity      = "integrity_error"
	TypeAuthentication = "authentication_error"
	TypePermission     = "permission_denied"
	TypeMediaType      = "unsupported_media_type"
	TypeTooLarge       = "payload_too_large"
	TypeRateLimited    = "rate_limited"
	TypeUnavailable    = "service_unavailable"
	TypeServer         = "server_error"
)

type BusinessError struct {
	Type   string
	Code   string
	Detail string
	Fields map[string][]string
}

func (e BusinessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Detail)
	}
	return e.Code
}

// WithField attaches a per-field message, returned under "fields".
func (e BusinessError) WithField(field, msg string) BusinessError {
	fields := make(map[string][]string, len(e.Fields)+1)
	for k, v := range e.Fields {
		fields[k] = v
	}
	fields[field] = append(fields[field], msg)
	e.Fields = fields
	return e
}

func ErrBusiness(code string) error {
	return BusinessError{Type: TypeValidation, Code: code}
}

func Validation(code, detail string) BusinessError {
	return BusinessError{Type: TypeValidation, Code: code, Detail: detail}
}

func FieldError(field, code, detail string) BusinessError {
	return Validation(code, detail).WithField(field, detail)
}

func NotFoundError(code, detail string) BusinessError {
	return BusinessError{Type: TypeNotFound, Code: code, Detail: detail}
}

func Conflict(code, detail string) BusinessError {
	return BusinessError{Type: TypeIntegrity, Code: code, Detail: detail}
}

func Unavailable(code, detail string) BusinessError {
	return BusinessError{Type: TypeUnavailable, Code: code, Detail: detail}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
