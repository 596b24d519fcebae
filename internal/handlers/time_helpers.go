package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/BruksfildServices01/medspa-scheduler/internal/timezone"
)

var errInvalidDateTime = errors.New("invalid datetime")

// layouts without an offset are read in the business timezone
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseStartTime accepts RFC 3339 timestamps and offset-less local ones.
func parseStartTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errInvalidDateTime
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}

	loc := timezone.Business()
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errInvalidDateTime
}
