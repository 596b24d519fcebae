package appointment

import (
	"fmt"
	"strings"

	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCanceled   Status = "canceled"
	StatusNoShow     Status = "no_show"
)

var allStatuses = []Status{
	StatusScheduled,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCanceled,
	StatusNoShow,
}

func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func (s Status) Valid() bool {
	for _, st := range allStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// ParseStatus validates set membership only. Any member may follow any
// other member.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if !s.Valid() {
		names := make([]string, len(allStatuses))
		for i, st := range allStatuses {
			names[i] = string(st)
		}
		return "", httperr.FieldError(
			"status",
			"invalid_status",
			fmt.Sprintf("Invalid status value. Must be one of: %s", strings.Join(names, ", ")),
		)
	}
	return s, nil
}

func InitialStatus() Status {
	return StatusScheduled
}
