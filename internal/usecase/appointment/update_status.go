package appointment

import (
	"context"

	"github.com/BruksfildServices01/medspa-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/medspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medspa-scheduler/internal/metrics"
	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
)

type UpdateStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateStatus {
	return &UpdateStatus{
		repo:  repo,
		audit: audit,
	}
}

// Execute sets the status to any member of the status set, regardless of
// the current one.
func (uc *UpdateStatus) Execute(
	ctx context.Context,
	actorID *uint,
	appointmentID uint,
	rawStatus string,
) (*models.Appointment, error) {

	status, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, appointmentNotFound(err, appointmentID)
	}

	previous := ap.Status

	if err := uc.repo.UpdateStatus(ctx, ap.ID, status); err != nil {
		return nil, err
	}
	ap.Status = string(status)

	metrics.StatusChanged(string(status))
	uc.audit.Dispatch(audit.Event{
		MedspaID: audit.UintPtr(ap.MedspaID),
		UserID:   actorID,
		Action:   "appointment_status_updated",
		Entity:   "appointment",
		EntityID: audit.UintPtr(ap.ID),
		Metadata: map[string]any{
			"from": previous,
			"to":   status,
		},
	})

	return ap, nil
}
