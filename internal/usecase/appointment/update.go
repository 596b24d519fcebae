package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/medspa-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/medspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
)

// UpdateAppointmentInput carries a partial update. Nil fields are left
// unchanged; ServiceIDs is applied only when ServicesSet is true.
type UpdateAppointmentInput struct {
	ActorID *uint
	ID      uint

	StartTime   *time.Time
	MedspaID    *uint
	ServiceIDs  []uint
	ServicesSet bool
	Status      *string
}

type UpdateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   Clock
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	now Clock,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		audit: audit,
		now:   defaultClock(now),
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.ID)
	if err != nil {
		return nil, appointmentNotFound(err, in.ID)
	}

	changes := map[string]any{}

	// only a changed start time is checked against now, so existing
	// appointments in the past can still be edited
	if in.StartTime != nil && !in.StartTime.Equal(ap.StartTime) {
		if err := domain.ValidateStartTime(*in.StartTime, uc.now()); err != nil {
			return nil, err
		}
		ap.StartTime = *in.StartTime
		changes["start_time"] = in.StartTime
	}

	medspaChanged := false
	if in.MedspaID != nil {
		medspa, err := loadMedspa(ctx, uc.repo, *in.MedspaID)
		if err != nil {
			return nil, err
		}
		medspaChanged = medspa.ID != ap.MedspaID
		ap.MedspaID = medspa.ID
		changes["medspa"] = medspa.ID
	}

	if in.Status != nil {
		status, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		ap.Status = string(status)
		changes["status"] = status
	}

	var replaceIDs []uint
	if in.ServicesSet || medspaChanged {
		ids := in.ServiceIDs
		if !in.ServicesSet {
			ids = linkedServiceIDs(ap)
		}

		services, err := resolveServices(ctx, uc.repo, ap.MedspaID, ids)
		if err != nil {
			return nil, err
		}

		domain.ApplyTotals(ap, services)
		replaceIDs = ids
		changes["services"] = ids
	}

	if err := uc.repo.SaveAppointment(ctx, ap, replaceIDs); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		MedspaID: audit.UintPtr(ap.MedspaID),
		UserID:   in.ActorID,
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: audit.UintPtr(ap.ID),
		Metadata: changes,
	})

	return uc.repo.GetAppointment(ctx, ap.ID)
}
