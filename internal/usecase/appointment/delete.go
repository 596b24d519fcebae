package appointment

import (
	"context"

	"github.com/BruksfildServices01/medspa-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/medspa-scheduler/internal/domain/appointment"
)

type DeleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteAppointment(repo domain.Repository, audit *audit.Dispatcher) *DeleteAppointment {
	return &DeleteAppointment{repo: repo, audit: audit}
}

func (uc *DeleteAppointment) Execute(ctx context.Context, actorID *uint, id uint) error {
	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return appointmentNotFound(err, id)
	}

	if err := uc.repo.DeleteAppointment(ctx, id); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		MedspaID: audit.UintPtr(ap.MedspaID),
		UserID:   actorID,
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: audit.UintPtr(id),
	})
	return nil
}
