package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/medspa-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/medspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medspa-scheduler/internal/metrics"
	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ActorID *uint

	MedspaID   uint
	StartTime  time.Time
	ServiceIDs []uint
	Status     string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   Clock
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	now Clock,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
		now:   defaultClock(now),
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// Start time
	// --------------------------------------------------
	if err := domain.ValidateStartTime(in.StartTime, uc.now()); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Medspa
	// --------------------------------------------------
	medspa, err := loadMedspa(ctx, uc.repo, in.MedspaID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Status
	// --------------------------------------------------
	status := domain.InitialStatus()
	if in.Status != "" {
		if status, err = domain.ParseStatus(in.Status); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// Services + totals
	// --------------------------------------------------
	services, err := resolveServices(ctx, uc.repo, medspa.ID, in.ServiceIDs)
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		MedspaID:  medspa.ID,
		StartTime: in.StartTime,
		Status:    string(status),
	}
	domain.ApplyTotals(ap, services)

	if err := uc.repo.CreateAppointment(ctx, ap, in.ServiceIDs); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Audit
	// --------------------------------------------------
	metrics.AppointmentCreated()
	uc.audit.Dispatch(audit.Event{
		MedspaID: &medspa.ID,
		UserID:   in.ActorID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: audit.UintPtr(ap.ID),
		Metadata: map[string]any{
			"total_price":    ap.TotalPrice.StringFixed(2),
			"total_duration": ap.TotalDuration,
		},
	})

	created, err := uc.repo.GetAppointment(ctx, ap.ID)
	if err != nil {
		return nil, err
	}
	return created, nil
}
