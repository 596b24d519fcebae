package appointment

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/medspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
	"github.com/BruksfildServices01/medspa-scheduler/internal/timezone"
)

type ListAppointmentsInput struct {
	Status   string
	Date     string
	MedspaID *uint
}

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// Execute lists appointments ordered by start time. A malformed date
// filter is ignored rather than rejected.
func (uc *ListAppointments) Execute(
	ctx context.Context,
	in ListAppointmentsInput,
) ([]models.Appointment, error) {

	f := domain.ListFilter{
		Status:   strings.TrimSpace(in.Status),
		MedspaID: in.MedspaID,
	}

	if in.Date != "" {
		if day, err := timezone.ParseDate(in.Date); err == nil {
			start, end := timezone.DayBounds(day, timezone.Business())
			f.DayStart, f.DayEnd = &start, &end
		}
	}

	return uc.repo.ListAppointments(ctx, f)
}

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func (uc *GetAppointment) Execute(ctx context.Context, id uint) (*models.Appointment, error) {
	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, appointmentNotFound(err, id)
	}
	return ap, nil
}
