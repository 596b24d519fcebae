package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
)

type ListFilter struct {
	Status   string
	MedspaID *uint
	// DayStart/DayEnd bound start_time when set.
	DayStart *time.Time
	DayEnd   *time.Time
}

// Repository is the storage port for appointments. Lookups of missing
// rows return gorm.ErrRecordNotFound.
type Repository interface {
	// -------- Medspa / Services --------
	GetMedspa(ctx context.Context, id uint) (*models.Medspa, error)

	// GetServicesByIDs returns the services that exist among ids with
	// ServiceType loaded. Missing ids are simply absent.
	GetServicesByIDs(ctx context.Context, ids []uint) ([]models.Service, error)

	// -------- Appointment (write) --------

	// CreateAppointment inserts the appointment and its service links in
	// one transaction.
	CreateAppointment(ctx context.Context, ap *models.Appointment, serviceIDs []uint) error

	// SaveAppointment updates the appointment row. When serviceIDs is
	// non-nil the link set is replaced in the same transaction.
	SaveAppointment(ctx context.Context, ap *models.Appointment, serviceIDs []uint) error

	UpdateStatus(ctx context.Context, id uint, status Status) error

	DeleteAppointment(ctx context.Context, id uint) error

	// -------- Appointment (read) --------

	// GetAppointment loads the appointment with Medspa and Services.Service.
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)

	ListAppointments(ctx context.Context, f ListFilter) ([]models.Appointment, error)

	// -------- Availability --------

	// ListBookingsForDay returns non-canceled appointments of the medspa
	// starting in [start, end).
	ListBookingsForDay(ctx context.Context, medspaID uint, start, end time.Time) ([]models.Appointment, error)
}
