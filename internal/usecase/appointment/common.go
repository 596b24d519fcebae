package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/medspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
	"github.com/BruksfildServices01/medspa-scheduler/internal/timezone"
)

// Clock returns the current time. Use cases default to timezone.Now.
type Clock func() time.Time

func appointmentNotFound(err error, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.NotFoundError("appointment_not_found", fmt.Sprintf("Appointment %d not found", id))
	}
	return err
}

// loadMedspa resolves a medspa referenced from a request body. A missing
// medspa is a validation error on the "medspa" field.
func loadMedspa(ctx context.Context, repo domain.Repository, id uint) (*models.Medspa, error) {
	if id == 0 {
		return nil, httperr.FieldError("medspa", "medspa_required", "medspa is required")
	}
	m, err := repo.GetMedspa(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.FieldError("medspa", "medspa_not_found", fmt.Sprintf("Medspa with id %d does not exist", id))
		}
		return nil, err
	}
	return m, nil
}

// resolveServices validates ids and the services behind them for the
// medspa, returning them in request order.
func resolveServices(ctx context.Context, repo domain.Repository, medspaID uint, ids []uint) ([]models.Service, error) {
	if err := domain.ValidateServiceIDs(ids); err != nil {
		return nil, err
	}

	services, err := repo.GetServicesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateServicesForMedspa(medspaID, ids, services); err != nil {
		return nil, err
	}

	return domain.OrderServices(ids, services), nil
}

func linkedServices(ap *models.Appointment) []models.Service {
	out := make([]models.Service, 0, len(ap.Services))
	for _, link := range ap.Services {
		out = append(out, link.Service)
	}
	return out
}

func linkedServiceIDs(ap *models.Appointment) []uint {
	out := make([]uint, 0, len(ap.Services))
	for _, link := range ap.Services {
		out = append(out, link.ServiceID)
	}
	return out
}

func defaultClock(c Clock) Clock {
	if c == nil {
		return timezone.Now
	}
	return c
}
