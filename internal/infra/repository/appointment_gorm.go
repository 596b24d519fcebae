package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/medspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Medspa / Services
// --------------------------------------------------

func (r *AppointmentGormRepository) GetMedspa(
	ctx context.Context,
	id uint,
) (*models.Medspa, error) {

	var m models.Medspa
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *AppointmentGormRepository) GetServicesByIDs(
	ctx context.Context,
	ids []uint,
) ([]models.Service, error) {

	var services []models.Service
	if len(ids) == 0 {
		return services, nil
	}

	if err := r.db.WithContext(ctx).
		Preload("ServiceType").
		Where("id IN ?", ids).
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Appointment (write)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	serviceIDs []uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(ap).Error; err != nil {
			return err
		}
		return insertLinks(tx, ap.ID, serviceIDs)
	})
}

func (r *AppointmentGormRepository) SaveAppointment(
	ctx context.Context,
	ap *models.Appointment,
	serviceIDs []uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Appointment{}).
			Where("id = ?", ap.ID).
			Updates(map[string]any{
				"medspa_id":      ap.MedspaID,
				"start_time":     ap.StartTime,
				"status":         ap.Status,
				"total_price":    ap.TotalPrice,
				"total_duration": ap.TotalDuration,
				"updated_at":     time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if serviceIDs == nil {
			return nil
		}

		if err := tx.
			Where("appointment_id = ?", ap.ID).
			Delete(&models.AppointmentService{}).Error; err != nil {
			return err
		}
		return insertLinks(tx, ap.ID, serviceIDs)
	})
}

func insertLinks(tx *gorm.DB, appointmentID uint, serviceIDs []uint) error {
	if len(serviceIDs) == 0 {
		return nil
	}
	links := make([]models.AppointmentService, 0, len(serviceIDs))
	for _, sid := range serviceIDs {
		links = append(links, models.AppointmentService{
			AppointmentID: appointmentID,
			ServiceID:     sid,
		})
	}
	return tx.Omit(clause.Associations).Create(&links).Error
}

func (r *AppointmentGormRepository) UpdateStatus(
	ctx context.Context,
	id uint,
	status domain.Status,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	id uint,
) error {

	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *AppointmentGormRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Medspa").
		Preload("Services", func(db *gorm.DB) *gorm.DB {
			return db.Order("appointment_service.id ASC")
		}).
		Preload("Services.Service").
		Preload("Services.Service.Category").
		Preload("Services.Service.ServiceType")
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.withRelations(ctx).First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, error) {

	q := r.withRelations(ctx)

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.MedspaID != nil {
		q = q.Where("medspa_id = ?", *f.MedspaID)
	}
	if f.DayStart != nil {
		q = q.Where("start_time >= ?", *f.DayStart)
	}
	if f.DayEnd != nil {
		q = q.Where("start_time < ?", *f.DayEnd)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC, id ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) ListBookingsForDay(
	ctx context.Context,
	medspaID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "start_time", "total_duration").
		Where(
			"medspa_id = ? AND status <> ? AND start_time >= ? AND start_time < ?",
			medspaID, string(domain.StatusCanceled), start, end,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
