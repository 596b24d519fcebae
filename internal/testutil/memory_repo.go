// Package testutil holds fakes shared by package tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/medspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
)

// MemoryRepo is an in-memory domain.Repository.
type MemoryRepo struct {
	mu     sync.Mutex
	nextID uint

	Medspas      map[uint]models.Medspa
	Services     map[uint]models.Service
	Appointments map[uint]models.Appointment
	Links        map[uint][]uint

	// ErrOnWrite, when set, is returned by every write.
	ErrOnWrite error
}

var _ domain.Repository = (*MemoryRepo)(nil)

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		nextID:       1,
		Medspas:      map[uint]models.Medspa{},
		Services:     map[uint]models.Service{},
		Appointments: map[uint]models.Appointment{},
		Links:        map[uint][]uint{},
	}
}

func (r *MemoryRepo) id() uint {
	id := r.nextID
	r.nextID++
	return id
}

// --------------------------------------------------
// Seeding
// --------------------------------------------------

func (r *MemoryRepo) AddMedspa(name string) models.Medspa {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := models.Medspa{ID: r.id(), Name: name, EmailAddress: name + "@example.com"}
	r.Medspas[m.ID] = m
	return m
}

// AddService stores s with a fresh id. When no ServiceType is set, one
// under s.CategoryID is attached.
func (r *MemoryRepo) AddService(s models.Service) models.Service {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = r.id()
	if s.CategoryID == 0 {
		s.CategoryID = 1
	}
	if s.ServiceType.ID == 0 {
		s.ServiceType = models.ServiceType{ID: 1, CategoryID: s.CategoryID}
	}
	s.ServiceTypeID = s.ServiceType.ID
	r.Services[s.ID] = s
	return s
}

// NewService builds an active service of the medspa.
func NewService(medspaID uint, name, price string, duration int) models.Service {
	return models.Service{
		MedspaID: medspaID,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Duration: duration,
		Active:   true,
	}
}

// AddAppointment stores a booking directly, bypassing validation.
func (r *MemoryRepo) AddAppointment(ap models.Appointment, serviceIDs ...uint) models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()

	ap.ID = r.id()
	r.Appointments[ap.ID] = ap
	r.Links[ap.ID] = append([]uint(nil), serviceIDs...)
	return ap
}

func (r *MemoryRepo) SetServicePrice(id uint, price string, duration int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.Services[id]
	s.Price = decimal.RequireFromString(price)
	s.Duration = duration
	r.Services[id] = s
}

// --------------------------------------------------
// domain.Repository
// --------------------------------------------------

func (r *MemoryRepo) GetMedspa(_ context.Context, id uint) (*models.Medspa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.Medspas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r *MemoryRepo) GetServicesByIDs(_ context.Context, ids []uint) ([]models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Service
	for _, id := range ids {
		if s, ok := r.Services[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *MemoryRepo) CreateAppointment(_ context.Context, ap *models.Appointment, serviceIDs []uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ErrOnWrite != nil {
		return r.ErrOnWrite
	}

	ap.ID = r.id()
	now := time.Now().UTC()
	ap.CreatedAt, ap.UpdatedAt = now, now

	stored := *ap
	stored.Services = nil
	r.Appointments[ap.ID] = stored
	r.Links[ap.ID] = append([]uint(nil), serviceIDs...)
	return nil
}

func (r *MemoryRepo) SaveAppointment(_ context.Context, ap *models.Appointment, serviceIDs []uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ErrOnWrite != nil {
		return r.ErrOnWrite
	}
	if _, ok := r.Appointments[ap.ID]; !ok {
		return gorm.ErrRecordNotFound
	}

	ap.UpdatedAt = time.Now().UTC()
	stored := *ap
	stored.Services = nil
	r.Appointments[ap.ID] = stored
	if serviceIDs != nil {
		r.Links[ap.ID] = append([]uint(nil), serviceIDs...)
	}
	return nil
}

func (r *MemoryRepo) UpdateStatus(_ context.Context, id uint, status domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ErrOnWrite != nil {
		return r.ErrOnWrite
	}
	ap, ok := r.Appointments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ap.Status = string(status)
	r.Appointments[id] = ap
	return nil
}

func (r *MemoryRepo) DeleteAppointment(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ErrOnWrite != nil {
		return r.ErrOnWrite
	}
	if _, ok := r.Appointments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.Appointments, id)
	delete(r.Links, id)
	return nil
}

func (r *MemoryRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ap, ok := r.Appointments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := r.hydrate(ap)
	return &out, nil
}

func (r *MemoryRepo) ListAppointments(_ context.Context, f domain.ListFilter) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.Appointments {
		if f.Status != "" && ap.Status != f.Status {
			continue
		}
		if f.MedspaID != nil && ap.MedspaID != *f.MedspaID {
			continue
		}
		if f.DayStart != nil && ap.StartTime.Before(*f.DayStart) {
			continue
		}
		if f.DayEnd != nil && !ap.StartTime.Before(*f.DayEnd) {
			continue
		}
		out = append(out, r.hydrate(ap))
	}
	sortByStart(out)
	return out, nil
}

func (r *MemoryRepo) ListBookingsForDay(_ context.Context, medspaID uint, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.Appointments {
		if ap.MedspaID != medspaID || ap.Status == string(domain.StatusCanceled) {
			continue
		}
		if ap.StartTime.Before(start) || !ap.StartTime.Before(end) {
			continue
		}
		out = append(out, ap)
	}
	sortByStart(out)
	return out, nil
}

func (r *MemoryRepo) hydrate(ap models.Appointment) models.Appointment {
	ap.Medspa = r.Medspas[ap.MedspaID]
	ap.Services = nil
	for _, sid := range r.Links[ap.ID] {
		ap.Services = append(ap.Services, models.AppointmentService{
			AppointmentID: ap.ID,
			ServiceID:     sid,
			Service:       r.Services[sid],
		})
	}
	return ap
}

func sortByStart(aps []models.Appointment) {
	sort.Slice(aps, func(i, j int) bool {
		if aps[i].StartTime.Equal(aps[j].StartTime) {
			return aps[i].ID < aps[j].ID
		}
		return aps[i].StartTime.Before(aps[j].StartTime)
	})
}
