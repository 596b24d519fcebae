package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/medspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
	"github.com/BruksfildServices01/medspa-scheduler/internal/testutil"
)

var fixedNow = time.Date(2030, 6, 2, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type fixture struct {
	repo   *testutil.MemoryRepo
	medspa models.Medspa
	botox  models.Service
	peel   models.Service
}

func newFixture() *fixture {
	repo := testutil.NewMemoryRepo()
	m := repo.AddMedspa("glow")
	return &fixture{
		repo:   repo,
		medspa: m,
		botox:  repo.AddService(testutil.NewService(m.ID, "Botox", "199.99", 60)),
		peel:   repo.AddService(testutil.NewService(m.ID, "Peel", "0.10", 15)),
	}
}

func tomorrowAt(h int) time.Time {
	return time.Date(2030, 6, 3, h, 0, 0, 0, time.UTC)
}

func isBusinessType(t *testing.T, err error, typ, code string) {
	t.Helper()
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok, "expected business error, got %v", err)
	assert.Equal(t, typ, be.Type)
	assert.Equal(t, code, be.Code)
}

// ======================================================
// CREATE
// ======================================================

func TestCreate_ComputesTotals(t *testing.T) {
	f := newFixture()
	uc := NewCreateAppointment(f.repo, nil, clock)

	ap, err := uc.Execute(context.Background(), CreateAppointmentInput{
		MedspaID:   f.medspa.ID,
		StartTime:  tomorrowAt(10),
		ServiceIDs: []uint{f.botox.ID, f.peel.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, "200.09", ap.TotalPrice.StringFixed(2))
	assert.Equal(t, 75, ap.TotalDuration)
	assert.Equal(t, string(domain.StatusScheduled), ap.Status)
	assert.Len(t, ap.Services, 2)
}

func TestCreate_SingleServiceExample(t *testing.T) {
	f := newFixture()
	uc := NewCreateAppointment(f.repo, nil, clock)

	ap, err := uc.Execute(context.Background(), CreateAppointmentInput{
		MedspaID:   f.medspa.ID,
		StartTime:  tomorrowAt(10),
		ServiceIDs: []uint{f.botox.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, "199.99", ap.TotalPrice.StringFixed(2))
	assert.Equal(t, 60, ap.TotalDuration)
}

func TestCreate_RejectsPastStart(t *testing.T) {
	f := newFixture()
	uc := NewCreateAppointment(f.repo, nil, clock)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		MedspaID:   f.medspa.ID,
		StartTime:  fixedNow.Add(-time.Minute),
		ServiceIDs: []uint{f.botox.ID},
	})

	isBusinessType(t, err, httperr.TypeValidation, "past_start_time")
	assert.Empty(t, f.repo.Appointments)
}

func TestCreate_RejectsInvalidServices(t *testing.T) {
	f := newFixture()
	other := f.repo.AddMedspa("other")

	inactive := testutil.NewService(f.medspa.ID, "Old", "10.00", 30)
	inactive.Active = false
	inactive = f.repo.AddService(inactive)

	foreign := f.repo.AddService(testutil.NewService(other.ID, "Foreign", "10.00", 30))

	mismatch := testutil.NewService(f.medspa.ID, "Mismatch", "10.00", 30)
	mismatch.CategoryID = 1
	mismatch.ServiceType = models.ServiceType{ID: 9, CategoryID: 2}
	mismatch = f.repo.AddService(mismatch)

	cases := []struct {
		name string
		ids  []uint
		code string
	}{
		{"empty", nil, "services_required"},
		{"duplicate", []uint{f.botox.ID, f.botox.ID}, "duplicate_service"},
		{"missing", []uint{9999}, "service_not_found"},
		{"inactive", []uint{inactive.ID}, "inactive_service"},
		{"foreign", []uint{f.botox.ID, foreign.ID}, "foreign_service"},
		{"type category mismatch", []uint{mismatch.ID}, "type_category_mismatch"},
	}

	uc := NewCreateAppointment(f.repo, nil, clock)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), CreateAppointmentInput{
				MedspaID:   f.medspa.ID,
				StartTime:  tomorrowAt(10),
				ServiceIDs: tc.ids,
			})
			isBusinessType(t, err, httperr.TypeValidation, tc.code)
		})
	}
	assert.Empty(t, f.repo.Appointments)
}

func TestCreate_UnknownMedspaIsValidationError(t *testing.T) {
	f := newFixture()
	uc := NewCreateAppointment(f.repo, nil, clock)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		MedspaID:   404,
		StartTime:  tomorrowAt(10),
		ServiceIDs: []uint{f.botox.ID},
	})

	isBusinessType(t, err, httperr.TypeValidation, "medspa_not_found")
}

func TestCreate_InvalidStatus(t *testing.T) {
	f := newFixture()
	uc := NewCreateAppointment(f.repo, nil, clock)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		MedspaID:   f.medspa.ID,
		StartTime:  tomorrowAt(10),
		ServiceIDs: []uint{f.botox.ID},
		Status:     "finished",
	})

	isBusinessType(t, err, httperr.TypeValidation, "invalid_status")
}

func TestCreate_StorageErrorPropagates(t *testing.T) {
	f := newFixture()
	f.repo.ErrOnWrite = errors.New("boom")
	uc := NewCreateAppointment(f.repo, nil, clock)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		MedspaID:   f.medspa.ID,
		StartTime:  tomorrowAt(10),
		ServiceIDs: []uint{f.botox.ID},
	})

	assert.EqualError(t, err, "boom")
}

// ======================================================
// UPDATE
// ======================================================

func create(t *testing.T, f *fixture, ids ...uint) *models.Appointment {
	t.Helper()
	ap, err := NewCreateAppointment(f.repo, nil, clock).Execute(context.Background(), CreateAppointmentInput{
		MedspaID:   f.medspa.ID,
		StartTime:  tomorrowAt(10),
		ServiceIDs: ids,
	})
	require.NoError(t, err)
	return ap
}

func TestUpdate_ReplacesServicesAndRecomputes(t *testing.T) {
	f := newFixture()
	ap := create(t, f, f.botox.ID)

	uc := NewUpdateAppointment(f.repo, nil, clock)
	got, err := uc.Execute(context.Background(), UpdateAppointmentInput{
		ID:          ap.ID,
		ServiceIDs:  []uint{f.peel.ID},
		ServicesSet: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "0.10", got.TotalPrice.StringFixed(2))
	assert.Equal(t, 15, got.TotalDuration)
	require.Len(t, got.Services, 1)
	assert.Equal(t, f.peel.ID, got.Services[0].ServiceID)
}

func TestUpdate_RejectsMismatchedService(t *testing.T) {
	f := newFixture()
	ap := create(t, f, f.botox.ID)

	mismatch := testutil.NewService(f.medspa.ID, "Mismatch", "10.00", 30)
	mismatch.ServiceType = models.ServiceType{ID: 9, CategoryID: 2}
	mismatch = f.repo.AddService(mismatch)

	_, err := NewUpdateAppointment(f.repo, nil, clock).Execute(context.Background(), UpdateAppointmentInput{
		ID:          ap.ID,
		ServiceIDs:  []uint{mismatch.ID},
		ServicesSet: true,
	})

	isBusinessType(t, err, httperr.TypeValidation, "type_category_mismatch")
	assert.Equal(t, []uint{f.botox.ID}, f.repo.Links[ap.ID])
}

func TestUpdate_UnchangedPastStartIsAllowed(t *testing.T) {
	f := newFixture()
	past := f.repo.AddAppointment(models.Appointment{
		MedspaID:  f.medspa.ID,
		StartTime: fixedNow.Add(-48 * time.Hour),
		Status:    "completed",
	}, f.botox.ID)

	start := past.StartTime
	status := "no_show"
	got, err := NewUpdateAppointment(f.repo, nil, clock).Execute(context.Background(), UpdateAppointmentInput{
		ID:        past.ID,
		StartTime: &start,
		Status:    &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "no_show", got.Status)

	moved := fixedNow.Add(-time.Hour)
	_, err = NewUpdateAppointment(f.repo, nil, clock).Execute(context.Background(), UpdateAppointmentInput{
		ID:        past.ID,
		StartTime: &moved,
	})
	isBusinessType(t, err, httperr.TypeValidation, "past_start_time")
}

func TestUpdate_MedspaChangeRevalidatesServices(t *testing.T) {
	f := newFixture()
	ap := create(t, f, f.botox.ID)
	other := f.repo.AddMedspa("other")

	_, err := NewUpdateAppointment(f.repo, nil, clock).Execute(context.Background(), UpdateAppointmentInput{
		ID:       ap.ID,
		MedspaID: &other.ID,
	})

	isBusinessType(t, err, httperr.TypeValidation, "foreign_service")
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture()

	_, err := NewUpdateAppointment(f.repo, nil, clock).Execute(context.Background(), UpdateAppointmentInput{ID: 77})

	isBusinessType(t, err, httperr.TypeNotFound, "appointment_not_found")
}

// ======================================================
// STATUS / DELETE / LIST
// ======================================================

func TestUpdateStatus_AnyTransition(t *testing.T) {
	f := newFixture()
	ap := create(t, f, f.botox.ID)
	uc := NewUpdateStatus(f.repo, nil)

	for _, s := range []string{"completed", "scheduled", "no_show", "in_progress", "canceled", "confirmed"} {
		got, err := uc.Execute(context.Background(), nil, ap.ID, s)
		require.NoError(t, err, s)
		assert.Equal(t, s, got.Status)
	}

	_, err := uc.Execute(context.Background(), nil, ap.ID, "archived")
	isBusinessType(t, err, httperr.TypeValidation, "invalid_status")

	_, err = uc.Execute(context.Background(), nil, 999, "completed")
	isBusinessType(t, err, httperr.TypeNotFound, "appointment_not_found")
}

func TestDelete(t *testing.T) {
	f := newFixture()
	ap := create(t, f, f.botox.ID)
	uc := NewDeleteAppointment(f.repo, nil)

	require.NoError(t, uc.Execute(context.Background(), nil, ap.ID))
	assert.Empty(t, f.repo.Appointments)

	err := uc.Execute(context.Background(), nil, ap.ID)
	isBusinessType(t, err, httperr.TypeNotFound, "appointment_not_found")
}

func TestList_FiltersAndIgnoresBadDate(t *testing.T) {
	f := newFixture()
	a := create(t, f, f.botox.ID)
	f.repo.AddAppointment(models.Appointment{
		MedspaID:  f.medspa.ID,
		StartTime: tomorrowAt(9).AddDate(0, 0, 1),
		Status:    "completed",
	})

	uc := NewListAppointments(f.repo)

	all, err := uc.Execute(context.Background(), ListAppointmentsInput{Date: "not-a-date"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	day, err := uc.Execute(context.Background(), ListAppointmentsInput{Date: "2030-06-03"})
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, a.ID, day[0].ID)

	completed, err := uc.Execute(context.Background(), ListAppointmentsInput{Status: "completed"})
	require.NoError(t, err)
	assert.Len(t, completed, 1)
}

// ======================================================
// AVAILABILITY
// ======================================================

func intPtr(v int) *int { return &v }

func TestAvailability_FullDay(t *testing.T) {
	f := newFixture()

	res, err := NewGetAvailability(f.repo).Execute(context.Background(), AvailabilityInput{
		MedspaID: f.medspa.ID,
		Date:     "2030-06-03",
	})
	require.NoError(t, err)

	assert.Equal(t, 60, res.Duration)
	assert.Len(t, res.Slots, 15)
	assert.Equal(t, "2030-06-03 09:00", res.Slots[0])
}

func TestAvailability_ExcludesBookedAndIgnoresCanceled(t *testing.T) {
	f := newFixture()
	create(t, f, f.botox.ID) // 10:00-11:00
	f.repo.AddAppointment(models.Appointment{
		MedspaID:      f.medspa.ID,
		StartTime:     tomorrowAt(14),
		Status:        "canceled",
		TotalDuration: 60,
	})

	res, err := NewGetAvailability(f.repo).Execute(context.Background(), AvailabilityInput{
		MedspaID: f.medspa.ID,
		Date:     "2030-06-03",
	})
	require.NoError(t, err)

	assert.NotContains(t, res.Slots, "2030-06-03 10:00")
	assert.NotContains(t, res.Slots, "2030-06-03 10:30")
	assert.NotContains(t, res.Slots, "2030-06-03 09:30")
	assert.Contains(t, res.Slots, "2030-06-03 14:00")
	assert.Len(t, res.Slots, 12)
}

func TestAvailability_Errors(t *testing.T) {
	f := newFixture()
	uc := NewGetAvailability(f.repo)

	_, err := uc.Execute(context.Background(), AvailabilityInput{MedspaID: 99, Date: "2030-06-03"})
	isBusinessType(t, err, httperr.TypeNotFound, "medspa_not_found")

	_, err = uc.Execute(context.Background(), AvailabilityInput{MedspaID: f.medspa.ID})
	isBusinessType(t, err, httperr.TypeValidation, "date_required")

	_, err = uc.Execute(context.Background(), AvailabilityInput{MedspaID: f.medspa.ID, Date: "03/06/2030"})
	isBusinessType(t, err, httperr.TypeValidation, "invalid_date")

	_, err = uc.Execute(context.Background(), AvailabilityInput{MedspaID: f.medspa.ID, Date: "2030-06-03", Duration: intPtr(0)})
	isBusinessType(t, err, httperr.TypeValidation, "invalid_duration")

	_, err = uc.Execute(context.Background(), AvailabilityInput{MedspaID: f.medspa.ID, Date: "2030-06-03", Duration: intPtr(481)})
	isBusinessType(t, err, httperr.TypeValidation, "invalid_duration")
}
