package report

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/medspa-scheduler/internal/domain/report"
	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
)

var fixedNow = time.Date(2030, 6, 2, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type fakeRepo struct {
	medspas  map[uint]bool
	services map[uint]domain.ServiceInfo

	totals   domain.MedspaTotals
	period   domain.PeriodSummary
	popular  []domain.PopularService
	usage    domain.ServiceUsage
	calendar []domain.CalendarEntry
	analytic domain.Analytics
	daily    []domain.DailyRevenue

	gotPeriod   domain.Period
	gotCalendar domain.CalendarFilter
	gotFrom     time.Time
	gotTo       time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		medspas:  map[uint]bool{1: true},
		services: map[uint]domain.ServiceInfo{},
	}
}

func (f *fakeRepo) MedspaExists(_ context.Context, id uint) (bool, error) {
	return f.medspas[id], nil
}

func (f *fakeRepo) GetServiceInfo(_ context.Context, id uint) (*domain.ServiceInfo, error) {
	info, ok := f.services[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &info, nil
}

func (f *fakeRepo) MedspaTotals(context.Context, uint, time.Time, time.Time) (*domain.MedspaTotals, error) {
	t := f.totals
	return &t, nil
}

func (f *fakeRepo) MedspaPeriod(_ context.Context, _ uint, p domain.Period) (*domain.PeriodSummary, error) {
	f.gotPeriod = p
	s := f.period
	return &s, nil
}

func (f *fakeRepo) MostPopularServices(_ context.Context, _ *uint, _ domain.Period, limit int) ([]domain.PopularService, error) {
	if len(f.popular) > limit {
		return f.popular[:limit], nil
	}
	return f.popular, nil
}

func (f *fakeRepo) ServiceUsage(_ context.Context, _ uint, p domain.Period) (*domain.ServiceUsage, error) {
	f.gotPeriod = p
	u := f.usage
	return &u, nil
}

func (f *fakeRepo) Calendar(_ context.Context, filter domain.CalendarFilter) ([]domain.CalendarEntry, error) {
	f.gotCalendar = filter
	return f.calendar, nil
}

func (f *fakeRepo) Analytics(_ context.Context, p domain.Period) (*domain.Analytics, error) {
	f.gotPeriod = p
	a := f.analytic
	return &a, nil
}

func (f *fakeRepo) DailyRevenue(_ context.Context, _ uint, from, to time.Time) ([]domain.DailyRevenue, error) {
	f.gotFrom, f.gotTo = from, to
	return f.daily, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func requireBusiness(t *testing.T, err error, typ, code string) {
	t.Helper()
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok, "expected business error, got %v", err)
	assert.Equal(t, typ, be.Type)
	assert.Equal(t, code, be.Code)
}

// ======================================================
// DAYS
// ======================================================

func TestParseDays(t *testing.T) {
	n, err := ParseDays("")
	require.NoError(t, err)
	assert.Equal(t, 30, n)

	n, err = ParseDays("7")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	for _, raw := range []string{"0", "366", "-1", "abc", "1.5"} {
		_, err := ParseDays(raw)
		requireBusiness(t, err, httperr.TypeValidation, "invalid_days")
	}
}

// ======================================================
// MEDSPA STATISTICS
// ======================================================

func TestMedspaStatistics(t *testing.T) {
	repo := newFakeRepo()
	repo.totals = domain.MedspaTotals{
		TotalServices:     2,
		TotalAppointments: 3,
		AppointmentsToday: 1,
		Revenue:           dec("199.99"),
		ActiveCategories:  1,
	}
	repo.period.Counts.Add("completed", 2)
	repo.period.Counts.Add("canceled", 1)
	repo.period.Revenue = dec("100.01")
	repo.popular = []domain.PopularService{{ID: 4, Name: "Botox", UsageCount: 2}}

	uc := NewGetMedspaStatistics(repo, clock)
	out, err := uc.Execute(context.Background(), MedspaStatisticsInput{MedspaID: 1, Days: 7})
	require.NoError(t, err)

	assert.Equal(t, "199.99", out.Revenue)
	assert.Equal(t, int64(1), out.AppointmentsToday)
	assert.Equal(t, int64(3), out.LastPeriod.Appointments.Total)
	assert.Equal(t, "100.01", out.LastPeriod.Revenue.Total)
	assert.Equal(t, "50.01", out.LastPeriod.Revenue.AveragePerAppointment)
	require.NotNil(t, out.LastPeriod.MostPopularService)
	assert.Equal(t, "Botox", out.LastPeriod.MostPopularService.Name)

	assert.Equal(t, PeriodView{StartDate: "2030-05-27", EndDate: "2030-06-02", Days: 7}, out.LastPeriod.Period)
}

func TestMedspaStatistics_NoActivity(t *testing.T) {
	repo := newFakeRepo()

	out, err := NewGetMedspaStatistics(repo, clock).Execute(context.Background(), MedspaStatisticsInput{MedspaID: 1})
	require.NoError(t, err)

	assert.Equal(t, "0.00", out.Revenue)
	assert.Equal(t, "0.00", out.LastPeriod.Revenue.AveragePerAppointment)
	assert.Nil(t, out.LastPeriod.MostPopularService)
	assert.Equal(t, 30, out.LastPeriod.Period.Days)
}

func TestMedspaStatistics_UnknownMedspa(t *testing.T) {
	_, err := NewGetMedspaStatistics(newFakeRepo(), clock).Execute(context.Background(), MedspaStatisticsInput{MedspaID: 9})
	requireBusiness(t, err, httperr.TypeNotFound, "medspa_not_found")
}

// ======================================================
// SERVICE USAGE
// ======================================================

func TestServiceUsage(t *testing.T) {
	repo := newFakeRepo()
	repo.services[4] = domain.ServiceInfo{ID: 4, Name: "Botox", Duration: 60, Category: "Injectables", ServiceType: "Neuromodulators"}
	repo.usage = domain.ServiceUsage{
		TotalAppointments:     5,
		CompletedAppointments: 3,
		Revenue:               dec("599.97"),
		PeriodCompleted:       3,
		PeriodRevenue:         dec("599.97"),
	}

	out, err := NewGetServiceUsage(repo, clock).Execute(context.Background(), ServiceUsageInput{ServiceID: 4, Days: 10})
	require.NoError(t, err)

	assert.Equal(t, "599.97", out.Revenue)
	assert.Equal(t, 10, out.PeriodDays)
	assert.InDelta(t, 0.3, out.AverageAppointmentsPerDay, 0.0001)
	assert.Equal(t, "60.00", out.AverageRevenuePerDay)
	assert.Equal(t, 60, out.AverageDuration)
	assert.Equal(t, "Injectables", out.Category)
	assert.Equal(t, "Neuromodulators", out.ServiceType)
	assert.Equal(t, 10, repo.gotPeriod.Days)
}

func TestServiceUsage_UnknownService(t *testing.T) {
	_, err := NewGetServiceUsage(newFakeRepo(), clock).Execute(context.Background(), ServiceUsageInput{ServiceID: 4})
	requireBusiness(t, err, httperr.TypeNotFound, "service_not_found")
}

// ======================================================
// CALENDAR
// ======================================================

func TestCalendar_EndDateIsInclusive(t *testing.T) {
	repo := newFakeRepo()
	repo.calendar = []domain.CalendarEntry{{
		ID:            1,
		StartTime:     time.Date(2030, 6, 3, 10, 0, 0, 0, time.UTC),
		Status:        "scheduled",
		MedspaName:    "Glow",
		ServiceCount:  2,
		TotalDuration: 75,
		TotalPrice:    dec("200.09"),
	}}

	medspaID := uint(1)
	rows, err := NewGetCalendar(repo).Execute(context.Background(), CalendarInput{
		StartDate: "2030-06-01",
		EndDate:   "2030-06-03",
		MedspaID:  &medspaID,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "200.09", rows[0].TotalPrice)

	require.NotNil(t, repo.gotCalendar.From)
	require.NotNil(t, repo.gotCalendar.To)
	assert.Equal(t, 1, repo.gotCalendar.From.Day())
	assert.Equal(t, 4, repo.gotCalendar.To.Day())
	assert.Equal(t, &medspaID, repo.gotCalendar.MedspaID)
}

func TestCalendar_InvalidDates(t *testing.T) {
	uc := NewGetCalendar(newFakeRepo())

	_, err := uc.Execute(context.Background(), CalendarInput{StartDate: "06/01/2030"})
	requireBusiness(t, err, httperr.TypeValidation, "invalid_date")

	_, err = uc.Execute(context.Background(), CalendarInput{EndDate: "2030-13-01"})
	requireBusiness(t, err, httperr.TypeValidation, "invalid_date")

	_, err = uc.Execute(context.Background(), CalendarInput{StartDate: "2030-06-05", EndDate: "2030-06-01"})
	requireBusiness(t, err, httperr.TypeValidation, "invalid_range")
}

func TestCalendar_EmptyIsNotNil(t *testing.T) {
	rows, err := NewGetCalendar(newFakeRepo()).Execute(context.Background(), CalendarInput{})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

// ======================================================
// ANALYTICS
// ======================================================

func TestAnalytics(t *testing.T) {
	repo := newFakeRepo()
	repo.analytic.Counts.Add("completed", 1)
	repo.analytic.Counts.Add("scheduled", 3)
	repo.analytic.Revenue = dec("199.99")
	repo.analytic.AvgServicesPerAppointment = 1.3333333
	repo.analytic.MostPopular = []domain.PopularService{{ID: 4, Name: "Botox", UsageCount: 3}}
	repo.analytic.Categories = []domain.CategoryShare{{Name: "Injectables", Count: 1, Revenue: dec("199.99")}}

	out, err := NewGetAnalytics(repo, clock).Execute(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 30, out.Period.Days)
	assert.Equal(t, int64(4), out.Appointments.Total)
	assert.Equal(t, "199.99", out.Revenue)
	assert.Equal(t, 1.33, out.Services.AveragePerAppointment)
	require.Len(t, out.Services.MostPopular, 1)
	require.Len(t, out.Categories.Distribution, 1)
	assert.Equal(t, "199.99", out.Categories.Distribution[0].Revenue)
}

// ======================================================
// DAILY REVENUE
// ======================================================

func TestDailyRevenue_DefaultsToTrailingPeriod(t *testing.T) {
	repo := newFakeRepo()
	repo.daily = []domain.DailyRevenue{{
		Date:              time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC),
		MedspaID:          1,
		MedspaName:        "Glow",
		TotalAppointments: 2,
		Revenue:           dec("10.5"),
		CategoriesUsed:    1,
	}}

	rows, err := NewGetDailyRevenue(repo, clock).Execute(context.Background(), DailyRevenueInput{MedspaID: 1})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2030-06-01", rows[0].Date)
	assert.Equal(t, "10.50", rows[0].DailyRevenue)

	assert.Equal(t, "2030-05-04", repo.gotFrom.Format(dateLayout))
	assert.Equal(t, "2030-06-02", repo.gotTo.Format(dateLayout))
}

func TestDailyRevenue_Errors(t *testing.T) {
	uc := NewGetDailyRevenue(newFakeRepo(), clock)

	_, err := uc.Execute(context.Background(), DailyRevenueInput{MedspaID: 2})
	requireBusiness(t, err, httperr.TypeNotFound, "medspa_not_found")

	_, err = uc.Execute(context.Background(), DailyRevenueInput{MedspaID: 1, StartDate: "nope"})
	requireBusiness(t, err, httperr.TypeValidation, "invalid_date")
}
