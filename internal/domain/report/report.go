package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultDays = 30
	MinDays     = 1
	MaxDays     = 365
)

// Period is a trailing window of whole days ending today (inclusive) in
// the business timezone: [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
	Days  int
}

// TrailingPeriod returns the window covering the last days calendar
// days including today.
func TrailingPeriod(now time.Time, days int) Period {
	y, m, d := now.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return Period{
		Start: end.AddDate(0, 0, -days),
		End:   end,
		Days:  days,
	}
}

type StatusCounts struct {
	Total      int64
	Scheduled  int64
	Confirmed  int64
	InProgress int64
	Completed  int64
	Canceled   int64
	NoShow     int64
}

// Add records n appointments with the given status.
func (s *StatusCounts) Add(status string, n int64) {
	s.Total += n
	switch status {
	case "scheduled":
		s.Scheduled += n
	case "confirmed":
		s.Confirmed += n
	case "in_progress":
		s.InProgress += n
	case "completed":
		s.Completed += n
	case "canceled":
		s.Canceled += n
	case "no_show":
		s.NoShow += n
	}
}

type MedspaTotals struct {
	TotalServices     int64
	TotalAppointments int64
	AppointmentsToday int64
	Revenue           decimal.Decimal
	ActiveCategories  int64
}

type PeriodSummary struct {
	Counts  StatusCounts
	Revenue decimal.Decimal
}

type PopularService struct {
	ID         uint
	Name       string
	UsageCount int64
}

type ServiceUsage struct {
	TotalAppointments     int64
	CompletedAppointments int64
	Revenue               decimal.Decimal
	PeriodCompleted       int64
	PeriodRevenue         decimal.Decimal
}

type ServiceInfo struct {
	ID          uint
	Name        string
	Duration    int
	Category    string
	ServiceType string
}

type CalendarFilter struct {
	MedspaID *uint
	From     *time.Time
	To       *time.Time
}

type CalendarEntry struct {
	ID            uint
	StartTime     time.Time
	Status        string
	MedspaName    string
	ServiceCount  int64
	TotalDuration int
	TotalPrice    decimal.Decimal
}

type CategoryShare struct {
	Name    string
	Count   int64
	Revenue decimal.Decimal
}

type Analytics struct {
	Counts                    StatusCounts
	Revenue                   decimal.Decimal
	AvgServicesPerAppointment float64
	MostPopular               []PopularService
	Categories                []CategoryShare
}

type DailyRevenue struct {
	Date              time.Time
	MedspaID          uint
	MedspaName        string
	TotalAppointments int64
	Revenue           decimal.Decimal
	CategoriesUsed    int64
}

// Repository is the read-side port for reporting. Revenue always comes
// from persisted totals of completed appointments.
type Repository interface {
	MedspaExists(ctx context.Context, id uint) (bool, error)
	GetServiceInfo(ctx context.Context, id uint) (*ServiceInfo, error)

	MedspaTotals(ctx context.Context, medspaID uint, dayStart, dayEnd time.Time) (*MedspaTotals, error)
	MedspaPeriod(ctx context.Context, medspaID uint, p Period) (*PeriodSummary, error)
	MostPopularServices(ctx context.Context, medspaID *uint, p Period, limit int) ([]PopularService, error)

	ServiceUsage(ctx context.Context, serviceID uint, p Period) (*ServiceUsage, error)

	Calendar(ctx context.Context, f CalendarFilter) ([]CalendarEntry, error)

	Analytics(ctx context.Context, p Period) (*Analytics, error)

	DailyRevenue(ctx context.Context, medspaID uint, from, to time.Time) ([]DailyRevenue, error)
}
