package report

import (
	"context"

	domain "github.com/BruksfildServices01/medspa-scheduler/internal/domain/report"
	"github.com/BruksfildServices01/medspa-scheduler/internal/timezone"
)

type MedspaStatisticsInput struct {
	MedspaID uint
	Days     int
}

type RevenueSummary struct {
	Total                 string `json:"total"`
	AveragePerAppointment string `json:"average_per_appointment"`
}

// TrailingStatistics covers the last Days days, today included.
type TrailingStatistics struct {
	Period             PeriodView          `json:"period"`
	Appointments       AppointmentCounts   `json:"appointments"`
	Revenue            RevenueSummary      `json:"revenue"`
	MostPopularService *PopularServiceView `json:"most_popular_service"`
}

type MedspaStatistics struct {
	MedspaID          uint               `json:"medspa_id"`
	TotalServices     int64              `json:"total_services"`
	TotalAppointments int64              `json:"total_appointments"`
	AppointmentsToday int64              `json:"appointments_today"`
	Revenue           string             `json:"revenue"`
	ActiveCategories  int64              `json:"active_categories"`
	LastPeriod        TrailingStatistics `json:"last_period"`
}

type GetMedspaStatistics struct {
	repo domain.Repository
	now  Clock
}

func NewGetMedspaStatistics(repo domain.Repository, now Clock) *GetMedspaStatistics {
	return &GetMedspaStatistics{repo: repo, now: defaultClock(now)}
}

func (uc *GetMedspaStatistics) Execute(
	ctx context.Context,
	in MedspaStatisticsInput,
) (*MedspaStatistics, error) {

	if err := ensureMedspa(ctx, uc.repo, in.MedspaID); err != nil {
		return nil, err
	}

	days := in.Days
	if days == 0 {
		days = domain.DefaultDays
	}

	now := uc.now().In(timezone.Business())
	dayStart, dayEnd := timezone.DayBounds(now, now.Location())

	totals, err := uc.repo.MedspaTotals(ctx, in.MedspaID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	p := domain.TrailingPeriod(now, days)
	summary, err := uc.repo.MedspaPeriod(ctx, in.MedspaID, p)
	if err != nil {
		return nil, err
	}

	medspaID := in.MedspaID
	popular, err := uc.repo.MostPopularServices(ctx, &medspaID, p, 1)
	if err != nil {
		return nil, err
	}

	out := &MedspaStatistics{
		MedspaID:          in.MedspaID,
		TotalServices:     totals.TotalServices,
		TotalAppointments: totals.TotalAppointments,
		AppointmentsToday: totals.AppointmentsToday,
		Revenue:           money(totals.Revenue),
		ActiveCategories:  totals.ActiveCategories,
		LastPeriod: TrailingStatistics{
			Period:       periodView(p),
			Appointments: countsView(summary.Counts),
			Revenue: RevenueSummary{
				Total:                 money(summary.Revenue),
				AveragePerAppointment: money(average(summary.Revenue, summary.Counts.Completed)),
			},
		},
	}

	if len(popular) > 0 {
		out.LastPeriod.MostPopularService = &PopularServiceView{
			ID:         popular[0].ID,
			Name:       popular[0].Name,
			UsageCount: popular[0].UsageCount,
		}
	}

	return out, nil
}
