package report

import (
	"context"

	domain "github.com/BruksfildServices01/medspa-scheduler/internal/domain/report"
	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medspa-scheduler/internal/timezone"
)

type DailyRevenueInput struct {
	MedspaID  uint
	StartDate string
	EndDate   string
}

type DailyRevenueRow struct {
	Date                  string `json:"date"`
	MedspaID              uint   `json:"medspa_id"`
	MedspaName            string `json:"medspa_name"`
	TotalAppointments     int64  `json:"total_appointments"`
	DailyRevenue          string `json:"daily_revenue"`
	ServiceCategoriesUsed int64  `json:"service_categories_used"`
}

type GetDailyRevenue struct {
	repo domain.Repository
	now  Clock
}

func NewGetDailyRevenue(repo domain.Repository, now Clock) *GetDailyRevenue {
	return &GetDailyRevenue{repo: repo, now: defaultClock(now)}
}

// Execute reads the materialized daily revenue rows. Without explicit
// bounds it covers the default trailing period.
func (uc *GetDailyRevenue) Execute(ctx context.Context, in DailyRevenueInput) ([]DailyRevenueRow, error) {
	if err := ensureMedspa(ctx, uc.repo, in.MedspaID); err != nil {
		return nil, err
	}

	from, err := parseOptionalDate("start_date", in.StartDate)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate("end_date", in.EndDate)
	if err != nil {
		return nil, err
	}

	p := domain.TrailingPeriod(uc.now().In(timezone.Business()), domain.DefaultDays)
	if from == nil {
		from = &p.Start
	}
	if to == nil {
		last := p.End.AddDate(0, 0, -1)
		to = &last
	}
	if to.Before(*from) {
		return nil, httperr.FieldError("end_date", "invalid_range", "end_date must not be before start_date")
	}

	rows, err := uc.repo.DailyRevenue(ctx, in.MedspaID, *from, *to)
	if err != nil {
		return nil, err
	}

	out := make([]DailyRevenueRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, DailyRevenueRow{
			Date:                  r.Date.Format(dateLayout),
			MedspaID:              r.MedspaID,
			MedspaName:            r.MedspaName,
			TotalAppointments:     r.TotalAppointments,
			DailyRevenue:          money(r.Revenue),
			ServiceCategoriesUsed: r.CategoriesUsed,
		})
	}
	return out, nil
}
