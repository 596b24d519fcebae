package report

import (
	"context"

	domain "github.com/BruksfildServices01/medspa-scheduler/internal/domain/report"
	"github.com/BruksfildServices01/medspa-scheduler/internal/timezone"
)

type CategoryShareView struct {
	Name    string `json:"name"`
	Count   int64  `json:"count"`
	Revenue string `json:"revenue"`
}

type ServicesSummary struct {
	AveragePerAppointment float64              `json:"average_per_appointment"`
	MostPopular           []PopularServiceView `json:"most_popular"`
}

type CategoriesSummary struct {
	Distribution []CategoryShareView `json:"distribution"`
}

type AnalyticsReport struct {
	Period       PeriodView        `json:"period"`
	Appointments AppointmentCounts `json:"appointments"`
	Revenue      string            `json:"revenue"`
	Services     ServicesSummary   `json:"services"`
	Categories   CategoriesSummary `json:"categories"`
}

type GetAnalytics struct {
	repo domain.Repository
	now  Clock
}

func NewGetAnalytics(repo domain.Repository, now Clock) *GetAnalytics {
	return &GetAnalytics{repo: repo, now: defaultClock(now)}
}

func (uc *GetAnalytics) Execute(ctx context.Context, days int) (*AnalyticsReport, error) {
	if days == 0 {
		days = domain.DefaultDays
	}
	p := domain.TrailingPeriod(uc.now().In(timezone.Business()), days)

	a, err := uc.repo.Analytics(ctx, p)
	if err != nil {
		return nil, err
	}

	popular := make([]PopularServiceView, 0, len(a.MostPopular))
	for _, s := range a.MostPopular {
		popular = append(popular, PopularServiceView{ID: s.ID, Name: s.Name, UsageCount: s.UsageCount})
	}

	cats := make([]CategoryShareView, 0, len(a.Categories))
	for _, c := range a.Categories {
		cats = append(cats, CategoryShareView{Name: c.Name, Count: c.Count, Revenue: money(c.Revenue)})
	}

	return &AnalyticsReport{
		Period:       periodView(p),
		Appointments: countsView(a.Counts),
		Revenue:      money(a.Revenue),
		Services: ServicesSummary{
			AveragePerAppointment: round2(a.AvgServicesPerAppointment),
			MostPopular:           popular,
		},
		Categories: CategoriesSummary{Distribution: cats},
	}, nil
}
