package report

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/medspa-scheduler/internal/domain/report"
	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medspa-scheduler/internal/timezone"
)

type ServiceUsageInput struct {
	ServiceID uint
	Days      int
}

type ServiceUsageStatistics struct {
	ServiceID                 uint    `json:"service_id"`
	TotalAppointments         int64   `json:"total_appointments"`
	CompletedAppointments     int64   `json:"completed_appointments"`
	Revenue                   string  `json:"revenue"`
	PeriodDays                int     `json:"period_days"`
	PeriodAppointments        int64   `json:"period_appointments"`
	AverageAppointmentsPerDay float64 `json:"average_appointments_per_day"`
	PeriodRevenue             string  `json:"period_revenue"`
	AverageRevenuePerDay      string  `json:"average_revenue_per_day"`
	AverageDuration           int     `json:"average_duration"`
	Category                  string  `json:"category"`
	ServiceType               string  `json:"service_type"`
}

type GetServiceUsage struct {
	repo domain.Repository
	now  Clock
}

func NewGetServiceUsage(repo domain.Repository, now Clock) *GetServiceUsage {
	return &GetServiceUsage{repo: repo, now: defaultClock(now)}
}

func (uc *GetServiceUsage) Execute(
	ctx context.Context,
	in ServiceUsageInput,
) (*ServiceUsageStatistics, error) {

	info, err := uc.repo.GetServiceInfo(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFoundError("service_not_found", fmt.Sprintf("Service %d not found", in.ServiceID))
		}
		return nil, err
	}

	days := in.Days
	if days == 0 {
		days = domain.DefaultDays
	}
	p := domain.TrailingPeriod(uc.now().In(timezone.Business()), days)

	usage, err := uc.repo.ServiceUsage(ctx, in.ServiceID, p)
	if err != nil {
		return nil, err
	}

	perDay := float64(usage.PeriodCompleted) / float64(days)

	return &ServiceUsageStatistics{
		ServiceID:                 info.ID,
		TotalAppointments:         usage.TotalAppointments,
		CompletedAppointments:     usage.CompletedAppointments,
		Revenue:                   money(usage.Revenue),
		PeriodDays:                days,
		PeriodAppointments:        usage.PeriodCompleted,
		AverageAppointmentsPerDay: round2(perDay),
		PeriodRevenue:             money(usage.PeriodRevenue),
		AverageRevenuePerDay:      money(average(usage.PeriodRevenue, int64(days))),
		AverageDuration:           info.Duration,
		Category:                  info.Category,
		ServiceType:               info.ServiceType,
	}, nil
}
