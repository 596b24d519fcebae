package report

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/medspa-scheduler/internal/domain/report"
	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
)

type CalendarInput struct {
	StartDate string
	EndDate   string
	MedspaID  *uint
}

type CalendarRow struct {
	ID            uint      `json:"id"`
	StartTime     time.Time `json:"start_time"`
	Status        string    `json:"status"`
	MedspaName    string    `json:"medspa_name"`
	ServiceCount  int64     `json:"service_count"`
	TotalDuration int       `json:"total_duration"`
	TotalPrice    string    `json:"total_price"`
}

type GetCalendar struct {
	repo domain.Repository
}

func NewGetCalendar(repo domain.Repository) *GetCalendar {
	return &GetCalendar{repo: repo}
}

// Execute lists appointments whose start date falls within
// [StartDate, EndDate], both inclusive and both optional.
func (uc *GetCalendar) Execute(ctx context.Context, in CalendarInput) ([]CalendarRow, error) {
	from, err := parseOptionalDate("start_date", in.StartDate)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate("end_date", in.EndDate)
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, httperr.FieldError("end_date", "invalid_range", "end_date must not be before start_date")
	}

	f := domain.CalendarFilter{MedspaID: in.MedspaID, From: from}
	if to != nil {
		next := to.AddDate(0, 0, 1)
		f.To = &next
	}

	entries, err := uc.repo.Calendar(ctx, f)
	if err != nil {
		return nil, err
	}

	rows := make([]CalendarRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, CalendarRow{
			ID:            e.ID,
			StartTime:     e.StartTime,
			Status:        e.Status,
			MedspaName:    e.MedspaName,
			ServiceCount:  e.ServiceCount,
			TotalDuration: e.TotalDuration,
			TotalPrice:    money(e.TotalPrice),
		})
	}
	return rows, nil
}
