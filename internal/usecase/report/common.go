package report

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/medspa-scheduler/internal/domain/report"
	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medspa-scheduler/internal/timezone"
)

const dateLayout = "2006-01-02"

// Clock returns the current time. Use cases default to timezone.Now.
type Clock func() time.Time

func defaultClock(c Clock) Clock {
	if c == nil {
		return timezone.Now
	}
	return c
}

// ParseDays reads the days query parameter. Empty means the default.
func ParseDays(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.DefaultDays, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < domain.MinDays || n > domain.MaxDays {
		return 0, httperr.FieldError(
			"days",
			"invalid_days",
			fmt.Sprintf("days must be an integer between %d and %d", domain.MinDays, domain.MaxDays),
		)
	}
	return n, nil
}

// parseOptionalDate parses a YYYY-MM-DD query value in the business
// timezone. Empty returns nil.
func parseOptionalDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := timezone.ParseDate(raw)
	if err != nil {
		return nil, httperr.FieldError(field, "invalid_date", "Invalid date format. Use YYYY-MM-DD")
	}
	return &d, nil
}

func ensureMedspa(ctx context.Context, repo domain.Repository, id uint) error {
	ok, err := repo.MedspaExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.NotFoundError("medspa_not_found", fmt.Sprintf("Medspa %d not found", id))
	}
	return nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// average divides total by n and rounds to cents; zero when n is zero.
func average(total decimal.Decimal, n int64) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(n)).Round(2)
}

func round2(f float64) float64 {
	v, _ := decimal.NewFromFloat(f).Round(2).Float64()
	return v
}

type PeriodView struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
}

func periodView(p domain.Period) PeriodView {
	return PeriodView{
		StartDate: p.Start.Format(dateLayout),
		EndDate:   p.End.AddDate(0, 0, -1).Format(dateLayout),
		Days:      p.Days,
	}
}

type AppointmentCounts struct {
	Total      int64 `json:"total"`
	Scheduled  int64 `json:"scheduled"`
	Confirmed  int64 `json:"confirmed"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Canceled   int64 `json:"canceled"`
	NoShow     int64 `json:"no_show"`
}

func countsView(c domain.StatusCounts) AppointmentCounts {
	return AppointmentCounts{
		Total:      c.Total,
		Scheduled:  c.Scheduled,
		Confirmed:  c.Confirmed,
		InProgress: c.InProgress,
		Completed:  c.Completed,
		Canceled:   c.Canceled,
		NoShow:     c.NoShow,
	}
}

type PopularServiceView struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	UsageCount int64  `json:"usage_count"`
}
