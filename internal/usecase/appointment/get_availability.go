package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/medspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medspa-scheduler/internal/metrics"
	"github.com/BruksfildServices01/medspa-scheduler/internal/timezone"
)

type AvailabilityInput struct {
	MedspaID uint
	Date     string
	// Duration in minutes; nil means the default.
	Duration *int
}

type AvailabilityResult struct {
	Date     string   `json:"date"`
	Duration int      `json:"duration"`
	Slots    []string `json:"available_slots"`
}

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) (*AvailabilityResult, error) {

	medspa, err := uc.repo.GetMedspa(ctx, in.MedspaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFoundError("medspa_not_found", fmt.Sprintf("Medspa %d not found", in.MedspaID))
		}
		return nil, err
	}

	dateStr := strings.TrimSpace(in.Date)
	if dateStr == "" {
		return nil, httperr.FieldError("date", "date_required", "Missing required fields: date")
	}
	day, err := timezone.ParseDate(dateStr)
	if err != nil {
		return nil, httperr.FieldError("date", "invalid_date", "Invalid date format. Use YYYY-MM-DD")
	}

	duration := domain.DefaultDurationMinutes
	if in.Duration != nil {
		duration = *in.Duration
	}
	if duration < 1 || duration > domain.MaxDurationMinutes {
		return nil, httperr.FieldError(
			"duration",
			"invalid_duration",
			fmt.Sprintf("Duration must be between 1 and %d minutes", domain.MaxDurationMinutes),
		)
	}

	loc := timezone.Business()
	start, end := timezone.DayBounds(day, loc)

	apps, err := uc.repo.ListBookingsForDay(ctx, medspa.ID, start, end)
	if err != nil {
		return nil, err
	}

	bookings := make([]domain.Booking, 0, len(apps))
	for _, ap := range apps {
		bookings = append(bookings, domain.Booking{
			Start:           ap.StartTime.In(loc),
			DurationMinutes: ap.TotalDuration,
		})
	}

	slots := domain.AvailableSlots(bookings, start, duration)
	metrics.AvailabilityQueried()

	return &AvailabilityResult{
		Date:     dateStr,
		Duration: duration,
		Slots:    domain.FormatSlots(slots),
	}, nil
}
