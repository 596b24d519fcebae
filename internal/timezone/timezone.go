package timezone

import (
	"sync"
	"time"
)

const DefaultTimezone = "UTC"

var (
	mu      sync.RWMutex
	current = time.UTC
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.UTC
}

// SetBusiness sets the timezone used for day boundaries and business
// hours. Invalid names fall back to UTC.
func SetBusiness(tz string) *time.Location {
	loc := Location(tz)
	mu.Lock()
	current = loc
	mu.Unlock()
	return loc
}

func Business() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func Now() time.Time {
	return time.Now().In(Business())
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// ParseDate parses YYYY-MM-DD as midnight in the business timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, Business())
}

// DayBounds returns [midnight, next midnight) of the given day in loc.
func DayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	d := day.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
