package appointment

import (
	"sort"
	"time"
)

const (
	OpeningHour = 9
	ClosingHour = 17

	SlotStep = 30 * time.Minute

	DefaultDurationMinutes = 60
	MaxDurationMinutes     = 480

	SlotLayout = "2006-01-02 15:04"
)

// Booking is an existing appointment as seen by the slot calculator.
type Booking struct {
	Start           time.Time
	DurationMinutes int
}

func (b Booking) End() time.Time {
	return b.Start.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// AvailableSlots lists candidate start times between opening and closing
// on the given date, stepping by SlotStep, such that the whole requested
// duration fits before closing and no booking overlaps it. Overlap is
// half-open: a candidate ending exactly when a booking starts is free.
// Bookings without a positive duration never block a slot.
//
// Opening and closing are taken in date's location.
func AvailableSlots(bookings []Booking, date time.Time, durationMinutes int) []time.Time {
	if durationMinutes <= 0 {
		return []time.Time{}
	}

	loc := date.Location()
	open := time.Date(date.Year(), date.Month(), date.Day(), OpeningHour, 0, 0, 0, loc)
	closing := time.Date(date.Year(), date.Month(), date.Day(), ClosingHour, 0, 0, 0, loc)
	dur := time.Duration(durationMinutes) * time.Minute

	active := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.DurationMinutes > 0 {
			active = append(active, b)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Start.Before(active[j].Start) })

	slots := []time.Time{}
	for cur := open; !cur.Add(dur).After(closing); cur = cur.Add(SlotStep) {
		if !overlapsAny(active, cur, cur.Add(dur)) {
			slots = append(slots, cur)
		}
	}

	return slots
}

func overlapsAny(bookings []Booking, start, end time.Time) bool {
	for _, b := range bookings {
		if !b.Start.Before(end) {
			// sorted by start; nothing later can overlap
			return false
		}
		if start.Before(b.End()) && end.After(b.Start) {
			return true
		}
	}
	return false
}

func FormatSlots(slots []time.Time) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Format(SlotLayout)
	}
	return out
}
