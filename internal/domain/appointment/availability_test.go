package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2030, 6, 3, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, time.UTC)
}

func TestAvailableSlots_EmptyDay(t *testing.T) {
	slots := AvailableSlots(nil, day, 60)

	require.Len(t, slots, 15)
	assert.Equal(t, at(9, 0), slots[0])
	assert.Equal(t, at(16, 0), slots[len(slots)-1])
}

func TestAvailableSlots_CountFollowsDuration(t *testing.T) {
	cases := map[int]int{
		30:  16,
		60:  15,
		90:  14,
		480: 1,
		481: 0,
	}
	for dur, want := range cases {
		assert.Len(t, AvailableSlots(nil, day, dur), want, "duration %d", dur)
	}
}

func TestAvailableSlots_ExcludesOverlaps(t *testing.T) {
	bookings := []Booking{{Start: at(10, 0), DurationMinutes: 60}}

	got := FormatSlots(AvailableSlots(bookings, day, 60))

	assert.NotContains(t, got, "2030-06-03 09:30")
	assert.NotContains(t, got, "2030-06-03 10:00")
	assert.NotContains(t, got, "2030-06-03 10:30")
	// touching intervals do not overlap
	assert.Contains(t, got, "2030-06-03 09:00")
	assert.Contains(t, got, "2030-06-03 11:00")
	assert.Len(t, got, 12)
}

func TestAvailableSlots_IgnoresZeroDurationBookings(t *testing.T) {
	bookings := []Booking{
		{Start: at(10, 0), DurationMinutes: 0},
		{Start: at(13, 0), DurationMinutes: -5},
	}

	assert.Len(t, AvailableSlots(bookings, day, 60), 15)
}

func TestAvailableSlots_UnsortedBookings(t *testing.T) {
	bookings := []Booking{
		{Start: at(15, 0), DurationMinutes: 30},
		{Start: at(9, 0), DurationMinutes: 30},
	}

	got := FormatSlots(AvailableSlots(bookings, day, 30))

	assert.NotContains(t, got, "2030-06-03 09:00")
	assert.NotContains(t, got, "2030-06-03 15:00")
	assert.Len(t, got, 14)
}

func TestAvailableSlots_BookingOutsideHours(t *testing.T) {
	bookings := []Booking{{Start: at(7, 0), DurationMinutes: 150}}

	got := FormatSlots(AvailableSlots(bookings, day, 60))

	// 07:00-09:30 blocks 09:00 only
	assert.NotContains(t, got, "2030-06-03 09:00")
	assert.Equal(t, "2030-06-03 09:30", got[0])
}

func TestAvailableSlots_UsesDateLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	d := time.Date(2030, 6, 3, 0, 0, 0, 0, loc)
	slots := AvailableSlots(nil, d, 60)

	require.NotEmpty(t, slots)
	assert.Equal(t, 9, slots[0].Hour())
	assert.Equal(t, loc, slots[0].Location())
}

func TestAvailableSlots_NonPositiveDuration(t *testing.T) {
	assert.Empty(t, AvailableSlots(nil, day, 0))
}
