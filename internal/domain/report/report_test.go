package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrailingPeriod(t *testing.T) {
	now := time.Date(2030, 3, 15, 14, 30, 0, 0, time.UTC)

	p := TrailingPeriod(now, 30)

	assert.Equal(t, time.Date(2030, 3, 16, 0, 0, 0, 0, time.UTC), p.End)
	assert.Equal(t, time.Date(2030, 2, 14, 0, 0, 0, 0, time.UTC), p.Start)
	assert.True(t, now.After(p.Start) && now.Before(p.End))
	assert.Equal(t, 30, p.Days)
}

func TestStatusCounts_Add(t *testing.T) {
	var s StatusCounts
	s.Add("completed", 2)
	s.Add("no_show", 1)
	s.Add("bogus", 4)

	assert.Equal(t, int64(7), s.Total)
	assert.Equal(t, int64(2), s.Completed)
	assert.Equal(t, int64(1), s.NoShow)
}
