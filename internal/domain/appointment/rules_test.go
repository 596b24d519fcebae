package appointment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
)

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses() {
		got, err := ParseStatus(string(s))
		assert.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseStatus("done")
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestStatusTransitionsAreUnconstrained(t *testing.T) {
	// completed back to scheduled is a valid value
	_, err := ParseStatus(string(StatusScheduled))
	assert.NoError(t, err)
	assert.Equal(t, StatusScheduled, InitialStatus())
}

func TestValidateStartTime(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateStartTime(now.Add(time.Minute), now))
	assert.True(t, httperr.IsBusiness(ValidateStartTime(now.Add(-time.Minute), now), "past_start_time"))
	assert.True(t, httperr.IsBusiness(ValidateStartTime(time.Time{}, now), "start_time_required"))
}

func TestValidateServiceIDs(t *testing.T) {
	assert.NoError(t, ValidateServiceIDs([]uint{1, 2}))
	assert.True(t, httperr.IsBusiness(ValidateServiceIDs(nil), "services_required"))
	assert.True(t, httperr.IsBusiness(ValidateServiceIDs([]uint{1, 1}), "duplicate_service"))
	assert.True(t, httperr.IsBusiness(ValidateServiceIDs([]uint{0}), "invalid_service"))
}

func TestValidateServicesForMedspa(t *testing.T) {
	good := models.Service{
		ID: 1, MedspaID: 7, CategoryID: 3, Active: true, Name: "Botox",
		Price:       decimal.RequireFromString("199.99"),
		ServiceType: models.ServiceType{ID: 4, CategoryID: 3},
	}

	inactive := good
	inactive.ID, inactive.Active = 2, false

	foreign := good
	foreign.ID, foreign.MedspaID = 3, 8

	mismatch := good
	mismatch.ID = 4
	mismatch.ServiceType = models.ServiceType{ID: 9, CategoryID: 99}

	all := []models.Service{good, inactive, foreign, mismatch}

	cases := []struct {
		ids  []uint
		code string
	}{
		{[]uint{1}, ""},
		{[]uint{1, 42}, "service_not_found"},
		{[]uint{2}, "inactive_service"},
		{[]uint{3}, "foreign_service"},
		{[]uint{4}, "type_category_mismatch"},
	}

	for _, tc := range cases {
		err := ValidateServicesForMedspa(7, tc.ids, all)
		if tc.code == "" {
			assert.NoError(t, err, tc.ids)
			continue
		}
		assert.True(t, httperr.IsBusiness(err, tc.code), "ids %v: %v", tc.ids, err)
	}
}

func TestOrderServices(t *testing.T) {
	services := []models.Service{{ID: 1}, {ID: 2}, {ID: 3}}

	got := OrderServices([]uint{3, 1}, services)

	assert.Equal(t, []uint{3, 1}, []uint{got[0].ID, got[1].ID})
}
