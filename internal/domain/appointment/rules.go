package appointment

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BruksfildServices01/medspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
)

// ===============================
// Validations
// ===============================

func ValidateStartTime(start, now time.Time) error {
	if start.IsZero() {
		return httperr.FieldError("start_time", "start_time_required", "start_time is required")
	}
	if start.Before(now) {
		return httperr.FieldError("start_time", "past_start_time", "Appointment cannot be scheduled in the past")
	}
	return nil
}

// ValidateServiceIDs rejects an empty list and repeated ids.
func ValidateServiceIDs(ids []uint) error {
	if len(ids) == 0 {
		return httperr.FieldError("services", "services_required", "At least one service is required")
	}
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			return httperr.FieldError("services", "invalid_service", "Service ids must be positive integers")
		}
		if _, dup := seen[id]; dup {
			return httperr.FieldError("services", "duplicate_service", fmt.Sprintf("Service %d is listed more than once", id))
		}
		seen[id] = struct{}{}
	}
	return nil
}

// ValidateServicesForMedspa checks that every requested id was found and
// that each service is active, belongs to the medspa, and has a type
// whose category matches its own. services must carry ServiceType.
func ValidateServicesForMedspa(medspaID uint, ids []uint, services []models.Service) error {
	byID := make(map[uint]models.Service, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}

	var missing []string
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, fmt.Sprint(id))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return httperr.FieldError(
			"services",
			"service_not_found",
			fmt.Sprintf("Service with id %s does not exist", strings.Join(missing, ", ")),
		)
	}

	for _, id := range ids {
		s := byID[id]
		if !s.Active {
			return httperr.FieldError("services", "inactive_service",
				fmt.Sprintf("Service %s is not currently active", s.Name))
		}
		if s.MedspaID != medspaID {
			return httperr.FieldError("services", "foreign_service",
				fmt.Sprintf("Service %s does not belong to the selected medspa", s.Name))
		}
		if s.ServiceType.ID != 0 && s.ServiceType.CategoryID != s.CategoryID {
			return httperr.FieldError("services", "type_category_mismatch",
				fmt.Sprintf("Service %s has a service type outside its category", s.Name))
		}
	}

	return nil
}

// OrderServices returns services in the order their ids were requested.
func OrderServices(ids []uint, services []models.Service) []models.Service {
	byID := make(map[uint]models.Service, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}
	out := make([]models.Service, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			out = append(out, s)
		}
	}
	return out
}
