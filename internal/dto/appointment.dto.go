package dto

import (
	"time"

	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
)

type AppointmentServiceDTO struct {
	Service         uint      `json:"service"`
	ServiceName     string    `json:"service_name"`
	Price           string    `json:"price"`
	Duration        int       `json:"duration"`
	CategoryName    string    `json:"category_name"`
	ServiceTypeName string    `json:"service_type_name"`
	CreatedAt       time.Time `json:"created_at"`
}

type AppointmentDTO struct {
	ID            uint                    `json:"id"`
	StartTime     time.Time               `json:"start_time"`
	Status        string                  `json:"status"`
	Medspa        uint                    `json:"medspa"`
	MedspaName    string                  `json:"medspa_name"`
	Services      []AppointmentServiceDTO `json:"services"`
	TotalDuration int                     `json:"total_duration"`
	TotalPrice    string                  `json:"total_price"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// NewAppointmentDTO expects Medspa and Services.Service to be loaded.
// Totals come from the persisted columns.
func NewAppointmentDTO(ap *models.Appointment) AppointmentDTO {
	services := make([]AppointmentServiceDTO, 0, len(ap.Services))
	for _, link := range ap.Services {
		s := link.Service
		services = append(services, AppointmentServiceDTO{
			Service:         link.ServiceID,
			ServiceName:     s.Name,
			Price:           s.Price.StringFixed(2),
			Duration:        s.Duration,
			CategoryName:    s.Category.Name,
			ServiceTypeName: s.ServiceType.Name,
			CreatedAt:       link.CreatedAt,
		})
	}

	return AppointmentDTO{
		ID:            ap.ID,
		StartTime:     ap.StartTime,
		Status:        ap.Status,
		Medspa:        ap.MedspaID,
		MedspaName:    ap.Medspa.Name,
		Services:      services,
		TotalDuration: ap.TotalDuration,
		TotalPrice:    ap.TotalPrice.StringFixed(2),
		CreatedAt:     ap.CreatedAt,
		UpdatedAt:     ap.UpdatedAt,
	}
}

func NewAppointmentList(aps []models.Appointment) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(aps))
	for i := range aps {
		out = append(out, NewAppointmentDTO(&aps[i]))
	}
	return out
}
