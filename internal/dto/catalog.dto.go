package dto

import (
	"time"

	"github.com/BruksfildServices01/medspa-scheduler/internal/models"
)

type MedspaDTO struct {
	ID                uint      `json:"id"`
	Name              string    `json:"name"`
	Address           string    `json:"address"`
	PhoneNumber       string    `json:"phone_number"`
	EmailAddress      string    `json:"email_address"`
	TotalServices     int64     `json:"total_services"`
	TotalAppointments int64     `json:"total_appointments"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func NewMedspaDTO(m *models.Medspa, totalServices, totalAppointments int64) MedspaDTO {
	return MedspaDTO{
		ID:                m.ID,
		Name:              m.Name,
		Address:           m.Address,
		PhoneNumber:       m.PhoneNumber,
		EmailAddress:      m.EmailAddress,
		TotalServices:     totalServices,
		TotalAppointments: totalAppointments,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

type ServiceTypeDTO struct {
	ID           uint   `json:"id"`
	Category     uint   `json:"category"`
	CategoryName string `json:"category_name"`
	Name         string `json:"name"`
	Description  string `json:"description"`
}

func NewServiceTypeDTO(t *models.ServiceType) ServiceTypeDTO {
	return ServiceTypeDTO{
		ID:           t.ID,
		Category:     t.CategoryID,
		CategoryName: t.Category.Name,
		Name:         t.Name,
		Description:  t.Description,
	}
}

type ServiceDTO struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Price            string    `json:"price"`
	Duration         int       `json:"duration"`
	Medspa           uint      `json:"medspa"`
	MedspaName       string    `json:"medspa_name"`
	Category         uint      `json:"category"`
	CategoryName     string    `json:"category_name"`
	ServiceType      uint      `json:"service_type"`
	ServiceTypeName  string    `json:"service_type_name"`
	Product          string    `json:"product"`
	Supplier         string    `json:"supplier"`
	Active           bool      `json:"active"`
	ImageURL         string    `json:"image_url"`
	AppointmentCount int64     `json:"appointment_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewServiceDTO expects Medspa, Category and ServiceType to be loaded.
func NewServiceDTO(s *models.Service, appointmentCount int64) ServiceDTO {
	return ServiceDTO{
		ID:               s.ID,
		Name:             s.Name,
		Description:      s.Description,
		Price:            s.Price.StringFixed(2),
		Duration:         s.Duration,
		Medspa:           s.MedspaID,
		MedspaName:       s.Medspa.Name,
		Category:         s.CategoryID,
		CategoryName:     s.Category.Name,
		ServiceType:      s.ServiceTypeID,
		ServiceTypeName:  s.ServiceType.Name,
		Product:          s.Product,
		Supplier:         s.Supplier,
		Active:           s.Active,
		ImageURL:         s.ImageURL,
		AppointmentCount: appointmentCount,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}
