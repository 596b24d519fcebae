package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	MedspaID uint   `gorm:"not null;index" json:"medspa_id"`
	Medspa   Medspa `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	StartTime time.Time `gorm:"not null;index" json:"start_time"`
	Status    string    `gorm:"size:20;not null;default:'scheduled';index" json:"status"`

	TotalPrice    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"total_price"`
	TotalDuration int             `gorm:"not null;default:0" json:"total_duration"`

	Services []AppointmentService `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Appointment) TableName() string { return "appointment" }

// AppointmentService links an appointment to one of its services.
// Services referenced here cannot be deleted.
type AppointmentService struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID uint `gorm:"not null;uniqueIndex:uq_appointment_service" json:"appointment_id"`

	ServiceID uint    `gorm:"not null;uniqueIndex:uq_appointment_service;index" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:NO ACTION;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (AppointmentService) TableName() string { return "appointment_service" }
