package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ServiceCategory struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

func (ServiceCategory) TableName() string { return "service_category" }

type ServiceType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CategoryID uint            `gorm:"not null;index" json:"category_id"`
	Category   ServiceCategory `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

func (ServiceType) TableName() string { return "service_type" }

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	MedspaID uint   `gorm:"not null;index" json:"medspa_id"`
	Medspa   Medspa `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	CategoryID uint            `gorm:"not null;index" json:"category_id"`
	Category   ServiceCategory `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ServiceTypeID uint        `gorm:"not null;index" json:"service_type_id"`
	ServiceType   ServiceType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name        string          `gorm:"size:200;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Product     string          `gorm:"size:200" json:"product"`
	Supplier    string          `gorm:"size:200" json:"supplier"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Duration    int             `gorm:"not null" json:"duration"`
	Active      bool            `gorm:"not null" json:"active"`
	ImageURL    string          `gorm:"size:500" json:"image_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Service) TableName() string { return "service" }
