package models

import "time"

type Medspa struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Address      string `gorm:"size:255" json:"address"`
	PhoneNumber  string `gorm:"size:20" json:"phone_number"`
	EmailAddress string `gorm:"size:254;uniqueIndex;not null" json:"email_address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Medspa) TableName() string { return "medspa" }
