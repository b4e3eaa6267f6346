package models

import (
	"time"

	"gorm.io/gorm"
)

type OrganizationStatus string

const (
	OrganizationActive   OrganizationStatus = "active"
	OrganizationInactive OrganizationStatus = "inactive"
)

type Organization struct {
	ID          uint64             `gorm:"primarykey" json:"id"`
	Name        string             `gorm:"type:varchar(255);not null" json:"name"`
	Description string             `gorm:"type:text" json:"description"`
	// ContactEmail is only exposed to admins; DTOs strip it for everyone else.
	ContactEmail string             `gorm:"type:varchar(255)" json:"contact_email,omitempty"`
	Status       OrganizationStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	DeletedAt    gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relations
	Members []User              `gorm:"foreignKey:OrganizationID" json:"members,omitempty"`
	Points  *OrganizationPoints `gorm:"foreignKey:OrganizationID" json:"points,omitempty"`
}

func (o *Organization) IsActive() bool {
	return o.Status == OrganizationActive
}
