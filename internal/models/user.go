package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleVolunteer    UserRole = "volunteer"
	RoleOrganization UserRole = "organization"
	RoleAdmin        UserRole = "admin"
)

type User struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Email          string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash   string         `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName    string         `gorm:"type:varchar(255);not null" json:"display_name"`
	Role           UserRole       `gorm:"type:varchar(20);not null;default:'volunteer'" json:"role"`
	OrganizationID *uint64        `gorm:"index" json:"organization_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization  *Organization  `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Points        *UserPoints    `gorm:"foreignKey:UserID" json:"points,omitempty"`
	Registrations []Registration `gorm:"foreignKey:UserID" json:"-"`
	Attendances   []Attendance   `gorm:"foreignKey:UserID" json:"-"`
	Donations     []Donation     `gorm:"foreignKey:DonorID" json:"-"`
}

// IsAdmin is derived from the single role column; there is no separate flag.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
