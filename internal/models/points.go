package models

import "time"

// UserPoints is the materialized aggregate the leaderboard reads. One row per
// user, created together with the user. Only the attendance and
// donation-approval transactions write to it, always as atomic increments.
type UserPoints struct {
	UserID         uint64    `gorm:"primarykey" json:"user_id"`
	Points         int64     `gorm:"not null;default:0" json:"points"`
	VolunteerHours int64     `gorm:"not null;default:0" json:"volunteer_hours"`
	EventsAttended int64     `gorm:"not null;default:0" json:"events_attended"`
	UpdatedAt      time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// OrganizationPoints mirrors UserPoints for organization-attributed donations.
type OrganizationPoints struct {
	OrganizationID uint64    `gorm:"primarykey" json:"organization_id"`
	Points         int64     `gorm:"not null;default:0" json:"points"`
	VolunteerHours int64     `gorm:"not null;default:0" json:"volunteer_hours"`
	EventsAttended int64     `gorm:"not null;default:0" json:"events_attended"`
	UpdatedAt      time.Time `json:"updated_at"`

	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}
