package models

import (
	"time"

	"gorm.io/gorm"
)

type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

type Event struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Location    string `gorm:"type:varchar(255)" json:"location"`
	ImageURL    string `gorm:"type:varchar(512)" json:"image_url"`

	StartsAt time.Time `gorm:"not null;index" json:"starts_at"`
	EndsAt   time.Time `gorm:"not null" json:"ends_at"`

	// Reward values snapshotted onto attendance rows at check-in time.
	PointsEarned   int64 `gorm:"not null;default:0" json:"points_earned"`
	VolunteerHours int64 `gorm:"not null;default:0" json:"volunteer_hours"`

	// Optional funding goal, filled by approved donations only.
	FundingRequired *float64 `gorm:"type:decimal(12,2)" json:"funding_required"`
	CurrentFunding  float64  `gorm:"type:decimal(12,2);not null;default:0" json:"current_funding"`

	Cancelled bool `gorm:"not null;default:false" json:"cancelled"`

	CreatedByID uint64         `gorm:"not null" json:"created_by_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	CreatedBy     User           `gorm:"foreignKey:CreatedByID" json:"-"`
	Registrations []Registration `gorm:"foreignKey:EventID" json:"-"`
	Attendances   []Attendance   `gorm:"foreignKey:EventID" json:"-"`
}

// IsPast reports whether the event has fully elapsed.
func (e *Event) IsPast(now time.Time) bool {
	return e.EndsAt.Before(now)
}

// Status derives the lifecycle status. An explicit cancellation wins over the
// date comparison.
func (e *Event) Status(now time.Time) EventStatus {
	if e.Cancelled {
		return EventCancelled
	}
	if e.IsPast(now) {
		return EventCompleted
	}
	return EventUpcoming
}
