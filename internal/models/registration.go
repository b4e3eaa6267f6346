package models

import "time"

// Registration records intent to attend. It drives reminders only and never
// grants points. One row per (event, user).
type Registration struct {
	EventID   uint64    `gorm:"primarykey" json:"event_id"`
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Event Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
