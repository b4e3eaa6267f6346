package models

import (
	"time"

	"gorm.io/gorm"
)

// Competition is an admin-managed overlay on the leaderboard. At most one is
// active at a time; the activation write path deactivates the others.
type Competition struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Prize       string         `gorm:"type:varchar(255)" json:"prize"`
	EndsAt      time.Time      `gorm:"not null" json:"ends_at"`
	Active      bool           `gorm:"not null;default:false;index" json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
