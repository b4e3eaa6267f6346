package models

import "time"

type CheckInMethod string

const (
	CheckInQRScan CheckInMethod = "qr_scan"
	CheckInManual CheckInMethod = "manual"
)

// Attendance is the one-time confirmation that a user was present at an event.
// The composite primary key is the uniqueness constraint the check-in engine
// relies on: a second insert for the same pair is a duplicate-key error, never
// a second award.
type Attendance struct {
	EventID uint64        `gorm:"primarykey" json:"event_id"`
	UserID  uint64        `gorm:"primarykey" json:"user_id"`
	Method  CheckInMethod `gorm:"type:varchar(20);not null" json:"method"`

	// Reward values copied from the event at check-in time; later edits to the
	// event do not rewrite history.
	PointsAwarded int64 `gorm:"not null" json:"points_awarded"`
	HoursAwarded  int64 `gorm:"not null" json:"hours_awarded"`

	CheckedInByID uint64    `gorm:"not null" json:"checked_in_by_id"`
	CheckedInAt   time.Time `gorm:"not null" json:"checked_in_at"`

	// Relations
	Event Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
