package models

import "time"

// RoleAudit records privileged role changes. Role changes never target the
// acting admin's own account.
type RoleAudit struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	ActorID      uint64    `gorm:"not null;index" json:"actor_id"`
	TargetUserID uint64    `gorm:"not null;index" json:"target_user_id"`
	OldRole      UserRole  `gorm:"type:varchar(20);not null" json:"old_role"`
	NewRole      UserRole  `gorm:"type:varchar(20);not null" json:"new_role"`
	Reason       string    `gorm:"type:text" json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
}
