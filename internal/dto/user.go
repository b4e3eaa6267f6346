package dto

import (
	"time"

	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID             uint64          `json:"id"`
	Email          string          `json:"email"`
	DisplayName    string          `json:"display_name"`
	Role           models.UserRole `json:"role"`
	OrganizationID *uint64         `json:"organization_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// UserProfileDTO adds the aggregate totals to the user shape
type UserProfileDTO struct {
	UserDTO
	Points           int64  `json:"points"`
	VolunteerHours   int64  `json:"volunteer_hours"`
	EventsAttended   int64  `json:"events_attended"`
	OrganizationName string `json:"organization_name,omitempty"`
}

// ToUserDTO converts a user model to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Email:          user.Email,
		DisplayName:    user.DisplayName,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		CreatedAt:      user.CreatedAt,
	}
}

// ToUserProfileDTO converts a user with preloaded points and organization
func ToUserProfileDTO(user models.User) UserProfileDTO {
	profile := UserProfileDTO{UserDTO: ToUserDTO(user)}
	if user.Points != nil {
		profile.Points = user.Points.Points
		profile.VolunteerHours = user.Points.VolunteerHours
		profile.EventsAttended = user.Points.EventsAttended
	}
	if user.Organization != nil {
		profile.OrganizationName = user.Organization.Name
	}
	return profile
}
