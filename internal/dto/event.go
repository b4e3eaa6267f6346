package dto

import (
	"time"

	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
)

// EventDTO represents an event in API responses with its derived status.
type EventDTO struct {
	ID              uint64             `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Location        string             `json:"location"`
	ImageURL        string             `json:"image_url,omitempty"`
	StartsAt        time.Time          `json:"starts_at"`
	EndsAt          time.Time          `json:"ends_at"`
	PointsEarned    int64              `json:"points_earned"`
	VolunteerHours  int64              `json:"volunteer_hours"`
	FundingRequired *float64           `json:"funding_required,omitempty"`
	CurrentFunding  float64            `json:"current_funding"`
	Status          models.EventStatus `json:"status"`
}

// AttendanceDTO represents an attendance record in API responses.
type AttendanceDTO struct {
	EventID       uint64               `json:"event_id"`
	UserID        uint64               `json:"user_id"`
	DisplayName   string               `json:"display_name,omitempty"`
	Method        models.CheckInMethod `json:"method"`
	PointsAwarded int64                `json:"points_awarded"`
	HoursAwarded  int64                `json:"hours_awarded"`
	CheckedInAt   time.Time            `json:"checked_in_at"`
}

// ToEventDTO converts an event to DTO, deriving the status at now.
func ToEventDTO(event models.Event, now time.Time) EventDTO {
	return EventDTO{
		ID:              event.ID,
		Title:           event.Title,
		Description:     event.Description,
		Location:        event.Location,
		ImageURL:        event.ImageURL,
		StartsAt:        event.StartsAt,
		EndsAt:          event.EndsAt,
		PointsEarned:    event.PointsEarned,
		VolunteerHours:  event.VolunteerHours,
		FundingRequired: event.FundingRequired,
		CurrentFunding:  event.CurrentFunding,
		Status:          event.Status(now),
	}
}

// ToEventDTOs converts a slice of events
func ToEventDTOs(events []models.Event, now time.Time) []EventDTO {
	dtos := make([]EventDTO, len(events))
	for i, event := range events {
		dtos[i] = ToEventDTO(event, now)
	}
	return dtos
}

// ToAttendanceDTO converts an attendance record to DTO
func ToAttendanceDTO(att models.Attendance) AttendanceDTO {
	dto := AttendanceDTO{
		EventID:       att.EventID,
		UserID:        att.UserID,
		Method:        att.Method,
		PointsAwarded: att.PointsAwarded,
		HoursAwarded:  att.HoursAwarded,
		CheckedInAt:   att.CheckedInAt,
	}
	if att.User.ID != 0 {
		dto.DisplayName = att.User.DisplayName
	}
	return dto
}
