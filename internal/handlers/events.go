package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jleignadier/nueva-generacion-sub000/internal/dto"
	apierrors "github.com/jleignadier/nueva-generacion-sub000/internal/errors"
	"github.com/jleignadier/nueva-generacion-sub000/internal/middleware"
	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
	"github.com/jleignadier/nueva-generacion-sub000/internal/repository"
	"github.com/jleignadier/nueva-generacion-sub000/internal/services"
	"github.com/jleignadier/nueva-generacion-sub000/internal/utils"
)

// EventHandler coordinates event, registration and check-in HTTP handlers.
type EventHandler struct {
	eventService  *services.EventService
	qrTokenSecret string
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService *services.EventService, qrTokenSecret string) *EventHandler {
	return &EventHandler{
		eventService:  eventService,
		qrTokenSecret: qrTokenSecret,
	}
}

// ListEvents returns events, optionally windowed by from/until timestamps.
func (h *EventHandler) ListEvents(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := repository.EventFilter{
		Page:             params.Page,
		PageSize:         params.Limit,
		IncludeCancelled: c.Query("include_cancelled") == "true",
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			apierrors.BadRequest(c, "Invalid 'from' timestamp, expected RFC3339")
			return
		}
		filter.From = &from
	}
	if untilStr := c.Query("until"); untilStr != "" {
		until, err := time.Parse(time.RFC3339, untilStr)
		if err != nil {
			apierrors.BadRequest(c, "Invalid 'until' timestamp, expected RFC3339")
			return
		}
		filter.Until = &until
	}

	events, total, err := h.eventService.ListEvents(filter)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch events")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": dto.ToEventDTOs(events, time.Now()),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetEvent returns the event loaded by RequireEvent.
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*event, time.Now()))
}

// CreateEvent creates a new event. Admin-only route.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateEventRequest struct {
		Title           string    `json:"title" binding:"required"`
		Description     string    `json:"description"`
		Location        string    `json:"location"`
		ImageURL        string    `json:"image_url"`
		StartsAt        time.Time `json:"starts_at" binding:"required"`
		EndsAt          time.Time `json:"ends_at" binding:"required"`
		PointsEarned    int64     `json:"points_earned"`
		VolunteerHours  int64     `json:"volunteer_hours"`
		FundingRequired *float64  `json:"funding_required"`
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	event, err := h.eventService.CreateEvent(services.CreateEventInput{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		ImageURL:        req.ImageURL,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
		PointsEarned:    req.PointsEarned,
		VolunteerHours:  req.VolunteerHours,
		FundingRequired: req.FundingRequired,
		CreatedByID:     userID,
	})
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEventDTO(*event, time.Now()))
}

// UpdateEvent updates an existing event. Admin-only route.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	type UpdateEventRequest struct {
		Title           *string    `json:"title"`
		Description     *string    `json:"description"`
		Location        *string    `json:"location"`
		ImageURL        *string    `json:"image_url"`
		StartsAt        *time.Time `json:"starts_at"`
		EndsAt          *time.Time `json:"ends_at"`
		PointsEarned    *int64     `json:"points_earned"`
		VolunteerHours  *int64     `json:"volunteer_hours"`
		FundingRequired *float64   `json:"funding_required"`
		Cancelled       *bool      `json:"cancelled"`
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.eventService.UpdateEvent(event.ID, services.UpdateEventInput{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		ImageURL:        req.ImageURL,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
		PointsEarned:    req.PointsEarned,
		VolunteerHours:  req.VolunteerHours,
		FundingRequired: req.FundingRequired,
		Cancelled:       req.Cancelled,
	})
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*updated, time.Now()))
}

// DeleteEvent deletes an event. Admin-only route.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	if err := h.eventService.DeleteEvent(event.ID); err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event deleted successfully",
	})
}

// Register records the current user's intent to attend the event.
func (h *EventHandler) Register(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	result, err := h.eventService.Register(event.ID, userID, time.Now())
	if err != nil {
		respondEventError(c, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyRegistered {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"event_id":           result.Registration.EventID,
		"user_id":            result.Registration.UserID,
		"already_registered": result.AlreadyRegistered,
	})
}

// CheckIn records attendance. QR scans carry the token from the event's
// displayed code; manual check-ins name a user and are reserved for admins.
func (h *EventHandler) CheckIn(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	type CheckInRequest struct {
		Method string  `json:"method" binding:"required"`
		Token  string  `json:"token"`
		UserID *uint64 `json:"user_id"`
	}

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	method := models.CheckInMethod(req.Method)
	targetID := actor.ID

	switch method {
	case models.CheckInQRScan:
		eventID, err := utils.ParseQRToken(h.qrTokenSecret, req.Token)
		if err != nil {
			apierrors.BadRequest(c, "Invalid or expired QR token")
			return
		}
		if eventID != event.ID {
			apierrors.BadRequest(c, "QR token does not match this event")
			return
		}
	case models.CheckInManual:
		if req.UserID == nil {
			apierrors.BadRequest(c, "user_id is required for manual check-in")
			return
		}
		targetID = *req.UserID
	default:
		apierrors.BadRequest(c, "Invalid check-in method")
		return
	}

	result, err := h.eventService.CheckIn(services.CheckInInput{
		EventID:   event.ID,
		UserID:    targetID,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Method:    method,
		Now:       time.Now(),
	})
	if err != nil {
		respondEventError(c, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyCheckedIn {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"attendance":         dto.ToAttendanceDTO(*result.Attendance),
		"already_checked_in": result.AlreadyCheckedIn,
	})
}

// GetStatus returns the current user's participation status for the event.
func (h *EventHandler) GetStatus(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	status, err := h.eventService.GetStatus(event.ID, userID, time.Now())
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// ListAttendees returns the attendance list for an event. Admin-only route.
func (h *EventHandler) ListAttendees(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	attendees, err := h.eventService.ListAttendees(event.ID)
	if err != nil {
		respondEventError(c, err)
		return
	}

	dtos := make([]dto.AttendanceDTO, len(attendees))
	for i, att := range attendees {
		dtos[i] = dto.ToAttendanceDTO(att)
	}

	c.JSON(http.StatusOK, gin.H{
		"attendees": dtos,
	})
}

// GetCheckInToken issues the signed token the event's QR code encodes.
// Admin-only route; the organizer embeds the token in the displayed code.
func (h *EventHandler) GetCheckInToken(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	token, err := utils.SignQRToken(h.qrTokenSecret, event.ID, event.EndsAt)
	if err != nil {
		apierrors.InternalError(c, "Failed to sign check-in token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event_id": event.ID,
		"token":    token,
	})
}

// DownloadCalendar streams the event as an iCalendar file with a reminder.
func (h *EventHandler) DownloadCalendar(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	ics := utils.BuildEventICS(event)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"event-%d.ics\"", event.ID))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}

func respondEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEventNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAttendeeNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrEventPast),
		errors.Is(err, services.ErrEventCancelled),
		errors.Is(err, services.ErrAlreadyAttended):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrManualRequiresAdmin),
		errors.Is(err, services.ErrCheckInNotPermitted):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidCheckInMethod),
		errors.Is(err, services.ErrEventTitleRequired),
		errors.Is(err, services.ErrEventTimesInvalid):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
