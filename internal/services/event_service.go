package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
	"github.com/jleignadier/nueva-generacion-sub000/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrEventPast            = errors.New("event has already ended")
	ErrEventCancelled       = errors.New("event is cancelled")
	ErrAlreadyAttended      = errors.New("attendance already recorded for this event")
	ErrAttendeeNotFound     = errors.New("attendee not found")
	ErrManualRequiresAdmin  = errors.New("manual check-in requires admin privilege")
	ErrCheckInNotPermitted  = errors.New("check-in on behalf of another user requires admin privilege")
	ErrInvalidCheckInMethod = errors.New("invalid check-in method")
	ErrEventTitleRequired   = errors.New("title is required")
	ErrEventTimesInvalid    = errors.New("event end time must be after start time")
)

// EventService mediates a user's progression through registration and
// attendance, and issues reward credit exactly once per (user, event) pair.
type EventService struct {
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
	logger    *zap.Logger
}

// NewEventService creates a new EventService
func NewEventService(eventRepo repository.EventRepository, userRepo repository.UserRepository, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// RegisterResult reports the outcome of a registration attempt.
type RegisterResult struct {
	Registration      *models.Registration
	AlreadyRegistered bool
}

// Register records intent to attend. Calling it twice is a no-op, not an
// error; no points move here.
func (s *EventService) Register(eventID, userID uint64, now time.Time) (*RegisterResult, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	if event.Cancelled {
		return nil, ErrEventCancelled
	}
	if event.IsPast(now) {
		return nil, ErrEventPast
	}

	// A registration adds nothing once attendance exists.
	if _, err := s.eventRepo.FindAttendance(eventID, userID); err == nil {
		return nil, ErrAlreadyAttended
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check attendance: %w", err)
	}

	reg := &models.Registration{
		EventID: eventID,
		UserID:  userID,
	}

	created, err := s.eventRepo.CreateRegistration(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	if !created {
		existing, err := s.eventRepo.FindRegistration(eventID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load registration: %w", err)
		}
		return &RegisterResult{Registration: existing, AlreadyRegistered: true}, nil
	}

	return &RegisterResult{Registration: reg}, nil
}

// CheckInInput represents a check-in attempt.
type CheckInInput struct {
	EventID   uint64
	UserID    uint64
	ActorID   uint64
	ActorRole models.UserRole
	Method    models.CheckInMethod
	Now       time.Time
}

// CheckInResult reports the outcome of a check-in attempt.
type CheckInResult struct {
	Attendance       *models.Attendance
	AlreadyCheckedIn bool
}

// CheckIn confirms presence and awards points and hours exactly once. A
// repeat call (or the loser of a concurrent race) gets the existing record
// back with AlreadyCheckedIn set, never a second award.
func (s *EventService) CheckIn(input CheckInInput) (*CheckInResult, error) {
	switch input.Method {
	case models.CheckInManual:
		if input.ActorRole != models.RoleAdmin {
			return nil, ErrManualRequiresAdmin
		}
	case models.CheckInQRScan:
		if input.ActorID != input.UserID && input.ActorRole != models.RoleAdmin {
			return nil, ErrCheckInNotPermitted
		}
	default:
		return nil, ErrInvalidCheckInMethod
	}

	event, err := s.eventRepo.FindByID(input.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	if event.Cancelled {
		return nil, ErrEventCancelled
	}
	// Scans stop once the event ends; admins may still reconcile manually.
	if input.Method == models.CheckInQRScan && event.IsPast(input.Now) {
		return nil, ErrEventPast
	}

	if _, err := s.userRepo.FindByID(input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendeeNotFound
		}
		return nil, fmt.Errorf("failed to find attendee: %w", err)
	}

	att := &models.Attendance{
		EventID:       input.EventID,
		UserID:        input.UserID,
		Method:        input.Method,
		PointsAwarded: event.PointsEarned,
		HoursAwarded:  event.VolunteerHours,
		CheckedInByID: input.ActorID,
		CheckedInAt:   input.Now,
	}

	if err := s.eventRepo.CreateAttendanceWithAward(att); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, findErr := s.eventRepo.FindAttendance(input.EventID, input.UserID)
			if findErr != nil {
				return nil, fmt.Errorf("failed to load existing attendance: %w", findErr)
			}
			return &CheckInResult{Attendance: existing, AlreadyCheckedIn: true}, nil
		}
		return nil, fmt.Errorf("failed to record attendance: %w", err)
	}

	s.logger.Info("attendance recorded",
		zap.Uint64("event_id", input.EventID),
		zap.Uint64("user_id", input.UserID),
		zap.String("method", string(input.Method)),
		zap.Int64("points_awarded", att.PointsAwarded),
	)

	return &CheckInResult{Attendance: att}, nil
}

// ParticipationStatus is the single shared derivation of a user's standing
// toward an event.
type ParticipationStatus struct {
	IsRegistered bool `json:"is_registered"`
	HasAttended  bool `json:"has_attended"`
	CanRegister  bool `json:"can_register"`
	CanScanQR    bool `json:"can_scan_qr"`
	IsEventPast  bool `json:"is_event_past"`
}

// GetStatus derives the participation status for a (user, event) pair. Pure
// read; every screen consumes this instead of re-deriving its own.
func (s *EventService) GetStatus(eventID, userID uint64, now time.Time) (*ParticipationStatus, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	isRegistered := false
	if _, err := s.eventRepo.FindRegistration(eventID, userID); err == nil {
		isRegistered = true
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check registration: %w", err)
	}

	hasAttended := false
	if _, err := s.eventRepo.FindAttendance(eventID, userID); err == nil {
		hasAttended = true
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check attendance: %w", err)
	}

	isPast := event.IsPast(now) || event.Cancelled

	return &ParticipationStatus{
		IsRegistered: isRegistered,
		HasAttended:  hasAttended,
		CanRegister:  !isPast && !isRegistered && !hasAttended,
		CanScanQR:    !isPast && !hasAttended,
		IsEventPast:  event.IsPast(now),
	}, nil
}

// CreateEventInput represents input for creating an event
type CreateEventInput struct {
	Title           string
	Description     string
	Location        string
	ImageURL        string
	StartsAt        time.Time
	EndsAt          time.Time
	PointsEarned    int64
	VolunteerHours  int64
	FundingRequired *float64
	CreatedByID     uint64
}

// CreateEvent creates a new event with validation
func (s *EventService) CreateEvent(input CreateEventInput) (*models.Event, error) {
	if input.Title == "" {
		return nil, ErrEventTitleRequired
	}
	if !input.EndsAt.After(input.StartsAt) {
		return nil, ErrEventTimesInvalid
	}

	event := &models.Event{
		Title:           input.Title,
		Description:     input.Description,
		Location:        input.Location,
		ImageURL:        input.ImageURL,
		StartsAt:        input.StartsAt,
		EndsAt:          input.EndsAt,
		PointsEarned:    input.PointsEarned,
		VolunteerHours:  input.VolunteerHours,
		FundingRequired: input.FundingRequired,
		CreatedByID:     input.CreatedByID,
	}

	if err := s.eventRepo.Create(event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}

// UpdateEventInput represents input for updating an event
type UpdateEventInput struct {
	Title           *string
	Description     *string
	Location        *string
	ImageURL        *string
	StartsAt        *time.Time
	EndsAt          *time.Time
	PointsEarned    *int64
	VolunteerHours  *int64
	FundingRequired *float64
	Cancelled       *bool
}

// UpdateEvent updates an existing event. Reward edits do not rewrite already
// awarded attendance rows; those carry their own snapshot.
func (s *EventService) UpdateEvent(eventID uint64, input UpdateEventInput) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrEventTitleRequired
		}
		event.Title = *input.Title
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.ImageURL != nil {
		event.ImageURL = *input.ImageURL
	}
	if input.StartsAt != nil {
		event.StartsAt = *input.StartsAt
	}
	if input.EndsAt != nil {
		event.EndsAt = *input.EndsAt
	}
	if !event.EndsAt.After(event.StartsAt) {
		return nil, ErrEventTimesInvalid
	}
	if input.PointsEarned != nil {
		event.PointsEarned = *input.PointsEarned
	}
	if input.VolunteerHours != nil {
		event.VolunteerHours = *input.VolunteerHours
	}
	if input.FundingRequired != nil {
		event.FundingRequired = input.FundingRequired
	}
	if input.Cancelled != nil {
		event.Cancelled = *input.Cancelled
	}

	if err := s.eventRepo.Update(event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return event, nil
}

// DeleteEvent deletes an event
func (s *EventService) DeleteEvent(eventID uint64) error {
	if _, err := s.eventRepo.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to find event: %w", err)
	}

	if err := s.eventRepo.Delete(eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	return nil
}

// GetEvent returns an event by ID
func (s *EventService) GetEvent(eventID uint64) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}

// ListEvents returns events matching the filter
func (s *EventService) ListEvents(filter repository.EventFilter) ([]models.Event, int64, error) {
	events, total, err := s.eventRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	return events, total, nil
}

// ListAttendees returns the attendance records for an event
func (s *EventService) ListAttendees(eventID uint64) ([]models.Attendance, error) {
	if _, err := s.eventRepo.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	attendees, err := s.eventRepo.ListAttendees(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees: %w", err)
	}
	return attendees, nil
}
