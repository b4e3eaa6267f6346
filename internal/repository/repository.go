package repository

import (
	"time"

	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// CreateWithPoints creates a user and their points row within a single
	// transaction. For organization signups org and orgPoints are non-nil and
	// created in the same transaction.
	CreateWithPoints(user *models.User, points *models.UserPoints, org *models.Organization, orgPoints *models.OrganizationPoints) error

	// FindByID finds a user by ID
	FindByID(id uint64, preload ...string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// UpdateRole changes a user's role and appends the audit row atomically
	UpdateRole(user *models.User, newRole models.UserRole, audit *models.RoleAudit) error
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(org *models.Organization) error

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// List retrieves all organizations
	List() ([]models.Organization, error)

	// Update updates an organization
	Update(org *models.Organization) error

	// ListMembers lists the users affiliated with an organization
	ListMembers(organizationID uint64) ([]models.User, error)
}

// EventFilter holds filtering options for listing events
type EventFilter struct {
	From             *time.Time
	Until            *time.Time
	IncludeCancelled bool
	Page             int
	PageSize         int
}

// EventRepository defines the interface for event, registration and
// attendance data access
type EventRepository interface {
	// Create creates a new event
	Create(event *models.Event) error

	// FindByID finds an event by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Event, error)

	// List retrieves events with filtering and pagination
	List(filter EventFilter) ([]models.Event, int64, error)

	// Update updates an event
	Update(event *models.Event) error

	// Delete soft deletes an event
	Delete(id uint64) error

	// CreateRegistration inserts a registration if absent. Returns false when
	// the pair already existed; never errors on the duplicate.
	CreateRegistration(reg *models.Registration) (bool, error)

	// FindRegistration finds a registration for the (event, user) pair
	FindRegistration(eventID, userID uint64) (*models.Registration, error)

	// FindAttendance finds an attendance record for the (event, user) pair
	FindAttendance(eventID, userID uint64) (*models.Attendance, error)

	// CreateAttendanceWithAward inserts the attendance row and applies the
	// point/hour/event-count increments to the attendee's aggregate within one
	// transaction. A duplicate (event, user) pair surfaces as
	// gorm.ErrDuplicatedKey with no aggregate change.
	CreateAttendanceWithAward(att *models.Attendance) error

	// ListAttendees lists attendance records for an event
	ListAttendees(eventID uint64) ([]models.Attendance, error)
}

// DonationFilter holds filtering options for listing donations
type DonationFilter struct {
	Status   *models.DonationStatus
	DonorID  *uint64
	EventID  *uint64
	Page     int
	PageSize int
}

// DonationDecision describes an approval or rejection of a pending donation.
type DonationDecision struct {
	DonationID  uint64
	ReviewerID  uint64
	Approve     bool
	PointsDelta int64
	ReviewedAt  time.Time
}

// DonationRepository defines the interface for donation data access
type DonationRepository interface {
	// Create creates a new pending donation
	Create(donation *models.Donation) error

	// FindByID finds a donation by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Donation, error)

	// List retrieves donations with filtering and pagination
	List(filter DonationFilter) ([]models.Donation, int64, error)

	// Decide applies a terminal status transition with check-and-set
	// semantics: the status write only matches rows still pending, and the
	// funding/point increments run in the same transaction. Returns
	// ErrDonationAlreadyDecided when the donation left pending status first.
	Decide(decision DonationDecision) (*models.Donation, error)
}

// UserLeaderboardRow is one ranked user entry before rank assignment.
type UserLeaderboardRow struct {
	UserID           uint64
	DisplayName      string
	OrganizationName string
	Points           int64
	VolunteerHours   int64
	EventsAttended   int64
}

// OrganizationLeaderboardRow is one ranked organization entry before rank
// assignment.
type OrganizationLeaderboardRow struct {
	OrganizationID uint64
	Name           string
	Points         int64
	VolunteerHours int64
	EventsAttended int64
}

// PointsRepository defines read access to the materialized aggregates
type PointsRepository interface {
	// FindUserPoints returns a user's aggregate row
	FindUserPoints(userID uint64) (*models.UserPoints, error)

	// FindOrganizationPoints returns an organization's aggregate row
	FindOrganizationPoints(organizationID uint64) (*models.OrganizationPoints, error)

	// RankUsers returns at most limit users ordered by points descending,
	// user ID ascending on ties
	RankUsers(limit int) ([]UserLeaderboardRow, error)

	// RankOrganizations returns at most limit active organizations ordered by
	// points descending, organization ID ascending on ties
	RankOrganizations(limit int) ([]OrganizationLeaderboardRow, error)
}

// CompetitionRepository defines the interface for competition data access
type CompetitionRepository interface {
	// Create creates a new competition
	Create(competition *models.Competition) error

	// FindByID finds a competition by ID
	FindByID(id uint64) (*models.Competition, error)

	// FindActive returns the currently active competition, if any
	FindActive() (*models.Competition, error)

	// List retrieves all competitions
	List() ([]models.Competition, error)

	// Update updates a competition
	Update(competition *models.Competition) error

	// Activate marks one competition active and deactivates every other in
	// the same transaction
	Activate(id uint64) error

	// Delete soft deletes a competition
	Delete(id uint64) error
}
