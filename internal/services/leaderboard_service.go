package services

import (
	"fmt"

	"github.com/jleignadier/nueva-generacion-sub000/internal/constants"
	"github.com/jleignadier/nueva-generacion-sub000/internal/repository"
)

// UserLeaderboardEntry is a ranked user standing.
type UserLeaderboardEntry struct {
	Rank             int    `json:"rank"`
	UserID           uint64 `json:"user_id"`
	DisplayName      string `json:"display_name"`
	OrganizationName string `json:"organization_name,omitempty"`
	Points           int64  `json:"points"`
	VolunteerHours   int64  `json:"volunteer_hours"`
	EventsAttended   int64  `json:"events_attended"`
}

// OrganizationLeaderboardEntry is a ranked organization standing.
type OrganizationLeaderboardEntry struct {
	Rank           int    `json:"rank"`
	OrganizationID uint64 `json:"organization_id"`
	Name           string `json:"name"`
	Points         int64  `json:"points"`
	VolunteerHours int64  `json:"volunteer_hours"`
	EventsAttended int64  `json:"events_attended"`
}

// LeaderboardService projects the materialized aggregates into ranked
// standings. It is a pure read and never mutates aggregate state.
type LeaderboardService struct {
	pointsRepo repository.PointsRepository
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(pointsRepo repository.PointsRepository) *LeaderboardService {
	return &LeaderboardService{
		pointsRepo: pointsRepo,
	}
}

// RankUsers returns at most limit users in non-increasing point order with a
// dense rank starting at 1. The repository orders ties by user ID, so
// repeated calls over unchanged data return the same sequence.
func (s *LeaderboardService) RankUsers(limit int) ([]UserLeaderboardEntry, error) {
	if limit <= 0 || limit > constants.MaxPageSize {
		limit = constants.DefaultLeaderboardLimit
	}

	rows, err := s.pointsRepo.RankUsers(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank users: %w", err)
	}

	entries := make([]UserLeaderboardEntry, 0, len(rows))
	rank := 1
	for i, row := range rows {
		if i > 0 && row.Points < rows[i-1].Points {
			rank++
		}
		entries = append(entries, UserLeaderboardEntry{
			Rank:             rank,
			UserID:           row.UserID,
			DisplayName:      row.DisplayName,
			OrganizationName: row.OrganizationName,
			Points:           row.Points,
			VolunteerHours:   row.VolunteerHours,
			EventsAttended:   row.EventsAttended,
		})
	}

	return entries, nil
}

// RankOrganizations returns at most limit active organizations, ranked the
// same way as users.
func (s *LeaderboardService) RankOrganizations(limit int) ([]OrganizationLeaderboardEntry, error) {
	if limit <= 0 || limit > constants.MaxPageSize {
		limit = constants.DefaultLeaderboardLimit
	}

	rows, err := s.pointsRepo.RankOrganizations(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank organizations: %w", err)
	}

	entries := make([]OrganizationLeaderboardEntry, 0, len(rows))
	rank := 1
	for i, row := range rows {
		if i > 0 && row.Points < rows[i-1].Points {
			rank++
		}
		entries = append(entries, OrganizationLeaderboardEntry{
			Rank:           rank,
			OrganizationID: row.OrganizationID,
			Name:           row.Name,
			Points:         row.Points,
			VolunteerHours: row.VolunteerHours,
			EventsAttended: row.EventsAttended,
		})
	}

	return entries, nil
}
