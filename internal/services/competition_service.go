package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
	"github.com/jleignadier/nueva-generacion-sub000/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCompetitionNotFound     = errors.New("competition not found")
	ErrCompetitionNameRequired = errors.New("competition name is required")
)

// CompetitionService manages the leaderboard competition overlay.
type CompetitionService struct {
	competitionRepo repository.CompetitionRepository
}

// NewCompetitionService creates a new CompetitionService
func NewCompetitionService(competitionRepo repository.CompetitionRepository) *CompetitionService {
	return &CompetitionService{
		competitionRepo: competitionRepo,
	}
}

// CreateCompetitionInput represents parameters to create a competition.
type CreateCompetitionInput struct {
	Name        string
	Description string
	Prize       string
	EndsAt      time.Time
}

// CreateCompetition creates an inactive competition; activation is a
// separate step.
func (s *CompetitionService) CreateCompetition(input CreateCompetitionInput) (*models.Competition, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrCompetitionNameRequired
	}

	competition := &models.Competition{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Prize:       input.Prize,
		EndsAt:      input.EndsAt,
	}

	if err := s.competitionRepo.Create(competition); err != nil {
		return nil, fmt.Errorf("failed to create competition: %w", err)
	}

	return competition, nil
}

// UpdateCompetitionInput represents updatable competition fields.
type UpdateCompetitionInput struct {
	Name        *string
	Description *string
	Prize       *string
	EndsAt      *time.Time
}

// UpdateCompetition updates a competition's details. The active flag is only
// touched through Activate.
func (s *CompetitionService) UpdateCompetition(id uint64, input UpdateCompetitionInput) (*models.Competition, error) {
	competition, err := s.competitionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to find competition: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrCompetitionNameRequired
		}
		competition.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		competition.Description = *input.Description
	}
	if input.Prize != nil {
		competition.Prize = *input.Prize
	}
	if input.EndsAt != nil {
		competition.EndsAt = *input.EndsAt
	}

	if err := s.competitionRepo.Update(competition); err != nil {
		return nil, fmt.Errorf("failed to update competition: %w", err)
	}

	return competition, nil
}

// Activate makes one competition the active one, deactivating all others.
func (s *CompetitionService) Activate(id uint64) (*models.Competition, error) {
	if err := s.competitionRepo.Activate(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompetitionNotFound
		}
		return nil, fmt.Errorf("failed to activate competition: %w", err)
	}

	return s.competitionRepo.FindByID(id)
}

// GetActive returns the active competition, or nil when none is active.
func (s *CompetitionService) GetActive() (*models.Competition, error) {
	competition, err := s.competitionRepo.FindActive()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active competition: %w", err)
	}
	return competition, nil
}

// List returns all competitions
func (s *CompetitionService) List() ([]models.Competition, error) {
	competitions, err := s.competitionRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	return competitions, nil
}

// Delete removes a competition
func (s *CompetitionService) Delete(id uint64) error {
	if _, err := s.competitionRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCompetitionNotFound
		}
		return fmt.Errorf("failed to find competition: %w", err)
	}

	if err := s.competitionRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete competition: %w", err)
	}
	return nil
}
