package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jleignadier/nueva-generacion-sub000/internal/constants"
	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
	"github.com/jleignadier/nueva-generacion-sub000/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrDisplayNameRequired  = errors.New("display name is required")
	ErrOrgNameRequired      = errors.New("organization name is required")
	ErrInvalidRole          = errors.New("invalid role")
	ErrCannotChangeOwnRole  = errors.New("cannot change your own role")
)

// AuthService handles signup, login and privileged role changes.
type AuthService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// SignupInput represents the required information to create a new account.
// Organization fields are used only when AsOrganization is set.
type SignupInput struct {
	Email          string
	Password       string
	DisplayName    string
	AsOrganization bool
	OrgName        string
	OrgContact     string
	OrgDescription string
}

// Signup creates a new account along with its points row; organization
// signups also create the organization and its points row in the same
// transaction.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if strings.TrimSpace(input.DisplayName) == "" {
		return nil, ErrDisplayNameRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if input.AsOrganization && strings.TrimSpace(input.OrgName) == "" {
		return nil, ErrOrgNameRequired
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Role:         models.RoleVolunteer,
	}

	var org *models.Organization
	var orgPoints *models.OrganizationPoints
	if input.AsOrganization {
		user.Role = models.RoleOrganization
		org = &models.Organization{
			Name:         strings.TrimSpace(input.OrgName),
			ContactEmail: input.OrgContact,
			Description:  input.OrgDescription,
			Status:       models.OrganizationActive,
		}
		orgPoints = &models.OrganizationPoints{}
	}

	if err := s.userRepo.CreateWithPoints(user, &models.UserPoints{}, org, orgPoints); err != nil {
		return nil, fmt.Errorf("failed to complete signup: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id, "Organization", "Points")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// UpdateRole changes a user's role. The caller must be an admin (enforced at
// the route), and the target can never be the caller's own account.
func (s *AuthService) UpdateRole(actorID, targetID uint64, newRole models.UserRole, reason string) (*models.User, error) {
	if targetID == actorID {
		return nil, ErrCannotChangeOwnRole
	}

	switch newRole {
	case models.RoleVolunteer, models.RoleOrganization, models.RoleAdmin:
	default:
		return nil, ErrInvalidRole
	}

	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	audit := &models.RoleAudit{
		ActorID:      actorID,
		TargetUserID: targetID,
		OldRole:      target.Role,
		NewRole:      newRole,
		Reason:       reason,
	}

	if err := s.userRepo.UpdateRole(target, newRole, audit); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	s.logger.Info("role changed",
		zap.Uint64("actor_id", actorID),
		zap.Uint64("target_user_id", targetID),
		zap.String("old_role", string(audit.OldRole)),
		zap.String("new_role", string(newRole)),
	)

	target.Role = newRole
	return target, nil
}
