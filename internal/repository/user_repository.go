package repository

import (
	"errors"
	"fmt"

	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating a user fails inside the signup transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateOrganization is returned when creating an organization fails inside the signup transaction.
	ErrCreateOrganization = errors.New("user repository: create organization failed")
	// ErrCreatePoints is returned when creating an aggregate points row fails inside the signup transaction.
	ErrCreatePoints = errors.New("user repository: create points row failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// CreateWithPoints creates the user, their points row and, for organization
// signups, the organization and its points row atomically. The aggregate rows
// exist from signup so later awards are plain increments.
func (r *GormUserRepository) CreateWithPoints(user *models.User, points *models.UserPoints, org *models.Organization, orgPoints *models.OrganizationPoints) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if org != nil {
			if err := tx.Create(org).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrCreateOrganization, err)
			}
			user.OrganizationID = &org.ID
		}

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		points.UserID = user.ID
		if err := tx.Create(points).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreatePoints, err)
		}

		if org != nil && orgPoints != nil {
			orgPoints.OrganizationID = org.ID
			if err := tx.Create(orgPoints).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrCreatePoints, err)
			}
		}

		return nil
	})
}

// FindByID finds a user by ID with optional preloading
func (r *GormUserRepository) FindByID(id uint64, preload ...string) (*models.User, error) {
	var user models.User
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateRole changes the role column and appends the audit row in one
// transaction
func (r *GormUserRepository) UpdateRole(user *models.User, newRole models.UserRole, audit *models.RoleAudit) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Update("role", newRole).Error; err != nil {
			return err
		}
		return tx.Create(audit).Error
	})
}
