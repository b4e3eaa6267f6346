package repository

import (
	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
	"gorm.io/gorm"
)

// GormPointsRepository is a GORM implementation of PointsRepository
type GormPointsRepository struct {
	db *gorm.DB
}

// NewPointsRepository creates a new PointsRepository
func NewPointsRepository(db *gorm.DB) PointsRepository {
	return &GormPointsRepository{db: db}
}

// FindUserPoints returns a user's aggregate row
func (r *GormPointsRepository) FindUserPoints(userID uint64) (*models.UserPoints, error) {
	var points models.UserPoints
	if err := r.db.Where("user_id = ?", userID).First(&points).Error; err != nil {
		return nil, err
	}
	return &points, nil
}

// FindOrganizationPoints returns an organization's aggregate row
func (r *GormPointsRepository) FindOrganizationPoints(organizationID uint64) (*models.OrganizationPoints, error) {
	var points models.OrganizationPoints
	if err := r.db.Where("organization_id = ?", organizationID).First(&points).Error; err != nil {
		return nil, err
	}
	return &points, nil
}

// RankUsers reads the user aggregates joined with display data. The secondary
// sort on user_id keeps ties from flapping between calls.
func (r *GormPointsRepository) RankUsers(limit int) ([]UserLeaderboardRow, error) {
	var rows []UserLeaderboardRow
	err := r.db.Raw(`
		SELECT
			up.user_id,
			u.display_name,
			COALESCE(o.name, '') AS organization_name,
			up.points,
			up.volunteer_hours,
			up.events_attended
		FROM user_points up
		JOIN users u ON u.id = up.user_id AND u.deleted_at IS NULL
		LEFT JOIN organizations o ON o.id = u.organization_id
		ORDER BY up.points DESC, up.user_id ASC
		LIMIT ?
	`, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RankOrganizations reads the organization aggregates for active
// organizations only.
func (r *GormPointsRepository) RankOrganizations(limit int) ([]OrganizationLeaderboardRow, error) {
	var rows []OrganizationLeaderboardRow
	err := r.db.Raw(`
		SELECT
			op.organization_id,
			o.name,
			op.points,
			op.volunteer_hours,
			op.events_attended
		FROM organization_points op
		JOIN organizations o ON o.id = op.organization_id AND o.deleted_at IS NULL
		WHERE o.status = ?
		ORDER BY op.points DESC, op.organization_id ASC
		LIMIT ?
	`, models.OrganizationActive, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
