package repository

import (
	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
	"gorm.io/gorm"
)

// GormCompetitionRepository is a GORM implementation of CompetitionRepository
type GormCompetitionRepository struct {
	db *gorm.DB
}

// NewCompetitionRepository creates a new CompetitionRepository
func NewCompetitionRepository(db *gorm.DB) CompetitionRepository {
	return &GormCompetitionRepository{db: db}
}

// Create creates a new competition
func (r *GormCompetitionRepository) Create(competition *models.Competition) error {
	return r.db.Create(competition).Error
}

// FindByID finds a competition by ID
func (r *GormCompetitionRepository) FindByID(id uint64) (*models.Competition, error) {
	var competition models.Competition
	if err := r.db.First(&competition, id).Error; err != nil {
		return nil, err
	}
	return &competition, nil
}

// FindActive returns the currently active competition, if any
func (r *GormCompetitionRepository) FindActive() (*models.Competition, error) {
	var competition models.Competition
	if err := r.db.Where("active = ?", true).First(&competition).Error; err != nil {
		return nil, err
	}
	return &competition, nil
}

// List retrieves all competitions
func (r *GormCompetitionRepository) List() ([]models.Competition, error) {
	var competitions []models.Competition
	if err := r.db.Order("created_at DESC").Find(&competitions).Error; err != nil {
		return nil, err
	}
	return competitions, nil
}

// Update updates a competition
func (r *GormCompetitionRepository) Update(competition *models.Competition) error {
	return r.db.Save(competition).Error
}

// Activate deactivates every competition and activates the given one in a
// single transaction, so two racing activations still end with one active
// row.
func (r *GormCompetitionRepository) Activate(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Competition{}).
			Where("active = ?", true).
			Update("active", false).Error; err != nil {
			return err
		}

		result := tx.Model(&models.Competition{}).
			Where("id = ?", id).
			Update("active", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Delete soft deletes a competition
func (r *GormCompetitionRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Competition{}, id).Error
}
