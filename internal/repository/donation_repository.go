package repository

import (
	"errors"

	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
	"gorm.io/gorm"
)

// ErrDonationAlreadyDecided is returned when the check-and-set status write
// matched no row, meaning the donation already left pending status.
var ErrDonationAlreadyDecided = errors.New("donation repository: donation already decided")

// GormDonationRepository is a GORM implementation of DonationRepository
type GormDonationRepository struct {
	db *gorm.DB
}

// NewDonationRepository creates a new DonationRepository
func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &GormDonationRepository{db: db}
}

// Create creates a new pending donation
func (r *GormDonationRepository) Create(donation *models.Donation) error {
	return r.db.Create(donation).Error
}

// FindByID finds a donation by ID with optional preloading
func (r *GormDonationRepository) FindByID(id uint64, preload ...string) (*models.Donation, error) {
	var donation models.Donation
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&donation, id).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

// List retrieves donations with filtering and pagination
func (r *GormDonationRepository) List(filter DonationFilter) ([]models.Donation, int64, error) {
	var donations []models.Donation

	query := r.db.Model(&models.Donation{})

	if filter.Status != nil {
		query = query.Where("donations.status = ?", *filter.Status)
	}
	if filter.DonorID != nil {
		query = query.Where("donations.donor_id = ?", *filter.DonorID)
	}
	if filter.EventID != nil {
		query = query.Where("donations.event_id = ?", *filter.EventID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("donations.created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	if err := listQuery.Preload("Donor").Preload("Event").Find(&donations).Error; err != nil {
		return nil, 0, err
	}

	return donations, total, nil
}

// Decide applies the pending -> approved/rejected transition. The status
// update is conditioned on the row still being pending, so two racing
// reviewers cannot both fire the side effects: the loser matches zero rows
// and gets ErrDonationAlreadyDecided.
func (r *GormDonationRepository) Decide(decision DonationDecision) (*models.Donation, error) {
	var donation models.Donation

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&donation, decision.DonationID).Error; err != nil {
			return err
		}

		newStatus := models.DonationRejected
		if decision.Approve {
			newStatus = models.DonationApproved
		}

		result := tx.Model(&models.Donation{}).
			Where("id = ? AND status = ?", decision.DonationID, models.DonationPending).
			Updates(map[string]interface{}{
				"status":      newStatus,
				"reviewed_by": decision.ReviewerID,
				"reviewed_at": decision.ReviewedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrDonationAlreadyDecided
		}

		donation.Status = newStatus
		donation.ReviewedBy = &decision.ReviewerID
		reviewedAt := decision.ReviewedAt
		donation.ReviewedAt = &reviewedAt

		if !decision.Approve {
			return nil
		}

		// Funding and points move only on approval, in the same transaction
		// as the status write.
		if donation.EventID != nil {
			if err := tx.Model(&models.Event{}).
				Where("id = ?", *donation.EventID).
				Update("current_funding", gorm.Expr("current_funding + ?", donation.Amount)).Error; err != nil {
				return err
			}
		}

		if donation.OrganizationID != nil {
			return tx.Model(&models.OrganizationPoints{}).
				Where("organization_id = ?", *donation.OrganizationID).
				Updates(map[string]interface{}{
					"points": gorm.Expr("points + ?", decision.PointsDelta),
				}).Error
		}

		return tx.Model(&models.UserPoints{}).
			Where("user_id = ?", donation.DonorID).
			Updates(map[string]interface{}{
				"points": gorm.Expr("points + ?", decision.PointsDelta),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	return &donation, nil
}
