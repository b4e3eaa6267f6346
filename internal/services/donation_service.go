package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jleignadier/nueva-generacion-sub000/internal/constants"
	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
	"github.com/jleignadier/nueva-generacion-sub000/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrDonationNotFound       = errors.New("donation not found")
	ErrInvalidDonationAmount  = errors.New("donation amount must be greater than zero")
	ErrReceiptRequired        = errors.New("a receipt is required")
	ErrDonationAlreadyDecided = errors.New("donation has already been approved or rejected")
	ErrDonationEventNotFound  = errors.New("target event not found")
	ErrNoOrganizationToCredit = errors.New("donor has no organization affiliation")
	ErrOrganizationInactive   = errors.New("organization is not active")
)

// DonationService validates donation submissions and reconciles decisions
// against event funding and donor point totals.
type DonationService struct {
	donationRepo repository.DonationRepository
	eventRepo    repository.EventRepository
	userRepo     repository.UserRepository
	orgRepo      repository.OrganizationRepository
	logger       *zap.Logger
}

// NewDonationService creates a new DonationService
func NewDonationService(
	donationRepo repository.DonationRepository,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	logger *zap.Logger,
) *DonationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DonationService{
		donationRepo: donationRepo,
		eventRepo:    eventRepo,
		userRepo:     userRepo,
		orgRepo:      orgRepo,
		logger:       logger,
	}
}

// SubmitDonationInput represents a donation submission.
type SubmitDonationInput struct {
	DonorID        uint64
	Amount         float64
	EventID        *uint64
	AttributeToOrg bool
	ReceiptURL     string
	ReceiptPath    string
}

// Submit creates a pending donation. No funding or point total moves until an
// admin approves it.
func (s *DonationService) Submit(input SubmitDonationInput) (*models.Donation, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidDonationAmount
	}
	if input.ReceiptURL == "" {
		return nil, ErrReceiptRequired
	}

	if input.EventID != nil {
		if _, err := s.eventRepo.FindByID(*input.EventID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDonationEventNotFound
			}
			return nil, fmt.Errorf("failed to find event: %w", err)
		}
	}

	donation := &models.Donation{
		Amount:      input.Amount,
		DonorID:     input.DonorID,
		EventID:     input.EventID,
		ReceiptURL:  input.ReceiptURL,
		ReceiptPath: input.ReceiptPath,
		Status:      models.DonationPending,
	}

	// Attribution is chosen at submission time and fixed afterwards; leaving
	// the organization later does not reassign the donation.
	if input.AttributeToOrg {
		donor, err := s.userRepo.FindByID(input.DonorID)
		if err != nil {
			return nil, fmt.Errorf("failed to find donor: %w", err)
		}
		if donor.OrganizationID == nil {
			return nil, ErrNoOrganizationToCredit
		}
		org, err := s.orgRepo.FindByID(*donor.OrganizationID)
		if err != nil {
			return nil, fmt.Errorf("failed to find organization: %w", err)
		}
		if !org.IsActive() {
			return nil, ErrOrganizationInactive
		}
		donation.OrganizationID = donor.OrganizationID
	}

	if err := s.donationRepo.Create(donation); err != nil {
		return nil, fmt.Errorf("failed to create donation: %w", err)
	}

	return donation, nil
}

// Approve moves a pending donation to approved and, in the same transaction,
// credits the event's funding and the donor's (or attributed organization's)
// points at one point per currency unit.
func (s *DonationService) Approve(donationID, reviewerID uint64, now time.Time) (*models.Donation, error) {
	donation, err := s.decide(repository.DonationDecision{
		DonationID: donationID,
		ReviewerID: reviewerID,
		Approve:    true,
		ReviewedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("donation approved",
		zap.Uint64("donation_id", donation.ID),
		zap.Uint64("reviewer_id", reviewerID),
		zap.Float64("amount", donation.Amount),
	)

	return donation, nil
}

// Reject moves a pending donation to rejected. No totals change.
func (s *DonationService) Reject(donationID, reviewerID uint64, now time.Time) (*models.Donation, error) {
	donation, err := s.decide(repository.DonationDecision{
		DonationID: donationID,
		ReviewerID: reviewerID,
		Approve:    false,
		ReviewedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("donation rejected",
		zap.Uint64("donation_id", donation.ID),
		zap.Uint64("reviewer_id", reviewerID),
	)

	return donation, nil
}

func (s *DonationService) decide(decision repository.DonationDecision) (*models.Donation, error) {
	if decision.Approve {
		donation, err := s.donationRepo.FindByID(decision.DonationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDonationNotFound
			}
			return nil, fmt.Errorf("failed to find donation: %w", err)
		}
		decision.PointsDelta = int64(math.Floor(donation.Amount)) * constants.PointsPerCurrencyUnit
	}

	donation, err := s.donationRepo.Decide(decision)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrDonationNotFound
		case errors.Is(err, repository.ErrDonationAlreadyDecided):
			return nil, ErrDonationAlreadyDecided
		default:
			return nil, fmt.Errorf("failed to decide donation: %w", err)
		}
	}

	return donation, nil
}

// GetDonation returns a donation with donor and event loaded
func (s *DonationService) GetDonation(donationID uint64) (*models.Donation, error) {
	donation, err := s.donationRepo.FindByID(donationID, "Donor", "Event", "Organization")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, fmt.Errorf("failed to find donation: %w", err)
	}
	return donation, nil
}

// ListDonations returns donations matching the filter
func (s *DonationService) ListDonations(filter repository.DonationFilter) ([]models.Donation, int64, error) {
	donations, total, err := s.donationRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list donations: %w", err)
	}
	return donations, total, nil
}
