package services

import (
	"testing"
	"time"

	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
	"github.com/jleignadier/nueva-generacion-sub000/internal/repository"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DonationServiceTestSuite defines the test suite for DonationService
type DonationServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *DonationService
	now     time.Time

	admin *models.User
	donor *models.User
	event *models.Event
}

// SetupTest runs before each test
func (suite *DonationServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Event{},
		&models.Donation{},
		&models.UserPoints{},
		&models.OrganizationPoints{},
	)
	suite.Require().NoError(err)

	donationRepo := repository.NewDonationRepository(suite.db)
	eventRepo := repository.NewEventRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	orgRepo := repository.NewOrganizationRepository(suite.db)
	suite.service = NewDonationService(donationRepo, eventRepo, userRepo, orgRepo, nil)
	suite.now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	suite.admin = suite.createTestUser("admin@example.com", models.RoleAdmin, nil)
	suite.donor = suite.createTestUser("donor@example.com", models.RoleVolunteer, nil)

	suite.event = &models.Event{
		Title:       "Fundraiser",
		StartsAt:    suite.now.Add(time.Hour),
		EndsAt:      suite.now.Add(4 * time.Hour),
		CreatedByID: suite.admin.ID,
	}
	suite.Require().NoError(suite.db.Create(suite.event).Error)
}

// TearDownTest runs after each test
func (suite *DonationServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *DonationServiceTestSuite) createTestUser(email string, role models.UserRole, orgID *uint64) *models.User {
	user := &models.User{
		Email:          email,
		PasswordHash:   "hashedpassword",
		DisplayName:    email,
		Role:           role,
		OrganizationID: orgID,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	suite.Require().NoError(suite.db.Create(&models.UserPoints{UserID: user.ID}).Error)
	return user
}

func (suite *DonationServiceTestSuite) createTestOrganization(name string, status models.OrganizationStatus) *models.Organization {
	org := &models.Organization{Name: name, Status: status}
	suite.Require().NoError(suite.db.Create(org).Error)
	suite.Require().NoError(suite.db.Create(&models.OrganizationPoints{OrganizationID: org.ID}).Error)
	return org
}

func (suite *DonationServiceTestSuite) submitDonation(amount float64, eventID *uint64) *models.Donation {
	donation, err := suite.service.Submit(SubmitDonationInput{
		DonorID:    suite.donor.ID,
		Amount:     amount,
		EventID:    eventID,
		ReceiptURL: "https://res.cloudinary.com/demo/receipts/abc.jpg",
	})
	suite.Require().NoError(err)
	return donation
}

func (suite *DonationServiceTestSuite) TestSubmitValidation() {
	_, err := suite.service.Submit(SubmitDonationInput{
		DonorID:    suite.donor.ID,
		Amount:     0,
		ReceiptURL: "https://example.com/r.jpg",
	})
	suite.ErrorIs(err, ErrInvalidDonationAmount)

	_, err = suite.service.Submit(SubmitDonationInput{
		DonorID: suite.donor.ID,
		Amount:  25,
	})
	suite.ErrorIs(err, ErrReceiptRequired)

	missing := uint64(99999)
	_, err = suite.service.Submit(SubmitDonationInput{
		DonorID:    suite.donor.ID,
		Amount:     25,
		EventID:    &missing,
		ReceiptURL: "https://example.com/r.jpg",
	})
	suite.ErrorIs(err, ErrDonationEventNotFound)
}

func (suite *DonationServiceTestSuite) TestSubmitStartsPending() {
	donation := suite.submitDonation(75.50, &suite.event.ID)

	suite.Equal(models.DonationPending, donation.Status)

	// Nothing moves until an admin approves.
	var event models.Event
	suite.Require().NoError(suite.db.First(&event, suite.event.ID).Error)
	suite.Equal(float64(0), event.CurrentFunding)

	var points models.UserPoints
	suite.Require().NoError(suite.db.Where("user_id = ?", suite.donor.ID).First(&points).Error)
	suite.Equal(int64(0), points.Points)
}

func (suite *DonationServiceTestSuite) TestApproveCreditsFundingAndPoints() {
	donation := suite.submitDonation(75.50, &suite.event.ID)

	approved, err := suite.service.Approve(donation.ID, suite.admin.ID, suite.now)
	suite.Require().NoError(err)
	suite.Equal(models.DonationApproved, approved.Status)
	suite.Require().NotNil(approved.ReviewedBy)
	suite.Equal(suite.admin.ID, *approved.ReviewedBy)

	var event models.Event
	suite.Require().NoError(suite.db.First(&event, suite.event.ID).Error)
	suite.Equal(75.50, event.CurrentFunding)

	// One point per whole currency unit, fractions dropped.
	var points models.UserPoints
	suite.Require().NoError(suite.db.Where("user_id = ?", suite.donor.ID).First(&points).Error)
	suite.Equal(int64(75), points.Points)
}

func (suite *DonationServiceTestSuite) TestApproveWithoutEventSkipsFunding() {
	donation := suite.submitDonation(40, nil)

	_, err := suite.service.Approve(donation.ID, suite.admin.ID, suite.now)
	suite.Require().NoError(err)

	var points models.UserPoints
	suite.Require().NoError(suite.db.Where("user_id = ?", suite.donor.ID).First(&points).Error)
	suite.Equal(int64(40), points.Points)
}

func (suite *DonationServiceTestSuite) TestRejectLeavesTotalsUntouched() {
	donation := suite.submitDonation(60, &suite.event.ID)

	rejected, err := suite.service.Reject(donation.ID, suite.admin.ID, suite.now)
	suite.Require().NoError(err)
	suite.Equal(models.DonationRejected, rejected.Status)

	var event models.Event
	suite.Require().NoError(suite.db.First(&event, suite.event.ID).Error)
	suite.Equal(float64(0), event.CurrentFunding)

	var points models.UserPoints
	suite.Require().NoError(suite.db.Where("user_id = ?", suite.donor.ID).First(&points).Error)
	suite.Equal(int64(0), points.Points)
}

func (suite *DonationServiceTestSuite) TestDecisionsAreTerminal() {
	donation := suite.submitDonation(60, &suite.event.ID)

	_, err := suite.service.Approve(donation.ID, suite.admin.ID, suite.now)
	suite.Require().NoError(err)

	// A second decision of either kind is a conflict, never a double credit.
	_, err = suite.service.Approve(donation.ID, suite.admin.ID, suite.now)
	suite.ErrorIs(err, ErrDonationAlreadyDecided)

	_, err = suite.service.Reject(donation.ID, suite.admin.ID, suite.now)
	suite.ErrorIs(err, ErrDonationAlreadyDecided)

	var event models.Event
	suite.Require().NoError(suite.db.First(&event, suite.event.ID).Error)
	suite.Equal(float64(60), event.CurrentFunding)
}

func (suite *DonationServiceTestSuite) TestAttributeToOrganization() {
	org := suite.createTestOrganization("Helping Hands", models.OrganizationActive)
	member := suite.createTestUser("member@example.com", models.RoleVolunteer, &org.ID)

	donation, err := suite.service.Submit(SubmitDonationInput{
		DonorID:        member.ID,
		Amount:         100,
		AttributeToOrg: true,
		ReceiptURL:     "https://example.com/r.jpg",
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(donation.OrganizationID)
	suite.Equal(org.ID, *donation.OrganizationID)

	_, err = suite.service.Approve(donation.ID, suite.admin.ID, suite.now)
	suite.Require().NoError(err)

	// Credit lands on the organization, not the member.
	var orgPoints models.OrganizationPoints
	suite.Require().NoError(suite.db.Where("organization_id = ?", org.ID).First(&orgPoints).Error)
	suite.Equal(int64(100), orgPoints.Points)

	var userPoints models.UserPoints
	suite.Require().NoError(suite.db.Where("user_id = ?", member.ID).First(&userPoints).Error)
	suite.Equal(int64(0), userPoints.Points)
}

func (suite *DonationServiceTestSuite) TestAttributeToOrgRequiresAffiliation() {
	_, err := suite.service.Submit(SubmitDonationInput{
		DonorID:        suite.donor.ID,
		Amount:         100,
		AttributeToOrg: true,
		ReceiptURL:     "https://example.com/r.jpg",
	})
	suite.ErrorIs(err, ErrNoOrganizationToCredit)
}

func (suite *DonationServiceTestSuite) TestAttributeToInactiveOrgRejected() {
	org := suite.createTestOrganization("Dormant", models.OrganizationInactive)
	member := suite.createTestUser("member@example.com", models.RoleVolunteer, &org.ID)

	_, err := suite.service.Submit(SubmitDonationInput{
		DonorID:        member.ID,
		Amount:         100,
		AttributeToOrg: true,
		ReceiptURL:     "https://example.com/r.jpg",
	})
	suite.ErrorIs(err, ErrOrganizationInactive)
}

func (suite *DonationServiceTestSuite) TestAttributionFixedAtSubmission() {
	org := suite.createTestOrganization("Helping Hands", models.OrganizationActive)
	member := suite.createTestUser("member@example.com", models.RoleVolunteer, &org.ID)

	donation, err := suite.service.Submit(SubmitDonationInput{
		DonorID:        member.ID,
		Amount:         30,
		AttributeToOrg: true,
		ReceiptURL:     "https://example.com/r.jpg",
	})
	suite.Require().NoError(err)

	// The member leaves the organization before review; the attribution made
	// at submission time still stands.
	suite.Require().NoError(suite.db.Model(member).Update("organization_id", nil).Error)

	_, err = suite.service.Approve(donation.ID, suite.admin.ID, suite.now)
	suite.Require().NoError(err)

	var orgPoints models.OrganizationPoints
	suite.Require().NoError(suite.db.Where("organization_id = ?", org.ID).First(&orgPoints).Error)
	suite.Equal(int64(30), orgPoints.Points)
}

func (suite *DonationServiceTestSuite) TestApproveUnknownDonation() {
	_, err := suite.service.Approve(99999, suite.admin.ID, suite.now)
	suite.ErrorIs(err, ErrDonationNotFound)
}

func TestDonationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DonationServiceTestSuite))
}
