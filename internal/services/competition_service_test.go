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

// CompetitionServiceTestSuite defines the test suite for CompetitionService
type CompetitionServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *CompetitionService
}

// SetupTest runs before each test
func (suite *CompetitionServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.Competition{})
	suite.Require().NoError(err)

	suite.service = NewCompetitionService(repository.NewCompetitionRepository(suite.db))
}

// TearDownTest runs after each test
func (suite *CompetitionServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *CompetitionServiceTestSuite) createCompetition(name string) *models.Competition {
	competition, err := suite.service.CreateCompetition(CreateCompetitionInput{
		Name:   name,
		EndsAt: time.Now().Add(30 * 24 * time.Hour),
	})
	suite.Require().NoError(err)
	return competition
}

func (suite *CompetitionServiceTestSuite) TestCreateStartsInactive() {
	competition := suite.createCompetition("Spring Challenge")
	suite.False(competition.Active)

	active, err := suite.service.GetActive()
	suite.Require().NoError(err)
	suite.Nil(active)
}

func (suite *CompetitionServiceTestSuite) TestCreateRequiresName() {
	_, err := suite.service.CreateCompetition(CreateCompetitionInput{Name: "   "})
	suite.ErrorIs(err, ErrCompetitionNameRequired)
}

func (suite *CompetitionServiceTestSuite) TestActivateIsExclusive() {
	first := suite.createCompetition("Spring Challenge")
	second := suite.createCompetition("Summer Challenge")

	_, err := suite.service.Activate(first.ID)
	suite.Require().NoError(err)

	// Activating the second deactivates the first in the same transaction.
	_, err = suite.service.Activate(second.ID)
	suite.Require().NoError(err)

	var activeCount int64
	suite.db.Model(&models.Competition{}).Where("active = ?", true).Count(&activeCount)
	suite.Equal(int64(1), activeCount)

	active, err := suite.service.GetActive()
	suite.Require().NoError(err)
	suite.Require().NotNil(active)
	suite.Equal(second.ID, active.ID)
}

func (suite *CompetitionServiceTestSuite) TestActivateUnknownCompetition() {
	_, err := suite.service.Activate(99999)
	suite.ErrorIs(err, ErrCompetitionNotFound)
}

func (suite *CompetitionServiceTestSuite) TestDelete() {
	competition := suite.createCompetition("Spring Challenge")

	suite.Require().NoError(suite.service.Delete(competition.ID))
	suite.ErrorIs(suite.service.Delete(competition.ID), ErrCompetitionNotFound)
}

func TestCompetitionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CompetitionServiceTestSuite))
}
