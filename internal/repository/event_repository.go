package repository

import (
	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

// Create creates a new event
func (r *GormEventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

// FindByID finds an event by ID with optional preloading
func (r *GormEventRepository) FindByID(id uint64, preload ...string) (*models.Event, error) {
	var event models.Event
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// List retrieves events with filtering and pagination
func (r *GormEventRepository) List(filter EventFilter) ([]models.Event, int64, error) {
	var events []models.Event

	query := r.db.Model(&models.Event{})

	if filter.From != nil {
		query = query.Where("events.ends_at >= ?", *filter.From)
	}
	if filter.Until != nil {
		query = query.Where("events.starts_at < ?", *filter.Until)
	}
	if !filter.IncludeCancelled {
		query = query.Where("events.cancelled = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("events.starts_at ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	if err := listQuery.Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// Update updates an event
func (r *GormEventRepository) Update(event *models.Event) error {
	return r.db.Save(event).Error
}

// Delete soft deletes an event and its registrations
func (r *GormEventRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.Registration{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, id).Error
	})
}

// CreateRegistration inserts a registration if the pair does not exist yet.
// The ON CONFLICT DO NOTHING clause makes the second call a no-op instead of
// an error; RowsAffected tells the two apart.
func (r *GormEventRepository) CreateRegistration(reg *models.Registration) (bool, error) {
	result := r.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(reg)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindRegistration finds a registration for the (event, user) pair
func (r *GormEventRepository) FindRegistration(eventID, userID uint64) (*models.Registration, error) {
	var reg models.Registration
	if err := r.db.Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&reg).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

// FindAttendance finds an attendance record for the (event, user) pair
func (r *GormEventRepository) FindAttendance(eventID, userID uint64) (*models.Attendance, error) {
	var att models.Attendance
	if err := r.db.Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&att).Error; err != nil {
		return nil, err
	}
	return &att, nil
}

// CreateAttendanceWithAward inserts the attendance row and credits the
// attendee's aggregates in one transaction. The composite primary key on
// attendances is what makes concurrent scans safe: the losing insert fails
// with a unique violation before any increment runs, and the transaction
// rolls back leaving totals untouched.
func (r *GormEventRepository) CreateAttendanceWithAward(att *models.Attendance) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(att).Error; err != nil {
			return err
		}

		// Increments are expressed against the stored value, never via a
		// read-modify-write round-trip.
		return tx.Model(&models.UserPoints{}).
			Where("user_id = ?", att.UserID).
			Updates(map[string]interface{}{
				"points":          gorm.Expr("points + ?", att.PointsAwarded),
				"volunteer_hours": gorm.Expr("volunteer_hours + ?", att.HoursAwarded),
				"events_attended": gorm.Expr("events_attended + ?", 1),
			}).Error
	})
}

// ListAttendees lists attendance records for an event
func (r *GormEventRepository) ListAttendees(eventID uint64) ([]models.Attendance, error) {
	var attendances []models.Attendance
	if err := r.db.Preload("User").
		Where("event_id = ?", eventID).
		Order("checked_in_at ASC").
		Find(&attendances).Error; err != nil {
		return nil, err
	}
	return attendances, nil
}
