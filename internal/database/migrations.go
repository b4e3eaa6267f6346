package database

import (
	"fmt"
	"log"

	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
	"gorm.io/gorm"
)

// Migrate runs auto-migration for all models.
func Migrate() error {
	log.Println("Running database migrations...")
	err := DB.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Event{},
		&models.Registration{},
		&models.Attendance{},
		&models.Donation{},
		&models.UserPoints{},
		&models.OrganizationPoints{},
		&models.Competition{},
		&models.RoleAudit{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Database migrations completed")
	return nil
}

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Leaderboard ordering
		{"user_points", "idx_user_points_points", "points DESC, user_id ASC"},
		{"organization_points", "idx_org_points_points", "points DESC, organization_id ASC"},

		// Donation review queue
		{"donations", "idx_donations_status_created_at", "status, created_at"},
		{"donations", "idx_donations_event_id", "event_id"},

		// Event listings
		{"events", "idx_events_starts_at", "starts_at"},

		// Per-user lookups
		{"registrations", "idx_registrations_user_id", "user_id"},
		{"attendances", "idx_attendances_user_id", "user_id"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
