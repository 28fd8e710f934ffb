// database/migrate.go - Schema migrations
package database

import (
	"log"

	"taskflow/models"

	"gorm.io/gorm"
)

// RunMigrations migrates the schema on the active connection.
func RunMigrations() {
	if err := Migrate(GetDB()); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("✅ Database migrations completed")
}

// Migrate applies AutoMigrate plus the index DDL that gorm tags can't
// express. Safe to run repeatedly.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.Project{},
		&models.Column{},
		&models.Task{},
		&models.Invitation{},
	); err != nil {
		return err
	}

	// At most one pending invitation per (email, team). Settled
	// invitations are kept for history and don't count against it.
	// Partial index syntax works on both Postgres and SQLite.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_invitations_pending
		 ON invitations (email, team_id) WHERE status = 'pending'`,
	).Error
}
