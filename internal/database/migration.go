package database

import (
	"fmt"

	"blogr/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Reset drops both tables and recreates them, destroying existing data.
// Operator bootstrap only (the -init-db flag); never called on the
// request path.
func Reset(db *gorm.DB) error {
	if err := db.Migrator().DropTable(&models.Post{}, &models.User{}); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return AutoMigrate(db)
}
