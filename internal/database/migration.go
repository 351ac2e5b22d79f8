package database

import (
	"fmt"

	"lifelog/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Record{},
		&models.RecordPhoto{},
		&models.PersonalSettings{},
		&models.MasterItem{},
		&models.OperationLog{},
		&models.Backup{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
