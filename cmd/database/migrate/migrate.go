package migration

import (
	"fmt"

	"recipe-share/entities"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return fmt.Errorf("creating uuid-ossp extension: %w", err)
	}

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		return fmt.Errorf("migrating user table: %w", err)
	}
	if err := db.AutoMigrate(&entities.Recipe{}); err != nil {
		return fmt.Errorf("migrating recipe table: %w", err)
	}
	if err := db.AutoMigrate(&entities.Review{}); err != nil {
		return fmt.Errorf("migrating review table: %w", err)
	}

	log.Info("Database migration complete")
	return nil
}
