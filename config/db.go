package config

import (
	"fmt"

	"mealtracker/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OpenDB connects to postgres and migrates the meal and profile tables.
func OpenDB(cfg StoreConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Meal{},
		&models.UserProfile{},
	); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return db, nil
}
