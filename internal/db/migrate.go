package db

import (
	"fmt"

	"github.com/ikkim/store-rating-backend/internal/app/model"
	"github.com/ikkim/store-rating-backend/pkg/logger"
	"gorm.io/gorm"
)

func models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Store{},
		&model.Rating{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB creates or updates the users, stores and ratings tables on conn.
func MigrateDB(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	if err := conn.AutoMigrate(models()...); err != nil {
		logger.Error("Database migration failed", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"tables": len(models()),
	})
	return nil
}
