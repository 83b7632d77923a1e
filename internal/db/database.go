package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/ikkim/store-rating-backend/config"
	appLogger "github.com/ikkim/store-rating-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var DB *gorm.DB

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
}

// Initialize opens the configured database and sets pool limits.
func Initialize(cfg *config.DatabaseConfig) error {
	var (
		dialector gorm.Dialector
		maxOpen   = 100
	)

	switch cfg.Driver {
	case DriverPostgres, "":
		appLogger.Info("Connecting to database", map[string]interface{}{
			"driver":   DriverPostgres,
			"host":     cfg.Host,
			"port":     cfg.Port,
			"database": cfg.DBName,
			"user":     cfg.User,
		})
		dialector = postgres.Open(cfg.DSN())
	case DriverSQLite:
		appLogger.Info("Connecting to database", map[string]interface{}{
			"driver": DriverSQLite,
			"path":   cfg.SQLitePath,
		})
		dialector = sqlite.Open(cfg.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
		// sqlite serializes writers
		maxOpen = 1
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	var err error
	DB, err = gorm.Open(dialector, gormConfig())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(maxOpen)

	appLogger.Info("Database connection established successfully", map[string]interface{}{
		"max_idle_conns": 10,
		"max_open_conns": maxOpen,
	})
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
