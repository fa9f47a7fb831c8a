package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nfrund/student-portal/internal/config"
	"github.com/nfrund/student-portal/internal/domain"
)

// Open creates a gorm connection for the configured relational driver.
func Open(cfg config.Provider) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.GetDBDriver() {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.GetDBURL())
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.GetDBURL())
	default:
		return nil, fmt.Errorf("driver %q is not a relational driver", cfg.GetDBDriver())
	}

	return OpenDialector(dialector, cfg.IsDebug())
}

// OpenDialector opens gorm with the shared settings. Tests use it with an
// in-memory sqlite dialector.
func OpenDialector(dialector gorm.Dialector, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetConnMaxLifetime(10 * time.Minute)

	return db, nil
}

// Migrate creates or updates the tables owned by the application.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&domain.User{}, &domain.Student{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	slog.InfoContext(ctx, "Database schema is up to date")
	return nil
}

// Close releases the connection pool behind a gorm handle.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
