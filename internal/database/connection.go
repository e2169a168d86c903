// internal/database/connection.go
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clubhub/ads-backend/internal/config"
	"github.com/clubhub/ads-backend/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	// lib/pq is the driver so constraint violations surface as *pq.Error
	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"host":     cfg.Host,
		"database": cfg.Database,
	}).Info("Database connection established")
	return db, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Silent
	}
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	// btree_gist backs the reserved-slot exclusion constraint
	for _, ext := range []string{"pgcrypto", "btree_gist"} {
		if err := db.Exec(fmt.Sprintf("CREATE EXTENSION IF NOT EXISTS %q", ext)).Error; err != nil {
			return fmt.Errorf("failed to create %s extension: %w", ext, err)
		}
	}

	err := db.AutoMigrate(
		&models.Ad{},
		&models.AdAsset{},
		&models.AdPricing{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	createIndexes(db)

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) {
	statements := []string{
		// Slot lookups
		"CREATE INDEX IF NOT EXISTS idx_ads_slot ON ads(ad_type, listing_position, start_date, end_date) WHERE status IN ('APPROVED', 'ACTIVE')",
		"CREATE INDEX IF NOT EXISTS idx_ads_status_dates ON ads(status, start_date, end_date)",
		"CREATE INDEX IF NOT EXISTS idx_ads_created_at ON ads(created_at DESC)",

		// One price per (type, rank)
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_ad_pricing_type_rank ON ad_pricing(ad_type, COALESCE(rank, 0))",

		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",

		// Reserved ads may never overlap on the same inventory key
		`DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'ads_reserved_slot_excl') THEN
		ALTER TABLE ads ADD CONSTRAINT ads_reserved_slot_excl EXCLUDE USING gist (
			ad_type WITH =,
			(COALESCE(listing_position, 0)) WITH =,
			daterange(start_date, end_date, '[]') WITH &&
		) WHERE (status IN ('APPROVED', 'ACTIVE'));
	END IF;
END $$`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			// Continue with the rest; the advisory slot lock still guards approvals
			logrus.WithError(err).WithField("statement", stmt).Warn("Failed to create index or constraint")
		}
	}
}
