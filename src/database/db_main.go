package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"signalrouter/src/database/migrations"
	"signalrouter/src/model"
)

// MainDB is the primary read/write database connection used by the application.
var MainDB *gorm.DB

// InitMainDB initializes the main (read/write) database connection and runs migrations.
// This should be called once at application startup (e.g. in main()).
//
// PostgreSQL is the primary target; when it cannot be reached the service
// degrades to a local SQLite file so the routing core stays usable on a
// developer machine with nothing else running.
func InitMainDB() error {
	config := GetConfig()

	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.LogLevel(config.GormLogLevel)),
	}

	db, err := gorm.Open(postgres.Open(config.DatabaseURL), gormConfig)
	if err == nil {
		if sqlDB, pingErr := db.DB(); pingErr != nil || sqlDB.Ping() != nil {
			err = fmt.Errorf("postgres unreachable")
		}
	}
	if err != nil {
		logrus.WithError(err).Warn("[database] PostgreSQL unavailable, falling back to SQLite")
		db, err = gorm.Open(sqlite.Open(config.SQLitePath), gormConfig)
		if err != nil {
			logrus.WithError(err).Error("Failed to connect to database")
			return fmt.Errorf("failed to open fallback sqlite database: %w", err)
		}
	} else {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get DB from GORM: %w", err)
		}
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(1 * time.Hour)
	}

	// Assign to the global variable only after a successful connection.
	MainDB = db

	logrus.Info("[database] MainDB connection established")

	// Clean up legacy string-typed quote columns before AutoMigrate so the
	// numeric columns can be created without failing casts. Only relevant
	// on PostgreSQL; the SQLite fallback starts from a fresh schema.
	if MainDB.Dialector.Name() == "postgres" {
		if err := migrations.PrepareQuoteColumns(MainDB); err != nil {
			return fmt.Errorf("failed to prepare quote columns: %w", err)
		}
	}

	// Run AutoMigrate only on the main database.
	// Add here all models that belong to the write-side schema.
	if err := MainDB.AutoMigrate(
		&model.MarketData{},
		&model.Instrument{},
		&model.TradingSignal{},
		&model.Alert{},
		&model.LegacyCredential{},
		&model.Exception{},
		&model.OHLCVCrypto1m{},
		&model.OHLCVCrypto1h{},
		&migrations.DataMigration{},
	); err != nil {
		return fmt.Errorf("failed to run migrations on MainDB: %w", err)
	}

	if err := migrations.Run(MainDB); err != nil {
		return fmt.Errorf("failed to run data migrations on MainDB: %w", err)
	}

	logrus.Info("[database] MainDB migrations completed")

	return nil
}
