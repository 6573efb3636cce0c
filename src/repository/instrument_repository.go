package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"signalrouter/src/database"
	"signalrouter/src/model"
)

// InstrumentRepository handles the fixed instrument catalog.
type InstrumentRepository struct {
	db *gorm.DB
}

// NewInstrumentRepository creates a new repository instance using the main read/write database.
func NewInstrumentRepository() *InstrumentRepository {
	logger.WithField("component", "InstrumentRepository").
		Info("Creating new InstrumentRepository with MainDB")

	return &InstrumentRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *InstrumentRepository) WithDB(db *gorm.DB) *InstrumentRepository {
	logger.WithField("component", "InstrumentRepository").
		Debug("Creating InstrumentRepository with custom DB instance")

	return &InstrumentRepository{db: db}
}

// Seed inserts the catalog rows, ignoring symbols that already exist.
// Runs once at startup right after migration.
func (r *InstrumentRepository) Seed(ctx context.Context, rows []model.Instrument) error {
	if len(rows) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}},
			DoNothing: true,
		}).
		Create(&rows).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "InstrumentRepository",
			"op":   "Seed",
		}).WithError(err).Error("Failed to seed instrument catalog")
		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo": "InstrumentRepository",
		"op":   "Seed",
		"rows": len(rows),
	}).Info("Instrument catalog seeded")

	return nil
}

// FindActive returns every tradable instrument.
func (r *InstrumentRepository) FindActive(ctx context.Context) ([]model.Instrument, error) {
	var rows []model.Instrument
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("symbol ASC").
		Find(&rows).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "InstrumentRepository",
			"op":   "FindActive",
		}).WithError(err).Error("Failed to fetch instruments")
		return nil, err
	}
	return rows, nil
}
