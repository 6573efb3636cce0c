package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"signalrouter/src/database"
	"signalrouter/src/model"
)

// TradingSignalRepository handles persistence for scored trading signals.
type TradingSignalRepository struct {
	db *gorm.DB
}

// NewTradingSignalRepository creates a new repository instance using the main read/write database.
func NewTradingSignalRepository() *TradingSignalRepository {
	logger.WithField("component", "TradingSignalRepository").
		Info("Creating new TradingSignalRepository with MainDB")

	return &TradingSignalRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
// Useful for tests or custom sessions/transactions.
func (r *TradingSignalRepository) WithDB(db *gorm.DB) *TradingSignalRepository {
	logger.WithField("component", "TradingSignalRepository").
		Debug("Creating TradingSignalRepository with custom DB instance")

	return &TradingSignalRepository{db: db}
}

// Create inserts a new signal.
func (r *TradingSignalRepository) Create(ctx context.Context, signal *model.TradingSignal) error {
	logger.WithFields(map[string]interface{}{
		"repo":        "TradingSignalRepository",
		"op":          "Create",
		"symbol":      signal.Symbol,
		"signal_type": signal.SignalType,
		"score":       signal.Score,
	}).Debug("Creating new trading signal")

	if err := r.db.WithContext(ctx).Create(signal).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "TradingSignalRepository",
			"op":   "Create",
		}).WithError(err).Error("Failed to create trading signal")
		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":      "TradingSignalRepository",
		"op":        "Create",
		"signal_id": signal.ID,
	}).Info("Trading signal created successfully")

	return nil
}

// FindByID fetches a single trading signal by its primary ID.
// Returns (nil, nil) if not found.
func (r *TradingSignalRepository) FindByID(ctx context.Context, id string) (*model.TradingSignal, error) {
	logger.WithFields(map[string]interface{}{
		"repo": "TradingSignalRepository",
		"op":   "FindByID",
		"id":   id,
	}).Debug("Fetching trading signal by ID")

	var signal model.TradingSignal
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&signal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithFields(map[string]interface{}{
				"repo": "TradingSignalRepository",
				"op":   "FindByID",
				"id":   id,
			}).Info("Trading signal not found")
			return nil, nil // not found is not an error
		}

		logger.WithFields(map[string]interface{}{
			"repo": "TradingSignalRepository",
			"op":   "FindByID",
			"id":   id,
		}).WithError(err).Error("Failed to fetch trading signal by ID")

		return nil, err
	}

	return &signal, nil
}

// FindLatest fetches the latest trading signals ordered from newest to oldest.
func (r *TradingSignalRepository) FindLatest(ctx context.Context, limit int) ([]model.TradingSignal, error) {
	if limit <= 0 {
		limit = 20 // default safety limit
	}

	logger.WithFields(map[string]interface{}{
		"repo":  "TradingSignalRepository",
		"op":    "FindLatest",
		"limit": limit,
	}).Debug("Fetching latest trading signals")

	var signals []model.TradingSignal
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&signals).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":  "TradingSignalRepository",
			"op":    "FindLatest",
			"limit": limit,
		}).WithError(err).Error("Failed to fetch latest trading signals")

		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"repo":        "TradingSignalRepository",
		"op":          "FindLatest",
		"limit":       limit,
		"rows_return": len(signals),
	}).Info("Latest trading signals fetched")

	return signals, nil
}

// FindBySymbol fetches the latest trading signals for a given symbol,
// ordered from newest to oldest.
func (r *TradingSignalRepository) FindBySymbol(ctx context.Context, symbol string, limit int) ([]model.TradingSignal, error) {
	if limit <= 0 {
		limit = 50
	}

	logger.WithFields(map[string]interface{}{
		"repo":   "TradingSignalRepository",
		"op":     "FindBySymbol",
		"symbol": symbol,
		"limit":  limit,
	}).Debug("Fetching trading signals by symbol")

	var signals []model.TradingSignal
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("created_at DESC").
		Limit(limit).
		Find(&signals).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":   "TradingSignalRepository",
			"op":     "FindBySymbol",
			"symbol": symbol,
			"limit":  limit,
		}).WithError(err).Error("Failed to fetch trading signals by symbol")

		return nil, err
	}

	return signals, nil
}
