package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"signalrouter/src/database"
	"signalrouter/src/model"
)

// MarketDataRepository handles persistence for simulated market quotes.
type MarketDataRepository struct {
	db *gorm.DB
}

// NewMarketDataRepository creates a new repository instance using the main read/write database.
func NewMarketDataRepository() *MarketDataRepository {
	logger.WithField("component", "MarketDataRepository").
		Info("Creating new MarketDataRepository with MainDB")

	return &MarketDataRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *MarketDataRepository) WithDB(db *gorm.DB) *MarketDataRepository {
	logger.WithField("component", "MarketDataRepository").
		Debug("Creating MarketDataRepository with custom DB instance")

	return &MarketDataRepository{db: db}
}

// Upsert writes the latest quote for a symbol, replacing any previous row.
// The simulator calls this on every tick, so failures are logged by the
// caller and never interrupt the tick loop.
func (r *MarketDataRepository) Upsert(ctx context.Context, quote *model.MarketData) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "symbol"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"price", "change24h", "high24h", "low24h", "volume", "trading_active", "updated_at",
			}),
		}).
		Create(quote).Error
}

// FindAll returns the latest quote of every instrument.
func (r *MarketDataRepository) FindAll(ctx context.Context) ([]model.MarketData, error) {
	logger.WithFields(map[string]interface{}{
		"repo": "MarketDataRepository",
		"op":   "FindAll",
	}).Debug("Fetching all market quotes")

	var quotes []model.MarketData
	err := r.db.WithContext(ctx).
		Order("symbol ASC").
		Find(&quotes).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "MarketDataRepository",
			"op":   "FindAll",
		}).WithError(err).Error("Failed to fetch market quotes")
		return nil, err
	}

	return quotes, nil
}

// FindBySymbol fetches the latest quote of one instrument. Returns
// (nil, nil) when the symbol has never ticked.
func (r *MarketDataRepository) FindBySymbol(ctx context.Context, symbol string) (*model.MarketData, error) {
	var quote model.MarketData
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.WithFields(map[string]interface{}{
			"repo":   "MarketDataRepository",
			"op":     "FindBySymbol",
			"symbol": symbol,
		}).WithError(err).Error("Failed to fetch quote by symbol")
		return nil, err
	}
	return &quote, nil
}
