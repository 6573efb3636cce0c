package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketData is the latest quote for one dashboard instrument, updated by
// the price simulator and read back on GET /api/market-data. Symbols are
// stored in internal form and rewritten to vendor codes at the response
// boundary.
type MarketData struct {
	ID            uint            `gorm:"primaryKey" json:"-"`
	Symbol        string          `json:"symbol" gorm:"type:varchar(50);not null;uniqueIndex:ux_market_data_symbol"`
	Price         decimal.Decimal `json:"price" gorm:"type:double precision;not null"`
	Change24h     decimal.Decimal `json:"change_24h" gorm:"type:double precision"`
	High24h       decimal.Decimal `json:"high_24h" gorm:"type:double precision"`
	Low24h        decimal.Decimal `json:"low_24h" gorm:"type:double precision"`
	Volume        decimal.Decimal `json:"volume" gorm:"type:double precision"`
	TradingActive bool            `json:"trading_active"`
	UpdatedAt     time.Time       `json:"timestamp"`
}

func (MarketData) TableName() string {
	return "market_data"
}

// Instrument is one entry of the fixed instrument catalog served on
// GET /api/symbols.
type Instrument struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	Symbol      string `json:"symbol" gorm:"type:varchar(50);not null;uniqueIndex:ux_instruments_symbol"`
	DisplayName string `json:"display_name" gorm:"type:varchar(100)"`
	AssetClass  string `json:"asset_class" gorm:"type:varchar(30);index"`
	Active      bool   `json:"active" gorm:"default:true"`
}

func (Instrument) TableName() string {
	return "instruments"
}
