package model

import "time"

// TradingSignal is a scored trading opportunity produced by the heuristic
// scorer and listed on GET /api/signals.
type TradingSignal struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	Symbol     string     `gorm:"size:30;index" json:"symbol"`
	SignalType string     `gorm:"size:10" json:"signal_type"` // buy | sell
	Score      float64    `json:"score"`
	Price      *float64   `json:"price,omitempty"`
	Expiration int        `json:"expiration"`
	Comment    string     `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// TableName keeps the table name aligned with the dashboard schema.
func (TradingSignal) TableName() string {
	return "trading_signals"
}
