package model

import "time"

// Alert priorities surfaced to the dashboard.
const (
	AlertPriorityHigh   = "high"
	AlertPriorityMedium = "medium"
	AlertPriorityLow    = "low"
)

// AlertTypeOrderExecution marks alerts produced by the order executor for
// both accepted trades and genuine-attempt failures.
const AlertTypeOrderExecution = "order_execution"

// Alert is a dashboard notification. The routing core creates these as a
// side effect of order execution; the alert store owns them afterwards and
// the core never reads them back.
type Alert struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	SignalID   string    `gorm:"size:36;index" json:"signal_id"`
	AlertType  string    `gorm:"size:50;index" json:"alert_type"`
	Title      string    `gorm:"size:255" json:"title"`
	Message    string    `gorm:"type:text" json:"message"`
	Priority   string    `gorm:"size:20" json:"priority"`
	Symbol     string    `gorm:"size:30;index" json:"symbol"`
	SignalType string    `gorm:"size:10" json:"signal_type"` // buy | sell
	Read       bool      `json:"read"`
	Timestamp  time.Time `json:"timestamp"`
}

// TableName keeps the table name aligned with the dashboard schema.
func (Alert) TableName() string {
	return "alerts"
}
