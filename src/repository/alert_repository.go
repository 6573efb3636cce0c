package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"signalrouter/src/database"
	"signalrouter/src/model"
)

// AlertRepository handles persistence for dashboard alerts.
type AlertRepository struct {
	db *gorm.DB
}

// NewAlertRepository creates a new repository instance using the main read/write database.
func NewAlertRepository() *AlertRepository {
	logger.WithField("component", "AlertRepository").
		Info("Creating new AlertRepository with MainDB")

	return &AlertRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *AlertRepository) WithDB(db *gorm.DB) *AlertRepository {
	logger.WithField("component", "AlertRepository").
		Debug("Creating AlertRepository with custom DB instance")

	return &AlertRepository{db: db}
}

// Create inserts a new alert.
func (r *AlertRepository) Create(ctx context.Context, alert *model.Alert) error {
	logger.WithFields(map[string]interface{}{
		"repo":       "AlertRepository",
		"op":         "Create",
		"alert_type": alert.AlertType,
		"symbol":     alert.Symbol,
		"priority":   alert.Priority,
	}).Debug("Creating new alert")

	if err := r.db.WithContext(ctx).Create(alert).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "AlertRepository",
			"op":   "Create",
		}).WithError(err).Error("Failed to create alert")
		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":     "AlertRepository",
		"op":       "Create",
		"alert_id": alert.ID,
	}).Info("Alert created successfully")

	return nil
}

// FindLatest returns the latest alerts ordered from newest to oldest.
func (r *AlertRepository) FindLatest(ctx context.Context, limit int) ([]model.Alert, error) {
	if limit <= 0 {
		limit = 50
	}

	logger.WithFields(map[string]interface{}{
		"repo":  "AlertRepository",
		"op":    "FindLatest",
		"limit": limit,
	}).Debug("Fetching latest alerts")

	var alerts []model.Alert
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&alerts).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":  "AlertRepository",
			"op":    "FindLatest",
			"limit": limit,
		}).WithError(err).Error("Failed to fetch latest alerts")
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"repo":        "AlertRepository",
		"op":          "FindLatest",
		"limit":       limit,
		"rows_return": len(alerts),
	}).Info("Latest alerts fetched")

	return alerts, nil
}

// MarkRead flags one alert as read. Returns (false, nil) when the alert
// does not exist.
func (r *AlertRepository) MarkRead(ctx context.Context, id string) (bool, error) {
	logger.WithFields(map[string]interface{}{
		"repo":     "AlertRepository",
		"op":       "MarkRead",
		"alert_id": id,
	}).Debug("Marking alert as read")

	result := r.db.WithContext(ctx).
		Model(&model.Alert{}).
		Where("id = ?", id).
		Update("read", true)
	if result.Error != nil {
		logger.WithFields(map[string]interface{}{
			"repo":     "AlertRepository",
			"op":       "MarkRead",
			"alert_id": id,
		}).WithError(result.Error).Error("Failed to mark alert as read")
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// CountUnread returns how many alerts have not been read yet.
func (r *AlertRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Alert{}).
		Where("read = ?", false).
		Count(&count).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "AlertRepository",
			"op":   "CountUnread",
		}).WithError(err).Error("Failed to count unread alerts")
		return 0, err
	}
	return count, nil
}

// FindByID fetches a single alert by its primary ID. Returns (nil, nil)
// when not found.
func (r *AlertRepository) FindByID(ctx context.Context, id string) (*model.Alert, error) {
	var alert model.Alert
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&alert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.WithFields(map[string]interface{}{
			"repo":     "AlertRepository",
			"op":       "FindByID",
			"alert_id": id,
		}).WithError(err).Error("Failed to fetch alert by ID")
		return nil, err
	}
	return &alert, nil
}
