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

// LegacyCredentialRepository persists the encrypted legacy broker login.
type LegacyCredentialRepository struct {
	db *gorm.DB
}

// NewLegacyCredentialRepository creates a new repository instance using the main read/write database.
func NewLegacyCredentialRepository() *LegacyCredentialRepository {
	logger.WithField("component", "LegacyCredentialRepository").
		Info("Creating new LegacyCredentialRepository with MainDB")

	return &LegacyCredentialRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *LegacyCredentialRepository) WithDB(db *gorm.DB) *LegacyCredentialRepository {
	logger.WithField("component", "LegacyCredentialRepository").
		Debug("Creating LegacyCredentialRepository with custom DB instance")

	return &LegacyCredentialRepository{db: db}
}

// Upsert stores the encrypted pair for a provider, replacing any previous
// row. One row per provider.
func (r *LegacyCredentialRepository) Upsert(ctx context.Context, credential *model.LegacyCredential) error {
	logger.WithFields(map[string]interface{}{
		"repo":     "LegacyCredentialRepository",
		"op":       "Upsert",
		"provider": credential.Provider,
	}).Debug("Storing legacy credential")

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider"}},
			DoUpdates: clause.AssignmentColumns([]string{"email_encrypted", "password_encrypted", "updated_at"}),
		}).
		Create(credential).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":     "LegacyCredentialRepository",
			"op":       "Upsert",
			"provider": credential.Provider,
		}).WithError(err).Error("Failed to store legacy credential")
		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":     "LegacyCredentialRepository",
		"op":       "Upsert",
		"provider": credential.Provider,
	}).Info("Legacy credential stored")

	return nil
}

// FindByProvider fetches the stored pair for a provider. Returns (nil, nil)
// when no credential has been saved yet.
func (r *LegacyCredentialRepository) FindByProvider(ctx context.Context, provider string) (*model.LegacyCredential, error) {
	var credential model.LegacyCredential
	err := r.db.WithContext(ctx).
		Where("provider = ?", provider).
		First(&credential).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.WithFields(map[string]interface{}{
			"repo":     "LegacyCredentialRepository",
			"op":       "FindByProvider",
			"provider": provider,
		}).WithError(err).Error("Failed to fetch legacy credential")
		return nil, err
	}
	return &credential, nil
}
