package model

import "time"

// LegacyCredential holds the stored login for the legacy broker backend.
// Email and password are AES-GCM encrypted before they reach the database;
// plaintext only ever lives in the in-process credential store.
type LegacyCredential struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Provider          string    `gorm:"size:30;uniqueIndex:ux_legacy_credentials_provider" json:"provider"`
	EmailEncrypted    string    `gorm:"type:text" json:"-"`
	PasswordEncrypted string    `gorm:"type:text" json:"-"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (LegacyCredential) TableName() string {
	return "legacy_credentials"
}
