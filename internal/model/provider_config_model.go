package model

import (
	"time"

	"github.com/google/uuid"
)

type ProviderConfig struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_provider"`
	Provider     string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_user_provider"`
	EncryptedKey *string   `gorm:"type:text"` // base64 ciphertext envelope, never plaintext
	BaseURL      *string   `gorm:"type:text"`
	IsDefault    bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (ProviderConfig) TableName() string {
	return "provider_configs"
}
