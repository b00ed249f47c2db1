package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProviderConfig is one user's credential row for one provider.
// EncryptedKey holds the base64 ciphertext envelope, nil for keyless
// providers. At most one row per user has IsDefault set; the upsert clears
// the flag on the others (last-writer-wins).
type ProviderConfig struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Provider     string
	EncryptedKey *string
	BaseURL      *string
	IsDefault    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
