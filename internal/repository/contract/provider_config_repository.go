package contract

import (
	"context"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ProviderConfigRepository interface {
	Save(ctx context.Context, config *entity.ProviderConfig) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ClearDefaults drops the default flag on every config the user owns.
	// Called before an upsert marks a new default (last-writer-wins).
	ClearDefaults(ctx context.Context, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProviderConfig, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProviderConfig, error)
}
