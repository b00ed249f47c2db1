package mapper

import (
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/model"
)

type ProviderConfigMapper struct{}

func NewProviderConfigMapper() *ProviderConfigMapper {
	return &ProviderConfigMapper{}
}

func (m *ProviderConfigMapper) ToEntity(c *model.ProviderConfig) *entity.ProviderConfig {
	if c == nil {
		return nil
	}
	return &entity.ProviderConfig{
		Id:           c.Id,
		UserId:       c.UserId,
		Provider:     c.Provider,
		EncryptedKey: c.EncryptedKey,
		BaseURL:      c.BaseURL,
		IsDefault:    c.IsDefault,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (m *ProviderConfigMapper) ToModel(c *entity.ProviderConfig) *model.ProviderConfig {
	if c == nil {
		return nil
	}
	return &model.ProviderConfig{
		Id:           c.Id,
		UserId:       c.UserId,
		Provider:     c.Provider,
		EncryptedKey: c.EncryptedKey,
		BaseURL:      c.BaseURL,
		IsDefault:    c.IsDefault,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
