package mapper

import (
	"encoding/json"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Conversation Mappers

func (m *ChatMapper) ConversationToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}

	// Rows written before settings existed fall back to defaults.
	settings := entity.DefaultSettings()
	if len(c.Settings) > 0 {
		if err := json.Unmarshal(c.Settings, &settings); err != nil {
			settings = entity.DefaultSettings()
		}
		settings = settings.Clamp()
	}

	return &entity.Conversation{
		Id:           c.Id,
		UserId:       c.UserId,
		Title:        c.Title,
		SystemPrompt: c.SystemPrompt,
		Settings:     settings,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (m *ChatMapper) ConversationToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}

	raw, err := json.Marshal(c.Settings)
	if err != nil {
		raw = nil
	}

	return &model.Conversation{
		Id:           c.Id,
		UserId:       c.UserId,
		Title:        c.Title,
		SystemPrompt: c.SystemPrompt,
		Settings:     datatypes.JSON(raw),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// Message Mappers

func (m *ChatMapper) MessageToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}

	return &entity.Message{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Role:           entity.MessageRole(msg.Role),
		Content:        msg.Content,
		TokenCount:     msg.TokenCount,
		ModelProvider:  msg.ModelProvider,
		ModelUsed:      msg.ModelUsed,
		Status:         entity.MessageStatus(msg.Status),
		Error:          msg.Error,
		CreatedAt:      msg.CreatedAt,
	}
}

func (m *ChatMapper) MessageToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}

	return &model.Message{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Role:           string(msg.Role),
		Content:        msg.Content,
		TokenCount:     msg.TokenCount,
		ModelProvider:  msg.ModelProvider,
		ModelUsed:      msg.ModelUsed,
		Status:         string(msg.Status),
		Error:          msg.Error,
		CreatedAt:      msg.CreatedAt,
	}
}
