package dto

import (
	"time"

	"github.com/google/uuid"
)

type SettingsDTO struct {
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

type CreateConversationRequest struct {
	Title        string       `json:"title"`
	SystemPrompt *string      `json:"system_prompt,omitempty"`
	Settings     *SettingsDTO `json:"settings,omitempty"`
}

type RenameConversationRequest struct {
	Title string `json:"title" validate:"required"`
}

type ConversationResponse struct {
	Id           uuid.UUID   `json:"id"`
	Title        string      `json:"title"`
	SystemPrompt *string     `json:"system_prompt,omitempty"`
	Settings     SettingsDTO `json:"settings"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type ConversationDetailResponse struct {
	ConversationResponse
	Messages []MessageResponse `json:"messages"`
}

type MessageResponse struct {
	Id            uuid.UUID `json:"id"`
	Role          string    `json:"role"`
	Content       string    `json:"content"`
	TokenCount    int       `json:"token_count"`
	ModelProvider *string   `json:"model_provider,omitempty"`
	ModelUsed     *string   `json:"model_used,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type SendMessageRequest struct {
	Content       string `json:"content" validate:"required"`
	ModelProvider string `json:"model_provider" validate:"required"`
	ModelName     string `json:"model_name" validate:"required"`
	// BaseURL overrides the stored/default provider endpoint for this turn.
	BaseURL string `json:"base_url,omitempty"`
}
