package entity

import (
	"time"

	"github.com/google/uuid"
)

// ConversationSettings are the generation parameters for a conversation.
// Values are clamped at creation, so a loaded conversation always carries
// usable numbers.
type ConversationSettings struct {
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

const (
	DefaultMaxTokens   = 1024
	MinMaxTokens       = 1
	MaxMaxTokens       = 32768
	DefaultTemperature = 1.0
	MinTemperature     = 0.0
	MaxTemperature     = 2.0
)

// DefaultSettings returns the settings applied when a conversation is
// created without explicit parameters.
func DefaultSettings() ConversationSettings {
	return ConversationSettings{
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	}
}

// Clamp forces the settings into their valid ranges. Zero MaxTokens means
// "not set" and takes the default.
func (s ConversationSettings) Clamp() ConversationSettings {
	if s.MaxTokens == 0 {
		s.MaxTokens = DefaultMaxTokens
	}
	if s.MaxTokens < MinMaxTokens {
		s.MaxTokens = MinMaxTokens
	}
	if s.MaxTokens > MaxMaxTokens {
		s.MaxTokens = MaxMaxTokens
	}
	if s.Temperature < MinTemperature {
		s.Temperature = MinTemperature
	}
	if s.Temperature > MaxTemperature {
		s.Temperature = MaxTemperature
	}
	return s
}

type Conversation struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Title        string
	SystemPrompt *string
	Settings     ConversationSettings
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
