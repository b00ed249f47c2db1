package entity

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string
type MessageStatus string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"

	// Every user message passes through pending before processed. A pending
	// row with no matching assistant reply marks an interrupted turn and is
	// removed by compensating cleanup.
	MessageStatusPending   MessageStatus = "pending"
	MessageStatusProcessed MessageStatus = "processed"
)

type Message struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Role           MessageRole
	Content        string
	TokenCount     int
	ModelProvider  *string
	ModelUsed      *string
	Status         MessageStatus
	// Error distinguishes a failed turn from a successful one within the
	// processed status; nil means success.
	Error     *string
	CreatedAt time.Time
}
