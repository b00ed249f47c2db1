package model

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId uuid.UUID `gorm:"type:uuid;not null;index"`
	Role           string    `gorm:"type:varchar(20);not null"`
	Content        string    `gorm:"type:text;not null"`
	TokenCount     int       `gorm:"not null;default:0"`
	ModelProvider  *string   `gorm:"type:varchar(50)"`
	ModelUsed      *string   `gorm:"type:varchar(100)"`
	Status         string    `gorm:"type:varchar(20);not null;default:'pending'"`
	Error          *string   `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (Message) TableName() string {
	return "messages"
}
