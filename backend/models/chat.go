package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatMessage is an append-only entry of a lesson's chat log.
type ChatMessage struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	UserID        string    `gorm:"size:36;not null;index:idx_chat_user_lesson,priority:1" json:"userId"`
	TopicID       string    `gorm:"size:36" json:"topicId"`
	LessonID      string    `gorm:"size:36;not null;index:idx_chat_user_lesson,priority:2" json:"lessonId"`
	IsUserMessage bool      `gorm:"not null" json:"isUserMessage"`
	MessageText   string    `gorm:"type:text;not null" json:"messageText"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (ChatMessage) TableName() string { return "user_lesson_chat_history" }

// BeforeCreate assigns a time-ordered v7 id, so id breaks created_at ties
// in insertion order.
func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID != "" {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	m.ID = id.String()
	return nil
}
