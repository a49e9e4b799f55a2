package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MinQuestionOptions = 2
	MaxQuestionOptions = 6
)

type Question struct {
	ID            string                      `gorm:"primaryKey;size:36" json:"id"`
	TopicID       string                      `gorm:"size:36;not null;index" json:"topicId"`
	Text          string                      `gorm:"type:text;not null" json:"text"`
	Options       datatypes.JSONSlice[string] `gorm:"column:options" json:"options"`
	CorrectAnswer int                         `gorm:"not null" json:"correctAnswer"`
	Explanation   string                      `gorm:"type:text" json:"explanation"`
	CreatedAt     time.Time                   `json:"createdAt"`
	UpdatedAt     time.Time                   `json:"updatedAt"`
}

func (Question) TableName() string { return "questions" }

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// AnswerRecord is one attempt at a question. Rows are never updated.
type AnswerRecord struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     string    `gorm:"size:36;not null;index:idx_user_progress_user_topic,priority:1" json:"userId"`
	TopicID    string    `gorm:"size:36;not null;index:idx_user_progress_user_topic,priority:2" json:"topicId"`
	QuestionID string    `gorm:"size:36;not null;index" json:"questionId"`
	IsCorrect  bool      `gorm:"not null" json:"isCorrect"`
	AnsweredAt time.Time `gorm:"autoCreateTime" json:"answeredAt"`
}

func (AnswerRecord) TableName() string { return "user_progress" }

func (a *AnswerRecord) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
