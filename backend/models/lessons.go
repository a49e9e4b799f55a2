package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lesson struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	TopicID        string    `gorm:"size:36;not null;index:idx_lessons_siblings,priority:1" json:"topicId"`
	ParentLessonID *string   `gorm:"size:36;index:idx_lessons_siblings,priority:2" json:"parentLessonId"`
	Title          string    `gorm:"not null" json:"title"`
	Content        string    `gorm:"type:text" json:"content"`
	OrderIndex     int       `gorm:"not null;default:0;index:idx_lessons_siblings,priority:3" json:"orderIndex"`
	UserID         string    `gorm:"size:36;not null" json:"userId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Lesson) TableName() string { return "lessons" }

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
