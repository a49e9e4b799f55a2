package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

type Topic struct {
	ID          string                         `gorm:"primaryKey;size:36" json:"id"`
	UserID      string                         `gorm:"size:36;not null;index" json:"userId"`
	Title       string                         `gorm:"not null" json:"title"`
	Description string                         `json:"description"`
	Difficulty  string                         `gorm:"size:32;not null;default:beginner" json:"difficulty"`
	LessonPlan  datatypes.JSONType[LessonPlan] `gorm:"column:lesson_plan" json:"lessonPlan"`
	// Progress is derived from lesson statuses on read; it is never stored.
	Progress  int       `gorm:"-" json:"progress"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Topic) TableName() string { return "topics" }

func (t *Topic) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// UserTopic tracks a user's goal for a topic.
type UserTopic struct {
	UserID          string     `gorm:"primaryKey;size:36" json:"userId"`
	TopicID         string     `gorm:"primaryKey;size:36" json:"topicId"`
	GoalText        string     `json:"goalText"`
	CurrentLessonID *string    `gorm:"size:36" json:"currentLessonId"`
	TargetDate      *time.Time `json:"targetDate"`
	StartedAt       time.Time  `json:"startedAt"`
	LastAccessed    time.Time  `json:"lastAccessed"`
}

func (UserTopic) TableName() string { return "user_topics" }
