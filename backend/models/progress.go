package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LessonStatus string

const (
	LessonNotStarted LessonStatus = "not_started"
	LessonInProgress LessonStatus = "in_progress"
	LessonCompleted  LessonStatus = "completed"
)

func (s LessonStatus) Valid() bool {
	switch s {
	case LessonNotStarted, LessonInProgress, LessonCompleted:
		return true
	}
	return false
}

// CanTransition reports whether a lesson may move from s to next.
// Staying in the same status is always allowed; nothing moves backwards.
func (s LessonStatus) CanTransition(next LessonStatus) bool {
	if !next.Valid() {
		return false
	}
	switch s {
	case LessonNotStarted:
		return true
	case LessonInProgress:
		return next != LessonNotStarted
	case LessonCompleted:
		return next == LessonCompleted
	}
	return false
}

// LessonProgress tracks one user's status on one lesson.
type LessonProgress struct {
	ID                string       `gorm:"primaryKey;size:36" json:"id"`
	UserID            string       `gorm:"size:36;not null;uniqueIndex:idx_user_lesson" json:"userId"`
	LessonID          string       `gorm:"size:36;not null;uniqueIndex:idx_user_lesson" json:"lessonId"`
	Status            LessonStatus `gorm:"size:16;not null;default:not_started" json:"status"`
	TimeSpentMinutes  int          `gorm:"not null;default:0" json:"timeSpentMinutes"`
	LastInteractionAt time.Time    `json:"lastInteractionAt"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

func (LessonProgress) TableName() string { return "user_lesson_progress" }

func (p *LessonProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// TopicProgress is derived from lessons joined with a user's lesson progress.
type TopicProgress struct {
	TopicID           string `json:"topicId"`
	TotalLessons      int    `json:"totalLessons"`
	CompletedLessons  int    `json:"completedLessons"`
	InProgressLessons int    `json:"inProgressLessons"`
	NotStartedLessons int    `json:"notStartedLessons"`
	TimeSpentMinutes  int    `json:"timeSpentMinutes"`
	Progress          int    `json:"progress"`
}

// Percent returns completed/total rounded to the nearest whole percent.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return (completed*200 + total) / (2 * total)
}

// Accuracy summarizes every recorded attempt for a user on a topic.
type Accuracy struct {
	TopicID           string  `json:"topicId"`
	Attempts          int     `json:"attempts"`
	Correct           int     `json:"correct"`
	QuestionsAnswered int     `json:"questionsAnswered"`
	Accuracy          float64 `json:"accuracy"`
}
