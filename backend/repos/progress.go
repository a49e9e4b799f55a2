package repos

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"quizlearn/backend/database"
	"quizlearn/backend/models"
	"quizlearn/backend/utils"
)

// LessonStatusRow is one lesson left-joined with a user's progress row.
// Status and TimeSpentMinutes are nil when the user never touched the lesson.
type LessonStatusRow struct {
	TopicID          string
	LessonID         string
	Status           *string
	TimeSpentMinutes *int
}

type LessonProgressRepo struct {
	client *database.Client
	log    *utils.Logger
}

func NewLessonProgressRepo(client *database.Client, baseLog *utils.Logger) *LessonProgressRepo {
	return &LessonProgressRepo{client: client, log: baseLog.With("repo", "LessonProgressRepo")}
}

func (r *LessonProgressRepo) Get(ctx context.Context, tx *gorm.DB, userID, lessonID string) (*models.LessonProgress, error) {
	var row models.LessonProgress
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&row).Error
	})
	if err != nil {
		return nil, fmt.Errorf("get lesson progress: %w", err)
	}
	return &row, nil
}

func (r *LessonProgressRepo) Create(ctx context.Context, tx *gorm.DB, row *models.LessonProgress) error {
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Create(row).Error
	})
	if err != nil {
		return fmt.Errorf("create lesson progress: %w", err)
	}
	return nil
}

func (r *LessonProgressRepo) Save(ctx context.Context, tx *gorm.DB, row *models.LessonProgress) error {
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Save(row).Error
	})
	if err != nil {
		return fmt.Errorf("save lesson progress: %w", err)
	}
	return nil
}

// LessonStatuses lists every lesson of topicID with userID's status.
func (r *LessonProgressRepo) LessonStatuses(ctx context.Context, tx *gorm.DB, userID, topicID string) ([]LessonStatusRow, error) {
	var rows []LessonStatusRow
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Table("lessons AS l").
			Select("l.topic_id AS topic_id, l.id AS lesson_id, ulp.status AS status, ulp.time_spent_minutes AS time_spent_minutes").
			Joins("LEFT JOIN user_lesson_progress ulp ON ulp.lesson_id = l.id AND ulp.user_id = ?", userID).
			Where("l.topic_id = ?", topicID).
			Scan(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("lesson statuses: %w", err)
	}
	return rows, nil
}

// OwnerLessonStatuses does the same for many topics at once, each measured
// against its owner's progress.
func (r *LessonProgressRepo) OwnerLessonStatuses(ctx context.Context, tx *gorm.DB, topicIDs []string) ([]LessonStatusRow, error) {
	var rows []LessonStatusRow
	if len(topicIDs) == 0 {
		return rows, nil
	}
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Table("lessons AS l").
			Select("l.topic_id AS topic_id, l.id AS lesson_id, ulp.status AS status, ulp.time_spent_minutes AS time_spent_minutes").
			Joins("JOIN topics t ON t.id = l.topic_id").
			Joins("LEFT JOIN user_lesson_progress ulp ON ulp.lesson_id = l.id AND ulp.user_id = t.user_id").
			Where("l.topic_id IN ?", topicIDs).
			Scan(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("owner lesson statuses: %w", err)
	}
	return rows, nil
}
