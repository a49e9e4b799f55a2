package repos

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"quizlearn/backend/apperr"
	"quizlearn/backend/database"
	"quizlearn/backend/models"
	"quizlearn/backend/utils"
)

type LessonRepo struct {
	client *database.Client
	log    *utils.Logger
}

func NewLessonRepo(client *database.Client, baseLog *utils.Logger) *LessonRepo {
	return &LessonRepo{client: client, log: baseLog.With("repo", "LessonRepo")}
}

func (r *LessonRepo) Create(ctx context.Context, tx *gorm.DB, lesson *models.Lesson) error {
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Create(lesson).Error
	})
	if err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}
	return nil
}

func (r *LessonRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Where("id = ?", id).First(&lesson).Error
	})
	if err != nil {
		return nil, fmt.Errorf("get lesson %s: %w", id, err)
	}
	return &lesson, nil
}

// ListByTopic orders by order_index; equal indexes fall back to insertion order.
func (r *LessonRepo) ListByTopic(ctx context.Context, tx *gorm.DB, topicID string) ([]*models.Lesson, error) {
	var lessons []*models.Lesson
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Where("topic_id = ?", topicID).
			Order("order_index ASC").Order("created_at ASC").Order("id ASC").
			Find(&lessons).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

func siblings(db *gorm.DB, topicID string, parentID *string) *gorm.DB {
	db = db.Model(&models.Lesson{}).Where("topic_id = ?", topicID)
	if parentID == nil {
		return db.Where("parent_lesson_id IS NULL")
	}
	return db.Where("parent_lesson_id = ?", *parentID)
}

// NextOrderIndex returns max(order_index)+1 within the sibling group, or 0.
func (r *LessonRepo) NextOrderIndex(ctx context.Context, tx *gorm.DB, topicID string, parentID *string) (int, error) {
	var maxIndex sql.NullInt64
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return siblings(db, topicID, parentID).Select("MAX(order_index)").Scan(&maxIndex).Error
	})
	if err != nil {
		return 0, fmt.Errorf("next order index: %w", err)
	}
	if !maxIndex.Valid {
		return 0, nil
	}
	return int(maxIndex.Int64) + 1, nil
}

// OrderIndexTaken reports whether a sibling other than excludeID holds index.
func (r *LessonRepo) OrderIndexTaken(ctx context.Context, tx *gorm.DB, topicID string, parentID *string, index int, excludeID string) (bool, error) {
	var count int64
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		q := siblings(db, topicID, parentID).Where("order_index = ?", index)
		if excludeID != "" {
			q = q.Where("id <> ?", excludeID)
		}
		return q.Count(&count).Error
	})
	if err != nil {
		return false, fmt.Errorf("check order index: %w", err)
	}
	return count > 0, nil
}

func (r *LessonRepo) CountChildren(ctx context.Context, tx *gorm.DB, lessonID string) (int64, error) {
	var count int64
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Model(&models.Lesson{}).Where("parent_lesson_id = ?", lessonID).Count(&count).Error
	})
	if err != nil {
		return 0, fmt.Errorf("count child lessons: %w", err)
	}
	return count, nil
}

func (r *LessonRepo) Update(ctx context.Context, tx *gorm.DB, id string, columns map[string]interface{}) error {
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		res := db.Model(&models.Lesson{}).Where("id = ?", id).Updates(columns)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("lesson")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update lesson %s: %w", id, err)
	}
	return nil
}
