package repos

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"quizlearn/backend/apperr"
	"quizlearn/backend/database"
	"quizlearn/backend/models"
	"quizlearn/backend/utils"
)

type TopicRepo struct {
	client *database.Client
	log    *utils.Logger
}

func NewTopicRepo(client *database.Client, baseLog *utils.Logger) *TopicRepo {
	return &TopicRepo{client: client, log: baseLog.With("repo", "TopicRepo")}
}

func (r *TopicRepo) Create(ctx context.Context, tx *gorm.DB, topic *models.Topic) error {
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Create(topic).Error
	})
	if err != nil {
		return fmt.Errorf("create topic: %w", err)
	}
	return nil
}

func (r *TopicRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Topic, error) {
	var topic models.Topic
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Where("id = ?", id).First(&topic).Error
	})
	if err != nil {
		return nil, fmt.Errorf("get topic %s: %w", id, err)
	}
	return &topic, nil
}

// GetOwned returns the topic only when userID owns it; otherwise the same
// not-found error as for a missing topic.
func (r *TopicRepo) GetOwned(ctx context.Context, tx *gorm.DB, id, userID string) (*models.Topic, error) {
	var topic models.Topic
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Where("id = ? AND user_id = ?", id, userID).First(&topic).Error
	})
	if err != nil {
		return nil, fmt.Errorf("get topic %s: %w", id, err)
	}
	return &topic, nil
}

func (r *TopicRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*models.Topic, error) {
	var topics []*models.Topic
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Order("created_at DESC").Order("id ASC").Find(&topics).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

func (r *TopicRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.Topic, error) {
	var topics []*models.Topic
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Where("user_id = ?", userID).
			Order("created_at DESC").Order("id ASC").
			Find(&topics).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list topics for user: %w", err)
	}
	return topics, nil
}

// Update applies columns to an owned topic. user_id is never writable.
func (r *TopicRepo) Update(ctx context.Context, tx *gorm.DB, id, userID string, columns map[string]interface{}) error {
	delete(columns, "user_id")
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		res := db.Model(&models.Topic{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(columns)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("topic")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update topic %s: %w", id, err)
	}
	return nil
}
