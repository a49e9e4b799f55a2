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

type UserTopicRepo struct {
	client *database.Client
	log    *utils.Logger
}

func NewUserTopicRepo(client *database.Client, baseLog *utils.Logger) *UserTopicRepo {
	return &UserTopicRepo{client: client, log: baseLog.With("repo", "UserTopicRepo")}
}

func (r *UserTopicRepo) Create(ctx context.Context, tx *gorm.DB, ut *models.UserTopic) error {
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Create(ut).Error
	})
	if err != nil {
		return fmt.Errorf("create user topic: %w", err)
	}
	return nil
}

func (r *UserTopicRepo) Get(ctx context.Context, tx *gorm.DB, userID, topicID string) (*models.UserTopic, error) {
	var ut models.UserTopic
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Where("user_id = ? AND topic_id = ?", userID, topicID).First(&ut).Error
	})
	if err != nil {
		return nil, fmt.Errorf("get user topic: %w", err)
	}
	return &ut, nil
}

func (r *UserTopicRepo) Update(ctx context.Context, tx *gorm.DB, userID, topicID string, columns map[string]interface{}) error {
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		res := db.Model(&models.UserTopic{}).
			Where("user_id = ? AND topic_id = ?", userID, topicID).
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
		return fmt.Errorf("update user topic: %w", err)
	}
	return nil
}
