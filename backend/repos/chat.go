package repos

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"quizlearn/backend/database"
	"quizlearn/backend/models"
	"quizlearn/backend/utils"
)

type ChatRepo struct {
	client *database.Client
	log    *utils.Logger
}

func NewChatRepo(client *database.Client, baseLog *utils.Logger) *ChatRepo {
	return &ChatRepo{client: client, log: baseLog.With("repo", "ChatRepo")}
}

func (r *ChatRepo) Create(ctx context.Context, tx *gorm.DB, msg *models.ChatMessage) error {
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Create(msg).Error
	})
	if err != nil {
		return fmt.Errorf("add chat message: %w", err)
	}
	return nil
}

func (r *ChatRepo) ListByUserLesson(ctx context.Context, tx *gorm.DB, userID, lessonID string) ([]*models.ChatMessage, error) {
	var messages []*models.ChatMessage
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
			Order("created_at ASC").Order("id ASC").
			Find(&messages).Error
	})
	if err != nil {
		return nil, fmt.Errorf("chat history: %w", err)
	}
	return messages, nil
}
