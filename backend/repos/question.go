package repos

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"quizlearn/backend/database"
	"quizlearn/backend/models"
	"quizlearn/backend/utils"
)

type QuestionRepo struct {
	client *database.Client
	log    *utils.Logger
}

func NewQuestionRepo(client *database.Client, baseLog *utils.Logger) *QuestionRepo {
	return &QuestionRepo{client: client, log: baseLog.With("repo", "QuestionRepo")}
}

func (r *QuestionRepo) Create(ctx context.Context, tx *gorm.DB, questions ...*models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Create(&questions).Error
	})
	if err != nil {
		return fmt.Errorf("create questions: %w", err)
	}
	return nil
}

func (r *QuestionRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Question, error) {
	var q models.Question
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Where("id = ?", id).First(&q).Error
	})
	if err != nil {
		return nil, fmt.Errorf("get question %s: %w", id, err)
	}
	return &q, nil
}

func (r *QuestionRepo) ListByTopic(ctx context.Context, tx *gorm.DB, topicID string) ([]*models.Question, error) {
	var questions []*models.Question
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Where("topic_id = ?", topicID).
			Order("created_at ASC").Order("id ASC").
			Find(&questions).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

type AnswerRepo struct {
	client *database.Client
	log    *utils.Logger
}

func NewAnswerRepo(client *database.Client, baseLog *utils.Logger) *AnswerRepo {
	return &AnswerRepo{client: client, log: baseLog.With("repo", "AnswerRepo")}
}

// Create appends an attempt. Earlier attempts at the same question stay.
func (r *AnswerRepo) Create(ctx context.Context, tx *gorm.DB, rec *models.AnswerRecord) error {
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Create(rec).Error
	})
	if err != nil {
		return fmt.Errorf("record answer: %w", err)
	}
	return nil
}

func (r *AnswerRepo) ListByUserTopic(ctx context.Context, tx *gorm.DB, userID, topicID string) ([]*models.AnswerRecord, error) {
	var records []*models.AnswerRecord
	err := r.client.Execute(ctx, tx, func(db *gorm.DB) error {
		return db.Where("user_id = ? AND topic_id = ?", userID, topicID).
			Order("answered_at ASC").
			Find(&records).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return records, nil
}
