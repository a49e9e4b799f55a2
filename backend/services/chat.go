package services

import (
	"context"
	"strings"

	"quizlearn/backend/apperr"
	"quizlearn/backend/models"
	"quizlearn/backend/repos"
	"quizlearn/backend/utils"
)

type ChatService struct {
	chat *repos.ChatRepo
	log  *utils.Logger
}

func NewChatService(chat *repos.ChatRepo, log *utils.Logger) *ChatService {
	return &ChatService{chat: chat, log: log.With("service", "ChatService")}
}

// AddMessage appends to the lesson's log. The lesson is not looked up.
func (s *ChatService) AddMessage(ctx context.Context, userID, topicID, lessonID string, isUserMessage bool, text string) (*models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.ValidationFields(map[string]string{"messageText": "message text is required"})
	}
	if lessonID == "" {
		return nil, apperr.ValidationFields(map[string]string{"lessonId": "lesson is required"})
	}

	msg := &models.ChatMessage{
		UserID:        userID,
		TopicID:       topicID,
		LessonID:      lessonID,
		IsUserMessage: isUserMessage,
		MessageText:   text,
	}
	if err := s.chat.Create(ctx, nil, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *ChatService) GetLessonChatHistory(ctx context.Context, userID, lessonID string) ([]*models.ChatMessage, error) {
	return s.chat.ListByUserLesson(ctx, nil, userID, lessonID)
}
