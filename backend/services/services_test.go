package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"quizlearn/backend/database"
	"quizlearn/backend/models"
	"quizlearn/backend/repos"
	"quizlearn/backend/testutil"
	"quizlearn/backend/utils"
)

type env struct {
	client    *database.Client
	auth      *AuthService
	users     *UserService
	topics    *TopicService
	lessons   *LessonService
	questions *QuestionService
	chat      *ChatService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	client := testutil.NewClient(t)
	log := utils.NopLogger()

	userRepo := repos.NewUserRepo(client, log)
	topicRepo := repos.NewTopicRepo(client, log)
	userTopicRepo := repos.NewUserTopicRepo(client, log)
	lessonRepo := repos.NewLessonRepo(client, log)
	progressRepo := repos.NewLessonProgressRepo(client, log)
	questionRepo := repos.NewQuestionRepo(client, log)
	answerRepo := repos.NewAnswerRepo(client, log)
	chatRepo := repos.NewChatRepo(client, log)

	auth := NewAuthService(userRepo, log, "test-secret", testutil.Timeout*100)
	auth.bcryptCost = bcrypt.MinCost

	return &env{
		client:    client,
		auth:      auth,
		users:     NewUserService(userRepo, log),
		topics:    NewTopicService(client, topicRepo, userTopicRepo, questionRepo, lessonRepo, progressRepo, log),
		lessons:   NewLessonService(client, lessonRepo, topicRepo, progressRepo, log),
		questions: NewQuestionService(questionRepo, answerRepo, topicRepo, log),
		chat:      NewChatService(chatRepo, log),
	}
}

func (e *env) register(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), email, "secret-password", "Test User")
	require.NoError(t, err)
	return user
}

func (e *env) topic(t *testing.T, userID, title string) *models.Topic {
	t.Helper()
	topic, err := e.topics.CreateTopic(context.Background(), userID, title, "", "", nil)
	require.NoError(t, err)
	return topic
}

func (e *env) lesson(t *testing.T, userID, topicID, title string) *models.Lesson {
	t.Helper()
	lesson, err := e.lessons.CreateLesson(context.Background(), userID, NewLessonInput{TopicID: topicID, Title: title})
	require.NoError(t, err)
	return lesson
}
