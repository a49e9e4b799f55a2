package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizlearn/backend/config"
	"quizlearn/backend/controllers"
	"quizlearn/backend/database"
	"quizlearn/backend/models"
	"quizlearn/backend/repos"
	"quizlearn/backend/testutil"
	"quizlearn/backend/utils"
)

type testApp struct {
	app    *fiber.App
	client *database.Client
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	client := testutil.NewClient(t)
	logger := utils.NopLogger()
	cfg := &config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour}

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler(logger)})
	SetupRoutes(app, client, cfg, logger)
	return &testApp{app: app, client: client}
}

func (ta *testApp) do(t *testing.T, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func (ta *testApp) register(t *testing.T, email string) (string, *models.User) {
	t.Helper()
	status, body := ta.do(t, "POST", "/api/auth/register", "", map[string]string{
		"email": email, "password": "password123", "name": "Test User",
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var res controllers.AuthResponse
	require.NoError(t, json.Unmarshal(body, &res))
	return res.Token, res.User
}

func (ta *testApp) createTopic(t *testing.T, token, title string) models.Topic {
	t.Helper()
	status, body := ta.do(t, "POST", "/api/topics", token, map[string]string{"title": title})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var topic models.Topic
	require.NoError(t, json.Unmarshal(body, &topic))
	return topic
}

func decodeError(t *testing.T, body []byte) utils.ErrorResponse {
	t.Helper()
	var res utils.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &res))
	return res
}

func TestAuthFlow(t *testing.T) {
	ta := setupTestApp(t)

	token, user := ta.register(t, "john@example.com")
	assert.NotEmpty(t, token)
	assert.Equal(t, "john@example.com", user.Email)

	status, body := ta.do(t, "POST", "/api/auth/register", "", map[string]string{
		"email": "JOHN@example.com", "password": "other", "name": "John",
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "email already registered", decodeError(t, body).Error)

	status, body = ta.do(t, "POST", "/api/auth/login", "", map[string]string{
		"email": "john@example.com", "password": "password123",
	})
	require.Equal(t, fiber.StatusOK, status)
	var login controllers.AuthResponse
	require.NoError(t, json.Unmarshal(body, &login))
	assert.NotEmpty(t, login.Token)
	assert.NotContains(t, string(body), "password")

	status, _ = ta.do(t, "POST", "/api/auth/login", "", map[string]string{
		"email": "john@example.com", "password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = ta.do(t, "GET", "/api/users/me", login.Token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var me models.User
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, user.ID, me.ID)
	assert.Equal(t, []string{models.RoleUser}, me.Roles)

	status, _ = ta.do(t, "POST", "/api/auth/logout", login.Token, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
}

func TestRegisterValidation(t *testing.T) {
	ta := setupTestApp(t)

	status, body := ta.do(t, "POST", "/api/auth/register", "", map[string]string{"email": "a@b.com"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	res := decodeError(t, body)
	assert.Contains(t, res.Fields, "password")
	assert.Contains(t, res.Fields, "name")
}

func TestAuthRequired(t *testing.T) {
	ta := setupTestApp(t)

	status, body := ta.do(t, "GET", "/api/topics", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "missing authorization token", decodeError(t, body).Error)

	status, _ = ta.do(t, "GET", "/api/topics", "garbage", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestTopicLifecycle(t *testing.T) {
	ta := setupTestApp(t)
	token, user := ta.register(t, "owner@example.com")
	otherToken, _ := ta.register(t, "other@example.com")

	topic := ta.createTopic(t, token, "Go Basics")
	assert.Equal(t, user.ID, topic.UserID)
	assert.Equal(t, models.DifficultyBeginner, topic.Difficulty)
	assert.Zero(t, topic.Progress)

	status, body := ta.do(t, "GET", "/api/topics", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var list []models.Topic
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, topic.ID, list[0].ID)

	status, body = ta.do(t, "PATCH", "/api/topics/"+topic.ID, token, map[string]string{"title": "Go Advanced", "difficulty": "advanced"})
	require.Equal(t, fiber.StatusOK, status, string(body))
	var updated models.Topic
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "Go Advanced", updated.Title)
	assert.Equal(t, models.DifficultyAdvanced, updated.Difficulty)

	status, body = ta.do(t, "PUT", "/api/topics/"+topic.ID, token, map[string]string{"difficulty": "expert"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, decodeError(t, body).Fields, "difficulty")

	status, _ = ta.do(t, "GET", "/api/topics/"+topic.ID, otherToken, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = ta.do(t, "PATCH", "/api/topics/"+topic.ID, otherToken, map[string]string{"title": "mine now"})
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = ta.do(t, "GET", "/api/topics/"+topic.ID+"/questions", otherToken, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = ta.do(t, "GET", "/api/topics/"+topic.ID+"/goal", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var goal models.UserTopic
	require.NoError(t, json.Unmarshal(body, &goal))
	assert.Equal(t, "Learn Go Basics", goal.GoalText)

	status, body = ta.do(t, "PUT", "/api/topics/"+topic.ID+"/goal", token, map[string]string{"goalText": "Ship a service"})
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &goal))
	assert.Equal(t, "Ship a service", goal.GoalText)
}

func TestLessonsAndProgress(t *testing.T) {
	ta := setupTestApp(t)
	token, _ := ta.register(t, "learner@example.com")
	topic := ta.createTopic(t, token, "Lessons")

	var lessons []models.Lesson
	for _, title := range []string{"Intro", "Middle", "End"} {
		status, body := ta.do(t, "POST", "/api/lessons", token, map[string]interface{}{
			"topicId": topic.ID, "title": title, "content": title + " content",
		})
		require.Equal(t, fiber.StatusCreated, status, string(body))
		var l models.Lesson
		require.NoError(t, json.Unmarshal(body, &l))
		lessons = append(lessons, l)
	}

	status, body := ta.do(t, "POST", "/api/lessons", token, map[string]interface{}{
		"topicId": topic.ID, "title": "Clash", "orderIndex": 0,
	})
	assert.Equal(t, fiber.StatusConflict, status, string(body))

	status, body = ta.do(t, "GET", "/api/topics/"+topic.ID+"/lessons", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var listed []models.Lesson
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Len(t, listed, 3)
	for i, l := range listed {
		assert.Equal(t, lessons[i].ID, l.ID)
		assert.Equal(t, i, l.OrderIndex)
	}

	status, _ = ta.do(t, "GET", "/api/lessons/"+lessons[0].ID+"/progress", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = ta.do(t, "PUT", "/api/lessons/"+lessons[0].ID+"/progress", token, map[string]interface{}{
		"status": "completed", "timeSpentMinutes": 12,
	})
	require.Equal(t, fiber.StatusOK, status, string(body))

	status, _ = ta.do(t, "PUT", "/api/lessons/"+lessons[0].ID+"/progress", token, map[string]interface{}{"status": "in_progress"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = ta.do(t, "PUT", "/api/lessons/"+lessons[1].ID+"/progress", token, map[string]interface{}{"status": "finished"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = ta.do(t, "GET", "/api/topics/"+topic.ID+"/progress", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var progress models.TopicProgress
	require.NoError(t, json.Unmarshal(body, &progress))
	assert.Equal(t, 3, progress.TotalLessons)
	assert.Equal(t, 1, progress.CompletedLessons)
	assert.Equal(t, 2, progress.NotStartedLessons)
	assert.Equal(t, 12, progress.TimeSpentMinutes)
	assert.Equal(t, 33, progress.Progress)

	status, body = ta.do(t, "PUT", "/api/lessons/"+lessons[2].ID, token, map[string]interface{}{"title": "Finale"})
	require.Equal(t, fiber.StatusOK, status)
	var renamed models.Lesson
	require.NoError(t, json.Unmarshal(body, &renamed))
	assert.Equal(t, "Finale", renamed.Title)
}

func TestQuestionsAndAnswers(t *testing.T) {
	ta := setupTestApp(t)
	token, _ := ta.register(t, "quiz@example.com")
	topic := ta.createTopic(t, token, "Quiz")

	status, body := ta.do(t, "GET", "/api/topics/"+topic.ID+"/questions", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var questions []models.Question
	require.NoError(t, json.Unmarshal(body, &questions))
	require.Len(t, questions, 5)

	status, body = ta.do(t, "POST", "/api/topics/"+topic.ID+"/questions", token, map[string]interface{}{
		"text": "Pick one", "options": []string{"a", "b"}, "correctAnswer": 2,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, decodeError(t, body).Fields, "correctAnswer")

	status, body = ta.do(t, "POST", "/api/topics/"+topic.ID+"/questions", token, map[string]interface{}{
		"text": "Pick one", "options": []string{"a"}, "correctAnswer": 0,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, decodeError(t, body).Fields, "options")

	status, body = ta.do(t, "POST", "/api/topics/"+topic.ID+"/questions", token, map[string]interface{}{
		"text": "Pick b", "options": []string{"a", "b"}, "correctAnswer": 1,
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))

	q := questions[0]
	status, _ = ta.do(t, "POST", "/api/topics/"+topic.ID+"/answers", token, map[string]interface{}{
		"questionId": q.ID, "selectedAnswer": q.CorrectAnswer,
	})
	require.Equal(t, fiber.StatusCreated, status)
	status, _ = ta.do(t, "POST", "/api/topics/"+topic.ID+"/answers", token, map[string]interface{}{
		"questionId": q.ID, "isCorrect": false,
	})
	require.Equal(t, fiber.StatusCreated, status)
	status, _ = ta.do(t, "POST", "/api/topics/"+topic.ID+"/answers", token, map[string]interface{}{
		"questionId": q.ID,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = ta.do(t, "GET", "/api/topics/"+topic.ID+"/accuracy", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var acc models.Accuracy
	require.NoError(t, json.Unmarshal(body, &acc))
	assert.Equal(t, 2, acc.Attempts)
	assert.Equal(t, 1, acc.Correct)
	assert.InDelta(t, 0.5, acc.Accuracy, 0.0001)
}

func TestChat(t *testing.T) {
	ta := setupTestApp(t)
	token, _ := ta.register(t, "chat@example.com")

	status, _ := ta.do(t, "POST", "/api/chat/lesson/lesson-1/message", token, map[string]interface{}{"messageText": ""})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = ta.do(t, "POST", "/api/chat/lesson/lesson-1/message", token, map[string]interface{}{"messageText": "Hi"})
	require.Equal(t, fiber.StatusCreated, status)
	status, _ = ta.do(t, "POST", "/api/chat/lesson/lesson-1/message", token, map[string]interface{}{
		"messageText": "Hello!", "isUserMessage": false,
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, body := ta.do(t, "GET", "/api/chat/lesson/lesson-1", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var history []models.ChatMessage
	require.NoError(t, json.Unmarshal(body, &history))
	require.Len(t, history, 2)
	assert.True(t, history[0].IsUserMessage)
	assert.False(t, history[1].IsUserMessage)
}

func TestAdminTopics(t *testing.T) {
	ta := setupTestApp(t)
	token, user := ta.register(t, "admin@example.com")
	ta.createTopic(t, token, "Mine")
	otherToken, _ := ta.register(t, "member@example.com")
	ta.createTopic(t, otherToken, "Theirs")

	status, _ := ta.do(t, "GET", "/api/admin/topics", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status, "hidden until the role is granted")

	userRepo := repos.NewUserRepo(ta.client, utils.NopLogger())
	require.NoError(t, userRepo.GrantRole(context.Background(), nil, user.ID, models.RoleAdmin))

	status, body := ta.do(t, "GET", "/api/admin/topics", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	var all []models.Topic
	require.NoError(t, json.Unmarshal(body, &all))
	assert.Len(t, all, 2)
}

func TestHealthAndUnknownRoute(t *testing.T) {
	ta := setupTestApp(t)

	status, body := ta.do(t, "GET", "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	status, body = ta.do(t, "GET", "/api/missing", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.NotEmpty(t, decodeError(t, body).Error)
}
