package validators

import (
	"time"

	"quizlearn/backend/models"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateTopicRequest struct {
	Title       string             `json:"title" validate:"required,max=200"`
	Description string             `json:"description"`
	Difficulty  string             `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	LessonPlan  *models.LessonPlan `json:"lessonPlan"`
}

type UpdateTopicRequest struct {
	Title       *string            `json:"title" validate:"omitempty,max=200"`
	Description *string            `json:"description"`
	Difficulty  *string            `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	LessonPlan  *models.LessonPlan `json:"lessonPlan"`
}

type GoalRequest struct {
	GoalText        *string    `json:"goalText"`
	CurrentLessonID *string    `json:"currentLessonId"`
	TargetDate      *time.Time `json:"targetDate"`
	ClearTargetDate bool       `json:"clearTargetDate"`
}

type CreateLessonRequest struct {
	TopicID        string  `json:"topicId" validate:"required"`
	Title          string  `json:"title" validate:"required"`
	Content        string  `json:"content"`
	ParentLessonID *string `json:"parentLessonId"`
	OrderIndex     *int    `json:"orderIndex" validate:"omitempty,gte=0"`
}

type UpdateLessonRequest struct {
	Title          *string `json:"title"`
	Content        *string `json:"content"`
	OrderIndex     *int    `json:"orderIndex" validate:"omitempty,gte=0"`
	ParentLessonID *string `json:"parentLessonId"`
}

type LessonProgressRequest struct {
	Status           string `json:"status" validate:"required,oneof=not_started in_progress completed"`
	TimeSpentMinutes *int   `json:"timeSpentMinutes" validate:"omitempty,gte=0"`
}

type CreateQuestionRequest struct {
	Text          string   `json:"text" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2,max=6,dive,required"`
	CorrectAnswer *int     `json:"correctAnswer" validate:"required,gte=0"`
	Explanation   string   `json:"explanation"`
}

// AnswerRequest carries either a precomputed isCorrect or the selected
// option index, which is graded on the server.
type AnswerRequest struct {
	QuestionID     string `json:"questionId" validate:"required"`
	IsCorrect      *bool  `json:"isCorrect" validate:"required_without=SelectedAnswer"`
	SelectedAnswer *int   `json:"selectedAnswer" validate:"omitempty,gte=0"`
}

type ChatMessageRequest struct {
	MessageText   string `json:"messageText" validate:"required"`
	TopicID       string `json:"topicId"`
	IsUserMessage *bool  `json:"isUserMessage"`
}

type GrantRoleRequest struct {
	Role string `json:"role" validate:"required"`
}
