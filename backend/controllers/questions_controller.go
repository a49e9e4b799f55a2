package controllers

import (
	"github.com/gofiber/fiber/v2"

	"quizlearn/backend/middleware"
	"quizlearn/backend/models"
	"quizlearn/backend/services"
	"quizlearn/backend/utils"
	"quizlearn/backend/validators"
)

type QuestionsController struct {
	Questions *services.QuestionService
}

func NewQuestionsController(questions *services.QuestionService) *QuestionsController {
	return &QuestionsController{Questions: questions}
}

// GetTopicQuestions godoc
// @Summary List a topic's questions
// @Tags questions
// @Produce json
// @Param id path string true "Topic ID"
// @Success 200 {array} models.Question
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /topics/{id}/questions [get]
func (qc *QuestionsController) GetTopicQuestions(c *fiber.Ctx) error {
	questions, err := qc.Questions.GetTopicQuestions(c.UserContext(), middleware.CurrentUserID(c), c.Params("id"))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.OK(c, questions)
}

// CreateQuestion godoc
// @Summary Add a question to a topic
// @Description Between 2 and 6 options; correctAnswer is a 0-based option index
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Topic ID"
// @Param question body validators.CreateQuestionRequest true "Question data"
// @Success 201 {object} models.Question
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /topics/{id}/questions [post]
func (qc *QuestionsController) CreateQuestion(c *fiber.Ctx) error {
	req := validators.Validated[validators.CreateQuestionRequest](c)

	q, err := qc.Questions.CreateOwnedQuestion(c.UserContext(), middleware.CurrentUserID(c), c.Params("id"),
		req.Text, req.Options, *req.CorrectAnswer, req.Explanation)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Created(c, q)
}

// RecordAnswer godoc
// @Summary Record an answer
// @Description Send isCorrect, or selectedAnswer to have it graded
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Topic ID"
// @Param answer body validators.AnswerRequest true "Answer"
// @Success 201 {object} models.AnswerRecord
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /topics/{id}/answers [post]
func (qc *QuestionsController) RecordAnswer(c *fiber.Ctx) error {
	req := validators.Validated[validators.AnswerRequest](c)
	userID := middleware.CurrentUserID(c)

	var (
		rec *models.AnswerRecord
		err error
	)
	if req.SelectedAnswer != nil {
		rec, err = qc.Questions.AnswerWithOption(c.UserContext(), userID, c.Params("id"), req.QuestionID, *req.SelectedAnswer)
	} else {
		rec, err = qc.Questions.RecordAnswer(c.UserContext(), userID, c.Params("id"), req.QuestionID, *req.IsCorrect)
	}
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Created(c, rec)
}
