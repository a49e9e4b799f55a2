package controllers

import (
	"github.com/gofiber/fiber/v2"

	"quizlearn/backend/middleware"
	"quizlearn/backend/models"
	"quizlearn/backend/services"
	"quizlearn/backend/utils"
	"quizlearn/backend/validators"
)

type ProgressController struct {
	Topics    *services.TopicService
	Lessons   *services.LessonService
	Questions *services.QuestionService
}

func NewProgressController(topics *services.TopicService, lessons *services.LessonService, questions *services.QuestionService) *ProgressController {
	return &ProgressController{Topics: topics, Lessons: lessons, Questions: questions}
}

// GetTopicProgress godoc
// @Summary Get topic progress
// @Description Lesson counts by status for the caller; untouched lessons count as not started
// @Tags progress
// @Produce json
// @Param id path string true "Topic ID"
// @Success 200 {object} models.TopicProgress
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /topics/{id}/progress [get]
func (pc *ProgressController) GetTopicProgress(c *fiber.Ctx) error {
	progress, err := pc.Topics.GetTopicProgress(c.UserContext(), middleware.CurrentUserID(c), c.Params("id"))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.OK(c, progress)
}

// GetAccuracy godoc
// @Summary Get answer accuracy for a topic
// @Description Computed over every recorded attempt
// @Tags progress
// @Produce json
// @Param id path string true "Topic ID"
// @Success 200 {object} models.Accuracy
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /topics/{id}/accuracy [get]
func (pc *ProgressController) GetAccuracy(c *fiber.Ctx) error {
	acc, err := pc.Questions.GetAccuracy(c.UserContext(), middleware.CurrentUserID(c), c.Params("id"))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.OK(c, acc)
}

// GetLessonProgress godoc
// @Summary Get my progress on a lesson
// @Tags progress
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} models.LessonProgress
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons/{id}/progress [get]
func (pc *ProgressController) GetLessonProgress(c *fiber.Ctx) error {
	progress, err := pc.Lessons.GetLessonProgress(c.UserContext(), c.Params("id"), middleware.CurrentUserID(c))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.OK(c, progress)
}

// UpdateLessonProgress godoc
// @Summary Update my progress on a lesson
// @Description Status only moves forward; timeSpentMinutes is added to the total
// @Tags progress
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Param progress body validators.LessonProgressRequest true "New status"
// @Success 200 {object} models.LessonProgress
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons/{id}/progress [put]
func (pc *ProgressController) UpdateLessonProgress(c *fiber.Ctx) error {
	req := validators.Validated[validators.LessonProgressRequest](c)

	progress, err := pc.Lessons.UpdateLessonProgress(c.UserContext(), c.Params("id"), middleware.CurrentUserID(c),
		models.LessonStatus(req.Status), req.TimeSpentMinutes)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.OK(c, progress)
}
