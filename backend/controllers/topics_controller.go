package controllers

import (
	"github.com/gofiber/fiber/v2"

	"quizlearn/backend/middleware"
	"quizlearn/backend/services"
	"quizlearn/backend/utils"
	"quizlearn/backend/validators"
)

type TopicsController struct {
	Topics  *services.TopicService
	Lessons *services.LessonService
}

func NewTopicsController(topics *services.TopicService, lessons *services.LessonService) *TopicsController {
	return &TopicsController{Topics: topics, Lessons: lessons}
}

// GetUserTopics godoc
// @Summary List my topics
// @Description Returns the caller's topics, newest first, with derived progress
// @Tags topics
// @Produce json
// @Success 200 {array} models.Topic
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /topics [get]
func (tc *TopicsController) GetUserTopics(c *fiber.Ctx) error {
	topics, err := tc.Topics.GetUserTopics(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.OK(c, topics)
}

// CreateTopic godoc
// @Summary Create a topic
// @Description Creates a topic with its learning goal and the starter questions
// @Tags topics
// @Accept json
// @Produce json
// @Param topic body validators.CreateTopicRequest true "Topic data"
// @Success 201 {object} models.Topic
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /topics [post]
func (tc *TopicsController) CreateTopic(c *fiber.Ctx) error {
	req := validators.Validated[validators.CreateTopicRequest](c)

	topic, err := tc.Topics.CreateTopic(c.UserContext(), middleware.CurrentUserID(c),
		req.Title, req.Description, req.Difficulty, req.LessonPlan)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Created(c, topic)
}

// GetTopic godoc
// @Summary Get a topic
// @Tags topics
// @Produce json
// @Param id path string true "Topic ID"
// @Success 200 {object} models.Topic
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /topics/{id} [get]
func (tc *TopicsController) GetTopic(c *fiber.Ctx) error {
	topic, err := tc.Topics.GetTopic(c.UserContext(), middleware.CurrentUserID(c), c.Params("id"))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.OK(c, topic)
}

// UpdateTopic godoc
// @Summary Update a topic
// @Description Only the fields present in the body change
// @Tags topics
// @Accept json
// @Produce json
// @Param id path string true "Topic ID"
// @Param topic body validators.UpdateTopicRequest true "Fields to change"
// @Success 200 {object} models.Topic
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /topics/{id} [patch]
func (tc *TopicsController) UpdateTopic(c *fiber.Ctx) error {
	req := validators.Validated[validators.UpdateTopicRequest](c)

	topic, err := tc.Topics.UpdateTopic(c.UserContext(), c.Params("id"), middleware.CurrentUserID(c), services.TopicPatch{
		Title:       req.Title,
		Description: req.Description,
		Difficulty:  req.Difficulty,
		LessonPlan:  req.LessonPlan,
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.OK(c, topic)
}

// GetGoal godoc
// @Summary Get my learning goal for a topic
// @Tags topics
// @Produce json
// @Param id path string true "Topic ID"
// @Success 200 {object} models.UserTopic
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /topics/{id}/goal [get]
func (tc *TopicsController) GetGoal(c *fiber.Ctx) error {
	goal, err := tc.Topics.GetUserTopic(c.UserContext(), middleware.CurrentUserID(c), c.Params("id"))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.OK(c, goal)
}

// UpdateGoal godoc
// @Summary Update my learning goal
// @Tags topics
// @Accept json
// @Produce json
// @Param id path string true "Topic ID"
// @Param goal body validators.GoalRequest true "Goal fields"
// @Success 200 {object} models.UserTopic
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /topics/{id}/goal [put]
func (tc *TopicsController) UpdateGoal(c *fiber.Ctx) error {
	req := validators.Validated[validators.GoalRequest](c)

	goal, err := tc.Topics.UpdateUserTopic(c.UserContext(), middleware.CurrentUserID(c), c.Params("id"), services.GoalPatch{
		GoalText:        req.GoalText,
		CurrentLessonID: req.CurrentLessonID,
		TargetDate:      req.TargetDate,
		ClearTargetDate: req.ClearTargetDate,
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.OK(c, goal)
}

// GetTopicLessons godoc
// @Summary List a topic's lessons
// @Tags lessons
// @Produce json
// @Param id path string true "Topic ID"
// @Success 200 {array} models.Lesson
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /topics/{id}/lessons [get]
func (tc *TopicsController) GetTopicLessons(c *fiber.Ctx) error {
	lessons, err := tc.Lessons.GetTopicLessons(c.UserContext(), middleware.CurrentUserID(c), c.Params("id"))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.OK(c, lessons)
}
