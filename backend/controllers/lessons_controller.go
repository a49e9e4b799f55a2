package controllers

import (
	"github.com/gofiber/fiber/v2"

	"quizlearn/backend/middleware"
	"quizlearn/backend/services"
	"quizlearn/backend/utils"
	"quizlearn/backend/validators"
)

type LessonsController struct {
	Lessons *services.LessonService
}

func NewLessonsController(lessons *services.LessonService) *LessonsController {
	return &LessonsController{Lessons: lessons}
}

// CreateLesson godoc
// @Summary Create a lesson
// @Description orderIndex defaults to the end of the sibling group
// @Tags lessons
// @Accept json
// @Produce json
// @Param lesson body validators.CreateLessonRequest true "Lesson data"
// @Success 201 {object} models.Lesson
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons [post]
func (lc *LessonsController) CreateLesson(c *fiber.Ctx) error {
	req := validators.Validated[validators.CreateLessonRequest](c)

	lesson, err := lc.Lessons.CreateLesson(c.UserContext(), middleware.CurrentUserID(c), services.NewLessonInput{
		TopicID:        req.TopicID,
		Title:          req.Title,
		Content:        req.Content,
		ParentLessonID: req.ParentLessonID,
		OrderIndex:     req.OrderIndex,
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Created(c, lesson)
}

// GetLesson godoc
// @Summary Get a lesson
// @Tags lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} models.Lesson
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons/{id} [get]
func (lc *LessonsController) GetLesson(c *fiber.Ctx) error {
	lesson, err := lc.Lessons.GetLesson(c.UserContext(), middleware.CurrentUserID(c), c.Params("id"))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.OK(c, lesson)
}

// UpdateLesson godoc
// @Summary Update a lesson
// @Description An empty parentLessonId moves the lesson to the top level
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Param lesson body validators.UpdateLessonRequest true "Fields to change"
// @Success 200 {object} models.Lesson
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /lessons/{id} [put]
func (lc *LessonsController) UpdateLesson(c *fiber.Ctx) error {
	req := validators.Validated[validators.UpdateLessonRequest](c)

	lesson, err := lc.Lessons.UpdateLesson(c.UserContext(), middleware.CurrentUserID(c), c.Params("id"), services.LessonPatch{
		Title:          req.Title,
		Content:        req.Content,
		OrderIndex:     req.OrderIndex,
		ParentLessonID: req.ParentLessonID,
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.OK(c, lesson)
}
