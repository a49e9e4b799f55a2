package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"quizlearn/backend/apperr"
	"quizlearn/backend/database"
	"quizlearn/backend/models"
	"quizlearn/backend/repos"
	"quizlearn/backend/utils"
)

const createLessonAttempts = 3

type NewLessonInput struct {
	TopicID        string
	Title          string
	Content        string
	ParentLessonID *string
	OrderIndex     *int
}

// LessonPatch holds optional lesson fields. An empty ParentLessonID moves
// the lesson to the top level.
type LessonPatch struct {
	Title          *string
	Content        *string
	OrderIndex     *int
	ParentLessonID *string
}

type LessonService struct {
	client   *database.Client
	lessons  *repos.LessonRepo
	topics   *repos.TopicRepo
	progress *repos.LessonProgressRepo
	log      *utils.Logger
}

func NewLessonService(client *database.Client, lessons *repos.LessonRepo, topics *repos.TopicRepo, progress *repos.LessonProgressRepo, log *utils.Logger) *LessonService {
	return &LessonService{
		client:   client,
		lessons:  lessons,
		topics:   topics,
		progress: progress,
		log:      log.With("service", "LessonService"),
	}
}

func (s *LessonService) CreateLesson(ctx context.Context, userID string, in NewLessonInput) (*models.Lesson, error) {
	title := strings.TrimSpace(in.Title)
	fields := map[string]string{}
	if in.TopicID == "" {
		fields["topicId"] = "topic is required"
	}
	if title == "" {
		fields["title"] = "title is required"
	}
	if in.OrderIndex != nil && *in.OrderIndex < 0 {
		fields["orderIndex"] = "order index must not be negative"
	}
	if len(fields) > 0 {
		return nil, apperr.ValidationFields(fields)
	}

	parentID := normalizeParent(in.ParentLessonID)
	lesson := &models.Lesson{
		TopicID:        in.TopicID,
		ParentLessonID: parentID,
		Title:          title,
		Content:        in.Content,
		UserID:         userID,
	}

	create := func(tx *gorm.DB) error {
		if err := s.checkTopic(ctx, tx, userID, in.TopicID); err != nil {
			return err
		}
		if err := s.checkParent(ctx, tx, in.TopicID, parentID, ""); err != nil {
			return err
		}
		index, err := s.resolveIndex(ctx, tx, in.TopicID, parentID, in.OrderIndex, "")
		if err != nil {
			return err
		}
		lesson.OrderIndex = index
		return s.lessons.Create(ctx, tx, lesson)
	}

	// A concurrent insert can take the computed next index between the read
	// and the insert; the unique index rejects it and we recompute.
	var err error
	for attempt := 1; ; attempt++ {
		err = s.client.Batch(ctx, create)
		if err == nil || in.OrderIndex != nil || attempt == createLessonAttempts || !apperr.Is(err, apperr.KindConflict) {
			break
		}
		s.log.Warn("Lesson order index taken, retrying", "topic_id", in.TopicID, "attempt", attempt)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("Lesson created", "lesson_id", lesson.ID, "topic_id", lesson.TopicID)
	return lesson, nil
}

func (s *LessonService) GetTopicLessons(ctx context.Context, userID, topicID string) ([]*models.Lesson, error) {
	if err := s.checkTopic(ctx, nil, userID, topicID); err != nil {
		return nil, err
	}
	return s.lessons.ListByTopic(ctx, nil, topicID)
}

// GetLesson answers NotFound unless the caller owns the lesson's topic.
func (s *LessonService) GetLesson(ctx context.Context, userID, id string) (*models.Lesson, error) {
	return s.visible(ctx, nil, userID, id)
}

func (s *LessonService) UpdateLesson(ctx context.Context, userID, id string, patch LessonPatch) (*models.Lesson, error) {
	var updated *models.Lesson
	err := s.client.Batch(ctx, func(tx *gorm.DB) error {
		lesson, err := s.visible(ctx, tx, userID, id)
		if err != nil {
			return err
		}

		columns := map[string]interface{}{}
		if patch.Title != nil {
			title := strings.TrimSpace(*patch.Title)
			if title == "" {
				return apperr.ValidationFields(map[string]string{"title": "title must not be empty"})
			}
			columns["title"] = title
		}
		if patch.Content != nil {
			columns["content"] = *patch.Content
		}

		parentID := lesson.ParentLessonID
		parentChanged := false
		if patch.ParentLessonID != nil {
			parentID = normalizeParent(patch.ParentLessonID)
			parentChanged = !sameParent(parentID, lesson.ParentLessonID)
			if parentChanged {
				if err := s.checkParent(ctx, tx, lesson.TopicID, parentID, lesson.ID); err != nil {
					return err
				}
				columns["parent_lesson_id"] = parentID
			}
		}

		switch {
		case patch.OrderIndex != nil:
			if *patch.OrderIndex < 0 {
				return apperr.ValidationFields(map[string]string{"orderIndex": "order index must not be negative"})
			}
			index, err := s.resolveIndex(ctx, tx, lesson.TopicID, parentID, patch.OrderIndex, lesson.ID)
			if err != nil {
				return err
			}
			columns["order_index"] = index
		case parentChanged:
			// Moving to another group keeps the index unless it is taken there.
			keep := lesson.OrderIndex
			taken, err := s.lessons.OrderIndexTaken(ctx, tx, lesson.TopicID, parentID, keep, lesson.ID)
			if err != nil {
				return err
			}
			if taken {
				next, err := s.lessons.NextOrderIndex(ctx, tx, lesson.TopicID, parentID)
				if err != nil {
					return err
				}
				columns["order_index"] = next
			}
		}

		if len(columns) > 0 {
			if err := s.lessons.Update(ctx, tx, lesson.ID, columns); err != nil {
				return err
			}
		}
		updated, err = s.lessons.GetByID(ctx, tx, lesson.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *LessonService) GetLessonProgress(ctx context.Context, lessonID, userID string) (*models.LessonProgress, error) {
	if _, err := s.visible(ctx, nil, userID, lessonID); err != nil {
		return nil, err
	}
	row, err := s.progress.Get(ctx, nil, userID, lessonID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("lesson progress")
		}
		return nil, err
	}
	return row, nil
}

// UpdateLessonProgress moves a lesson forward and adds timeSpent minutes.
func (s *LessonService) UpdateLessonProgress(ctx context.Context, lessonID, userID string, status models.LessonStatus, timeSpent *int) (*models.LessonProgress, error) {
	if !status.Valid() {
		return nil, apperr.ValidationFields(map[string]string{"status": "status must be not_started, in_progress or completed"})
	}
	if timeSpent != nil && *timeSpent < 0 {
		return nil, apperr.ValidationFields(map[string]string{"timeSpentMinutes": "time spent must not be negative"})
	}

	var result *models.LessonProgress
	err := s.client.Batch(ctx, func(tx *gorm.DB) error {
		if _, err := s.visible(ctx, tx, userID, lessonID); err != nil {
			return err
		}

		now := time.Now().UTC()
		row, err := s.progress.Get(ctx, tx, userID, lessonID)
		switch {
		case apperr.Is(err, apperr.KindNotFound):
			row = &models.LessonProgress{
				UserID:            userID,
				LessonID:          lessonID,
				Status:            status,
				LastInteractionAt: now,
			}
			if timeSpent != nil {
				row.TimeSpentMinutes = *timeSpent
			}
			result = row
			return s.progress.Create(ctx, tx, row)
		case err != nil:
			return err
		}

		if !row.Status.CanTransition(status) {
			return apperr.Validation("cannot move lesson from " + string(row.Status) + " to " + string(status))
		}
		row.Status = status
		row.LastInteractionAt = now
		if timeSpent != nil {
			row.TimeSpentMinutes += *timeSpent
		}
		result = row
		return s.progress.Save(ctx, tx, row)
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("Lesson progress updated", "lesson_id", lessonID, "user_id", userID, "status", status)
	return result, nil
}

func (s *LessonService) visible(ctx context.Context, tx *gorm.DB, userID, id string) (*models.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, tx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("lesson")
		}
		return nil, err
	}
	if _, err := s.topics.GetOwned(ctx, tx, lesson.TopicID, userID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("lesson")
		}
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) checkTopic(ctx context.Context, tx *gorm.DB, userID, topicID string) error {
	if _, err := s.topics.GetOwned(ctx, tx, topicID, userID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return apperr.NotFound("topic")
		}
		return err
	}
	return nil
}

// checkParent allows one level of nesting inside the same topic.
func (s *LessonService) checkParent(ctx context.Context, tx *gorm.DB, topicID string, parentID *string, selfID string) error {
	if parentID == nil {
		return nil
	}
	invalid := apperr.ValidationFields(map[string]string{"parentLessonId": "parent must be a top-level lesson of the same topic"})
	if *parentID == selfID {
		return invalid
	}
	parent, err := s.lessons.GetByID(ctx, tx, *parentID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return invalid
		}
		return err
	}
	if parent.TopicID != topicID || parent.ParentLessonID != nil {
		return invalid
	}
	if selfID != "" {
		children, err := s.lessons.CountChildren(ctx, tx, selfID)
		if err != nil {
			return err
		}
		if children > 0 {
			return apperr.ValidationFields(map[string]string{"parentLessonId": "a lesson with sub-lessons cannot be nested"})
		}
	}
	return nil
}

// resolveIndex defaults to the next free slot and rejects an occupied one.
func (s *LessonService) resolveIndex(ctx context.Context, tx *gorm.DB, topicID string, parentID *string, requested *int, selfID string) (int, error) {
	if requested == nil {
		return s.lessons.NextOrderIndex(ctx, tx, topicID, parentID)
	}
	taken, err := s.lessons.OrderIndexTaken(ctx, tx, topicID, parentID, *requested, selfID)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, apperr.Conflict("order index already used by another lesson")
	}
	return *requested, nil
}

func normalizeParent(id *string) *string {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil
	}
	v := strings.TrimSpace(*id)
	return &v
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
