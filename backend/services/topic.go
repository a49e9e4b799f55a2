package services

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"quizlearn/backend/apperr"
	"quizlearn/backend/database"
	"quizlearn/backend/models"
	"quizlearn/backend/repos"
	"quizlearn/backend/utils"
)

// TopicPatch holds the optional fields of a topic update. Nil means unchanged.
type TopicPatch struct {
	Title       *string
	Description *string
	Difficulty  *string
	LessonPlan  *models.LessonPlan
}

func (p TopicPatch) empty() bool {
	return p.Title == nil && p.Description == nil && p.Difficulty == nil && p.LessonPlan == nil
}

// GoalPatch holds the optional fields of a learning goal update.
type GoalPatch struct {
	GoalText        *string
	CurrentLessonID *string
	TargetDate      *time.Time
	ClearTargetDate bool
}

type TopicService struct {
	client     *database.Client
	topics     *repos.TopicRepo
	userTopics *repos.UserTopicRepo
	questions  *repos.QuestionRepo
	lessons    *repos.LessonRepo
	progress   *repos.LessonProgressRepo
	log        *utils.Logger
	starters   []StarterQuestion
}

func NewTopicService(
	client *database.Client,
	topics *repos.TopicRepo,
	userTopics *repos.UserTopicRepo,
	questions *repos.QuestionRepo,
	lessons *repos.LessonRepo,
	progress *repos.LessonProgressRepo,
	log *utils.Logger,
) *TopicService {
	return &TopicService{
		client:     client,
		topics:     topics,
		userTopics: userTopics,
		questions:  questions,
		lessons:    lessons,
		progress:   progress,
		log:        log.With("service", "TopicService"),
		starters:   StarterQuestions(),
	}
}

// WithStarterQuestions replaces the set seeded into every new topic.
func (s *TopicService) WithStarterQuestions(starters []StarterQuestion) *TopicService {
	s.starters = starters
	return s
}

// CreateTopic inserts the topic, the owner's goal row and the starter
// questions in one transaction.
func (s *TopicService) CreateTopic(ctx context.Context, userID, title, description, difficulty string, plan *models.LessonPlan) (*models.Topic, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.ValidationFields(map[string]string{"title": "title is required"})
	}
	if difficulty == "" {
		difficulty = models.DifficultyBeginner
	}
	if !models.ValidDifficulty(difficulty) {
		return nil, apperr.ValidationFields(map[string]string{"difficulty": "difficulty must be beginner, intermediate or advanced"})
	}
	lessonPlan := models.DefaultLessonPlan()
	if plan != nil {
		if err := plan.Validate(); err != nil {
			return nil, apperr.ValidationFields(map[string]string{"lessonPlan": err.Error()})
		}
		lessonPlan = *plan
	}

	topic := &models.Topic{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Difficulty:  difficulty,
		LessonPlan:  datatypes.NewJSONType(lessonPlan),
	}

	err := s.client.Batch(ctx, func(tx *gorm.DB) error {
		if err := s.topics.Create(ctx, tx, topic); err != nil {
			return err
		}

		now := time.Now().UTC()
		goal := &models.UserTopic{
			UserID:       userID,
			TopicID:      topic.ID,
			GoalText:     "Learn " + title,
			StartedAt:    now,
			LastAccessed: now,
		}
		if err := s.userTopics.Create(ctx, tx, goal); err != nil {
			return err
		}

		seeded := make([]*models.Question, 0, len(s.starters))
		for _, sq := range s.starters {
			q, err := NewQuestion(topic.ID, sq.Text, sq.Options, sq.CorrectAnswer, sq.Explanation)
			if err != nil {
				return err
			}
			seeded = append(seeded, q)
		}
		return s.questions.Create(ctx, tx, seeded...)
	})
	if err != nil {
		s.log.Warn("Create topic rolled back", "user_id", userID, "error", err)
		return nil, err
	}

	s.log.Info("Topic created", "topic_id", topic.ID, "user_id", userID)
	return topic, nil
}

// GetAllTopics lists every topic, each with its owner's progress.
func (s *TopicService) GetAllTopics(ctx context.Context) ([]*models.Topic, error) {
	topics, err := s.topics.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	return topics, s.attachProgress(ctx, topics)
}

func (s *TopicService) GetUserTopics(ctx context.Context, userID string) ([]*models.Topic, error) {
	topics, err := s.topics.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	return topics, s.attachProgress(ctx, topics)
}

func (s *TopicService) GetTopic(ctx context.Context, userID, id string) (*models.Topic, error) {
	topic, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	progress, err := s.GetTopicProgress(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	topic.Progress = progress.Progress
	return topic, nil
}

// UpdateTopic applies patch to an owned topic. An empty patch is a read.
func (s *TopicService) UpdateTopic(ctx context.Context, id, userID string, patch TopicPatch) (*models.Topic, error) {
	if patch.empty() {
		return s.GetTopic(ctx, userID, id)
	}

	columns := map[string]interface{}{}
	fields := map[string]string{}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			fields["title"] = "title must not be empty"
		}
		columns["title"] = title
	}
	if patch.Description != nil {
		columns["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.Difficulty != nil {
		if !models.ValidDifficulty(*patch.Difficulty) {
			fields["difficulty"] = "difficulty must be beginner, intermediate or advanced"
		}
		columns["difficulty"] = *patch.Difficulty
	}
	if patch.LessonPlan != nil {
		if err := patch.LessonPlan.Validate(); err != nil {
			fields["lessonPlan"] = err.Error()
		}
		columns["lesson_plan"] = datatypes.NewJSONType(*patch.LessonPlan)
	}
	if len(fields) > 0 {
		return nil, apperr.ValidationFields(fields)
	}

	if err := s.topics.Update(ctx, nil, id, userID, columns); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("topic")
		}
		return nil, err
	}
	s.log.Info("Topic updated", "topic_id", id, "user_id", userID)
	return s.GetTopic(ctx, userID, id)
}

// GetTopicProgress counts lessons without a progress row as not started.
func (s *TopicService) GetTopicProgress(ctx context.Context, userID, topicID string) (*models.TopicProgress, error) {
	if _, err := s.owned(ctx, userID, topicID); err != nil {
		return nil, err
	}
	rows, err := s.progress.LessonStatuses(ctx, nil, userID, topicID)
	if err != nil {
		return nil, err
	}
	return aggregate(topicID, rows), nil
}

func (s *TopicService) GetUserTopic(ctx context.Context, userID, topicID string) (*models.UserTopic, error) {
	if _, err := s.owned(ctx, userID, topicID); err != nil {
		return nil, err
	}
	goal, err := s.userTopics.Get(ctx, nil, userID, topicID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("topic")
		}
		return nil, err
	}
	return goal, nil
}

// UpdateUserTopic edits the learning goal and always touches last_accessed.
func (s *TopicService) UpdateUserTopic(ctx context.Context, userID, topicID string, patch GoalPatch) (*models.UserTopic, error) {
	if _, err := s.owned(ctx, userID, topicID); err != nil {
		return nil, err
	}

	columns := map[string]interface{}{"last_accessed": time.Now().UTC()}
	if patch.GoalText != nil {
		goal := strings.TrimSpace(*patch.GoalText)
		if goal == "" {
			return nil, apperr.ValidationFields(map[string]string{"goalText": "goal must not be empty"})
		}
		columns["goal_text"] = goal
	}
	if patch.CurrentLessonID != nil {
		if *patch.CurrentLessonID == "" {
			columns["current_lesson_id"] = nil
		} else {
			lesson, err := s.lessons.GetByID(ctx, nil, *patch.CurrentLessonID)
			if err != nil && !apperr.Is(err, apperr.KindNotFound) {
				return nil, err
			}
			if err != nil || lesson.TopicID != topicID {
				return nil, apperr.ValidationFields(map[string]string{"currentLessonId": "lesson does not belong to this topic"})
			}
			columns["current_lesson_id"] = lesson.ID
		}
	}
	switch {
	case patch.ClearTargetDate:
		columns["target_date"] = nil
	case patch.TargetDate != nil:
		columns["target_date"] = patch.TargetDate.UTC()
	}

	if err := s.userTopics.Update(ctx, nil, userID, topicID, columns); err != nil {
		return nil, err
	}
	return s.userTopics.Get(ctx, nil, userID, topicID)
}

func (s *TopicService) owned(ctx context.Context, userID, id string) (*models.Topic, error) {
	topic, err := s.topics.GetOwned(ctx, nil, id, userID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("topic")
		}
		return nil, err
	}
	return topic, nil
}

func (s *TopicService) attachProgress(ctx context.Context, topics []*models.Topic) error {
	ids := lo.Map(topics, func(t *models.Topic, _ int) string { return t.ID })
	rows, err := s.progress.OwnerLessonStatuses(ctx, nil, ids)
	if err != nil {
		return err
	}
	byTopic := lo.GroupBy(rows, func(r repos.LessonStatusRow) string { return r.TopicID })
	for _, t := range topics {
		t.Progress = aggregate(t.ID, byTopic[t.ID]).Progress
	}
	return nil
}

func aggregate(topicID string, rows []repos.LessonStatusRow) *models.TopicProgress {
	p := &models.TopicProgress{TopicID: topicID, TotalLessons: len(rows)}
	for _, r := range rows {
		status := models.LessonNotStarted
		if r.Status != nil {
			status = models.LessonStatus(*r.Status)
		}
		switch status {
		case models.LessonCompleted:
			p.CompletedLessons++
		case models.LessonInProgress:
			p.InProgressLessons++
		default:
			p.NotStartedLessons++
		}
		if r.TimeSpentMinutes != nil {
			p.TimeSpentMinutes += *r.TimeSpentMinutes
		}
	}
	p.Progress = models.Percent(p.CompletedLessons, p.TotalLessons)
	return p
}
