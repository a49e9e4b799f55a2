package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"gorm.io/datatypes"

	"quizlearn/backend/apperr"
	"quizlearn/backend/models"
	"quizlearn/backend/repos"
	"quizlearn/backend/utils"
)

// StarterQuestion is one entry of the onboarding set seeded into new topics.
type StarterQuestion struct {
	Text          string
	Options       []string
	CorrectAnswer int
	Explanation   string
}

// StarterQuestions returns the fixed five-question onboarding set.
func StarterQuestions() []StarterQuestion {
	return []StarterQuestion{
		{
			Text: "What is the purpose of a function in programming?",
			Options: []string{
				"To make the code look prettier",
				"To organize and reuse code",
				"To make the program run slower",
				"To use more memory",
			},
			CorrectAnswer: 1,
			Explanation:   "Functions are blocks of reusable code that help organize your program and avoid repetition.",
		},
		{
			Text: "Which of these is a valid function declaration?",
			Options: []string{
				"function = myFunction() { }",
				"def myFunction() { }",
				"function myFunction() { }",
				"func myFunction() { }",
			},
			CorrectAnswer: 2,
			Explanation:   "In JavaScript, we declare functions using the 'function' keyword followed by the function name and parentheses.",
		},
		{
			Text: "What is a return value?",
			Options: []string{
				"A value that is printed to the console",
				"A value that is sent back from a function",
				"A value that is stored in a variable",
				"A value that is deleted",
			},
			CorrectAnswer: 1,
			Explanation:   "A return value is the value that a function sends back to the code that called it.",
		},
		{
			Text: "What are parameters in a function?",
			Options: []string{
				"Special variables that store the function's name",
				"Values that the function sends back",
				"Variables that hold input values for the function",
				"Special keywords in programming",
			},
			CorrectAnswer: 2,
			Explanation:   "Parameters are variables listed in the function definition that allow you to pass values into the function.",
		},
		{
			Text: "What happens if a function doesn't have a return statement?",
			Options: []string{
				"It returns null",
				"It returns undefined",
				"It returns 0",
				"It causes an error",
			},
			CorrectAnswer: 1,
			Explanation:   "If a function doesn't explicitly return a value using the return statement, it automatically returns undefined.",
		},
	}
}

// NewQuestion validates the fields and builds a question for topicID.
func NewQuestion(topicID, text string, options []string, correctAnswer int, explanation string) (*models.Question, error) {
	text = strings.TrimSpace(text)
	fields := map[string]string{}
	if text == "" {
		fields["text"] = "question text is required"
	}
	switch {
	case len(options) < models.MinQuestionOptions:
		fields["options"] = fmt.Sprintf("at least %d options are required", models.MinQuestionOptions)
	case len(options) > models.MaxQuestionOptions:
		fields["options"] = fmt.Sprintf("at most %d options are allowed", models.MaxQuestionOptions)
	case lo.ContainsBy(options, func(o string) bool { return strings.TrimSpace(o) == "" }):
		fields["options"] = "options must not be empty"
	}
	if correctAnswer < 0 || correctAnswer >= len(options) {
		fields["correctAnswer"] = "correct answer must index one of the options"
	}
	if len(fields) > 0 {
		return nil, apperr.ValidationFields(fields)
	}

	return &models.Question{
		TopicID:       topicID,
		Text:          text,
		Options:       datatypes.NewJSONSlice(options),
		CorrectAnswer: correctAnswer,
		Explanation:   strings.TrimSpace(explanation),
	}, nil
}

type QuestionService struct {
	questions *repos.QuestionRepo
	answers   *repos.AnswerRepo
	topics    *repos.TopicRepo
	log       *utils.Logger
}

func NewQuestionService(questions *repos.QuestionRepo, answers *repos.AnswerRepo, topics *repos.TopicRepo, log *utils.Logger) *QuestionService {
	return &QuestionService{
		questions: questions,
		answers:   answers,
		topics:    topics,
		log:       log.With("service", "QuestionService"),
	}
}

func (s *QuestionService) CreateQuestion(ctx context.Context, topicID, text string, options []string, correctAnswer int, explanation string) (*models.Question, error) {
	q, err := NewQuestion(topicID, text, options, correctAnswer, explanation)
	if err != nil {
		return nil, err
	}
	if err := s.questions.Create(ctx, nil, q); err != nil {
		return nil, err
	}
	return q, nil
}

// CreateOwnedQuestion checks that userID owns the topic first.
func (s *QuestionService) CreateOwnedQuestion(ctx context.Context, userID, topicID, text string, options []string, correctAnswer int, explanation string) (*models.Question, error) {
	if err := s.checkOwner(ctx, userID, topicID); err != nil {
		return nil, err
	}
	return s.CreateQuestion(ctx, topicID, text, options, correctAnswer, explanation)
}

func (s *QuestionService) GetTopicQuestions(ctx context.Context, userID, topicID string) ([]*models.Question, error) {
	if err := s.checkOwner(ctx, userID, topicID); err != nil {
		return nil, err
	}
	return s.questions.ListByTopic(ctx, nil, topicID)
}

// RecordAnswer appends an attempt; previous attempts are kept for accuracy.
func (s *QuestionService) RecordAnswer(ctx context.Context, userID, topicID, questionID string, isCorrect bool) (*models.AnswerRecord, error) {
	if err := s.checkOwner(ctx, userID, topicID); err != nil {
		return nil, err
	}
	q, err := s.questions.GetByID(ctx, nil, questionID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("question")
		}
		return nil, err
	}
	if q.TopicID != topicID {
		return nil, apperr.NotFound("question")
	}

	rec := &models.AnswerRecord{
		UserID:     userID,
		TopicID:    topicID,
		QuestionID: questionID,
		IsCorrect:  isCorrect,
	}
	if err := s.answers.Create(ctx, nil, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// AnswerWithOption grades selected against the stored correct answer.
func (s *QuestionService) AnswerWithOption(ctx context.Context, userID, topicID, questionID string, selected int) (*models.AnswerRecord, error) {
	if err := s.checkOwner(ctx, userID, topicID); err != nil {
		return nil, err
	}
	q, err := s.questions.GetByID(ctx, nil, questionID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("question")
		}
		return nil, err
	}
	if q.TopicID != topicID {
		return nil, apperr.NotFound("question")
	}
	if selected < 0 || selected >= len(q.Options) {
		return nil, apperr.ValidationFields(map[string]string{"selectedAnswer": "selected answer must index one of the options"})
	}
	return s.RecordAnswer(ctx, userID, topicID, questionID, selected == q.CorrectAnswer)
}

// GetAccuracy is computed over every attempt, not just the latest.
func (s *QuestionService) GetAccuracy(ctx context.Context, userID, topicID string) (*models.Accuracy, error) {
	if err := s.checkOwner(ctx, userID, topicID); err != nil {
		return nil, err
	}
	records, err := s.answers.ListByUserTopic(ctx, nil, userID, topicID)
	if err != nil {
		return nil, err
	}

	acc := &models.Accuracy{
		TopicID:  topicID,
		Attempts: len(records),
		Correct:  lo.CountBy(records, func(r *models.AnswerRecord) bool { return r.IsCorrect }),
		QuestionsAnswered: len(lo.UniqBy(records, func(r *models.AnswerRecord) string {
			return r.QuestionID
		})),
	}
	if acc.Attempts > 0 {
		acc.Accuracy = float64(acc.Correct) / float64(acc.Attempts)
	}
	return acc, nil
}

func (s *QuestionService) checkOwner(ctx context.Context, userID, topicID string) error {
	if _, err := s.topics.GetOwned(ctx, nil, topicID, userID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return apperr.NotFound("topic")
		}
		return err
	}
	return nil
}
