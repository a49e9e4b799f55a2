package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizlearn/backend/apperr"
)

func TestCreateQuestionBounds(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := e.register(t, "quiz@example.com")
	topic := e.topic(t, user.ID, "Quiz")

	tests := []struct {
		name    string
		text    string
		options []string
		correct int
		field   string
	}{
		{name: "one option", text: "q", options: []string{"a"}, correct: 0, field: "options"},
		{name: "seven options", text: "q", options: []string{"a", "b", "c", "d", "e", "f", "g"}, correct: 0, field: "options"},
		{name: "blank option", text: "q", options: []string{"a", " "}, correct: 0, field: "options"},
		{name: "empty text", text: "  ", options: []string{"a", "b"}, correct: 0, field: "text"},
		{name: "negative index", text: "q", options: []string{"a", "b"}, correct: -1, field: "correctAnswer"},
		{name: "index past end", text: "q", options: []string{"a", "b"}, correct: 2, field: "correctAnswer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.questions.CreateQuestion(ctx, topic.ID, tt.text, tt.options, tt.correct, "")
			require.Error(t, err)
			appErr := apperr.As(err)
			assert.Equal(t, apperr.KindValidation, appErr.Kind)
			assert.Contains(t, appErr.Fields, tt.field)
		})
	}

	q, err := e.questions.CreateQuestion(ctx, topic.ID, "Last one?", []string{"a", "b", "c", "d", "e", "f"}, 5, "six is fine")
	require.NoError(t, err)
	assert.Equal(t, 5, q.CorrectAnswer)
	assert.Len(t, q.Options, 6)

	questions, err := e.questions.GetTopicQuestions(ctx, user.ID, topic.ID)
	require.NoError(t, err)
	require.Len(t, questions, len(StarterQuestions())+1)
	assert.Equal(t, q.ID, questions[len(questions)-1].ID, "oldest first")
}

func TestCreateOwnedQuestion(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner@example.com")
	other := e.register(t, "other@example.com")
	topic := e.topic(t, owner.ID, "Owned")

	_, err := e.questions.CreateOwnedQuestion(ctx, other.ID, topic.ID, "q", []string{"a", "b"}, 0, "")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = e.questions.GetTopicQuestions(ctx, other.ID, topic.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRecordAnswerAndAccuracy(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := e.register(t, "answers@example.com")
	topic := e.topic(t, user.ID, "Answers")
	other := e.topic(t, user.ID, "Elsewhere")

	questions, err := e.questions.GetTopicQuestions(ctx, user.ID, topic.ID)
	require.NoError(t, err)
	q1, q2 := questions[0], questions[1]

	_, err = e.questions.RecordAnswer(ctx, user.ID, topic.ID, q1.ID, false)
	require.NoError(t, err)
	_, err = e.questions.RecordAnswer(ctx, user.ID, topic.ID, q1.ID, true)
	require.NoError(t, err)
	rec, err := e.questions.AnswerWithOption(ctx, user.ID, topic.ID, q2.ID, q2.CorrectAnswer)
	require.NoError(t, err)
	assert.True(t, rec.IsCorrect)

	_, err = e.questions.AnswerWithOption(ctx, user.ID, topic.ID, q2.ID, len(q2.Options))
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = e.questions.RecordAnswer(ctx, user.ID, other.ID, q1.ID, true)
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "question of another topic")

	_, err = e.questions.RecordAnswer(ctx, user.ID, topic.ID, "missing", true)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	acc, err := e.questions.GetAccuracy(ctx, user.ID, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, acc.Attempts)
	assert.Equal(t, 2, acc.Correct)
	assert.Equal(t, 2, acc.QuestionsAnswered)
	assert.InDelta(t, 2.0/3.0, acc.Accuracy, 0.0001)

	none, err := e.questions.GetAccuracy(ctx, user.ID, other.ID)
	require.NoError(t, err)
	assert.Zero(t, none.Attempts)
	assert.Zero(t, none.Accuracy)
}

func TestAnswersHideForeignQuestions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.register(t, "keeper@example.com")
	stranger := e.register(t, "snoop@example.com")
	topic := e.topic(t, owner.ID, "Private")
	own := e.topic(t, stranger.ID, "Mine")

	questions, err := e.questions.GetTopicQuestions(ctx, owner.ID, topic.ID)
	require.NoError(t, err)
	question := questions[0]

	tests := []struct {
		name   string
		answer func(questionID string) error
	}{
		{name: "record in own topic", answer: func(id string) error {
			_, err := e.questions.RecordAnswer(ctx, stranger.ID, own.ID, id, true)
			return err
		}},
		{name: "option in own topic", answer: func(id string) error {
			_, err := e.questions.AnswerWithOption(ctx, stranger.ID, own.ID, id, 99)
			return err
		}},
		{name: "option in owner topic", answer: func(id string) error {
			_, err := e.questions.AnswerWithOption(ctx, stranger.ID, topic.ID, id, 99)
			return err
		}},
		{name: "record in owner topic", answer: func(id string) error {
			_, err := e.questions.RecordAnswer(ctx, stranger.ID, topic.ID, id, true)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := tt.answer(question.ID)
			missing := tt.answer("00000000-0000-0000-0000-000000000000")
			require.Error(t, existing)
			require.Error(t, missing)
			assert.Equal(t, apperr.KindNotFound, apperr.KindOf(existing))
			assert.Equal(t, apperr.KindOf(missing), apperr.KindOf(existing))
		})
	}

	acc, err := e.questions.GetAccuracy(ctx, owner.ID, topic.ID)
	require.NoError(t, err)
	assert.Zero(t, acc.Attempts)
}
