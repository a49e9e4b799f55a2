package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizlearn/backend/apperr"
)

func TestChatHistory(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := e.register(t, "chat@example.com")
	other := e.register(t, "other@example.com")
	topic := e.topic(t, user.ID, "Chat")
	lesson := e.lesson(t, user.ID, topic.ID, "Lesson")

	_, err := e.chat.AddMessage(ctx, user.ID, topic.ID, lesson.ID, true, "   ")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	texts := []string{"What is a closure?", "A function with captured state.", "Thanks"}
	for i, text := range texts {
		_, err := e.chat.AddMessage(ctx, user.ID, topic.ID, lesson.ID, i%2 == 0, text)
		require.NoError(t, err)
	}
	_, err = e.chat.AddMessage(ctx, other.ID, topic.ID, lesson.ID, true, "not mine")
	require.NoError(t, err)

	history, err := e.chat.GetLessonChatHistory(ctx, user.ID, lesson.ID)
	require.NoError(t, err)
	require.Len(t, history, len(texts))
	for i, msg := range history {
		assert.Equal(t, texts[i], msg.MessageText)
		assert.Equal(t, i%2 == 0, msg.IsUserMessage)
	}

	empty, err := e.chat.GetLessonChatHistory(ctx, user.ID, "unknown-lesson")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
