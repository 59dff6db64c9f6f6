package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriChat/internal/models"
)

func TestNewSessionStateSeedsGreeting(t *testing.T) {
	s := NewSessionState("hi", "oops", models.Gemini)
	snap := s.Snapshot()

	require.Len(t, snap.Messages, 1)
	assert.Equal(t, models.Message{ID: 1, Text: "hi", Sender: models.Assistant}, snap.Messages[0])
	assert.Equal(t, models.Uninitialized, snap.Status)
	assert.False(t, snap.HasSession)
}

func TestAppendMessageRules(t *testing.T) {
	s := NewSessionState("hi", "oops", models.Gemini)

	_, err := s.AppendMessage(models.User, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	msg, err := s.AppendMessage(models.Assistant, "")
	require.NoError(t, err)
	assert.Equal(t, "oops", msg.Text)

	msg, err = s.AppendMessage(models.User, "question")
	require.NoError(t, err)
	assert.Equal(t, 3, msg.ID)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewSessionState("hi", "oops", models.Gemini)
	snap := s.Snapshot()
	snap.Messages[0].Text = "mutated"

	assert.Equal(t, "hi", s.Snapshot().Messages[0].Text)
}

func TestBeginCompletionPreconditions(t *testing.T) {
	s := NewSessionState("hi", "oops", models.Gemini)

	_, err := s.BeginCompletion("")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.BeginCompletion("hello")
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.Len(t, s.Snapshot().Messages, 1)
}

func TestSelectModelRejectsUnknown(t *testing.T) {
	s := NewSessionState("hi", "oops", models.Gemini)
	s.SetModelSelectOpen(true)

	_, err := s.SelectModel("claude")
	assert.ErrorIs(t, err, ErrUnknownModel)
	assert.True(t, s.Snapshot().ModelSelectOpen)
}
