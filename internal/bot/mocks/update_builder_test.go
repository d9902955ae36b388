package mocks

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/require"
)

func TestUpdateBuilder_WithMessage(t *testing.T) {
	t.Parallel()

	update := NewUpdateBuilder().
		WithMessage(12345, 67890, "Hello").
		Build()

	require.NotNil(t, update.Message)
	require.Equal(t, int64(12345), update.Message.Chat.ID)
	require.Equal(t, int64(67890), update.Message.From.ID)
	require.Equal(t, "Hello", update.Message.Text)
	require.Equal(t, "testuser", update.Message.From.Username)
	require.Equal(t, models.ChatTypePrivate, update.Message.Chat.Type)
}

func TestUpdateBuilder_WithMessageID(t *testing.T) {
	t.Parallel()

	update := NewUpdateBuilder().
		WithMessage(1, 2, "text").
		WithMessageID(999).
		Build()

	require.Equal(t, 999, update.Message.ID)
}

func TestUpdateBuilder_WithFrom(t *testing.T) {
	t.Parallel()

	update := NewUpdateBuilder().
		WithMessage(1, 2, "text").
		WithFrom(100, "alice", "Alice", "Smith").
		Build()

	require.Equal(t, int64(100), update.Message.From.ID)
	require.Equal(t, "alice", update.Message.From.Username)
	require.Equal(t, "Alice", update.Message.From.FirstName)
	require.Equal(t, "Smith", update.Message.From.LastName)

	update = NewUpdateBuilder().WithMessage(1, 2, "text").WithoutFrom().Build()
	require.Nil(t, update.Message.From)
}

func TestUpdateBuilder_WithEditedMessage(t *testing.T) {
	t.Parallel()

	update := NewUpdateBuilder().
		WithEditedMessage(10, 20, "edited").
		Build()

	require.Nil(t, update.Message)
	require.NotNil(t, update.EditedMessage)
	require.Equal(t, int64(10), update.EditedMessage.Chat.ID)
	require.Equal(t, int64(20), update.EditedMessage.From.ID)
	require.Equal(t, "edited", update.EditedMessage.Text)
}

func TestMessageUpdate(t *testing.T) {
	t.Parallel()

	update := MessageUpdate(1, 2, "100 usd to eur")
	require.Equal(t, "100 usd to eur", update.Message.Text)

	update = CommandUpdate(1, 2, "/rates")
	require.Equal(t, "/rates", update.Message.Text)

	update = CommandUpdate(1, 2, "/convert", "100", "USD", "EUR")
	require.Equal(t, "/convert 100 USD EUR", update.Message.Text)
}

func TestUpdateBuilder_InGroup(t *testing.T) {
	t.Parallel()

	update := NewUpdateBuilder().WithMessage(-100, 2, "/rates").InGroup("Travel fund").Build()
	require.Equal(t, models.ChatTypeGroup, update.Message.Chat.Type)
	require.Equal(t, "Travel fund", update.Message.Chat.Title)
}

func TestUpdateBuilder_WithCallbackQuery(t *testing.T) {
	t.Parallel()

	update := NewUpdateBuilder().WithCallbackQuery(42, "refresh").Build()
	require.Equal(t, int64(42), update.CallbackQuery.From.ID)
	require.Equal(t, "refresh", update.CallbackQuery.Data)
}
