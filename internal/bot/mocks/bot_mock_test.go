package mocks

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/require"
)

func TestMockBot_SendMessage(t *testing.T) {
	t.Parallel()

	t.Run("captures sent message", func(t *testing.T) {
		t.Parallel()

		mockBot := NewMockBot()
		ctx := context.Background()

		msg, err := mockBot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    int64(12345),
			Text:      "Hello, World!",
			ParseMode: models.ParseModeHTML,
		})

		require.NoError(t, err)
		require.NotNil(t, msg)
		require.Equal(t, 1000, msg.ID)
		require.Equal(t, int64(12345), msg.Chat.ID)

		require.Equal(t, 1, mockBot.SentMessageCount())
		last := mockBot.LastSentMessage()
		require.NotNil(t, last)
		require.Equal(t, int64(12345), last.ChatID)
		require.Equal(t, "Hello, World!", last.Text)
		require.Equal(t, models.ParseModeHTML, last.ParseMode)
	})

	t.Run("returns error when configured", func(t *testing.T) {
		t.Parallel()

		mockBot := NewMockBot()
		mockBot.SendMessageError = errors.New("send failed")

		_, err := mockBot.SendMessage(context.Background(), &bot.SendMessageParams{
			ChatID: int64(123),
			Text:   "test",
		})

		require.Error(t, err)
		require.Equal(t, "send failed", err.Error())
		require.Equal(t, 0, mockBot.SentMessageCount())
	})

	t.Run("increments message ID", func(t *testing.T) {
		t.Parallel()

		mockBot := NewMockBot()
		ctx := context.Background()

		msg1, err := mockBot.SendMessage(ctx, &bot.SendMessageParams{ChatID: int64(1), Text: "a"})
		require.NoError(t, err)
		msg2, err := mockBot.SendMessage(ctx, &bot.SendMessageParams{ChatID: int64(1), Text: "b"})
		require.NoError(t, err)

		require.Equal(t, 1000, msg1.ID)
		require.Equal(t, 1001, msg2.ID)
	})
}

func TestMockBot_SendPhoto(t *testing.T) {
	t.Parallel()

	t.Run("captures uploaded photo", func(t *testing.T) {
		t.Parallel()

		mockBot := NewMockBot()
		msg, err := mockBot.SendPhoto(context.Background(), &bot.SendPhotoParams{
			ChatID:    int64(42),
			Photo:     &models.InputFileUpload{Filename: "chart.png", Data: bytes.NewReader([]byte("png"))},
			Caption:   "caption",
			ParseMode: models.ParseModeHTML,
		})

		require.NoError(t, err)
		require.Equal(t, int64(42), msg.Chat.ID)
		require.Equal(t, 1, mockBot.SentPhotoCount())

		last := mockBot.LastSentPhoto()
		require.NotNil(t, last)
		require.Equal(t, "chart.png", last.Filename)
		require.Equal(t, "caption", last.Caption)
		require.Equal(t, []byte("png"), last.Data)
	})

	t.Run("returns error when configured", func(t *testing.T) {
		t.Parallel()

		mockBot := NewMockBot()
		mockBot.SendPhotoError = errors.New("upload failed")

		_, err := mockBot.SendPhoto(context.Background(), &bot.SendPhotoParams{ChatID: int64(1)})
		require.Error(t, err)
		require.Equal(t, 0, mockBot.SentPhotoCount())
		require.Nil(t, mockBot.LastSentPhoto())
	})
}

func TestMockBot_SendChatAction(t *testing.T) {
	t.Parallel()

	mockBot := NewMockBot()
	ok, err := mockBot.SendChatAction(context.Background(), &bot.SendChatActionParams{
		ChatID: int64(1),
		Action: models.ChatActionUploadPhoto,
	})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []models.ChatAction{models.ChatActionUploadPhoto}, mockBot.ChatActions)
}

func TestMockBot_Reset(t *testing.T) {
	t.Parallel()

	mockBot := NewMockBot()
	mockBot.SendMessageError = errors.New("x")
	mockBot.SendPhotoError = errors.New("y")
	mockBot.SentMessages = append(mockBot.SentMessages, SentMessage{Text: "a"})

	mockBot.Reset()

	require.Equal(t, 0, mockBot.SentMessageCount())
	require.Nil(t, mockBot.LastSentMessage())
	require.NoError(t, mockBot.SendMessageError)
	require.NoError(t, mockBot.SendPhotoError)
}

func TestChatIDToInt64(t *testing.T) {
	t.Parallel()

	require.Equal(t, int64(5), chatIDToInt64(int64(5)))
	require.Equal(t, int64(7), chatIDToInt64(7))
	require.Equal(t, int64(0), chatIDToInt64("@channel"))
}
