package bot

import (
	"context"
	"testing"

	tgmodels "github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/require"

	"gitlab.com/yelinaung/fxrates/internal/bot/mocks"
	"gitlab.com/yelinaung/fxrates/internal/config"
)

func TestExtractUserID(t *testing.T) {
	t.Parallel()

	t.Run("extracts from message", func(t *testing.T) {
		t.Parallel()
		update := &tgmodels.Update{
			Message: &tgmodels.Message{
				From: &tgmodels.User{ID: 12345},
			},
		}
		require.Equal(t, int64(12345), extractUserID(update))
	})

	t.Run("extracts from callback query", func(t *testing.T) {
		t.Parallel()
		update := &tgmodels.Update{
			CallbackQuery: &tgmodels.CallbackQuery{
				From: tgmodels.User{ID: 67890},
			},
		}
		require.Equal(t, int64(67890), extractUserID(update))
	})

	t.Run("extracts from edited message", func(t *testing.T) {
		t.Parallel()
		update := &tgmodels.Update{
			EditedMessage: &tgmodels.Message{
				From: &tgmodels.User{ID: 11111},
			},
		}
		require.Equal(t, int64(11111), extractUserID(update))
	})

	t.Run("returns zero for empty update", func(t *testing.T) {
		t.Parallel()
		update := &tgmodels.Update{}
		require.Equal(t, int64(0), extractUserID(update))
	})

	t.Run("returns zero for message without from", func(t *testing.T) {
		t.Parallel()
		update := &tgmodels.Update{
			Message: &tgmodels.Message{From: nil},
		}
		require.Equal(t, int64(0), extractUserID(update))
	})
}

func TestAllowUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("whitelisted user passes", func(t *testing.T) {
		t.Parallel()
		b := setupTestBot(t, newFakeService())
		mockBot := mocks.NewMockBot()

		require.True(t, b.allowUpdate(ctx, mockBot, mocks.MessageUpdate(1, 123456, "/rates")))
		require.Equal(t, 0, mockBot.SentMessageCount())
	})

	t.Run("other user is told off", func(t *testing.T) {
		t.Parallel()
		b := setupTestBot(t, newFakeService())
		mockBot := mocks.NewMockBot()

		require.False(t, b.allowUpdate(ctx, mockBot, mocks.MessageUpdate(1, 999, "/rates")))
		require.Contains(t, mockBot.LastSentMessage().Text, "not authorized")
	})

	t.Run("empty whitelist admits everyone", func(t *testing.T) {
		t.Parallel()
		b := setupTestBot(t, newFakeService())
		b.cfg = &config.Config{}

		require.True(t, b.allowUpdate(ctx, mocks.NewMockBot(), mocks.MessageUpdate(1, 999, "hi")))
	})

	t.Run("update without user is dropped", func(t *testing.T) {
		t.Parallel()
		b := setupTestBot(t, newFakeService())
		mockBot := mocks.NewMockBot()

		update := mocks.NewUpdateBuilder().WithMessage(1, 2, "hi").WithoutFrom().Build()
		require.False(t, b.allowUpdate(ctx, mockBot, update))
		require.Equal(t, 0, mockBot.SentMessageCount())
	})

	t.Run("edited message from whitelisted user", func(t *testing.T) {
		t.Parallel()
		b := setupTestBot(t, newFakeService())

		update := mocks.NewUpdateBuilder().WithEditedMessage(1, 123456, "100 usd eur").Build()
		require.True(t, b.allowUpdate(ctx, mocks.NewMockBot(), update))
	})
}

func TestDefaultHandlerCore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("handles free-text conversion", func(t *testing.T) {
		t.Parallel()
		b := setupTestBot(t, newFakeService())
		mockBot := mocks.NewMockBot()

		b.defaultHandlerCore(ctx, mockBot, mocks.MessageUpdate(1, 123456, "100 usd to eur"))
		require.Contains(t, mockBot.LastSentMessage().Text, "€85.00 EUR")
	})

	t.Run("falls back to help hint", func(t *testing.T) {
		t.Parallel()
		b := setupTestBot(t, newFakeService())
		mockBot := mocks.NewMockBot()

		b.defaultHandlerCore(ctx, mockBot, mocks.MessageUpdate(1, 123456, "hello there"))
		require.Contains(t, mockBot.LastSentMessage().Text, "I didn't understand that")
	})

	t.Run("ignores updates without message", func(t *testing.T) {
		t.Parallel()
		b := setupTestBot(t, newFakeService())
		mockBot := mocks.NewMockBot()

		b.defaultHandlerCore(ctx, mockBot, &tgmodels.Update{})
		require.Equal(t, 0, mockBot.SentMessageCount())
	})
}
