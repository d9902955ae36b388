package bot

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"gitlab.com/yelinaung/fxrates/internal/logger"
)

const chartUsage = "❌ Usage: <code>/chart 100 USD</code> or <code>/chart 100 USD 15</code>"

// handleChart handles the /chart command.
func (b *Bot) handleChart(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleChartCore(ctx, tgBot, update)
}

// handleChartCore is the testable implementation of handleChart.
func (b *Bot) handleChartCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args := strings.Fields(extractCommandArgs(update.Message.Text, "/chart"))
	size := DefaultChartSize
	if len(args) == 3 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n <= 0 {
			b.send(ctx, tg, chatID, chartUsage)
			return
		}
		size = min(n, MaxChartSize)
		args = args[:2]
	}

	req, err := ParseConvertArgs(strings.Join(args, " "), false)
	if err != nil || req.To != "" {
		b.send(ctx, tg, chatID, usageError(err, chartUsage))
		return
	}

	_, _ = tg.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionUploadPhoto})

	amount := req.Amount.InexactFloat64()
	conversions, err := b.svc.ConvertToAll(ctx, req.From, amount)
	if err != nil {
		b.send(ctx, tg, chatID, userFacingError(err))
		return
	}

	chartData, err := GenerateConversionChart(conversions, req.From, amount, size)
	if err != nil {
		logger.Log.Warn().Err(err).Str("from", req.From).Msg("Failed to generate chart")
		b.send(ctx, tg, chatID, fmt.Sprintf("📊 Nothing to chart for <b>%s</b>.", escapeHTML(req.From)))
		return
	}

	_, err = tg.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:    chatID,
		Photo:     &models.InputFileUpload{Filename: generateChartFilename(req.From, time.Now()), Data: bytes.NewReader(chartData)},
		Caption:   fmt.Sprintf("📊 <b>%s</b> in the top %d currencies", formatMoney(amount, req.From), size),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to send chart")
		b.send(ctx, tg, chatID, "❌ Failed to send chart. Please try again.")
		return
	}

	logger.Log.Info().Str("from", req.From).Int("size", size).Msg("Chart generated successfully")
}
