package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"gitlab.com/yelinaung/fxrates/internal/logger"
	appmodels "gitlab.com/yelinaung/fxrates/internal/models"
)

const (
	convertUsage = "❌ Usage: <code>/convert 100 USD EUR</code>"
	allUsage     = "❌ Usage: <code>/all 100 USD</code>"
)

// handleConvert handles the /convert command.
func (b *Bot) handleConvert(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleConvertCore(ctx, tgBot, update)
}

// handleConvertCore is the testable implementation of handleConvert.
func (b *Bot) handleConvertCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	req, err := ParseConvertArgs(extractCommandArgs(update.Message.Text, "/convert"), true)
	if err != nil {
		b.send(ctx, tg, chatID, usageError(err, convertUsage))
		return
	}

	b.replyConversion(ctx, tg, chatID, req)
}

// handleAll handles the /all command.
func (b *Bot) handleAll(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleAllCore(ctx, tgBot, update)
}

// handleAllCore is the testable implementation of handleAll.
func (b *Bot) handleAllCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	req, err := ParseConvertArgs(extractCommandArgs(update.Message.Text, "/all"), false)
	if err != nil || req.To != "" {
		b.send(ctx, tg, chatID, usageError(err, allUsage))
		return
	}

	b.replyConversion(ctx, tg, chatID, req)
}

// handleFreeTextCore tries to read a conversion out of a plain message,
// first with the regex and then with Gemini when configured. It reports
// whether the message was handled.
func (b *Bot) handleFreeTextCore(ctx context.Context, tg TelegramAPI, update *models.Update) bool {
	text := strings.TrimSpace(update.Message.Text)
	if text == "" || strings.HasPrefix(text, "/") {
		return false
	}
	chatID := update.Message.Chat.ID

	if req := ParseConversionText(text); req != nil {
		b.replyConversion(ctx, tg, chatID, req)
		return true
	}

	if b.queryParser == nil {
		return false
	}

	codes, err := b.svc.Currencies(ctx)
	if err != nil {
		logger.Log.Debug().Err(err).Msg("Currencies unavailable for query parsing")
		codes = nil
	}

	q, err := b.queryParser.ParseConversionQuery(ctx, text, codes)
	if err != nil {
		logger.Log.Debug().Err(err).Str("text", logger.SanitizeText(text)).Msg("Gemini could not parse query")
		return false
	}

	b.replyConversion(ctx, tg, chatID, &ConversionRequest{Amount: q.Amount, From: q.From, To: q.To})
	return true
}

// replyConversion runs a single-pair or fan-out conversion and replies.
func (b *Bot) replyConversion(ctx context.Context, tg TelegramAPI, chatID int64, req *ConversionRequest) {
	amount := req.Amount.InexactFloat64()

	if req.To == "" {
		conversions, err := b.svc.ConvertToAll(ctx, req.From, amount)
		if err != nil {
			b.send(ctx, tg, chatID, userFacingError(err))
			return
		}
		if len(conversions) == 0 {
			b.send(ctx, tg, chatID, fmt.Sprintf("❌ No rates found for <b>%s</b>. Use /currencies to see what's available.", escapeHTML(req.From)))
			return
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "💱 <b>%s</b> is worth:\n\n", formatMoney(amount, req.From))
		for _, c := range conversions {
			if c.Currency == req.From {
				continue
			}
			fmt.Fprintf(&sb, "• %s\n", formatMoney(c.Amount, c.Currency))
		}
		for _, chunk := range splitMessage(sb.String()) {
			b.send(ctx, tg, chatID, chunk)
		}
		return
	}

	result, err := b.svc.Convert(ctx, req.From, req.To, amount)
	if err != nil {
		b.send(ctx, tg, chatID, userFacingError(err))
		return
	}

	text := fmt.Sprintf("💱 %s = <b>%s</b>", formatMoney(amount, req.From), formatMoney(result, req.To))
	if amount > 0 {
		text += fmt.Sprintf("\n\n1 %s = %s %s", req.From, appmodels.FormatRate(result/amount), req.To)
	}
	b.send(ctx, tg, chatID, text)
}

func usageError(err error, usage string) string {
	if errors.Is(err, appmodels.ErrInvalidAmount) {
		return "❌ Amount must be a positive number.\n\n" + strings.TrimPrefix(usage, "❌ ")
	}
	return usage
}
