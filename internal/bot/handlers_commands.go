package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"gitlab.com/yelinaung/fxrates/internal/logger"
	appmodels "gitlab.com/yelinaung/fxrates/internal/models"
)

// handleStart handles the /start command.
func (b *Bot) handleStart(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleStartCore(ctx, tgBot, update)
}

// handleStartCore is the testable implementation of handleStart.
func (b *Bot) handleStartCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}

	firstName := ""
	if update.Message.From != nil {
		firstName = update.Message.From.FirstName
	}

	text := fmt.Sprintf(`👋 Welcome%s!

I convert amounts between currencies using rates quoted against <b>%s</b>.

<b>Quick Start:</b>
• Send a conversion like: <code>100 USD to EUR</code>
• Or use a command: <code>/convert 100 USD EUR</code>

Use /help to see all available commands.`,
		formatGreeting(firstName), b.svc.Base())

	b.send(ctx, tg, update.Message.Chat.ID, text)
}

// handleHelp handles the /help command.
func (b *Bot) handleHelp(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleHelpCore(ctx, tgBot, update)
}

// handleHelpCore is the testable implementation of handleHelp.
func (b *Bot) handleHelpCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}

	text := `📚 <b>Available Commands</b>

<b>Converting:</b>
• <code>/convert &lt;amount&gt; &lt;FROM&gt; &lt;TO&gt;</code> - Convert between two currencies
• <code>/all &lt;amount&gt; &lt;FROM&gt;</code> - Convert into every known currency
• <code>/chart &lt;amount&gt; &lt;FROM&gt;</code> - Chart the largest conversions
• Just send a message like <code>100 usd to eur</code>

<b>Rates:</b>
• <code>/rates</code> - Show the current rate table
• <code>/currencies</code> - List known currency codes
• <code>/refresh</code> - Reload rates (fetched at most every 30 minutes)

<b>Other:</b>
• <code>/help</code> - Show this help message`

	b.send(ctx, tg, update.Message.Chat.ID, text)
}

// handleRates handles the /rates command.
func (b *Bot) handleRates(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleRatesCore(ctx, tgBot, update)
}

// handleRatesCore is the testable implementation of handleRates.
func (b *Bot) handleRatesCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	rates, err := b.svc.Rates(ctx)
	if err != nil {
		b.send(ctx, tg, chatID, userFacingError(err))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📈 <b>Exchange Rates</b> (1 %s)\n\n", b.svc.Base())
	for _, r := range rates {
		fmt.Fprintf(&sb, "<code>%s</code> %s\n", escapeHTML(r.Currency), appmodels.FormatRate(r.Rate))
	}

	for _, chunk := range splitMessage(sb.String()) {
		b.send(ctx, tg, chatID, chunk)
	}
}

// handleCurrencies handles the /currencies command.
func (b *Bot) handleCurrencies(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleCurrenciesCore(ctx, tgBot, update)
}

// handleCurrenciesCore is the testable implementation of handleCurrencies.
func (b *Bot) handleCurrenciesCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	codes, err := b.svc.Currencies(ctx)
	if err != nil {
		b.send(ctx, tg, chatID, userFacingError(err))
		return
	}

	text := fmt.Sprintf("💱 <b>%d currencies</b>\n\n<code>%s</code>", len(codes), strings.Join(codes, " "))
	for _, chunk := range splitMessage(text) {
		b.send(ctx, tg, chatID, chunk)
	}
}

// handleRefresh handles the /refresh command.
func (b *Bot) handleRefresh(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleRefreshCore(ctx, tgBot, update)
}

// handleRefreshCore is the testable implementation of handleRefresh.
func (b *Bot) handleRefreshCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	rates, err := b.svc.Refresh(ctx)
	if err != nil {
		b.send(ctx, tg, chatID, userFacingError(err))
		return
	}

	logger.Log.Info().Int("currencies", len(rates)).Msg("Rates refreshed from chat")
	b.send(ctx, tg, chatID, fmt.Sprintf("🔄 Rates are up to date: <b>%d</b> currencies loaded.", len(rates)))
}

// send delivers an HTML message and logs failures.
func (b *Bot) send(ctx context.Context, tg TelegramAPI, chatID int64, text string) {
	_, err := tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		logger.Log.Error().Err(err).Str("chat_hash", logger.HashChatID(chatID)).Msg("Failed to send message")
	}
}
