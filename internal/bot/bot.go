// Package bot provides the Telegram bot initialization and handlers.
package bot

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"

	"gitlab.com/yelinaung/fxrates/internal/config"
	"gitlab.com/yelinaung/fxrates/internal/gemini"
	"gitlab.com/yelinaung/fxrates/internal/logger"
	"gitlab.com/yelinaung/fxrates/internal/models"
)

// RateService is the part of the application service the bot talks to.
type RateService interface {
	Refresh(ctx context.Context) ([]models.Rate, error)
	Rates(ctx context.Context) ([]models.Rate, error)
	Currencies(ctx context.Context) ([]string, error)
	Convert(ctx context.Context, from, to string, amount float64) (float64, error)
	ConvertToAll(ctx context.Context, from string, amount float64) ([]models.Conversion, error)
	Base() string
}

// QueryParser reads conversion requests out of free text.
type QueryParser interface {
	ParseConversionQuery(ctx context.Context, text string, currencies []string) (*gemini.ConversionQuery, error)
}

// Bot wraps the Telegram bot with application dependencies.
type Bot struct {
	bot         *bot.Bot
	cfg         *config.Config
	svc         RateService
	queryParser QueryParser
}

// New creates a new Bot instance. queryParser may be nil.
func New(cfg *config.Config, svc RateService, queryParser QueryParser) (*Bot, error) {
	b := &Bot{
		cfg:         cfg,
		svc:         svc,
		queryParser: queryParser,
	}

	opts := []bot.Option{
		bot.WithMiddlewares(b.whitelistMiddleware),
		bot.WithDefaultHandler(b.defaultHandler),
	}

	telegramBot, err := bot.New(cfg.TelegramBotToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b.bot = telegramBot
	b.registerHandlers()

	return b, nil
}

// Start begins polling for updates and blocks until ctx is done.
func (b *Bot) Start(ctx context.Context) {
	logger.Log.Info().Msg("Bot started polling")
	b.bot.Start(ctx)
}

// registerHandlers sets up command handlers.
func (b *Bot) registerHandlers() {
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, b.handleStart)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, b.handleHelp)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/rates", bot.MatchTypePrefix, b.handleRates)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/currencies", bot.MatchTypePrefix, b.handleCurrencies)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/convert", bot.MatchTypePrefix, b.handleConvert)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/all", bot.MatchTypePrefix, b.handleAll)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/refresh", bot.MatchTypePrefix, b.handleRefresh)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/chart", bot.MatchTypePrefix, b.handleChart)
}

// whitelistMiddleware checks if the user is whitelisted before processing.
func (b *Bot) whitelistMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
		if !b.allowUpdate(ctx, tgBot, update) {
			return
		}
		next(ctx, tgBot, update)
	}
}

// allowUpdate is the testable body of whitelistMiddleware.
func (b *Bot) allowUpdate(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) bool {
	userID := extractUserID(update)
	if userID == 0 {
		return false
	}

	logUserAction(userID, update)

	if !b.cfg.IsUserWhitelisted(userID) {
		logger.Log.Warn().
			Str("user_hash", logger.HashUserID(userID)).
			Msg("Blocked non-whitelisted user")
		if update.Message != nil {
			_, _ = tg.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: update.Message.Chat.ID,
				Text:   "⛔ Sorry, you are not authorized to use this bot.",
			})
		}
		return false
	}

	return true
}

// logUserAction logs the user's input without leaking identifiers or text.
func logUserAction(userID int64, update *tgmodels.Update) {
	switch {
	case update.Message != nil:
		logger.Log.Info().
			Str("user_hash", logger.HashUserID(userID)).
			Str("chat_hash", logger.HashChatID(update.Message.Chat.ID)).
			Str("text", logger.SanitizeText(update.Message.Text)).
			Msg("User input")

	case update.EditedMessage != nil:
		logger.Log.Info().
			Str("user_hash", logger.HashUserID(userID)).
			Str("text", logger.SanitizeText(update.EditedMessage.Text)).
			Msg("Edited message")
	}
}

// extractUserID gets the user ID from various update types.
func extractUserID(update *tgmodels.Update) int64 {
	if update.Message != nil && update.Message.From != nil {
		return update.Message.From.ID
	}
	if update.CallbackQuery != nil {
		return update.CallbackQuery.From.ID
	}
	if update.EditedMessage != nil && update.EditedMessage.From != nil {
		return update.EditedMessage.From.ID
	}
	return 0
}

// defaultHandler handles unrecognized messages, attempting free-text conversion.
func (b *Bot) defaultHandler(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.defaultHandlerCore(ctx, tgBot, update)
}

// defaultHandlerCore is the testable implementation of defaultHandler.
func (b *Bot) defaultHandlerCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}

	logger.Log.Debug().
		Str("chat_hash", logger.HashChatID(update.Message.Chat.ID)).
		Msg("Default handler triggered")

	if b.handleFreeTextCore(ctx, tg, update) {
		return
	}

	_, err := tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      "I didn't understand that. Use /help to see available commands, or send a conversion like <code>100 USD to EUR</code>",
		ParseMode: tgmodels.ParseModeHTML,
	})
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to send default response")
	}
}
