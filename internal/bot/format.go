package bot

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/yelinaung/fxrates/internal/converter"
	"gitlab.com/yelinaung/fxrates/internal/logger"
	"gitlab.com/yelinaung/fxrates/internal/models"
	"gitlab.com/yelinaung/fxrates/internal/ratecache"
)

// maxMessageLength stays under Telegram's 4096 character limit.
const maxMessageLength = 4000

const ratesUnavailableText = "⚠️ Exchange rates are unavailable right now. Please try again later."

// userFacingError turns a service error into a message for the chat.
func userFacingError(err error) string {
	var convErr *converter.ConversionError
	if errors.As(err, &convErr) {
		return fmt.Sprintf("❌ Can't convert <b>%s</b> to <b>%s</b>. Use /currencies to see what's available.",
			escapeHTML(convErr.From), escapeHTML(convErr.To))
	}

	var fetchErr *ratecache.FetchError
	if errors.As(err, &fetchErr) {
		return ratesUnavailableText
	}

	logger.Log.Error().Err(err).Msg("Unexpected service error")
	return "❌ Something went wrong. Please try again."
}

// formatMoney renders "$100.00 USD" style amounts.
func formatMoney(amount float64, code string) string {
	symbol := models.Symbol(code)
	if symbol == code {
		return fmt.Sprintf("%s %s", models.FormatAmount(amount), code)
	}
	return fmt.Sprintf("%s%s %s", symbol, models.FormatAmount(amount), code)
}

// splitMessage breaks text on line boundaries into chunks Telegram accepts.
func splitMessage(text string) []string {
	if len(text) <= maxMessageLength {
		return []string{text}
	}

	var chunks []string
	var sb strings.Builder
	for line := range strings.SplitSeq(text, "\n") {
		if sb.Len() > 0 && sb.Len()+len(line)+1 > maxMessageLength {
			chunks = append(chunks, strings.TrimRight(sb.String(), "\n"))
			sb.Reset()
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	if sb.Len() > 0 {
		chunks = append(chunks, strings.TrimRight(sb.String(), "\n"))
	}
	return chunks
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// formatGreeting returns a greeting suffix with the user's name.
func formatGreeting(firstName string) string {
	if firstName == "" {
		return ""
	}
	return ", " + escapeHTML(firstName)
}
