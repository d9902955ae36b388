package gemini

import "strings"

// MaxQueryLength is the maximum length of user text embedded in a prompt.
const MaxQueryLength = 200

// maxCurrencyHint bounds how many known codes are listed in a prompt.
const maxCurrencyHint = 200

// SanitizeForPrompt strips characters that could break prompt structure,
// collapses whitespace and truncates to maxLength.
func SanitizeForPrompt(input string, maxLength int) string {
	input = strings.ReplaceAll(input, `"`, `'`)
	input = strings.ReplaceAll(input, "`", "'")
	input = strings.ReplaceAll(input, "\x00", "")

	input = strings.Join(strings.Fields(input), " ")

	if len(input) > maxLength {
		input = strings.TrimSpace(input[:maxLength])
	}

	return input
}

// extractJSON extracts a JSON object from text that may contain preamble.
// Gemini sometimes returns "Here is the JSON:\n{...}" even when
// ResponseMIMEType is set to application/json.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}

	end := strings.LastIndex(text, "}")
	if end == -1 || end <= start {
		return ""
	}

	return text[start : end+1]
}

// isCurrencyCode reports whether s looks like an ISO 4217 code.
func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
