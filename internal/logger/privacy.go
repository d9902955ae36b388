package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

const (
	minHashSaltLength = 32
	defaultHashSalt   = "fxrates-local-salt-do-not-use-in-prod"
)

var hashSalt = defaultHashSalt

// InitHashSalt loads LOG_HASH_SALT. It panics when the salt is missing or
// shorter than 32 characters; call it only where chat identifiers get logged.
func InitHashSalt() {
	salt := os.Getenv("LOG_HASH_SALT")
	if salt == "" {
		panic("LOG_HASH_SALT must be set")
	}
	if len(salt) < minHashSaltLength {
		panic(fmt.Sprintf("LOG_HASH_SALT must be at least %d characters", minHashSaltLength))
	}
	hashSalt = salt
}

// InitHashSaltForTesting sets the salt directly.
func InitHashSaltForTesting(salt string) {
	hashSalt = salt
}

// HashUserID creates a privacy-preserving hash of a user ID.
func HashUserID(userID int64) string {
	return hashID(userID)
}

// HashChatID creates a privacy-preserving hash of a chat ID.
func HashChatID(chatID int64) string {
	return hashID(chatID)
}

func hashID(id int64) string {
	data := fmt.Sprintf("%d:%s", id, hashSalt)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])[:8]
}

// SanitizeText is a general-purpose sanitizer for any user-provided text.
func SanitizeText(text string) string {
	if text == "" {
		return "<empty>"
	}

	if len(text) <= 10 {
		return fmt.Sprintf("<%d chars>", len(text))
	}

	return fmt.Sprintf("%s...<%d chars>", text[:3], len(text))
}
