package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

var hashSalt string

// InitHashSalt loads the log-privacy salt from the environment. Set
// LOG_HASH_SALT in production so hashed identifiers are stable across
// restarts but not guessable.
func InitHashSalt() {
	hashSalt = os.Getenv("LOG_HASH_SALT")
	if hashSalt == "" {
		hashSalt = "default-salt-change-in-production"
	}
}

// InitHashSaltForTesting overrides the salt with a fixed value.
func InitHashSaltForTesting(salt string) {
	hashSalt = salt
}

// HashUserID creates a privacy-preserving hash of a user ID so user
// actions can be correlated in logs without exposing the raw ID.
func HashUserID(userID int64) string {
	data := fmt.Sprintf("%d:%s", userID, hashSalt)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])[:8]
}

// HashEmail creates a privacy-preserving hash of an email address.
// Login failures are logged by hash, never by address.
func HashEmail(email string) string {
	data := strings.ToLower(strings.TrimSpace(email)) + ":" + hashSalt
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])[:8]
}

// SanitizeText redacts user-provided text, keeping only a short prefix
// and length information for debugging.
func SanitizeText(text string) string {
	if text == "" {
		return "<empty>"
	}
	if len(text) <= 10 {
		return fmt.Sprintf("<%d chars>", len(text))
	}
	return fmt.Sprintf("%s...<%d chars>", text[:3], len(text))
}
