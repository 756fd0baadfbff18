package utils

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

const fingerprintLength = 12

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// Fingerprint returns a short stable digest of a secret so it can be used as a
// cache key or log field without exposing the value itself.
func Fingerprint(secret string) string {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(secret))
	return fmt.Sprintf("%x", sum[:])[:fingerprintLength]
}
