package helpers

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateToken returns n bytes of cryptographically secure randomness
// in URL-safe base64. Used for reset and email-confirmation tokens.
func GenerateToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
