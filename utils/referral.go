package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// GenerateReferralCode returns a 10 character upper-cased hex code.
// Collisions are not checked here; the unique index on the column is the
// backstop.
func GenerateReferralCode() (string, error) {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}
