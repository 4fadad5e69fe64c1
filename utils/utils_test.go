package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secretpass")
	require.NoError(t, err)
	require.NotEqual(t, "secretpass", hash)

	assert.True(t, CheckPasswordHash("secretpass", hash))
	assert.False(t, CheckPasswordHash("wrongpass", hash))
	assert.False(t, CheckPasswordHash("secretpass", "not-a-hash"))
}

func TestGenerateReferralCode(t *testing.T) {
	hexUpper := regexp.MustCompile(`^[0-9A-F]{10}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateReferralCode()
		require.NoError(t, err)
		assert.Regexp(t, hexUpper, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1, "codes must not be constant")
}
