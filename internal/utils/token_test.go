package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionToken(t *testing.T) {
	tok, err := NewSessionToken("acct-1")
	require.NoError(t, err)

	parts := strings.SplitN(tok, ".", 3)
	require.Len(t, parts, 3)
	assert.Equal(t, "acct-1", parts[0])
	assert.NotEmpty(t, parts[1])
	assert.Len(t, parts[2], 48)
}

func TestNewSessionTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := NewSessionToken("acct-1")
		require.NoError(t, err)
		assert.False(t, seen[tok], "token generated twice")
		seen[tok] = true
	}
}

func TestRandomHexLength(t *testing.T) {
	for _, n := range []int{1, 16, 24, 32} {
		s, err := RandomHex(n)
		require.NoError(t, err)
		assert.Len(t, s, 2*n)
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("", "s3cret"))
}
