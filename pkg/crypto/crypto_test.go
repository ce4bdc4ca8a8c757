package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("password")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "password", hash)

	assert.True(t, VerifyPassword("password", hash))
	assert.False(t, VerifyPassword("wrong", hash))
	assert.False(t, VerifyPassword("password", "not-a-hash"))
}

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString(32)
	require.NoError(t, err)
	b, err := GenerateRandomString(32)
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
