package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateResetTokenIsRandom(t *testing.T) {
	first, err := GenerateResetToken()
	require.NoError(t, err)
	second, err := GenerateResetToken()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)
}

func TestHashResetTokenIsDeterministicAndOneWay(t *testing.T) {
	token, err := GenerateResetToken()
	require.NoError(t, err)

	hash := HashResetToken(token)
	assert.Len(t, hash, 64)
	assert.NotEqual(t, token, hash)
	assert.Equal(t, hash, HashResetToken(token))
	assert.NotEqual(t, hash, HashResetToken(token+"x"))
}
