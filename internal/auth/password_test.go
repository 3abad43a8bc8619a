package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordNeverStoresPlaintext(t *testing.T) {
	hashed, err := HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", hashed)
	assert.True(t, CheckPasswordHash("secret1", hashed))
}

func TestCheckPasswordHashRejectsWrongPassword(t *testing.T) {
	hashed, err := HashPassword("secret1")
	require.NoError(t, err)

	assert.False(t, CheckPasswordHash("secret2", hashed))
	assert.False(t, CheckPasswordHash("", hashed))
}

func TestHashPasswordSaltsEveryHash(t *testing.T) {
	first, err := HashPassword("secret1")
	require.NoError(t, err)
	second, err := HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
