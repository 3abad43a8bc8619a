package auth

import (
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "shelflife_test_jwt_secret_key_1234567890"

func TestMain(m *testing.M) {
	_ = os.Setenv("JWT_SECRET", testJWTSecret)
	os.Exit(m.Run())
}

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "42", claims.Subject)
}

func TestGenerateSessionTokenRejectsInvalidUser(t *testing.T) {
	_, err := GenerateSessionToken(0)
	assert.Error(t, err)

	_, err = GenerateSessionToken(-3)
	assert.Error(t, err)
}

func TestValidateSessionTokenRejectsExpired(t *testing.T) {
	now := time.Now()
	claims := Claims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(42),
			Issuer:    jwtIssuer,
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	_, err = ValidateSessionToken(expired)
	assert.Error(t, err)
}

func TestValidateSessionTokenRejectsWrongSecret(t *testing.T) {
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			Issuer:    jwtIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("some_other_secret_of_sufficient_len"))
	require.NoError(t, err)

	_, err = ValidateSessionToken(forged)
	assert.Error(t, err)
}

func TestValidateSessionTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateSessionToken("")
	assert.Error(t, err)

	_, err = ValidateSessionToken("not.a.token")
	assert.Error(t, err)
}
