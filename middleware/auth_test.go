package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, secret string, ttl time.Duration) string {
	t.Helper()

	claims := jwt.MapClaims{
		"user_id": uint(42),
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestVerifyRefreshToken(t *testing.T) {
	token := signTestToken(t, JWTRefreshSecret(), time.Hour)

	userID, err := VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestVerifyRefreshTokenRejectsExpired(t *testing.T) {
	token := signTestToken(t, JWTRefreshSecret(), -time.Hour)

	_, err := VerifyRefreshToken(token)
	assert.Error(t, err)
}

func TestVerifyRefreshTokenRejectsWrongSecret(t *testing.T) {
	// An access token must never pass as a refresh token.
	token := signTestToken(t, JWTSecret(), time.Hour)

	_, err := VerifyRefreshToken(token)
	assert.Error(t, err)
}

func TestParseBearer(t *testing.T) {
	token, ok := parseBearer("Bearer abc.def.ghi")
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", token)

	_, ok = parseBearer("abc.def.ghi")
	assert.False(t, ok)
	_, ok = parseBearer("Basic dXNlcjpwYXNz")
	assert.False(t, ok)
	_, ok = parseBearer("")
	assert.False(t, ok)
}
