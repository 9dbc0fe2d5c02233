package auth_test

import (
	"testing"
	"time"

	"taskplanner/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-key"

func TestGenerateAndParseToken(t *testing.T) {
	// Generate a token
	token, err := auth.GenerateToken(testSecret, "planctl", 24*time.Hour)

	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// Parse it back
	subject, err := auth.ParseToken(testSecret, token)

	assert.NoError(t, err)
	assert.Equal(t, "planctl", subject)
}

func TestParseToken_InvalidToken(t *testing.T) {
	_, err := auth.ParseToken(testSecret, "invalid-token")

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
	assert.Equal(t, "invalid token", err.Error())
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := auth.GenerateToken("another-secret", "planctl", time.Hour)
	assert.NoError(t, err)

	_, err = auth.ParseToken(testSecret, token)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_ExpiredToken(t *testing.T) {
	// Token expired an hour ago
	claims := jwt.MapClaims{
		"sub": "planctl",
		"exp": time.Now().Add(-1 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expiredToken, _ := token.SignedString([]byte(testSecret))

	_, err := auth.ParseToken(testSecret, expiredToken)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_NoExpiry(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "planctl"})
	forever, _ := token.SignedString([]byte(testSecret))

	_, err := auth.ParseToken(testSecret, forever)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_MissingSubject(t *testing.T) {
	claims := jwt.MapClaims{
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenWithoutSubject, _ := token.SignedString([]byte(testSecret))

	_, err := auth.ParseToken(testSecret, tokenWithoutSubject)

	assert.ErrorIs(t, err, auth.ErrInvalidClaims)
	assert.Equal(t, "invalid claims", err.Error())
}
