package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT("42", "club-owner", "system_admin", "club-ads", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "system_admin", claims.UserType)
}

func TestValidateJWTRejectsExpiredAndForeignTokens(t *testing.T) {
	SetJWTSecret("test-secret")

	expired, err := GenerateJWT("42", "u", "club", "club-ads", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateJWT(expired)
	assert.Error(t, err)

	SetJWTSecret("other-secret")
	foreign, err := GenerateJWT("42", "u", "club", "club-ads", time.Hour)
	require.NoError(t, err)

	SetJWTSecret("test-secret")
	_, err = ValidateJWT(foreign)
	assert.Error(t, err)
}

func TestValidateJWTFallsBackToSubject(t *testing.T) {
	SetJWTSecret("test-secret")

	claims := JWTClaims{
		UserType: "club",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "club-7",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	got, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "club-7", got.UserID)
}
