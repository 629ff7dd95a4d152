package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()
	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
	assert.Len(t, GenerateIDWithLength(7), 7)
}

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()
	token, err := GenerateToken("secret", "mediation-api", userID, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateAndParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "mediation-api", claims.Issuer)
}

func TestTokenRejected(t *testing.T) {
	userID := uuid.New()

	expired, err := GenerateToken("secret", "mediation-api", userID, -time.Minute)
	require.NoError(t, err)
	_, err = ValidateAndParseToken("secret", expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	valid, err := GenerateToken("secret", "mediation-api", userID, time.Hour)
	require.NoError(t, err)
	_, err = ValidateAndParseToken("other-secret", valid)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ValidateAndParseToken("secret", "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGetTokenFromHeader(t *testing.T) {
	token, err := GetTokenFromHeader("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = GetTokenFromHeader("")
	assert.ErrorIs(t, err, ErrMissingAuthorizationHeader)

	_, err = GetTokenFromHeader("Basic dXNlcg==")
	assert.ErrorIs(t, err, ErrInvalidTokenFormat)

	_, err = GetTokenFromHeader("Bearer ")
	assert.ErrorIs(t, err, ErrInvalidTokenFormat)
}
