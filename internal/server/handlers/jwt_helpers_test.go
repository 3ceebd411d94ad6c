package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateAccessToken(cfg, "user-1", "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "mishka", claims.Issuer)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	cfg := JWTConfig{
		Secret:   []byte("test-secret"),
		TokenTTL: -time.Minute,
	}

	token, err := GenerateAccessToken(cfg, "user-1", "user@example.com")
	require.NoError(t, err)

	_, err = ValidateAccessToken(cfg, token)
	assert.Error(t, err)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(testJWTConfig(), "user-1", "user@example.com")
	require.NoError(t, err)

	other := JWTConfig{Secret: []byte("other-secret"), TokenTTL: time.Hour}
	_, err = ValidateAccessToken(other, token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	_, err := ValidateAccessToken(testJWTConfig(), "not-a-token")
	assert.Error(t, err)
}
