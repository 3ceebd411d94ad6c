package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, "mishka.db", cfg.DatabasePath)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, "generated", cfg.GeneratedDir)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, int64(5), cfg.MessageCost)
	assert.Equal(t, int64(100), cfg.StartingBalance)
	assert.Equal(t, int64(10), cfg.MinTopUp)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Empty(t, cfg.AdminEmail)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("MESSAGE_COST", "7")
	t.Setenv("TOKEN_TTL_DAYS", "1")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("ADMIN_EMAIL", " Root@Example.com ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Address)
	assert.Equal(t, int64(7), cfg.MessageCost)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "root@example.com", cfg.AdminEmail)
}

func TestLoad_RejectsNonPositiveMessageCost(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MESSAGE_COST", "-1")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_IgnoresUnparsableNumbers(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MESSAGE_COST", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(5), cfg.MessageCost, "unparsable value falls back to the default")
}
