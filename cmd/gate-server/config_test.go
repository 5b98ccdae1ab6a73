package main

import (
	"testing"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerConfig_Defaults(t *testing.T) {
	t.Setenv("GATE_SIGNING_KEY", "a-long-enough-signing-key")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8573", cfg.Addr)
	assert.Equal(t, ":9573", cfg.MetricsAddr)
	assert.Equal(t, 150*time.Millisecond, cfg.WaitBudget)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "loading", cfg.LoadingView)

	opts := cfg.Options()
	assert.NoError(t, opts.Validate())
	assert.Equal(t, "HS256", opts.SigningMethod)
	assert.Equal(t, 2*time.Second, opts.RefreshInterval)
}

func TestLoadServerConfig_Lists(t *testing.T) {
	t.Setenv("GATE_AUDIENCE", "admin,ops")
	t.Setenv("GATE_JWKS_URLS", "https://id.example.com/.well-known/jwks.json")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"admin", "ops"}, cfg.Audience)
	assert.Equal(t, []string{"https://id.example.com/.well-known/jwks.json"}, cfg.Options().JWKSetURLs)
}

func TestLoadServerConfig_MalformedDuration(t *testing.T) {
	t.Setenv("GATE_WAIT_BUDGET", "30")

	_, err := LoadServerConfig()
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Contains(t, err.Error(), "parse env")
}

func TestServerConfig_NoDefaultSigningKey(t *testing.T) {
	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.Empty(t, cfg.SigningKey)
	assert.Error(t, cfg.Options().Validate())
}

func TestServerConfig_WeakSigningKey(t *testing.T) {
	t.Setenv("GATE_SIGNING_KEY", "change-me-change-me-change-me")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.True(t, cfg.WeakSigningKey())
	assert.False(t, ServerConfig{SigningKey: "a-long-enough-signing-key"}.WeakSigningKey())
}
