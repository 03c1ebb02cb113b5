package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XLINK_API_URL", "")
	t.Setenv("NAVIGATE_DELAY_MS", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, time.Second, cfg.NavigateDelay)
	assert.Equal(t, "create.html", cfg.NextStepURL)
	assert.Equal(t, ".xlink/local.db", cfg.LocalStorePath)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
}

func TestLoadOverridesAndClamps(t *testing.T) {
	t.Setenv("XLINK_API_URL", "https://xlink.example/")
	t.Setenv("NAVIGATE_DELAY_MS", "250")
	t.Setenv("MAX_CONCURRENT", "0")
	t.Setenv("SESSION_TTL_MINUTES", "-5")
	t.Setenv("DEBUG", "true")
	t.Setenv("LOG_LEVEL", " DEBUG ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://xlink.example", cfg.APIBaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.NavigateDelay)
	assert.Equal(t, 1, cfg.MaxConcurrent)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsNonHTTPBaseURL(t *testing.T) {
	t.Setenv("XLINK_API_URL", "ftp://xlink.example")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadBotRequiresToken(t *testing.T) {
	t.Setenv("XLINK_API_URL", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	_, err := LoadBot()
	assert.EqualError(t, err, "TELEGRAM_BOT_TOKEN is required")

	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	cfg, err := LoadBot()
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.TelegramToken)
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("XLINK_API_URL", "")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
}
