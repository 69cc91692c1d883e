package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetbuddy/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.Equal(t, 15, cfg.LLM.TimeoutSecs)
	assert.True(t, cfg.Chat.AutoSave)
	assert.Equal(t, time.UTC.String(), cfg.Chat.Location().String())
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.False(t, cfg.S3.Enabled)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:3000")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BUDGETBUDDY_LLM_API_KEY", "secret-key")
	t.Setenv("BUDGETBUDDY_LLM_TIMEOUT_SECS", "8")
	t.Setenv("BUDGETBUDDY_CHAT_TIMEZONE", "Asia/Kolkata")
	t.Setenv("BUDGETBUDDY_CHAT_AUTO_SAVE", "false")
	t.Setenv("BUDGETBUDDY_CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "secret-key", cfg.LLM.APIKey)
	assert.Equal(t, 8, cfg.LLM.TimeoutSecs)
	assert.False(t, cfg.Chat.AutoSave)
	assert.Equal(t, "Asia/Kolkata", cfg.Chat.Location().String())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("BUDGETBUDDY_CHAT_TIMEZONE", "Not/AZone")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestChatConfig_LocationZeroValue(t *testing.T) {
	var c config.ChatConfig
	assert.Equal(t, time.UTC, c.Location())
}
