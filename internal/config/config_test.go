package config_test

import (
	"testing"
	"time"

	"noticeboard/backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.New()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.AllowVoteRevision)
	assert.Equal(t, "board_changes", cfg.Database.NotifyChannel)
	assert.Equal(t, "en", cfg.Language)
}

func TestNew_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("ALLOW_VOTE_REVISION", "true")
	t.Setenv("TELEGRAM_ADMIN_CHAT_ID", "-100123")
	t.Setenv("REDIS_DB", "2")

	cfg, err := config.New()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.True(t, cfg.AllowVoteRevision)
	assert.Equal(t, int64(-100123), cfg.Telegram.AdminChatID)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestUrgencyWeightsOrder(t *testing.T) {
	assert.Greater(t, config.UrgencyWeights["high"], config.UrgencyWeights["medium"])
	assert.Greater(t, config.UrgencyWeights["medium"], config.UrgencyWeights["low"])
}

func TestValidateServer(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.New()
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.ValidateServer(), config.ErrWeakSecret)

	cfg.JWTSecret = "change-me"
	assert.ErrorIs(t, cfg.ValidateServer(), config.ErrWeakSecret)

	cfg.JWTSecret = "  "
	assert.ErrorIs(t, cfg.ValidateServer(), config.ErrWeakSecret)

	cfg.JWTSecret = "k3rT9-long-random-value"
	assert.NoError(t, cfg.ValidateServer())
}
