package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 4, cfg.AIDepth)
	assert.Equal(t, 20, cfg.AINearWinWeight)
	assert.Equal(t, 2, cfg.AICenterWeight)
	assert.False(t, cfg.AIParallel)
	assert.Equal(t, 24*time.Hour, cfg.GameTokenTTL())
	assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime())
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:5173"}, cfg.AllowedOrigins())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AI_DEPTH", "6")
	t.Setenv("AI_PARALLEL", "true")
	t.Setenv("FRONTEND_URL", "https://connect4.example")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example, ,https://b.example")
	t.Setenv("SESSION_IDLE_MINUTES", "15")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 6, cfg.AIDepth)
	assert.True(t, cfg.AIParallel)
	assert.Equal(t, 15*time.Minute, cfg.SessionIdle())
	assert.Equal(t, []string{
		"https://connect4.example",
		"http://localhost:5173",
		"https://a.example",
		"https://b.example",
	}, cfg.AllowedOrigins())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connect4.env")
	require.NoError(t, os.WriteFile(path, []byte("AI_DEPTH=3\nREDIS_URL=localhost:6380\n"), 0o600))
	t.Setenv("AI_DEPTH", "5")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost:6380", cfg.RedisURL)
	// environment wins over the file
	assert.Equal(t, 5, cfg.AIDepth)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	t.Setenv("AI_DEPTH", "0")
	_, err := LoadConfig("")
	require.ErrorContains(t, err, "AI_DEPTH")

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
