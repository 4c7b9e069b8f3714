package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  addr: "127.0.0.1:9090"
  allowed_origins: ["https://journal.example.com"]

storage:
  driver: sqlite
  path: /tmp/moodlog.db

classifier:
  provider: anthropic
  model: claude-sonnet-4-20250514
  timeout_seconds: 10

insights:
  window_days: 14
  timezone: Europe/Paris

log:
  level: debug
  pretty: true

labels:
  POS: positive
  NEG: negative
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, []string{"https://journal.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "/tmp/moodlog.db", cfg.Storage.Path)
	assert.Equal(t, "anthropic", cfg.Classifier.Provider)
	assert.Equal(t, 10*time.Second, cfg.Classifier.Timeout())
	assert.Equal(t, 14, cfg.Insights.WindowDays)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, map[string]string{"POS": "positive", "NEG": "negative"}, cfg.Labels)

	loc, err := cfg.Insights.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", loc.String())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "huggingface", cfg.Classifier.Provider)
	assert.Equal(t, 30, cfg.Classifier.TimeoutSeconds)
	assert.Equal(t, 30, cfg.Insights.WindowDays)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, Default(), cfg)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "server: [unclosed"},
		{"bad driver", "storage:\n  driver: mongo\n"},
		{"postgres without url", "storage:\n  driver: postgres\n"},
		{"bad provider", "classifier:\n  provider: magic\n"},
		{"bad timezone", "insights:\n  timezone: Mars/Olympus\n"},
		{"negative window", "insights:\n  window_days: -3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("MOODLOG_ADDR", ":7000")
	t.Setenv("MOODLOG_DATABASE_URL", "postgres://moodlog@localhost/moodlog?sslmode=disable")
	t.Setenv("MOODLOG_TIMEZONE", "UTC")
	t.Setenv("HF_API_KEY", "hf_test")

	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "postgres://moodlog@localhost/moodlog?sslmode=disable", cfg.Storage.URL)
	assert.Equal(t, "UTC", cfg.Insights.Timezone)
	assert.Equal(t, "hf_test", cfg.Classifier.APIKey)
}
