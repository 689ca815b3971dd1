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
	cfg, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.DBPath)
	assert.Equal(t, "gemini", cfg.VisionBackend)
	assert.Zero(t, cfg.AITimeout)
	assert.Equal(t, 4, cfg.ScanConcurrency)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("DB_PATH", "/custom/db.sqlite")
	t.Setenv("VISION_BACKEND", "claude")
	t.Setenv("CLAUDE_API_KEY", "sk-test123")
	t.Setenv("AI_TIMEOUT", "45s")
	t.Setenv("SCAN_CONCURRENCY", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/custom/db.sqlite", cfg.DBPath)
	assert.Equal(t, "claude", cfg.VisionBackend)
	assert.Equal(t, "sk-test123", cfg.ClaudeAPIKey)
	assert.Equal(t, 45*time.Second, cfg.AITimeout)
	assert.Equal(t, 2, cfg.ScanConcurrency)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plantscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: ":7000"
vision_backend: ollama
ollama_model: bakllava
ai_timeout: 20s
log_level: debug
`), 0o600))
	t.Setenv(FileEnv, path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.ListenAddr)
	assert.Equal(t, "ollama", cfg.VisionBackend)
	assert.Equal(t, "bakllava", cfg.OllamaModel)
	assert.Equal(t, 20*time.Second, cfg.AITimeout)
	assert.Equal(t, "warn", cfg.LogLevel)
	// Untouched keys keep their defaults.
	assert.Equal(t, "http://localhost:11434", cfg.OllamaHost)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{"VISION_BACKEND": "openai"}},
		{"bad timeout", map[string]string{"AI_TIMEOUT": "soon"}},
		{"negative timeout", map[string]string{"AI_TIMEOUT": "-1s"}},
		{"bad concurrency", map[string]string{"SCAN_CONCURRENCY": "many"}},
		{"zero concurrency", map[string]string{"SCAN_CONCURRENCY": "0"}},
		{"unknown log format", map[string]string{"LOG_FORMAT": "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv(FileEnv, filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: [unterminated"), 0o600))
	t.Setenv(FileEnv, path)

	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalid)
}
