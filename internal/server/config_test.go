package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearServerEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "LLM_BASE_URL", "LLM_API_KEY", "LLM_MODEL", "PROMPTS_FILE", "ALLOWED_ORIGIN", "LOG_LEVEL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearServerEnv(t)

	cfg := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, ":5000", cfg.Addr())
	assert.Equal(t, "*", cfg.AllowedOrigin)
	assert.Equal(t, []string{"*"}, cfg.origins())
	assert.NotEmpty(t, cfg.LLMBaseURL)
	assert.NotEmpty(t, cfg.LLMModel)
	assert.Empty(t, cfg.PromptsFile)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	clearServerEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORT=8000\nLLM_MODEL=tiny\nALLOWED_ORIGIN=http://a, http://b\n"), 0o600))

	cfg := LoadConfig(envFile)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "tiny", cfg.LLMModel)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.origins())
}

func TestLoadConfig_EnvWinsOverFile(t *testing.T) {
	clearServerEnv(t)
	t.Setenv("PORT", "9999")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORT=8000\n"), 0o600))

	cfg := LoadConfig(envFile)
	assert.Equal(t, "9999", cfg.Port)
}

func TestConfigAddr(t *testing.T) {
	assert.Equal(t, ":5000", Config{Port: "5000"}.Addr())
	assert.Equal(t, "127.0.0.1:5000", Config{Port: "127.0.0.1:5000"}.Addr())
}
