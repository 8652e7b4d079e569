package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "SERVER_MODE", "SERVER_ALLOWED_ORIGINS", "DATA_ROOT_PATH", "DATA_NAMESPACE",
		"DATA_CODEC", "LOG_LEVEL", "LOG_FILE", "GENERATOR_BASE_URL", "GENERATOR_TIMEOUT_SECONDS",
		"BLUEPRINT_FILE_PATH",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "json", cfg.Data.Codec)
	assert.Equal(t, "http://localhost:3001/api", cfg.Generator.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Generator.Timeout)
	assert.Empty(t, cfg.Blueprint.FilePath)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_ALLOWED_ORIGINS", "http://localhost:5173, https://app.example.com,")
	t.Setenv("DATA_CODEC", "MSGPACK")
	t.Setenv("GENERATOR_BASE_URL", "http://gen:3001/api/")
	t.Setenv("GENERATOR_TIMEOUT_SECONDS", "5")
	t.Setenv("BLUEPRINT_FILE_PATH", "./blueprints/blog.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"http://localhost:5173", "https://app.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "msgpack", cfg.Data.Codec)
	assert.Equal(t, "http://gen:3001/api", cfg.Generator.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Generator.Timeout)
	assert.Equal(t, "./blueprints/blog.yaml", cfg.Blueprint.FilePath)
}

func TestLoadRejectsUnknownCodec(t *testing.T) {
	t.Setenv("DATA_CODEC", "xml")

	_, err := Load()
	assert.ErrorContains(t, err, "unsupported DATA_CODEC")
}

func TestGetEnvIntFallsBack(t *testing.T) {
	t.Setenv("NODEPILOT_TEST_INT", "abc")
	assert.Equal(t, 7, getEnvInt("NODEPILOT_TEST_INT", 7))
}
