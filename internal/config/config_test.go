package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "Gruvbox", cfg.Theme)
	assert.Equal(t, 5000, cfg.ProbeTimeoutMs)
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout())
	assert.Zero(t, cfg.UploadTimeout())
}

func TestLoadFrom_MissingFile(t *testing.T) {
	t.Setenv(EnvAPIBase, "")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Theme, cfg.Theme)
	assert.Equal(t, 5000, cfg.ProbeTimeoutMs)
	assert.Equal(t, DefaultAPIURL, cfg.ResolveBaseURL(""))
}

func TestLoadFrom_ValidFile(t *testing.T) {
	t.Setenv(EnvAPIBase, "")
	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{
  "api_url": "https://wrapped.example.com/",
  "theme": "Catppuccin Mocha",
  "probe_timeout_ms": 1500,
  "upload_timeout_ms": 60000
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "Catppuccin Mocha", cfg.Theme)
	assert.Equal(t, 1500*time.Millisecond, cfg.ProbeTimeout())
	assert.Equal(t, time.Minute, cfg.UploadTimeout())
	assert.Equal(t, "https://wrapped.example.com", cfg.ResolveBaseURL(""))
}

func TestLoadFrom_NormalizesInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme": "", "probe_timeout_ms": -3, "upload_timeout_ms": -1}`), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "Gruvbox", cfg.Theme)
	assert.Equal(t, 5000, cfg.ProbeTimeoutMs)
	assert.Equal(t, 0, cfg.UploadTimeoutMs)
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	cfg, err := LoadFrom(path)
	require.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestResolveBaseURLPrecedence(t *testing.T) {
	t.Setenv(EnvAPIBase, "tunnel.local:9000")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, "http://tunnel.local:9000", cfg.ResolveBaseURL(""))
	assert.Equal(t, "http://flag:1", cfg.ResolveBaseURL("http://flag:1/"))

	cfg.APIURL = "https://configured"
	assert.Equal(t, "https://configured", cfg.ResolveBaseURL(""))
	assert.Equal(t, "http://flag:1", cfg.ResolveBaseURL(" http://flag:1 "))

	cfg = DefaultConfig()
	assert.Equal(t, DefaultAPIURL, cfg.ResolveBaseURL("   "))
}

func TestDebugFromEnv(t *testing.T) {
	t.Setenv(EnvDebug, "1")
	cfg, err := LoadFrom("")
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
}
