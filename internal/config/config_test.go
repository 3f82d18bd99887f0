package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "App", cfg.DefaultModule)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "data/modules", cfg.ConfigRoot)
	assert.Equal(t, 10, cfg.ReadTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DEBUG_ENABLED", "true")
	t.Setenv("LISTEN_ADDR", "127.0.0.1:9000")
	t.Setenv("READ_TIMEOUT", "3")
	t.Setenv("WRITE_TIMEOUT", "not-a-number")
	t.Setenv("DEFAULT_MODULE", "Billing")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	assert.True(t, cfg.DebugEnabled)
	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
	assert.Equal(t, 3, cfg.ReadTimeout)
	assert.Equal(t, 10, cfg.WriteTimeout, "invalid numbers keep the default")
	assert.Equal(t, "Billing", cfg.DefaultModule)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	content := "site_url: https://example.com/\nsession_cookie: sid\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg := &Config{}
	setDefaults(cfg)
	loadFromYAML(cfg, dir)

	assert.Equal(t, "https://example.com/", cfg.SiteURL)
	assert.Equal(t, "sid", cfg.SessionCookie)
	assert.Equal(t, ":8080", cfg.ListenAddr)
}

func TestLoadFromYAML_MissingFile(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	loadFromYAML(cfg, t.TempDir())

	assert.Equal(t, "", cfg.SiteURL)
}

func TestTimeoutDurations(t *testing.T) {
	cfg := &Config{ReadTimeout: 2, WriteTimeout: 5}

	assert.Equal(t, "2s", cfg.ReadTimeoutDuration().String())
	assert.Equal(t, "5s", cfg.WriteTimeoutDuration().String())
}
