package inertia

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
root_view: views/app.html
manifest_path: public/build/manifest.json
render_errors: true
session:
  secret: change-me
  encrypt: true
log:
  level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, "views/app.html", cfg.RootView)
	assert.Equal(t, "public/build/manifest.json", cfg.ManifestPath)
	assert.True(t, cfg.RenderErrors)
	assert.Equal(t, "Error", cfg.ErrorComponent, "defaults survive")
	assert.Equal(t, "/", cfg.BaseURL)
	assert.Equal(t, "inertia_session", cfg.Session.CookieName)
	assert.Equal(t, "change-me", cfg.Session.Secret)
	assert.True(t, cfg.Session.Encrypt)
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel())
}

func TestParseConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed yaml", "root_view: [unterminated"},
		{"unknown log level", "log:\n  level: loud"},
		{"render errors without component", "render_errors: true\nerror_component: \"\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inertia.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: abc\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.Version)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

func TestLogLevelDefault(t *testing.T) {
	assert.Equal(t, zapcore.InfoLevel, Config{}.LogLevel())
}
