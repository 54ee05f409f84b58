package inertia

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Errors returned while loading configuration.
var (
	ErrConfigNotFound = errors.New("inertia: configuration file not found")
	ErrInvalidConfig  = errors.New("inertia: invalid configuration")
)

// Config holds the settings of an Inertia instance. It can be built in
// code or loaded from YAML:
//
//	root_view: views/app.html
//	manifest_path: public/build/manifest.json
//	error_component: Error
//	render_errors: true
//	session:
//	  cookie_name: app_session
//	  secret: change-me
type Config struct {
	// RootView is an html/template file rendered as the HTML shell. When
	// empty, DefaultRoot is used unless a root is set with WithRoot.
	RootView string `yaml:"root_view"`

	// ManifestPath is the asset manifest hashed to compute the version.
	ManifestPath string `yaml:"manifest_path"`

	// Version pins the asset version and takes precedence over
	// ManifestPath.
	Version string `yaml:"version"`

	// BaseURL is the last-resort target of Back redirects.
	BaseURL string `yaml:"base_url"`

	// ErrorComponent is rendered by the default error handler when
	// RenderErrors is set.
	ErrorComponent string `yaml:"error_component"`
	RenderErrors   bool   `yaml:"render_errors"`

	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

// SessionConfig configures the cookie session.
type SessionConfig struct {
	CookieName string `yaml:"cookie_name"`
	Secret     string `yaml:"secret"`
	// Encrypt makes the cookie opaque instead of only signed.
	Encrypt bool `yaml:"encrypt"`
}

// LogConfig configures logging for loggers built from the config.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the defaults applied before any file or option.
func DefaultConfig() Config {
	return Config{
		BaseURL:        "/",
		ErrorComponent: "Error",
		Session: SessionConfig{
			CookieName: "inertia_session",
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig reads a YAML configuration file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration over DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field combinations that cannot work.
func (c Config) Validate() error {
	if c.RenderErrors && c.ErrorComponent == "" {
		return fmt.Errorf("%w: render_errors requires error_component", ErrInvalidConfig)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); c.Log.Level != "" && err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}

// LogLevel returns the configured zap level, defaulting to info.
func (c Config) LogLevel() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
