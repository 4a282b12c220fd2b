// Package config holds application settings read from CODETUTOR_*
// environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

// EnvPrefix is prepended to every variable FromEnv reads.
const EnvPrefix = "CODETUTOR_"

// Themes.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config holds the non-LLM application settings. LLM settings live in
// llm.Config.
type Config struct {
	// DB is the SQLite file path. Empty means the XDG default.
	DB string `env:"DB"`

	LogLevel string `env:"LOG_LEVEL"`
	// LogFile receives TUI logs. Empty means the XDG state default.
	LogFile string `env:"LOG_FILE"`

	// Theme is used until the learner toggles it.
	Theme            string `env:"THEME"`
	ChromaStyleDark  string `env:"CHROMA_STYLE_DARK"`
	ChromaStyleLight string `env:"CHROMA_STYLE_LIGHT"`

	// DailyLimit caps AI requests per day. 0 disables the cap.
	DailyLimit int `env:"DAILY_LIMIT"`

	ServeAddr string `env:"SERVE_ADDR"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel:         "info",
		Theme:            ThemeDark,
		ChromaStyleDark:  "github-dark",
		ChromaStyleLight: "github",
		ServeAddr:        "127.0.0.1:8080",
	}
}

// FromEnv overlays CODETUTOR_* environment variables on the defaults.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("CODETUTOR_LOG_LEVEL: %w", err)
	}
	switch strings.ToLower(c.Theme) {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("CODETUTOR_THEME must be %q or %q, got %q", ThemeDark, ThemeLight, c.Theme)
	}
	if c.DailyLimit < 0 {
		return fmt.Errorf("CODETUTOR_DAILY_LIMIT must not be negative")
	}
	if c.ServeAddr == "" {
		return fmt.Errorf("CODETUTOR_SERVE_ADDR must not be empty")
	}
	return nil
}

// ChromaStyle returns the chroma style for theme.
func (c Config) ChromaStyle(theme string) string {
	if theme == ThemeLight {
		return c.ChromaStyleLight
	}
	return c.ChromaStyleDark
}
