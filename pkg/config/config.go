// Package config loads DayWeave settings from an optional TOML or JSON file
// with environment variable overrides on top.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultAddr         = ":8080"
	defaultModel        = "claude-sonnet-4-20250514"
	defaultMaxTokens    = 4096
	defaultMaxRounds    = 10
	defaultModelTimeout = 60 * time.Second
	defaultToolTimeout  = 15 * time.Second
	defaultLogLevel     = "info"
)

// Config is the full runtime configuration.
type Config struct {
	Server    Server    `toml:"server" json:"server"`
	Anthropic Anthropic `toml:"anthropic" json:"anthropic"`
	Tools     Tools     `toml:"tools" json:"tools"`
	Planner   Planner   `toml:"planner" json:"planner"`
	Log       Log       `toml:"log" json:"log"`
}

// Server holds the HTTP listener settings.
type Server struct {
	Addr           string   `toml:"addr" json:"addr"`
	AllowedOrigins []string `toml:"allowed_origins" json:"allowed_origins"`
}

// Anthropic holds the reasoning-service credentials and model selection.
type Anthropic struct {
	APIKey    string `toml:"api_key" json:"api_key"`
	BaseURL   string `toml:"base_url" json:"base_url"`
	Model     string `toml:"model" json:"model"`
	MaxTokens int    `toml:"max_tokens" json:"max_tokens"`
}

// Tools holds the lookup-tool API keys. Any blank key puts the matching tool
// into mock mode rather than disabling it.
type Tools struct {
	GoogleAPIKey string   `toml:"google_api_key" json:"google_api_key"`
	SerpAPIKey   string   `toml:"serpapi_key" json:"serpapi_key"`
	Timeout      duration `toml:"timeout" json:"timeout"`
}

// Planner bounds the conversation loop.
type Planner struct {
	MaxRounds    int      `toml:"max_rounds" json:"max_rounds"`
	ModelTimeout duration `toml:"model_timeout" json:"model_timeout"`
	StreamBuffer int      `toml:"stream_buffer" json:"stream_buffer"`
}

// Log selects the slog handler.
type Log struct {
	Level  string `toml:"level" json:"level"`
	Format string `toml:"format" json:"format"`
}

// duration lets config files carry values like "15s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d *duration) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(raw))
}

// Load reads the config file at path when it exists (TOML, or JSON for a
// .json path), then applies environment overrides and defaults. An empty
// path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := decodeFile(path, cfg); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnv lets environment variables win over the file. Keys follow the
// DAYWEAVE_ prefix except the two upstream-API conventions.
func (c *Config) applyEnv() {
	if v := os.Getenv("DAYWEAVE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DAYWEAVE_ANTHROPIC_API_KEY"); v != "" {
		c.Anthropic.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && c.Anthropic.APIKey == "" {
		c.Anthropic.APIKey = v
	}
	if v := os.Getenv("DAYWEAVE_MODEL"); v != "" {
		c.Anthropic.Model = v
	}
	if v := os.Getenv("ANTHROPIC_BASE_URL"); v != "" {
		c.Anthropic.BaseURL = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		c.Tools.GoogleAPIKey = v
	}
	if v := os.Getenv("SERPAPI_KEY"); v != "" {
		c.Tools.SerpAPIKey = v
	}
	if v := os.Getenv("DAYWEAVE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.Anthropic.Model == "" {
		c.Anthropic.Model = defaultModel
	}
	if c.Anthropic.MaxTokens <= 0 {
		c.Anthropic.MaxTokens = defaultMaxTokens
	}
	if c.Tools.Timeout.Duration <= 0 {
		c.Tools.Timeout.Duration = defaultToolTimeout
	}
	if c.Planner.MaxRounds <= 0 {
		c.Planner.MaxRounds = defaultMaxRounds
	}
	if c.Planner.ModelTimeout.Duration <= 0 {
		c.Planner.ModelTimeout.Duration = defaultModelTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Anthropic.APIKey == "" {
		return errors.New("config: anthropic api key is required (set DAYWEAVE_ANTHROPIC_API_KEY)")
	}
	if c.Planner.MaxRounds < 1 {
		return errors.New("config: planner.max_rounds must be at least 1")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}

// ToolTimeout is the per-call tool deadline.
func (c *Config) ToolTimeout() time.Duration { return c.Tools.Timeout.Duration }

// String renders the config for logs with every credential redacted.
func (c *Config) String() string {
	return fmt.Sprintf(
		"addr=%s model=%s max_rounds=%d anthropic_key=%s google_key=%s serpapi_key=%s",
		c.Server.Addr, c.Anthropic.Model, c.Planner.MaxRounds,
		redact(c.Anthropic.APIKey), redact(c.Tools.GoogleAPIKey), redact(c.Tools.SerpAPIKey))
}

func redact(secret string) string {
	if secret == "" {
		return "(unset)"
	}
	return "****"
}
