package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Theme names accepted by [UIConfig.Theme].
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Source SourceConfig `toml:"source"`
	UI     UIConfig     `toml:"ui"`
	Log    LogConfig    `toml:"log"`
}

// SourceConfig describes the remote user API.
type SourceConfig struct {
	BaseURL        string   `toml:"base_url"`
	Results        int      `toml:"results"`
	Seed           string   `toml:"seed"`
	Nationalities  []string `toml:"nationalities"`
	RateLimit      float64  `toml:"rate_limit"` // requests per second
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// UIConfig contains TUI presentation settings.
type UIConfig struct {
	Title string `toml:"title"`
	Theme string `toml:"theme"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Timeout returns the configured load timeout as a [time.Duration].
func (s SourceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Validate checks the configuration for values the application cannot run with.
func (c *Config) Validate() error {
	if c.Source.BaseURL == "" {
		return fmt.Errorf("%w: source.base_url is required", ErrInvalidConfig)
	}
	if c.Source.Results <= 0 {
		return fmt.Errorf("%w: source.results must be positive, got %d", ErrInvalidConfig, c.Source.Results)
	}
	if c.Source.RateLimit < 0 {
		return fmt.Errorf("%w: source.rate_limit must not be negative", ErrInvalidConfig)
	}
	if c.Source.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: source.timeout_seconds must not be negative", ErrInvalidConfig)
	}

	switch c.UI.Theme {
	case "", ThemeAuto, ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("%w: unknown ui.theme %q", ErrInvalidConfig, c.UI.Theme)
	}

	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// LoadConfig reads a TOML configuration file from the specified path.
//
// Values absent from the file keep the defaults from the embedded example config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
