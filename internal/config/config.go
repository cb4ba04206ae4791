// Package config loads haggle settings from file, environment and .env.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/example/haggle/internal/core/negotiation"
)

// Generation providers
const (
	ProviderGemini  = "gemini"
	ProviderOffline = "offline"
)

// Config represents the complete haggle configuration
type Config struct {
	Generation  GenerationConfig  `mapstructure:"generation"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Negotiation NegotiationConfig `mapstructure:"negotiation"`
	Server      ServerConfig      `mapstructure:"server"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// GenerationConfig controls how offer messages and reports are written
type GenerationConfig struct {
	// Provider selects the text generator: "gemini" or "offline".
	// Offline always uses the built-in fallback messages.
	Provider string `mapstructure:"provider"`
	// Model is the Gemini model name
	Model string `mapstructure:"model"`
	// APIKey authenticates with Gemini. GEMINI_API_KEY is used when empty.
	APIKey string `mapstructure:"api_key"`
	// Timeout bounds every generation call
	Timeout time.Duration `mapstructure:"timeout"`
	// RatePerMinute caps generation calls; 0 disables the limit
	RatePerMinute int `mapstructure:"rate_per_minute"`
	// Burst is the number of calls allowed at once
	Burst int `mapstructure:"burst"`
}

// DatabaseConfig selects where agreed negotiations are stored
type DatabaseConfig struct {
	// Driver is "sqlite3" or "mysql"
	Driver string `mapstructure:"driver"`
	// DSN is a file path for sqlite3 or a go-sql-driver DSN for mysql
	DSN string `mapstructure:"dsn"`
}

// NegotiationConfig holds the termination rules and history size
type NegotiationConfig struct {
	MaxRounds            int     `mapstructure:"max_rounds"`
	MinRounds            int     `mapstructure:"min_rounds"`
	ConvergenceThreshold float64 `mapstructure:"convergence_threshold"`
	HistoryLimit         int     `mapstructure:"history_limit"`
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Addr          string `mapstructure:"addr"`
	AllowedOrigin string `mapstructure:"allowed_origin"`
}

// LoggingConfig controls structured logging
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`
	// File receives logs when set; stderr otherwise
	File string `mapstructure:"file"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Generation: GenerationConfig{
			Provider:      ProviderGemini,
			Model:         "gemini-2.0-flash",
			Timeout:       20 * time.Second,
			RatePerMinute: 60,
			Burst:         5,
		},
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "~/.haggle/haggle.db",
		},
		Negotiation: NegotiationConfig{
			MaxRounds:            negotiation.DefaultMaxRounds,
			MinRounds:            negotiation.DefaultMinRounds,
			ConvergenceThreshold: negotiation.DefaultConvergenceThreshold,
			HistoryLimit:         10,
		},
		Server: ServerConfig{
			Addr:          ":8080",
			AllowedOrigin: "*",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers default values with the global viper instance
func SetDefaults() {
	applyDefaults(viper.GetViper())
}

func applyDefaults(v *viper.Viper) {
	defaults := Default()

	// Generation defaults
	v.SetDefault("generation.provider", defaults.Generation.Provider)
	v.SetDefault("generation.model", defaults.Generation.Model)
	v.SetDefault("generation.api_key", defaults.Generation.APIKey)
	v.SetDefault("generation.timeout", defaults.Generation.Timeout)
	v.SetDefault("generation.rate_per_minute", defaults.Generation.RatePerMinute)
	v.SetDefault("generation.burst", defaults.Generation.Burst)

	// Database defaults
	v.SetDefault("database.driver", defaults.Database.Driver)
	v.SetDefault("database.dsn", defaults.Database.DSN)

	// Negotiation defaults
	v.SetDefault("negotiation.max_rounds", defaults.Negotiation.MaxRounds)
	v.SetDefault("negotiation.min_rounds", defaults.Negotiation.MinRounds)
	v.SetDefault("negotiation.convergence_threshold", defaults.Negotiation.ConvergenceThreshold)
	v.SetDefault("negotiation.history_limit", defaults.Negotiation.HistoryLimit)

	// Server defaults
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.allowed_origin", defaults.Server.AllowedOrigin)

	// Logging defaults
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.file", defaults.Logging.File)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	return loadFrom(viper.GetViper())
}

func loadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Generation.APIKey == "" {
		cfg.Generation.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// LoadDotEnv loads variables from a .env file into the process environment.
// Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Rules returns the termination rules described by the negotiation settings
func (c *NegotiationConfig) Rules() negotiation.Rules {
	return negotiation.Rules{
		MaxRounds:            c.MaxRounds,
		MinRounds:            c.MinRounds,
		ConvergenceThreshold: c.ConvergenceThreshold,
	}
}

// HasAPIKey reports whether a Gemini key is available
func (c *GenerationConfig) HasAPIKey() bool {
	return c.APIKey != ""
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "haggle")
	}
	// Fall back to ~/.config/haggle
	home, err := os.UserHomeDir()
	if err != nil {
		return ".haggle"
	}
	return filepath.Join(home, ".config", "haggle")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// WriteDefault writes a config file holding the defaults. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if path == "" {
		path = ConfigFile()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	v := viper.New()
	applyDefaults(v)
	if err := v.SafeWriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
