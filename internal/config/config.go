// Package config loads the server configuration in layers: built-in defaults, an optional
// YAML file, then SUPERLEO_ environment variables. A .env file in the working directory is
// read into the environment first.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/superleo/marketingops/backend/internal/validation"
)

const (
	EnvPrefix     = "SUPERLEO_"
	ConfigPathEnv = "SUPERLEO_CONFIG"

	DefaultSystemAPIKeyPlaceholder = "SET_A_REAL_KEY_IN_CONFIG_OR_ENV_d9f8s7d9f8s7d9f8"
)

// DefaultConfigPaths are tried in order when no path is given.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// providerKeyEnvs are read, in order, when gemini.api_key is not configured.
var providerKeyEnvs = []string{"GEMINI_API_KEY", "API_KEY"}

type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Gemini     GeminiConfig     `koanf:"gemini"`
	Generation GenerationConfig `koanf:"generation"`
	Library    LibraryConfig    `koanf:"library"`
	Chat       ChatConfig       `koanf:"chat"`

	loadedFromPath string
}

type ServerConfig struct {
	Port            string        `koanf:"port" validate:"required,numeric"`
	APIKey          string        `koanf:"api_key" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gte=0"` // 0 disables; video generation can take minutes
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	EventBuffer     int           `koanf:"event_buffer" validate:"gte=1"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// GeminiConfig configures the provider. An empty APIKey selects the offline mock provider.
type GeminiConfig struct {
	APIKey           string        `koanf:"api_key"`
	ChatModel        string        `koanf:"chat_model" validate:"required"`
	PollInterval     time.Duration `koanf:"poll_interval" validate:"gt=0"`
	RequestsPerSec   float64       `koanf:"rate_limit_rps" validate:"gte=0"`
	Burst            int           `koanf:"rate_limit_burst" validate:"gte=0"`
	FailureThreshold uint32        `koanf:"failure_threshold" validate:"gte=1"`
	OpenTimeout      time.Duration `koanf:"open_timeout" validate:"gt=0"`
}

type GenerationConfig struct {
	StartingBalance  float64       `koanf:"starting_balance" validate:"gte=0"`
	MockImageDelay   time.Duration `koanf:"mock_image_delay" validate:"gte=0"`
	MockVideoDelay   time.Duration `koanf:"mock_video_delay" validate:"gte=0"`
	ReferenceTimeout time.Duration `koanf:"reference_timeout" validate:"gt=0"`
	ReferenceMaxSize int64         `koanf:"reference_max_size" validate:"gte=1024"` // bytes
}

type LibraryConfig struct {
	JobHistory            int           `koanf:"job_history" validate:"gte=1"`
	MergeDelay            time.Duration `koanf:"merge_delay" validate:"gte=0"`
	ExtendDelay           time.Duration `koanf:"extend_delay" validate:"gte=0"`
	RemoveBackgroundDelay time.Duration `koanf:"remove_background_delay" validate:"gte=0"`
}

type ChatConfig struct {
	MaxSessions int `koanf:"max_sessions" validate:"gte=1"`
}

// GetLoadedFromPath returns the YAML file the config was read from, or "" for none.
func (c *Config) GetLoadedFromPath() string { return c.loadedFromPath }

// UsesPlaceholderAPIKey reports whether the server still runs with the shipped API key.
func (c *Config) UsesPlaceholderAPIKey() bool {
	return c.Server.APIKey == DefaultSystemAPIKeyPlaceholder
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			APIKey:          DefaultSystemAPIKeyPlaceholder,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    0,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			EventBuffer:     64,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Gemini: GeminiConfig{
			ChatModel:        "gemini-2.5-flash",
			PollInterval:     5 * time.Second,
			RequestsPerSec:   2,
			Burst:            4,
			FailureThreshold: 5,
			OpenTimeout:      30 * time.Second,
		},
		Generation: GenerationConfig{
			StartingBalance:  1250,
			MockImageDelay:   2 * time.Second,
			MockVideoDelay:   3 * time.Second,
			ReferenceTimeout: 10 * time.Second,
			ReferenceMaxSize: 10 * 1024 * 1024,
		},
		Library: LibraryConfig{
			JobHistory:            128,
			MergeDelay:            2 * time.Second,
			ExtendDelay:           2 * time.Second,
			RemoveBackgroundDelay: 1500 * time.Millisecond,
		},
		Chat: ChatConfig{MaxSessions: 256},
	}
}

// Load builds the configuration. path may be empty, in which case SUPERLEO_CONFIG and then
// DefaultConfigPaths are tried; a missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	path = findConfigFile(path)
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.loadedFromPath = path

	if cfg.Gemini.APIKey == "" {
		for _, name := range providerKeyEnvs {
			if v := os.Getenv(name); v != "" {
				cfg.Gemini.APIKey = v
				break
			}
		}
	}
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its bounds.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func findConfigFile(path string) string {
	if path != "" {
		return path
	}
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envKey maps SUPERLEO_SERVER_API_KEY to server.api_key: the first segment after the prefix
// names the section.
func envKey(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, rest, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}
	return section + "." + rest
}
