package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024

	DefaultDatabaseURL  = "nexus_data.db"
	DefaultHTTPPort     = "8080"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "json"
	DefaultTokenTTL     = 24 * time.Hour
	DefaultProjectLimit = 3
	DefaultGeminiModel  = "gemini-1.5-flash-latest"
)

type Config struct {
	DatabaseURL  string        `koanf:"database_url"`
	HTTPPort     string        `koanf:"http_port"`
	LogLevel     string        `koanf:"log_level"`
	LogFormat    string        `koanf:"log_format"`
	JWTSecret    Secret        `koanf:"jwt_secret"`
	TokenTTL     time.Duration `koanf:"token_ttl"`
	ProjectLimit int           `koanf:"project_limit"`
	GeminiAPIKey Secret        `koanf:"gemini_api_key"`
	GeminiModel  string        `koanf:"gemini_model"`
}

// Secret is a string that prints as [REDACTED].
type Secret string

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

func (s Secret) GoString() string {
	return "Secret([REDACTED])"
}

// Value returns the raw secret.
func (s Secret) Value() string {
	return string(s)
}

// envKeys whitelists the environment variables read into Config.
var envKeys = map[string]string{
	"DATABASE_URL":   "database_url",
	"HTTP_PORT":      "http_port",
	"LOG_LEVEL":      "log_level",
	"LOG_FORMAT":     "log_format",
	"JWT_SECRET":     "jwt_secret",
	"TOKEN_TTL":      "token_ttl",
	"PROJECT_LIMIT":  "project_limit",
	"GEMINI_API_KEY": "gemini_api_key",
	"GEMINI_MODEL":   "gemini_model",
}

// LoadConfig builds the configuration. Precedence, highest first:
// environment variables (a .env file in the working directory is loaded
// into the environment first), the optional YAML file at path, defaults.
func LoadConfig(path string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func applyDefaults(cfg *Config) {
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = DefaultDatabaseURL
	}
	if cfg.HTTPPort == "" {
		cfg.HTTPPort = DefaultHTTPPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.ProjectLimit == 0 {
		cfg.ProjectLimit = DefaultProjectLimit
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = DefaultGeminiModel
	}
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	if c.ProjectLimit < 1 {
		return fmt.Errorf("project limit must be positive, got %d", c.ProjectLimit)
	}
	if c.TokenTTL < 0 {
		return fmt.Errorf("token ttl cannot be negative: %s", c.TokenTTL)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("log format must be 'json' or 'console', got %q", c.LogFormat)
	}
	return nil
}

// DemoMode reports whether the optional Gemini integration is disabled.
func (c *Config) DemoMode() bool {
	return c.GeminiAPIKey == ""
}
