package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"
)

// Config holds server configuration, loaded from YAML with environment
// overrides.
type Config struct {
	Addr         string `yaml:"addr" env:"ADDR" env-default:":8080"`
	FrontendDir  string `yaml:"frontendDir" env:"FRONTEND_DIR" env-default:"frontend/build"`
	SettingsPath string `yaml:"settingsPath" env:"SETTINGS_PATH" env-default:"settings.json"`

	// RandomSeed fixes the generator's random source; 0 means time-seeded.
	RandomSeed int64 `yaml:"randomSeed" env:"RANDOM_SEED" env-default:"0"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	} `yaml:"cors"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
		Format string `yaml:"format" env:"LOG_FORMAT" env-default:"console"`
	} `yaml:"logging"`
}

// Load reads configuration from the given file if it exists, applying
// environment overrides either way.
func Load(path string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("reading config from environment: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration parameters.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr cannot be empty")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging format must be console or json, got %q", c.Logging.Format)
	}
	if _, err := zap.ParseAtomicLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Logging.Level, err)
	}
	return nil
}

// NewLogger builds a zap logger per the logging configuration.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	if c.Logging.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}
