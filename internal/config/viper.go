package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Engine struct {
		Tolerance    string `mapstructure:"tolerance" yaml:"tolerance"`
		Materiality  string `mapstructure:"materiality" yaml:"materiality"`
		Variant      string `mapstructure:"variant" yaml:"variant"`
		MappingsFile string `mapstructure:"mappings_file" yaml:"mappings_file"`
	} `mapstructure:"engine" yaml:"engine"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Store struct {
		DatabaseURL string `mapstructure:"database_url" yaml:"-"` // never serialize credentials
	} `mapstructure:"store" yaml:"store"`

	Export struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"export" yaml:"export"`

	Trigger struct {
		MinRows  int    `mapstructure:"min_rows" yaml:"min_rows"`
		Schedule string `mapstructure:"schedule" yaml:"schedule"`
	} `mapstructure:"trigger" yaml:"trigger"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then an optional config file, then TFT_-prefixed environment
// variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.tft-engine")
	v.AddConfigPath(".tft-engine")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TFT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
		// Config file not found or invalid is OK, defaults and env vars apply.
	}

	// The database URL is conventionally set unprefixed.
	if err := v.BindEnv("store.database_url", "DATABASE_URL", "TFT_STORE_DATABASE_URL"); err != nil {
		fmt.Printf("Warning: failed to bind DATABASE_URL environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("engine.tolerance", "0.01")
	v.SetDefault("engine.materiality", "1000")
	v.SetDefault("engine.variant", "default")
	v.SetDefault("engine.mappings_file", "mappings.yaml")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("store.database_url", "")

	v.SetDefault("export.directory", "exports")

	v.SetDefault("trigger.min_rows", 10)
	v.SetDefault("trigger.schedule", "@every 1m")
}

// validateConfig validates the configuration values.
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Trigger.MinRows < 1 {
		return fmt.Errorf("trigger.min_rows must be at least 1, got: %d", config.Trigger.MinRows)
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
