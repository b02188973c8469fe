// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override, e.g.
// LEDGER_SERVER_ADDR for server.addr.
const EnvPrefix = "LEDGER"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Server struct {
		Addr                string `mapstructure:"addr" yaml:"addr"`
		ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds" yaml:"read_timeout_seconds"`
		WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds" yaml:"write_timeout_seconds"`
		IdleTimeoutSeconds  int    `mapstructure:"idle_timeout_seconds" yaml:"idle_timeout_seconds"`
		MaxUploadBytes      int64  `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
	} `mapstructure:"server" yaml:"server"`

	Import struct {
		PreviewRows     int      `mapstructure:"preview_rows" yaml:"preview_rows"`
		MaxRows         int      `mapstructure:"max_rows" yaml:"max_rows"`
		ErrorDisplayCap int      `mapstructure:"error_display_cap" yaml:"error_display_cap"`
		Workers         int      `mapstructure:"workers" yaml:"workers"`
		SniffBytes      int      `mapstructure:"sniff_bytes" yaml:"sniff_bytes"`
		DebitValues     []string `mapstructure:"debit_values" yaml:"debit_values"`
	} `mapstructure:"import" yaml:"import"`

	Storage struct {
		DatabasePath string `mapstructure:"database_path" yaml:"database_path"`
	} `mapstructure:"storage" yaml:"storage"`

	Profiles struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"profiles" yaml:"profiles"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return InitializeConfigWithFile("")
}

// InitializeConfigWithFile loads configuration like InitializeConfig, reading
// configFile instead of searching the standard locations when it is set. An
// explicit file that cannot be read is an error.
func InitializeConfigWithFile(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.ledger-import")
		v.AddConfigPath(".ledger-import")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless explicit)
	if err := v.ReadInConfig(); err != nil {
		if configFile != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	normalizeDebitValues(&config)

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout_seconds", 30)
	v.SetDefault("server.write_timeout_seconds", 60)
	v.SetDefault("server.idle_timeout_seconds", 120)
	v.SetDefault("server.max_upload_bytes", 20<<20)

	// Import defaults
	v.SetDefault("import.preview_rows", 5)
	v.SetDefault("import.max_rows", 100000)
	v.SetDefault("import.error_display_cap", 10)
	v.SetDefault("import.workers", 0)
	v.SetDefault("import.sniff_bytes", 64*1024)
	v.SetDefault("import.debit_values", models.DefaultDebitValues)

	// Storage defaults
	v.SetDefault("storage.database_path", "data/ledger.db")
	v.SetDefault("profiles.file", "data/import-profiles.yaml")
}

// normalizeDebitValues trims and upper-cases the sign vocabulary and drops
// empty entries.
func normalizeDebitValues(config *Config) {
	var values []string
	for _, v := range config.Import.DebitValues {
		if v = strings.ToUpper(strings.TrimSpace(v)); v != "" {
			values = append(values, v)
		}
	}
	config.Import.DebitValues = values
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, ok := logging.ParseLevel(config.Log.Level); !ok {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if config.Server.MaxUploadBytes < 1024 {
		return fmt.Errorf("server.max_upload_bytes must be at least 1024, got: %d", config.Server.MaxUploadBytes)
	}
	if config.Server.ReadTimeoutSeconds < 0 || config.Server.WriteTimeoutSeconds < 0 || config.Server.IdleTimeoutSeconds < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}

	if config.Import.PreviewRows < 1 || config.Import.PreviewRows > 100 {
		return fmt.Errorf("import.preview_rows must be between 1 and 100, got: %d", config.Import.PreviewRows)
	}
	if config.Import.MaxRows < 0 {
		return fmt.Errorf("import.max_rows must not be negative, got: %d", config.Import.MaxRows)
	}
	if config.Import.ErrorDisplayCap < 1 {
		return fmt.Errorf("import.error_display_cap must be at least 1, got: %d", config.Import.ErrorDisplayCap)
	}
	if config.Import.Workers < 0 {
		return fmt.Errorf("import.workers must not be negative, got: %d", config.Import.Workers)
	}
	if config.Import.SniffBytes < 1024 {
		return fmt.Errorf("import.sniff_bytes must be at least 1024, got: %d", config.Import.SniffBytes)
	}
	if len(config.Import.DebitValues) == 0 {
		return fmt.Errorf("import.debit_values must contain at least one value")
	}

	if config.Storage.DatabasePath == "" {
		return fmt.Errorf("storage.database_path must not be empty")
	}
	if config.Profiles.File == "" {
		return fmt.Errorf("profiles.file must not be empty")
	}

	return nil
}

// ConfigureLoggingFromConfig builds the application logger from the Config
// struct. An invalid level falls back to info.
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(strings.ToLower(config.Log.Level), strings.ToLower(config.Log.Format))
}
