// Package config handles loading and validating the castaway configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration for the castaway daemon.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Fallback  FallbackConfig  `mapstructure:"fallback"`
	Directory DirectoryConfig `mapstructure:"directory"`
	Refresh   RefreshConfig   `mapstructure:"refresh"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// StorageConfig holds the SQLite settings.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// FallbackConfig configures the optional tier-2 interpreter.
type FallbackConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
}

// DirectoryConfig configures the remote podcast catalog.
type DirectoryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	BaseURL      string `mapstructure:"base_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	TokenURL     string `mapstructure:"token_url"`
}

// RefreshConfig configures the background refresh pool.
type RefreshConfig struct {
	Workers         int `mapstructure:"workers"`
	QueueSize       int `mapstructure:"queue_size"`
	IntervalMinutes int `mapstructure:"interval_minutes"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./castaway.yaml, ./configs/castaway.yaml, /etc/castaway/castaway.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("storage.path", "castaway.db")
	v.SetDefault("fallback.enabled", false)
	v.SetDefault("fallback.endpoint", "http://localhost:11434")
	v.SetDefault("fallback.model", "llama3.2:3b")
	v.SetDefault("directory.enabled", false)
	v.SetDefault("directory.base_url", "")
	v.SetDefault("refresh.workers", 2)
	v.SetDefault("refresh.queue_size", 32)
	v.SetDefault("refresh.interval_minutes", 60)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("castaway")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/castaway")
	}

	// Environment variables: CASTAWAY_SERVER_PORT, CASTAWAY_STORAGE_PATH, etc.
	v.SetEnvPrefix("CASTAWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional, env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references in sensitive fields (e.g., "${CATALOG_SECRET}")
	cfg.Directory.ClientSecret = resolveEnvRef(cfg.Directory.ClientSecret)
	cfg.Directory.ClientID = resolveEnvRef(cfg.Directory.ClientID)

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}

	return &cfg, nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
	}
	return val
}
