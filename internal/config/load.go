package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key when read from the environment.
const EnvPrefix = "USERS"

// Default values applied before any file or environment source.
const (
	DefaultPort                   = 4000
	DefaultLogLevel               = "info"
	DefaultShutdownTimeoutSeconds = 10
	DefaultDatabaseName           = "users_api"
)

// Load reads configuration from the environment and, when present, a config
// file. configFile may be empty, in which case config.{yaml,toml,json} is
// looked up in the working directory and silently skipped if absent.
// Environment variables take precedence over file values.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("server.shutdown_timeout_seconds", DefaultShutdownTimeoutSeconds)
	v.SetDefault("database.name", DefaultDatabaseName)
	v.SetDefault("database.auto_migrate", true)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Prefixed variables take precedence over the conventional names.
	bindings := map[string][]string{
		"database.url": {"USERS_DATABASE_URL", "MONGODB_URI", "DATABASE_URL"},
		"server.port":  {"USERS_SERVER_PORT", "PORT"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
