package config

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
}

// ServerConfig contains the HTTP listener and logging settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// ShutdownTimeoutSeconds bounds how long in-flight requests may take to
	// finish once a termination signal arrives.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig contains the persistence gateway settings.
// The URL scheme selects the gateway: mongodb:// and mongodb+srv:// use the
// document store, postgres:// and postgresql:// use PostgreSQL.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
	// Name is the MongoDB database used when the URL carries no database path.
	Name string `mapstructure:"name" validate:"required"`
	// AutoMigrate bootstraps the schema (tables or indexes) at startup.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}
