package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"       validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Covers    CoversConfig    `mapstructure:"covers"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// PublicDir is the directory served under /public. Uploaded covers live
	// in its bookcovers subdirectory.
	PublicDir string `mapstructure:"public_dir" validate:"required"`

	CORSOrigins            []string `mapstructure:"cors_origins"`

	// TrustProxyHeaders takes the client address from X-Forwarded-For or
	// X-Real-IP. Enable only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool `mapstructure:"trust_proxy_headers"`

	MaxUploadMB            int      `mapstructure:"max_upload_mb"            validate:"gt=0,lte=64"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// ShutdownTimeout returns the graceful shutdown window as a duration.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url"                       validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gt=0"`

	// SeedOnStart inserts the initial data set when the server starts on an
	// empty database.
	SeedOnStart bool `mapstructure:"seed_on_start"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"           validate:"required,min=32"`
	TokenLifetimeHours int    `mapstructure:"token_lifetime_hours" validate:"required,gt=0"`
	BcryptCost         int    `mapstructure:"bcrypt_cost"          validate:"gte=4,lte=31"`
}

// RateLimitConfig controls the per-client limiter in front of login and signup.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gt=0"`
	Burst             int     `mapstructure:"burst"               validate:"gt=0"`
}

// CoversConfig bounds the stored cover images.
type CoversConfig struct {
	MaxWidth    int `mapstructure:"max_width"    validate:"gt=0"`
	MaxHeight   int `mapstructure:"max_height"   validate:"gt=0"`
	JPEGQuality int `mapstructure:"jpeg_quality" validate:"gte=1,lte=100"`
}
