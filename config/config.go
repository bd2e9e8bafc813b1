package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	DB         DBConfig         `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	CORS       CORSConfig       `mapstructure:"cors"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Email      EmailConfig      `mapstructure:"email"`
	Scheduling SchedulingConfig `mapstructure:"scheduling"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	Mode            string        `mapstructure:"mode"` // gin mode: debug, release, test
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DBConfig holds database specific configuration. Driver "memory" runs
// without postgres (demo mode).
type DBConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
	Migrate  bool   `mapstructure:"migrate"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CORSConfig holds CORS specific configuration
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// AuthConfig toggles the bearer-token guard on the management routes.
type AuthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// EmailConfig configures outbound mail. An empty SMTPHost logs messages
// instead of sending them.
type EmailConfig struct {
	From         string        `mapstructure:"from"`
	SMTPHost     string        `mapstructure:"smtp_host"`
	SMTPPort     int           `mapstructure:"smtp_port"`
	SMTPUser     string        `mapstructure:"smtp_user"`
	SMTPPassword string        `mapstructure:"smtp_password"`
	UseTLS       bool          `mapstructure:"use_tls"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type SchedulingConfig struct {
	MaxTechniciansPerService int    `mapstructure:"max_technicians_per_service"`
	RejectClosedAssignments  bool   `mapstructure:"reject_closed_assignments"`
	Timezone                 string `mapstructure:"timezone"`
}

// Location resolves the business time zone used for "today".
func (c SchedulingConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduling.timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

type CacheConfig struct {
	DashboardTTL time.Duration `mapstructure:"dashboard_ttl"`
}

type LogConfig struct {
	Level         string `mapstructure:"level"`
	Format        string `mapstructure:"format"` // json or console
	SlowRequestMS int    `mapstructure:"slow_request_ms"`
}

// SlowRequestThreshold is the latency above which requests log at warn.
func (c LogConfig) SlowRequestThreshold() time.Duration {
	return time.Duration(c.SlowRequestMS) * time.Millisecond
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "headstone")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.migrate", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173", "http://127.0.0.1:5173"})

	v.SetDefault("jwt.secret", "change-me")
	v.SetDefault("jwt.expiration", 24*time.Hour)
	v.SetDefault("auth.enabled", false)

	v.SetDefault("email.from", "headstone@restoration.com")
	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.smtp_user", "")
	v.SetDefault("email.smtp_password", "")
	v.SetDefault("email.use_tls", true)
	v.SetDefault("email.timeout", 10*time.Second)

	v.SetDefault("scheduling.max_technicians_per_service", 1)
	v.SetDefault("scheduling.reject_closed_assignments", false)
	v.SetDefault("scheduling.timezone", "UTC")

	v.SetDefault("cache.dashboard_ttl", 30*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.slow_request_ms", 500)
}

// Load configuration from file and environment variables. Environment
// variables use the HEADSTONE_ prefix, e.g. HEADSTONE_DATABASE_HOST.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app/config")
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// The config file is optional.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("HEADSTONE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	for i, origin := range cfg.CORS.AllowedOrigins {
		cfg.CORS.AllowedOrigins[i] = strings.TrimSpace(origin)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the application cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.DB.Driver != "postgres" && c.DB.Driver != "memory" {
		errs = append(errs, fmt.Errorf("database.driver must be postgres or memory, got %q", c.DB.Driver))
	}
	if c.Scheduling.MaxTechniciansPerService < 1 {
		errs = append(errs, errors.New("scheduling.max_technicians_per_service must be at least 1"))
	}
	if _, err := c.Scheduling.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.Auth.Enabled && c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required when auth is enabled"))
	}
	return errors.Join(errs...)
}
