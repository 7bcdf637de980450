package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Port        string          `mapstructure:"port"`
	DatabaseURL string          `mapstructure:"database_url"`
	RedisAddr   string          `mapstructure:"redis_addr"`
	JWTSecret   string          `mapstructure:"jwt_secret"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Ban         BanConfig       `mapstructure:"ban"`
	Admin       AdminConfig     `mapstructure:"admin"`
}

type RateLimitConfig struct {
	PerSecond float64 `mapstructure:"per_second"`
	Burst     int     `mapstructure:"burst"`
}

type BanConfig struct {
	MaxStrikes int `mapstructure:"max_strikes"`
	// Minutes a client stays banned after reaching MaxStrikes.
	DurationMinutes int `mapstructure:"duration_minutes"`
}

// AdminConfig names an administrator created at startup when it does not
// exist yet. Empty username disables the bootstrap.
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Load reads configuration from an optional config.yaml, a .env file and
// environment variables, in increasing priority. Variables may be given
// plain (DATABASE_URL) or prefixed (MEDTRACK_DATABASE_URL).
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("port", "8080")
	v.SetDefault("redis_addr", "inventory-redis:6379")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("rate_limit.per_second", 1.0)
	v.SetDefault("rate_limit.burst", 3)
	v.SetDefault("ban.max_strikes", 5)
	v.SetDefault("ban.duration_minutes", 15)
	v.SetDefault("admin.username", "")
	v.SetDefault("admin.password", "")

	v.SetEnvPrefix("MEDTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"port", "database_url", "redis_addr", "jwt_secret"} {
		if err := v.BindEnv(key, "MEDTRACK_"+strings.ToUpper(key), strings.ToUpper(key)); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Admin.Username != "" && cfg.Admin.Password == "" {
		return nil, fmt.Errorf("admin password is required when an admin username is set")
	}
	return &cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
