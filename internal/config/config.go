package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	RedisURL    string   `mapstructure:"REDIS_URL"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Admin surface (import/seed endpoints).
	AdminAPIKey string `mapstructure:"ADMIN_API_KEY"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`

	// Chat agent.
	GeminiAPIKey     string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel      string `mapstructure:"GEMINI_MODEL"`
	ChatDefaultLimit int    `mapstructure:"CHAT_DEFAULT_LIMIT"`
	ChatMaxTurns     int    `mapstructure:"CHAT_MAX_TURNS"`

	// Analytics response cache TTL in seconds (0 disables even with Redis).
	CacheTTLSeconds int `mapstructure:"CACHE_TTL_SECONDS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("GEMINI_MODEL", "models/gemini-1.5-pro")
	v.SetDefault("CHAT_DEFAULT_LIMIT", 200)
	v.SetDefault("CHAT_MAX_TURNS", 8)
	v.SetDefault("CACHE_TTL_SECONDS", 30)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("REDIS_URL")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("ADMIN_API_KEY")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("GEMINI_API_KEY")
	v.BindEnv("GEMINI_MODEL")
	v.BindEnv("CHAT_DEFAULT_LIMIT")
	v.BindEnv("CHAT_MAX_TURNS")
	v.BindEnv("CACHE_TTL_SECONDS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run. Outside development
// the admin surface must be protected by either a static key or a JWT secret.
func (c *Config) Validate() error {
	if !c.IsDev() && c.AdminAPIKey == "" && c.JWTSecret == "" {
		return fmt.Errorf("ADMIN_API_KEY or JWT_SECRET is required when ENV is not development")
	}
	if c.ChatDefaultLimit < 1 || c.ChatDefaultLimit > 500 {
		return fmt.Errorf("CHAT_DEFAULT_LIMIT must be between 1 and 500, got %d", c.ChatDefaultLimit)
	}
	if c.ChatMaxTurns < 1 {
		return fmt.Errorf("CHAT_MAX_TURNS must be positive, got %d", c.ChatMaxTurns)
	}
	return nil
}
