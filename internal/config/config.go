package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the portal API.
type Config struct {
	AppName     string
	AppEnv      string
	AppPort     string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	TokenTTL    time.Duration

	// BootstrapAdminEmail grants administrative access to a single account
	// before any role has been seeded. It feeds the same authorizer as the
	// role-based check; it is not a second authorization mechanism.
	BootstrapAdminEmail string

	DashboardCacheTTL time.Duration
	BcryptCost        int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("HEEC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "HEEC Manager")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("token.ttl", "12h")
	v.SetDefault("dashboard.cache_ttl", "2m")
	v.SetDefault("bcrypt.cost", 12)

	tokenTTL, err := time.ParseDuration(v.GetString("token.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid token ttl: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("dashboard.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		JWTSecret:           v.GetString("jwt.secret"),
		TokenTTL:            tokenTTL,
		BootstrapAdminEmail: strings.ToLower(strings.TrimSpace(v.GetString("bootstrap.admin_email"))),
		DashboardCacheTTL:   cacheTTL,
		BcryptCost:          v.GetInt("bcrypt.cost"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.BcryptCost < 10 || cfg.BcryptCost > 16 {
		cfg.BcryptCost = 12
	}

	return cfg, nil
}
