package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Env     string
	Port    string
	BaseURL string

	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig

	ChromePath string
	Currency   string
}

// DatabaseConfig holds the Postgres connection settings
type DatabaseConfig struct {
	URL         string
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

// RedisConfig configures the duplicate-submission guard. An empty URL disables it.
type RedisConfig struct {
	URL           string
	SubmissionTTL time.Duration
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment.
// The .env file, if any, must already be loaded into the process environment.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("SUBMISSION_GUARD_TTL", "10m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CURRENCY", "EGP")

	// Remove leading colon if present (some platforms inject ":8080")
	port := strings.TrimPrefix(strings.TrimSpace(v.GetString("PORT")), ":")
	if port == "" {
		port = "8080"
	}

	baseURL := strings.TrimRight(strings.TrimSpace(v.GetString("PUBLIC_BASE_URL")), "/")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}

	cfg := Config{
		Env:     v.GetString("ENV"),
		Port:    port,
		BaseURL: baseURL,
		Database: DatabaseConfig{
			URL:         strings.TrimSpace(v.GetString("DATABASE_URL")),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			Name:        v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			URL:           strings.TrimSpace(v.GetString("REDIS_URL")),
			SubmissionTTL: v.GetDuration("SUBMISSION_GUARD_TTL"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		ChromePath: strings.TrimSpace(v.GetString("CHROME_PATH")),
		Currency:   strings.ToUpper(strings.TrimSpace(v.GetString("CURRENCY"))),
	}

	if cfg.Redis.SubmissionTTL <= 0 {
		return Config{}, fmt.Errorf("SUBMISSION_GUARD_TTL must be a positive duration")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// DSN returns the Postgres connection string.
// DATABASE_URL wins; otherwise it is built from the individual DB_* variables.
func (c DatabaseConfig) DSN() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}

	if c.Host == "" || c.User == "" || c.Name == "" {
		return "", fmt.Errorf("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode), nil
}
