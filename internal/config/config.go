package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Dataset source kinds.
const (
	SourceFile     = "file"
	SourceRedis    = "redis"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Logger       LoggerConfig
	Dataset      DatasetConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	SQLite       SQLiteConfig
	CORS         CORSConfig
	Chat         ChatConfig
	Notification NotificationConfig

	// Warnings lists values that were ignored in favor of a default.
	Warnings []string
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name    string
	Env     string
	Host    string
	Port    string
	Version string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// DatasetConfig selects where raw tickets are read from.
type DatasetConfig struct {
	Source             string
	Path               string
	RedisKey           string
	Query              string
	RefreshSchedule    string
	LoadTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SQLiteConfig points at a SQLite database file.
type SQLiteConfig struct {
	Path string
}

// CORSConfig lists origins allowed to call the API.
type CORSConfig struct {
	AllowOrigins string
}

// ChatConfig tunes chat assistant replies.
type ChatConfig struct {
	SupportContact string
}

// NotificationConfig holds breach alert endpoints.
type NotificationConfig struct {
	WebhookURL            string
	WebhookTimeoutSeconds int
}

// Load reads configuration from environment variables. Malformed values fall
// back to defaults and are reported in Warnings.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var warnings []string

	source := strings.ToLower(getEnv("DATASET_SOURCE", SourceFile))
	switch source {
	case SourceFile, SourceRedis, SourcePostgres, SourceSQLite:
	default:
		warnings = append(warnings, fmt.Sprintf("unknown DATASET_SOURCE %q, using %q", source, SourceFile))
		source = SourceFile
	}
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if _, err := strconv.Atoi(raw); err != nil {
			warnings = append(warnings, fmt.Sprintf("invalid REDIS_DB %q, using 0", raw))
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "sla-agent"),
			Env:     getEnv("APP_ENV", "development"),
			Host:    getEnv("APP_HOST", "0.0.0.0"),
			Port:    getEnv("PORT", getEnv("APP_PORT", "8080")),
			Version: getEnv("APP_VERSION", "dev"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Dataset: DatasetConfig{
			Source:             source,
			Path:               getEnv("DATASET_PATH", "dummy_data.json"),
			RedisKey:           getEnv("DATASET_REDIS_KEY", "sla:tickets"),
			Query:              getEnv("DATASET_QUERY", "SELECT doc FROM raw_tickets"),
			RefreshSchedule:    strings.TrimSpace(os.Getenv("DATASET_REFRESH_SCHEDULE")),
			LoadTimeoutSeconds: getEnvAsInt("DATASET_LOAD_TIMEOUT_SECONDS", 10),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 4)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 0)),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "./data/tickets.db"),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Chat: ChatConfig{
			SupportContact: getEnv("CHAT_SUPPORT_CONTACT", "support@example.com"),
		},
		Notification: NotificationConfig{
			WebhookURL:            getEnv("NOTIFY_WEBHOOK_URL", ""),
			WebhookTimeoutSeconds: getEnvAsInt("NOTIFY_WEBHOOK_TIMEOUT_SECONDS", 5),
		},
		Warnings: warnings,
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// LoadTimeout bounds a single dataset load.
func (d DatasetConfig) LoadTimeout() time.Duration {
	if d.LoadTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(d.LoadTimeoutSeconds) * time.Second
}

// WebhookTimeout bounds a single alert delivery.
func (n NotificationConfig) WebhookTimeout() time.Duration {
	if n.WebhookTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(n.WebhookTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
