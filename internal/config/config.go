package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/database"
	"github.com/joho/godotenv"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	Notification NotificationConfig
	Timecard     TimecardConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxConns        int
	MinConns        int
	MaxConnIdleTime time.Duration
}

type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

type AppConfig struct {
	Name           string
	Version        string
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// NotificationConfig tunes the batching notification workers.
type NotificationConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
}

type TimecardConfig struct {
	// TopAdminID is the employee who receives every escalation.
	TopAdminID string
	// PolicyFile optionally overrides the built-in thresholds and pay schedule.
	PolicyFile             string
	CriticalOverageMinutes int
	SideEffectTimeout      time.Duration
	AutoLogoutEnabled      bool
	AutoLogoutTime         string
	AutoLogoutInterval     time.Duration
}

// envReader parses typed variables and remembers the first failure so Load
// can report it once.
type envReader struct {
	err error
}

func (e *envReader) int(key, fallback string) int {
	n, err := strconv.Atoi(getEnv(key, fallback))
	if err != nil && e.err == nil {
		e.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return n
}

func (e *envReader) duration(key, fallback string) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil && e.err == nil {
		e.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return d
}

func (e *envReader) bool(key, fallback string) bool {
	b, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil && e.err == nil {
		e.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return b
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded, using process environment", "error", err)
	}

	var env envReader
	config := &Config{
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            env.int("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "timecard"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConns:        env.int("DB_MAX_CONNS", "25"),
			MinConns:        env.int("DB_MIN_CONNS", "5"),
			MaxConnIdleTime: env.duration("DB_MAX_CONN_IDLE", "30m"),
		},
		App: AppConfig{
			Name:           getEnv("APP_NAME", "timecard-backend"),
			Version:        getEnv("APP_VERSION", "v1.0.0"),
			Port:           env.int("APP_PORT", "8080"),
			Env:            getEnv("APP_ENV", "development"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		JWT: JWTConfig{
			Secret:           getEnv("JWT_SECRET_KEY", ""),
			AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
		},
		Notification: NotificationConfig{
			WorkerCount:   env.int("NOTIFICATION_WORKERS", "2"),
			QueueSize:     env.int("NOTIFICATION_QUEUE_SIZE", "1000"),
			BatchSize:     env.int("NOTIFICATION_BATCH_SIZE", "100"),
			FlushInterval: env.duration("NOTIFICATION_FLUSH_INTERVAL", "5s"),
		},
		Timecard: TimecardConfig{
			TopAdminID:             getEnv("TOP_ADMIN_ID", ""),
			PolicyFile:             getEnv("POLICY_FILE", ""),
			CriticalOverageMinutes: env.int("ESCALATION_CRITICAL_MINUTES", "60"),
			SideEffectTimeout:      env.duration("SIDE_EFFECT_TIMEOUT", "10s"),
			AutoLogoutEnabled:      env.bool("AUTO_LOGOUT_ENABLED", "false"),
			AutoLogoutTime:         getEnv("AUTO_LOGOUT_TIME", "19:00"),
			AutoLogoutInterval:     env.duration("AUTO_LOGOUT_INTERVAL", "1h"),
		},
	}
	if env.err != nil {
		return nil, env.err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Timecard.TopAdminID == "" {
		return fmt.Errorf("TOP_ADMIN_ID is required")
	}
	if c.Notification.WorkerCount <= 0 {
		return fmt.Errorf("NOTIFICATION_WORKERS must be positive")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS exceeds DB_MAX_CONNS")
	}
	return nil
}

// PoolOptions converts the DB_* pool limits for database.NewPostgreSQLDB.
func (c *Config) PoolOptions() database.PoolOptions {
	return database.PoolOptions{
		MaxConns:        int32(c.Database.MaxConns),
		MinConns:        int32(c.Database.MinConns),
		MaxConnIdleTime: c.Database.MaxConnIdleTime,
	}
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
