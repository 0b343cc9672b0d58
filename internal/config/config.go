// Package config provides configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	Env          string `env:"APP_ENV" envDefault:"development"`
	Server       ServerConfig
	Storage      StorageConfig
	Database     DatabaseConfig
	Jobs         JobsConfig
	Resilience   ResilienceConfig
	Logging      LoggingConfig
	Notification NotificationConfig
	Archive      ArchiveConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	RequestTimeout  time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"60s"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Address is the listen address of the HTTP server.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig selects the repository backend.
type StorageConfig struct {
	Driver       string `env:"STORAGE_DRIVER" envDefault:"memory"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"cmmsmind.db"`
	SeedDemoData bool   `env:"SEED_DEMO_DATA" envDefault:"true"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host         string        `env:"DB_HOST" envDefault:"localhost"`
	Port         int           `env:"DB_PORT" envDefault:"5432"`
	User         string        `env:"DB_USER" envDefault:"cmmsmind"`
	Password     string        `env:"DB_PASSWORD"`
	Name         string        `env:"DB_NAME" envDefault:"cmmsmind"`
	SSLMode      string        `env:"DB_SSL_MODE" envDefault:"disable"`
	MaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	MaxLifetime  time.Duration `env:"DB_MAX_LIFETIME" envDefault:"5m"`
}

// JobsConfig holds background job settings. Schedules include a seconds field.
type JobsConfig struct {
	Enabled               bool          `env:"JOBS_ENABLED" envDefault:"true"`
	Timeout               time.Duration `env:"JOB_TIMEOUT" envDefault:"30m"`
	OverdueSchedule       string        `env:"JOB_OVERDUE_WORK_ORDERS" envDefault:"0 0 * * * *"`
	LowStockSchedule      string        `env:"JOB_LOW_STOCK" envDefault:"0 15 * * * *"`
	UpcomingSchedule      string        `env:"JOB_UPCOMING_MAINTENANCE" envDefault:"0 0 6 * * *"`
	ReportArchiveSchedule string        `env:"JOB_REPORT_ARCHIVE" envDefault:"0 0 2 1 * *"`
}

// ResilienceConfig holds rate limiting and retry settings.
type ResilienceConfig struct {
	RateLimitRPS     float64       `env:"RATE_LIMIT_RPS" envDefault:"100"`
	RateLimitBurst   int           `env:"RATE_LIMIT_BURST" envDefault:"200"`
	RetryMaxAttempts int           `env:"RETRY_MAX_ATTEMPTS" envDefault:"3"`
	RetryBaseDelay   time.Duration `env:"RETRY_BASE_DELAY" envDefault:"1s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// NotificationConfig holds outbound notification settings.
type NotificationConfig struct {
	SlackWebhookURL string   `env:"NOTIFICATION_SLACK_WEBHOOK"`
	EmailSMTPHost   string   `env:"NOTIFICATION_EMAIL_SMTP_HOST"`
	EmailSMTPPort   int      `env:"NOTIFICATION_EMAIL_SMTP_PORT" envDefault:"587"`
	EmailFrom       string   `env:"NOTIFICATION_EMAIL_FROM"`
	EmailPassword   string   `env:"NOTIFICATION_EMAIL_PASSWORD"`
	EmailTo         []string `env:"NOTIFICATION_EMAIL_TO" envSeparator:","`
	WebhookURLs     []string `env:"NOTIFICATION_WEBHOOK_URLS" envSeparator:","`
}

// ArchiveConfig holds the S3 report archive settings.
type ArchiveConfig struct {
	Enabled       bool   `env:"ARCHIVE_ENABLED" envDefault:"false"`
	Bucket        string `env:"ARCHIVE_BUCKET"`
	Prefix        string `env:"ARCHIVE_PREFIX" envDefault:"reports/"`
	Region        string `env:"AWS_REGION" envDefault:"us-east-1"`
	Endpoint      string `env:"ARCHIVE_ENDPOINT"`
	UsePathStyle  bool   `env:"ARCHIVE_USE_PATH_STYLE" envDefault:"false"`
	AccessKeyID   string `env:"AWS_ACCESS_KEY_ID"`
	SecretKey     string `env:"AWS_SECRET_ACCESS_KEY"`
	AssumeRoleARN string `env:"AWS_ASSUME_ROLE_ARN"`
	ExternalID    string `env:"AWS_EXTERNAL_ID"`
}

// Load reads configuration from environment variables. With APP_ENV=local a
// .env file is loaded first from path, or the working directory.
func Load(path ...string) (*Config, error) {
	const op = "config.Load"

	if os.Getenv("APP_ENV") == "local" {
		if err := godotenv.Load(path...); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: load .env: %w", op, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !slices.Contains([]string{DriverMemory, DriverPostgres, DriverSQLite}, c.Storage.Driver) {
		return fmt.Errorf("STORAGE_DRIVER must be memory, postgres or sqlite, got %q", c.Storage.Driver)
	}
	if c.Storage.Driver == DriverPostgres && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required for the postgres driver")
	}
	if c.Storage.Driver == DriverSQLite && c.Storage.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
	}
	if c.Archive.Enabled && c.Archive.Bucket == "" {
		return fmt.Errorf("ARCHIVE_BUCKET is required when the archive is enabled")
	}
	if c.Resilience.RateLimitRPS <= 0 || c.Resilience.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// DSN returns the connection string of the configured SQL driver.
func (c *Config) DSN() string {
	if c.Storage.Driver == DriverSQLite {
		return c.Storage.SQLitePath
	}
	return c.Database.DSN()
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}
