package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
)

type (
	Config struct {
		HTTP
		Site
		Global
		Database
		Log
		Auth
		Provider
		Payment
		Upload
		Tasks
		Schedule
		Audit
	}

	HTTP struct {
		Port int32
		Host string
	}
	Site struct {
		URL string // Public base URL, used for payment redirects and absolute upload URLs
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver   DatabaseDriver
		URL      string // DSN for postgres
		Path     string // File path for sqlite
		LogLevel string // GORM logger level: silent, error, warn, info
	}
	Log struct {
		Level  string
		Format string // "console" or "json"
	}
	Auth struct {
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS

		MaxLoginAttempts int
		RateLimitWindow  time.Duration
		LockoutDuration  time.Duration
	}
	// Provider describes the hosted authentication service whose JWTs are accepted as bearer tokens.
	Provider struct {
		URL       string
		JWTSecret string
		AnonKey   string
	}
	Payment struct {
		SecretKey  string
		Production bool
		Currency   string
	}
	Upload struct {
		Dir        string
		PublicPath string
		MaxBytes   int64
		ThumbWidth int
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Schedule struct {
		Enabled             bool
		DonationExpiry      string // Cron format
		AuditCleanup        string // Cron format
		StaleDonationMaxAge time.Duration
	}
	Audit struct {
		RetentionDays int
		ArchiveDir    string // Deleted CMS records are snapshotted here as JSON; empty disables it
	}
)

// NewConfig reads configuration from the environment, loading a .env file first if present.
func NewConfig() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("site_url", "http://localhost:8080")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	v.SetDefault("database_driver", string(DatabaseDriverSQLite))
	v.SetDefault("database_url", "")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_log_level", "warn")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	v.SetDefault("auth_session_secret", "")
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_secure_cookies", true)
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_rate_limit_window", "15m")
	v.SetDefault("auth_lockout_duration", "30m")

	v.SetDefault("auth_provider_url", "")
	v.SetDefault("auth_provider_jwt_secret", "")
	v.SetDefault("auth_provider_anon_key", "")

	v.SetDefault("payment_secret_key", "")
	v.SetDefault("payment_production", false)
	v.SetDefault("payment_currency", "USD")

	v.SetDefault("upload_dir", DefaultUploadDir)
	v.SetDefault("upload_public_path", "/uploads")
	v.SetDefault("upload_max_bytes", DefaultUploadMaxBytes)
	v.SetDefault("upload_thumb_width", 480)

	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	v.SetDefault("schedule_enabled", true)
	v.SetDefault("schedule_donation_expiry", "0 * * * *") // Hourly at :00
	v.SetDefault("schedule_audit_cleanup", "30 3 * * *") // Daily at 03:30
	v.SetDefault("schedule_stale_donation_max_age", "72h")

	v.SetDefault("audit_retention_days", 90)
	v.SetDefault("audit_archive_dir", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Site: Site{
			URL: v.GetString("SITE_URL"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:   DatabaseDriver(v.GetString("DATABASE_DRIVER")),
			URL:      v.GetString("DATABASE_URL"),
			Path:     v.GetString("DATABASE_PATH"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Auth: Auth{
			SessionSecret:    v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:  v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:       v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		Provider: Provider{
			URL:       v.GetString("AUTH_PROVIDER_URL"),
			JWTSecret: v.GetString("AUTH_PROVIDER_JWT_SECRET"),
			AnonKey:   v.GetString("AUTH_PROVIDER_ANON_KEY"),
		},
		Payment: Payment{
			SecretKey:  v.GetString("PAYMENT_SECRET_KEY"),
			Production: v.GetBool("PAYMENT_PRODUCTION"),
			Currency:   v.GetString("PAYMENT_CURRENCY"),
		},
		Upload: Upload{
			Dir:        v.GetString("UPLOAD_DIR"),
			PublicPath: v.GetString("UPLOAD_PUBLIC_PATH"),
			MaxBytes:   v.GetInt64("UPLOAD_MAX_BYTES"),
			ThumbWidth: v.GetInt("UPLOAD_THUMB_WIDTH"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Schedule: Schedule{
			Enabled:             v.GetBool("SCHEDULE_ENABLED"),
			DonationExpiry:      v.GetString("SCHEDULE_DONATION_EXPIRY"),
			AuditCleanup:        v.GetString("SCHEDULE_AUDIT_CLEANUP"),
			StaleDonationMaxAge: v.GetDuration("SCHEDULE_STALE_DONATION_MAX_AGE"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
			ArchiveDir:    v.GetString("AUDIT_ARCHIVE_DIR"),
		},
	}
}
