package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL      string
	HTTPAddr         string
	LogLevel         string
	Environment      string
	JWTSecret        string
	ServiceRoleKey   string // Shared secret the edge functions use to call each other
	FunctionsBaseURL string
	CORSOrigins      []string

	RedisURL string // Empty selects the in-process cache
	CacheTTL time.Duration

	TelegramToken  string // Empty disables the bot
	SendGridAPIKey string // Empty disables e-mail delivery
	EmailFrom      string
	AppName        string

	BackupDir           string
	BackupRetentionDays int

	UpcomingWindow time.Duration

	CronSpecUpcomingCheck    string
	CronSpecNextDayReminders string
	CronSpecDailyReport      string
	CronSpecAutoBackup       string

	PriceIDBasic    string
	PriceIDStandard string
	PriceIDPremium  string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	cfg.ServiceRoleKey = os.Getenv("SERVICE_ROLE_KEY")
	if cfg.ServiceRoleKey == "" {
		return nil, fmt.Errorf("SERVICE_ROLE_KEY is not set")
	}

	cfg.HTTPAddr = envOr("HTTP_ADDR", ":8080")
	cfg.LogLevel = strings.ToLower(envOr("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(envOr("ENVIRONMENT", "development"))
	cfg.FunctionsBaseURL = strings.TrimRight(envOr("FUNCTIONS_BASE_URL", "http://localhost:8080/functions/v1"), "/")

	for _, origin := range strings.Split(envOr("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.CacheTTL, err = time.ParseDuration(envOr("CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	cfg.AppName = envOr("APP_NAME", "TutorHub")
	cfg.EmailFrom = envOr("EMAIL_FROM", "no-reply@tutorhub.local")
	if cfg.SendGridAPIKey != "" && os.Getenv("EMAIL_FROM") == "" {
		return nil, fmt.Errorf("EMAIL_FROM must be set when SENDGRID_API_KEY is set")
	}

	cfg.BackupDir = envOr("BACKUP_DIR", "./backups")
	cfg.BackupRetentionDays, err = strconv.Atoi(envOr("BACKUP_RETENTION_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKUP_RETENTION_DAYS: %w", err)
	}
	if cfg.BackupRetentionDays < 1 {
		return nil, fmt.Errorf("BACKUP_RETENTION_DAYS must be positive, got %d", cfg.BackupRetentionDays)
	}

	windowMinutes, err := strconv.Atoi(envOr("UPCOMING_WINDOW_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPCOMING_WINDOW_MINUTES: %w", err)
	}
	cfg.UpcomingWindow = time.Duration(windowMinutes) * time.Minute

	cfg.CronSpecUpcomingCheck = envOr("CRON_SPEC_UPCOMING_CHECK", "* * * * *")        // Every minute
	cfg.CronSpecNextDayReminders = envOr("CRON_SPEC_NEXT_DAY_REMINDERS", "0 18 * * *") // 6 PM daily
	cfg.CronSpecDailyReport = envOr("CRON_SPEC_DAILY_REPORT", "0 8 * * *")             // 8 AM daily
	cfg.CronSpecAutoBackup = envOr("CRON_SPEC_AUTO_BACKUP", "0 3 * * *")               // 3 AM daily

	cfg.PriceIDBasic = os.Getenv("PAYMENT_PRICE_BASIC")
	cfg.PriceIDStandard = os.Getenv("PAYMENT_PRICE_STANDARD")
	cfg.PriceIDPremium = os.Getenv("PAYMENT_PRICE_PREMIUM")

	return cfg, nil
}

// IsProduction reports whether logs should be machine readable.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "staging"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
