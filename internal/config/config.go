package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Balance sources for the forecast starting balance
const (
	BalanceFromAccount  = "account"
	BalanceFromMonthNet = "month_net"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBConn    string
	LogLevel  string
	JWTSecret string

	HorizonDays   int
	Location      *time.Location
	BalanceSource string

	ReminderCron        string
	ReminderWindowDays  int
	LowBalanceThreshold float64

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

// NewConfig loads configuration from environment variables. A .env file in
// the working directory is read first if present.
func NewConfig() (*Config, error) {
	// a missing .env is fine, real environment variables still apply
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBConn:        getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=cashflow sslmode=disable"),
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:     getEnv("JWT_SECRET", "secret"),
		BalanceSource: getEnv("BALANCE_SOURCE", BalanceFromAccount),
		ReminderCron:  getEnv("REMINDER_CRON", "0 8 * * *"),
		SMTPHost:      getEnv("SMTP_HOST", "localhost"),
		SMTPPort:      getEnv("SMTP_PORT", "25"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SenderEmail:   getEnv("SENDER_EMAIL", "forecast@localhost"),
	}

	var err error
	if cfg.HorizonDays, err = getEnvInt("FORECAST_HORIZON_DAYS", 30); err != nil {
		return nil, err
	}
	if cfg.ReminderWindowDays, err = getEnvInt("REMINDER_WINDOW_DAYS", 7); err != nil {
		return nil, err
	}
	threshold := getEnv("LOW_BALANCE_THRESHOLD", "0")
	if cfg.LowBalanceThreshold, err = strconv.ParseFloat(threshold, 64); err != nil {
		return nil, fmt.Errorf("LOW_BALANCE_THRESHOLD must be a number: %w", err)
	}
	if cfg.Location, err = time.LoadLocation(getEnv("FORECAST_TIMEZONE", "UTC")); err != nil {
		return nil, fmt.Errorf("invalid FORECAST_TIMEZONE: %w", err)
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.HorizonDays <= 0 {
		return nil, fmt.Errorf("FORECAST_HORIZON_DAYS must be positive, got %d", cfg.HorizonDays)
	}
	if cfg.ReminderWindowDays <= 0 {
		return nil, fmt.Errorf("REMINDER_WINDOW_DAYS must be positive, got %d", cfg.ReminderWindowDays)
	}
	if cfg.BalanceSource != BalanceFromAccount && cfg.BalanceSource != BalanceFromMonthNet {
		return nil, fmt.Errorf("BALANCE_SOURCE must be %q or %q, got %q", BalanceFromAccount, BalanceFromMonthNet, cfg.BalanceSource)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
