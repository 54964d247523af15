package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config struct {
	Addr                string
	Environment         string
	LogLevel            string
	FrontendDir         string
	StorageBackend      string
	DataDir             string
	SQLitePath          string
	DatabaseURL         string
	DataEncryptionKey   string
	JWTSecret           string
	TokenTTL            time.Duration
	TaskWebhookURL      string
	NewHireWebhookURL   string
	WebhookTimeout      time.Duration
	MockLatency         time.Duration
	SurveyCheckInterval time.Duration
	MaxBodyBytes        int64
	RateLimitPerMinute  int
	MetricsEnabled      bool
	EmailEnabled        bool
	EmailFrom           string
	SMTPHost            string
	SMTPPort            int
	SMTPUser            string
	SMTPPassword        string
	SMTPUseTLS          bool
}

var defaults = map[string]any{
	"APP_ADDR":              ":8080",
	"APP_ENV":               "development",
	"LOG_LEVEL":             "info",
	"FRONTEND_DIR":          "frontend/dist",
	"STORAGE_BACKEND":       BackendFile,
	"DATA_DIR":              "data",
	"SQLITE_PATH":           "data/onboarding.db",
	"DATABASE_URL":          "",
	"DATA_ENCRYPTION_KEY":   "",
	"JWT_SECRET":            "dev-secret",
	"TOKEN_TTL":             "8h",
	"TASK_WEBHOOK_URL":      "",
	"NEW_HIRE_WEBHOOK_URL":  "",
	"WEBHOOK_TIMEOUT":       "10s",
	"MOCK_LATENCY":          "0s",
	"SURVEY_CHECK_INTERVAL": "1h",
	"MAX_BODY_BYTES":        1048576,
	"RATE_LIMIT_PER_MINUTE": 120,
	"METRICS_ENABLED":       true,
	"EMAIL_ENABLED":         false,
	"EMAIL_FROM":            "onboarding@acme.com",
	"SMTP_HOST":             "",
	"SMTP_PORT":             587,
	"SMTP_USER":             "",
	"SMTP_PASSWORD":         "",
	"SMTP_USE_TLS":          true,
}

// Load reads configuration from the environment, falling back to the YAML
// file named by CONFIG_FILE (keys use the same names as the env vars) and
// then to defaults.
func Load() (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Addr:                v.GetString("APP_ADDR"),
		Environment:         v.GetString("APP_ENV"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		FrontendDir:         v.GetString("FRONTEND_DIR"),
		StorageBackend:      strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_BACKEND"))),
		DataDir:             v.GetString("DATA_DIR"),
		SQLitePath:          v.GetString("SQLITE_PATH"),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		DataEncryptionKey:   v.GetString("DATA_ENCRYPTION_KEY"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		TokenTTL:            v.GetDuration("TOKEN_TTL"),
		TaskWebhookURL:      v.GetString("TASK_WEBHOOK_URL"),
		NewHireWebhookURL:   v.GetString("NEW_HIRE_WEBHOOK_URL"),
		WebhookTimeout:      v.GetDuration("WEBHOOK_TIMEOUT"),
		MockLatency:         v.GetDuration("MOCK_LATENCY"),
		SurveyCheckInterval: v.GetDuration("SURVEY_CHECK_INTERVAL"),
		MaxBodyBytes:        v.GetInt64("MAX_BODY_BYTES"),
		RateLimitPerMinute:  v.GetInt("RATE_LIMIT_PER_MINUTE"),
		MetricsEnabled:      v.GetBool("METRICS_ENABLED"),
		EmailEnabled:        v.GetBool("EMAIL_ENABLED"),
		EmailFrom:           v.GetString("EMAIL_FROM"),
		SMTPHost:            v.GetString("SMTP_HOST"),
		SMTPPort:            v.GetInt("SMTP_PORT"),
		SMTPUser:            v.GetString("SMTP_USER"),
		SMTPPassword:        v.GetString("SMTP_PASSWORD"),
		SMTPUseTLS:          v.GetBool("SMTP_USE_TLS"),
	}
}

func (c Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory:
	case BackendFile:
		if strings.TrimSpace(c.DataDir) == "" {
			return errors.New("DATA_DIR is required for the file backend")
		}
	case BackendSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" || c.JWTSecret == "dev-secret" {
			return errors.New("JWT_SECRET must be set to a strong value in production")
		}
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.MockLatency < 0 {
		return errors.New("MOCK_LATENCY must not be negative")
	}
	if c.MaxBodyBytes < 1024 {
		return errors.New("MAX_BODY_BYTES must be at least 1024")
	}
	if c.EmailEnabled && strings.TrimSpace(c.SMTPHost) != "" && strings.TrimSpace(c.EmailFrom) == "" {
		return errors.New("EMAIL_FROM is required when email is enabled")
	}
	if c.RateLimitPerMinute <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}
