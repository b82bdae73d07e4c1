package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL     string
	TemporalAddress string
	HTTPListenAddr  string
	MetricsAddr     string
	LogLevel        string
	ServiceName     string

	// Notification delivery.
	NotifyEndpoint string
	NotifyAPIKey   string
	EmailFrom      string
	AlertEmail     string

	// SSH defaults for hosts that do not carry their own key path.
	SSHKeyPath        string
	SSLContactEmail   string
	CommandTimeoutSec int

	// Optional offsite backup archive (S3-compatible).
	ArchiveEndpoint  string
	ArchiveAccessKey string
	ArchiveSecretKey string
	ArchiveBucket    string
}

func Load() (*Config, error) {
	// A missing .env is fine; env vars win either way.
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		TemporalAddress:   getEnv("TEMPORAL_ADDRESS", "localhost:7233"),
		HTTPListenAddr:    getEnv("HTTP_LISTEN_ADDR", ":8090"),
		MetricsAddr:       getEnv("METRICS_ADDR", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ServiceName:       getEnv("SERVICE_NAME", ""),
		NotifyEndpoint:    getEnv("NOTIFY_ENDPOINT", ""),
		NotifyAPIKey:      getEnv("NOTIFY_API_KEY", ""),
		EmailFrom:         getEnv("EMAIL_FROM", "noreply@localhost"),
		AlertEmail:        getEnv("ALERT_EMAIL", ""),
		SSHKeyPath:        getEnv("SSH_KEY_PATH", os.ExpandEnv("${HOME}/.ssh/id_rsa")),
		SSLContactEmail:   getEnv("SSL_CONTACT_EMAIL", ""),
		CommandTimeoutSec: getEnvInt("COMMAND_TIMEOUT_SEC", 300),
		ArchiveEndpoint:   getEnv("ARCHIVE_ENDPOINT", ""),
		ArchiveAccessKey:  getEnv("ARCHIVE_ACCESS_KEY", ""),
		ArchiveSecretKey:  getEnv("ARCHIVE_SECRET_KEY", ""),
		ArchiveBucket:     getEnv("ARCHIVE_BUCKET", ""),
	}

	return cfg, nil
}

// Validate checks that the config carries everything the given role needs.
// Roles: "api", "worker".
func (c *Config) Validate(role string) error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	switch role {
	case "api":
		if c.HTTPListenAddr == "" {
			return fmt.Errorf("HTTP_LISTEN_ADDR is required")
		}
	case "worker":
		if c.TemporalAddress == "" {
			return fmt.Errorf("TEMPORAL_ADDRESS is required")
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
