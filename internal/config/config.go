package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Port string

	// PostgresURL wins over the discrete PG* settings when set.
	PostgresURL string
	PGHost      string
	PGPort      string
	PGUser      string
	PGPassword  string
	PGDatabase  string
	PGSSLMode   string

	LogLevel string
	TopK     int
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		PostgresURL: getEnv("POSTGRES_URL", ""),
		PGHost:      getEnv("PGHOST", "localhost"),
		PGPort:      getEnv("PGPORT", "5432"),
		PGUser:      getEnv("PGUSER", ""),
		PGPassword:  getEnv("PGPASSWORD", ""),
		PGDatabase:  getEnv("PGDATABASE", "investments"),
		PGSSLMode:   getEnv("PGSSLMODE", "disable"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		TopK:        getEnvInt("TOP_K", 10),
	}
}

// DSN returns the connection string for lib/pq.
func (c *Config) DSN() string {
	if c.PostgresURL != "" {
		return c.PostgresURL
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     c.PGHost + ":" + c.PGPort,
		Path:     "/" + c.PGDatabase,
		RawQuery: "sslmode=" + url.QueryEscape(c.PGSSLMode),
	}
	if c.PGPassword != "" {
		u.User = url.UserPassword(c.PGUser, c.PGPassword)
	} else if c.PGUser != "" {
		u.User = url.User(c.PGUser)
	}
	return u.String()
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.PostgresURL != "" {
		if u, err := url.Parse(c.PostgresURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid POSTGRES_URL: %v", err))
		} else if u.Scheme != "postgres" && u.Scheme != "postgresql" {
			errs = append(errs, fmt.Sprintf("invalid POSTGRES_URL scheme '%s': must be 'postgres' or 'postgresql'", u.Scheme))
		}
	} else {
		if c.PGUser == "" {
			errs = append(errs, "PGUSER is required when POSTGRES_URL is not set")
		}
		if c.PGDatabase == "" {
			errs = append(errs, "PGDATABASE cannot be empty")
		}
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}

	if c.TopK < 1 {
		errs = append(errs, fmt.Sprintf("invalid TOP_K %d: must be positive", c.TopK))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Level is the parsed LogLevel, falling back to info.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if iv, err := strconv.Atoi(v); err == nil {
			return iv
		}
	}
	return fallback
}
