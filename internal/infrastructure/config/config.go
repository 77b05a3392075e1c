// Package config resolves the application configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig encapsulates all runtime configuration knobs.
type AppConfig struct {
	App      AppSettings
	HTTP     HTTPSettings
	Log      LogSettings
	Database DatabaseSettings
	Emitter  EmitterSettings
}

type AppSettings struct {
	Name        string
	Version     string
	Environment string
}

type HTTPSettings struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type LogSettings struct {
	Level string
}

type DatabaseSettings struct {
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// EmitterSettings is the seller identity stamped on every invoice. It is
// loaded once at startup and treated as immutable for the process lifetime.
type EmitterSettings struct {
	SIREN      string
	SIRET      string
	Name       string
	Address    string
	BIC        string
	VATNumber  string
	Logo       string
	PDFStorage string
}

// Load resolves the application configuration from environment variables.
// It first attempts to load variables from a .env file if one exists;
// variables already set in the environment take precedence.
func Load() (AppConfig, error) {
	_ = godotenv.Load()

	cfg := AppConfig{
		App: AppSettings{
			Name:        getEnv("APP_NAME", "facturx"),
			Version:     getEnv("APP_VERSION", "0.1.0"),
			Environment: getEnv("APP_ENV", "local"),
		},
		HTTP: HTTPSettings{
			Port:            getEnvAsInt("APP_PORT", 3000),
			ReadTimeout:     getEnvAsDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:     getEnvAsDuration("HTTP_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Log: LogSettings{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseSettings{
			Host:            getEnv("DB_HOST", ""),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Database:        getEnv("DB_NAME", "facturx"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Emitter: EmitterSettings{
			SIREN:      strings.TrimSpace(os.Getenv("EMITTER_SIREN")),
			SIRET:      strings.TrimSpace(os.Getenv("EMITTER_SIRET")),
			Name:       strings.TrimSpace(os.Getenv("EMITTER_NAME")),
			Address:    strings.TrimSpace(os.Getenv("EMITTER_ADDRESS")),
			BIC:        strings.TrimSpace(os.Getenv("EMITTER_BIC")),
			VATNumber:  strings.TrimSpace(os.Getenv("EMITTER_VAT_NUMBER")),
			Logo:       strings.TrimSpace(os.Getenv("EMITTER_LOGO")),
			PDFStorage: strings.TrimSpace(os.Getenv("EMITTER_PDF_STORAGE")),
		},
	}

	if cfg.Emitter.SIRET == "" {
		return cfg, errors.New("invalid config: EMITTER_SIRET is required")
	}
	if cfg.Emitter.Name == "" {
		return cfg, errors.New("invalid config: EMITTER_NAME is required")
	}
	if cfg.Emitter.Address == "" {
		return cfg, errors.New("invalid config: EMITTER_ADDRESS is required")
	}

	return cfg, nil
}

// DatabaseConfigured reports whether enough settings are present to open a
// connection pool. Without a database the service still generates invoices,
// it just skips archiving.
func (c AppConfig) DatabaseConfigured() bool {
	return c.Database.Host != "" && c.Database.Database != ""
}

// Address returns the HTTP listen address in host:port form.
func (h HTTPSettings) Address() string {
	return fmt.Sprintf(":%d", h.Port)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
