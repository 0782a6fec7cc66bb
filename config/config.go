package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Snapshot backends.
const (
	SnapshotBackendPostgres = "postgres"
	SnapshotBackendMemory   = "memory"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV:
//
//	SERVER_PORT=8080
//	UPSTREAM_BASE_URL=http://localhost:8000
//	UPSTREAM_TIMEOUT=15s
//	DEFAULT_TICKER=SPY
//	SNAPSHOT_BACKEND=postgres
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=forecastpulse
//	CORS_ALLOWED_ORIGINS=http://localhost:3000
//	RATE_LIMIT_RPS=5
//	RATE_LIMIT_BURST=20
//	WARM_SCHEDULE=@every 30m
//	WARM_PARALLEL=4
type Config struct {
	Server    ServerConfig
	Upstream  UpstreamConfig
	Dashboard DashboardConfig
	Snapshot  SnapshotConfig
	Postgres  PostgresConfig
	Warmup    WarmupConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration
	AllowedOrigins []string // CORS; empty allows none
	RateLimitRPS   float64  // per client IP; 0 disables
	RateLimitBurst int
}

// UpstreamConfig points at the prediction/history service.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

// DashboardConfig holds dashboard defaults.
type DashboardConfig struct {
	DefaultTicker string
}

// SnapshotConfig selects where last-known-good datasets are kept.
type SnapshotConfig struct {
	Backend string // "postgres" or "memory"
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// WarmupConfig controls scheduled snapshot refreshes.
type WarmupConfig struct {
	Schedule string // cron spec; empty disables
	Parallel int
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REQUEST_TIMEOUT", "30s")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT_RPS", 5)
	viper.SetDefault("RATE_LIMIT_BURST", 20)

	viper.SetDefault("UPSTREAM_BASE_URL", "http://localhost:8000")
	viper.SetDefault("UPSTREAM_TIMEOUT", "15s")
	viper.SetDefault("DEFAULT_TICKER", "SPY")
	viper.SetDefault("SNAPSHOT_BACKEND", SnapshotBackendPostgres)

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "forecastpulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("WARM_SCHEDULE", "")
	viper.SetDefault("WARM_PARALLEL", 4)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			RequestTimeout: viper.GetDuration("REQUEST_TIMEOUT"),
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			RateLimitRPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst: viper.GetInt("RATE_LIMIT_BURST"),
		},
		Upstream: UpstreamConfig{
			BaseURL: strings.TrimRight(viper.GetString("UPSTREAM_BASE_URL"), "/"),
			Timeout: viper.GetDuration("UPSTREAM_TIMEOUT"),
		},
		Dashboard: DashboardConfig{
			DefaultTicker: strings.TrimSpace(viper.GetString("DEFAULT_TICKER")),
		},
		Snapshot: SnapshotConfig{
			Backend: strings.ToLower(strings.TrimSpace(viper.GetString("SNAPSHOT_BACKEND"))),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Warmup: WarmupConfig{
			Schedule: strings.TrimSpace(viper.GetString("WARM_SCHEDULE")),
			Parallel: viper.GetInt("WARM_PARALLEL"),
		},
	}

	AppConfig.Postgres.URL = AppConfig.Postgres.DSN()

	validateConfig()
}

// DSN builds the PostgreSQL connection URL.
func (p PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:     "/" + p.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}
	return u.String()
}

// validateConfig terminates the application with log.Fatalf when required
// variables are missing or invalid.
func validateConfig() {
	if missing := missingKeys(AppConfig); len(missing) > 0 {
		log.Fatalf("❌ Missing or invalid environment variables: %v\n", missing)
	}
}

// missingKeys lists the variables that are required but unset or invalid.
// Postgres settings are only required for the postgres snapshot backend.
func missingKeys(cfg Config) []string {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if u, err := url.Parse(cfg.Upstream.BaseURL); cfg.Upstream.BaseURL == "" || err != nil || u.Scheme == "" || u.Host == "" {
		missing = append(missing, "UPSTREAM_BASE_URL")
	}
	if cfg.Upstream.Timeout < 0 {
		missing = append(missing, "UPSTREAM_TIMEOUT")
	}
	if cfg.Dashboard.DefaultTicker == "" {
		missing = append(missing, "DEFAULT_TICKER")
	}

	switch cfg.Snapshot.Backend {
	case SnapshotBackendMemory:
	case SnapshotBackendPostgres:
		if cfg.Postgres.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if cfg.Postgres.Port == 0 {
			missing = append(missing, "POSTGRES_PORT")
		}
		if cfg.Postgres.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if cfg.Postgres.Password == "" {
			missing = append(missing, "POSTGRES_PASSWORD")
		}
		if cfg.Postgres.DBName == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	default:
		missing = append(missing, "SNAPSHOT_BACKEND")
	}

	return missing
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
