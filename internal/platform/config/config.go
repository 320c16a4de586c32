package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// Remote ledger
	LedgerBaseURL            string
	LedgerAPIKey             string
	LedgerAPISecret          string
	LedgerBearerToken        string
	LedgerTimeout            time.Duration
	LedgerBreakerMaxFailures uint32
	LedgerBreakerOpenTimeout time.Duration
	BankImportMethod         string
	SearchDefaultLimit       int
	JournalListLimit         int

	// Batch run audit store; empty DatabaseURL disables it.
	DatabaseURL    string
	MigrationsPath string

	// API surface
	JWTSecret          string
	APIKeyHash         string
	RateLimit          string
	CORSAllowedOrigins []string
	MetricsNamespace   string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LEDGER_BASE_URL", "")
	v.SetDefault("LEDGER_API_KEY", "")
	v.SetDefault("LEDGER_API_SECRET", "")
	v.SetDefault("LEDGER_BEARER_TOKEN", "")
	v.SetDefault("LEDGER_TIMEOUT", "30s")
	v.SetDefault("LEDGER_BREAKER_MAX_FAILURES", 5)
	v.SetDefault("LEDGER_BREAKER_OPEN_TIMEOUT", "30s")
	v.SetDefault("BANK_IMPORT_METHOD", "")
	v.SetDefault("SEARCH_DEFAULT_LIMIT", 100)
	v.SetDefault("JOURNAL_LIST_LIMIT", 20)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("MIGRATIONS_PATH", "migrations")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("API_KEY_HASH", "")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("METRICS_NAMESPACE", "ledger_bridge")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		LedgerBaseURL:      strings.TrimSpace(v.GetString("LEDGER_BASE_URL")),
		LedgerAPIKey:       v.GetString("LEDGER_API_KEY"),
		LedgerAPISecret:    v.GetString("LEDGER_API_SECRET"),
		LedgerBearerToken:  v.GetString("LEDGER_BEARER_TOKEN"),
		BankImportMethod:   v.GetString("BANK_IMPORT_METHOD"),
		SearchDefaultLimit: v.GetInt("SEARCH_DEFAULT_LIMIT"),
		JournalListLimit:   v.GetInt("JOURNAL_LIST_LIMIT"),
		DatabaseURL:        v.GetString("PGSQL_URL"),
		MigrationsPath:     v.GetString("MIGRATIONS_PATH"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		APIKeyHash:         v.GetString("API_KEY_HASH"),
		RateLimit:          v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		MetricsNamespace:   v.GetString("METRICS_NAMESPACE"),
	}

	if cfg.LedgerBaseURL == "" {
		return nil, fmt.Errorf("LEDGER_BASE_URL is required")
	}
	if cfg.LedgerBearerToken == "" && (cfg.LedgerAPIKey == "") != (cfg.LedgerAPISecret == "") {
		return nil, fmt.Errorf("LEDGER_API_KEY and LEDGER_API_SECRET must be set together")
	}
	if cfg.JWTSecret == "" && cfg.APIKeyHash == "" {
		return nil, fmt.Errorf("at least one of JWT_SECRET or API_KEY_HASH is required")
	}

	var err error
	if cfg.LedgerTimeout, err = parseDuration(v, "LEDGER_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.LedgerBreakerOpenTimeout, err = parseDuration(v, "LEDGER_BREAKER_OPEN_TIMEOUT"); err != nil {
		return nil, err
	}

	maxFailures := v.GetInt("LEDGER_BREAKER_MAX_FAILURES")
	if maxFailures <= 0 {
		return nil, fmt.Errorf("LEDGER_BREAKER_MAX_FAILURES must be positive, got %d", maxFailures)
	}
	cfg.LedgerBreakerMaxFailures = uint32(maxFailures)

	if cfg.DatabaseURL == "" {
		slog.Warn("PGSQL_URL not set. Batch runs will not be audited.")
	}
	if cfg.LedgerAPIKey == "" && cfg.LedgerBearerToken == "" {
		slog.Warn("No ledger credentials configured. Requests will be sent unauthenticated.")
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s (%q): %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
