package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// ErrMisconfigured wraps every Validate failure.
var ErrMisconfigured = errors.New("invalid configuration")

const (
	BackendGoogle = "google"
	BackendXLSX   = "xlsx"

	LimiterMemory   = "memory"
	LimiterPostgres = "postgres"

	minProductionSecret = 32
	maxSessionTTL       = 30 * 24 * time.Hour
)

type Config struct {
	Environment   string
	ListenAddr    string
	EnableMetrics bool

	SheetsBackend     string
	GoogleSheetID     string
	GoogleClientEmail string
	GooglePrivateKey  string
	XLSXPath          string
	LayoutPath        string

	JWTSecret        string
	AuthorizedPins   []string
	AuthorizedHashes []string
	SessionTTL       time.Duration

	CacheTTL    time.Duration
	EmailDomain string
	Timezone    string

	RateLimitStore string
	DBDSN          string
}

// Load reads .env when present, then the environment, applying defaults.
func Load() *Config {
	_ = godotenv.Load()

	privateKey := strings.ReplaceAll(os.Getenv("GOOGLE_PRIVATE_KEY"), `\n`, "\n")

	config := &Config{
		Environment:   getEnv("ENVIRONMENT", "development"),
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		EnableMetrics: os.Getenv("ENABLE_METRICS") == "true",

		SheetsBackend:     getEnv("SHEETS_BACKEND", BackendGoogle),
		GoogleSheetID:     os.Getenv("GOOGLE_SHEET_ID"),
		GoogleClientEmail: os.Getenv("GOOGLE_CLIENT_EMAIL"),
		GooglePrivateKey:  privateKey,
		XLSXPath:          os.Getenv("XLSX_PATH"),
		LayoutPath:        os.Getenv("SHEETS_LAYOUT"),

		JWTSecret:        getEnv("JWT_SECRET", privateKey),
		AuthorizedPins:   splitExact(os.Getenv("AUTHORIZED_PINS")),
		AuthorizedHashes: splitList(os.Getenv("AUTHORIZED_PIN_HASHES")),
		SessionTTL:       getDuration("SESSION_TTL", 24*time.Hour),

		CacheTTL:    getDuration("CACHE_TTL", 30*time.Second),
		EmailDomain: getEnv("EMAIL_DOMAIN", "wppmedia.com"),
		Timezone:    getEnv("TIMEZONE", "Asia/Jakarta"),

		RateLimitStore: getEnv("RATE_LIMIT_STORE", LimiterMemory),
		DBDSN:          os.Getenv("DB_DSN"),
	}

	return config
}

// LoadAndValidate loads the configuration and validates it
func LoadAndValidate() (*Config, error) {
	config := Load()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration for startup problems
func (c *Config) Validate() error {
	switch c.SheetsBackend {
	case BackendGoogle:
		if c.GoogleSheetID == "" {
			return invalid("GOOGLE_SHEET_ID is required for the google backend")
		}
	case BackendXLSX:
		if c.XLSXPath == "" {
			return invalid("XLSX_PATH is required for the xlsx backend")
		}
	default:
		return invalid("unknown SHEETS_BACKEND %q", c.SheetsBackend)
	}

	switch c.RateLimitStore {
	case LimiterMemory:
	case LimiterPostgres:
		if c.DBDSN == "" {
			return invalid("DB_DSN is required for the postgres rate limit store")
		}
	default:
		return invalid("unknown RATE_LIMIT_STORE %q", c.RateLimitStore)
	}

	if c.SessionTTL <= 0 {
		return invalid("SESSION_TTL must be positive")
	}
	if c.SessionTTL > maxSessionTTL {
		return invalid("SESSION_TTL must not exceed 30 days")
	}
	if c.CacheTTL <= 0 {
		return invalid("CACHE_TTL must be positive")
	}
	if _, err := c.Location(); err != nil {
		return invalid("unknown TIMEZONE %q", c.Timezone)
	}

	if c.IsProduction() {
		if c.JWTSecret == "" {
			return invalid("JWT_SECRET is required in production")
		}
		if len(c.JWTSecret) < minProductionSecret {
			return invalid("JWT_SECRET must be at least %d bytes in production", minProductionSecret)
		}
		if len(c.AuthorizedPins) == 0 && len(c.AuthorizedHashes) == 0 {
			return invalid("AUTHORIZED_PINS or AUTHORIZED_PIN_HASHES is required in production")
		}
	}
	return nil
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMisconfigured, fmt.Sprintf(format, args...))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return defaultValue
}

// splitExact splits on commas and keeps entries byte for byte, so a PIN must
// match exactly what was configured. Empty entries are dropped.
func splitExact(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
