package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every setting of the service. It is built once at startup and
// passed to the components that need it.
type Config struct {
	Env       string
	Host      string
	Port      string
	LogLevel  string
	LogFormat string

	AdminUser     string
	AdminPass     string
	AdminPassHash string

	PrimaryLocale   string
	SecondaryLocale string
	StoreBaseURL    string

	// Overrides applied on top of the persisted store settings
	WhatsappLink string
	RoundStep    int

	StorageDriver string
	DataDir       string
	DatabaseURL   string
	StaticDir     string

	AllowedOrigins  []string
	PublicRateLimit float64
	AdminRateLimit  float64

	ChromiumBin       string
	FetchTimeout      time.Duration
	FetchSettle       time.Duration
	ImportMaxAttempts int
	ImportBackoff     time.Duration
	MetadataRPS       float64
	MetadataTimeout   time.Duration

	ImportWorkers   int
	TaskRetention   time.Duration
	CleanupSchedule string
	PageSize        int
}

// Load reads .env (when present) and the process environment
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only
func FromEnv() (*Config, error) {
	cfg := &Config{
		Env:       getEnv("ENV", "development"),
		Host:      getEnv("HOST", "0.0.0.0"),
		Port:      getEnv("PORT", "3000"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		AdminUser:     getEnv("ADMIN_USER", ""),
		AdminPass:     getEnv("ADMIN_PASS", ""),
		AdminPassHash: getEnv("ADMIN_PASS_HASH", ""),

		PrimaryLocale:   strings.ToLower(getEnv("TR_LOCALE", "tr-tr")),
		SecondaryLocale: strings.ToLower(getEnv("UA_LOCALE", "ru-ua")),
		StoreBaseURL:    strings.TrimRight(getEnv("STORE_BASE_URL", "https://store.playstation.com"), "/"),

		WhatsappLink: getEnv("WHATSAPP_LINK", ""),
		RoundStep:    getEnvInt("ROUND_STEP", 0),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", DriverFile)),
		DataDir:       getEnv("DATA_DIR", "data"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		StaticDir:     getEnv("STATIC_DIR", "public"),

		AllowedOrigins:  getEnvList("ALLOWED_ORIGINS", []string{"*"}),
		PublicRateLimit: getEnvFloat("PUBLIC_RATE_LIMIT", 20),
		AdminRateLimit:  getEnvFloat("ADMIN_RATE_LIMIT", 5),

		ChromiumBin:       getEnv("CHROMIUM_BIN", ""),
		FetchTimeout:      getEnvDuration("FETCH_TIMEOUT", 90*time.Second),
		FetchSettle:       getEnvDuration("FETCH_SETTLE", 1800*time.Millisecond),
		ImportMaxAttempts: getEnvInt("IMPORT_MAX_ATTEMPTS", 3),
		ImportBackoff:     getEnvDuration("IMPORT_BACKOFF", 800*time.Millisecond),
		MetadataRPS:       getEnvFloat("METADATA_RPS", 2),
		MetadataTimeout:   getEnvDuration("METADATA_TIMEOUT", 15*time.Second),

		ImportWorkers:   getEnvInt("IMPORT_WORKERS", 1),
		TaskRetention:   getEnvDuration("TASK_RETENTION", time.Hour),
		CleanupSchedule: getEnv("CLEANUP_SCHEDULE", "0 */5 * * * *"),
		PageSize:        getEnvInt("CATALOG_PAGE_SIZE", 24),
	}

	if cfg.StorageDriver == DriverSQLite && cfg.DatabaseURL == "" {
		cfg.DatabaseURL = filepath.Join(cfg.DataDir, "catalog.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be defaulted
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverFile, DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for postgres storage", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown STORAGE_DRIVER %q", ErrInvalidConfig, c.StorageDriver)
	}
	if c.RoundStep != 0 && c.RoundStep != 50 && c.RoundStep != 100 {
		return fmt.Errorf("%w: ROUND_STEP must be 50 or 100", ErrInvalidConfig)
	}
	if c.ImportMaxAttempts < 1 {
		return fmt.Errorf("%w: IMPORT_MAX_ATTEMPTS must be positive", ErrInvalidConfig)
	}
	if c.ImportWorkers < 1 {
		return fmt.Errorf("%w: IMPORT_WORKERS must be positive", ErrInvalidConfig)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("%w: CATALOG_PAGE_SIZE must be positive", ErrInvalidConfig)
	}
	return nil
}

// AdminEnabled reports whether admin credentials are configured
func (c *Config) AdminEnabled() bool {
	return c.AdminUser != "" && (c.AdminPass != "" || c.AdminPassHash != "")
}

// Addr is the listen address
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
