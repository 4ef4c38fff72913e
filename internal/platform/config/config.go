package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePgsql  = "pgsql"
	StorageMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StorageDriver  string
	MigrationsPath string

	JWTSecret string
	JWTIssuer string

	CORSAllowedOrigins []string
	RateLimit          string
	ShutdownTimeout    time.Duration

	ExportDefaultFormat string
	ExportDateShiftDays int

	GDriveCredentialsFile string
	GDriveRootFolderID    string

	KafkaBrokers []string
	KafkaTopic   string

	PosthogAPIKey   string
	PosthogEndpoint string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("STORAGE_DRIVER", StoragePgsql)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("EXPORT_DEFAULT_FORMAT", "xlsx")
	v.SetDefault("EXPORT_DATE_SHIFT_DAYS", 1)
	v.SetDefault("GDRIVE_CREDENTIALS_FILE", "")
	v.SetDefault("GDRIVE_ROOT_FOLDER_ID", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "ledger.entries_posted")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:           v.GetString("PGSQL_URL"),
		Port:                  v.GetString("PORT"),
		IsProduction:          v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:         v.GetBool("ENABLE_DB_CHECK"),
		StorageDriver:         strings.ToLower(v.GetString("STORAGE_DRIVER")),
		MigrationsPath:        v.GetString("MIGRATIONS_PATH"),
		JWTSecret:             v.GetString("JWT_SECRET"),
		JWTIssuer:             v.GetString("JWT_ISSUER"),
		CORSAllowedOrigins:    splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		RateLimit:             v.GetString("RATE_LIMIT"),
		ExportDefaultFormat:   strings.ToLower(v.GetString("EXPORT_DEFAULT_FORMAT")),
		ExportDateShiftDays:   v.GetInt("EXPORT_DATE_SHIFT_DAYS"),
		GDriveCredentialsFile: v.GetString("GDRIVE_CREDENTIALS_FILE"),
		GDriveRootFolderID:    v.GetString("GDRIVE_ROOT_FOLDER_ID"),
		KafkaBrokers:          splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:            v.GetString("KAFKA_TOPIC"),
		PosthogAPIKey:         v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:       v.GetString("POSTHOG_ENDPOINT"),
	}

	shutdown, err := time.ParseDuration(v.GetString("SHUTDOWN_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout = shutdown

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StoragePgsql:
		if c.DatabaseURL == "" {
			return fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER=%s", StoragePgsql)
		}
	case StorageMemory:
		if c.IsProduction {
			return fmt.Errorf("STORAGE_DRIVER=%s is not allowed in production", StorageMemory)
		}
		log.Println("Warning: using in-memory storage, data is lost on restart.")
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.JWTSecret == "" {
		if c.IsProduction {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		c.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	if c.ExportDefaultFormat != "xlsx" && c.ExportDefaultFormat != "csv" {
		return fmt.Errorf("EXPORT_DEFAULT_FORMAT must be xlsx or csv, got %q", c.ExportDefaultFormat)
	}
	if c.ExportDateShiftDays < 0 {
		return fmt.Errorf("EXPORT_DATE_SHIFT_DAYS must not be negative")
	}
	if c.Port == "" {
		c.Port = "8080"
	}
	return nil
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
