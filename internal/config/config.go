package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Lookup   LookupConfig
	Cache    CacheConfig
	Backup   BackupConfig
	Expiry   ExpiryConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// StorageConfig locates the ledger and taxonomy files.
type StorageConfig struct {
	DataFile    string
	OptionsFile string
}

// DatabaseConfig holds database-related configuration. The database is only
// used for the lookup cache.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string
}

// LookupConfig configures the barcode lookup cascade.
type LookupConfig struct {
	Providers        []string // in priority order
	Timeout          time.Duration
	OpenFoodFactsURL string
	UPCItemDBURL     string
	OpenGTINDBURL    string
}

// CacheConfig configures the Postgres lookup cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// BackupConfig configures export archives.
type BackupConfig struct {
	Dir string
	S3  S3Config
}

// S3Config holds AWS S3 configuration for export archives.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "larder/")
}

// ExpiryConfig configures the expiry sweep.
type ExpiryConfig struct {
	SweepSchedule  string // cron spec
	NotifyInterval time.Duration
	SoonDays       int
	SummaryDays    int
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Storage: StorageConfig{
			DataFile:    getEnv("DATA_FILE", "inventory_data.json"),
			OptionsFile: getEnv("OPTIONS_FILE", "inventory_options.json"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "larder"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 1),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		Lookup: LookupConfig{
			Providers:        getEnvAsList("LOOKUP_PROVIDERS", []string{"openfoodfacts", "upcitemdb", "opengtindb"}),
			Timeout:          time.Duration(getEnvAsInt("LOOKUP_TIMEOUT_SECONDS", 5)) * time.Second,
			OpenFoodFactsURL: getEnv("OPENFOODFACTS_URL", ""),
			UPCItemDBURL:     getEnv("UPCITEMDB_URL", ""),
			OpenGTINDBURL:    getEnv("OPENGTINDB_URL", ""),
		},
		Cache: CacheConfig{
			Enabled: getEnvAsBool("LOOKUP_CACHE_ENABLED", false),
			TTL:     time.Duration(getEnvAsInt("LOOKUP_CACHE_TTL_HOURS", 24*30)) * time.Hour,
		},
		Backup: BackupConfig{
			Dir: getEnv("BACKUP_DIR", "backups"),
			S3: S3Config{
				Enabled: getEnvAsBool("S3_ENABLED", false),
				Bucket:  getEnv("S3_BUCKET", ""),
				Region:  getEnv("S3_REGION", "us-east-1"),
				Prefix:  getEnv("S3_PREFIX", "larder/"),
			},
		},
		Expiry: ExpiryConfig{
			SweepSchedule:  getEnv("EXPIRY_SWEEP_SCHEDULE", "@every 1h"),
			NotifyInterval: time.Duration(getEnvAsInt("EXPIRY_NOTIFY_INTERVAL_HOURS", 6)) * time.Hour,
			SoonDays:       getEnvAsInt("EXPIRY_SOON_DAYS", 3),
			SummaryDays:    getEnvAsInt("EXPIRY_SUMMARY_DAYS", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Storage.DataFile == "" {
		return fmt.Errorf("data file is required")
	}

	if c.Storage.OptionsFile == "" {
		return fmt.Errorf("options file is required")
	}

	if c.Storage.DataFile == c.Storage.OptionsFile {
		return fmt.Errorf("data file and options file must differ")
	}

	if c.Cache.Enabled {
		if err := c.Database.validate(); err != nil {
			return err
		}
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Lookup.Timeout <= 0 {
		return fmt.Errorf("lookup timeout must be positive")
	}

	if c.Backup.S3.Enabled {
		if c.Backup.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.Backup.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if _, err := cron.ParseStandard(c.Expiry.SweepSchedule); err != nil {
		return fmt.Errorf("invalid expiry sweep schedule %q: %w", c.Expiry.SweepSchedule, err)
	}

	if c.Expiry.NotifyInterval <= 0 {
		return fmt.Errorf("expiry notify interval must be positive")
	}

	if c.Expiry.SoonDays < 0 || c.Expiry.SummaryDays < 0 {
		return fmt.Errorf("expiry thresholds cannot be negative")
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsList retrieves a comma-separated environment variable or returns a default value.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
