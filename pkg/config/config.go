package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Storage  StorageConfig
	Lookup   LookupConfig
	Filing   FilingConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type StorageConfig struct {
	Type      string
	LocalPath string
}

// LookupConfig points at the GSTIN lookup provider. An empty BaseURL selects
// the embedded static registry.
type LookupConfig struct {
	BaseURL string
	APIKey  string
}

type FilingConfig struct {
	// SellerGSTIN is the default seller registration used when no profile
	// is active.
	SellerGSTIN string
	// ValidationChunkSize overrides the batch size for progress-reporting
	// validation runs.
	ValidationChunkSize int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Database: getEnv("POSTGRES_DB", "gst-filing-dev"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Storage: StorageConfig{
			Type:      getEnv("STORAGE_TYPE", "local"),
			LocalPath: getEnv("STORAGE_LOCAL_PATH", "./artifacts"),
		},
		Lookup: LookupConfig{
			BaseURL: getEnv("GST_LOOKUP_BASE_URL", ""),
			APIKey:  getEnv("GST_LOOKUP_API_KEY", ""),
		},
		Filing: FilingConfig{
			SellerGSTIN:         getEnv("SELLER_GSTIN", ""),
			ValidationChunkSize: getEnvAsInt("VALIDATION_CHUNK_SIZE", 200),
		},
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
