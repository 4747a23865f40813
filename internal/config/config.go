package config

import (
	"fmt"
	"github.com/joho/godotenv"
	"os"
	"strconv"
	"time"
)

// Listing store backends.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

// Media store backends.
const (
	MediaS3    = "s3"
	MediaMinIO = "minio"
)

// Config holds all configuration for the application.
type Config struct {
	// Environment
	RunMode string // Set via flag, not env

	// Listing store
	ListingStore string
	MongoURI     string
	MongoDbName  string
	PostgresDSN  string

	// Redis
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	SnapshotCacheTTL time.Duration

	// Server
	ApiPort           string
	ServiceApiPort    string
	CorsAllowedOrigin string

	// Media store
	MediaBackend    string
	MediaBucket     string
	MediaPathPrefix string
	ImageMaxSizeMB  int

	// AWS S3
	AwsAccessKeyID     string
	AwsSecretAccessKey string
	AwsRegion          string
	AwsS3Endpoint      string
	ImageBaseS3URL     string

	// MinIO
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOUseSSL    bool

	// Email
	SmtpHost        string
	SmtpPort        int
	SmtpUsername    string
	SmtpPassword    string
	SmtpFromAddress string
	MockServices    bool   // store emails in Redis instead of sending them
	LogEmailsPath   string // also append every email to this file when set

	// Logging
	LogLevel  string
	LogFormat string

	// App Defaults
	AppName              string
	SuccessRedirectDelay time.Duration
}

// Load configuration from environment variables.
// RunMode needs to be passed in as it comes from command-line flags.
func Load(runMode string) (*Config, error) {
	// Load .env file, ignoring errors if it doesn't exist
	godotenv.Load()

	cfg := &Config{
		RunMode: runMode,
	}

	var err error

	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		return defaultValue
	}

	getRequiredEnv := func(key string) (string, error) {
		value, exists := os.LookupEnv(key)
		if !exists || value == "" {
			return "", fmt.Errorf("missing required environment variable: %s", key)
		}
		return value, nil
	}

	cfg.ListingStore = getEnv("LISTING_STORE", StoreMongo)
	switch cfg.ListingStore {
	case StoreMongo:
		cfg.MongoURI, err = getRequiredEnv("MONGO_URI")
		if err != nil {
			return nil, err
		}
	case StorePostgres:
		cfg.PostgresDSN, err = getRequiredEnv("POSTGRES_DSN")
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("invalid LISTING_STORE %q: expected %q or %q", cfg.ListingStore, StoreMongo, StorePostgres)
	}
	cfg.MongoDbName = getEnv("MONGO_DB_NAME", "storage_marketplace")

	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.ApiPort = getEnv("API_PORT", "8080")
	cfg.ServiceApiPort = getEnv("SERVICE_API_PORT", "12345")
	cfg.CorsAllowedOrigin = getEnv("CORS_ALLOWED_ORIGIN", "*")

	cfg.MediaBackend = getEnv("MEDIA_BACKEND", MediaS3)
	if cfg.MediaBackend != MediaS3 && cfg.MediaBackend != MediaMinIO {
		return nil, fmt.Errorf("invalid MEDIA_BACKEND %q: expected %q or %q", cfg.MediaBackend, MediaS3, MediaMinIO)
	}
	cfg.MediaBucket = getEnv("MEDIA_BUCKET", "unit-images")
	cfg.MediaPathPrefix = getEnv("MEDIA_PATH_PREFIX", "unit-images")

	cfg.AwsAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", "")
	cfg.AwsSecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", "")
	cfg.AwsRegion = getEnv("AWS_REGION", "us-east-1")
	cfg.AwsS3Endpoint = getEnv("AWS_S3_ENDPOINT", "")
	cfg.ImageBaseS3URL = getEnv("IMAGE_BASE_S3_URL", "")

	cfg.MinIOEndpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	cfg.MinIOAccessKey = getEnv("MINIO_ACCESS_KEY", "minioadmin")
	cfg.MinIOSecretKey = getEnv("MINIO_SECRET_KEY", "minioadmin")

	cfg.SmtpHost = getEnv("SMTP_HOST", "")
	cfg.SmtpUsername = getEnv("SMTP_USERNAME", "")
	cfg.SmtpPassword = getEnv("SMTP_PASSWORD", "")
	cfg.SmtpFromAddress = getEnv("SMTP_FROM_ADDRESS", "noreply@storage-marketplace.example.com")

	cfg.LogEmailsPath = getEnv("LOG_EMAILS", "")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")
	cfg.AppName = getEnv("APP_NAME", "Storage Marketplace")

	// Load numeric, boolean and duration values with defaults and parsing
	cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	snapshotTTLSeconds, err := strconv.ParseInt(getEnv("SNAPSHOT_CACHE_TTL_SECONDS", "60"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SNAPSHOT_CACHE_TTL_SECONDS: %w", err)
	}
	if snapshotTTLSeconds < 0 {
		return nil, fmt.Errorf("invalid SNAPSHOT_CACHE_TTL_SECONDS: must not be negative")
	}
	cfg.SnapshotCacheTTL = time.Duration(snapshotTTLSeconds) * time.Second

	cfg.MinIOUseSSL, err = strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid MINIO_USE_SSL: %w", err)
	}

	cfg.MockServices, err = strconv.ParseBool(getEnv("MOCK_SERVICES", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid MOCK_SERVICES: %w", err)
	}

	cfg.ImageMaxSizeMB, err = strconv.Atoi(getEnv("IMAGE_MAX_SIZE_MB", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid IMAGE_MAX_SIZE_MB: %w", err)
	}

	cfg.SmtpPort, err = strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	redirectDelayMs, err := strconv.ParseInt(getEnv("SUCCESS_REDIRECT_DELAY_MS", "2000"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SUCCESS_REDIRECT_DELAY_MS: %w", err)
	}
	cfg.SuccessRedirectDelay = time.Duration(redirectDelayMs) * time.Millisecond

	return cfg, nil
}

// ImageMaxSizeBytes returns the upload cap in bytes.
func (c *Config) ImageMaxSizeBytes() int64 {
	return int64(c.ImageMaxSizeMB) * 1024 * 1024
}
