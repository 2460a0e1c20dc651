package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// RedisConfig holds the connection settings of the shared numbering store.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// StorageConfig selects where rendered artifacts are kept.
type StorageConfig struct {
	// Backend is "minio" or "filesystem".
	Backend string
	// Root is the base directory of the filesystem backend.
	Root string
}

// NumberingConfig selects the sequence store of the identifier allocator.
type NumberingConfig struct {
	// Backend is "postgres", "redis" or "memory".
	Backend     string
	MaxAttempts int
}

// RenderConfig holds the issuer details and locale printed on documents.
type RenderConfig struct {
	IssuerName     string
	IssuerAddress  string
	CurrencySymbol string
	Locale         string
	PageSize       string
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string
	Format string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost   string
	Port      string
	Timezone  string
	Database  DatabaseConfig
	MinIO     MinIOConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Numbering NumberingConfig
	Render    RenderConfig
	Log       LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "localhost:6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvInt("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "docissuer:seq:"),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(getEnv("STORAGE_BACKEND", "minio")),
			Root:    getEnv("STORAGE_ROOT", "./media"),
		},
		Numbering: NumberingConfig{
			Backend:     strings.ToLower(getEnv("NUMBERING_BACKEND", "postgres")),
			MaxAttempts: getEnvInt("NUMBERING_MAX_ATTEMPTS", 5),
		},
		Render: RenderConfig{
			IssuerName:     getEnv("RENDER_ISSUER_NAME", ""),
			IssuerAddress:  getEnv("RENDER_ISSUER_ADDRESS", ""),
			CurrencySymbol: getEnv("RENDER_CURRENCY_SYMBOL", "$"),
			Locale:         getEnv("RENDER_LOCALE", "en-US"),
			PageSize:       getEnv("RENDER_PAGE_SIZE", "Letter"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// Validate rejects backend names the application cannot wire.
func (c *AppConfig) Validate() error {
	switch c.Storage.Backend {
	case "minio", "filesystem":
	default:
		return fmt.Errorf("STORAGE_BACKEND: unknown backend %q", c.Storage.Backend)
	}
	switch c.Numbering.Backend {
	case "postgres", "redis", "memory":
	default:
		return fmt.Errorf("NUMBERING_BACKEND: unknown backend %q", c.Numbering.Backend)
	}
	if c.Numbering.MaxAttempts < 1 {
		return fmt.Errorf("NUMBERING_MAX_ATTEMPTS: must be at least 1, got %d", c.Numbering.MaxAttempts)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
