package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string
	LogFile   string

	DB     DatabaseConfig
	Redis  RedisConfig
	GenAI  GenAIConfig
	S3     S3Config
	Search SearchConfig
	Worker WorkerConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// GenAIConfig contains the LLM search provider credentials.
type GenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// S3Config contains object storage configuration for ad creatives.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// SearchConfig tunes the comparison pipeline.
type SearchConfig struct {
	CacheTTL     time.Duration
	CacheVersion string
	MaxSponsored int
	ResultCount  int
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	CacheCleanupInterval time.Duration
	AdMetricsInterval    time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.LogFile = getEnv("LOG_FILE", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// LLM search provider
	cfg.GenAI = GenAIConfig{
		APIKey:  getEnv("GENAI_API_KEY", ""),
		Model:   getEnv("GENAI_MODEL", "gemini-3-pro-preview"),
		BaseURL: getEnv("GENAI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
	}

	// S3 (ad creatives)
	cfg.S3 = S3Config{
		Region:          getEnv("S3_REGION", "me-south-1"),
		Bucket:          getEnv("S3_BUCKET", "nabih-ad-images"),
		AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	// Search pipeline
	cfg.Search = SearchConfig{
		CacheVersion: getEnv("SEARCH_CACHE_VERSION", "v9_LangFix"),
		MaxSponsored: getEnvInt("SEARCH_MAX_SPONSORED", 3),
		ResultCount:  getEnvInt("SEARCH_RESULT_COUNT", 12),
	}

	var err error
	if cfg.GenAI.Timeout, err = parseDurationEnv("GENAI_TIMEOUT", "90s"); err != nil {
		return nil, fmt.Errorf("invalid GENAI_TIMEOUT: %w", err)
	}
	if cfg.Search.CacheTTL, err = parseDurationEnv("SEARCH_CACHE_TTL", "6h"); err != nil {
		return nil, fmt.Errorf("invalid SEARCH_CACHE_TTL: %w", err)
	}
	if cfg.Worker.CacheCleanupInterval, err = parseDurationEnv("CACHE_CLEANUP_INTERVAL", "30m"); err != nil {
		return nil, fmt.Errorf("invalid CACHE_CLEANUP_INTERVAL: %w", err)
	}
	if cfg.Worker.AdMetricsInterval, err = parseDurationEnv("AD_METRICS_INTERVAL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid AD_METRICS_INTERVAL: %w", err)
	}

	// Basic validation for DB parameters — keeps messages concise and helpful.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	// Validate JWT_SECRET
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
