package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/foodz/foodz-api/internal/ai"
)

type Config struct {
	// Server
	Port string // default: 8080

	// Database
	DatabaseURL string

	// Cache
	RedisAddr string

	// AI provider
	AIProvider     string // default: openai
	AIModel        string // default: gpt-4o-mini
	OpenAIAPIKey   string
	OpenAIAPIBase  string // default: https://api.openai.com
	AITimeout      time.Duration
	AIRateLimitRPM int // requests per minute per client, default: 30

	// Auth
	JWTSecretKey             string
	JWTAlgorithm             string // default: HS256
	AccessTokenExpireMinutes int    // default: 60

	// Seeding
	AdminUsername string
	AdminPassword string

	// Observability
	LogLevel             string // default: info
	OTELExporterType     string // "stdout", "otlp" or "none"
	OTELExporterEndpoint string // default: "localhost:4317"
}

func Load() (*Config, error) {
	// Load .env file if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		AIProvider:           getEnv("AI_PROVIDER", ai.ProviderOpenAI),
		AIModel:              getEnv("AI_MODEL", "gpt-4o-mini"),
		OpenAIAPIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIAPIBase:        getEnv("OPENAI_API_BASE", ai.DefaultOpenAIBaseURL),
		JWTSecretKey:         os.Getenv("JWT_SECRET_KEY"),
		JWTAlgorithm:         getEnv("JWT_ALGORITHM", "HS256"),
		AdminUsername:        os.Getenv("ADMIN_USERNAME"),
		AdminPassword:        os.Getenv("ADMIN_PASSWORD"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		OTELExporterType:     getEnv("OTEL_EXPORTER_TYPE", "stdout"),
		OTELExporterEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
	}

	timeoutSecs, err := getEnvInt("AI_TIMEOUT_SECONDS", 15)
	if err != nil {
		return nil, err
	}
	cfg.AITimeout = time.Duration(timeoutSecs) * time.Second

	if cfg.AIRateLimitRPM, err = getEnvInt("AI_RATE_LIMIT_PER_MINUTE", 30); err != nil {
		return nil, err
	}
	if cfg.AccessTokenExpireMinutes, err = getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidateServe checks the settings the HTTP server cannot start without.
// A missing AI credential is reported by the first generation or health
// call instead.
func (c *Config) ValidateServe() error {
	if err := c.ValidateDatabase(); err != nil {
		return err
	}
	if c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}
	if c.JWTSecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	return nil
}

func (c *Config) ValidateDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

// AISettings projects the AI provider settings read at adapter construction.
func (c *Config) AISettings() ai.Settings {
	return ai.Settings{
		Provider: c.AIProvider,
		Model:    c.AIModel,
		APIKey:   c.OpenAIAPIKey,
		BaseURL:  c.OpenAIAPIBase,
		Timeout:  c.AITimeout,
	}
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
