package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr                  string
	DatabaseURL           string
	JWTSecret             string
	DataEncryptionKey     string
	Environment           string
	SeedTenantName        string
	RunMigrations         bool
	MaxBodyBytes          int64
	RateLimitPerMinute    int
	AnalyzeRatePerMinute  int
	LexiconPath           string
	AIEnabled             bool
	OpenAIAPIKey          string
	OpenAIBaseURL         string
	OpenAIModel           string
	AITimeout             time.Duration
	PIPSweepInterval      time.Duration
	PIPAlertAllMilestones bool
	DocumentDateLayout    string
	LetterStorageDir      string
	AssessmentConcurrency int
	MetricsEnabled        bool
}

func Load() Config {
	return Config{
		Addr:                  getEnv("APP_ADDR", ":8080"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		DataEncryptionKey:     getEnv("DATA_ENCRYPTION_KEY", ""),
		Environment:           getEnv("APP_ENV", "development"),
		SeedTenantName:        getEnv("SEED_TENANT_NAME", "Default Tenant"),
		RunMigrations:         getEnvBool("RUN_MIGRATIONS", true),
		MaxBodyBytes:          int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:    getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		AnalyzeRatePerMinute:  getEnvInt("ANALYZE_RATE_PER_MINUTE", 10),
		LexiconPath:           getEnv("LEXICON_PATH", ""),
		AIEnabled:             getEnvBool("AI_ENABLED", false),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:         getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:           getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		AITimeout:             getEnvDuration("AI_TIMEOUT", 20*time.Second),
		PIPSweepInterval:      getEnvDuration("PIP_SWEEP_INTERVAL", 24*time.Hour),
		PIPAlertAllMilestones: getEnvBool("PIP_ALERT_ALL_MILESTONES", false),
		DocumentDateLayout:    getEnv("DOCUMENT_DATE_LAYOUT", "January 2, 2006"),
		LetterStorageDir:      getEnv("LETTER_STORAGE_DIR", "storage/pip-letters"),
		AssessmentConcurrency: getEnvInt("ASSESSMENT_CONCURRENCY", 4),
		MetricsEnabled:        getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsProduction() && strings.TrimSpace(c.DataEncryptionKey) == "" {
		return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production for encryption at rest")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.AnalyzeRatePerMinute <= 0 {
		return fmt.Errorf("ANALYZE_RATE_PER_MINUTE must be positive")
	}
	if c.AIEnabled && strings.TrimSpace(c.OpenAIAPIKey) == "" {
		return fmt.Errorf("OPENAI_API_KEY must be set when AI_ENABLED is true")
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be positive")
	}
	if c.AssessmentConcurrency <= 0 {
		return fmt.Errorf("ASSESSMENT_CONCURRENCY must be positive")
	}
	if strings.TrimSpace(c.DocumentDateLayout) == "" {
		return fmt.Errorf("DOCUMENT_DATE_LAYOUT must not be empty")
	}
	return nil
}
