package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ADDR", "")
	t.Setenv("PIP_SWEEP_INTERVAL", "")
	cfg := Load()
	if cfg.Addr != ":8080" || cfg.PIPSweepInterval != 24*time.Hour || cfg.AssessmentConcurrency != 4 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DocumentDateLayout != "January 2, 2006" || cfg.AIEnabled {
		t.Fatalf("unexpected document/ai defaults: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PIP_SWEEP_INTERVAL", "6h")
	t.Setenv("PIP_ALERT_ALL_MILESTONES", "true")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("ANALYZE_RATE_PER_MINUTE", "3")
	t.Setenv("ASSESSMENT_CONCURRENCY", "not-a-number")
	cfg := Load()
	if cfg.PIPSweepInterval != 6*time.Hour || !cfg.PIPAlertAllMilestones || cfg.AITimeout != 5*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.AnalyzeRatePerMinute != 3 {
		t.Fatalf("expected analyze rate 3, got %d", cfg.AnalyzeRatePerMinute)
	}
	if cfg.AssessmentConcurrency != 4 {
		t.Fatalf("expected invalid int to fall back, got %d", cfg.AssessmentConcurrency)
	}
}

func validConfig() Config {
	return Config{
		DatabaseURL:           "postgres://localhost/talent",
		JWTSecret:             "secret",
		Environment:           "development",
		MaxBodyBytes:          1 << 20,
		RateLimitPerMinute:    60,
		AnalyzeRatePerMinute:  10,
		AITimeout:             time.Second,
		AssessmentConcurrency: 2,
		DocumentDateLayout:    "2006-01-02",
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"database", func(c *Config) { c.DatabaseURL = "" }, "DATABASE_URL"},
		{"jwt", func(c *Config) { c.JWTSecret = " " }, "JWT_SECRET"},
		{"encryption", func(c *Config) { c.Environment = "production" }, "DATA_ENCRYPTION_KEY"},
		{"body", func(c *Config) { c.MaxBodyBytes = 10 }, "MAX_BODY_BYTES"},
		{"ai key", func(c *Config) { c.AIEnabled = true }, "OPENAI_API_KEY"},
		{"concurrency", func(c *Config) { c.AssessmentConcurrency = 0 }, "ASSESSMENT_CONCURRENCY"},
	}
	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error mentioning %s, got %v", tc.name, tc.want, err)
		}
	}
}
