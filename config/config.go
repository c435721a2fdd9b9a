package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var defaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"http://localhost:8080",
}

type Config struct {
	ServerPort        string
	GeminiAPIKey      string
	GeminiModel       string
	AllowedOrigins    []string
	MaxFileSize       int64
	TaxTablesPath     string
	MaxBatchAudits    int
	AuditConcurrency  int
	LogLevel          string
	ExtractionTimeout time.Duration
}

// LoadConfig reads the configuration from the environment. Unset variables
// take their defaults; values that do not parse are reported as errors.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		AllowedOrigins:    defaultAllowedOrigins,
		MaxFileSize:       10 * 1024 * 1024, // 10 MB
		TaxTablesPath:     os.Getenv("TAX_TABLES_PATH"),
		MaxBatchAudits:    50,
		AuditConcurrency:  8,
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ExtractionTimeout: 120 * time.Second,
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitList(origins)
	}

	var err error
	if v := os.Getenv("MAX_FILE_SIZE"); v != "" {
		if cfg.MaxFileSize, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid MAX_FILE_SIZE %q: %w", v, err)
		}
	}
	if v := os.Getenv("MAX_BATCH_AUDITS"); v != "" {
		if cfg.MaxBatchAudits, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid MAX_BATCH_AUDITS %q: %w", v, err)
		}
	}
	if v := os.Getenv("AUDIT_CONCURRENCY"); v != "" {
		if cfg.AuditConcurrency, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid AUDIT_CONCURRENCY %q: %w", v, err)
		}
	}
	if v := os.Getenv("EXTRACTION_TIMEOUT"); v != "" {
		if cfg.ExtractionTimeout, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("invalid EXTRACTION_TIMEOUT %q: %w", v, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return errors.New("SERVER_PORT must not be empty")
	}
	if c.MaxFileSize <= 0 {
		return errors.New("MAX_FILE_SIZE must be positive")
	}
	if c.MaxBatchAudits <= 0 {
		return errors.New("MAX_BATCH_AUDITS must be positive")
	}
	if c.AuditConcurrency <= 0 {
		return errors.New("AUDIT_CONCURRENCY must be positive")
	}
	if c.ExtractionTimeout <= 0 {
		return errors.New("EXTRACTION_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
