package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `json:"server"`
	Upstream UpstreamConfig `json:"upstream"`
	Pipeline PipelineConfig `json:"pipeline"`
	Log      LogConfig      `json:"log"`
	Security SecurityConfig `json:"security"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         int    `json:"port"`
	Environment  string `json:"environment"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
	IdleTimeout  int    `json:"idle_timeout"`
}

// UpstreamConfig holds the addresses and timeouts of the authorization API
type UpstreamConfig struct {
	TokenURL        string        `json:"token_url"`
	BaseURL         string        `json:"base_url"`
	EventsBaseURL   string        `json:"events_base_url"`
	ListPath        string        `json:"list_path"`
	ListQuery       string        `json:"list_query"`
	DetailPath      string        `json:"detail_path"`
	OPMESubtype     string        `json:"opme_subtype"`
	TokenTimeout    time.Duration `json:"token_timeout"`
	TokenMaxRetries int           `json:"token_max_retries"`
	TokenRetryDelay time.Duration `json:"token_retry_delay"`
	RequestTimeout  time.Duration `json:"request_timeout"`
	RequestsPerSec  float64       `json:"requests_per_sec"`
}

// PipelineConfig holds pagination limits and pacing of a run
type PipelineConfig struct {
	PageSize      int           `json:"page_size"`
	MaxPages      int           `json:"max_pages"`
	PageDelay     time.Duration `json:"page_delay"`
	RecordDelay   time.Duration `json:"record_delay"`
	FinalizeDelay time.Duration `json:"finalize_delay"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `json:"rate_limit"`
	CORS      CORSConfig      `json:"cors"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int           `json:"requests_per_minute"`
	BurstSize         int           `json:"burst_size"`
	CleanupInterval   time.Duration `json:"cleanup_interval"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
}

const defaultDevelopmentPort = 3000

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnvAsInt("PORT", 0),
			Environment: getEnv("ENVIRONMENT", "development"),
			ReadTimeout: getEnvAsInt("READ_TIMEOUT", 30),
			// 0 disables the deadline; progress streams run for minutes
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 0),
			IdleTimeout:  getEnvAsInt("IDLE_TIMEOUT", 120),
		},
		Upstream: UpstreamConfig{
			TokenURL:        getEnv("GAS_TOKEN_URL", ""),
			BaseURL:         strings.TrimRight(getEnv("UPSTREAM_BASE_URL", ""), "/"),
			EventsBaseURL:   strings.TrimRight(getEnv("EVENTS_BASE_URL", ""), "/"),
			ListPath:        getEnv("LIST_PATH", "/v2/cotacao-opme/em-analise"),
			ListQuery:       getEnv("LIST_QUERY", ""),
			DetailPath:      strings.TrimRight(getEnv("DETAIL_PATH", "/v2/buscar-guia/detalhamento-guia"), "/"),
			OPMESubtype:     getEnv("OPME_SUBTYPE", "OPME"),
			TokenTimeout:    getEnvAsSeconds("TOKEN_TIMEOUT", 15),
			TokenMaxRetries: getEnvAsInt("TOKEN_MAX_RETRIES", 2),
			TokenRetryDelay: getEnvAsMillis("TOKEN_RETRY_DELAY_MS", 1000),
			RequestTimeout:  getEnvAsSeconds("UPSTREAM_TIMEOUT", 15),
			RequestsPerSec:  getEnvAsFloat("UPSTREAM_RPS", 0),
		},
		Pipeline: PipelineConfig{
			PageSize:      getEnvAsInt("LIST_PAGE_SIZE", 10),
			MaxPages:      getEnvAsInt("LIST_MAX_PAGES", 10),
			PageDelay:     getEnvAsMillis("LIST_PAGE_DELAY_MS", 500),
			RecordDelay:   getEnvAsMillis("RECORD_DELAY_MS", 50),
			FinalizeDelay: getEnvAsMillis("FINALIZE_DELAY_MS", 500),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				RequestsPerMinute: getEnvAsInt("RATE_LIMIT_RPM", 30),
				BurstSize:         getEnvAsInt("RATE_LIMIT_BURST", 5),
				CleanupInterval:   getEnvAsSeconds("RATE_LIMIT_CLEANUP", 60),
			},
			CORS: CORSConfig{
				AllowedOrigins:   getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
				AllowedMethods:   []string{"GET", "OPTIONS"},
				AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Cache-Control", "X-Request-ID"},
				AllowCredentials: false,
			},
		},
	}

	// only local runs get a default port
	if cfg.Server.Port == 0 && cfg.Server.Environment == "development" {
		cfg.Server.Port = defaultDevelopmentPort
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields and value ranges
func (c *Config) Validate() error {
	if c.Upstream.TokenURL == "" {
		return fmt.Errorf("GAS_TOKEN_URL is required")
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL is required")
	}
	for name, raw := range map[string]string{
		"GAS_TOKEN_URL":     c.Upstream.TokenURL,
		"UPSTREAM_BASE_URL": c.Upstream.BaseURL,
		"EVENTS_BASE_URL":   c.Upstream.EventsBaseURL,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	if c.Pipeline.PageSize <= 0 {
		return fmt.Errorf("LIST_PAGE_SIZE must be positive, got %d", c.Pipeline.PageSize)
	}
	if c.Pipeline.MaxPages <= 0 {
		return fmt.Errorf("LIST_MAX_PAGES must be positive, got %d", c.Pipeline.MaxPages)
	}
	if c.Upstream.TokenMaxRetries < 0 {
		return fmt.Errorf("TOKEN_MAX_RETRIES must not be negative, got %d", c.Upstream.TokenMaxRetries)
	}
	if c.Server.Port == 0 {
		return fmt.Errorf("PORT is required when ENVIRONMENT is %q", c.Server.Environment)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	return nil
}

// HistoryEnabled reports whether origin status comes from the status-history service
func (c UpstreamConfig) HistoryEnabled() bool {
	return c.EventsBaseURL != ""
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsSeconds(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultValue)) * time.Second
}

func getEnvAsMillis(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultValue)) * time.Millisecond
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
