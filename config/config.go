// Package config loads service configuration from YAML with environment
// overrides for secrets and endpoints.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Mongo     MongoConfig     `yaml:"mongo"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Search    SearchConfig    `yaml:"search"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// MongoConfig configures the document store.
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// AnthropicConfig configures text generation.
type AnthropicConfig struct {
	APIKey            string `yaml:"api_key"`
	Model             string `yaml:"model"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
}

// SearchConfig configures market enrichment. An empty APIKey disables
// search entirely.
type SearchConfig struct {
	APIKey          string `yaml:"api_key"`
	BaseURL         string `yaml:"base_url"`
	MaxQueries      int    `yaml:"max_queries"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
}

// Timeout returns the per-request search timeout.
func (s SearchConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long market context is memoized.
func (s SearchConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLMinutes) * time.Minute
}

// PipelineConfig tunes generation and retention.
type PipelineConfig struct {
	MaxAgeHours int    `yaml:"max_age_hours"`
	MaxPerType  int    `yaml:"max_per_type"`
	MaxTokens   int    `yaml:"max_tokens"`
	Currency    string `yaml:"currency"`
}

// MaxAge returns the freshness window for cached analyses.
func (p PipelineConfig) MaxAge() time.Duration {
	return time.Duration(p.MaxAgeHours) * time.Hour
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "finlens",
		},
		Anthropic: AnthropicConfig{
			Model:             "claude-sonnet-4-20250514",
			RequestsPerMinute: 30,
		},
		Search: SearchConfig{
			BaseURL:         "https://api.tavily.com",
			MaxQueries:      4,
			TimeoutSeconds:  15,
			CacheTTLMinutes: 360,
		},
		Pipeline: PipelineConfig{
			MaxAgeHours: 24,
			MaxPerType:  5,
			MaxTokens:   2048,
			Currency:    "₹",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Anthropic.APIKey = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		cfg.Mongo.URI = v
	}
	if v := os.Getenv("MONGO_DATABASE"); v != "" {
		cfg.Mongo.Database = v
	}
	if v := os.Getenv("TAVILY_API_KEY"); v != "" {
		cfg.Search.APIKey = v
	}
	if v := os.Getenv("INSIGHTD_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Mongo.URI == "" || c.Mongo.Database == "" {
		return fmt.Errorf("mongo.uri and mongo.database must not be empty")
	}
	if c.Pipeline.MaxAgeHours <= 0 {
		return fmt.Errorf("pipeline.max_age_hours must be positive, got %d", c.Pipeline.MaxAgeHours)
	}
	if c.Pipeline.MaxPerType <= 0 {
		return fmt.Errorf("pipeline.max_per_type must be positive, got %d", c.Pipeline.MaxPerType)
	}
	if c.Pipeline.MaxTokens <= 0 {
		return fmt.Errorf("pipeline.max_tokens must be positive, got %d", c.Pipeline.MaxTokens)
	}
	if c.Anthropic.RequestsPerMinute <= 0 {
		return fmt.Errorf("anthropic.requests_per_minute must be positive, got %d", c.Anthropic.RequestsPerMinute)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}
