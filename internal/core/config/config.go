package config

import (
	"time"

	redisclient "github.com/vietddude/bloomcheck/internal/infra/redis"
	"github.com/vietddude/bloomcheck/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Chain    ChainConfig        `yaml:"chain"`
	Checker  CheckerConfig      `yaml:"checker"`
	Redis    redisclient.Config `yaml:"redis"`
	Logging  LoggingConfig      `yaml:"logging"`
	Database postgres.Config    `yaml:"database"`
}

// ServerConfig holds HTTP server settings for serve mode.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// ChainConfig holds settings for the target blockchain.
type ChainConfig struct {
	ID        uint64           `yaml:"id"`
	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig holds settings for an RPC provider.
type ProviderConfig struct {
	Name    string        `yaml:"name"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// CheckerConfig holds query-service settings.
type CheckerConfig struct {
	// HeaderCacheTTL bounds how long fetched headers stay in Redis.
	// Headers past finality never change, but a bounded TTL keeps the
	// cache from growing without a pruner.
	HeaderCacheTTL time.Duration `yaml:"header_cache_ttl"`

	// ScanConcurrency limits parallel block checks during range scans.
	ScanConcurrency int `yaml:"scan_concurrency"`
}
