package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills in defaults for unset fields.
func (cfg *AppConfig) ApplyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Checker.HeaderCacheTTL == 0 {
		cfg.Checker.HeaderCacheTTL = 15 * time.Minute
	}
	if cfg.Checker.ScanConcurrency == 0 {
		cfg.Checker.ScanConcurrency = 5
	}
	for i := range cfg.Chain.Providers {
		if cfg.Chain.Providers[i].Timeout == 0 {
			cfg.Chain.Providers[i].Timeout = 30 * time.Second
		}
	}
}
