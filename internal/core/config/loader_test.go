package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_EnvSubstitution(t *testing.T) {
	// Setup env var
	os.Setenv("TEST_RPC_URL", "https://eth.example.com/v3/key")
	defer os.Unsetenv("TEST_RPC_URL")

	// Create temp config file
	configContent := `
chain:
  id: 1
  providers:
    - name: primary
      url: ${TEST_RPC_URL}
`
	tmpFile, err := os.CreateTemp("", "config_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write([]byte(configContent)); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	tmpFile.Close()

	// Load config
	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Chain.Providers) != 1 {
		t.Fatalf("Expected 1 provider, got %d", len(cfg.Chain.Providers))
	}
	if cfg.Chain.Providers[0].URL != "https://eth.example.com/v3/key" {
		t.Errorf("Expected expanded URL, got %s", cfg.Chain.Providers[0].URL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "config_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	content := `
chain:
  id: 1
  providers:
    - name: primary
      url: https://eth.example.com
`
	if _, err := tmpFile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	tmpFile.Close()

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Checker.HeaderCacheTTL != 15*time.Minute {
		t.Errorf("Expected default TTL 15m, got %v", cfg.Checker.HeaderCacheTTL)
	}
	if cfg.Chain.Providers[0].Timeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %v", cfg.Chain.Providers[0].Timeout)
	}
}
