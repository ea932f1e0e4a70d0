package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Download.ConcurrentDownloads != 2 {
		t.Errorf("Expected default concurrent downloads to be 2, got %d", config.Download.ConcurrentDownloads)
	}
	if config.Download.DownloadTimeout != 30*time.Second {
		t.Errorf("Expected default download timeout to be 30s, got %v", config.Download.DownloadTimeout)
	}
	if config.Output.BaseDirectory != "downloads" {
		t.Errorf("Expected default output directory to be downloads, got %s", config.Output.BaseDirectory)
	}
	if config.Reload.Enabled {
		t.Error("Expected reload to be disabled by default")
	}
	if config.Reload.IntervalMinutes != 5 {
		t.Errorf("Expected default interval to be 5 minutes, got %d", config.Reload.IntervalMinutes)
	}
	if config.Reload.BudgetMinutes != 120 {
		t.Errorf("Expected default budget to be 120 minutes, got %d", config.Reload.BudgetMinutes)
	}
	if config.RateLimit.RequestsPerMinute != 60 {
		t.Errorf("Expected default requests per minute to be 60, got %d", config.RateLimit.RequestsPerMinute)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
}

func TestReloadDurations(t *testing.T) {
	r := ReloadConfig{IntervalMinutes: 5, BudgetMinutes: 120}

	if r.Interval() != 5*time.Minute {
		t.Errorf("Expected 5m interval, got %v", r.Interval())
	}
	if r.Budget() != 2*time.Hour {
		t.Errorf("Expected 2h budget, got %v", r.Budget())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CHANDL_OUTPUT_DIR", "/tmp/test-downloads")
	t.Setenv("CHANDL_CONCURRENT_DOWNLOADS", "5")
	t.Setenv("CHANDL_RELOAD", "true")
	t.Setenv("CHANDL_INTERVAL_MINUTES", "2")
	t.Setenv("CHANDL_BUDGET_MINUTES", "60")
	t.Setenv("CHANDL_REQUESTS_PER_MINUTE", "30")
	t.Setenv("CHANDL_LOG_LEVEL", "debug")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.Output.BaseDirectory != "/tmp/test-downloads" {
		t.Errorf("Expected output dir /tmp/test-downloads, got %s", config.Output.BaseDirectory)
	}
	if config.Download.ConcurrentDownloads != 5 {
		t.Errorf("Expected 5 concurrent downloads, got %d", config.Download.ConcurrentDownloads)
	}
	if !config.Reload.Enabled {
		t.Error("Expected reload to be enabled")
	}
	if config.Reload.IntervalMinutes != 2 {
		t.Errorf("Expected 2 minute interval, got %d", config.Reload.IntervalMinutes)
	}
	if config.Reload.BudgetMinutes != 60 {
		t.Errorf("Expected 60 minute budget, got %d", config.Reload.BudgetMinutes)
	}
	if config.RateLimit.RequestsPerMinute != 30 {
		t.Errorf("Expected 30 requests per minute, got %d", config.RateLimit.RequestsPerMinute)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected debug log level, got %s", config.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
download:
  concurrent_downloads: 4
output:
  base_directory: /data/threads
  use_names: true
reload:
  enabled: true
  interval_minutes: 10
  budget_minutes: 30
logging:
  level: warn
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if config.Download.ConcurrentDownloads != 4 {
		t.Errorf("Expected 4 concurrent downloads, got %d", config.Download.ConcurrentDownloads)
	}
	if config.Output.BaseDirectory != "/data/threads" {
		t.Errorf("Expected /data/threads output dir, got %s", config.Output.BaseDirectory)
	}
	if !config.Output.UseNames {
		t.Error("Expected use_names to be true")
	}
	if !config.Reload.Enabled || config.Reload.IntervalMinutes != 10 || config.Reload.BudgetMinutes != 30 {
		t.Errorf("Unexpected reload config: %+v", config.Reload)
	}
	if config.Logging.Level != "warn" {
		t.Errorf("Expected warn log level, got %s", config.Logging.Level)
	}

	// Untouched sections keep defaults
	if config.RateLimit.RequestsPerMinute != 60 {
		t.Errorf("Expected default rate limit, got %d", config.RateLimit.RequestsPerMinute)
	}
}

func TestLoadFromFileMissingIsNotAnError(t *testing.T) {
	config := DefaultConfig()
	if err := config.LoadFromFile(""); err != nil {
		t.Errorf("Expected missing config file to be fine, got %v", err)
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()

	config.MergeCommandLineFlags(map[string]interface{}{
		"output":     "/tmp/out",
		"concurrent": 3,
		"reload":     true,
		"interval":   1,
		"budget":     0,
		"rate-limit": 0,
		"names":      true,
		"log-level":  "error",
	})

	if config.Output.BaseDirectory != "/tmp/out" {
		t.Errorf("Expected /tmp/out, got %s", config.Output.BaseDirectory)
	}
	if config.Download.ConcurrentDownloads != 3 {
		t.Errorf("Expected 3 concurrent downloads, got %d", config.Download.ConcurrentDownloads)
	}
	if !config.Reload.Enabled {
		t.Error("Expected reload enabled")
	}
	if config.Reload.IntervalMinutes != 1 {
		t.Errorf("Expected 1 minute interval, got %d", config.Reload.IntervalMinutes)
	}
	if config.Reload.BudgetMinutes != 0 {
		t.Errorf("Expected zero budget, got %d", config.Reload.BudgetMinutes)
	}
	if config.RateLimit.RequestsPerMinute != 0 {
		t.Errorf("Expected rate limiting disabled, got %d", config.RateLimit.RequestsPerMinute)
	}
	if !config.Output.UseNames {
		t.Error("Expected use_names enabled")
	}
	if config.Logging.Level != "error" {
		t.Errorf("Expected error log level, got %s", config.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero concurrency", func(c *Config) { c.Download.ConcurrentDownloads = 0 }},
		{"excessive concurrency", func(c *Config) { c.Download.ConcurrentDownloads = 11 }},
		{"zero timeout", func(c *Config) { c.Download.DownloadTimeout = 0 }},
		{"empty user agent", func(c *Config) { c.Download.UserAgent = "" }},
		{"empty output dir", func(c *Config) { c.Output.BaseDirectory = "" }},
		{"zero interval", func(c *Config) { c.Reload.IntervalMinutes = 0 }},
		{"negative budget", func(c *Config) { c.Reload.BudgetMinutes = -1 }},
		{"negative rate limit", func(c *Config) { c.RateLimit.RequestsPerMinute = -1 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			if err := config.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	config := DefaultConfig()
	config.Output.BaseDirectory = "/data/threads"
	config.Reload.Enabled = true

	if err := config.Save(path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded := DefaultConfig()
	if err := loaded.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}

	if loaded.Output.BaseDirectory != "/data/threads" {
		t.Errorf("Expected saved output dir to round-trip, got %s", loaded.Output.BaseDirectory)
	}
	if !loaded.Reload.Enabled {
		t.Error("Expected saved reload flag to round-trip")
	}
}
