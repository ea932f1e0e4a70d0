package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the thread downloader
type Config struct {
	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Reload (polling) settings
	Reload ReloadConfig `yaml:"reload" json:"reload"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	ConcurrentDownloads int           `yaml:"concurrent_downloads" json:"concurrent_downloads"`
	DownloadTimeout     time.Duration `yaml:"download_timeout" json:"download_timeout"`
	UserAgent           string        `yaml:"user_agent" json:"user_agent"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory string `yaml:"base_directory" json:"base_directory"`
	// UseNames forces the trailing custom-name URL segment as the
	// thread directory name instead of the numeric thread id.
	UseNames bool `yaml:"use_names" json:"use_names"`
}

// ReloadConfig controls the repeating poll loop. When Enabled is false the
// downloader performs a single pass and exits.
type ReloadConfig struct {
	Enabled         bool `yaml:"enabled" json:"enabled"`
	IntervalMinutes int  `yaml:"interval_minutes" json:"interval_minutes"`
	BudgetMinutes   int  `yaml:"budget_minutes" json:"budget_minutes"`
}

// Interval returns the target spacing between cycle starts.
func (r ReloadConfig) Interval() time.Duration {
	return time.Duration(r.IntervalMinutes) * time.Minute
}

// Budget returns the total wall-clock duration after which no new cycle starts.
func (r ReloadConfig) Budget() time.Duration {
	return time.Duration(r.BudgetMinutes) * time.Minute
}

// RateLimitConfig holds rate limiting configuration for media requests
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Download: DownloadConfig{
			ConcurrentDownloads: 2,
			DownloadTimeout:     30 * time.Second,
			UserAgent:           "chandl/1.0 thread media downloader",
		},
		Output: OutputConfig{
			BaseDirectory: "downloads",
			UseNames:      false,
		},
		Reload: ReloadConfig{
			Enabled:         false,
			IntervalMinutes: 5,
			BudgetMinutes:   120,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if outputDir := os.Getenv("CHANDL_OUTPUT_DIR"); outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if userAgent := os.Getenv("CHANDL_USER_AGENT"); userAgent != "" {
		c.Download.UserAgent = userAgent
	}

	if concurrent := os.Getenv("CHANDL_CONCURRENT_DOWNLOADS"); concurrent != "" {
		var val int
		fmt.Sscanf(concurrent, "%d", &val)
		if val > 0 {
			c.Download.ConcurrentDownloads = val
		}
	}

	if reload := os.Getenv("CHANDL_RELOAD"); reload != "" {
		c.Reload.Enabled = strings.ToLower(reload) == "true"
	}
	if interval := os.Getenv("CHANDL_INTERVAL_MINUTES"); interval != "" {
		var val int
		fmt.Sscanf(interval, "%d", &val)
		if val > 0 {
			c.Reload.IntervalMinutes = val
		}
	}
	if budget := os.Getenv("CHANDL_BUDGET_MINUTES"); budget != "" {
		var val int
		if _, err := fmt.Sscanf(budget, "%d", &val); err == nil && val >= 0 {
			c.Reload.BudgetMinutes = val
		}
	}

	if rpm := os.Getenv("CHANDL_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		if _, err := fmt.Sscanf(rpm, "%d", &val); err == nil && val >= 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}

	if logLevel := os.Getenv("CHANDL_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".chandl.yaml",
		".chandl.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "chandl", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "chandl", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".chandl.yaml"),
		filepath.Join(os.Getenv("HOME"), ".chandl.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Download.ConcurrentDownloads <= 0 {
		errs = append(errs, errors.New("concurrent downloads must be positive"))
	}
	if c.Download.ConcurrentDownloads > 10 {
		errs = append(errs, errors.New("concurrent downloads should not exceed 10"))
	}
	if c.Download.DownloadTimeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}
	if c.Download.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	if c.Reload.IntervalMinutes <= 0 {
		errs = append(errs, errors.New("reload interval must be positive"))
	}
	if c.Reload.BudgetMinutes < 0 {
		errs = append(errs, errors.New("reload budget cannot be negative"))
	}

	if c.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("requests per minute cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if useNames, ok := flags["names"].(bool); ok {
		c.Output.UseNames = useNames
	}
	if concurrent, ok := flags["concurrent"].(int); ok && concurrent > 0 {
		c.Download.ConcurrentDownloads = concurrent
	}
	if reload, ok := flags["reload"].(bool); ok {
		c.Reload.Enabled = reload
	}
	if interval, ok := flags["interval"].(int); ok && interval > 0 {
		c.Reload.IntervalMinutes = interval
	}
	if budget, ok := flags["budget"].(int); ok && budget >= 0 {
		c.Reload.BudgetMinutes = budget
	}
	if rpm, ok := flags["rate-limit"].(int); ok && rpm >= 0 {
		c.RateLimit.RequestsPerMinute = rpm
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".chandl.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
