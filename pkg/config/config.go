package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// MaxBatchSize is the largest page the web comment API will serve
const MaxBatchSize = 50

// Config holds all configuration options for the comment scraper.
// It is built once by Load and passed by value afterwards.
type Config struct {
	// Comment fetching limits and pacing
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Request rate ceiling
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Where links come from and where comments go
	Input  InputConfig  `yaml:"input" json:"input"`
	Output OutputConfig `yaml:"output" json:"output"`

	// Where credential files are looked up
	Credentials CredentialsConfig `yaml:"credentials" json:"credentials"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// FetchConfig holds pagination settings
type FetchConfig struct {
	MaxComments        int           `yaml:"max_comments" json:"max_comments"`
	BatchSize          int           `yaml:"batch_size" json:"batch_size"`
	MaxPages           int           `yaml:"max_pages" json:"max_pages"`
	MaxIncludesReplies bool          `yaml:"max_includes_replies" json:"max_includes_replies"`
	RequestTimeout     time.Duration `yaml:"request_timeout" json:"request_timeout"`
	PageDelay          time.Duration `yaml:"page_delay" json:"page_delay"`
	ItemPause          time.Duration `yaml:"item_pause" json:"item_pause"`
}

// RateLimitConfig holds the per-session request ceiling
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
	BurstSize         int `yaml:"burst_size" json:"burst_size"`
}

// InputConfig holds the links file location
type InputConfig struct {
	LinksFile string `yaml:"links_file" json:"links_file"`
}

// OutputConfig holds the append-only comment log location
type OutputConfig struct {
	File string `yaml:"file" json:"file"`
}

// CredentialsConfig holds the directory searched for cookies.json, cookies.txt, curl.txt and ua.txt
type CredentialsConfig struct {
	Dir            string `yaml:"dir" json:"dir"`
	KeyringProfile string `yaml:"keyring_profile" json:"keyring_profile"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Fetch: FetchConfig{
			MaxComments:        100000,
			BatchSize:          MaxBatchSize,
			MaxPages:           1000,
			MaxIncludesReplies: false,
			RequestTimeout:     20 * time.Second,
			PageDelay:          600 * time.Millisecond,
			ItemPause:          800 * time.Millisecond,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 90,
			BurstSize:         5,
		},
		Input: InputConfig{
			LinksFile: "links.txt",
		},
		Output: OutputConfig{
			File: "database.txt",
		},
		Credentials: CredentialsConfig{
			Dir:            ".",
			KeyringProfile: "default",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv("MAX_COMMENTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("MAX_COMMENTS: %w", err))
		} else {
			c.Fetch.MaxComments = n
		}
	}
	if v := os.Getenv("BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("BATCH_SIZE: %w", err))
		} else {
			c.Fetch.BatchSize = n
		}
	}
	if v := os.Getenv("MAX_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("MAX_PAGES: %w", err))
		} else {
			c.Fetch.MaxPages = n
		}
	}
	if v := os.Getenv("MAX_INCLUDES_REPLIES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("MAX_INCLUDES_REPLIES: %w", err))
		} else {
			c.Fetch.MaxIncludesReplies = b
		}
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT: %w", err))
		} else {
			c.Fetch.RequestTimeout = d
		}
	}
	if v := os.Getenv("SLEEP_BETWEEN_PAGES"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SLEEP_BETWEEN_PAGES: %w", err))
		} else {
			c.Fetch.PageDelay = d
		}
	}
	if v := os.Getenv("ITEM_PAUSE"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("ITEM_PAUSE: %w", err))
		} else {
			c.Fetch.ItemPause = d
		}
	}
	if v := os.Getenv("REQUESTS_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("REQUESTS_PER_MINUTE: %w", err))
		} else {
			c.RateLimit.RequestsPerMinute = n
		}
	}

	if v := os.Getenv("OUTPUT_FILE"); v != "" {
		c.Output.File = v
	}
	if v := os.Getenv("LINKS_FILE"); v != "" {
		c.Input.LinksFile = v
	}
	if v := os.Getenv("CREDENTIALS_DIR"); v != "" {
		c.Credentials.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	return errors.Join(errs...)
}

// parseSeconds accepts plain seconds ("0.6", "300") or a Go duration ("600ms", "5m")
func parseSeconds(v string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(v)
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
	home, _ := os.UserHomeDir()
	locations := []string{
		".tkcomments.yaml",
		".tkcomments.yml",
	}
	if home != "" {
		locations = append(locations,
			filepath.Join(home, ".config", "tkcomments", "config.yaml"),
			filepath.Join(home, ".tkcomments.yaml"),
		)
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

	if c.Fetch.MaxComments <= 0 {
		errs = append(errs, errors.New("max comments must be positive"))
	}
	if c.Fetch.BatchSize <= 0 {
		errs = append(errs, errors.New("batch size must be positive"))
	}
	if c.Fetch.BatchSize > MaxBatchSize {
		errs = append(errs, fmt.Errorf("batch size should not exceed %d", MaxBatchSize))
	}
	if c.Fetch.MaxPages <= 0 {
		errs = append(errs, errors.New("max pages must be positive"))
	}
	if c.Fetch.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.Fetch.PageDelay < 0 {
		errs = append(errs, errors.New("page delay cannot be negative"))
	}
	if c.Fetch.ItemPause < 0 {
		errs = append(errs, errors.New("item pause cannot be negative"))
	}

	if c.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("requests per minute cannot be negative"))
	}
	if c.RateLimit.RequestsPerMinute > 0 && c.RateLimit.BurstSize <= 0 {
		errs = append(errs, errors.New("burst size must be positive"))
	}

	if c.Input.LinksFile == "" {
		errs = append(errs, errors.New("links file is required"))
	}
	if c.Output.File == "" {
		errs = append(errs, errors.New("output file is required"))
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

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["links-file"].(string); ok && v != "" {
		c.Input.LinksFile = v
	}
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Output.File = v
	}
	if v, ok := flags["credentials-dir"].(string); ok && v != "" {
		c.Credentials.Dir = v
	}
	if v, ok := flags["keyring-profile"].(string); ok && v != "" {
		c.Credentials.KeyringProfile = v
	}
	if v, ok := flags["max-comments"].(int); ok && v > 0 {
		c.Fetch.MaxComments = v
	}
	if v, ok := flags["batch-size"].(int); ok && v > 0 {
		c.Fetch.BatchSize = v
	}
	if v, ok := flags["max-pages"].(int); ok && v > 0 {
		c.Fetch.MaxPages = v
	}
	if v, ok := flags["include-replies-in-max"].(bool); ok {
		c.Fetch.MaxIncludesReplies = v
	}
	if v, ok := flags["timeout"].(time.Duration); ok && v > 0 {
		c.Fetch.RequestTimeout = v
	}
	if v, ok := flags["page-delay"].(time.Duration); ok && v >= 0 {
		c.Fetch.PageDelay = v
	}
	if v, ok := flags["item-pause"].(time.Duration); ok && v >= 0 {
		c.Fetch.ItemPause = v
	}
	if v, ok := flags["requests-per-minute"].(int); ok && v >= 0 {
		c.RateLimit.RequestsPerMinute = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (Config, error) {
	// Missing .env files are fine
	_ = godotenv.Load(".env")
	if home, err := os.UserHomeDir(); err == nil {
		_ = godotenv.Load(filepath.Join(home, ".tkcomments.env"))
	}

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return Config{}, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return *config, nil
}
