package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"MAX_COMMENTS",
	"BATCH_SIZE",
	"MAX_PAGES",
	"MAX_INCLUDES_REPLIES",
	"REQUEST_TIMEOUT",
	"SLEEP_BETWEEN_PAGES",
	"ITEM_PAUSE",
	"REQUESTS_PER_MINUTE",
	"OUTPUT_FILE",
	"LINKS_FILE",
	"CREDENTIALS_DIR",
	"LOG_LEVEL",
	"LOG_FILE",
}

// clearEnv blanks every variable LoadFromEnv reads; empty values are ignored by it
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 100000, cfg.Fetch.MaxComments)
	assert.Equal(t, 50, cfg.Fetch.BatchSize)
	assert.Equal(t, 1000, cfg.Fetch.MaxPages)
	assert.False(t, cfg.Fetch.MaxIncludesReplies)
	assert.Equal(t, 20*time.Second, cfg.Fetch.RequestTimeout)
	assert.Equal(t, 600*time.Millisecond, cfg.Fetch.PageDelay)
	assert.Equal(t, 800*time.Millisecond, cfg.Fetch.ItemPause)

	assert.Equal(t, "links.txt", cfg.Input.LinksFile)
	assert.Equal(t, "database.txt", cfg.Output.File)
	assert.Equal(t, ".", cfg.Credentials.Dir)
	assert.Equal(t, "info", cfg.Logging.Level)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_COMMENTS", "250")
	t.Setenv("BATCH_SIZE", "20")
	t.Setenv("MAX_PAGES", "7")
	t.Setenv("MAX_INCLUDES_REPLIES", "true")
	t.Setenv("REQUEST_TIMEOUT", "5")
	t.Setenv("SLEEP_BETWEEN_PAGES", "0.25")
	t.Setenv("ITEM_PAUSE", "5m")
	t.Setenv("REQUESTS_PER_MINUTE", "30")
	t.Setenv("OUTPUT_FILE", "/tmp/comments.txt")
	t.Setenv("LINKS_FILE", "/tmp/links.txt")
	t.Setenv("CREDENTIALS_DIR", "/tmp/creds")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 250, cfg.Fetch.MaxComments)
	assert.Equal(t, 20, cfg.Fetch.BatchSize)
	assert.Equal(t, 7, cfg.Fetch.MaxPages)
	assert.True(t, cfg.Fetch.MaxIncludesReplies)
	assert.Equal(t, 5*time.Second, cfg.Fetch.RequestTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Fetch.PageDelay)
	assert.Equal(t, 5*time.Minute, cfg.Fetch.ItemPause)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "/tmp/comments.txt", cfg.Output.File)
	assert.Equal(t, "/tmp/links.txt", cfg.Input.LinksFile)
	assert.Equal(t, "/tmp/creds", cfg.Credentials.Dir)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_COMMENTS", "lots")
	t.Setenv("SLEEP_BETWEEN_PAGES", "soon")

	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_COMMENTS")
	assert.Contains(t, err.Error(), "SLEEP_BETWEEN_PAGES")

	// Bad values leave defaults untouched
	assert.Equal(t, 100000, cfg.Fetch.MaxComments)
	assert.Equal(t, 600*time.Millisecond, cfg.Fetch.PageDelay)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "zero max comments", mutate: func(c *Config) { c.Fetch.MaxComments = 0 }, wantError: true},
		{name: "batch size above site limit", mutate: func(c *Config) { c.Fetch.BatchSize = 51 }, wantError: true},
		{name: "zero max pages", mutate: func(c *Config) { c.Fetch.MaxPages = 0 }, wantError: true},
		{name: "negative page delay", mutate: func(c *Config) { c.Fetch.PageDelay = -time.Second }, wantError: true},
		{name: "zero delays allowed", mutate: func(c *Config) { c.Fetch.PageDelay = 0; c.Fetch.ItemPause = 0 }},
		{name: "request ceiling disabled", mutate: func(c *Config) { c.RateLimit.RequestsPerMinute = 0; c.RateLimit.BurstSize = 0 }},
		{name: "missing output file", mutate: func(c *Config) { c.Output.File = "" }, wantError: true},
		{name: "invalid log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()

	cfg.MergeCommandLineFlags(map[string]interface{}{
		"links-file":             "urls.txt",
		"output":                 "out.txt",
		"max-comments":           10,
		"batch-size":             25,
		"include-replies-in-max": true,
		"page-delay":             2 * time.Second,
		"item-pause":             5 * time.Minute,
		"timeout":                time.Minute,
		"log-level":              "error",
	})

	assert.Equal(t, "urls.txt", cfg.Input.LinksFile)
	assert.Equal(t, "out.txt", cfg.Output.File)
	assert.Equal(t, 10, cfg.Fetch.MaxComments)
	assert.Equal(t, 25, cfg.Fetch.BatchSize)
	assert.True(t, cfg.Fetch.MaxIncludesReplies)
	assert.Equal(t, 2*time.Second, cfg.Fetch.PageDelay)
	assert.Equal(t, 5*time.Minute, cfg.Fetch.ItemPause)
	assert.Equal(t, time.Minute, cfg.Fetch.RequestTimeout)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestSaveAndLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Fetch.MaxComments = 42
	cfg.Fetch.PageDelay = 1500 * time.Millisecond
	cfg.Output.File = "saved.txt"
	require.NoError(t, cfg.Save(configPath))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(configPath))

	assert.Equal(t, 42, loaded.Fetch.MaxComments)
	assert.Equal(t, 1500*time.Millisecond, loaded.Fetch.PageDelay)
	assert.Equal(t, "saved.txt", loaded.Output.File)
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlConfig := `
fetch:
  max_comments: 500
  batch_size: 30
  page_delay: 2s
output:
  file: from-file.txt
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlConfig), 0644))

	t.Setenv("MAX_COMMENTS", "400")
	t.Setenv("OUTPUT_FILE", "from-env.txt")

	cfg, err := Load(configPath, map[string]interface{}{"output": "from-flag.txt"})
	require.NoError(t, err)

	assert.Equal(t, 400, cfg.Fetch.MaxComments, "env overrides file")
	assert.Equal(t, 30, cfg.Fetch.BatchSize, "file overrides defaults")
	assert.Equal(t, 2*time.Second, cfg.Fetch.PageDelay)
	assert.Equal(t, "from-flag.txt", cfg.Output.File, "flags override env")
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("BATCH_SIZE", "500")

	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("{}\n"), 0644))

	_, err := Load(configPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch size")
}
