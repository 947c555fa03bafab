package logger

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/NetNinja-stack/android-tools/pkg/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(buf *bytes.Buffer) *zerologLogger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zlog := zerolog.New(buf).With().Timestamp().Logger()
	return &zerologLogger{logger: &zlog, fields: make(map[string]interface{})}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{name: "info level", cfg: &config.LoggingConfig{Level: "info"}},
		{name: "debug level", cfg: &config.LoggingConfig{Level: "debug"}},
		{name: "invalid level", cfg: &config.LoggingConfig{Level: "invalid"}, wantErr: true},
		{name: "file output", cfg: &config.LoggingConfig{Level: "info", File: filepath.Join(t.TempDir(), "logs", "run.log")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestFieldsAndErrors(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.WithField("video_id", "7222").
		WithFields(map[string]interface{}{"page": 2, "has_more": true}).
		WithError(errors.New("boom")).
		Warn("page failed")

	output := buf.String()
	assert.Contains(t, output, "page failed")
	assert.Contains(t, output, `"video_id":"7222"`)
	assert.Contains(t, output, `"page":2`)
	assert.Contains(t, output, `"has_more":true`)
	assert.Contains(t, output, `"error":"boom"`)

	assert.Same(t, log, log.WithError(nil))
}

func TestStructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.InfoWithFields("fetch finished", map[string]interface{}{
		"comments": 10,
		"elapsed":  2 * time.Second,
		"stop":     "end_of_pages",
	})

	output := buf.String()
	assert.Contains(t, output, "fetch finished")
	assert.Contains(t, output, `"comments":10`)
	assert.Contains(t, output, `"stop":"end_of_pages"`)
}

func TestFieldsDoNotLeakBetweenChildren(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	parent := log.WithField("shared", "yes")
	_ = parent.WithField("child", "a")
	parent.Info("parent only")

	assert.NotContains(t, buf.String(), `"child"`)
}

func TestTestLogger(t *testing.T) {
	log := NewTestLogger()

	log.WithField("video_id", "1").WithError(errors.New("bad")).Error("failed")
	log.Info("plain")

	messages := log.GetMessages()
	require.Len(t, messages, 2)
	assert.Equal(t, "ERROR", messages[0].Level)
	assert.Equal(t, "1", messages[0].Fields["video_id"])
	assert.EqualError(t, messages[0].Error, "bad")
	assert.True(t, log.HasError())
	assert.True(t, log.HasMessage("plain"))
	assert.True(t, strings.Contains(log.String(), "[INFO] plain"))

	log.Clear()
	assert.Empty(t, log.GetMessages())
}

func TestGlobalLogger(t *testing.T) {
	require.NoError(t, Initialize(&config.LoggingConfig{Level: "debug"}))
	assert.NotNil(t, GetLogger())

	// Ensure convenience functions don't panic
	Debug("debug message")
	Info("info message")
	WithField("key", "value").Info("with field")
	WithError(errors.New("x")).Warn("with error")
}
