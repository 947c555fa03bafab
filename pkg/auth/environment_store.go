package auth

import (
	"os"
	"strings"
)

const (
	// EnvCookie holds a raw Cookie header
	EnvCookie = "TKCOMMENTS_COOKIE"
	// EnvUserAgent holds the browser User-Agent
	EnvUserAgent = "TKCOMMENTS_USER_AGENT"
)

// EnvironmentSource reads credentials from environment variables.
// It is useful for CI and for one-off runs without files on disk.
type EnvironmentSource struct{}

// NewEnvironmentSource creates a new environment-based credential source
func NewEnvironmentSource() *EnvironmentSource {
	return &EnvironmentSource{}
}

func (e *EnvironmentSource) Name() string { return "environment" }

// LoadCookies parses TKCOMMENTS_COOKIE, accepting an optional "Cookie:" prefix
func (e *EnvironmentSource) LoadCookies() (map[string]string, error) {
	raw := strings.TrimSpace(os.Getenv(EnvCookie))
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(strings.ToLower(raw), "cookie:") {
		raw = strings.TrimSpace(raw[len("cookie:"):])
	}
	return ParseCookieHeader(raw), nil
}

// LoadUserAgent returns TKCOMMENTS_USER_AGENT
func (e *EnvironmentSource) LoadUserAgent() (string, error) {
	return strings.TrimSpace(os.Getenv(EnvUserAgent)), nil
}
