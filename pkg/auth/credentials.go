package auth

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/NetNinja-stack/android-tools/pkg/errors"
	"github.com/NetNinja-stack/android-tools/pkg/logger"
)

// DefaultUserAgent is used when no source supplies one: Chrome on Android
const DefaultUserAgent = "Mozilla/5.0 (Linux; Android 13; Pixel 5) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/118.0.0.0 Mobile Safari/537.36"

// ErrCredentialsMissing is returned by Resolve when no source yields a cookie
var ErrCredentialsMissing = apperrors.New(apperrors.ErrorTypeCredentials,
	"cookies not found: provide cookies.json, cookies.txt or curl.txt, or run 'tkcomments auth set'")

// Credentials holds the session cookies and User-Agent replayed against the comment API.
// It is not modified after Resolve returns it.
type Credentials struct {
	Cookies   map[string]string
	UserAgent string

	// Where each half came from, for diagnostics
	CookieSource     string
	UserAgentSource  string
	DefaultUserAgent bool
}

// CookieHeader renders the cookies as a Cookie header value with names sorted
func (c *Credentials) CookieHeader() string {
	return FormatCookieHeader(c.Cookies)
}

// CookieLoader is one way of obtaining a cookie jar.
// A source that simply is not present returns a nil map and a nil error.
type CookieLoader interface {
	Name() string
	LoadCookies() (map[string]string, error)
}

// UserAgentLoader is one way of obtaining a User-Agent.
// A source that is not present returns "" and a nil error.
type UserAgentLoader interface {
	Name() string
	LoadUserAgent() (string, error)
}

// Resolver tries cookie and User-Agent sources in order; the first non-empty result wins
type Resolver struct {
	cookies    []CookieLoader
	userAgents []UserAgentLoader
	logger     logger.Logger
}

// NewResolver creates a resolver over the given ordered sources
func NewResolver(cookies []CookieLoader, userAgents []UserAgentLoader, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Resolver{
		cookies:    cookies,
		userAgents: userAgents,
		logger:     log,
	}
}

// Resolve returns the first non-empty cookie jar and the first non-empty User-Agent.
// A missing User-Agent falls back to DefaultUserAgent with a warning; a missing
// cookie jar is fatal.
func (r *Resolver) Resolve() (*Credentials, error) {
	creds := &Credentials{}

	for _, src := range r.cookies {
		jar, err := src.LoadCookies()
		if err != nil {
			r.logger.WithError(err).WarnWithFields("Cookie source unreadable, skipping", map[string]interface{}{
				"source": src.Name(),
			})
			continue
		}
		if len(jar) == 0 {
			continue
		}
		creds.Cookies = jar
		creds.CookieSource = src.Name()
		r.logger.InfoWithFields("Cookies loaded", map[string]interface{}{
			"source":  src.Name(),
			"entries": len(jar),
		})
		break
	}

	if len(creds.Cookies) == 0 {
		return nil, ErrCredentialsMissing
	}

	for _, src := range r.userAgents {
		ua, err := src.LoadUserAgent()
		if err != nil {
			r.logger.WithError(err).WarnWithFields("User-Agent source unreadable, skipping", map[string]interface{}{
				"source": src.Name(),
			})
			continue
		}
		if ua == "" {
			continue
		}
		creds.UserAgent = ua
		creds.UserAgentSource = src.Name()
		r.logger.InfoWithFields("User-Agent loaded", map[string]interface{}{
			"source": src.Name(),
		})
		break
	}

	if creds.UserAgent == "" {
		creds.UserAgent = DefaultUserAgent
		creds.UserAgentSource = "default"
		creds.DefaultUserAgent = true
		r.logger.Warn("User-Agent fallback in use; supply the browser's real UA in ua.txt")
	}

	return creds, nil
}

// ParseCookieHeader parses "a=1; b=2" into a map.
// Empty segments, nameless segments and segments without '=' are ignored;
// values may contain '='.
func ParseCookieHeader(header string) map[string]string {
	jar := make(map[string]string)
	for _, part := range strings.Split(header, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			continue
		}
		jar[name] = strings.TrimSpace(value)
	}
	return jar
}

// FormatCookieHeader is the inverse of ParseCookieHeader
func FormatCookieHeader(jar map[string]string) string {
	names := make([]string, 0, len(jar))
	for name := range jar {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%s", name, jar[name]))
	}
	return strings.Join(parts, "; ")
}

// SanitizeCookies returns a copy of the jar with every value masked
func SanitizeCookies(jar map[string]string) map[string]string {
	masked := make(map[string]string, len(jar))
	for name, value := range jar {
		masked[name] = maskString(value)
	}
	return masked
}

// maskString masks all but the first 4 and last 4 characters of a string
func maskString(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
