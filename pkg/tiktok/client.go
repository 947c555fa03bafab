package tiktok

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/NetNinja-stack/android-tools/pkg/auth"
	apperrors "github.com/NetNinja-stack/android-tools/pkg/errors"
	"github.com/NetNinja-stack/android-tools/pkg/logger"
	"github.com/NetNinja-stack/android-tools/pkg/ratelimit"
	"golang.org/x/net/publicsuffix"
)

// CookieDomain is the scope session cookies are installed under
const CookieDomain = ".tiktok.com"

// Session is a reusable HTTP client carrying the user's cookies and fixed browser headers.
// It never retries; callers decide what a failure means.
type Session struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	limiter    ratelimit.Limiter
	logger     logger.Logger
}

// Option configures a Session
type Option func(*Session)

// WithBaseURL points the session at another host, e.g. an httptest server
func WithBaseURL(baseURL string) Option {
	return func(s *Session) {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLimiter caps the request rate of the session
func WithLimiter(l ratelimit.Limiter) Option {
	return func(s *Session) {
		if l != nil {
			s.limiter = l
		}
	}
}

// NewSession creates a session from resolved credentials
func NewSession(creds *auth.Credentials, timeout time.Duration, log logger.Logger, opts ...Option) (*Session, error) {
	if creds == nil || len(creds.Cookies) == 0 {
		return nil, apperrors.New(apperrors.ErrorTypeCredentials, "session needs at least one cookie")
	}

	// Use default logger if none provided
	if log == nil {
		log = logger.GetLogger()
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	userAgent := creds.UserAgent
	if userAgent == "" {
		userAgent = auth.DefaultUserAgent
	}

	s := &Session{
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		headers: map[string]string{
			"User-Agent":      userAgent,
			"Accept":          "application/json, text/plain, */*",
			"Accept-Language": "en-US,en;q=0.9",
			"Origin":          BaseURL,
		},
		baseURL: BaseURL,
		limiter: ratelimit.Noop{},
		logger:  log,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.installCookies(creds.Cookies); err != nil {
		return nil, err
	}

	return s, nil
}

// installCookies scopes the jar to .tiktok.com, or host-only for any other base URL
func (s *Session) installCookies(cookies map[string]string) error {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrorTypeInput, err, "invalid base URL")
	}

	domain := ""
	host := u.Hostname()
	if host == "tiktok.com" || strings.HasSuffix(host, CookieDomain) {
		domain = CookieDomain
	}

	list := make([]*http.Cookie, 0, len(cookies))
	for name, value := range cookies {
		list = append(list, &http.Cookie{
			Name:   name,
			Value:  value,
			Domain: domain,
			Path:   "/",
		})
	}
	s.httpClient.Jar.SetCookies(u, list)

	s.logger.DebugWithFields("session cookies installed", map[string]interface{}{
		"count":  len(list),
		"domain": u.Host,
	})
	return nil
}

// BaseURL returns the host the session talks to
func (s *Session) BaseURL() string {
	return s.baseURL
}

// Header returns one of the fixed request headers
func (s *Session) Header(key string) string {
	return s.headers[key]
}

// GetJSON performs a GET request with the given Referer and decodes the JSON body into target.
//
// Failures are typed: 403 is forbidden, other statuses >= 400 are server_error,
// transport failures are network and undecodable bodies are parsing.
func (s *Session) GetJSON(ctx context.Context, rawURL, referer string, target interface{}) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrorTypeUnknown, err, "failed to create request")
	}
	for key, value := range s.headers {
		req.Header.Set(key, value)
	}
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		s.logger.WithError(err).DebugWithFields("HTTP request failed", map[string]interface{}{
			"url":      rawURL,
			"duration": duration,
		})
		return apperrors.Wrap(apperrors.ErrorTypeNetwork, err, "request failed")
	}
	defer resp.Body.Close()

	s.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      rawURL,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	if err := checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrorTypeNetwork, err, "failed to read response body")
	}

	if err := json.Unmarshal(body, target); err != nil {
		// Create a preview of the body for debugging
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		s.logger.DebugWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          rawURL,
			"body_preview": bodyPreview,
		})
		parseErr := apperrors.Wrap(apperrors.ErrorTypeParsing, err, "failed to parse JSON")
		parseErr.Code = resp.StatusCode
		return parseErr
	}

	return nil
}

// checkResponseStatus maps HTTP status codes to typed errors
func checkResponseStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusForbidden:
		return &apperrors.Error{
			Type:    apperrors.ErrorTypeForbidden,
			Message: "access forbidden, cookies or User-Agent are probably stale",
			Code:    resp.StatusCode,
		}
	case resp.StatusCode >= 400:
		return &apperrors.Error{
			Type:    apperrors.ErrorTypeServerError,
			Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
			Code:    resp.StatusCode,
		}
	default:
		return nil
	}
}
