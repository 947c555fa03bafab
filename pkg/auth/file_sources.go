package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	curlCookieHeader = regexp.MustCompile(`(?i)(?:^|\s)(?:-H|--header)\s*['"]Cookie:\s*([^'"]+)['"]`)
	curlCookieFlag   = regexp.MustCompile(`(?i)(?:^|\s)(?:-b|--cookie)\s*['"]([^'"]+)['"]`)
	curlUAHeader     = regexp.MustCompile(`(?i)(?:^|\s)(?:-H|--header)\s*['"]User-Agent:\s*([^'"]+)['"]`)
	curlUAFlag       = regexp.MustCompile(`(?i)(?:^|\s)(?:-A|--user-agent)\s*['"]([^'"]+)['"]`)
)

// candidatePaths returns dir/name followed by dir/.secret/name
func candidatePaths(dir, name string) []string {
	return []string{
		filepath.Join(dir, name),
		filepath.Join(dir, ".secret", name),
	}
}

// readOptional returns the file contents, or "" with a nil error when it does not exist
func readOptional(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// JSONCookieFile reads cookies.json in either of the browser export shapes:
// {"name": "value", ...} or [{"name": "...", "value": "..."}, ...]
type JSONCookieFile struct {
	Paths []string
}

// NewJSONCookieFile looks for cookies.json in dir, then dir/.secret
func NewJSONCookieFile(dir string) *JSONCookieFile {
	return &JSONCookieFile{Paths: candidatePaths(dir, "cookies.json")}
}

func (f *JSONCookieFile) Name() string { return "cookies.json" }

// LoadCookies returns the jar from the first candidate file that parses to a non-empty jar
func (f *JSONCookieFile) LoadCookies() (map[string]string, error) {
	var lastErr error
	for _, p := range f.Paths {
		data, err := readOptional(p)
		if err != nil {
			lastErr = err
			continue
		}
		if data == "" {
			continue
		}
		jar, err := parseCookieJSON([]byte(data))
		if err != nil {
			lastErr = fmt.Errorf("failed to parse %s: %w", p, err)
			continue
		}
		if len(jar) > 0 {
			return jar, nil
		}
	}
	return nil, lastErr
}

func parseCookieJSON(data []byte) (map[string]string, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	jar := make(map[string]string)
	switch v := raw.(type) {
	case map[string]interface{}:
		for name, value := range v {
			jar[name] = stringify(value)
		}
	case []interface{}:
		for _, item := range v {
			entry, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			name, hasName := entry["name"]
			value, hasValue := entry["value"]
			if !hasName || !hasValue || name == nil || value == nil {
				continue
			}
			jar[stringify(name)] = stringify(value)
		}
	default:
		return nil, fmt.Errorf("unsupported cookie file shape %T", raw)
	}
	return jar, nil
}

// stringify renders decoded JSON scalars the way they appeared in the file
func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// HeaderCookieFile reads cookies.txt holding a raw "a=1; b=2" header,
// optionally prefixed with "Cookie:"
type HeaderCookieFile struct {
	Paths []string
}

// NewHeaderCookieFile looks for cookies.txt in dir, then dir/.secret
func NewHeaderCookieFile(dir string) *HeaderCookieFile {
	return &HeaderCookieFile{Paths: candidatePaths(dir, "cookies.txt")}
}

func (f *HeaderCookieFile) Name() string { return "cookies.txt" }

func (f *HeaderCookieFile) LoadCookies() (map[string]string, error) {
	var lastErr error
	for _, p := range f.Paths {
		data, err := readOptional(p)
		if err != nil {
			lastErr = err
			continue
		}
		raw := strings.TrimSpace(data)
		if strings.HasPrefix(strings.ToLower(raw), "cookie:") {
			raw = strings.TrimSpace(raw[len("cookie:"):])
		}
		if jar := ParseCookieHeader(raw); len(jar) > 0 {
			return jar, nil
		}
	}
	return nil, lastErr
}

// CurlFile reads curl.txt holding a browser "Copy as cURL" capture and extracts
// the Cookie and User-Agent headers from it
type CurlFile struct {
	Paths []string
}

// NewCurlFile looks for curl.txt in dir, then dir/.secret
func NewCurlFile(dir string) *CurlFile {
	return &CurlFile{Paths: candidatePaths(dir, "curl.txt")}
}

func (f *CurlFile) Name() string { return "curl.txt" }

func (f *CurlFile) LoadCookies() (map[string]string, error) {
	var lastErr error
	for _, p := range f.Paths {
		blob, err := readOptional(p)
		if err != nil {
			lastErr = err
			continue
		}
		if jar := ExtractCurlCookies(blob); len(jar) > 0 {
			return jar, nil
		}
	}
	return nil, lastErr
}

func (f *CurlFile) LoadUserAgent() (string, error) {
	var lastErr error
	for _, p := range f.Paths {
		blob, err := readOptional(p)
		if err != nil {
			lastErr = err
			continue
		}
		if ua := ExtractCurlUserAgent(blob); ua != "" {
			return ua, nil
		}
	}
	return "", lastErr
}

// ExtractCurlCookies finds the Cookie header (or -b value) in a cURL command
func ExtractCurlCookies(blob string) map[string]string {
	if m := curlCookieHeader.FindStringSubmatch(blob); m != nil {
		return ParseCookieHeader(m[1])
	}
	if m := curlCookieFlag.FindStringSubmatch(blob); m != nil {
		return ParseCookieHeader(m[1])
	}
	return nil
}

// ExtractCurlUserAgent finds the User-Agent header (or -A value) in a cURL command
func ExtractCurlUserAgent(blob string) string {
	if m := curlUAHeader.FindStringSubmatch(blob); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := curlUAFlag.FindStringSubmatch(blob); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// UserAgentFile reads ua.txt
type UserAgentFile struct {
	Paths []string
}

// NewUserAgentFile looks for ua.txt in dir, then dir/.secret
func NewUserAgentFile(dir string) *UserAgentFile {
	return &UserAgentFile{Paths: candidatePaths(dir, "ua.txt")}
}

func (f *UserAgentFile) Name() string { return "ua.txt" }

func (f *UserAgentFile) LoadUserAgent() (string, error) {
	var lastErr error
	for _, p := range f.Paths {
		data, err := readOptional(p)
		if err != nil {
			lastErr = err
			continue
		}
		if ua := strings.TrimSpace(data); ua != "" {
			return ua, nil
		}
	}
	return "", lastErr
}
