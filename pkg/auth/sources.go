package auth

import "github.com/NetNinja-stack/android-tools/pkg/logger"

// DefaultResolver builds the documented lookup order rooted at dir.
//
// Cookies: cookies.json, cookies.txt, curl.txt, TKCOMMENTS_COOKIE, keychain.
// User-Agent: ua.txt, TKCOMMENTS_USER_AGENT, curl.txt, keychain, built-in default.
func DefaultResolver(dir, profile string, log logger.Logger) *Resolver {
	curl := NewCurlFile(dir)
	env := NewEnvironmentSource()
	ring := NewKeyringSource(NewKeyringStore(profile))

	cookies := []CookieLoader{
		NewJSONCookieFile(dir),
		NewHeaderCookieFile(dir),
		curl,
		env,
		ring,
	}
	userAgents := []UserAgentLoader{
		NewUserAgentFile(dir),
		env,
		curl,
		ring,
	}

	return NewResolver(cookies, userAgents, log)
}
