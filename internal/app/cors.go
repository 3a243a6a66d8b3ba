package app

import (
	"net/url"
	"strings"
)

// originHost reduces an Origin header value to its "host[:port]" part.
// Confirm links are opened from the advertiser's browser, so the public
// origin set is not fully under our control; anything unparseable is
// matched as-is.
func originHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return u.Host
}

// originAllowed reports whether host matches pattern. "*.example.com"
// matches any subdomain, "localhost:*" matches any port.
func originAllowed(pattern, host string) bool {
	if pattern == host {
		return true
	}
	if strings.HasPrefix(pattern, "*.") {
		return strings.HasSuffix(host, pattern[1:])
	}
	if strings.HasSuffix(pattern, ":*") {
		return strings.HasPrefix(host, pattern[:len(pattern)-1])
	}
	return false
}
