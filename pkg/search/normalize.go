package search

import (
	"net/url"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// NormalizeDomain reduces a website URL to its registrable domain for
// deduplication: case-insensitive, trailing-slash-insensitive, www-stripped.
// e.g., "https://WWW.Acme.co.uk/products/" -> "acme.co.uk"
func NormalizeDomain(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return ""
	}

	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" {
		return ""
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if !strings.Contains(host, ".") {
		return ""
	}

	domain, err := publicsuffix.Domain(host)
	if err != nil {
		// Not a public-suffix domain (IP, internal host); dedup on the host.
		return host
	}
	return domain
}
