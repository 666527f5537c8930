package urlutil

import (
	"errors"
	"net/url"
	"strings"
)

// Normalize canonicalizes an absolute URL: lower-cases scheme and host,
// drops a trailing slash (except on the root path) and drops the scheme's
// default port. Unparsable or relative input is returned unchanged, so
// Normalize(Normalize(x)) == Normalize(x) for any string.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)

	host := strings.ToLower(u.Hostname())
	port := u.Port()
	switch {
	case port == "":
	case u.Scheme == "http" && port == "80":
	case u.Scheme == "https" && port == "443":
	default:
		host = host + ":" + port
	}
	u.Host = host

	if u.Path != "/" && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimSuffix(u.Path, "/")
		if u.RawPath != "" {
			u.RawPath = strings.TrimSuffix(u.RawPath, "/")
		}
	}

	return u.String()
}

// ExtractDomain returns the lower-cased hostname, or "" when raw is not an
// absolute URL with a host.
func ExtractDomain(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// SameDomain reports whether both URLs parse and share the exact same
// hostname. No www folding, no subdomain matching.
func SameDomain(a, b string) bool {
	da := ExtractDomain(a)
	db := ExtractDomain(b)
	return da != "" && da == db
}

var (
	ErrEmptyURL   = errors.New("url is empty")
	ErrInvalidURL = errors.New("url must be absolute and start with http:// or https://")
)

// ValidateSeed checks a user-supplied seed URL and returns its normalized
// form. Only absolute http(s) URLs with a host are accepted.
func ValidateSeed(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidURL
	}
	if u.Host == "" {
		return "", ErrInvalidURL
	}
	return Normalize(raw), nil
}
