package urlutil

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned by Prepare when the input cannot be turned into an
// absolute http(s) URL.
var ErrInvalidURL = errors.New("invalid URL")

// Normalize adds an https:// prefix when raw carries no scheme.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if hasScheme(raw) {
		return raw
	}
	return "https://" + raw
}

// IsValid reports whether raw is an absolute http or https URL with a host.
func IsValid(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// Prepare normalizes raw and validates the result.
func Prepare(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrInvalidURL
	}
	normalized := Normalize(raw)
	if !IsValid(normalized) {
		return "", ErrInvalidURL
	}
	return normalized, nil
}

// hasScheme looks for a "scheme://" prefix where scheme follows RFC 3986
// (letter followed by letters, digits, '+', '-' or '.').
func hasScheme(raw string) bool {
	i := strings.Index(raw, "://")
	if i <= 0 {
		return false
	}
	for j, c := range raw[:i] {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case j > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}
