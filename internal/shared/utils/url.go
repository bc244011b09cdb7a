package utils

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrEmptyURL is returned for blank input
var ErrEmptyURL = errors.New("empty url")

// NormalizeURL turns user input into an absolute URL. Input without a scheme
// gets defaultScheme ("https" when empty).
func NormalizeURL(input, defaultScheme string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", ErrEmptyURL
	}
	if defaultScheme == "" {
		defaultScheme = "https"
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		parsed, err = url.Parse(defaultScheme + "://" + trimmed)
		if err != nil {
			return "", fmt.Errorf("invalid url %q: %w", input, err)
		}
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid url %q: missing host", input)
	}

	return parsed.String(), nil
}

// Host returns the lower-cased host of rawURL, or "" when it cannot be parsed
func Host(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}
