package site

import "strings"

// DefaultURL is the canonical site address used when no override is configured.
const DefaultURL = "https://triposia.com"

// BaseURL returns the configured override, or DefaultURL when it is empty.
// The result never ends in a slash.
func BaseURL(override string) string {
	u := strings.TrimSpace(override)
	if u == "" {
		u = DefaultURL
	}
	return strings.TrimRight(u, "/")
}
