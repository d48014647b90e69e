// Package urlnorm prepares user-entered product links for use as hyperlink
// targets. Marketplace links are often pasted without a protocol or with
// non-ASCII path segments, so the sanitizer must never reject input outright.
package urlnorm

import (
	"net/url"
	"regexp"
	"strings"
)

var schemePrefix = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+\-.]*:`)

// Normalize trims the raw link, prepends https:// when no scheme prefix is
// present, and percent-encodes the result. An already-encodable URL stays
// mostly unchanged. When the link cannot be parsed at all, the
// protocol-prefixed raw string is returned instead of an error so the
// surrounding add/edit operation still succeeds.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	withScheme := trimmed
	if !schemePrefix.MatchString(trimmed) {
		withScheme = "https://" + trimmed
	}

	parsed, err := url.Parse(withScheme)
	if err != nil {
		return withScheme
	}
	return parsed.String()
}
