package httpx

import (
	"fmt"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// DefaultAllowedOrigin is used when no allow-list is configured.
const DefaultAllowedOrigin = "http://localhost:5173"

// OriginPattern is a parsed allow-list entry: either an exact origin or a
// wildcard subdomain suffix. Patterns are built once from configuration and
// matched via explicit dispatch rather than inline string checks.
type OriginPattern struct {
	kind   patternKind
	value  string // exact origin, or bare domain for wildcards
	suffix string // precomputed ".domain" for wildcards
}

type patternKind int

const (
	patternExact patternKind = iota
	patternWildcardSuffix
)

// String returns the configuration form of the pattern.
func (p OriginPattern) String() string {
	if p.kind == patternWildcardSuffix {
		return "*." + p.value
	}
	return p.value
}

// ParseAllowList parses a comma-separated list of origin patterns. Entries of
// the form "*.domain" match any subdomain plus the bare HTTPS apex; anything
// else matches only on exact string equality. An empty input falls back to
// the single development origin.
func ParseAllowList(raw string) ([]OriginPattern, error) {
	if strings.TrimSpace(raw) == "" {
		raw = DefaultAllowedOrigin
	}

	var patterns []OriginPattern
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		pattern, err := parsePattern(entry)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, pattern)
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("origin allow-list %q contains no usable entries", raw)
	}
	return patterns, nil
}

func parsePattern(entry string) (OriginPattern, error) {
	domain, ok := strings.CutPrefix(entry, "*.")
	if !ok {
		return OriginPattern{kind: patternExact, value: entry}, nil
	}
	if domain == "" {
		return OriginPattern{}, fmt.Errorf("origin pattern %q has an empty wildcard suffix", entry)
	}
	// A wildcard over a bare public suffix ("*.com") would admit every origin
	// under that suffix. Refuse it at parse time.
	if suffix, _ := publicsuffix.PublicSuffix(domain); suffix == domain {
		return OriginPattern{}, fmt.Errorf("origin pattern %q matches an entire public suffix", entry)
	}
	return OriginPattern{
		kind:   patternWildcardSuffix,
		value:  domain,
		suffix: "." + domain,
	}, nil
}

// Authorize maps a request's declared origin to the exact value to echo back
// in Access-Control-Allow-Origin, or "" when the origin is not allowed. The
// first matching pattern wins. Because responses are credentialed, the
// literal "*" is never a valid result; callers always receive the specific
// origin or nothing.
//
// This function is used identically by the normal per-request flow and by the
// error boundary, which runs outside the ordinary middleware chain.
func Authorize(requestOrigin string, patterns []OriginPattern) string {
	if requestOrigin == "" {
		return ""
	}
	for _, p := range patterns {
		switch p.kind {
		case patternExact:
			if requestOrigin == p.value {
				return requestOrigin
			}
		case patternWildcardSuffix:
			if strings.HasSuffix(requestOrigin, p.suffix) || requestOrigin == "https://"+p.value {
				return requestOrigin
			}
		}
	}
	return ""
}
