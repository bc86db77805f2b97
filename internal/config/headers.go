package config

import (
	"sort"
	"strings"
)

// cspPolicy maps CSP directives to their allowed sources. The relaxed debug
// variant appends 'unsafe-inline' to script-src and style-src only.
var cspPolicy = map[string][]string{
	"default-src": {"'self'"},
	"script-src":  {"'self'"},
	"style-src":   {"'self'"},
	"font-src":    {"'self'"},
	"img-src":     {"'self'", "data:", "blob:"},
	"connect-src": {"'self'", "ws:", "wss:"},
	"frame-src":   {"'self'"},
}

// SecurityHeaders returns the fixed set of headers attached to every
// response. The debug flag relaxes the CSP for inline scripts/styles and
// must never be set in production.
func SecurityHeaders(debug bool) map[string]string {
	return map[string]string{
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "DENY",
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
		"Content-Security-Policy":   buildCSP(debug),
		"Referrer-Policy":           "strict-origin-when-cross-origin",
		"Permissions-Policy":        "geolocation=(), microphone=(), camera=()",
	}
}

// buildCSP renders the CSP allow-list structure into a header value.
// Directives are emitted in sorted order so the output is deterministic.
func buildCSP(debug bool) string {
	directives := make([]string, 0, len(cspPolicy))
	for name := range cspPolicy {
		directives = append(directives, name)
	}
	sort.Strings(directives)

	var b strings.Builder
	for i, name := range directives {
		if i > 0 {
			b.WriteString("; ")
		}
		sources := cspPolicy[name]
		if debug && (name == "script-src" || name == "style-src") {
			sources = append(append([]string{}, sources...), "'unsafe-inline'")
		}
		b.WriteString(name)
		b.WriteString(" ")
		b.WriteString(strings.Join(sources, " "))
	}
	return b.String()
}
