package config

import (
	"strings"
	"testing"
)

func TestSecurityHeadersFixedSet(t *testing.T) {
	headers := SecurityHeaders(false)

	for _, name := range []string{
		"X-Content-Type-Options",
		"X-Frame-Options",
		"Strict-Transport-Security",
		"Content-Security-Policy",
		"Referrer-Policy",
		"Permissions-Policy",
	} {
		if headers[name] == "" {
			t.Errorf("missing header %s", name)
		}
	}

	if headers["X-Content-Type-Options"] != "nosniff" {
		t.Errorf("expected nosniff, got %s", headers["X-Content-Type-Options"])
	}
	if headers["X-Frame-Options"] != "DENY" {
		t.Errorf("expected DENY, got %s", headers["X-Frame-Options"])
	}
}

func TestCSPProductionHasNoUnsafeInline(t *testing.T) {
	csp := SecurityHeaders(false)["Content-Security-Policy"]
	if strings.Contains(csp, "'unsafe-inline'") {
		t.Errorf("production CSP must not contain unsafe-inline: %s", csp)
	}
	if !strings.Contains(csp, "default-src 'self'") {
		t.Errorf("CSP missing default-src 'self': %s", csp)
	}
}

func TestCSPDebugRelaxesScriptAndStyleOnly(t *testing.T) {
	csp := SecurityHeaders(true)["Content-Security-Policy"]

	for _, directive := range []string{"script-src", "style-src"} {
		if !strings.Contains(csp, directive+" 'self' 'unsafe-inline'") {
			t.Errorf("debug CSP should relax %s: %s", directive, csp)
		}
	}
	if strings.Contains(csp, "default-src 'self' 'unsafe-inline'") {
		t.Errorf("debug CSP must not relax default-src: %s", csp)
	}
}

func TestCSPDeterministic(t *testing.T) {
	first := buildCSP(false)
	for i := 0; i < 10; i++ {
		if got := buildCSP(false); got != first {
			t.Fatalf("CSP output not deterministic: %q vs %q", first, got)
		}
	}
}
