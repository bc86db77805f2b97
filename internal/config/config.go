// Package config provides hierarchical configuration loading for sentrychat.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the sentrychat service.
type Config struct {
	Server   Server   `yaml:"server"`
	Cache    Cache    `yaml:"cache"`
	Session  Session  `yaml:"session"`
	Security Security `yaml:"security"`
	Ollama   Ollama   `yaml:"ollama"`
	Scanner  Scanner  `yaml:"scanner"`
	Report   Report   `yaml:"report"`
	Logging  Logging  `yaml:"logging"`
	Breaker  Breaker  `yaml:"breaker"`
	Rate     Rate     `yaml:"rate"`
	Metrics  Metrics  `yaml:"metrics"`
	Auth     Auth     `yaml:"auth"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port  string `yaml:"port"`
	Debug bool   `yaml:"debug"` // relaxes the CSP for local frontend development
}

// Cache holds cache backend configuration.
type Cache struct {
	Enabled bool   `yaml:"enabled"`
	Backend string `yaml:"backend"` // "redis" | "nats"
	Addr    string `yaml:"addr"`

	// DefaultTTL applies when a caller passes ttl <= 0.
	DefaultTTL time.Duration `yaml:"default_ttl"`

	// L1 tiering (in-process ristretto in front of the remote backend).
	L1Enabled   bool          `yaml:"l1_enabled"`
	L1MaxSizeMB int64         `yaml:"l1_max_size_mb"`
	L1TTL       time.Duration `yaml:"l1_ttl"`

	NATSBucket string `yaml:"nats_bucket"`
}

// Session holds session registry configuration.
type Session struct {
	// Lifetime is the absolute ceiling measured from creation; validation
	// activity does not extend it.
	Lifetime time.Duration `yaml:"lifetime"`
}

// Security holds request admission configuration.
type Security struct {
	AllowedHosts   []string `yaml:"allowed_hosts"`
	MaxRequestSize int64    `yaml:"max_request_size"`
}

// Ollama holds LLM backend configuration.
type Ollama struct {
	URL     string        `yaml:"url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// Scanner holds project scanner configuration.
type Scanner struct {
	RootPath string `yaml:"root_path"`
}

// Report holds report coordinator configuration.
type Report struct {
	// ErrorTTL is deliberately shorter than Cache.DefaultTTL so that a
	// failed generation is retried sooner than a success is recomputed.
	ErrorTTL time.Duration `yaml:"error_ttl"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// Breaker holds circuit breaker configuration.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Rate holds rate limiter configuration for the query endpoint.
type Rate struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// Metrics holds OpenTelemetry exporter configuration.
type Metrics struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// Auth holds API key verification configuration.
// Keys maps a user identity to the bcrypt hash of its API key.
type Auth struct {
	Keys map[string]string `yaml:"keys"`
}

// Defaults returns a Config with sensible default values for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:  "8080",
			Debug: false,
		},
		Cache: Cache{
			Enabled:     true,
			Backend:     "redis",
			Addr:        "localhost:6379",
			DefaultTTL:  time.Hour,
			L1Enabled:   false,
			L1MaxSizeMB: 64,
			L1TTL:       time.Minute,
			NATSBucket:  "sentrychat-cache",
		},
		Session: Session{
			Lifetime: time.Hour,
		},
		Security: Security{
			AllowedHosts:   []string{"localhost", "127.0.0.1"},
			MaxRequestSize: 1 << 20, // 1MB
		},
		Ollama: Ollama{
			URL:     "http://localhost:11434",
			Model:   "mistral:7b-instruct",
			Timeout: 120 * time.Second,
		},
		Scanner: Scanner{
			RootPath: ".",
		},
		Report: Report{
			ErrorTTL: 5 * time.Minute,
		},
		Logging: Logging{
			Level:   "info",
			Service: "sentrychat",
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
		Rate: Rate{
			RequestsPerSecond: 10.0 / 60.0, // 10 per minute, matching the query endpoint limit
			Burst:             10,
		},
		Metrics: Metrics{
			Enabled:  false,
			Endpoint: "localhost:4317",
		},
	}
}

// IsAllowedHost reports whether host (already stripped of its port) is in
// the allow-list.
func (s Security) IsAllowedHost(host string) bool {
	for _, h := range s.AllowedHosts {
		if h == host {
			return true
		}
	}
	return false
}
