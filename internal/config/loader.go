package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "sentrychat.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "SENTRYCHAT_PORT")
	setBool(&cfg.Server.Debug, "SENTRYCHAT_DEBUG")

	setBool(&cfg.Cache.Enabled, "SENTRYCHAT_CACHE_ENABLED")
	setString(&cfg.Cache.Backend, "SENTRYCHAT_CACHE_BACKEND")
	setString(&cfg.Cache.Addr, "SENTRYCHAT_CACHE_ADDR")
	setDuration(&cfg.Cache.DefaultTTL, "SENTRYCHAT_CACHE_TTL")
	setBool(&cfg.Cache.L1Enabled, "SENTRYCHAT_CACHE_L1_ENABLED")
	setInt64(&cfg.Cache.L1MaxSizeMB, "SENTRYCHAT_CACHE_L1_SIZE_MB")
	setDuration(&cfg.Cache.L1TTL, "SENTRYCHAT_CACHE_L1_TTL")
	setString(&cfg.Cache.NATSBucket, "SENTRYCHAT_CACHE_NATS_BUCKET")

	setDuration(&cfg.Session.Lifetime, "SENTRYCHAT_SESSION_LIFETIME")

	setStringSlice(&cfg.Security.AllowedHosts, "SENTRYCHAT_ALLOWED_HOSTS")
	setInt64(&cfg.Security.MaxRequestSize, "SENTRYCHAT_MAX_REQUEST_SIZE")

	setString(&cfg.Ollama.URL, "OLLAMA_HOST")
	setString(&cfg.Ollama.Model, "OLLAMA_MODEL")
	setDuration(&cfg.Ollama.Timeout, "SENTRYCHAT_OLLAMA_TIMEOUT")

	setString(&cfg.Scanner.RootPath, "SENTRYCHAT_SCANNER_ROOT")
	setDuration(&cfg.Report.ErrorTTL, "SENTRYCHAT_REPORT_ERROR_TTL")

	setString(&cfg.Logging.Level, "SENTRYCHAT_LOG_LEVEL")
	setString(&cfg.Logging.Service, "SENTRYCHAT_LOG_SERVICE")

	setInt(&cfg.Breaker.MaxFailures, "SENTRYCHAT_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "SENTRYCHAT_BREAKER_TIMEOUT")

	setFloat64(&cfg.Rate.RequestsPerSecond, "SENTRYCHAT_RATE_RPS")
	setInt(&cfg.Rate.Burst, "SENTRYCHAT_RATE_BURST")

	setBool(&cfg.Metrics.Enabled, "SENTRYCHAT_METRICS_ENABLED")
	setString(&cfg.Metrics.Endpoint, "SENTRYCHAT_METRICS_ENDPOINT")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Cache.Enabled {
		if cfg.Cache.Backend != "redis" && cfg.Cache.Backend != "nats" {
			return fmt.Errorf("cache.backend must be redis or nats, got %q", cfg.Cache.Backend)
		}
		if cfg.Cache.Addr == "" {
			return errors.New("cache.addr is required when cache is enabled")
		}
	}
	if cfg.Cache.DefaultTTL <= 0 {
		return errors.New("cache.default_ttl must be positive")
	}
	if cfg.Session.Lifetime <= 0 {
		return errors.New("session.lifetime must be positive")
	}
	if len(cfg.Security.AllowedHosts) == 0 {
		return errors.New("security.allowed_hosts must not be empty")
	}
	if cfg.Security.MaxRequestSize < 1 {
		return errors.New("security.max_request_size must be >= 1")
	}
	if cfg.Report.ErrorTTL <= 0 {
		return errors.New("report.error_ttl must be positive")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Rate.Burst < 1 {
		return errors.New("rate.burst must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			*dst = out
		}
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
