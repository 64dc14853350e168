package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Muhammadkaif97/cpn-calculator/internal/monitoring"
	"github.com/pelletier/go-toml/v2"
)

// Load builds the configuration: defaults, then the TOML file at path (if path is not
// empty), then environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		expandedPath, err := expandPath(path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path: %w", err)
		}

		data, err := os.ReadFile(expandedPath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("config file not found: %s", expandedPath)
			}
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// ApplyEnv overrides settings from the environment. lookup is os.LookupEnv outside tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s must be an integer, got %q", key, v))
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s must be a duration, got %q", key, v))
				return
			}
			dst.Duration = d
		}
	}

	num("PORT", &c.Server.Port)
	str("GIN_MODE", &c.Server.Mode)
	str("LOG_LEVEL", &c.Log.Level)
	if v, ok := lookup("ALLOWED_ORIGINS"); ok && v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	num("REDIS_DB", &c.Redis.DB)

	num("RATE_LIMIT_IP_PER_MINUTE", &c.RateLimit.IPPerMinute)
	num("RATE_LIMIT_CONTACT_PER_MINUTE", &c.RateLimit.ContactPerMinute)
	dur("CACHE_TTL", &c.Cache.TTL)

	str("CONTACT_ENDPOINT", &c.Contact.Endpoint)
	dur("CONTACT_TIMEOUT", &c.Contact.Timeout)
	str("SMTP_HOST", &c.Contact.SMTP.Host)
	num("SMTP_PORT", &c.Contact.SMTP.Port)
	str("SMTP_USERNAME", &c.Contact.SMTP.Username)
	str("SMTP_PASSWORD", &c.Contact.SMTP.Password)
	str("SMTP_FROM", &c.Contact.SMTP.From)
	str("SMTP_TO", &c.Contact.SMTP.To)

	if v, ok := lookup("ENABLE_HSTS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("ENABLE_HSTS must be a boolean, got %q", v))
		} else {
			c.Security.EnableHSTS = b
		}
	}
	str("CSP_REPORT_URI", &c.Security.CSPReportURI)

	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// origin reduces a URL to scheme://host for the CSP form-action list.
func origin(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode must be 'debug', 'release' or 'test', got '%s'", c.Server.Mode))
	}
	if c.Server.ShutdownTimeout.Duration <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}

	for _, o := range c.Server.AllowedOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			errs = append(errs, fmt.Errorf("server.allowed_origins entries must be '*' or start with http:// or https://, got '%s'", o))
		}
	}

	if _, err := monitoring.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if c.RateLimit.IPPerMinute < 0 || c.RateLimit.ContactPerMinute < 0 {
		errs = append(errs, errors.New("rate_limit values must not be negative"))
	}
	if c.RateLimit.BurstMultiplier < 1 {
		errs = append(errs, errors.New("rate_limit.burst_multiplier must be at least 1"))
	}
	if c.Cache.TTL.Duration < 0 {
		errs = append(errs, errors.New("cache.ttl must not be negative"))
	}

	if c.Contact.Endpoint != "" {
		u, err := url.Parse(c.Contact.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("contact.endpoint must be an http(s) URL, got '%s'", c.Contact.Endpoint))
		}
	}
	if s := c.Contact.SMTP; s.Host != "" {
		if s.Port < 1 || s.Port > 65535 {
			errs = append(errs, fmt.Errorf("contact.smtp.port must be between 1 and 65535, got %d", s.Port))
		}
		if s.From == "" || s.To == "" {
			errs = append(errs, errors.New("contact.smtp.from and contact.smtp.to are required when contact.smtp.host is set"))
		}
	}

	if c.Security.MaxBodyBytes < 0 {
		errs = append(errs, errors.New("security.max_body_bytes must not be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
