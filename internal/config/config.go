// Package config loads server settings from an optional TOML file and the environment.
package config

import (
	"time"

	"github.com/Muhammadkaif97/cpn-calculator/internal/contact"
	"github.com/Muhammadkaif97/cpn-calculator/internal/ratelimit"
	"github.com/Muhammadkaif97/cpn-calculator/internal/security"
)

// Config is the complete server configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Log       LogConfig       `toml:"log"`
	Redis     RedisConfig     `toml:"redis"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Cache     CacheConfig     `toml:"cache"`
	Contact   ContactConfig   `toml:"contact"`
	Security  SecurityConfig  `toml:"security"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port            int      `toml:"port"`
	Mode            string   `toml:"mode"`
	AllowedOrigins  []string `toml:"allowed_origins"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `toml:"level"`
}

// RedisConfig points the rate limiter at Redis. An empty Addr keeps limits in memory.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// RateLimitConfig is per minute.
type RateLimitConfig struct {
	IPPerMinute      int `toml:"ip_per_minute"`
	ContactPerMinute int `toml:"contact_per_minute"`
	BurstMultiplier  int `toml:"burst_multiplier"`
}

// CacheConfig controls the suggestion response cache.
type CacheConfig struct {
	TTL Duration `toml:"ttl"`
}

// ContactConfig selects how contact submissions leave the server. Endpoint wins over SMTP.
type ContactConfig struct {
	Endpoint string     `toml:"endpoint"`
	Timeout  Duration   `toml:"timeout"`
	SMTP     SMTPConfig `toml:"smtp"`
}

// SMTPConfig mirrors contact.SMTPSettings.
type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	To       string `toml:"to"`
}

// SecurityConfig controls response hardening.
type SecurityConfig struct {
	EnableHSTS     bool     `toml:"enable_hsts"`
	CSPReportURI   string   `toml:"csp_report_uri"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
	RequestTimeout Duration `toml:"request_timeout"`
}

// Duration reads "30s"-style strings from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration that runs locally without any external service.
func Default() *Config {
	rl := ratelimit.DefaultConfig()
	sec := security.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Mode:            "release",
			AllowedOrigins:  []string{"http://localhost:8080"},
			ShutdownTimeout: Duration{30 * time.Second},
		},
		Log: LogConfig{Level: "info"},
		RateLimit: RateLimitConfig{
			IPPerMinute:      rl.IPLimitPerMin,
			ContactPerMinute: rl.ContactLimitPerMin,
			BurstMultiplier:  rl.BurstMultiplier,
		},
		Cache: CacheConfig{TTL: Duration{15 * time.Minute}},
		Contact: ContactConfig{
			Timeout: Duration{10 * time.Second},
			SMTP:    SMTPConfig{Port: 587},
		},
		Security: SecurityConfig{
			MaxBodyBytes:   sec.MaxBodyBytes,
			RequestTimeout: Duration{sec.RequestTimeout},
		},
	}
}

// RateLimiter converts to the limiter's settings.
func (c *Config) RateLimiter() ratelimit.Config {
	return ratelimit.Config{
		IPLimitPerMin:      c.RateLimit.IPPerMinute,
		ContactLimitPerMin: c.RateLimit.ContactPerMinute,
		BurstMultiplier:    c.RateLimit.BurstMultiplier,
	}
}

// SecurityHeaders converts to the security middleware settings.
func (c *Config) SecurityHeaders() security.Config {
	return security.Config{
		EnableHSTS:     c.Security.EnableHSTS,
		CSPReportURI:   c.Security.CSPReportURI,
		ContactOrigin:  origin(c.Contact.Endpoint),
		MaxBodyBytes:   c.Security.MaxBodyBytes,
		RequestTimeout: c.Security.RequestTimeout.Duration,
	}
}

// SMTPSettings converts to the mailer settings.
func (c *Config) SMTPSettings() contact.SMTPSettings {
	s := c.Contact.SMTP
	return contact.SMTPSettings{
		Host:     s.Host,
		Port:     s.Port,
		Username: s.Username,
		Password: s.Password,
		From:     s.From,
		To:       s.To,
	}
}

// Delivery picks the contact backend: the relay endpoint, then SMTP, else nil.
func (c *Config) Delivery() (contact.Delivery, string) {
	switch {
	case c.Contact.Endpoint != "":
		return contact.NewRelayClient(c.Contact.Endpoint, c.Contact.Timeout.Duration), "relay"
	case c.Contact.SMTP.Host != "":
		return contact.NewSMTPMailer(c.SMTPSettings()), "smtp"
	default:
		return nil, "none"
	}
}
