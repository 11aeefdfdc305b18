package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Listing source modes.
const (
	ModeAPI  = "api"
	ModeHTML = "html"
	ModeAuto = "auto"
)

// Config stores all configuration for the application.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`
	LogFile    string `mapstructure:"LOG_FILE"`
	CORSOrigin string `mapstructure:"CORS_ORIGIN"`

	DefaultOrgID  string `mapstructure:"DEFAULT_ORG_ID"`
	FinnMode      string `mapstructure:"FINN_MODE"`
	FinnAPIKey    string `mapstructure:"FINN_API_KEY"`
	FinnOrigin    string `mapstructure:"FINN_ORIGIN"`
	FinnSearchURL string `mapstructure:"FINN_SEARCH_URL"`
	FinnAPIURL    string `mapstructure:"FINN_API_URL"`
	FinnFeedURL   string `mapstructure:"FINN_FEED_URL"`

	FetchTimeoutSeconds int    `mapstructure:"FETCH_TIMEOUT_SECONDS"`
	FetchBrowser        bool   `mapstructure:"FETCH_BROWSER"`
	FetchProxy          string `mapstructure:"FETCH_PROXY"`
	CacheTTLSeconds     int    `mapstructure:"CACHE_TTL_SECONDS"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	PostgresURL   string `mapstructure:"POSTGRES_URL"`
	CarsFile      string `mapstructure:"CARS_FILE"`

	SMTPHost string `mapstructure:"SMTP_HOST"`
	SMTPPort int    `mapstructure:"SMTP_PORT"`
	SMTPUser string `mapstructure:"SMTP_USER"`
	SMTPPass string `mapstructure:"SMTP_PASS"`
	MailFrom string `mapstructure:"MAIL_FROM"`
	MailTo   string `mapstructure:"MAIL_TO"`
}

// Every key needs a default, even an empty one, or viper.Unmarshal will not
// pick it up from the environment.
var defaults = map[string]any{
	"SERVER_PORT":           "3000",
	"LOG_LEVEL":             "info",
	"LOG_FILE":              "",
	"CORS_ORIGIN":           "*",
	"DEFAULT_ORG_ID":        "4008599",
	"FINN_MODE":             ModeHTML,
	"FINN_API_KEY":          "",
	"FINN_ORIGIN":           "https://www.finn.no",
	"FINN_SEARCH_URL":       "https://www.finn.no/mobility/search/car?orgId={orgId}",
	"FINN_API_URL":          "https://www.finn.no/api/search-qf?searchkey=SEARCH_ID_CAR_USED&orgId={orgId}",
	"FINN_FEED_URL":         "https://cache.api.finn.no/iad/search/car-norway?orgId={orgId}",
	"FETCH_TIMEOUT_SECONDS": 15,
	"FETCH_BROWSER":         false,
	"FETCH_PROXY":           "",
	"CACHE_TTL_SECONDS":     300,
	"REDIS_ADDR":            "",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"POSTGRES_URL":          "",
	"CARS_FILE":             "data/cars.json",
	"SMTP_HOST":             "",
	"SMTP_PORT":             587,
	"SMTP_USER":             "",
	"SMTP_PASS":             "",
	"MAIL_FROM":             "",
	"MAIL_TO":               "",
}

// Load reads configuration from envFile (if present) and the environment.
// Environment variables win over the file.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		// A missing .env is fine; production is configured through the environment.
		_ = v.ReadInConfig()
	}
	v.AutomaticEnv()

	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	// PORT is what most hosting platforms inject.
	_ = v.BindEnv("SERVER_PORT", "SERVER_PORT", "PORT")
	_ = v.BindEnv("CORS_ORIGIN", "CORS_ORIGIN", "ORIGIN")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.FinnMode = strings.ToLower(strings.TrimSpace(cfg.FinnMode))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	switch c.FinnMode {
	case ModeAPI, ModeHTML, ModeAuto:
	default:
		errs = append(errs, fmt.Errorf("FINN_MODE must be one of api, html, auto; got %q", c.FinnMode))
	}
	if c.FetchTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("FETCH_TIMEOUT_SECONDS must be positive"))
	}
	if c.CacheTTLSeconds < 0 {
		errs = append(errs, errors.New("CACHE_TTL_SECONDS must not be negative"))
	}
	if c.ServerPort == "" {
		errs = append(errs, errors.New("SERVER_PORT must be set"))
	}
	return errors.Join(errs...)
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// CacheTTL is zero when caching is disabled.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// MailConfigured reports whether outgoing mail can be sent.
func (c *Config) MailConfigured() bool {
	return c.SMTPHost != "" && c.MailFrom != "" && c.MailTo != ""
}
