// Package config assembles runtime configuration for the site binaries from
// defaults, an optional .env file, and environment variables.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultEnvFile      = ".env"
	defaultPort         = "8080"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 120 * time.Second

	defaultRelayEndpoint = "https://api.web3forms.com/submit"
	defaultSiteBaseURL   = "https://vividigit.com"
	defaultLanguage      = "en"
	defaultCurrency      = "USD"
)

// WebConfig captures runtime configuration for the web server, organised by
// concern.
type WebConfig struct {
	Server  ServerConfig
	Site    SiteConfig
	Session SessionConfig
	Relay   RelayConfig
	Payment PaymentConfig
}

// CheckoutConfig captures runtime configuration for the checkout service.
type CheckoutConfig struct {
	Server        ServerConfig
	Revolut       RevolutConfig
	AllowedOrigin string
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// SiteConfig holds site-wide identity settings.
type SiteConfig struct {
	BaseURL     string
	DefaultLang string
}

// SessionConfig controls the signed cart cookie.
type SessionConfig struct {
	SigningKey string
	Secure     bool
}

// RelayConfig configures form dispatch to the relay provider.
type RelayConfig struct {
	AccessKey string
	Endpoint  string
}

// PaymentConfig points the web server at the checkout service.
type PaymentConfig struct {
	CheckoutURL string
	Currency    string
}

// RevolutConfig holds merchant API credentials for the checkout service.
type RevolutConfig struct {
	APIKey      string
	Environment string
}

// ValidationError is returned when required configuration fields are missing.
type ValidationError struct {
	fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) { o.envFile = path }
}

// WithEnvMap injects an explicit key/value map for environment lookups.
// Values in the map take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) { o.envMap = values }
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided
// maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) { o.useSystemEnv = false }
}

// LoadWeb builds the web server configuration.
func LoadWeb(opts ...Option) (WebConfig, error) {
	lookup, err := buildLookup(opts)
	if err != nil {
		return WebConfig{}, err
	}

	cfg := WebConfig{
		Server: serverConfig(lookup, "WEB"),
		Site: SiteConfig{
			BaseURL:     stringWithDefault(lookup, "WEB_SITE_BASE_URL", defaultSiteBaseURL),
			DefaultLang: stringWithDefault(lookup, "WEB_SITE_DEFAULT_LANG", defaultLanguage),
		},
		Session: SessionConfig{
			SigningKey: stringWithDefault(lookup, "WEB_SESSION_SIGNING_KEY", ""),
			Secure:     boolWithDefault(lookup, "WEB_SESSION_SECURE", true),
		},
		Relay: RelayConfig{
			AccessKey: stringWithDefault(lookup, "WEB_RELAY_ACCESS_KEY", ""),
			Endpoint:  stringWithDefault(lookup, "WEB_RELAY_ENDPOINT", defaultRelayEndpoint),
		},
		Payment: PaymentConfig{
			CheckoutURL: stringWithDefault(lookup, "WEB_CHECKOUT_URL", ""),
			Currency:    strings.ToUpper(stringWithDefault(lookup, "WEB_CHECKOUT_CURRENCY", defaultCurrency)),
		},
	}

	var missing []string
	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	}
	if cfg.Relay.Endpoint == "" {
		missing = append(missing, "Relay.Endpoint")
	}
	if len(missing) > 0 {
		return WebConfig{}, &ValidationError{fields: missing}
	}
	return cfg, nil
}

// LoadCheckout builds the checkout service configuration.
func LoadCheckout(opts ...Option) (CheckoutConfig, error) {
	lookup, err := buildLookup(opts)
	if err != nil {
		return CheckoutConfig{}, err
	}

	cfg := CheckoutConfig{
		Server: serverConfig(lookup, "CHECKOUT"),
		Revolut: RevolutConfig{
			APIKey:      stringWithDefault(lookup, "CHECKOUT_REVOLUT_API_KEY", ""),
			Environment: strings.ToLower(stringWithDefault(lookup, "CHECKOUT_REVOLUT_ENV", "sandbox")),
		},
		AllowedOrigin: stringWithDefault(lookup, "CHECKOUT_ALLOWED_ORIGIN", defaultSiteBaseURL),
	}

	var missing []string
	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	}
	if cfg.Revolut.APIKey == "" {
		missing = append(missing, "Revolut.APIKey")
	}
	if len(missing) > 0 {
		return CheckoutConfig{}, &ValidationError{fields: missing}
	}
	return cfg, nil
}

func serverConfig(lookup lookupFunc, prefix string) ServerConfig {
	return ServerConfig{
		Port:         stringWithDefault(lookup, prefix+"_SERVER_PORT", defaultPort),
		ReadTimeout:  durationWithDefault(lookup, prefix+"_SERVER_READ_TIMEOUT", defaultReadTimeout),
		WriteTimeout: durationWithDefault(lookup, prefix+"_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
		IdleTimeout:  durationWithDefault(lookup, prefix+"_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
	}
}

type lookupFunc func(string) (string, bool)

func buildLookup(opts []Option) (lookupFunc, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return nil, err
	}

	return func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}, nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		value = strings.Trim(value, "\"'")
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup lookupFunc, key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup lookupFunc, key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func boolWithDefault(lookup lookupFunc, key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
