package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	DatabaseURL      string
	ServerPort       string
	BaseURL          string
	FrontendURL      string
	Environment      string
	EnableHSTS       bool
	DefaultLanguage  string
	RedisURL         string
	RabbitMQURL      string
	RabbitMQPrefetch int
	WorkerDebugMode  bool
	ServerDebugMode  bool
	OTELEnabled      bool
	OTELEndpoint     string

	// Back-office session issuance. These are validated per request, not at load.
	AdminEmail        string
	FirebaseProjectID string
	AuthCookieSecret  string
	KeysMaxCacheAge   time.Duration

	EmailHost string
	EmailPort int
	EmailUser string
	EmailPass string
	EmailFrom string
}

// AuthConfig is the subset of configuration the session issuer depends on.
type AuthConfig struct {
	AdminEmail    string
	ProjectID     string
	SessionSecret string
}

// Missing returns the environment variable names that are not set.
func (a AuthConfig) Missing() []string {
	var missing []string
	if a.AdminEmail == "" {
		missing = append(missing, "ADMIN_EMAIL")
	}
	if a.ProjectID == "" {
		missing = append(missing, "FIREBASE_PROJECT_ID")
	}
	if a.SessionSecret == "" {
		missing = append(missing, "AUTH_COOKIE_SECRET")
	}
	return missing
}

// MailConfig holds SMTP relay settings.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// Configured reports whether enough is set to dial the relay.
func (m MailConfig) Configured() bool {
	return m.Host != "" && m.Port > 0 && m.From != "" && m.To != ""
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	e := env(getenv)
	cfg := &Config{
		DatabaseURL:      e.get("DATABASE_URL", ""),
		ServerPort:       e.get("SERVER_PORT", "8080"),
		BaseURL:          e.get("BASE_URL", "http://localhost:8080"),
		FrontendURL:      e.get("FRONTEND_URL", "http://localhost:3000"),
		Environment:      strings.ToLower(e.get("APP_ENV", "development")),
		EnableHSTS:       e.getBool("ENABLE_HSTS", false),
		DefaultLanguage:  e.get("DEFAULT_LANGUAGE", "es"),
		RedisURL:         e.get("REDIS_URL", "redis://localhost:6379/0"),
		RabbitMQURL:      e.get("RABBITMQ_URL", ""),
		RabbitMQPrefetch: e.getInt("RABBITMQ_PREFETCH", 1),
		WorkerDebugMode:  e.getBool("WORKER_DEBUG_MODE", false),
		ServerDebugMode:  e.getBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:      e.getBool("OTEL_ENABLED", false),
		OTELEndpoint:     e.get("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		AdminEmail:        e.get("ADMIN_EMAIL", ""),
		FirebaseProjectID: e.get("FIREBASE_PROJECT_ID", ""),
		AuthCookieSecret:  e.get("AUTH_COOKIE_SECRET", ""),
		KeysMaxCacheAge:   e.getDuration("FIREBASE_KEYS_MAX_CACHE", time.Hour),

		EmailHost: e.get("EMAIL_HOST", ""),
		EmailPort: e.getInt("EMAIL_PORT", 587),
		EmailUser: e.get("EMAIL_USER", ""),
		EmailPass: e.get("EMAIL_PASS", ""),
	}
	cfg.EmailFrom = e.get("EMAIL_FROM", cfg.EmailUser)

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.KeysMaxCacheAge < 0 {
		return nil, fmt.Errorf("FIREBASE_KEYS_MAX_CACHE must not be negative")
	}

	return cfg, nil
}

// IsProduction reports whether cookies must be marked Secure.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Auth returns the session issuer configuration.
func (c *Config) Auth() AuthConfig {
	return AuthConfig{
		AdminEmail:    c.AdminEmail,
		ProjectID:     c.FirebaseProjectID,
		SessionSecret: c.AuthCookieSecret,
	}
}

// Mail returns the SMTP configuration. Contact mail is delivered to the admin.
func (c *Config) Mail() MailConfig {
	return MailConfig{
		Host:     c.EmailHost,
		Port:     c.EmailPort,
		Username: c.EmailUser,
		Password: c.EmailPass,
		From:     c.EmailFrom,
		To:       c.AdminEmail,
	}
}

type env func(string) string

func (e env) get(key, defaultValue string) string {
	if value := e(key); value != "" {
		return value
	}
	return defaultValue
}

func (e env) getBool(key string, defaultValue bool) bool {
	if value := e(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func (e env) getInt(key string, defaultValue int) int {
	if value := e(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (e env) getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := e(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
