package config

import (
	"log/slog"
	"strings"
	"time"
)

type LogLeveler string

func (l LogLeveler) Level() slog.Level {
	var level slog.Level

	_ = level.UnmarshalText([]byte(l))

	return level
}

// Config holds the server configuration.
type Config struct {
	LogLevel     LogLeveler   `mapstructure:"LOG_LEVEL"`
	Environment  string       `mapstructure:"APP_ENV"`
	DB           DB           `mapstructure:",squash"`
	HTTP         HTTP         `mapstructure:",squash"`
	Redis        Redis        `mapstructure:",squash"`
	Duffel       Duffel       `mapstructure:",squash"`
	AirLabs      AirLabs      `mapstructure:",squash"`
	Anthropic    Anthropic    `mapstructure:",squash"`
	Mem0         Mem0         `mapstructure:",squash"`
	OCR          OCR          `mapstructure:",squash"`
	Stripe       Stripe       `mapstructure:",squash"`
	Tools        Tools        `mapstructure:",squash"`
	AirlineCache AirlineCache `mapstructure:",squash"`
	RateLimit    RateLimit    `mapstructure:",squash"`
}

// IsDevelopment reports whether internal error details may be exposed.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

type DB struct {
	DSN                   string        `mapstructure:"DB_DSN"`
	MaxOpenConnections    int           `mapstructure:"DB_MAX_OPEN_CONNECTIONS"`
	MaxIdleConnections    int           `mapstructure:"DB_MAX_IDLE_CONNECTIONS"`
	MaxConnectionLifetime time.Duration `mapstructure:"DB_MAX_CONNECTIONS_LIFETIME"`
	MaxConnectionIdleTime time.Duration `mapstructure:"DB_MAX_CONNECTION_IDLE_TIME"`
}

type HTTP struct {
	Port               int           `mapstructure:"HTTP_PORT"`
	Timeout            time.Duration `mapstructure:"HTTP_TIMEOUT"`
	CORSAllowedOrigins []string      `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

type Redis struct {
	Addr     string        `mapstructure:"REDIS_ADDR"`
	Password string        `mapstructure:"REDIS_PASSWORD"`
	DB       int           `mapstructure:"REDIS_DB"`
	Timeout  time.Duration `mapstructure:"REDIS_TIMEOUT"`
}

// Duffel holds the flight content vendor configuration.
type Duffel struct {
	APIKey                string        `mapstructure:"DUFFEL_API_KEY"`
	AccessToken           string        `mapstructure:"DUFFEL_ACCESS_TOKEN"`
	BaseURL               string        `mapstructure:"DUFFEL_BASE_URL"`
	Version               string        `mapstructure:"DUFFEL_VERSION"`
	Timeout               time.Duration `mapstructure:"DUFFEL_TIMEOUT"`
	RateLimitRPS          int           `mapstructure:"DUFFEL_RATE_LIMIT"`
	MaxOffers             int           `mapstructure:"DUFFEL_MAX_OFFERS"`
	SearchCacheExpiration time.Duration `mapstructure:"DUFFEL_SEARCH_CACHE_EXPIRATION"`
	LockTimeout           time.Duration `mapstructure:"DUFFEL_LOCK_TIMEOUT"`
}

// Token returns the access token, falling back to the legacy api key variable.
func (d Duffel) Token() string {
	if d.AccessToken != "" {
		return d.AccessToken
	}

	return d.APIKey
}

type AirLabs struct {
	APIKey  string        `mapstructure:"AIRLABS_API_KEY"`
	BaseURL string        `mapstructure:"AIRLABS_BASE_URL"`
	Timeout time.Duration `mapstructure:"AIRLABS_TIMEOUT"`
}

type Anthropic struct {
	APIKey    string        `mapstructure:"ANTHROPIC_API_KEY"`
	BaseURL   string        `mapstructure:"ANTHROPIC_BASE_URL"`
	Model     string        `mapstructure:"ANTHROPIC_MODEL"`
	MaxTokens int           `mapstructure:"ANTHROPIC_MAX_TOKENS"`
	Timeout   time.Duration `mapstructure:"ANTHROPIC_TIMEOUT"`
}

type Mem0 struct {
	APIKey  string        `mapstructure:"MEM0_API_KEY"`
	BaseURL string        `mapstructure:"MEM0_BASE_URL"`
	Timeout time.Duration `mapstructure:"MEM0_TIMEOUT"`
}

type OCR struct {
	APIKey         string        `mapstructure:"OCR_SPACE_API_KEY"`
	BaseURL        string        `mapstructure:"OCR_SPACE_BASE_URL"`
	Timeout        time.Duration `mapstructure:"OCR_TIMEOUT"`
	MaxUploadBytes int64         `mapstructure:"OCR_MAX_UPLOAD_BYTES"`
}

type Stripe struct {
	SecretKey     string `mapstructure:"STRIPE_SECRET_KEY"`
	WebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
}

// Tools holds the settings used by the chat router to reach the tool endpoints.
type Tools struct {
	BaseURL string        `mapstructure:"NEXT_PUBLIC_BASE_URL"`
	Timeout time.Duration `mapstructure:"TOOLS_TIMEOUT"`
}

type AirlineCache struct {
	TTL              time.Duration `mapstructure:"AIRLINE_CACHE_TTL"`
	FetchConcurrency int           `mapstructure:"AIRLINE_FETCH_CONCURRENCY"`
}

// RateLimit holds inbound request limits per client, in requests per minute.
// TrustedProxies lists the peers (IPs or CIDRs) whose X-Forwarded-For is honoured.
type RateLimit struct {
	ChatPerMinute   int      `mapstructure:"CHAT_RATE_LIMIT"`
	SearchPerMinute int      `mapstructure:"SEARCH_RATE_LIMIT"`
	TrustedProxies  []string `mapstructure:"TRUSTED_PROXIES"`
}
