package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnv             = "development"
	defaultHTTPHost        = "0.0.0.0"
	defaultHTTPPort        = 8080
	defaultGeminiModel     = "gemini-2.0-flash-001"
	defaultLanguage        = "marathi"
	defaultTranslateSecs   = 10
	defaultTickSecs        = 30
	defaultSessionTTLMins  = 60
	defaultRedisDB         = 0
	defaultCacheTTLSeconds = 15
	defaultRatesExchange   = "mandi.rates"
)

// Config keeps the runtime configuration for the service.
type Config struct {
	Env         string
	HTTP        HTTPConfig
	Gemini      GeminiConfig
	Market      MarketConfig
	Session     SessionConfig
	Redis       RedisConfig
	Cache       CacheConfig
	RabbitMQ    RabbitMQConfig
	DefaultLang string
}

// HTTPConfig holds HTTP server related settings.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr renders the listen address in host:port form.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// GeminiConfig stores translation gateway credentials. An empty APIKey is a
// valid configuration: translation degrades to pass-through for the session.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Enabled reports whether the gateway credential is present.
func (g GeminiConfig) Enabled() bool {
	return g.APIKey != ""
}

// MarketConfig controls the mock market simulation.
type MarketConfig struct {
	// TickInterval is how often every session's catalog is perturbed.
	// Zero disables the background ticker.
	TickInterval time.Duration
}

// SessionConfig controls session lifecycle.
type SessionConfig struct {
	TTL time.Duration
}

// RedisConfig stores Redis connection parameters; an empty Addr disables the
// HTTP response cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig stores HTTP response cache behavior.
type CacheConfig struct {
	TTLSeconds int
}

// RabbitMQConfig stores broker settings; an empty URL disables publishing.
type RabbitMQConfig struct {
	URL           string
	RatesExchange string
}

// Load builds Config from environment variables. A local .env file is
// optional; variables provided by the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	host := getString("HTTP_HOST", defaultHTTPHost)
	port, err := getInt("HTTP_PORT", defaultHTTPPort)
	if err != nil {
		return nil, fmt.Errorf("parse HTTP_PORT: %w", err)
	}

	translateSecs, err := getInt("TRANSLATE_TIMEOUT_SECONDS", defaultTranslateSecs)
	if err != nil {
		return nil, fmt.Errorf("parse TRANSLATE_TIMEOUT_SECONDS: %w", err)
	}

	tickSecs, err := getInt("TICK_INTERVAL_SECONDS", defaultTickSecs)
	if err != nil {
		return nil, fmt.Errorf("parse TICK_INTERVAL_SECONDS: %w", err)
	}

	sessionTTL, err := getInt("SESSION_TTL_MINUTES", defaultSessionTTLMins)
	if err != nil {
		return nil, fmt.Errorf("parse SESSION_TTL_MINUTES: %w", err)
	}

	redisDB, err := getInt("REDIS_DB", defaultRedisDB)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_DB: %w", err)
	}

	cacheTTL, err := getInt("CACHE_TTL_SECONDS", defaultCacheTTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("parse CACHE_TTL_SECONDS: %w", err)
	}

	return &Config{
		Env: getString("APP_ENV", defaultEnv),
		HTTP: HTTPConfig{
			Host: host,
			Port: port,
		},
		Gemini: GeminiConfig{
			APIKey:  os.Getenv("GEMINI_API_KEY"),
			Model:   getString("GEMINI_MODEL", defaultGeminiModel),
			Timeout: time.Duration(translateSecs) * time.Second,
		},
		Market: MarketConfig{
			TickInterval: time.Duration(tickSecs) * time.Second,
		},
		Session: SessionConfig{
			TTL: time.Duration(sessionTTL) * time.Minute,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Cache: CacheConfig{
			TTLSeconds: cacheTTL,
		},
		RabbitMQ: RabbitMQConfig{
			URL:           os.Getenv("RABBITMQ_URL"),
			RatesExchange: getString("RATES_EXCHANGE", defaultRatesExchange),
		},
		DefaultLang: getString("DEFAULT_LANGUAGE", defaultLanguage),
	}, nil
}

func getString(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("convert %s value %q to int: %w", key, value, err)
	}
	return parsed, nil
}
