package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	ServiceName    = "storefront"
	ServiceVersion = "v1.0.0"

	EventsTopic   = "storefront.events"
	CheckoutTopic = "checkout.events"
	ConsumerGroup = "storefront-cart-consumer"

	// DevJWTSecret signs sessions outside production when JWT_SECRET is unset.
	DevJWTSecret = "dev-secret-change-me"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in production")

type Config struct {
	Port    string
	Env     string
	Version string

	JWTSecret    string
	SessionTTL   time.Duration
	SecureCookie bool

	CatalogBaseURL  string
	CatalogTimeout  time.Duration
	CatalogCacheTTL time.Duration
	CatalogRefresh  time.Duration
	CatalogMemoSize int

	RedisAddr       string
	RecentSearchTTL time.Duration
	DBURL           string
	KafkaBroker     string
	OTLPEndpoint    string

	OutboxInterval time.Duration
	ConnectRetries int
	RetryDelay     time.Duration
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() Config {
	_ = godotenv.Load()

	env := getenv("APP_ENV", "development")
	return Config{
		Port:    getenv("PORT", "3000"),
		Env:     env,
		Version: getenv("APP_VERSION", ServiceVersion),

		JWTSecret:    getenv("JWT_SECRET", DevJWTSecret),
		SessionTTL:   getDuration("SESSION_TTL", 30*24*time.Hour),
		SecureCookie: env == "production",

		CatalogBaseURL:  getenv("CATALOG_BASE_URL", "https://fakestoreapi.com"),
		CatalogTimeout:  getDuration("CATALOG_TIMEOUT", 10*time.Second),
		CatalogCacheTTL: getDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		CatalogRefresh:  getDuration("CATALOG_REFRESH", time.Minute),
		CatalogMemoSize: getInt("CATALOG_MEMO_SIZE", 128),

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RecentSearchTTL: getDuration("RECENT_SEARCH_TTL", 0),
		DBURL:           os.Getenv("DB_URL"),
		KafkaBroker:     os.Getenv("KAFKA_BROKER"),
		OTLPEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),

		OutboxInterval: getDuration("OUTBOX_INTERVAL", 5*time.Second),
		ConnectRetries: getInt("CONNECT_RETRIES", 5),
		RetryDelay:     getDuration("CONNECT_RETRY_DELAY", 5*time.Second),
	}
}

// Validate rejects settings the API must not start with.
func (c Config) Validate() error {
	if c.Env == "production" && (c.JWTSecret == "" || c.JWTSecret == DevJWTSecret) {
		return ErrMissingJWTSecret
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}
