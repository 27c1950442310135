package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	LogLevel      string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	// OperatorToken guards /admin routes; empty disables them.
	OperatorToken string

	PostgresDSN string
	Redis       RedisConfig

	Catalog CatalogConfig
	Browse  BrowseConfig
}

// RedisConfig configures the optional donation cache. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// CatalogConfig controls how donation collections are fetched.
type CatalogConfig struct {
	CacheTTL     time.Duration
	FetchTimeout time.Duration
}

// BrowseConfig controls browse session lifetime and contact throttling.
type BrowseConfig struct {
	SessionTTL         time.Duration
	ContactRatePerMin  int
	ContactBurst       int
	MaxSessionsPerUser int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:     getEnv("DONORLINK_ADDR", ":8080"),
		LogLevel: getEnv("DONORLINK_LOG_LEVEL", "info"),
		// Development default; production deployments must override it.
		JWTSigningKey: getEnv("DONORLINK_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:     getEnv("DONORLINK_JWT_ISSUER", "donorlink"),
		JWTAudience:   getEnv("DONORLINK_JWT_AUDIENCE", "donorlink-api"),
		OperatorToken: os.Getenv("DONORLINK_OPERATOR_TOKEN"),
		PostgresDSN:   os.Getenv("DONORLINK_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("DONORLINK_REDIS_URL"),
			PoolSize:     getEnvInt("DONORLINK_REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("DONORLINK_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("DONORLINK_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("DONORLINK_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("DONORLINK_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Catalog: CatalogConfig{
			CacheTTL:     getEnvDuration("DONORLINK_CATALOG_CACHE_TTL", time.Minute),
			FetchTimeout: getEnvDuration("DONORLINK_CATALOG_FETCH_TIMEOUT", 10*time.Second),
		},
		Browse: BrowseConfig{
			SessionTTL:         getEnvDuration("DONORLINK_SESSION_TTL", 30*time.Minute),
			ContactRatePerMin:  getEnvInt("DONORLINK_CONTACT_RATE_PER_MIN", 30),
			ContactBurst:       getEnvInt("DONORLINK_CONTACT_BURST", 5),
			MaxSessionsPerUser: getEnvInt("DONORLINK_MAX_SESSIONS_PER_USER", 5),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
