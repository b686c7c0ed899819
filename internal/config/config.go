package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the portal.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Cache    CacheConfig
	Seed     SeedConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// CacheConfig bounds read staleness per query shape. A caller's own writes
// invalidate their cached reads synchronously; other callers may observe a
// write only after the relevant TTL elapses.
type CacheConfig struct {
	ListTTLSeconds   int
	ThreadTTLSeconds int
	StatsTTLSeconds  int
}

// SeedConfig describes the first-run accounts created when the users table
// is empty of them: one analyst able to triage and manage roles, and one
// plain end-user for smoke testing the non-analyst path.
type SeedConfig struct {
	Enabled        bool
	AdminUsername  string
	AdminPassword  string
	AdminEmail     string
	AdminFullName  string
	Department     string
	SampleUsername string
	SamplePassword string
	SampleEmail    string
	SampleFullName string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "request-portal"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Cache: CacheConfig{
			ListTTLSeconds:   getEnvAsInt("CACHE_LIST_TTL_SECONDS", 60),
			ThreadTTLSeconds: getEnvAsInt("CACHE_THREAD_TTL_SECONDS", 30),
			StatsTTLSeconds:  getEnvAsInt("CACHE_STATS_TTL_SECONDS", 120),
		},
		Seed: SeedConfig{
			Enabled:        getEnvAsBool("SEED_ENABLED", true),
			AdminUsername:  getEnv("SEED_ADMIN_USERNAME", "oop_admin"),
			AdminPassword:  getEnv("SEED_ADMIN_PASSWORD", "admin123"),
			AdminEmail:     getEnv("SEED_ADMIN_EMAIL", "oop-admin@example.com"),
			AdminFullName:  getEnv("SEED_ADMIN_FULL_NAME", "Portal Administrator"),
			Department:     getEnv("SEED_ADMIN_DEPARTMENT", "Performance & Forecasting"),
			SampleUsername: getEnv("SEED_SAMPLE_USERNAME", "test_user"),
			SamplePassword: getEnv("SEED_SAMPLE_PASSWORD", "test123"),
			SampleEmail:    getEnv("SEED_SAMPLE_EMAIL", "test-user@example.com"),
			SampleFullName: getEnv("SEED_SAMPLE_FULL_NAME", "Test User"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ListTTL returns the ticket-list cache window.
func (c CacheConfig) ListTTL() time.Duration {
	return time.Duration(c.ListTTLSeconds) * time.Second
}

// ThreadTTL returns the comment-thread cache window.
func (c CacheConfig) ThreadTTL() time.Duration {
	return time.Duration(c.ThreadTTLSeconds) * time.Second
}

// StatsTTL returns the dashboard-stats cache window.
func (c CacheConfig) StatsTTL() time.Duration {
	return time.Duration(c.StatsTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
