package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"taskboard/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort        string
	AppEnv         string
	FrontendURL    string
	AllowedOrigin  string
	RequestTimeout time.Duration

	DatabaseURL      string
	DBMaxConns       int32
	DBConnectRetries int
	DBConnectDelay   time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	APIRateLimit   int
	APIRateWindow  time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration

	StatsCacheTTL time.Duration

	SeedAdmin     bool
	AdminEmail    string
	AdminPassword string

	LogLevel string
	LogJSON  bool
}

// IsProduction hides internal error details from clients.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = databaseURLFromParts()
	}

	frontend := getString("FRONTEND_URL", "http://localhost:5173")

	return &Config{
		AppPort:        getString("APP_PORT", "3001"),
		AppEnv:         getString("APP_ENV", "development"),
		FrontendURL:    frontend,
		AllowedOrigin:  getString("ALLOWED_ORIGIN", frontend),
		RequestTimeout: getSeconds("REQUEST_TIMEOUT", 45*time.Second),

		DatabaseURL:      dbURL,
		DBMaxConns:       int32(getInt("DB_MAX_CONNS", 20)),
		DBConnectRetries: getInt("DB_CONNECT_RETRIES", 10),
		DBConnectDelay:   getSeconds("DB_CONNECT_DELAY", 3*time.Second),

		JWTSecret: jwtSecret,
		JWTTTL:    getDuration("JWT_TTL", 24*time.Hour),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		APIRateLimit:   getInt("API_RATE_LIMIT", 300),
		APIRateWindow:  getSeconds("API_RATE_WINDOW_SECONDS", time.Minute),
		AuthRateLimit:  getInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow: getSeconds("AUTH_RATE_WINDOW_SECONDS", time.Minute),

		StatsCacheTTL: getSeconds("STATS_CACHE_TTL", 30*time.Second),

		SeedAdmin:     os.Getenv("SEED_ADMIN") != "false",
		AdminEmail:    getString("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getString("ADMIN_PASSWORD", "admin123"),

		LogLevel: getString("LOG_LEVEL", "info"),
		LogJSON:  os.Getenv("LOG_JSON") == "true",
	}
}

// databaseURLFromParts builds a DSN from DB_HOST/DB_PORT/DB_USERNAME/DB_PASSWORD/DB_DATABASE.
func databaseURLFromParts() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(getString("DB_USERNAME", "postgres"), os.Getenv("DB_PASSWORD")),
		Host:   fmt.Sprintf("%s:%s", getString("DB_HOST", "localhost"), getString("DB_PORT", "5432")),
		Path:   "/" + getString("DB_DATABASE", "taskboard"),
	}
	q := u.Query()
	q.Set("sslmode", getString("DB_SSLMODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String()
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
		logger.Warn("invalid integer in env, using default", "key", key, "value", v)
	}
	return def
}

// getSeconds reads a plain number of seconds.
func getSeconds(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
		logger.Warn("invalid seconds in env, using default", "key", key, "value", v)
	}
	return def
}

// getDuration accepts Go duration syntax ("24h", "90m").
func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		logger.Warn("invalid duration in env, using default", "key", key, "value", v)
	}
	return def
}
