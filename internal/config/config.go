package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process-wide, read-only configuration. It is constructed once
// at startup and passed by reference into the components that need it; it is
// never mutated at runtime.
type Config struct {
	// App
	Env string // dev / staging / prod
	// HTTP
	HTTPAddr    string
	ContextPath string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// Auth / Security
	JWTSecret      string
	AccessTokenTTL time.Duration
	BcryptCost     int
	// Paths exempt from authentication. Exact match, or prefix match with a
	// single trailing "*".
	AllowedPaths []string

	// Document store
	MongoURI string
	MongoDB  string

	// Email (optional; empty host disables SMTP and falls back to fake sender)
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	// Messaging (optional; empty disables event publishing)
	RabbitURL string

	// Redis (optional; empty disables the login rate limiter)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LoginRateLimit  int
	LoginRateWindow time.Duration

	// Dev conveniences
	SeedDevUsers bool

	CORSAllowedOrigins []string
}

func Load() (*Config, error) {
	// .env is a dev convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Env:         getEnv("ENV", "dev"),
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		ContextPath: getEnv("CONTEXT_PATH", "/api/v1"),
	}

	if !strings.HasPrefix(cfg.ContextPath, "/") {
		return nil, fmt.Errorf("CONTEXT_PATH must start with '/': %q", cfg.ContextPath)
	}

	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	cfg.MongoURI = os.Getenv("MONGO_URI")
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("missing required env var: MONGO_URI")
	}
	cfg.MongoDB = getEnv("MONGO_DB", "userhub")

	// Token TTL is configured in minutes, matching the login response's
	// expires_in contract.
	ttlMin, err := getInt("ACCESS_TOKEN_TTL_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	if ttlMin <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_TTL_MINUTES must be positive, got %d", ttlMin)
	}
	cfg.AccessTokenTTL = time.Duration(ttlMin) * time.Minute

	cost, err := getInt("BCRYPT_COST", 0)
	if err != nil {
		return nil, err
	}
	cfg.BcryptCost = cost

	cfg.AllowedPaths = splitCSV(getEnv("SECURITY_ALLOWED_PATHS",
		"/healthz,/readyz,"+cfg.ContextPath+"/auth/login,/docs*"))

	// Email is optional; when SMTP_HOST is unset a logging fake sender is used.
	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	port, err := getInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	cfg.SMTPPort = port
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.SMTPFrom = getEnv("SMTP_FROM", cfg.SMTPUsername)

	cfg.RabbitURL = os.Getenv("RABBIT_URL")

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	rdb, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cfg.RedisDB = rdb

	limit, err := getInt("LOGIN_RATE_LIMIT", 10)
	if err != nil {
		return nil, err
	}
	cfg.LoginRateLimit = limit

	window, err := getDuration("LOGIN_RATE_WINDOW", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.LoginRateWindow = window

	cfg.SeedDevUsers = getEnv("SEED_DEV_USERS", "false") == "true"

	cfg.CORSAllowedOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	// Timeout values are optional and have defaults.
	rt, err := getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPReadTimeout = rt

	wt, err := getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPWriteTimeout = wt

	it, err := getDuration("HTTP_IDLE_TIMEOUT", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.HTTPIdleTimeout = it

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q: %w", key, v, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
