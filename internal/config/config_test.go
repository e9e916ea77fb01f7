package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Env != "dev" {
		t.Fatalf("Env = %q", cfg.Env)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.ContextPath != "/api/v1" {
		t.Fatalf("ContextPath = %q", cfg.ContextPath)
	}
	if cfg.AccessTokenTTL != time.Hour {
		t.Fatalf("AccessTokenTTL = %v", cfg.AccessTokenTTL)
	}
	if cfg.MongoDB != "userhub" {
		t.Fatalf("MongoDB = %q", cfg.MongoDB)
	}
	if cfg.LoginRateLimit != 10 || cfg.LoginRateWindow != time.Minute {
		t.Fatalf("login limiter defaults: %d / %v", cfg.LoginRateLimit, cfg.LoginRateWindow)
	}
	if cfg.SeedDevUsers {
		t.Fatal("seeding must default to off")
	}

	want := []string{"/healthz", "/readyz", "/api/v1/auth/login", "/docs*"}
	if len(cfg.AllowedPaths) != len(want) {
		t.Fatalf("AllowedPaths = %v", cfg.AllowedPaths)
	}
	for i, p := range want {
		if cfg.AllowedPaths[i] != p {
			t.Fatalf("AllowedPaths[%d] = %q, want %q", i, cfg.AllowedPaths[i], p)
		}
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}
}

func TestLoad_MissingMongoURI(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MONGO_URI", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing MONGO_URI")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "prod")
	t.Setenv("CONTEXT_PATH", "/api")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("LOGIN_RATE_LIMIT", "3")
	t.Setenv("LOGIN_RATE_WINDOW", "30s")
	t.Setenv("SEED_DEV_USERS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Env != "prod" {
		t.Fatalf("Env = %q", cfg.Env)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("AccessTokenTTL = %v", cfg.AccessTokenTTL)
	}
	if cfg.LoginRateLimit != 3 || cfg.LoginRateWindow != 30*time.Second {
		t.Fatalf("limiter: %d / %v", cfg.LoginRateLimit, cfg.LoginRateWindow)
	}
	if !cfg.SeedDevUsers {
		t.Fatal("SEED_DEV_USERS=true not honored")
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://admin.example.com" {
		t.Fatalf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	// default allow list follows the context path
	if cfg.AllowedPaths[2] != "/api/auth/login" {
		t.Fatalf("AllowedPaths = %v", cfg.AllowedPaths)
	}
}

func TestLoad_BadContextPath(t *testing.T) {
	setRequired(t)
	t.Setenv("CONTEXT_PATH", "api")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for context path without leading slash")
	}
}

func TestLoad_BadTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-positive TTL")
	}

	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "abc")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric TTL")
	}
}

func TestLoad_BadDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_READ_TIMEOUT", "banana")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}
