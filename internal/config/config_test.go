package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "LOG_LEVEL", "API_BASE_URL", "REQUEST_TIMEOUT", "SEARCH_DEBOUNCE", "FILTER_ENCODING", "SESSION_STORE", "PORT"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.APIBaseURL != "http://localhost:8080" {
		t.Fatalf("expected default base url, got %s", cfg.APIBaseURL)
	}
	if cfg.SearchDebounce != 300*time.Millisecond {
		t.Fatalf("expected 300ms debounce, got %s", cfg.SearchDebounce)
	}
	if cfg.FilterEncoding != FilterEncodingPath {
		t.Fatalf("expected path encoding, got %s", cfg.FilterEncoding)
	}
	if cfg.SessionStore != SessionStoreFile {
		t.Fatalf("expected file session store, got %s", cfg.SessionStore)
	}
	if cfg.SessionFile == "" {
		t.Fatal("expected a default session file path")
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("API_BASE_URL", "https://clinic.example.com/api/")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("SEARCH_DEBOUNCE", "50ms")
	t.Setenv("FILTER_ENCODING", "QUERY")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("PORT", "9090")
	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.APIBaseURL != "https://clinic.example.com/api" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("expected timeout override, got %s", cfg.RequestTimeout)
	}
	if cfg.SearchDebounce != 50*time.Millisecond {
		t.Fatalf("expected debounce override, got %s", cfg.SearchDebounce)
	}
	if cfg.FilterEncoding != FilterEncodingQuery {
		t.Fatalf("expected query encoding, got %s", cfg.FilterEncoding)
	}
	if cfg.SessionStore != SessionStoreRedis {
		t.Fatalf("expected redis store, got %s", cfg.SessionStore)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("expected ttl override, got %s", cfg.SessionTTL)
	}
	if !cfg.RedisTLS {
		t.Fatal("expected redis tls enabled")
	}
	if cfg.Port != "9090" {
		t.Fatalf("expected port override, got %s", cfg.Port)
	}
}

func TestLoadRejectsUnknownChoices(t *testing.T) {
	t.Setenv("FILTER_ENCODING", "graphql")
	t.Setenv("SESSION_STORE", "cookie")
	t.Setenv("SEARCH_DEBOUNCE", "soon")
	cfg := Load()
	if cfg.FilterEncoding != FilterEncodingPath {
		t.Fatalf("unknown encoding should fall back to path, got %s", cfg.FilterEncoding)
	}
	if cfg.SessionStore != SessionStoreFile {
		t.Fatalf("unknown store should fall back to file, got %s", cfg.SessionStore)
	}
	if cfg.SearchDebounce != 300*time.Millisecond {
		t.Fatalf("bad duration should fall back, got %s", cfg.SearchDebounce)
	}
}
