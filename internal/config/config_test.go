package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("CACHE_TTL", "")
	cfg := Load()
	if cfg.Port == "" {
		t.Fatal("port should have a default")
	}
	if len(cfg.JWTSecret) < 32 {
		t.Fatalf("jwt secret shorter than 32 bytes: %d", len(cfg.JWTSecret))
	}
	if cfg.CacheTTL != 5*time.Second {
		t.Fatalf("CacheTTL = %v, want 5s", cfg.CacheTTL)
	}
	if len(cfg.CORSOrigins) != 1 {
		t.Fatalf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("CACHE_TTL", "10")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("S3_PUBLIC_URL", "http://minio:9000/")
	cfg := Load()
	if got := cfg.CORSOrigins; len(got) != 2 || got[1] != "http://b.test" {
		t.Fatalf("CORSOrigins = %v", got)
	}
	if len(cfg.KafkaBrokers) != 2 {
		t.Fatalf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.CacheTTL != 10*time.Second {
		t.Fatalf("CacheTTL = %v", cfg.CacheTTL)
	}
	if !cfg.CookieSecure {
		t.Fatal("CookieSecure should be true")
	}
	if cfg.S3PublicURL != "http://minio:9000" {
		t.Fatalf("S3PublicURL = %q", cfg.S3PublicURL)
	}
}
