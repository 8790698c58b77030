package shared

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "STORAGE_DRIVER", "CACHE_TTL_SECONDS", "CORS_ORIGINS", "RATE_LIMIT_RPS", "TRUST_PROXY_HEADERS"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.TrustProxy {
		t.Fatalf("proxy headers must not be trusted by default")
	}
	if c.HTTPAddr != ":8080" || c.StorageDriver != "mysql" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.CacheTTL != 300*time.Second {
		t.Fatalf("cache ttl: %v", c.CacheTTL)
	}
	if len(c.CORSOrigins) != 1 || c.CORSOrigins[0] != "*" {
		t.Fatalf("cors: %v", c.CORSOrigins)
	}
	if c.RateLimitRPS != 5 {
		t.Fatalf("rps: %v", c.RateLimitRPS)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("JWT_TTL_MINUTES", "30")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("TRUST_PROXY_HEADERS", "TRUE")
	c := Load()
	if !c.TrustProxy {
		t.Fatalf("trust proxy should be enabled")
	}
	if c.StorageDriver != "memory" {
		t.Fatalf("driver: %s", c.StorageDriver)
	}
	if c.CacheTTL != time.Minute || c.JWTTTL != 30*time.Minute {
		t.Fatalf("durations: %v %v", c.CacheTTL, c.JWTTTL)
	}
	if len(c.CORSOrigins) != 2 || c.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("cors: %v", c.CORSOrigins)
	}
	if c.RateLimitRPS != 0.5 {
		t.Fatalf("rps: %v", c.RateLimitRPS)
	}
}
