package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env here
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
	if cfg.DB.DSN != "" || cfg.Redis.Addr != "" {
		t.Errorf("expected empty DSN and Redis address by default")
	}
	if cfg.Transit.Timeout != 800*time.Millisecond {
		t.Errorf("Transit.Timeout = %v", cfg.Transit.Timeout)
	}
	if cfg.Routing.MaxResults != 6 || cfg.Routing.TimeCeilingMin != 120 || cfg.Routing.CostCeiling != 30 {
		t.Errorf("unexpected routing defaults: %+v", cfg.Routing)
	}
	if len(cfg.HTTP.CORSOrigins) != 1 || cfg.HTTP.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v", cfg.HTTP.CORSOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ROUTEBEE_MAX_RESULTS", "4")
	t.Setenv("ROUTEBEE_TRANSIT_TIMEOUT_MS", "250")
	t.Setenv("ROUTEBEE_CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("ROUTEBEE_SEED", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Routing.MaxResults != 4 {
		t.Errorf("MaxResults = %d, want 4", cfg.Routing.MaxResults)
	}
	if cfg.Transit.Timeout != 250*time.Millisecond {
		t.Errorf("Timeout = %v", cfg.Transit.Timeout)
	}
	if len(cfg.HTTP.CORSOrigins) != 2 || cfg.HTTP.CORSOrigins[1] != "http://b.test" {
		t.Errorf("CORSOrigins = %v", cfg.HTTP.CORSOrigins)
	}
	if cfg.Routing.Seed != 0 {
		t.Errorf("unparseable seed should fall back to 0, got %d", cfg.Routing.Seed)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, val string
	}{
		{"penalty above one", "ROUTEBEE_WHEELCHAIR_PENALTY", "1.5"},
		{"zero results", "ROUTEBEE_MAX_RESULTS", "0"},
		{"zero cache ttl", "ROUTEBEE_TRANSIT_CACHE_TTL_S", "0"},
		{"negative cache ttl", "ROUTEBEE_TRANSIT_CACHE_TTL_S", "-5"},
		{"unknown exporter", "ROUTEBEE_TRACING", "jaeger"},
		{"bad timezone", "ROUTEBEE_TIMEZONE", "Mars/Olympus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}
