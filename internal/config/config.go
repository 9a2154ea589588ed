// README: Config loader with env defaults for HTTP, DB, Redis, transit, routing, and observability settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type TransitConfig struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

type RoutingConfig struct {
	MaxResults        int
	Seed              uint64
	TimeCeilingMin    float64
	CostCeiling       float64
	WheelchairPenalty float64
	TimeZone          string
}

type Config struct {
	HTTP struct {
		Addr        string
		CORSOrigins []string
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr string
	}
	Transit TransitConfig
	Routing RoutingConfig
	Log     struct {
		Level  string
		Format string
	}
	Tracing struct {
		Exporter string // none | stdout
	}
}

// Load reads an optional .env file and then the process environment. An
// empty DB DSN selects the static transit provider; an empty Redis address
// selects the in-process cache.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("ROUTEBEE_HTTP_ADDR", ":8080")
	cfg.HTTP.CORSOrigins = splitList(envOrDefault("ROUTEBEE_CORS_ORIGINS", "*"))
	cfg.DB.DSN = envOrDefault("ROUTEBEE_DB_DSN", "")
	cfg.Redis.Addr = envOrDefault("ROUTEBEE_REDIS_ADDR", "")
	cfg.Transit.Timeout = time.Duration(envOrDefaultInt("ROUTEBEE_TRANSIT_TIMEOUT_MS", 800)) * time.Millisecond
	cfg.Transit.CacheTTL = time.Duration(envOrDefaultInt("ROUTEBEE_TRANSIT_CACHE_TTL_S", 60)) * time.Second
	cfg.Routing.MaxResults = envOrDefaultInt("ROUTEBEE_MAX_RESULTS", 6)
	cfg.Routing.Seed = uint64(envOrDefaultInt("ROUTEBEE_SEED", 0))
	cfg.Routing.TimeCeilingMin = envOrDefaultFloat("ROUTEBEE_SCORE_TIME_CEILING_MIN", 120)
	cfg.Routing.CostCeiling = envOrDefaultFloat("ROUTEBEE_SCORE_COST_CEILING", 30)
	cfg.Routing.WheelchairPenalty = envOrDefaultFloat("ROUTEBEE_WHEELCHAIR_PENALTY", 0.5)
	cfg.Routing.TimeZone = envOrDefault("ROUTEBEE_TIMEZONE", "America/New_York")
	cfg.Log.Level = envOrDefault("ROUTEBEE_LOG_LEVEL", "info")
	cfg.Log.Format = envOrDefault("ROUTEBEE_LOG_FORMAT", "json")
	cfg.Tracing.Exporter = strings.ToLower(envOrDefault("ROUTEBEE_TRACING", "none"))

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.Transit.Timeout <= 0:
		return errors.New("ROUTEBEE_TRANSIT_TIMEOUT_MS must be positive")
	case c.Transit.CacheTTL <= 0:
		return errors.New("ROUTEBEE_TRANSIT_CACHE_TTL_S must be positive")
	case c.Routing.MaxResults < 1:
		return errors.New("ROUTEBEE_MAX_RESULTS must be at least 1")
	case c.Routing.TimeCeilingMin <= 0 || c.Routing.CostCeiling <= 0:
		return errors.New("score ceilings must be positive")
	case c.Routing.WheelchairPenalty < 0 || c.Routing.WheelchairPenalty > 1:
		return errors.New("ROUTEBEE_WHEELCHAIR_PENALTY must be within [0,1]")
	}
	if c.Tracing.Exporter != "none" && c.Tracing.Exporter != "stdout" {
		return fmt.Errorf("unsupported ROUTEBEE_TRACING %q", c.Tracing.Exporter)
	}
	if _, err := time.LoadLocation(c.Routing.TimeZone); err != nil {
		return fmt.Errorf("ROUTEBEE_TIMEZONE: %w", err)
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
