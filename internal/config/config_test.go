package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "TIMEZONE", "HOLIDAYS_API_URL",
		"HOLIDAYS_FETCH_TIMEOUT", "HOLIDAYS_CACHE_TTL", "BUSINESS_OPEN_HOUR",
		"BUSINESS_CLOSE_HOUR", "REDIS_ADDR", "CORS_ALLOWED_ORIGINS", "RATE_LIMIT_RPS",
	} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "3000" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Timezone != "America/Bogota" {
		t.Fatalf("expected default timezone, got %s", cfg.Timezone)
	}
	if cfg.HolidaysURL != DefaultHolidaysURL {
		t.Fatalf("expected default holidays url, got %s", cfg.HolidaysURL)
	}
	if cfg.HolidaysFetchTimeout != 10*time.Second {
		t.Fatalf("expected 10s fetch timeout, got %s", cfg.HolidaysFetchTimeout)
	}
	if cfg.HolidaysCacheTTL != 24*time.Hour {
		t.Fatalf("expected 24h ttl, got %s", cfg.HolidaysCacheTTL)
	}
	if cfg.OpenHour != 8 || cfg.LunchStartHour != 12 || cfg.LunchEndHour != 13 || cfg.CloseHour != 17 {
		t.Fatalf("unexpected business hours %d/%d/%d/%d", cfg.OpenHour, cfg.LunchStartHour, cfg.LunchEndHour, cfg.CloseHour)
	}
	if cfg.RedisAddr != "" {
		t.Fatalf("expected redis disabled by default, got %s", cfg.RedisAddr)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("expected wildcard CORS, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRPS != 0 {
		t.Fatalf("expected rate limit disabled, got %v", cfg.RateLimitRPS)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HOLIDAYS_API_URL", "http://holidays.local/list.json")
	t.Setenv("HOLIDAYS_FETCH_TIMEOUT", "2s")
	t.Setenv("HOLIDAYS_CACHE_TTL", "1h")
	t.Setenv("BUSINESS_OPEN_HOUR", "7")
	t.Setenv("MAX_DAYS", "365")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected debug log level, got %s", cfg.LogLevel)
	}
	if cfg.HolidaysURL != "http://holidays.local/list.json" {
		t.Fatalf("expected holidays url override, got %s", cfg.HolidaysURL)
	}
	if cfg.HolidaysFetchTimeout != 2*time.Second || cfg.HolidaysCacheTTL != time.Hour {
		t.Fatalf("unexpected durations %s %s", cfg.HolidaysFetchTimeout, cfg.HolidaysCacheTTL)
	}
	if cfg.OpenHour != 7 {
		t.Fatalf("expected open hour override, got %d", cfg.OpenHour)
	}
	if cfg.MaxDays != 365 {
		t.Fatalf("expected max days override, got %d", cfg.MaxDays)
	}
	if cfg.RedisAddr != "localhost:6379" || !cfg.RedisTLS {
		t.Fatalf("unexpected redis config %s %v", cfg.RedisAddr, cfg.RedisTLS)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit override, got %v", cfg.RateLimitRPS)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("HOLIDAYS_CACHE_TTL", "forever")
	t.Setenv("MAX_HOURS", "lots")
	t.Setenv("REDIS_TLS", "maybe")
	cfg := Load()
	if cfg.HolidaysCacheTTL != 24*time.Hour {
		t.Fatalf("expected ttl fallback, got %s", cfg.HolidaysCacheTTL)
	}
	if cfg.MaxHours != 1000000 {
		t.Fatalf("expected max hours fallback, got %d", cfg.MaxHours)
	}
	if cfg.RedisTLS {
		t.Fatalf("expected redis tls fallback false")
	}
}
