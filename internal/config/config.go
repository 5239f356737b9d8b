package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultHolidaysURL is the authoritative list of national holidays.
const DefaultHolidaysURL = "https://content.capta.co/Recruitment/WorkingDays.json"

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string
	Timezone string

	// Holiday source
	HolidaysURL          string
	HolidaysFetchTimeout time.Duration
	HolidaysCacheTTL     time.Duration

	// Business hours (local hour boundaries)
	OpenHour       int
	LunchStartHour int
	LunchEndHour   int
	CloseHour      int

	// Request guards
	MaxDays  int
	MaxHours int

	// Optional shared holiday snapshot
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// HTTP surface
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "3000"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("TIMEZONE", "America/Bogota"),

		HolidaysURL:          getEnv("HOLIDAYS_API_URL", DefaultHolidaysURL),
		HolidaysFetchTimeout: getEnvAsDuration("HOLIDAYS_FETCH_TIMEOUT", 10*time.Second),
		HolidaysCacheTTL:     getEnvAsDuration("HOLIDAYS_CACHE_TTL", 24*time.Hour),

		OpenHour:       getEnvAsInt("BUSINESS_OPEN_HOUR", 8),
		LunchStartHour: getEnvAsInt("BUSINESS_LUNCH_START_HOUR", 12),
		LunchEndHour:   getEnvAsInt("BUSINESS_LUNCH_END_HOUR", 13),
		CloseHour:      getEnvAsInt("BUSINESS_CLOSE_HOUR", 17),

		MaxDays:  getEnvAsInt("MAX_DAYS", 100000),
		MaxHours: getEnvAsInt("MAX_HOURS", 1000000),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping empty items.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
