package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/working-days-api/internal/calendar"
	appconfig "github.com/wolfman30/working-days-api/internal/config"
	"github.com/wolfman30/working-days-api/internal/holidays"
	"github.com/wolfman30/working-days-api/internal/observability/metrics"
	"github.com/wolfman30/working-days-api/internal/timezone"
	"github.com/wolfman30/working-days-api/internal/workdays"
	"github.com/wolfman30/working-days-api/pkg/logging"
)

// Runtime is the wired calculation stack shared by the API and the CLI.
type Runtime struct {
	Converter *timezone.Converter
	Holidays  *holidays.Cache
	Calendar  *calendar.Calendar
	Engine    *workdays.Engine
	Limits    workdays.Limits
	Redis     *redis.Client
}

// Close releases the Redis client, if any.
func (r *Runtime) Close() error {
	if r == nil || r.Redis == nil {
		return nil
	}
	return r.Redis.Close()
}

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available; holiday snapshot sharing disabled", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildHolidaySource returns the HTTP holiday source, wrapped in the shared
// Redis snapshot when a client is available.
func BuildHolidaySource(cfg *appconfig.Config, redisClient *redis.Client, logger *logging.Logger) holidays.Source {
	if logger == nil {
		logger = logging.Default()
	}
	var src holidays.Source = holidays.NewHTTPSource(cfg.HolidaysURL, cfg.HolidaysFetchTimeout, logger.Component("holidays.http"))
	if redisClient != nil {
		src = holidays.NewSharedSource(redisClient, src, cfg.HolidaysCacheTTL, logger.Component("holidays.redis"))
		logger.Info("holiday snapshot sharing enabled", "redis_addr", cfg.RedisAddr)
	}
	return src
}

// BusinessHours reads and validates the configured business day.
func BusinessHours(cfg *appconfig.Config) (calendar.Hours, error) {
	hours := calendar.Hours{
		Open:       cfg.OpenHour,
		LunchStart: cfg.LunchStartHour,
		LunchEnd:   cfg.LunchEndHour,
		Close:      cfg.CloseHour,
	}
	if err := hours.Validate(); err != nil {
		return calendar.Hours{}, fmt.Errorf("bootstrap: %w", err)
	}
	return hours, nil
}

// BuildRuntime wires converter, holiday cache, calendar and engine from cfg.
// m may be nil.
func BuildRuntime(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, m *metrics.WorkdaysMetrics) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	tz, err := timezone.NewConverter(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	hours, err := BusinessHours(cfg)
	if err != nil {
		return nil, err
	}

	redisClient := BuildRedisClient(ctx, cfg, logger, true)
	source := BuildHolidaySource(cfg, redisClient, logger)
	cache := holidays.NewCache(source, cfg.HolidaysCacheTTL, logger.Component("holidays"), holidays.WithMetrics(m))
	cal := calendar.New(cache, hours)

	return &Runtime{
		Converter: tz,
		Holidays:  cache,
		Calendar:  cal,
		Engine:    workdays.NewEngine(cal, tz, logger.Component("workdays")),
		Limits:    workdays.Limits{MaxDays: cfg.MaxDays, MaxHours: cfg.MaxHours},
		Redis:     redisClient,
	}, nil
}
