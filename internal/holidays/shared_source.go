package holidays

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/working-days-api/pkg/logging"
)

const snapshotKey = "workdays:holidays:snapshot"

// SharedSource keeps the last upstream snapshot in Redis so replicas and
// restarts reuse one fetch per TTL. A stored snapshot is only served while it
// is younger than the TTL.
type SharedSource struct {
	redis    *redis.Client
	upstream Source
	ttl      time.Duration
	logger   *logging.Logger
	now      func() time.Time
}

// NewSharedSource wraps upstream with a Redis snapshot.
func NewSharedSource(redisClient *redis.Client, upstream Source, ttl time.Duration, logger *logging.Logger) *SharedSource {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SharedSource{
		redis:    redisClient,
		upstream: upstream,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Name identifies the source in metrics.
func (s *SharedSource) Name() string { return "redis" }

// Fetch returns the stored snapshot when still within TTL, otherwise fetches
// upstream and stores the result. Redis errors never fail the fetch.
func (s *SharedSource) Fetch(ctx context.Context) (Snapshot, error) {
	if snap, ok := s.load(ctx); ok {
		return snap, nil
	}

	snap, err := s.upstream.Fetch(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = s.now()
	}
	s.store(ctx, snap)
	return snap, nil
}

func (s *SharedSource) load(ctx context.Context) (Snapshot, bool) {
	data, err := s.redis.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, false
	}
	if err != nil {
		s.logger.Warn("holiday snapshot read failed", "error", err)
		return Snapshot{}, false
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("holiday snapshot corrupt", "error", err)
		return Snapshot{}, false
	}
	if snap.FetchedAt.IsZero() || s.now().Sub(snap.FetchedAt) > s.ttl {
		return Snapshot{}, false
	}
	return snap, true
}

func (s *SharedSource) store(ctx context.Context, snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Warn("holiday snapshot encode failed", "error", err)
		return
	}
	remaining := s.ttl - s.now().Sub(snap.FetchedAt)
	if remaining <= 0 {
		return
	}
	if err := s.redis.Set(ctx, snapshotKey, data, remaining).Err(); err != nil {
		s.logger.Warn("holiday snapshot write failed", "error", fmt.Errorf("holidays: set snapshot: %w", err))
	}
}
