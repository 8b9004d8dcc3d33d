package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/dtroode/videobite-server/internal/logger"
	"github.com/dtroode/videobite-server/internal/metrics"
	"github.com/dtroode/videobite-server/internal/model"
)

const cacheKeyPrefix = "videobite:meta:"

var _ model.MetadataFetcher = (*CachedFetcher)(nil)

// CachedFetcher puts an in-process cache and an optional shared redis tier in
// front of another fetcher. Only successful lookups are cached.
type CachedFetcher struct {
	next    model.MetadataFetcher
	local   *gocache.Cache
	rdb     *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewCachedFetcher wraps next. rdb may be nil.
func NewCachedFetcher(next model.MetadataFetcher, rdb *redis.Client, ttl time.Duration, m *metrics.Metrics, logger *logger.Logger) *CachedFetcher {
	return &CachedFetcher{
		next:    next,
		local:   gocache.New(ttl, 2*ttl),
		rdb:     rdb,
		ttl:     ttl,
		metrics: m,
		logger:  logger,
	}
}

// NewRedisClient connects to redisURL and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return rdb, nil
}

func (f *CachedFetcher) Fetch(ctx context.Context, videoID string) (model.VideoMetadata, error) {
	key := cacheKeyPrefix + videoID

	if v, ok := f.local.Get(key); ok {
		f.metrics.MetadataCacheHits.Add(1)
		return v.(model.VideoMetadata), nil
	}

	if meta, ok := f.getShared(ctx, key); ok {
		f.metrics.MetadataCacheHits.Add(1)
		f.local.Set(key, meta, gocache.DefaultExpiration)
		return meta, nil
	}

	f.metrics.MetadataCacheMisses.Add(1)

	meta, err := f.next.Fetch(ctx, videoID)
	if err != nil {
		return model.VideoMetadata{}, err
	}

	f.local.Set(key, meta, gocache.DefaultExpiration)
	f.setShared(ctx, key, meta)

	return meta, nil
}

func (f *CachedFetcher) getShared(ctx context.Context, key string) (model.VideoMetadata, bool) {
	if f.rdb == nil {
		return model.VideoMetadata{}, false
	}

	data, err := f.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			f.logger.Warn("Metadata cache: redis get failed", "key", key, "error", err.Error())
		}
		return model.VideoMetadata{}, false
	}

	var meta model.VideoMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		f.logger.Warn("Metadata cache: corrupt redis entry", "key", key, "error", err.Error())
		return model.VideoMetadata{}, false
	}

	return meta, true
}

func (f *CachedFetcher) setShared(ctx context.Context, key string, meta model.VideoMetadata) {
	if f.rdb == nil {
		return
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return
	}

	if err := f.rdb.Set(ctx, key, data, f.ttl).Err(); err != nil {
		f.logger.Warn("Metadata cache: redis set failed", "key", key, "error", err.Error())
	}
}
