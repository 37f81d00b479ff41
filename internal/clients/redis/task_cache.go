package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pathforge/taskpipe-backend/internal/platform/envutil"
	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

// ErrCacheMiss is returned when no entry exists for the requested key.
var ErrCacheMiss = errors.New("task cache miss")

// CachedGeneration is what the unique/full-LLM generator stores per
// (profile feature hash, generation type): the raw task list plus the
// dollar cost the original call incurred.
type CachedGeneration struct {
	Tasks    []types.Task `json:"tasks"`
	CostUSD  float64      `json:"cost_usd"`
	CachedAt time.Time    `json:"cached_at"`
}

type TaskCache interface {
	Get(ctx context.Context, profileHash, generationType string) (*CachedGeneration, error)
	Set(ctx context.Context, profileHash, generationType string, gen *CachedGeneration) error
	Close() error
}

type taskCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewTaskCache(log *logger.Logger) (TaskCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	prefix := envutil.Get("REDIS_TASK_CACHE_PREFIX", "taskcache", log)
	ttl := envutil.GetDuration("TASK_CACHE_TTL", 30*24*time.Hour, log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &taskCache{
		log:    log.With("service", "RedisTaskCache"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

func (c *taskCache) key(profileHash, generationType string) string {
	return fmt.Sprintf("%s:%s:%s", c.prefix, generationType, profileHash)
}

func (c *taskCache) Get(ctx context.Context, profileHash, generationType string) (*CachedGeneration, error) {
	if c == nil || c.rdb == nil {
		return nil, fmt.Errorf("task cache not initialized")
	}
	raw, err := c.rdb.Get(ctx, c.key(profileHash, generationType)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var gen CachedGeneration
	if err := json.Unmarshal(raw, &gen); err != nil {
		c.log.Warn("bad task cache payload, treating as miss",
			"profile_hash", profileHash, "generation_type", generationType, "error", err)
		return nil, ErrCacheMiss
	}
	return &gen, nil
}

func (c *taskCache) Set(ctx context.Context, profileHash, generationType string, gen *CachedGeneration) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("task cache not initialized")
	}
	if gen == nil {
		return fmt.Errorf("nil cached generation")
	}
	raw, err := json.Marshal(gen)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(profileHash, generationType), raw, c.ttl).Err()
}

func (c *taskCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
