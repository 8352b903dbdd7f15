package cache

import (
	"context"
	"encoding/json"
	"time"

	dom "github.com/mrgear111/GROW/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyListPrefix = "tasks:list:"

// TaskCache caches filtered task list results in Redis. Keys are derived
// from the list filter, so every distinct filter combination caches
// independently and all of them are dropped on any write.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached list for the filter key, or nil on miss.
func (c *TaskCache) GetList(ctx context.Context, filterKey string) ([]dom.Task, error) {
	b, err := c.rdb.Get(ctx, keyListPrefix+filterKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Task
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the list under the filter key.
func (c *TaskCache) SetList(ctx context.Context, filterKey string, list []dom.Task) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyListPrefix+filterKey, b, c.ttl).Err()
}

// InvalidateAll removes every cached list (cache invalidation on write).
func (c *TaskCache) InvalidateAll(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, keyListPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
