package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// localCache 基于 go-cache 的本地缓存实现
type localCache struct {
	c *gocache.Cache
}

// NewLocalCache 创建本地缓存
func NewLocalCache(config LocalConfig) Cache {
	if config.DefaultExpiration <= 0 {
		config.DefaultExpiration = 5 * time.Minute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 10 * time.Minute
	}
	return &localCache{c: gocache.New(config.DefaultExpiration, config.CleanupInterval)}
}

func (lc *localCache) Get(_ context.Context, key string) (interface{}, bool) {
	return lc.c.Get(key)
}

func (lc *localCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	lc.c.Set(key, value, expiration)
	return nil
}

func (lc *localCache) Delete(_ context.Context, key string) error {
	lc.c.Delete(key)
	return nil
}

func (lc *localCache) Exists(_ context.Context, key string) bool {
	_, ok := lc.c.Get(key)
	return ok
}

func (lc *localCache) Clear(_ context.Context) error {
	lc.c.Flush()
	return nil
}

func (lc *localCache) Close() error { return nil }
