package catalog

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rushteam/feedrank/core"
)

// Cached 是目录响应的内存缓存装饰器，TTL 过期 + 按访问时间淘汰。
// 只缓存成功结果；失败直接透传，由召回层降级为空。
type Cached struct {
	next core.Catalog

	mu          sync.Mutex
	entries     map[string]*cacheEntry
	maxSize     int
	ttl         time.Duration
	stopCleanup chan struct{}
	closeOnce   sync.Once
}

type cacheEntry struct {
	items      []core.ContentItem
	expireTime time.Time
	accessTime time.Time
}

// NewCached 创建缓存装饰器；maxSize <= 0 时默认 1024，ttl <= 0 时默认 2 分钟。
func NewCached(next core.Catalog, maxSize int, ttl time.Duration) *Cached {
	if maxSize <= 0 {
		maxSize = 1024
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	c := &Cached{
		next:        next,
		entries:     make(map[string]*cacheEntry),
		maxSize:     maxSize,
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}
	go c.cleanup(time.Minute)
	return c
}

func (c *Cached) Search(ctx context.Context, query string, page int) ([]core.ContentItem, error) {
	return c.load(OpSearch+":"+strconv.Itoa(page)+":"+query, func() ([]core.ContentItem, error) {
		return c.next.Search(ctx, query, page)
	})
}

func (c *Cached) RelatedTo(ctx context.Context, itemID string) ([]core.ContentItem, error) {
	return c.load(OpRelated+":"+itemID, func() ([]core.ContentItem, error) {
		return c.next.RelatedTo(ctx, itemID)
	})
}

func (c *Cached) LatestFromChannel(ctx context.Context, channelID string) ([]core.ContentItem, error) {
	return c.load(OpLatest+":"+channelID, func() ([]core.ContentItem, error) {
		return c.next.LatestFromChannel(ctx, channelID)
	})
}

func (c *Cached) Trending(ctx context.Context) ([]core.ContentItem, error) {
	return c.load(OpTrending, func() ([]core.ContentItem, error) {
		return c.next.Trending(ctx)
	})
}

// Len 当前缓存条目数。
func (c *Cached) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close 停止清理协程。
func (c *Cached) Close() {
	c.closeOnce.Do(func() { close(c.stopCleanup) })
}

func (c *Cached) load(key string, fetch func() ([]core.ContentItem, error)) ([]core.ContentItem, error) {
	now := time.Now()
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && now.Before(e.expireTime) {
		e.accessTime = now
		items := append([]core.ContentItem(nil), e.items...)
		c.mu.Unlock()
		return items, nil
	}
	c.mu.Unlock()

	items, err := fetch()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.maxSize {
		c.evictLRU()
	}
	c.entries[key] = &cacheEntry{
		items:      append([]core.ContentItem(nil), items...),
		expireTime: now.Add(c.ttl),
		accessTime: now,
	}
	return items, nil
}

func (c *Cached) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.cleanExpired()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *Cached) cleanExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if now.After(e.expireTime) {
			delete(c.entries, k)
		}
	}
}

// must be called with mu held
func (c *Cached) evictLRU() {
	var (
		oldestKey  string
		oldestTime time.Time
		first      = true
	)
	for k, e := range c.entries {
		if first || e.accessTime.Before(oldestTime) {
			oldestKey, oldestTime, first = k, e.accessTime, false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}

var _ core.Catalog = (*Cached)(nil)
