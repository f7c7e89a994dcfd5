// internal/sitecache/cache.go
//
// Caller-level resolution cache.
//
// Context
// -------
// The site resolver is a pure read and carries no cache of its own; this
// package is the optional caller-side layer.  It memoizes resolved site
// ids keyed on (language, publicKey), collapses concurrent misses for the
// same key into one store round trip via singleflight, and evicts entries
// on idle TTL or LRU pressure in a background loop.
//
// Invalidation is the admin path's job: any SiteKey mutation (rename,
// deactivation, ensure) must call Invalidate for the touched pair.
// Negative results are never cached, so a NotFound can heal as soon as the
// row appears.
package sitecache

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/videkhq/videk/internal/metrics"
	"github.com/videkhq/videk/internal/resolver"
)

// Static defaults.  Override via the constructor arguments.
const (
	IdleTTL       = 15 * time.Minute
	MaxEntries    = 4096
	EvictInterval = time.Minute
)

type entry struct {
	siteID   uint64
	lastSeen int64 // UnixNano
}

// Cache memoizes (language, publicKey) → siteID resolutions.  Safe for
// concurrent use; entries are immutable once stored.
type Cache struct {
	res         *resolver.SiteResolver
	sfg         singleflight.Group
	m           sync.Map // string key → *entry
	evictTicker *time.Ticker
	idleTTL     time.Duration
	maxEntries  int
}

// New constructs a Cache around res and starts the background evictor.
func New(res *resolver.SiteResolver, idleTTL time.Duration, maxEntries int) *Cache {
	c := &Cache{
		res:        res,
		idleTTL:    idleTTL,
		maxEntries: maxEntries,
	}
	c.evictTicker = time.NewTicker(EvictInterval)
	go c.evictLoop()
	return c
}

func cacheKey(language, publicKey string) string {
	return language + "\x00" + publicKey
}

// Resolve returns the site id for (language, publicKey), consulting the
// cache first and falling through to the resolver on miss.  Errors are
// returned uncached.
func (c *Cache) Resolve(ctx context.Context, language, publicKey string) (uint64, error) {
	key := cacheKey(language, publicKey)

	if v, ok := c.m.Load(key); ok {
		ent := v.(*entry)
		atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
		return ent.siteID, nil
	}

	v, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		// Double-check after the singleflight barrier.
		if v, ok := c.m.Load(key); ok {
			ent := v.(*entry)
			atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
			return ent.siteID, nil
		}
		id, err := c.res.ResolveSite(ctx, language, publicKey)
		if err != nil {
			return uint64(0), err
		}
		c.m.Store(key, &entry{siteID: id, lastSeen: time.Now().UnixNano()})
		metrics.CachedResolutions.Inc()
		return id, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(uint64), nil
}

// Invalidate drops the cached resolution for one (language, publicKey)
// pair.  Call on every SiteKey mutation touching that pair.
func (c *Cache) Invalidate(language, publicKey string) {
	if _, loaded := c.m.LoadAndDelete(cacheKey(language, publicKey)); loaded {
		metrics.CachedResolutions.Dec()
	}
}

// Close stops the background evictor.
func (c *Cache) Close() { c.evictTicker.Stop() }

// evictLoop removes idle entries every EvictInterval, then sheds the
// least-recently-used entries when the map outgrows maxEntries.
func (c *Cache) evictLoop() {
	for range c.evictTicker.C {
		now := time.Now().UnixNano()
		var count int

		c.m.Range(func(key, value any) bool {
			count++
			ent := value.(*entry)
			idle := time.Duration(now - atomic.LoadInt64(&ent.lastSeen))
			if idle > c.idleTTL {
				c.m.Delete(key)
				count--
				metrics.ResolutionEvictTotal.Inc()
				metrics.CachedResolutions.Dec()
			}
			return true
		})

		if c.maxEntries > 0 && count > c.maxEntries {
			type kv struct {
				key string
				at  int64
			}
			var all []kv
			c.m.Range(func(key, value any) bool {
				ent := value.(*entry)
				all = append(all, kv{key: key.(string), at: atomic.LoadInt64(&ent.lastSeen)})
				return true
			})
			sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
			evicted := 0
			for i := 0; i < len(all) && count-evicted > c.maxEntries; i++ {
				if _, ok := c.m.LoadAndDelete(all[i].key); ok {
					evicted++
					metrics.ResolutionEvictTotal.Inc()
					metrics.CachedResolutions.Dec()
				}
			}
			if evicted > 0 {
				zap.L().Debug("resolution cache LRU eviction", zap.Int("evicted", evicted))
			}
		}
	}
}
