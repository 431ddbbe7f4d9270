// internal/common/weather/cache.go
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"lasa-chatbot/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "geo:"

// CoordinateCache memoizes location coordinates. Entries are only ever added.
// The in-memory tier is authoritative for this process; the optional Redis
// tier shares geocoding results between replicas.
type CoordinateCache struct {
	mu     sync.RWMutex
	coords map[string]Coordinates
	order  []string

	redis *redis.Client
	ttl   time.Duration
	log   logger.Logger
}

func NewCoordinateCache(rdb *redis.Client, ttl time.Duration, log logger.Logger) *CoordinateCache {
	c := &CoordinateCache{
		coords: make(map[string]Coordinates, len(seededCities)),
		redis:  rdb,
		ttl:    ttl,
		log:    log,
	}
	for _, city := range seededCities {
		c.coords[city.name] = city.coords
		c.order = append(c.order, city.name)
	}
	return c
}

// Get looks in memory first, then Redis. A Redis hit is copied into memory.
func (c *CoordinateCache) Get(ctx context.Context, name string) (Coordinates, bool) {
	c.mu.RLock()
	coords, ok := c.coords[name]
	c.mu.RUnlock()
	if ok || c.redis == nil {
		return coords, ok
	}

	raw, err := c.redis.Get(ctx, cacheKeyPrefix+name).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Coordinate cache read failed", map[string]interface{}{
				"location": name,
				"error":    err.Error(),
			})
		}
		return Coordinates{}, false
	}
	if err := json.Unmarshal(raw, &coords); err != nil {
		return Coordinates{}, false
	}

	c.remember(name, coords)
	return coords, true
}

// Put memoizes coords in memory and, when configured, in Redis.
func (c *CoordinateCache) Put(ctx context.Context, name string, coords Coordinates) {
	c.remember(name, coords)
	if c.redis == nil {
		return
	}

	payload, _ := json.Marshal(coords)
	if err := c.redis.Set(ctx, cacheKeyPrefix+name, payload, c.ttl).Err(); err != nil {
		c.log.Warn("Coordinate cache write failed", map[string]interface{}{
			"location": name,
			"error":    err.Error(),
		})
	}
}

// ExpandPrefix returns the first known name starting with prefix.
func (c *CoordinateCache) ExpandPrefix(prefix string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, name := range c.order {
		if len(name) >= len(prefix) && name[:len(prefix)] == prefix {
			return name, true
		}
	}
	return "", false
}

func (c *CoordinateCache) remember(name string, coords Coordinates) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.coords[name]; exists {
		return
	}
	c.coords[name] = coords
	c.order = append(c.order, name)
}
