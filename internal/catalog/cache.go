package catalog

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/playcredits/internal/domain"
)

// CacheSchemaVersion is the current version of the cached game layout.
// Increment it when domain.Game changes shape to drop old entries.
const CacheSchemaVersion = "1.0"

type cachedGameEntry struct {
	Version  string
	Game     domain.Game
	CachedAt time.Time
}

// gameCache is an expiring LRU of catalog rows keyed by game id
type gameCache struct {
	lru *expirable.LRU[int64, *cachedGameEntry]
}

func newGameCache(size int, ttl time.Duration) *gameCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &gameCache{
		lru: expirable.NewLRU[int64, *cachedGameEntry](size, nil, ttl),
	}
}

// Get returns a copy of the cached game. Entries from an older schema version are dropped.
func (c *gameCache) Get(id int64) (*domain.Game, bool) {
	entry, found := c.lru.Get(id)
	if !found {
		return nil, false
	}
	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(id)
		return nil, false
	}
	game := entry.Game
	if game.HalfLifeHours != nil {
		hl := *game.HalfLifeHours
		game.HalfLifeHours = &hl
	}
	return &game, true
}

func (c *gameCache) Set(game *domain.Game) {
	c.lru.Add(game.ID, &cachedGameEntry{
		Version:  CacheSchemaVersion,
		Game:     *game,
		CachedAt: time.Now(),
	})
}

func (c *gameCache) Invalidate(id int64) {
	c.lru.Remove(id)
}

func (c *gameCache) Len() int {
	return c.lru.Len()
}
