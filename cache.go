package grove

import (
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Names of the stores every Cache starts with.
const (
	CacheBinary  = "binary"
	CacheJSON    = "json"
	CacheText    = "text"
	CacheShader  = "shader"
	CacheTilemap = "tilemap"
	CacheAudio   = "audio"
)

var defaultCacheStores = []string{CacheBinary, CacheJSON, CacheText, CacheShader, CacheTilemap, CacheAudio}

// CacheStore is a bounded key/value store. The least recently used entry is
// evicted once the store is full.
type CacheStore struct {
	name    string
	entries *lru.Cache[string, any]
}

// Name returns the store name.
func (s *CacheStore) Name() string { return s.name }

// Add stores value under key and reports whether an older entry was evicted.
func (s *CacheStore) Add(key string, value any) bool {
	return s.entries.Add(key, value)
}

// Get returns the value stored under key.
func (s *CacheStore) Get(key string) (any, bool) {
	return s.entries.Get(key)
}

// Has reports whether key is present without updating its recency.
func (s *CacheStore) Has(key string) bool {
	return s.entries.Contains(key)
}

// Remove deletes key and reports whether it was present.
func (s *CacheStore) Remove(key string) bool {
	return s.entries.Remove(key)
}

// Len returns the number of entries.
func (s *CacheStore) Len() int { return s.entries.Len() }

// Keys returns the keys from oldest to newest.
func (s *CacheStore) Keys() []string { return s.entries.Keys() }

// Purge removes every entry.
func (s *CacheStore) Purge() { s.entries.Purge() }

// Cache is the game-wide asset cache: a set of named stores of equal capacity.
type Cache struct {
	capacity int
	stores   map[string]*CacheStore
}

// NewCache creates a cache with the default stores, each holding up to
// capacity entries.
func NewCache(capacity int) (*Cache, error) {
	c := &Cache{capacity: capacity, stores: make(map[string]*CacheStore)}
	for _, name := range defaultCacheStores {
		if _, err := c.AddStore(name); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// AddStore creates a new named store.
func (c *Cache) AddStore(name string) (*CacheStore, error) {
	if _, ok := c.stores[name]; ok {
		return nil, fmt.Errorf("grove: cache store %q already exists", name)
	}
	entries, err := lru.New[string, any](c.capacity)
	if err != nil {
		return nil, fmt.Errorf("grove: cache store %q: %w", name, err)
	}
	s := &CacheStore{name: name, entries: entries}
	c.stores[name] = s
	return s, nil
}

// Store returns the named store, or nil if it does not exist.
func (c *Cache) Store(name string) *CacheStore {
	return c.stores[name]
}

// Stores returns the store names in sorted order.
func (c *Cache) Stores() []string {
	names := make([]string, 0, len(c.stores))
	for name := range c.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Capacity returns the per-store entry limit.
func (c *Cache) Capacity() int { return c.capacity }

// Len returns the total number of entries across all stores.
func (c *Cache) Len() int {
	n := 0
	for _, s := range c.stores {
		n += s.Len()
	}
	return n
}
