package bangumi

import (
	"crypto/md5"
	"encoding/hex"
	"log"
	"sync"

	"character-guessr/internal/db"

	"gorm.io/gorm"
)

// Cache stores successful response bodies keyed by method, URL and request
// body hash. When a database connection is provided, entries survive
// restarts; without one the cache is purely in-memory.
type Cache struct {
	mu      sync.Mutex
	entries map[string][]byte
	conn    *gorm.DB

	hits    int
	fetches int
}

func NewCache(conn *gorm.DB) *Cache {
	cache := &Cache{
		entries: make(map[string][]byte),
		conn:    conn,
	}
	if conn != nil {
		stored, err := db.LoadCachedResponses(conn)
		if err != nil {
			log.Printf("response cache load failed error=%v", err)
		} else {
			cache.entries = stored
			log.Printf("response cache loaded entries=%d", len(stored))
		}
	}
	return cache
}

func cacheKey(method, url string, body []byte) string {
	if len(body) == 0 {
		return method + ":" + url
	}
	sum := md5.Sum(body)
	return method + ":" + url + ":" + hex.EncodeToString(sum[:])
}

func (c *Cache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	body, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.fetches++
	}
	return body, ok
}

func (c *Cache) put(key string, body []byte) {
	c.mu.Lock()
	c.entries[key] = body
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		if err := db.StoreCachedResponse(conn, key, body); err != nil {
			log.Printf("response cache store failed key=%s error=%v", key, err)
		}
	}
}

// Clear drops every cached response, in memory and persisted.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.entries = make(map[string][]byte)
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		return db.ClearCachedResponses(conn)
	}
	return nil
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
