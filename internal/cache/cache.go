// Package cache provides an LRU cache for decoded response bodies, so
// repeated analyses of the same capture (the MCP server case) do not
// re-decode base64 content.
package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// BodyCache is a thread-safe LRU of decoded response bodies keyed by
// capture path and entry index.
type BodyCache struct {
	cache *lru.Cache[string, string]
}

// NewBodyCache creates a cache holding at most maxItems bodies.
func NewBodyCache(maxItems int) (*BodyCache, error) {
	c, err := lru.New[string, string](maxItems)
	if err != nil {
		return nil, err
	}
	return &BodyCache{cache: c}, nil
}

// Get retrieves a decoded body.
func (c *BodyCache) Get(capturePath string, entryIndex int) (string, bool) {
	return c.cache.Get(key(capturePath, entryIndex))
}

// Put stores a decoded body.
func (c *BodyCache) Put(capturePath string, entryIndex int, body string) {
	c.cache.Add(key(capturePath, entryIndex), body)
}

// Len returns the current number of cached bodies.
func (c *BodyCache) Len() int { return c.cache.Len() }

func key(capturePath string, entryIndex int) string {
	return fmt.Sprintf("%s#%d", capturePath, entryIndex)
}
