package cache

import (
	"regexp"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// PatternCache holds compiled lexicon patterns keyed by lexicon digest.
// Expiry counts from insertion, not last use.
type PatternCache struct {
	cache *gocache.Cache
}

// NewPatternCache creates a pattern cache; ttl <= 0 keeps entries until Flush
func NewPatternCache(ttl time.Duration) *PatternCache {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &PatternCache{cache: gocache.New(ttl, 2*ttl)}
}

// Get returns the compiled pattern for key
func (c *PatternCache) Get(key string) (*regexp.Regexp, bool) {
	val, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	re, ok := val.(*regexp.Regexp)
	return re, ok
}

// Set stores a compiled pattern
func (c *PatternCache) Set(key string, re *regexp.Regexp) {
	c.cache.SetDefault(key, re)
}

// Len reports the number of cached patterns
func (c *PatternCache) Len() int {
	return c.cache.ItemCount()
}

// Flush drops every pattern
func (c *PatternCache) Flush() {
	c.cache.Flush()
}
