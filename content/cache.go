// ABOUTME: In-memory conversion cache that wraps a Converter with sha256-keyed memoization.
// ABOUTME: The category and party passes share one cache so each source is converted once.
package content

import (
	"crypto/sha256"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CachedConverter memoizes a Converter by the sha256 of the source for the
// lifetime of one build. Failed conversions are not remembered.
type CachedConverter struct {
	next  Converter
	group singleflight.Group

	mu       sync.RWMutex
	html     map[string]string
	served   int
	converts int
}

// NewCachedConverter creates a CachedConverter around next.
func NewCachedConverter(next Converter) *CachedConverter {
	return &CachedConverter{
		next: next,
		html: make(map[string]string),
	}
}

// Convert returns the memoized HTML for source, converting it on first use.
// Concurrent first uses of the same source share one conversion.
func (c *CachedConverter) Convert(source []byte) (string, error) {
	key := fmt.Sprintf("%x", sha256.Sum256(source))

	v, err, _ := c.group.Do(key, func() (any, error) {
		if html, ok := c.get(key); ok {
			return html, nil
		}
		html, err := c.next.Convert(source)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.html[key] = html
		c.converts++
		c.mu.Unlock()
		return html, nil
	})
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.served++
	c.mu.Unlock()
	return v.(string), nil
}

func (c *CachedConverter) get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	html, ok := c.html[key]
	return html, ok
}

// Stats reports how many successful Convert calls were answered from the
// cache and how many needed a real conversion.
func (c *CachedConverter) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.served - c.converts, c.converts
}
