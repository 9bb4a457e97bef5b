package texture

import (
	"fmt"
	"image"
	"sync"

	"unity-asset-reader/internal/graph"
)

// Resolver resolves a texture name to a decoded image.
type Resolver interface {
	Resolve(texName string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache over a batch.
type Cache struct {
	mu    sync.RWMutex
	items map[graph.Key]*cacheEntry
	index *Index
	batch *graph.Batch
}

type cacheEntry struct {
	img *image.NRGBA
	err error
}

// NewCache creates a cache backed by the batch's texture index.
func NewCache(b *graph.Batch, index *Index) *Cache {
	return &Cache{
		items: make(map[graph.Key]*cacheEntry),
		index: index,
		batch: b,
	}
}

// Resolve decodes and caches a texture by name. Returns nil if it is not
// found or cannot be decoded.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	k, ok := c.index.ResolveKey(texName)
	if !ok {
		return nil
	}
	img, _ := c.Load(k)
	return img
}

// Load decodes the texture object at k, remembering failures too.
func (c *Cache) Load(k graph.Key) (*image.NRGBA, error) {
	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[k]; exists {
		c.mu.RUnlock()
		return entry.img, entry.err
	}
	c.mu.RUnlock()

	// Slow path: decode
	var (
		img *image.NRGBA
		err error
	)
	if o, ok := c.batch.Lookup(k.Container, k.PathID); ok {
		img, err = FromObject(o, c.batch.StreamData)
	} else {
		err = fmt.Errorf("texture: no object %s", k)
	}

	// Write lock with double-check
	c.mu.Lock()
	if entry, exists := c.items[k]; exists {
		c.mu.Unlock()
		return entry.img, entry.err
	}
	c.items[k] = &cacheEntry{img: img, err: err}
	c.mu.Unlock()

	return img, err
}
