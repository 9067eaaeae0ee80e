// Package assets keeps the bounds of placeable assets.
package assets

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Faultbox/splinescatter/internal/placement"
	"github.com/Faultbox/splinescatter/pkg/math"
)

// ErrDuplicateAsset is returned when an asset name is registered twice.
var ErrDuplicateAsset = errors.New("duplicate asset")

// Bounds is an axis-aligned box in the asset's local space.
// Local X is the asset's forward axis.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// ForwardHalfExtent returns half the box's size along local X.
func (b Bounds) ForwardHalfExtent() float32 {
	return (b.Max.X - b.Min.X) / 2
}

// Catalog maps asset handles to their bounds. It implements
// placement.Bounds and is safe for concurrent use.
type Catalog struct {
	bounds map[placement.AssetHandle]Bounds
	cache  *Cache
	mu     sync.RWMutex
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		bounds: make(map[placement.AssetHandle]Bounds),
		cache:  NewCache(),
	}
}

// Add registers an asset.
func (c *Catalog) Add(name placement.AssetHandle, b Bounds) error {
	if !name.IsSet() {
		return fmt.Errorf("adding asset: empty name")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.bounds[name]; ok {
		return fmt.Errorf("asset %q: %w", name, ErrDuplicateAsset)
	}
	c.bounds[name] = b
	return nil
}

// Lookup returns an asset's bounds.
func (c *Catalog) Lookup(name placement.AssetHandle) (Bounds, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bounds[name]
	return b, ok
}

// Len returns the number of registered assets.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.bounds)
}

// ForwardHalfExtent implements placement.Bounds.
func (c *Catalog) ForwardHalfExtent(name placement.AssetHandle) (float32, bool) {
	if he, ok := c.cache.Get(name); ok {
		return he, true
	}

	b, ok := c.Lookup(name)
	if !ok {
		return 0, false
	}
	he := b.ForwardHalfExtent()
	c.cache.Set(name, he)
	return he, true
}

// Clear removes every asset.
func (c *Catalog) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bounds = make(map[placement.AssetHandle]Bounds)
	c.cache.Clear()
}

// Stats returns half-extent cache statistics.
func (c *Catalog) Stats() (hits, misses int) {
	return c.cache.Stats()
}

// Cache memoises forward half-extents.
type Cache struct {
	data map[placement.AssetHandle]float32
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[placement.AssetHandle]float32),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key placement.AssetHandle) (float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key placement.AssetHandle, v float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = v
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[placement.AssetHandle]float32)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
