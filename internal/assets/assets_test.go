package assets

import (
	"errors"
	"sync"
	"testing"

	"github.com/Faultbox/splinescatter/internal/placement"
	"github.com/Faultbox/splinescatter/pkg/math"
)

func TestForwardHalfExtent(t *testing.T) {
	c := NewCatalog()
	if err := c.Add("lamp", Bounds{Min: math.Vec3{X: -25, Y: -5}, Max: math.Vec3{X: 25, Y: 5, Z: 300}}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	he, ok := c.ForwardHalfExtent("lamp")
	if !ok || he != 25 {
		t.Errorf("ForwardHalfExtent = %v, %v; want 25, true", he, ok)
	}
	if _, ok := c.ForwardHalfExtent("missing"); ok {
		t.Error("unknown asset should not report bounds")
	}

	// Second lookup is served from the cache.
	c.ForwardHalfExtent("lamp")
	hits, misses := c.Stats()
	if hits != 1 || misses != 2 {
		t.Errorf("Stats = %d hits, %d misses; want 1, 2", hits, misses)
	}
}

func TestAddRejectsDuplicatesAndEmpty(t *testing.T) {
	c := NewCatalog()
	if err := c.Add("rail", Bounds{}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := c.Add("rail", Bounds{}); !errors.Is(err, ErrDuplicateAsset) {
		t.Errorf("duplicate Add error = %v, want ErrDuplicateAsset", err)
	}
	if err := c.Add("", Bounds{}); err == nil {
		t.Error("empty name should be rejected")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestClear(t *testing.T) {
	c := NewCatalog()
	_ = c.Add("rail", Bounds{Max: math.Vec3{X: 10}})
	c.ForwardHalfExtent("rail")
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
	if _, ok := c.ForwardHalfExtent("rail"); ok {
		t.Error("cleared asset still resolves")
	}
}

func TestConcurrentLookups(t *testing.T) {
	c := NewCatalog()
	_ = c.Add("post", Bounds{Min: math.Vec3{X: -1}, Max: math.Vec3{X: 1}})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.ForwardHalfExtent("post")
			}
		}()
	}
	wg.Wait()

	hits, misses := c.Stats()
	if hits+misses != 800 {
		t.Errorf("hits+misses = %d, want 800", hits+misses)
	}
}

var _ placement.Bounds = (*Catalog)(nil)
