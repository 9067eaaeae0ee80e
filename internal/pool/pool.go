// Package pool keeps an ordered set of host-owned objects sized to a target
// count.
//
// Reconciling only appends new objects at the tail or destroys objects from
// the tail, so index i refers to the same object across a resize for every
// i below both the old and the new size.
package pool

import (
	"errors"
	"fmt"
)

// ErrHostFailure wraps a create or destroy failure reported by the host.
// After it is returned the pool may be shorter or longer than requested.
var ErrHostFailure = errors.New("host object failure")

// ObjectID is an opaque handle issued by a host registry.
type ObjectID uint64

// Factory creates and destroys the objects a pool holds.
type Factory[T any] interface {
	// Create constructs and registers the object that will live at index.
	Create(index int) (T, error)
	// Destroy deregisters and destroys obj.
	Destroy(obj T) error
}

// Funcs adapts a pair of functions to Factory.
type Funcs[T any] struct {
	CreateFunc  func(index int) (T, error)
	DestroyFunc func(obj T) error
}

// Create calls CreateFunc.
func (f Funcs[T]) Create(index int) (T, error) {
	return f.CreateFunc(index)
}

// Destroy calls DestroyFunc.
func (f Funcs[T]) Destroy(obj T) error {
	return f.DestroyFunc(obj)
}

// Pool is an ordered sequence of externally owned objects.
// The zero value is an empty pool ready to use.
type Pool[T any] struct {
	items []T
}

// Len returns the number of objects in the pool.
func (p *Pool[T]) Len() int {
	return len(p.items)
}

// At returns the object at index i.
func (p *Pool[T]) At(i int) T {
	return p.items[i]
}

// Items returns a copy of the pool's objects in order.
func (p *Pool[T]) Items() []T {
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// Reconcile grows or shrinks the pool to exactly n objects.
//
// Growth appends n-Len() new objects; shrinking destroys trailing objects,
// highest index first. Equal sizes are a no-op. Existing objects below the
// new size are never touched or reordered.
func (p *Pool[T]) Reconcile(n int, f Factory[T]) error {
	if n < 0 {
		n = 0
	}

	for len(p.items) > n {
		last := len(p.items) - 1
		if err := f.Destroy(p.items[last]); err != nil {
			return fmt.Errorf("destroying object %d: %w: %w", last, ErrHostFailure, err)
		}
		var zero T
		p.items[last] = zero
		p.items = p.items[:last]
	}

	for i := len(p.items); i < n; i++ {
		obj, err := f.Create(i)
		if err != nil {
			return fmt.Errorf("creating object %d of %d: %w: %w", i, n, ErrHostFailure, err)
		}
		p.items = append(p.items, obj)
	}

	return nil
}

// Clear destroys every object in the pool.
func (p *Pool[T]) Clear(f Factory[T]) error {
	return p.Reconcile(0, f)
}
