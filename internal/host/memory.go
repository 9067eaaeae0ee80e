// Package host provides an in-memory object registry for the placement
// engine. It stands in for a scene graph or renderer.
package host

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/splinescatter/internal/lighting"
	"github.com/Faultbox/splinescatter/internal/logger"
	"github.com/Faultbox/splinescatter/internal/placement"
	"github.com/Faultbox/splinescatter/internal/pool"
	"github.com/Faultbox/splinescatter/pkg/math"
)

// ErrUnknownObject is returned for handles the registry never issued or
// already destroyed.
var ErrUnknownObject = errors.New("unknown object")

// ErrKindMismatch is returned when a light is updated with a different
// kind than it was created with.
var ErrKindMismatch = errors.New("light kind mismatch")

// Op is a registry operation.
type Op uint8

const (
	OpCreateBatch Op = iota
	OpSetBatch
	OpDestroyBatch
	OpCreateSegment
	OpSetSegment
	OpDestroySegment
	OpCreateLight
	OpUpdateLight
	OpDestroyLight
)

var opNames = [...]string{
	"create-batch", "set-batch", "destroy-batch",
	"create-segment", "set-segment", "destroy-segment",
	"create-light", "update-light", "destroy-light",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", o)
}

// Event records one registry call.
type Event struct {
	Op Op
	ID pool.ObjectID
}

// Batch is a registered instance batch.
type Batch struct {
	Asset      placement.AssetHandle
	Transforms []math.Transform
}

// LightObject is a registered light.
type LightObject struct {
	Kind  placement.LightKind
	Light lighting.Light
}

// Memory is an in-memory registry. It is safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	nextID pool.ObjectID

	batches  map[pool.ObjectID]*Batch
	segments map[pool.ObjectID]*placement.Segment
	lights   map[pool.ObjectID]*LightObject

	events []Event

	// Fail, when set, is consulted before every operation. A non-nil
	// return aborts the operation with that error.
	Fail func(op Op) error
}

// NewMemory creates an empty registry.
func NewMemory() *Memory {
	return &Memory{
		batches:  make(map[pool.ObjectID]*Batch),
		segments: make(map[pool.ObjectID]*placement.Segment),
		lights:   make(map[pool.ObjectID]*LightObject),
	}
}

// begin records op and applies failure injection. Callers hold mu.
func (m *Memory) begin(op Op, id pool.ObjectID) error {
	if m.Fail != nil {
		if err := m.Fail(op); err != nil {
			logger.Error("host operation failed", zap.Stringer("op", op), zap.Error(err))
			return err
		}
	}
	m.events = append(m.events, Event{Op: op, ID: id})
	return nil
}

func (m *Memory) issue(op Op) (pool.ObjectID, error) {
	if m.Fail != nil {
		if err := m.Fail(op); err != nil {
			logger.Error("host operation failed", zap.Stringer("op", op), zap.Error(err))
			return 0, err
		}
	}
	m.nextID++
	m.events = append(m.events, Event{Op: op, ID: m.nextID})
	logger.Debug("host object created", zap.Stringer("op", op), zap.Uint64("id", uint64(m.nextID)))
	return m.nextID, nil
}

// CreateBatch registers an empty instance batch.
func (m *Memory) CreateBatch() (pool.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := m.issue(OpCreateBatch)
	if err != nil {
		return 0, err
	}
	m.batches[id] = &Batch{}
	return id, nil
}

// SetBatch replaces a batch's asset and transforms.
func (m *Memory) SetBatch(id pool.ObjectID, asset placement.AssetHandle, transforms []math.Transform) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.batches[id]
	if !ok {
		return fmt.Errorf("batch %d: %w", id, ErrUnknownObject)
	}
	if err := m.begin(OpSetBatch, id); err != nil {
		return err
	}
	b.Asset = asset
	b.Transforms = append(b.Transforms[:0], transforms...)
	return nil
}

// DestroyBatch deregisters a batch.
func (m *Memory) DestroyBatch(id pool.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.batches[id]; !ok {
		return fmt.Errorf("batch %d: %w", id, ErrUnknownObject)
	}
	if err := m.begin(OpDestroyBatch, id); err != nil {
		return err
	}
	delete(m.batches, id)
	return nil
}

// CreateSegment registers a segment object.
func (m *Memory) CreateSegment() (pool.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := m.issue(OpCreateSegment)
	if err != nil {
		return 0, err
	}
	m.segments[id] = &placement.Segment{}
	return id, nil
}

// SetSegment stamps a segment object.
func (m *Memory) SetSegment(id pool.ObjectID, seg placement.Segment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.segments[id]
	if !ok {
		return fmt.Errorf("segment %d: %w", id, ErrUnknownObject)
	}
	if err := m.begin(OpSetSegment, id); err != nil {
		return err
	}
	*s = seg
	return nil
}

// DestroySegment deregisters a segment object.
func (m *Memory) DestroySegment(id pool.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.segments[id]; !ok {
		return fmt.Errorf("segment %d: %w", id, ErrUnknownObject)
	}
	if err := m.begin(OpDestroySegment, id); err != nil {
		return err
	}
	delete(m.segments, id)
	return nil
}

// CreateLight registers a light of the given kind.
func (m *Memory) CreateLight(kind placement.LightKind) (pool.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := m.issue(OpCreateLight)
	if err != nil {
		return 0, err
	}
	m.lights[id] = &LightObject{Kind: kind}
	return id, nil
}

// UpdateLight stamps a light. The light's kind must match its creation kind.
func (m *Memory) UpdateLight(id pool.ObjectID, l lighting.Light) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.lights[id]
	if !ok {
		return fmt.Errorf("light %d: %w", id, ErrUnknownObject)
	}
	if obj.Kind != l.Kind {
		return fmt.Errorf("light %d is %s, got %s: %w", id, obj.Kind, l.Kind, ErrKindMismatch)
	}
	if err := m.begin(OpUpdateLight, id); err != nil {
		return err
	}
	obj.Light = l
	return nil
}

// DestroyLight deregisters a light.
func (m *Memory) DestroyLight(id pool.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lights[id]; !ok {
		return fmt.Errorf("light %d: %w", id, ErrUnknownObject)
	}
	if err := m.begin(OpDestroyLight, id); err != nil {
		return err
	}
	delete(m.lights, id)
	return nil
}

// Batch returns a copy of a registered batch.
func (m *Memory) Batch(id pool.ObjectID) (Batch, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.batches[id]
	if !ok {
		return Batch{}, false
	}
	return Batch{Asset: b.Asset, Transforms: append([]math.Transform(nil), b.Transforms...)}, true
}

// Segment returns a registered segment.
func (m *Memory) Segment(id pool.ObjectID) (placement.Segment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.segments[id]
	if !ok {
		return placement.Segment{}, false
	}
	return *s, true
}

// Light returns a registered light.
func (m *Memory) Light(id pool.ObjectID) (LightObject, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lights[id]
	if !ok {
		return LightObject{}, false
	}
	return *l, true
}

// Counts returns the number of live batches, segments and lights.
func (m *Memory) Counts() (batches, segments, lights int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.batches), len(m.segments), len(m.lights)
}

// LightIDs returns every live light handle in ascending order.
func (m *Memory) LightIDs() []pool.ObjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]pool.ObjectID, 0, len(m.lights))
	for id := range m.lights {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Events returns the recorded operations since the last ResetEvents.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// ResetEvents discards the recorded operations.
func (m *Memory) ResetEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
