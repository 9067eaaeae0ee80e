// Package engine keeps host objects in step with curve-placed profiles.
//
// An Engine owns the profile lists and the pools of host objects generated
// from them: one instance batch per InstanceProfile, the segment objects of
// each SegmentProfile and the lights of every profile with an activated
// LightProfile. Changes arrive as typed notifications; each one runs a full
// recompute pass before returning.
package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/splinescatter/internal/lighting"
	"github.com/Faultbox/splinescatter/internal/logger"
	"github.com/Faultbox/splinescatter/internal/placement"
	"github.com/Faultbox/splinescatter/internal/pool"
	"github.com/Faultbox/splinescatter/pkg/math"
)

var (
	// ErrReentrant is returned when a notification arrives while a
	// recompute pass is running.
	ErrReentrant = errors.New("recompute already in progress")
	// ErrProfileIndex is returned for an out-of-range profile index.
	ErrProfileIndex = errors.New("profile index out of range")
	// ErrNothingToUndo is returned by Undo on an empty history.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrNothingToRedo is returned by Redo on an empty redo stack.
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Host is the registry that owns every object the engine references.
// The engine only holds the returned handles.
type Host interface {
	lighting.Host

	CreateBatch() (pool.ObjectID, error)
	SetBatch(id pool.ObjectID, asset placement.AssetHandle, transforms []math.Transform) error
	DestroyBatch(id pool.ObjectID) error

	CreateSegment() (pool.ObjectID, error)
	SetSegment(id pool.ObjectID, seg placement.Segment) error
	DestroySegment(id pool.ObjectID) error
}

// Profiles are the authored profile lists.
type Profiles struct {
	Instances []placement.InstanceProfile    `yaml:"instances" toml:"instances"`
	Segments  []placement.SegmentProfile     `yaml:"segments" toml:"segments"`
	Strands   []placement.LightStrandProfile `yaml:"strands" toml:"strands"`
}

func (p Profiles) count(list ListKind) int {
	switch list {
	case InstanceList:
		return len(p.Instances)
	case SegmentList:
		return len(p.Segments)
	case StrandList:
		return len(p.Strands)
	}
	return 0
}

// Options tune an Engine.
type Options struct {
	// MaxInstances caps a single gap-stepped batch or segment run.
	// Zero means unlimited.
	MaxInstances int
	// DefaultStrandGap replaces non-positive light strand gaps.
	DefaultStrandGap float32
	// HistoryLimit bounds the undo stack. Zero means unbounded.
	HistoryLimit int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		MaxInstances:     10000,
		DefaultStrandGap: 1,
		HistoryLimit:     64,
	}
}

// State is the orchestrator state.
type State uint8

const (
	StateIdle State = iota
	StateRecomputing
)

func (s State) String() string {
	if s == StateRecomputing {
		return "recomputing"
	}
	return "idle"
}

// Engine is the recompute orchestrator. It is not safe for concurrent use.
type Engine struct {
	host   Host
	opts   Options
	curve  placement.Curve
	bounds placement.Bounds

	profiles Profiles
	history  history
	state    State

	batches        pool.Pool[pool.ObjectID]
	instances      [][]placement.Instance
	instanceLights []lighting.Set

	segmentPools []pool.Pool[pool.ObjectID]
	segments     [][]placement.Segment

	strands      [][]placement.Instance
	strandLights []lighting.Set
}

// New creates an engine bound to host. It starts with no curve and no
// profiles.
func New(host Host, opts Options) *Engine {
	return &Engine{
		host:    host,
		opts:    opts,
		history: history{limit: opts.HistoryLimit},
	}
}

// State returns the current orchestrator state.
func (e *Engine) State() State {
	return e.state
}

// Curve returns the curve placements are computed against.
func (e *Engine) Curve() placement.Curve {
	return e.curve
}

// Profiles returns a deep copy of the current profiles.
func (e *Engine) Profiles() (Profiles, error) {
	return cloneProfiles(e.profiles)
}

// SetBounds replaces the asset bounds source without recomputing.
func (e *Engine) SetBounds(b placement.Bounds) {
	e.bounds = b
}

// SetCurve replaces the curve and recomputes every profile, reusing pools.
func (e *Engine) SetCurve(c placement.Curve) error {
	e.curve = c
	return e.Notify(CurveChanged{})
}

// Import replaces curve, bounds and profiles with re-imported data,
// discards the undo history and rebuilds every pool from empty.
func (e *Engine) Import(c placement.Curve, b placement.Bounds, p Profiles) error {
	if e.state == StateRecomputing {
		return ErrReentrant
	}
	cp, err := cloneProfiles(p)
	if err != nil {
		return err
	}
	e.curve, e.bounds, e.profiles = c, b, cp
	e.history.reset()
	return e.Notify(Imported{})
}

// RecomputeAll recomputes every profile, reusing pools.
func (e *Engine) RecomputeAll() error {
	return e.Notify(CurveChanged{})
}

// RecomputeInstanceProfile recomputes one InstanceProfile.
func (e *Engine) RecomputeInstanceProfile(i int) error {
	return e.Notify(ProfileFieldChanged{List: InstanceList, Index: i, Field: FieldPlacement})
}

// RecomputeSegmentProfile recomputes one SegmentProfile.
func (e *Engine) RecomputeSegmentProfile(i int) error {
	return e.Notify(ProfileFieldChanged{List: SegmentList, Index: i, Field: FieldPlacement})
}

// RecomputeStrandProfile recomputes one LightStrandProfile.
func (e *Engine) RecomputeStrandProfile(i int) error {
	return e.Notify(ProfileFieldChanged{List: StrandList, Index: i, Field: FieldPlacement})
}

// NotifyCurveChanged is called by the host after the curve moved.
func (e *Engine) NotifyCurveChanged() error {
	return e.Notify(CurveChanged{})
}

// NotifyUndo is called by the host after it restored state through its
// own undo system.
func (e *Engine) NotifyUndo() error {
	return e.Notify(Undone{})
}

// NotifyImport is called by the host after it re-imported persisted data
// in place.
func (e *Engine) NotifyImport() error {
	return e.Notify(Imported{})
}

// Notify runs the recompute pass for n. It returns ErrReentrant when called
// from inside another pass.
func (e *Engine) Notify(n Notification) error {
	if e.state == StateRecomputing {
		return ErrReentrant
	}
	if fc, ok := n.(ProfileFieldChanged); ok {
		if fc.List == AllLists || fc.Index < 0 || fc.Index >= e.profiles.count(fc.List) {
			return fmt.Errorf("%s[%d]: %w", fc.List, fc.Index, ErrProfileIndex)
		}
	}

	e.state = StateRecomputing
	defer func() { e.state = StateIdle }()

	var err error
	switch n := n.(type) {
	case CurveChanged, Undone:
		err = e.recompute(AllLists)
	case Imported:
		err = e.rebuild(AllLists)
	case ProfileListReplaced:
		err = e.rebuild(n.List)
	case ProfileFieldChanged:
		err = e.recomputeOne(n)
	default:
		err = fmt.Errorf("unknown notification %T", n)
	}
	if err != nil {
		logger.Error("recompute failed",
			zap.String("trigger", describe(n)),
			zap.Error(err))
		return err
	}

	logger.Debug("recompute done",
		zap.String("trigger", describe(n)),
		zap.Int("instance_profiles", len(e.profiles.Instances)),
		zap.Int("segment_profiles", len(e.profiles.Segments)),
		zap.Int("strand_profiles", len(e.profiles.Strands)),
		zap.Object("totals", e.Layout().Totals()))
	return nil
}

func (e *Engine) placer() *placement.Placer {
	return &placement.Placer{
		Curve:        e.curve,
		Bounds:       e.bounds,
		MaxInstances: e.opts.MaxInstances,
	}
}

// rebuild destroys the pools of list and recomputes them from empty.
func (e *Engine) rebuild(list ListKind) error {
	if list.covers(InstanceList) {
		if err := e.resizeInstances(0); err != nil {
			return err
		}
	}
	if list.covers(SegmentList) {
		if err := e.resizeSegments(0); err != nil {
			return err
		}
	}
	if list.covers(StrandList) {
		if err := e.resizeStrands(0); err != nil {
			return err
		}
	}
	return e.recompute(list)
}

// recompute resizes the per-profile slots of list to the profile counts and
// recomputes every profile in it.
func (e *Engine) recompute(list ListKind) error {
	p := e.placer()
	if list.covers(InstanceList) {
		if err := e.resizeInstances(len(e.profiles.Instances)); err != nil {
			return err
		}
		for i := range e.profiles.Instances {
			if err := e.recomputeInstance(p, i); err != nil {
				return err
			}
		}
	}
	if list.covers(SegmentList) {
		if err := e.resizeSegments(len(e.profiles.Segments)); err != nil {
			return err
		}
		for i := range e.profiles.Segments {
			if err := e.recomputeSegment(p, i); err != nil {
				return err
			}
		}
	}
	if list.covers(StrandList) {
		if err := e.resizeStrands(len(e.profiles.Strands)); err != nil {
			return err
		}
		for i := range e.profiles.Strands {
			if err := e.recomputeStrand(p, i); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Engine) recomputeOne(n ProfileFieldChanged) error {
	p := e.placer()
	switch n.List {
	case InstanceList:
		if err := e.resizeInstances(len(e.profiles.Instances)); err != nil {
			return err
		}
		if n.Field == FieldLightKind {
			e.profiles.Instances[n.Index].Light.PendingKindChange = true
		}
		return e.recomputeInstance(p, n.Index)
	case SegmentList:
		if err := e.resizeSegments(len(e.profiles.Segments)); err != nil {
			return err
		}
		return e.recomputeSegment(p, n.Index)
	case StrandList:
		if err := e.resizeStrands(len(e.profiles.Strands)); err != nil {
			return err
		}
		if n.Field == FieldLightKind {
			e.profiles.Strands[n.Index].Light.PendingKindChange = true
		}
		return e.recomputeStrand(p, n.Index)
	}
	return fmt.Errorf("%s: %w", n.List, ErrProfileIndex)
}

func (e *Engine) recomputeInstance(p *placement.Placer, i int) error {
	prof := &e.profiles.Instances[i]
	insts := p.Instances(*prof)
	e.instances[i] = insts

	transforms := make([]math.Transform, len(insts))
	for j, inst := range insts {
		transforms[j] = inst.Transform
	}
	if err := e.host.SetBatch(e.batches.At(i), prof.Mesh.Asset, transforms); err != nil {
		return fmt.Errorf("instance profile %d: setting batch: %w", i, err)
	}
	if err := e.instanceLights[i].Apply(e.host, &prof.Light, insts); err != nil {
		return fmt.Errorf("instance profile %d: %w", i, err)
	}
	return nil
}

func (e *Engine) recomputeSegment(p *placement.Placer, i int) error {
	prof := e.profiles.Segments[i]
	objs := &e.segmentPools[i]

	// Segment objects are sized from the count alone, before any sampling.
	n := p.SegmentCount(prof)
	if err := objs.Reconcile(n, e.segmentFactory()); err != nil {
		return fmt.Errorf("segment profile %d: %w", i, err)
	}

	segs := p.Segments(prof)
	for j, seg := range segs {
		if err := e.host.SetSegment(objs.At(j), seg); err != nil {
			return fmt.Errorf("segment profile %d: setting segment %d: %w", i, j, err)
		}
	}
	e.segments[i] = segs
	return nil
}

func (e *Engine) recomputeStrand(p *placement.Placer, i int) error {
	prof := &e.profiles.Strands[i]
	samples := p.Strand(*prof, e.opts.DefaultStrandGap)
	e.strands[i] = samples
	if err := e.strandLights[i].Apply(e.host, &prof.Light, samples); err != nil {
		return fmt.Errorf("strand profile %d: %w", i, err)
	}
	return nil
}

// resizeInstances keeps one batch object and one light set per instance
// profile. Light sets of dropped profiles are destroyed.
func (e *Engine) resizeInstances(n int) error {
	for i := len(e.instanceLights) - 1; i >= n; i-- {
		if err := e.instanceLights[i].Clear(e.host); err != nil {
			return fmt.Errorf("instance profile %d: %w", i, err)
		}
	}
	if len(e.instanceLights) > n {
		e.instanceLights = e.instanceLights[:n]
		e.instances = e.instances[:n]
	}

	if err := e.batches.Reconcile(n, e.batchFactory()); err != nil {
		return fmt.Errorf("instance batches: %w", err)
	}

	for len(e.instanceLights) < n {
		e.instanceLights = append(e.instanceLights, lighting.Set{})
		e.instances = append(e.instances, nil)
	}
	return nil
}

func (e *Engine) resizeSegments(n int) error {
	for i := len(e.segmentPools) - 1; i >= n; i-- {
		if err := e.segmentPools[i].Clear(e.segmentFactory()); err != nil {
			return fmt.Errorf("segment profile %d: %w", i, err)
		}
	}
	if len(e.segmentPools) > n {
		e.segmentPools = e.segmentPools[:n]
		e.segments = e.segments[:n]
	}
	for len(e.segmentPools) < n {
		e.segmentPools = append(e.segmentPools, pool.Pool[pool.ObjectID]{})
		e.segments = append(e.segments, nil)
	}
	return nil
}

func (e *Engine) resizeStrands(n int) error {
	for i := len(e.strandLights) - 1; i >= n; i-- {
		if err := e.strandLights[i].Clear(e.host); err != nil {
			return fmt.Errorf("strand profile %d: %w", i, err)
		}
	}
	if len(e.strandLights) > n {
		e.strandLights = e.strandLights[:n]
		e.strands = e.strands[:n]
	}
	for len(e.strandLights) < n {
		e.strandLights = append(e.strandLights, lighting.Set{})
		e.strands = append(e.strands, nil)
	}
	return nil
}

func (e *Engine) batchFactory() pool.Factory[pool.ObjectID] {
	return pool.Funcs[pool.ObjectID]{
		CreateFunc:  func(int) (pool.ObjectID, error) { return e.host.CreateBatch() },
		DestroyFunc: e.host.DestroyBatch,
	}
}

func (e *Engine) segmentFactory() pool.Factory[pool.ObjectID] {
	return pool.Funcs[pool.ObjectID]{
		CreateFunc:  func(int) (pool.ObjectID, error) { return e.host.CreateSegment() },
		DestroyFunc: e.host.DestroySegment,
	}
}
