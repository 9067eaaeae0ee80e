package engine

import (
	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/splinescatter/internal/lighting"
	"github.com/Faultbox/splinescatter/internal/placement"
	"github.com/Faultbox/splinescatter/internal/pool"
)

// Layout is a snapshot of everything the last recompute produced.
type Layout struct {
	Instances []InstanceBatch
	Segments  []SegmentRun
	Strands   []LightStrand
}

// InstanceBatch is the output of one InstanceProfile.
type InstanceBatch struct {
	Profile   int
	Asset     placement.AssetHandle
	Batch     pool.ObjectID
	Instances []placement.Instance
	LightIDs  []pool.ObjectID
	Lights    []lighting.Light
}

// SegmentRun is the output of one SegmentProfile.
type SegmentRun struct {
	Profile  int
	IDs      []pool.ObjectID
	Segments []placement.Segment
}

// LightStrand is the output of one LightStrandProfile.
type LightStrand struct {
	Profile  int
	Samples  []placement.Instance
	LightIDs []pool.ObjectID
	Lights   []lighting.Light
}

// Totals counts generated objects across a layout.
type Totals struct {
	Instances int
	Segments  int
	Lights    int
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (t Totals) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("instances", t.Instances)
	enc.AddInt("segments", t.Segments)
	enc.AddInt("lights", t.Lights)
	return nil
}

// Totals sums the layout.
func (l Layout) Totals() Totals {
	var t Totals
	for _, b := range l.Instances {
		t.Instances += len(b.Instances)
		t.Lights += len(b.Lights)
	}
	for _, r := range l.Segments {
		t.Segments += len(r.Segments)
	}
	for _, s := range l.Strands {
		t.Lights += len(s.Lights)
	}
	return t
}

// Layout returns a snapshot of the current generated state.
func (e *Engine) Layout() Layout {
	var l Layout
	for i := range e.instances {
		b := InstanceBatch{
			Profile:   i,
			Instances: append([]placement.Instance(nil), e.instances[i]...),
			LightIDs:  e.instanceLights[i].IDs(),
			Lights:    e.instanceLights[i].Lights(),
		}
		if i < len(e.profiles.Instances) {
			b.Asset = e.profiles.Instances[i].Mesh.Asset
		}
		if i < e.batches.Len() {
			b.Batch = e.batches.At(i)
		}
		l.Instances = append(l.Instances, b)
	}
	for i := range e.segments {
		l.Segments = append(l.Segments, SegmentRun{
			Profile:  i,
			IDs:      e.segmentPools[i].Items(),
			Segments: append([]placement.Segment(nil), e.segments[i]...),
		})
	}
	for i := range e.strands {
		l.Strands = append(l.Strands, LightStrand{
			Profile:  i,
			Samples:  append([]placement.Instance(nil), e.strands[i]...),
			LightIDs: e.strandLights[i].IDs(),
			Lights:   e.strandLights[i].Lights(),
		})
	}
	return l
}
