package placement

import (
	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/splinescatter/internal/logger"
	"github.com/Faultbox/splinescatter/pkg/math"
)

// Instance is one generated placement.
type Instance struct {
	// Distance is the arc-length distance the instance was sampled at.
	Distance float32
	// Vertex is the control vertex index for AtVertices placement, -1 otherwise.
	Vertex    int
	Transform math.Transform
}

// Placer computes instance pools for profiles against one curve.
type Placer struct {
	Curve  Curve
	Bounds Bounds

	// MaxInstances caps a single gap-stepped batch. Zero means unlimited.
	MaxInstances int
}

// Instances computes the instance pool for an InstanceProfile.
func (p *Placer) Instances(prof InstanceProfile) []Instance {
	if !prof.Mesh.Asset.IsSet() || p.Curve == nil {
		return nil
	}

	switch prof.Placement {
	case AtVertices:
		return p.atVertices(prof.Mesh.Offset)
	default:
		span, ok := prof.Mesh.span(p.Bounds)
		if !ok {
			logger.Warn("asset bounds unknown, skipping profile",
				zap.String("asset", string(prof.Mesh.Asset)))
			return nil
		}
		ds := GapDistances(p.Curve.Length(), prof.StartOffset, span, prof.Gap, p.MaxInstances)
		return p.atDistances(ds, prof.Mesh.Offset)
	}
}

// Strand computes curve samples for a light strand. Non-positive gaps are
// replaced by defaultGap, or 1 if that is non-positive too.
func (p *Placer) Strand(prof LightStrandProfile, defaultGap float32) []Instance {
	if p.Curve == nil {
		return nil
	}

	switch prof.Placement {
	case AtVertices:
		return p.atVertices(OffsetTransform{})
	default:
		gap := prof.Gap
		if gap <= 0 {
			gap = defaultGap
		}
		if gap <= 0 {
			gap = 1
		}
		ds := GapDistances(p.Curve.Length(), prof.StartOffset, 0, gap, p.MaxInstances)
		return p.atDistances(ds, OffsetTransform{})
	}
}

func (p *Placer) atVertices(offset OffsetTransform) []Instance {
	n := p.Curve.VertexCount()
	if n <= 0 {
		return nil
	}
	out := make([]Instance, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Instance{
			Distance:  p.Curve.DistanceAtVertex(i),
			Vertex:    i,
			Transform: sampleAtVertex(p.Curve, i, offset),
		})
	}
	return out
}

func (p *Placer) atDistances(ds []float32, offset OffsetTransform) []Instance {
	if len(ds) == 0 {
		return nil
	}
	out := make([]Instance, 0, len(ds))
	for _, d := range ds {
		out = append(out, Instance{
			Distance:  d,
			Vertex:    -1,
			Transform: sampleAt(p.Curve, d, offset),
		})
	}
	return out
}

// HardLimit bounds every generated count, including when no per-profile
// cap is configured.
const HardLimit = 1 << 20

// countSteps converts a floored count to an int no larger than limit, or
// HardLimit when limit <= 0. NaN and infinite counts clamp to the limit.
func countSteps(f float32, limit int) (n int, capped bool) {
	if limit <= 0 || limit > HardLimit {
		limit = HardLimit
	}
	if !(f <= float32(limit)) {
		return limit, true
	}
	if f < 0 {
		return 0, false
	}
	return int(f), false
}

// GapDistances returns the arc-length distances for gap-stepped placement:
// i*stride + startOffset for i = 0..steps inclusive, where
// stride = gap + span and steps = floor((length - startOffset) / stride).
//
// The result is empty when length <= 0, span > length, or
// startOffset >= length. A stride that is non-positive or longer than the
// remaining range is clamped to the remaining range. Negative startOffset
// is read as 0. limit > 0 caps the number of distances returned; the
// count never exceeds HardLimit.
func GapDistances(length, startOffset, span, gap float32, limit int) []float32 {
	if length <= 0 || span > length {
		return nil
	}
	if startOffset < 0 {
		startOffset = 0
	}
	rng := length - startOffset
	if rng <= 0 {
		return nil
	}

	stride := gap + span
	if stride <= 0 || stride > rng {
		stride = rng
	}
	want := math32.Floor(rng/stride) + 1
	n, capped := countSteps(want, limit)
	if capped {
		logger.Warn("instance cap reached, truncating batch",
			zap.Float32("wanted", want),
			zap.Int("limit", n))
	}

	out := make([]float32, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, float32(i)*stride+startOffset)
	}
	return out
}
