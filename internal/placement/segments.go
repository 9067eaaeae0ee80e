package placement

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/splinescatter/pkg/math"
)

// SegmentEnd is one end of a ribbon segment.
type SegmentEnd struct {
	Distance  float32
	Transform math.Transform
	Tangent   math.Vec3
}

// Segment is one tile of a ribbon-style renderable: the asset is deformed
// to run from Start to End.
type Segment struct {
	Asset AssetHandle
	Start SegmentEnd
	End   SegmentEnd
}

// segmentPlan is the counting pre-pass shared by SegmentCount and Segments.
type segmentPlan struct {
	start float32
	span  float32
	count int
}

func (p *Placer) plan(prof SegmentProfile) segmentPlan {
	if !prof.Mesh.Asset.IsSet() || p.Curve == nil {
		return segmentPlan{}
	}
	length := p.Curve.Length()

	switch prof.Placement {
	case Single:
		if prof.SegmentLength <= 0 {
			return segmentPlan{}
		}
		return segmentPlan{start: prof.StartDistance, span: prof.SegmentLength, count: 1}
	default:
		if length <= 0 {
			return segmentPlan{}
		}
		startF, endF := clamp01(prof.StartFraction), clamp01(prof.EndFraction)
		rangeStart := length * startF
		rangeLen := length*endF - rangeStart
		if rangeLen <= 0 {
			return segmentPlan{}
		}

		assetSpan, ok := prof.Mesh.span(p.Bounds)
		if !ok {
			return segmentPlan{}
		}
		relax := prof.RelaxMultiplier
		if relax <= 0 {
			relax = 1
		}
		span := math32.Min(assetSpan*relax, rangeLen)
		if span <= 0 {
			return segmentPlan{}
		}
		count, _ := countSteps(math32.Floor(rangeLen/span), p.MaxInstances)
		return segmentPlan{start: rangeStart, span: span, count: count}
	}
}

// SegmentCount returns how many segments Segments would produce for prof,
// without sampling the curve.
func (p *Placer) SegmentCount(prof SegmentProfile) int {
	return p.plan(prof).count
}

// Segments tiles prof over the curve. Looped segments are contiguous and
// non-overlapping; any remainder shorter than one span is left empty.
// Tangents are clamped to the segment's span.
func (p *Placer) Segments(prof SegmentProfile) []Segment {
	plan := p.plan(prof)
	if plan.count == 0 {
		return nil
	}
	out := make([]Segment, 0, plan.count)
	for i := 0; i < plan.count; i++ {
		startDist := float32(i)*plan.span + plan.start
		endDist := float32(i+1)*plan.span + plan.start
		out = append(out, Segment{
			Asset: prof.Mesh.Asset,
			Start: p.segmentEnd(startDist, plan.span, prof.Mesh.Offset),
			End:   p.segmentEnd(endDist, plan.span, prof.Mesh.Offset),
		})
	}
	return out
}

func (p *Placer) segmentEnd(d, maxTangent float32, offset OffsetTransform) SegmentEnd {
	return SegmentEnd{
		Distance:  d,
		Transform: sampleAt(p.Curve, d, offset),
		Tangent:   p.Curve.TangentAtDistance(d).ClampLength(maxTangent),
	}
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}
