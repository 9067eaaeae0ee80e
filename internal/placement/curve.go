// Package placement computes where assets go along a curve: point instances,
// ribbon segments and light strands.
//
// Everything in this package is a pure function of the curve, the asset
// bounds and the profile. Skippable input (unset asset, asset larger than
// the available range, empty curve) produces empty output rather than an
// error.
package placement

import "github.com/Faultbox/splinescatter/pkg/math"

// Curve is the arc-length sampling surface placement needs from a curve.
// Distances are clamped to [0, Length()] by implementations.
type Curve interface {
	Length() float32
	TransformAtDistance(d float32) math.Transform
	TangentAtDistance(d float32) math.Vec3
	DirectionsAtDistance(d float32) (forward, right, up math.Vec3)

	VertexCount() int
	DistanceAtVertex(i int) float32
	PositionAtVertex(i int) math.Vec3
	RotationAtVertex(i int) math.Quat
	ScaleAtVertex(i int) math.Vec3
}

// Bounds reports the half-extent of an asset along its forward (local X)
// axis. ok is false when the asset is not known.
type Bounds interface {
	ForwardHalfExtent(asset AssetHandle) (halfExtent float32, ok bool)
}

// sampleAt returns the curve transform at d with offset applied in the
// curve's local frame at that distance.
func sampleAt(c Curve, d float32, offset OffsetTransform) math.Transform {
	base := c.TransformAtDistance(d)
	fwd, right, up := c.DirectionsAtDistance(d)
	return math.Transform{
		Location: base.Location.Add(ProjectOffset(offset.Location, fwd, right, up)),
		Rotation: base.Rotation.Mul(offset.Quat()),
		Scale:    base.Scale.Mul(offset.ScaleOrOne()),
	}
}

// sampleAtVertex is sampleAt for a control vertex: position, rotation and
// scale come from the vertex itself, the offset basis from the vertex's
// arc-length distance.
func sampleAtVertex(c Curve, i int, offset OffsetTransform) math.Transform {
	fwd, right, up := c.DirectionsAtDistance(c.DistanceAtVertex(i))
	return math.Transform{
		Location: c.PositionAtVertex(i).Add(ProjectOffset(offset.Location, fwd, right, up)),
		Rotation: c.RotationAtVertex(i).Mul(offset.Quat()),
		Scale:    c.ScaleAtVertex(i).Mul(offset.ScaleOrOne()),
	}
}
