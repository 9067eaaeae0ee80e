package math

// Transform is a location, rotation and non-uniform scale.
type Transform struct {
	Location Vec3
	Rotation Quat
	Scale    Vec3
}

// TransformIdentity returns a transform at the origin with no rotation and
// unit scale.
func TransformIdentity() Transform {
	return Transform{Rotation: QuatIdentity(), Scale: One}
}

// UnitAxes returns the transform's rotated X, Y and Z unit axes, ignoring
// scale.
func (t Transform) UnitAxes() (x, y, z Vec3) {
	return t.Rotation.Normalize().Axes()
}

// TransformPoint maps a local point into the transform's parent space.
func (t Transform) TransformPoint(p Vec3) Vec3 {
	return t.Rotation.Rotate(p.Mul(t.Scale)).Add(t.Location)
}

// Matrix returns the transform as translate * rotate * scale.
func (t Transform) Matrix() Mat4 {
	return Translate(t.Location.X, t.Location.Y, t.Location.Z).
		Mul(t.Rotation.ToMat4()).
		Mul(Scale(t.Scale.X, t.Scale.Y, t.Scale.Z))
}
