package placement

import "github.com/Faultbox/splinescatter/pkg/math"

// ProjectOffset turns a local offset into a world displacement:
// offset.X along forward, offset.Y along right and offset.Z along up.
// The basis is used as given.
func ProjectOffset(offset, forward, right, up math.Vec3) math.Vec3 {
	return forward.Scale(offset.X).
		Add(right.Scale(offset.Y)).
		Add(up.Scale(offset.Z))
}

// RotationFromAxes builds the rotation whose local X, Y and Z axes are
// forward, right and up. The axes must already be orthonormal.
func RotationFromAxes(forward, right, up math.Vec3) math.Quat {
	return math.QuatFromAxes(forward, right, up)
}
