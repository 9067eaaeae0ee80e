package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	length := float32(math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)))
	if math.Abs(float64(length-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatToMat4(t *testing.T) {
	// Identity quaternion should produce identity matrix
	q := QuatIdentity()
	m := q.ToMat4()

	identity := Identity()
	for i := 0; i < 16; i++ {
		if math.Abs(float64(m[i]-identity[i])) > 0.0001 {
			t.Errorf("Identity quat should produce identity matrix, element %d: got %v, want %v", i, m[i], identity[i])
		}
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	// 90 degrees around Y axis
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))

	// Should have Y component and W = cos(45deg)
	expectedW := float32(math.Cos(math.Pi / 4))
	expectedY := float32(math.Sin(math.Pi / 4))

	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Y-expectedY)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func TestQuatRotate(t *testing.T) {
	// 90 degrees about Z turns +X into +Y
	q := QuatFromAxisAngle(UnitZ, float32(math.Pi/2))
	got := q.Rotate(UnitX)
	if got.Distance(UnitY) > 0.0001 {
		t.Errorf("Rotate(X) by 90deg about Z = %v, want %v", got, UnitY)
	}
}

func TestQuatFromAxesRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		euler Vec3
	}{
		{"identity", Vec3{}},
		{"yaw", Vec3{0, 0, 90}},
		{"pitch", Vec3{0, 45, 0}},
		{"roll", Vec3{-30, 0, 0}},
		{"mixed", Vec3{15, -70, 160}},
		{"half turn", Vec3{0, 0, 180}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QuatFromEuler(tt.euler)
			x, y, z := q.Axes()
			rebuilt := QuatFromAxes(x, y, z)

			// q and -q are the same rotation
			if d := math.Abs(float64(q.Dot(rebuilt))); d < 0.9999 {
				t.Errorf("QuatFromAxes(q.Axes()) = %v, want %v (|dot| = %v)", rebuilt, q, d)
			}
		})
	}
}

func TestQuatFromAxesIdentity(t *testing.T) {
	q := QuatFromAxes(UnitX, UnitY, UnitZ)
	if q != QuatIdentity() {
		t.Errorf("QuatFromAxes(X, Y, Z) = %v, want identity", q)
	}
}

func TestQuatFromEulerYaw(t *testing.T) {
	q := QuatFromEuler(Vec3{0, 0, 90})
	fwd, right, up := q.Axes()
	if fwd.Distance(UnitY) > 0.0001 {
		t.Errorf("yaw 90: forward = %v, want %v", fwd, UnitY)
	}
	if right.Distance(Vec3{-1, 0, 0}) > 0.0001 {
		t.Errorf("yaw 90: right = %v, want (-1, 0, 0)", right)
	}
	if up.Distance(UnitZ) > 0.0001 {
		t.Errorf("yaw 90: up = %v, want %v", up, UnitZ)
	}
}

func TestQuatConjugateUndoesRotation(t *testing.T) {
	q := QuatFromEuler(Vec3{20, 30, 40})
	v := Vec3{3, -1, 2}
	back := q.Conjugate().Rotate(q.Rotate(v))
	if back.Distance(v) > 0.0001 {
		t.Errorf("Conjugate().Rotate(Rotate(v)) = %v, want %v", back, v)
	}
}
