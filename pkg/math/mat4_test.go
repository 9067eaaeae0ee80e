package math

import (
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	id := Identity()
	result := m.Mul(id)

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTransformVec3(t *testing.T) {
	m := Translate(10, 20, 30).Mul(Scale(2, 2, 2))
	got := m.TransformVec3(Vec3{1, 2, 3})
	want := Vec3{12, 24, 36}
	if got != want {
		t.Errorf("TransformVec3: got %v, want %v", got, want)
	}
}

func TestOrthoMapsCornersToNDC(t *testing.T) {
	m := Ortho(0, 100, 0, 50, -1, 1)

	lo := m.TransformVec3(Vec3{0, 0, 0})
	hi := m.TransformVec3(Vec3{100, 50, 0})
	if abs(lo.X+1) > 0.0001 || abs(lo.Y+1) > 0.0001 {
		t.Errorf("Ortho lower corner: got %v, want (-1, -1)", lo)
	}
	if abs(hi.X-1) > 0.0001 || abs(hi.Y-1) > 0.0001 {
		t.Errorf("Ortho upper corner: got %v, want (1, 1)", hi)
	}
}

func TestTransformMatrixMatchesTransformPoint(t *testing.T) {
	tr := Transform{
		Location: Vec3{5, -3, 2},
		Rotation: QuatFromEuler(Vec3{10, 20, 30}),
		Scale:    Vec3{2, 1, 0.5},
	}
	p := Vec3{1, 2, 3}

	a := tr.Matrix().TransformVec3(p)
	b := tr.TransformPoint(p)
	if a.Distance(b) > 0.001 {
		t.Errorf("Matrix().TransformVec3 = %v, TransformPoint = %v", a, b)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
