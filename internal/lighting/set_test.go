package lighting

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/splinescatter/internal/placement"
	"github.com/Faultbox/splinescatter/internal/pool"
	"github.com/Faultbox/splinescatter/pkg/math"
)

type fakeHost struct {
	next    pool.ObjectID
	kinds   map[pool.ObjectID]placement.LightKind
	state   map[pool.ObjectID]Light
	created int
	failOn  int
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		kinds:  map[pool.ObjectID]placement.LightKind{},
		state:  map[pool.ObjectID]Light{},
		failOn: -1,
	}
}

func (h *fakeHost) CreateLight(kind placement.LightKind) (pool.ObjectID, error) {
	if h.created == h.failOn {
		return 0, errors.New("light budget exhausted")
	}
	h.created++
	h.next++
	h.kinds[h.next] = kind
	return h.next, nil
}

func (h *fakeHost) UpdateLight(id pool.ObjectID, l Light) error {
	kind, ok := h.kinds[id]
	if !ok {
		return errors.New("unknown light")
	}
	if kind != l.Kind {
		return errors.New("kind mismatch")
	}
	h.state[id] = l
	return nil
}

func (h *fakeHost) DestroyLight(id pool.ObjectID) error {
	if _, ok := h.kinds[id]; !ok {
		return errors.New("unknown light")
	}
	delete(h.kinds, id)
	delete(h.state, id)
	return nil
}

func instancesAlongX(n int) []placement.Instance {
	out := make([]placement.Instance, n)
	for i := range out {
		out[i] = placement.Instance{
			Distance:  float32(i) * 10,
			Vertex:    -1,
			Transform: math.Transform{Location: math.Vec3{X: float32(i) * 10}, Rotation: math.QuatIdentity(), Scale: math.One},
		}
	}
	return out
}

func TestApplyMatchesInstanceCount(t *testing.T) {
	host := newFakeHost()
	var s Set
	prof := &placement.LightProfile{Activated: true, Intensity: 8, Color: [3]float32{1, 0.5, 0.25}}

	require.NoError(t, s.Apply(host, prof, instancesAlongX(5)))
	assert.Equal(t, 5, s.Len())
	assert.Len(t, host.kinds, 5)

	for i, id := range s.IDs() {
		l := host.state[id]
		assert.Equal(t, float32(8), l.Params.Intensity)
		assert.Equal(t, [3]float32{1, 0.5, 0.25}, l.Params.Color)
		assert.Nil(t, l.Spot)
		assert.InDelta(t, float32(i)*10, l.Transform.Location.X, 1e-5)
	}
}

func TestApplyShrinkKeepsPrefix(t *testing.T) {
	host := newFakeHost()
	var s Set
	prof := &placement.LightProfile{Activated: true}

	require.NoError(t, s.Apply(host, prof, instancesAlongX(10)))
	before := s.IDs()

	require.NoError(t, s.Apply(host, prof, instancesAlongX(4)))
	assert.Equal(t, before[:4], s.IDs())
	for _, id := range before[4:] {
		_, live := host.kinds[id]
		assert.False(t, live, "light %d should be destroyed", id)
	}
}

func TestApplyDeactivatedEmptiesSet(t *testing.T) {
	host := newFakeHost()
	var s Set
	prof := &placement.LightProfile{Activated: true}
	require.NoError(t, s.Apply(host, prof, instancesAlongX(3)))

	prof.Activated = false
	require.NoError(t, s.Apply(host, prof, instancesAlongX(3)))
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, host.kinds)
	assert.Empty(t, s.Lights())
}

func TestApplyPendingKindChangeRebuilds(t *testing.T) {
	host := newFakeHost()
	var s Set
	prof := &placement.LightProfile{Activated: true, Kind: placement.PointLight}
	require.NoError(t, s.Apply(host, prof, instancesAlongX(3)))
	before := s.IDs()

	prof.Kind = placement.SpotLight
	prof.InnerConeAngle, prof.OuterConeAngle = 20, 40
	prof.PendingKindChange = true
	require.NoError(t, s.Apply(host, prof, instancesAlongX(3)))

	assert.False(t, prof.PendingKindChange, "flag consumed")
	for i, id := range s.IDs() {
		assert.NotEqual(t, before[i], id, "index %d should be a new object", i)
		assert.Equal(t, placement.SpotLight, host.kinds[id])
		require.NotNil(t, host.state[id].Spot)
		assert.Equal(t, float32(40), host.state[id].Spot.OuterConeAngle)
	}
}

func TestApplyKindMismatchRebuildsWithoutFlag(t *testing.T) {
	host := newFakeHost()
	var s Set
	prof := &placement.LightProfile{Activated: true, Kind: placement.SpotLight}
	require.NoError(t, s.Apply(host, prof, instancesAlongX(2)))

	prof.Kind = placement.PointLight
	require.NoError(t, s.Apply(host, prof, instancesAlongX(2)))
	for _, id := range s.IDs() {
		assert.Equal(t, placement.PointLight, host.kinds[id])
	}
}

func TestApplyHostFailure(t *testing.T) {
	host := newFakeHost()
	host.failOn = 2
	var s Set

	err := s.Apply(host, &placement.LightProfile{Activated: true}, instancesAlongX(4))
	assert.ErrorIs(t, err, pool.ErrHostFailure)
	assert.Equal(t, 2, s.Len())
}

func TestStampUsesInstanceAxes(t *testing.T) {
	// Instance yawed 90 degrees: its local X points along world +Y.
	inst := math.Transform{
		Location: math.Vec3{X: 100},
		Rotation: math.QuatFromEuler(math.Vec3{Z: 90}),
		Scale:    math.Vec3{X: 2, Y: 2, Z: 2},
	}
	prof := &placement.LightProfile{
		Kind:           placement.SpotLight,
		LocationOffset: math.Vec3{X: 10, Z: 5},
		RotationOffset: math.Vec3{Y: 90},
	}

	l := Stamp(prof, inst)

	assert.InDelta(t, 100, l.Transform.Location.X, 1e-4)
	assert.InDelta(t, 10, l.Transform.Location.Y, 1e-4)
	assert.InDelta(t, 5, l.Transform.Location.Z, 1e-4)

	// Pitching 90 degrees about the instance's Y turns its forward downward.
	fwd := l.Transform.Rotation.Rotate(math.UnitX)
	assert.InDelta(t, 0, fwd.X, 1e-4)
	assert.InDelta(t, 0, fwd.Y, 1e-4)
	assert.InDelta(t, -1, fwd.Z, 1e-4)
	require.NotNil(t, l.Spot)
}
