// Package spline provides a Catmull-Rom curve sampled by arc length.
package spline

import (
	"sort"

	"github.com/chewxy/math32"

	"github.com/Faultbox/splinescatter/pkg/math"
)

// DefaultResolution is the number of arc-length samples per span.
const DefaultResolution = 32

// Point is a control point. A zero Scale is read as unit scale.
type Point struct {
	Position math.Vec3 `yaml:"position" toml:"position"`
	Scale    math.Vec3 `yaml:"scale,omitempty" toml:"scale,omitempty"`
}

func (p Point) scale() math.Vec3 {
	if p.Scale.IsZero() {
		return math.One
	}
	return p.Scale
}

// Option configures a Spline.
type Option func(*Spline)

// Closed makes the curve loop back from the last point to the first.
func Closed(closed bool) Option {
	return func(s *Spline) { s.closed = closed }
}

// Up sets the reference up vector used to build the curve's frame.
// A zero vector keeps the default +Z.
func Up(up math.Vec3) Option {
	return func(s *Spline) {
		if !up.IsZero() {
			s.up = up.Normalize()
		}
	}
}

// Resolution sets the number of arc-length samples per span.
func Resolution(n int) Option {
	return func(s *Spline) {
		if n > 0 {
			s.resolution = n
		}
	}
}

type sample struct {
	key  float32 // spline parameter, integer at control points
	dist float32
}

// Spline is an immutable uniform Catmull-Rom curve
// through its control points. Open curves clamp their end tangents by
// repeating the end points.
type Spline struct {
	points     []Point
	closed     bool
	up         math.Vec3
	resolution int

	table  []sample
	length float32
}

// New builds a spline through points.
func New(points []Point, opts ...Option) *Spline {
	s := &Spline{
		points:     append([]Point(nil), points...),
		up:         math.UnitZ,
		resolution: DefaultResolution,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.buildTable()
	return s
}

// Points returns a copy of the control points.
func (s *Spline) Points() []Point {
	return append([]Point(nil), s.points...)
}

// IsClosed reports whether the curve loops.
func (s *Spline) IsClosed() bool {
	return s.closed
}

// spans returns the number of curve pieces between control points.
func (s *Spline) spans() int {
	n := len(s.points)
	if n < 2 {
		return 0
	}
	if s.closed {
		return n
	}
	return n - 1
}

func (s *Spline) buildTable() {
	spans := s.spans()
	if spans == 0 {
		s.table = []sample{{}}
		return
	}

	total := spans * s.resolution
	s.table = make([]sample, 0, total+1)
	prev := s.position(0)
	var dist float32
	s.table = append(s.table, sample{})
	for i := 1; i <= total; i++ {
		key := float32(i) / float32(s.resolution)
		p := s.position(key)
		dist += p.Distance(prev)
		prev = p
		s.table = append(s.table, sample{key: key, dist: dist})
	}
	s.length = dist
}

// point returns control point i, wrapped for closed curves and clamped
// for open ones.
func (s *Spline) point(i int) Point {
	n := len(s.points)
	if s.closed {
		return s.points[((i%n)+n)%n]
	}
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	return s.points[i]
}

func (s *Spline) segment(key float32) (int, float32) {
	spans := s.spans()
	seg := int(math32.Floor(key))
	if seg >= spans {
		seg = spans - 1
	}
	if seg < 0 {
		seg = 0
	}
	return seg, key - float32(seg)
}

func (s *Spline) position(key float32) math.Vec3 {
	switch len(s.points) {
	case 0:
		return math.Vec3{}
	case 1:
		return s.points[0].Position
	}
	seg, t := s.segment(key)
	p0, p1 := s.point(seg-1).Position, s.point(seg).Position
	p2, p3 := s.point(seg+1).Position, s.point(seg+2).Position

	t2, t3 := t*t, t*t*t
	a := p1.Scale(2)
	b := p2.Sub(p0).Scale(t)
	c := p0.Scale(2).Sub(p1.Scale(5)).Add(p2.Scale(4)).Sub(p3).Scale(t2)
	d := p1.Scale(3).Sub(p0).Sub(p2.Scale(3)).Add(p3).Scale(t3)
	return a.Add(b).Add(c).Add(d).Scale(0.5)
}

// derivative is d(position)/d(key).
func (s *Spline) derivative(key float32) math.Vec3 {
	if len(s.points) < 2 {
		return math.Vec3{}
	}
	seg, t := s.segment(key)
	p0, p1 := s.point(seg-1).Position, s.point(seg).Position
	p2, p3 := s.point(seg+1).Position, s.point(seg+2).Position

	b := p2.Sub(p0)
	c := p0.Scale(2).Sub(p1.Scale(5)).Add(p2.Scale(4)).Sub(p3).Scale(2 * t)
	d := p1.Scale(3).Sub(p0).Sub(p2.Scale(3)).Add(p3).Scale(3 * t * t)
	return b.Add(c).Add(d).Scale(0.5)
}

func (s *Spline) scaleAt(key float32) math.Vec3 {
	switch len(s.points) {
	case 0:
		return math.One
	case 1:
		return s.points[0].scale()
	}
	seg, t := s.segment(key)
	return s.point(seg).scale().Lerp(s.point(seg+1).scale(), t)
}

// keyAt maps an arc-length distance to the spline parameter.
func (s *Spline) keyAt(d float32) float32 {
	if d <= 0 || len(s.table) < 2 {
		return 0
	}
	if d >= s.length {
		return s.table[len(s.table)-1].key
	}
	i := sort.Search(len(s.table), func(i int) bool { return s.table[i].dist >= d })
	lo, hi := s.table[i-1], s.table[i]
	span := hi.dist - lo.dist
	if span <= 0 {
		return hi.key
	}
	return lo.key + (hi.key-lo.key)*(d-lo.dist)/span
}

// Length returns the arc length of the curve.
func (s *Spline) Length() float32 {
	return s.length
}

// PositionAtDistance returns the curve position at arc-length d.
func (s *Spline) PositionAtDistance(d float32) math.Vec3 {
	return s.position(s.keyAt(d))
}

// TangentAtDistance returns the curve derivative at d. Its length is in
// world units per span.
func (s *Spline) TangentAtDistance(d float32) math.Vec3 {
	return s.derivative(s.keyAt(d))
}

// DirectionsAtDistance returns the orthonormal frame at d: forward along
// the tangent, right = up x forward and the re-orthogonalised up.
func (s *Spline) DirectionsAtDistance(d float32) (forward, right, up math.Vec3) {
	return s.frame(s.TangentAtDistance(d))
}

func (s *Spline) frame(tangent math.Vec3) (forward, right, up math.Vec3) {
	forward = tangent.Normalize()
	if forward.IsZero() {
		forward = math.UnitX
	}
	right = s.up.Cross(forward)
	if right.Length() < 1e-4 {
		// Tangent parallel to up: pick any perpendicular reference.
		ref := math.UnitX
		if math32.Abs(forward.X) > 0.9 {
			ref = math.UnitY
		}
		right = ref.Cross(forward)
	}
	right = right.Normalize()
	up = forward.Cross(right)
	return forward, right, up
}

// TransformAtDistance returns position, frame rotation and interpolated
// scale at d.
func (s *Spline) TransformAtDistance(d float32) math.Transform {
	key := s.keyAt(d)
	f, r, u := s.frame(s.derivative(key))
	return math.Transform{
		Location: s.position(key),
		Rotation: math.QuatFromAxes(f, r, u),
		Scale:    s.scaleAt(key),
	}
}

// VertexCount returns the number of control points.
func (s *Spline) VertexCount() int {
	return len(s.points)
}

// DistanceAtVertex returns the arc-length distance of control point i.
func (s *Spline) DistanceAtVertex(i int) float32 {
	if i <= 0 || len(s.table) < 2 {
		return 0
	}
	idx := i * s.resolution
	if idx >= len(s.table) {
		return s.length
	}
	return s.table[idx].dist
}

// PositionAtVertex returns control point i's position.
func (s *Spline) PositionAtVertex(i int) math.Vec3 {
	return s.points[i].Position
}

// RotationAtVertex returns the frame rotation at control point i.
func (s *Spline) RotationAtVertex(i int) math.Quat {
	f, r, u := s.frame(s.derivative(float32(i)))
	return math.QuatFromAxes(f, r, u)
}

// ScaleAtVertex returns control point i's scale.
func (s *Spline) ScaleAtVertex(i int) math.Vec3 {
	return s.points[i].scale()
}

// MaxPolylineSamples bounds the number of points Polyline returns.
const MaxPolylineSamples = 1 << 16

// Polyline samples the curve every step units, always including both ends.
// When step would need more than MaxPolylineSamples points it is widened.
func (s *Spline) Polyline(step float32) []math.Vec3 {
	if len(s.points) == 0 {
		return nil
	}
	if s.length <= 0 {
		return []math.Vec3{s.position(0)}
	}
	if step <= 0 || step > s.length {
		step = s.length
	}

	n := math32.Ceil(s.length / step)
	if !(n < MaxPolylineSamples) {
		n = MaxPolylineSamples - 1
		step = s.length / n
	}
	count := int(n)

	out := make([]math.Vec3, 0, count+1)
	for i := 0; i < count; i++ {
		out = append(out, s.PositionAtDistance(float32(i)*step))
	}
	return append(out, s.PositionAtDistance(s.length))
}
