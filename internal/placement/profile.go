package placement

import (
	"errors"
	"fmt"

	"github.com/Faultbox/splinescatter/pkg/math"
)

// ErrUnknownEnum is returned when decoding an unrecognised enumeration name.
var ErrUnknownEnum = errors.New("unknown enumeration value")

// AssetHandle names an asset. The empty handle means "not configured" and
// suppresses placement for the profile.
type AssetHandle string

// IsSet reports whether the handle names an asset.
func (h AssetHandle) IsSet() bool {
	return h != ""
}

// OffsetTransform is the per-profile offset applied in the curve's local
// frame. Rotation is in Euler degrees (X roll, Y pitch, Z yaw). A zero
// Scale is read as unit scale.
type OffsetTransform struct {
	Location math.Vec3 `yaml:"location" toml:"location"`
	Rotation math.Vec3 `yaml:"rotation" toml:"rotation"`
	Scale    math.Vec3 `yaml:"scale" toml:"scale"`
}

// Quat returns the offset rotation.
func (o OffsetTransform) Quat() math.Quat {
	return math.QuatFromEuler(o.Rotation)
}

// ScaleOrOne returns Scale, or (1,1,1) when Scale is unset.
func (o OffsetTransform) ScaleOrOne() math.Vec3 {
	if o.Scale.IsZero() {
		return math.One
	}
	return o.Scale
}

// MeshProfile pairs an asset with its offset.
type MeshProfile struct {
	Asset  AssetHandle     `yaml:"asset" toml:"asset"`
	Offset OffsetTransform `yaml:"offset" toml:"offset"`
}

// span returns the asset's doubled forward half-extent scaled by the offset
// scale. ok is false when the asset is unset or unknown.
func (m MeshProfile) span(b Bounds) (float32, bool) {
	if !m.Asset.IsSet() || b == nil {
		return 0, false
	}
	he, ok := b.ForwardHalfExtent(m.Asset)
	if !ok {
		return 0, false
	}
	return 2 * he * m.Offset.ScaleOrOne().X, true
}

// InstancePlacement selects how point instances are distributed.
type InstancePlacement uint8

const (
	// GapStep places instances every asset span plus gap.
	GapStep InstancePlacement = iota
	// AtVertices places one instance per curve control vertex.
	AtVertices
)

var instancePlacementNames = map[InstancePlacement]string{
	GapStep:    "gap",
	AtVertices: "vertices",
}

func (p InstancePlacement) String() string {
	if s, ok := instancePlacementNames[p]; ok {
		return s
	}
	return fmt.Sprintf("InstancePlacement(%d)", p)
}

// MarshalText implements encoding.TextMarshaler.
func (p InstancePlacement) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *InstancePlacement) UnmarshalText(text []byte) error {
	for k, v := range instancePlacementNames {
		if v == string(text) {
			*p = k
			return nil
		}
	}
	return fmt.Errorf("instance placement %q: %w", text, ErrUnknownEnum)
}

// SegmentPlacement selects how ribbon segments are laid out.
type SegmentPlacement uint8

const (
	// Looped tiles the asset repeatedly over a fraction of the curve.
	Looped SegmentPlacement = iota
	// Single stretches one segment over an explicit distance range.
	Single
)

var segmentPlacementNames = map[SegmentPlacement]string{
	Looped: "looped",
	Single: "single",
}

func (p SegmentPlacement) String() string {
	if s, ok := segmentPlacementNames[p]; ok {
		return s
	}
	return fmt.Sprintf("SegmentPlacement(%d)", p)
}

// MarshalText implements encoding.TextMarshaler.
func (p SegmentPlacement) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *SegmentPlacement) UnmarshalText(text []byte) error {
	for k, v := range segmentPlacementNames {
		if v == string(text) {
			*p = k
			return nil
		}
	}
	return fmt.Errorf("segment placement %q: %w", text, ErrUnknownEnum)
}

// LightKind is the concrete light type. It is fixed when a light is created.
type LightKind uint8

const (
	PointLight LightKind = iota
	SpotLight
)

var lightKindNames = map[LightKind]string{
	PointLight: "point",
	SpotLight:  "spot",
}

func (k LightKind) String() string {
	if s, ok := lightKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("LightKind(%d)", k)
}

// MarshalText implements encoding.TextMarshaler.
func (k LightKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *LightKind) UnmarshalText(text []byte) error {
	for kind, v := range lightKindNames {
		if v == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("light kind %q: %w", text, ErrUnknownEnum)
}

// LightProfile describes lights that follow generated instances.
type LightProfile struct {
	Activated bool      `yaml:"activated" toml:"activated"`
	Kind      LightKind `yaml:"kind" toml:"kind"`

	Intensity         float32    `yaml:"intensity" toml:"intensity"`
	Color             [3]float32 `yaml:"color" toml:"color"`
	AttenuationRadius float32    `yaml:"attenuation_radius" toml:"attenuation_radius"`
	SourceRadius      float32    `yaml:"source_radius" toml:"source_radius"`
	UseTemperature    bool       `yaml:"use_temperature" toml:"use_temperature"`
	Temperature       float32    `yaml:"temperature" toml:"temperature"`
	AffectsWorld      bool       `yaml:"affects_world" toml:"affects_world"`
	CastShadows       bool       `yaml:"cast_shadows" toml:"cast_shadows"`

	// Spot only, in degrees.
	InnerConeAngle float32 `yaml:"inner_cone_angle" toml:"inner_cone_angle"`
	OuterConeAngle float32 `yaml:"outer_cone_angle" toml:"outer_cone_angle"`

	LocationOffset math.Vec3 `yaml:"location_offset" toml:"location_offset"`
	RotationOffset math.Vec3 `yaml:"rotation_offset" toml:"rotation_offset"`

	// PendingKindChange forces the next reconciliation to destroy and
	// recreate every light of this profile. It is cleared once consumed.
	PendingKindChange bool `yaml:"-" toml:"-"`
}

// InstanceProfile generates a batch of point instances.
type InstanceProfile struct {
	Mesh        MeshProfile       `yaml:"mesh" toml:"mesh"`
	Placement   InstancePlacement `yaml:"placement" toml:"placement"`
	Gap         float32           `yaml:"gap" toml:"gap"`
	StartOffset float32           `yaml:"start_offset" toml:"start_offset"`
	Light       LightProfile      `yaml:"light" toml:"light"`
}

// SegmentProfile generates ribbon segments.
//
// Looped uses StartFraction/EndFraction of the curve length; an empty or
// inverted range places nothing. RelaxMultiplier <= 0 is read as 1.
// Single uses StartDistance and SegmentLength.
type SegmentProfile struct {
	Mesh            MeshProfile      `yaml:"mesh" toml:"mesh"`
	Placement       SegmentPlacement `yaml:"placement" toml:"placement"`
	RelaxMultiplier float32          `yaml:"relax_multiplier" toml:"relax_multiplier"`
	StartFraction   float32          `yaml:"start_fraction" toml:"start_fraction"`
	EndFraction     float32          `yaml:"end_fraction" toml:"end_fraction"`
	StartDistance   float32          `yaml:"start_distance" toml:"start_distance"`
	SegmentLength   float32          `yaml:"segment_length" toml:"segment_length"`
}

// NewSegmentProfile returns a Looped profile for asset spanning the whole
// curve at its natural length.
func NewSegmentProfile(asset AssetHandle) SegmentProfile {
	return SegmentProfile{
		Mesh:            MeshProfile{Asset: asset},
		Placement:       Looped,
		RelaxMultiplier: 1,
		EndFraction:     1,
	}
}

// LightStrandProfile places lights directly along the curve with no mesh.
type LightStrandProfile struct {
	Light       LightProfile      `yaml:"light" toml:"light"`
	Placement   InstancePlacement `yaml:"placement" toml:"placement"`
	Gap         float32           `yaml:"gap" toml:"gap"`
	StartOffset float32           `yaml:"start_offset" toml:"start_offset"`
}
