// Package lighting keeps light objects in step with generated instances.
package lighting

import (
	"github.com/Faultbox/splinescatter/internal/placement"
	"github.com/Faultbox/splinescatter/pkg/math"
)

// Params are the parameters shared by every light kind.
type Params struct {
	Intensity         float32
	Color             [3]float32 // RGB
	AttenuationRadius float32
	SourceRadius      float32
	UseTemperature    bool
	Temperature       float32 // Kelvin, honoured when UseTemperature is set
	AffectsWorld      bool
	CastShadows       bool
}

// SpotParams are only present on spot lights.
type SpotParams struct {
	InnerConeAngle float32 // degrees
	OuterConeAngle float32 // degrees
}

// Light is the full state stamped onto a host light object.
// Spot is nil unless Kind is placement.SpotLight.
type Light struct {
	Kind      placement.LightKind
	Transform math.Transform
	Params    Params
	Spot      *SpotParams
}

// Stamp computes the light for one instance. The profile's location offset
// is projected on the instance's own unit axes, and its rotation offset is
// applied on top of a rotation rebuilt from those axes.
func Stamp(profile *placement.LightProfile, instance math.Transform) Light {
	x, y, z := instance.UnitAxes()
	base := placement.RotationFromAxes(x, y, z)

	l := Light{
		Kind: profile.Kind,
		Transform: math.Transform{
			Location: instance.Location.Add(placement.ProjectOffset(profile.LocationOffset, x, y, z)),
			Rotation: base.Mul(math.QuatFromEuler(profile.RotationOffset)),
			Scale:    instance.Scale,
		},
		Params: Params{
			Intensity:         profile.Intensity,
			Color:             profile.Color,
			AttenuationRadius: profile.AttenuationRadius,
			SourceRadius:      profile.SourceRadius,
			UseTemperature:    profile.UseTemperature,
			Temperature:       profile.Temperature,
			AffectsWorld:      profile.AffectsWorld,
			CastShadows:       profile.CastShadows,
		},
	}
	if profile.Kind == placement.SpotLight {
		l.Spot = &SpotParams{
			InnerConeAngle: profile.InnerConeAngle,
			OuterConeAngle: profile.OuterConeAngle,
		}
	}
	return l
}
