// Package scene reads and writes scene documents: a curve, the bounds of
// the assets it places, and the profile lists.
package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/splinescatter/internal/assets"
	"github.com/Faultbox/splinescatter/internal/engine"
	"github.com/Faultbox/splinescatter/internal/placement"
	"github.com/Faultbox/splinescatter/internal/spline"
	"github.com/Faultbox/splinescatter/pkg/math"
)

// ErrInvalidDocument is returned when a document fails validation.
var ErrInvalidDocument = errors.New("invalid scene document")

// Document is a persisted scene.
type Document struct {
	Curve     Curve                          `yaml:"curve" toml:"curve"`
	Assets    []Asset                        `yaml:"assets" toml:"assets"`
	Instances []placement.InstanceProfile    `yaml:"instances,omitempty" toml:"instances,omitempty"`
	Segments  []placement.SegmentProfile     `yaml:"segments,omitempty" toml:"segments,omitempty"`
	Strands   []placement.LightStrandProfile `yaml:"strands,omitempty" toml:"strands,omitempty"`
}

// Curve is the persisted form of a spline.
type Curve struct {
	Points     []spline.Point `yaml:"points" toml:"points"`
	Closed     bool           `yaml:"closed" toml:"closed"`
	Up         math.Vec3      `yaml:"up,omitempty" toml:"up,omitempty"`
	Resolution int            `yaml:"resolution,omitempty" toml:"resolution,omitempty"`
}

// Asset is a named bounding box.
type Asset struct {
	Name placement.AssetHandle `yaml:"name" toml:"name"`
	Min  math.Vec3             `yaml:"min" toml:"min"`
	Max  math.Vec3             `yaml:"max" toml:"max"`
}

// Spline builds the document's curve.
func (d *Document) Spline() *spline.Spline {
	return spline.New(d.Curve.Points,
		spline.Closed(d.Curve.Closed),
		spline.Up(d.Curve.Up),
		spline.Resolution(d.Curve.Resolution))
}

// Catalog builds the asset catalog.
func (d *Document) Catalog() (*assets.Catalog, error) {
	c := assets.NewCatalog()
	for _, a := range d.Assets {
		if err := c.Add(a.Name, assets.Bounds{Min: a.Min, Max: a.Max}); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	}
	return c, nil
}

// Profiles returns the profile lists.
func (d *Document) Profiles() engine.Profiles {
	return engine.Profiles{
		Instances: d.Instances,
		Segments:  d.Segments,
		Strands:   d.Strands,
	}
}

// SetProfiles replaces the document's profile lists.
func (d *Document) SetProfiles(p engine.Profiles) {
	d.Instances, d.Segments, d.Strands = p.Instances, p.Segments, p.Strands
}

// Validate checks asset names and references. Empty asset references are
// allowed and mean "not configured".
func (d *Document) Validate() error {
	var errs []error
	known := make(map[placement.AssetHandle]bool, len(d.Assets))
	for i, a := range d.Assets {
		switch {
		case !a.Name.IsSet():
			errs = append(errs, fmt.Errorf("assets[%d]: empty name", i))
		case known[a.Name]:
			errs = append(errs, fmt.Errorf("assets[%d]: duplicate name %q", i, a.Name))
		case a.Max.X < a.Min.X:
			errs = append(errs, fmt.Errorf("assets[%d] %q: max.x below min.x", i, a.Name))
		}
		known[a.Name] = true
	}

	ref := func(where string, h placement.AssetHandle) {
		if h.IsSet() && !known[h] {
			errs = append(errs, fmt.Errorf("%s: unknown asset %q", where, h))
		}
	}
	for i, p := range d.Instances {
		ref(fmt.Sprintf("instances[%d]", i), p.Mesh.Asset)
	}
	for i, p := range d.Segments {
		ref(fmt.Sprintf("segments[%d]", i), p.Mesh.Asset)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, errors.Join(errs...))
	}
	return nil
}
