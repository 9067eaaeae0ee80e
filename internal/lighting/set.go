package lighting

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/splinescatter/internal/logger"
	"github.com/Faultbox/splinescatter/internal/placement"
	"github.com/Faultbox/splinescatter/internal/pool"
)

// Host creates, updates and destroys light objects. A light's kind is fixed
// at creation.
type Host interface {
	CreateLight(kind placement.LightKind) (pool.ObjectID, error)
	UpdateLight(id pool.ObjectID, light Light) error
	DestroyLight(id pool.ObjectID) error
}

// Set is the dependent light pool of one profile.
// The zero value is an empty set.
type Set struct {
	pool   pool.Pool[pool.ObjectID]
	kind   placement.LightKind
	lights []Light
}

// Len returns the number of live lights.
func (s *Set) Len() int {
	return s.pool.Len()
}

// IDs returns the host handles in index order.
func (s *Set) IDs() []pool.ObjectID {
	return s.pool.Items()
}

// Lights returns the lights stamped by the last Apply.
func (s *Set) Lights() []Light {
	out := make([]Light, len(s.lights))
	copy(out, s.lights)
	return out
}

// Apply reconciles the set to one light per instance and stamps each light.
//
// A deactivated profile empties the set. A pending kind change, or a kind
// that differs from the one the live lights were built with, destroys every
// light first so the whole set is recreated with the new kind.
// profile.PendingKindChange is cleared once consumed.
func (s *Set) Apply(host Host, profile *placement.LightProfile, instances []placement.Instance) error {
	if !profile.Activated {
		profile.PendingKindChange = false
		return s.Clear(host)
	}

	if profile.PendingKindChange || (s.pool.Len() > 0 && s.kind != profile.Kind) {
		logger.Debug("light kind changed, rebuilding set",
			zap.Stringer("from", s.kind),
			zap.Stringer("to", profile.Kind),
			zap.Int("lights", s.pool.Len()))
		if err := s.Clear(host); err != nil {
			return err
		}
		profile.PendingKindChange = false
	}
	s.kind = profile.Kind

	if err := s.pool.Reconcile(len(instances), s.factory(host, profile.Kind)); err != nil {
		return fmt.Errorf("reconciling lights: %w", err)
	}

	s.lights = s.lights[:0]
	for i, inst := range instances {
		l := Stamp(profile, inst.Transform)
		if err := host.UpdateLight(s.pool.At(i), l); err != nil {
			return fmt.Errorf("updating light %d: %w", i, err)
		}
		s.lights = append(s.lights, l)
	}
	return nil
}

// Clear destroys every light in the set.
func (s *Set) Clear(host Host) error {
	s.lights = s.lights[:0]
	if err := s.pool.Clear(s.factory(host, s.kind)); err != nil {
		return fmt.Errorf("clearing lights: %w", err)
	}
	return nil
}

func (s *Set) factory(host Host, kind placement.LightKind) pool.Factory[pool.ObjectID] {
	return pool.Funcs[pool.ObjectID]{
		CreateFunc:  func(int) (pool.ObjectID, error) { return host.CreateLight(kind) },
		DestroyFunc: host.DestroyLight,
	}
}
