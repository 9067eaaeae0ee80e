package engine

import (
	"fmt"

	"github.com/Faultbox/splinescatter/internal/placement"
)

// SetProfiles replaces every profile list and rebuilds all pools.
func (e *Engine) SetProfiles(p Profiles) error {
	return e.replace(AllLists, func(cur *Profiles) { *cur = p })
}

// SetInstanceProfiles replaces the instance profile list.
func (e *Engine) SetInstanceProfiles(list []placement.InstanceProfile) error {
	return e.replace(InstanceList, func(cur *Profiles) { cur.Instances = list })
}

// SetSegmentProfiles replaces the segment profile list.
func (e *Engine) SetSegmentProfiles(list []placement.SegmentProfile) error {
	return e.replace(SegmentList, func(cur *Profiles) { cur.Segments = list })
}

// SetStrandProfiles replaces the light strand profile list.
func (e *Engine) SetStrandProfiles(list []placement.LightStrandProfile) error {
	return e.replace(StrandList, func(cur *Profiles) { cur.Strands = list })
}

// UpdateInstanceProfile applies fn to instance profile i and recomputes it.
// field tells the engine what fn changed.
func (e *Engine) UpdateInstanceProfile(i int, field FieldTag, fn func(*placement.InstanceProfile)) error {
	if i < 0 || i >= len(e.profiles.Instances) {
		return fmt.Errorf("instances[%d]: %w", i, ErrProfileIndex)
	}
	return e.update(ProfileFieldChanged{List: InstanceList, Index: i, Field: field}, func(cur *Profiles) {
		fn(&cur.Instances[i])
	})
}

// UpdateSegmentProfile applies fn to segment profile i and recomputes it.
func (e *Engine) UpdateSegmentProfile(i int, field FieldTag, fn func(*placement.SegmentProfile)) error {
	if i < 0 || i >= len(e.profiles.Segments) {
		return fmt.Errorf("segments[%d]: %w", i, ErrProfileIndex)
	}
	return e.update(ProfileFieldChanged{List: SegmentList, Index: i, Field: field}, func(cur *Profiles) {
		fn(&cur.Segments[i])
	})
}

// UpdateStrandProfile applies fn to strand profile i and recomputes it.
func (e *Engine) UpdateStrandProfile(i int, field FieldTag, fn func(*placement.LightStrandProfile)) error {
	if i < 0 || i >= len(e.profiles.Strands) {
		return fmt.Errorf("strands[%d]: %w", i, ErrProfileIndex)
	}
	return e.update(ProfileFieldChanged{List: StrandList, Index: i, Field: field}, func(cur *Profiles) {
		fn(&cur.Strands[i])
	})
}

// Undo restores the profiles as they were before the last edit.
func (e *Engine) Undo() error {
	return e.swap(&e.history.undo, &e.history.redo, ErrNothingToUndo)
}

// Redo reapplies the last undone edit.
func (e *Engine) Redo() error {
	return e.swap(&e.history.redo, &e.history.undo, ErrNothingToRedo)
}

// CanUndo reports whether Undo has a snapshot to restore.
func (e *Engine) CanUndo() bool { return len(e.history.undo) > 0 }

// CanRedo reports whether Redo has a snapshot to restore.
func (e *Engine) CanRedo() bool { return len(e.history.redo) > 0 }

func (e *Engine) replace(list ListKind, apply func(*Profiles)) error {
	if err := e.edit(apply); err != nil {
		return err
	}
	return e.Notify(ProfileListReplaced{List: list})
}

func (e *Engine) update(n ProfileFieldChanged, apply func(*Profiles)) error {
	if err := e.edit(apply); err != nil {
		return err
	}
	return e.Notify(n)
}

// edit snapshots the current profiles onto the undo stack and applies the
// change to a private copy.
func (e *Engine) edit(apply func(*Profiles)) error {
	if e.state == StateRecomputing {
		return ErrReentrant
	}
	prev, err := cloneProfiles(e.profiles)
	if err != nil {
		return err
	}
	apply(&e.profiles)
	next, err := cloneProfiles(e.profiles)
	if err != nil {
		e.profiles = prev
		return err
	}
	e.profiles = next
	e.history.push(prev)
	return nil
}

func (e *Engine) swap(from, to *[]Profiles, empty error) error {
	if e.state == StateRecomputing {
		return ErrReentrant
	}
	snap, ok := pop(from)
	if !ok {
		return empty
	}
	cur, err := cloneProfiles(e.profiles)
	if err != nil {
		*from = append(*from, snap)
		return err
	}
	*to = append(*to, cur)
	e.profiles = snap
	return e.Notify(Undone{})
}
