package engine

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// history is a bounded undo/redo stack of profile snapshots.
type history struct {
	undo  []Profiles
	redo  []Profiles
	limit int
}

func (h *history) push(p Profiles) {
	h.undo = append(h.undo, p)
	if h.limit > 0 && len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.redo = h.redo[:0]
}

func (h *history) reset() {
	h.undo = nil
	h.redo = nil
}

func pop(stack *[]Profiles) (Profiles, bool) {
	s := *stack
	if len(s) == 0 {
		return Profiles{}, false
	}
	p := s[len(s)-1]
	*stack = s[:len(s)-1]
	return p, true
}

// cloneProfiles returns a deep copy of p.
func cloneProfiles(p Profiles) (Profiles, error) {
	var out Profiles
	if err := copier.CopyWithOption(&out, &p, copier.Option{DeepCopy: true}); err != nil {
		return Profiles{}, fmt.Errorf("copying profiles: %w", err)
	}
	return out, nil
}
