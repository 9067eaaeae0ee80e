package engine

import "fmt"

// Notification is a typed change event routed to a recompute entry point.
type Notification interface {
	isNotification()
}

// ListKind names one of the engine's profile lists.
type ListKind uint8

const (
	InstanceList ListKind = iota
	SegmentList
	StrandList
	// AllLists addresses every list at once.
	AllLists
)

func (k ListKind) String() string {
	switch k {
	case InstanceList:
		return "instances"
	case SegmentList:
		return "segments"
	case StrandList:
		return "strands"
	case AllLists:
		return "all"
	}
	return fmt.Sprintf("ListKind(%d)", k)
}

func (k ListKind) covers(other ListKind) bool {
	return k == AllLists || k == other
}

// FieldTag identifies which part of a profile an edit touched.
type FieldTag uint8

const (
	FieldMesh FieldTag = iota
	FieldPlacement
	FieldSpacing
	FieldRange
	FieldLight
	// FieldLightKind marks a change of the light kind. The profile's lights
	// are destroyed and recreated on the next recompute.
	FieldLightKind
)

func (f FieldTag) String() string {
	switch f {
	case FieldMesh:
		return "mesh"
	case FieldPlacement:
		return "placement"
	case FieldSpacing:
		return "spacing"
	case FieldRange:
		return "range"
	case FieldLight:
		return "light"
	case FieldLightKind:
		return "light-kind"
	}
	return fmt.Sprintf("FieldTag(%d)", f)
}

// CurveChanged reports that the curve geometry moved. Pools are reused.
type CurveChanged struct{}

// ProfileListReplaced reports a structural change to a profile list.
// The affected pools are destroyed and rebuilt from empty.
type ProfileListReplaced struct {
	List ListKind
}

// ProfileFieldChanged reports an edit to a single profile. Only that
// profile is recomputed and its pools are reused.
type ProfileFieldChanged struct {
	List  ListKind
	Index int
	Field FieldTag
}

// Undone reports that profiles were restored by undo or redo.
type Undone struct{}

// Imported reports that curve and profiles were re-imported from
// persisted data. Every pool is rebuilt from empty.
type Imported struct{}

func (CurveChanged) isNotification()        {}
func (ProfileListReplaced) isNotification() {}
func (ProfileFieldChanged) isNotification() {}
func (Undone) isNotification()              {}
func (Imported) isNotification()            {}

func describe(n Notification) string {
	switch n := n.(type) {
	case CurveChanged:
		return "curve-changed"
	case ProfileListReplaced:
		return "list-replaced:" + n.List.String()
	case ProfileFieldChanged:
		return fmt.Sprintf("field-changed:%s[%d].%s", n.List, n.Index, n.Field)
	case Undone:
		return "undone"
	case Imported:
		return "imported"
	}
	return fmt.Sprintf("%T", n)
}
