// Package dragdrop validates drops and computes the reparented node
// collection a drag would produce. It never applies a proposal itself.
package dragdrop

import (
	"errors"

	"github.com/Dicklesworthstone/bonsai/pkg/model"
)

var (
	// ErrNotDraggable is returned by DragStart for unknown or locked nodes.
	ErrNotDraggable = errors.New("node is not draggable")
	// ErrDragActive is returned by DragStart while another drag is in flight.
	ErrDragActive = errors.New("a drag is already active")
	// ErrInvalidDrop is returned by ComputeDrop when the move would break the tree.
	ErrInvalidDrop = errors.New("invalid drop")
)

// Phase is a drag session's lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseDropping
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseDropping:
		return "dropping"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ZoneKind distinguishes a row's body from the gaps around it.
type ZoneKind int

const (
	// ZoneBody is the row itself: drop inside a folder, or after a file.
	ZoneBody ZoneKind = iota
	// ZoneGap is the space before a row, or after a last-of-folder row.
	ZoneGap
)

// DropZone is a hoverable region tied to a visible-sequence index.
type DropZone struct {
	Index int
	Kind  ZoneKind
	After bool // Gap zones only
}

// Target is a resolved drop zone.
type Target struct {
	Node         model.TreeNode
	Index        int
	IsFolderZone bool // Drop inside Node
	InsertAfter  bool
}

// DataTransfer is what a drag carries. Token is fresh per drag start so a
// controller can tell its own drag from a foreign one.
type DataTransfer struct {
	Token string
	Data  string
}

// ExternalDrop is handed to the host for drops that did not start in this tree.
type ExternalDrop struct {
	Payload      string
	RelativeNode *model.TreeNode
	InsertAfter  bool
	IsFolderZone bool
}

// Session is the state of one drag gesture. It exists from DragStart until
// the drop or drag end that finishes the gesture.
type Session struct {
	Token      string
	DraggedID  string
	DraggedIDs []string // Selection order, descendants folded into dragged ancestors
	Zone       *DropZone
	Target     Target
	CanDrop    bool
}

// Predicate is a host override for drop validity. source is nil for a
// foreign drag. Returning ok=false keeps the default result.
type Predicate func(source *model.TreeNode, target model.TreeNode) (allowed, ok bool)

// SelectionReader exposes the multi-selection a drag reads.
type SelectionReader interface {
	SecondaryIDs() []string
}
