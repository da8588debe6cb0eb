package tree

import (
	"errors"
	"fmt"
)

// ErrIntegrity is the sentinel every *IntegrityError unwraps to.
var ErrIntegrity = errors.New("tree: structural integrity violation")

// IntegrityKind classifies a structural failure found while building an index.
type IntegrityKind int

const (
	InvalidNode    IntegrityKind = iota // node failed its own Validate
	DuplicateID                         // two nodes share an id
	DanglingParent                      // parent is neither a known node nor the root id
	ParentCycle                         // parent chain never reaches the root id
	RootNotSelf                         // root node present but not its own parent
)

func (k IntegrityKind) String() string {
	switch k {
	case InvalidNode:
		return "invalid node"
	case DuplicateID:
		return "duplicate id"
	case DanglingParent:
		return "dangling parent"
	case ParentCycle:
		return "parent cycle"
	case RootNotSelf:
		return "root not self-parented"
	default:
		return fmt.Sprintf("IntegrityKind(%d)", int(k))
	}
}

// IntegrityError reports why a node collection cannot be indexed.
type IntegrityError struct {
	Kind   IntegrityKind
	NodeID string // node whose chain or identity failed
	Ref    string // offending reference (parent id, repeated id), if any
	Cause  error  // underlying validation error for InvalidNode
}

func (e *IntegrityError) Error() string {
	switch e.Kind {
	case InvalidNode:
		return fmt.Sprintf("tree: invalid node at %s: %v", e.Ref, e.Cause)
	case DuplicateID:
		return fmt.Sprintf("tree: duplicate id %q", e.NodeID)
	case DanglingParent:
		return fmt.Sprintf("tree: node %q references unknown parent %q", e.NodeID, e.Ref)
	case ParentCycle:
		return fmt.Sprintf("tree: parent chain of %q does not reach the root (cycle through %q)", e.NodeID, e.Ref)
	case RootNotSelf:
		return fmt.Sprintf("tree: root node %q has parent %q, want itself", e.NodeID, e.Ref)
	default:
		return fmt.Sprintf("tree: %s at %q", e.Kind, e.NodeID)
	}
}

func (e *IntegrityError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrIntegrity, e.Cause}
	}
	return []error{ErrIntegrity}
}
