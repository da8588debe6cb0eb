package model

import (
	"fmt"
)

// TreeNode is one entry of the flat, parent-referenced node collection a
// tree view is built from. The root node is its own parent.
//
// Field names on the wire follow the original tree item format so existing
// collections load unchanged:
//
//	{"id": "src", "parent": "root", "text": "src", "isFolder": true, "canDrag": true, "data": {...}}
type TreeNode struct {
	ID        string `json:"id" yaml:"id"`
	ParentID  string `json:"parent" yaml:"parent"`
	Label     string `json:"text" yaml:"text"`
	IsFolder  bool   `json:"isFolder" yaml:"isFolder"`
	Draggable bool   `json:"canDrag" yaml:"canDrag"`
	Payload   any    `json:"data,omitempty" yaml:"data,omitempty"` // Opaque, passed through unchanged
}

// Clone returns a copy of the node. Payload is shared, not copied: it is
// opaque to the tree and must reach callbacks unchanged.
func (n TreeNode) Clone() TreeNode {
	return n
}

// IsRoot reports whether the node is the self-parented root node.
func (n TreeNode) IsRoot() bool {
	return n.ID != "" && n.ID == n.ParentID
}

// Validate checks the node in isolation. Collection-level rules (unique ids,
// resolvable parents, acyclic chains) are enforced when an index is built.
func (n *TreeNode) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("node ID cannot be empty")
	}
	if n.ParentID == "" {
		return fmt.Errorf("node %q: parent cannot be empty", n.ID)
	}
	return nil
}

// CloneNodes copies a collection so callers can hand out a slice without
// exposing the backing array of an index snapshot.
func CloneNodes(nodes []TreeNode) []TreeNode {
	if nodes == nil {
		return nil
	}
	out := make([]TreeNode, len(nodes))
	copy(out, nodes)
	return out
}

// IDs returns the ids of nodes in order.
func IDs(nodes []TreeNode) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// Find returns the node with the given id.
func Find(nodes []TreeNode, id string) (TreeNode, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n, true
		}
	}
	return TreeNode{}, false
}

// Sentinel returns the synthetic trailing row appended to every visible
// sequence: not a folder, not draggable, empty label.
func Sentinel() TreeNode {
	return TreeNode{}
}
