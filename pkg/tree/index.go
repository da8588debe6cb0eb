// Package tree turns a flat, parent-referenced node collection into an
// immutable index and flattens it into the ordered sequence of rows a tree
// view displays.
package tree

import (
	"fmt"
	"sort"

	"github.com/Dicklesworthstone/bonsai/pkg/model"
)

// Index is a read-only snapshot of a node collection. It is rebuilt, never
// patched, whenever the collection, the root id or the folder ordering
// changes.
type Index struct {
	rootID      string
	folderOnTop bool

	nodes    []model.TreeNode // Input order
	byID     map[string]int   // id -> position in nodes
	children map[string][]int // parent id -> ordered positions in nodes
	depth    map[string]int   // rootID = 0
	folders  []string         // Folder ids in input order
}

// Build indexes nodes under rootID. With folderOnTop, each parent's children
// are stable-sorted folders first; otherwise they keep input order.
//
// Build fails with an *IntegrityError on duplicate ids, parents that resolve
// to neither a node nor rootID, and parent chains that do not reach rootID
// within len(nodes) steps.
func Build(nodes []model.TreeNode, rootID string, folderOnTop bool) (*Index, error) {
	if rootID == "" {
		return nil, fmt.Errorf("build index: root id cannot be empty")
	}

	ix := &Index{
		rootID:      rootID,
		folderOnTop: folderOnTop,
		nodes:       model.CloneNodes(nodes),
		byID:        make(map[string]int, len(nodes)),
		children:    make(map[string][]int),
		depth:       make(map[string]int, len(nodes)+1),
	}

	// Pass 1: identity
	for i := range ix.nodes {
		n := &ix.nodes[i]
		if err := n.Validate(); err != nil {
			return nil, &IntegrityError{Kind: InvalidNode, NodeID: n.ID, Ref: fmt.Sprintf("position %d", i), Cause: err}
		}
		if _, dup := ix.byID[n.ID]; dup {
			return nil, &IntegrityError{Kind: DuplicateID, NodeID: n.ID, Ref: n.ID}
		}
		ix.byID[n.ID] = i
		if n.IsFolder {
			ix.folders = append(ix.folders, n.ID)
		}
	}

	// Pass 2: parent links
	for i := range ix.nodes {
		n := &ix.nodes[i]
		if n.ID == rootID {
			if n.ParentID != rootID {
				return nil, &IntegrityError{Kind: RootNotSelf, NodeID: n.ID, Ref: n.ParentID}
			}
			continue
		}
		if n.ParentID == n.ID {
			return nil, &IntegrityError{Kind: ParentCycle, NodeID: n.ID, Ref: n.ID}
		}
		if _, ok := ix.byID[n.ParentID]; !ok && n.ParentID != rootID {
			return nil, &IntegrityError{Kind: DanglingParent, NodeID: n.ID, Ref: n.ParentID}
		}
		ix.children[n.ParentID] = append(ix.children[n.ParentID], i)
	}

	if folderOnTop {
		for parent, kids := range ix.children {
			sort.SliceStable(kids, func(a, b int) bool {
				return ix.nodes[kids[a]].IsFolder && !ix.nodes[kids[b]].IsFolder
			})
			ix.children[parent] = kids
		}
	}

	if err := ix.computeDepths(); err != nil {
		return nil, err
	}
	return ix, nil
}

// computeDepths walks each node's parent chain up to the first node with a
// known depth, then assigns depths back down the walked path. Every node is
// assigned once, so the whole pass is linear in the node count.
func (ix *Index) computeDepths() error {
	ix.depth[ix.rootID] = 0
	limit := len(ix.nodes)
	path := make([]string, 0, 16)

	for _, n := range ix.nodes {
		if _, done := ix.depth[n.ID]; done {
			continue
		}

		path = path[:0]
		cur := n.ID
		base := 0
		for {
			if d, ok := ix.depth[cur]; ok {
				base = d
				break
			}
			if len(path) > limit {
				return &IntegrityError{Kind: ParentCycle, NodeID: n.ID, Ref: cur}
			}
			path = append(path, cur)
			pos, ok := ix.byID[cur]
			if !ok {
				return &IntegrityError{Kind: DanglingParent, NodeID: n.ID, Ref: cur}
			}
			cur = ix.nodes[pos].ParentID
		}

		for i := len(path) - 1; i >= 0; i-- {
			base++
			ix.depth[path[i]] = base
		}
	}
	return nil
}

// RootID returns the id the index was built under.
func (ix *Index) RootID() string {
	return ix.rootID
}

// FolderOnTop reports whether children are ordered folders first.
func (ix *Index) FolderOnTop() bool {
	return ix.folderOnTop
}

// Len returns the number of nodes in the collection.
func (ix *Index) Len() int {
	return len(ix.nodes)
}

// Nodes returns a copy of the collection in input order.
func (ix *Index) Nodes() []model.TreeNode {
	return model.CloneNodes(ix.nodes)
}

// Has reports whether id names a node in the collection.
func (ix *Index) Has(id string) bool {
	_, ok := ix.byID[id]
	return ok
}

// Node returns the node with the given id.
func (ix *Index) Node(id string) (model.TreeNode, bool) {
	pos, ok := ix.byID[id]
	if !ok {
		return model.TreeNode{}, false
	}
	return ix.nodes[pos], true
}

// IsFolder reports whether id names a known folder.
func (ix *Index) IsFolder(id string) bool {
	n, ok := ix.Node(id)
	return ok && n.IsFolder
}

// Children returns the ordered children of parentID.
func (ix *Index) Children(parentID string) []model.TreeNode {
	kids := ix.children[parentID]
	out := make([]model.TreeNode, len(kids))
	for i, pos := range kids {
		out[i] = ix.nodes[pos]
	}
	return out
}

// ChildCount returns the number of direct children of parentID.
func (ix *Index) ChildCount(parentID string) int {
	return len(ix.children[parentID])
}

// FirstChild returns the first child of parentID in index order.
func (ix *Index) FirstChild(parentID string) (model.TreeNode, bool) {
	kids := ix.children[parentID]
	if len(kids) == 0 {
		return model.TreeNode{}, false
	}
	return ix.nodes[kids[0]], true
}

// Depth returns the depth of id; the root id is 0.
func (ix *Index) Depth(id string) (int, bool) {
	d, ok := ix.depth[id]
	return d, ok
}

// FolderIDs returns every folder id in input order.
func (ix *Index) FolderIDs() []string {
	out := make([]string, len(ix.folders))
	copy(out, ix.folders)
	return out
}

// Ancestors returns the chain from id's parent up to and including the root
// id. Unknown ids and the root itself have no ancestors.
func (ix *Index) Ancestors(id string) []string {
	if id == ix.rootID {
		return nil
	}
	pos, ok := ix.byID[id]
	if !ok {
		return nil
	}

	var chain []string
	cur := ix.nodes[pos].ParentID
	for {
		chain = append(chain, cur)
		if cur == ix.rootID {
			return chain
		}
		p, ok := ix.byID[cur]
		if !ok {
			return chain
		}
		cur = ix.nodes[p].ParentID
	}
}

// IsWithin reports whether id lies in the subtree rooted at ancestorID,
// including id == ancestorID. It walks id's parent chain up to the root.
func (ix *Index) IsWithin(id, ancestorID string) bool {
	if id == ancestorID {
		return true
	}
	for _, a := range ix.Ancestors(id) {
		if a == ancestorID {
			return true
		}
	}
	return false
}
