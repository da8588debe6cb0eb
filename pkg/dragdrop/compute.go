package dragdrop

import (
	"fmt"
	"slices"

	"github.com/Dicklesworthstone/bonsai/pkg/model"
	"github.com/Dicklesworthstone/bonsai/pkg/tree"
)

// FoldDescendants drops unknown and duplicate ids, and ids whose ancestor
// is also in ids, keeping the order of the rest.
func FoldDescendants(ix *tree.Index, ids []string) []string {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if !ix.Has(id) {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		folded := false
		for _, a := range ix.Ancestors(id) {
			if _, ok := set[a]; ok {
				folded = true
				break
			}
		}
		if folded {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ComputeDrop returns the collection after moving draggedIDs to target.
// Dragged nodes are removed, reparented to target (folder zone) or to
// target's parent, and reinserted as one block in the given order: before
// or after target among its siblings, or at the start or end of target's
// children for a folder zone. Descendants of other dragged nodes keep their
// parents. ix is not modified.
func ComputeDrop(ix *tree.Index, draggedIDs []string, target model.TreeNode, isFolderZone, insertAfter bool) ([]model.TreeNode, error) {
	ids := FoldDescendants(ix, draggedIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: nothing to move", ErrInvalidDrop)
	}
	resolved, ok := ix.Node(target.ID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown target %q", ErrInvalidDrop, target.ID)
	}
	target = resolved
	if isFolderZone && !target.IsFolder {
		return nil, fmt.Errorf("%w: %q is not a folder", ErrInvalidDrop, target.ID)
	}

	parent := target.ParentID
	if isFolderZone {
		parent = target.ID
	}
	if target.IsRoot() && !isFolderZone {
		return nil, fmt.Errorf("%w: cannot drop beside the root", ErrInvalidDrop)
	}
	for _, id := range ids {
		if ix.IsWithin(parent, id) {
			return nil, fmt.Errorf("%w: %q would become its own descendant", ErrInvalidDrop, id)
		}
		if id == target.ID {
			return nil, fmt.Errorf("%w: %q dropped onto itself", ErrInvalidDrop, id)
		}
	}

	moved := make([]model.TreeNode, 0, len(ids))
	for _, id := range ids {
		n, _ := ix.Node(id)
		n = n.Clone()
		n.ParentID = parent
		moved = append(moved, n)
	}

	rest := slices.DeleteFunc(ix.Nodes(), func(n model.TreeNode) bool {
		return slices.Contains(ids, n.ID)
	})

	at := insertionPoint(rest, target, isFolderZone, insertAfter)
	return slices.Insert(rest, at, moved...), nil
}

// insertionPoint finds where in the flat collection the block goes. Sibling
// order in the index is collection order, so placing the block next to the
// right sibling places it there among the siblings too.
func insertionPoint(rest []model.TreeNode, target model.TreeNode, isFolderZone, insertAfter bool) int {
	targetPos := slices.IndexFunc(rest, func(n model.TreeNode) bool { return n.ID == target.ID })

	if !isFolderZone {
		if insertAfter {
			return targetPos + 1
		}
		return targetPos
	}

	first, last := -1, -1
	for i, n := range rest {
		if n.ParentID == target.ID && n.ID != target.ID {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	switch {
	case first < 0:
		return targetPos + 1
	case insertAfter:
		return last + 1
	default:
		return first
	}
}
