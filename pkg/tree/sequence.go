package tree

import "github.com/Dicklesworthstone/bonsai/pkg/model"

// Row is one entry of a visible sequence together with everything a
// renderer needs to draw it.
type Row struct {
	Node         model.TreeNode
	Depth        int
	ChildCount   int  // Direct children; zero for files
	Opened       bool // Folder is in the open set
	LastOfFolder bool // Last child of its parent; offers a gap-after drop zone
	Sentinel     bool // Synthetic trailing row
}

// Sequence is the ordered list of rows visible for one open-set snapshot,
// always terminated by a sentinel row. It is immutable once built.
type Sequence struct {
	rows []Row
	pos  map[string]int
}

type flattenFrame struct {
	kids []int
	next int
}

// Flatten expands rootID's children in index order and, for every open
// folder reached, splices its children directly after it. The result is a
// pre-order walk of exactly the opened subtrees followed by the sentinel.
// Work is proportional to the number of visible rows, not the tree size.
func Flatten(ix *Index, rootID string, open OpenSet) *Sequence {
	seq := &Sequence{pos: make(map[string]int)}

	stack := []flattenFrame{{kids: ix.children[rootID]}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.kids) {
			stack = stack[:len(stack)-1]
			continue
		}
		n := ix.nodes[top.kids[top.next]]
		top.next++
		last := top.next == len(top.kids)

		opened := n.IsFolder && open.Has(n.ID)
		row := Row{
			Node:         n,
			Depth:        ix.depth[n.ID],
			Opened:       opened,
			LastOfFolder: last,
		}
		if n.IsFolder {
			row.ChildCount = len(ix.children[n.ID])
		}
		seq.pos[n.ID] = len(seq.rows)
		seq.rows = append(seq.rows, row)

		if opened && len(ix.children[n.ID]) > 0 {
			stack = append(stack, flattenFrame{kids: ix.children[n.ID]})
		}
	}

	seq.rows = append(seq.rows, Row{Node: model.Sentinel(), Sentinel: true})
	return seq
}

// Len returns the number of rows including the sentinel.
func (s *Sequence) Len() int {
	return len(s.rows)
}

// Row returns the row at index i.
func (s *Sequence) Row(i int) (Row, bool) {
	if i < 0 || i >= len(s.rows) {
		return Row{}, false
	}
	return s.rows[i], true
}

// Rows returns a copy of all rows including the sentinel.
func (s *Sequence) Rows() []Row {
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// IndexOf returns the visible index of id.
func (s *Sequence) IndexOf(id string) (int, bool) {
	i, ok := s.pos[id]
	return i, ok
}

// SentinelIndex returns the index of the trailing sentinel row.
func (s *Sequence) SentinelIndex() int {
	return len(s.rows) - 1
}

// IDs returns the ids of visible nodes, sentinel excluded.
func (s *Sequence) IDs() []string {
	ids := make([]string, 0, len(s.rows))
	for _, r := range s.rows {
		if !r.Sentinel {
			ids = append(ids, r.Node.ID)
		}
	}
	return ids
}
