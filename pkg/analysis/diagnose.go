// Package analysis diagnoses node collections that fail to build, and
// summarises the shape of those that do.
package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Dicklesworthstone/bonsai/pkg/model"
	"github.com/Dicklesworthstone/bonsai/pkg/tree"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Problem is one structural defect.
type Problem struct {
	Kind   tree.IntegrityKind `json:"kind"`
	NodeID string             `json:"node_id"`
	Ref    string             `json:"ref,omitempty"` // Offending parent or duplicate id
}

func (p Problem) String() string {
	if p.Ref == "" {
		return fmt.Sprintf("%s: %q", p.Kind, p.NodeID)
	}
	return fmt.Sprintf("%s: %q -> %q", p.Kind, p.NodeID, p.Ref)
}

// CycleBreak suggests reparenting one cycle member to the root.
type CycleBreak struct {
	NodeID     string `json:"node_id"`
	Parent     string `json:"parent"`     // Current parent, inside the cycle
	Collateral int    `json:"collateral"` // Children that follow the node out
	Cycle      int    `json:"cycle"`      // Index into Report.Cycles
}

// Stats describes a collection that builds. The root node is not counted.
type Stats struct {
	Nodes        int    `json:"nodes"`
	Folders      int    `json:"folders"`
	Files        int    `json:"files"`
	Draggable    int    `json:"draggable"`
	MaxDepth     int    `json:"max_depth"`
	MaxFanOut    int    `json:"max_fan_out"`
	FanOutParent string `json:"fan_out_parent,omitempty"`
}

// Report is the result of Diagnose.
type Report struct {
	RootID   string       `json:"root_id"`
	Problems []Problem    `json:"problems,omitempty"`
	Cycles   [][]string   `json:"cycles,omitempty"`
	Breaks   []CycleBreak `json:"breaks,omitempty"`
	Stats    *Stats       `json:"stats,omitempty"` // Nil unless the collection builds
	BuildErr error        `json:"-"`
}

// Healthy reports whether the collection builds.
func (r *Report) Healthy() bool {
	return r.BuildErr == nil
}

// Diagnose checks every node rather than stopping at the first failure the
// way tree.Build does. Cycles are found with gonum on the child->parent
// graph, so every cycle is listed with its members in chain order.
func Diagnose(nodes []model.TreeNode, rootID string, folderOnTop bool) *Report {
	r := &Report{RootID: rootID}

	ids := make(map[string]int64, len(nodes))
	byID := make(map[string]model.TreeNode, len(nodes))
	var valid []model.TreeNode
	for _, n := range nodes {
		if err := n.Validate(); err != nil {
			r.Problems = append(r.Problems, Problem{Kind: tree.InvalidNode, NodeID: n.ID})
			continue
		}
		if _, dup := ids[n.ID]; dup {
			r.Problems = append(r.Problems, Problem{Kind: tree.DuplicateID, NodeID: n.ID, Ref: n.ID})
			continue
		}
		ids[n.ID] = int64(len(ids))
		byID[n.ID] = n
		valid = append(valid, n)
	}

	g := simple.NewDirectedGraph()
	for _, id := range ids {
		g.AddNode(simple.Node(id))
	}
	names := make(map[int64]string, len(ids))
	for name, id := range ids {
		names[id] = name
	}

	for _, n := range valid {
		switch {
		case n.ID == rootID:
			if n.ParentID != rootID {
				r.Problems = append(r.Problems, Problem{Kind: tree.RootNotSelf, NodeID: n.ID, Ref: n.ParentID})
			}
		case n.ParentID == n.ID:
			// simple.DirectedGraph rejects self edges.
			r.Cycles = append(r.Cycles, []string{n.ID})
		case n.ParentID == rootID:
		default:
			pid, ok := ids[n.ParentID]
			if !ok {
				r.Problems = append(r.Problems, Problem{Kind: tree.DanglingParent, NodeID: n.ID, Ref: n.ParentID})
				continue
			}
			g.SetEdge(g.NewEdge(simple.Node(ids[n.ID]), simple.Node(pid)))
		}
	}

	for _, c := range topo.DirectedCyclesIn(g) {
		// gonum closes each cycle by repeating its first node.
		members := make([]string, 0, len(c)-1)
		for _, node := range c[:len(c)-1] {
			members = append(members, names[node.ID()])
		}
		r.Cycles = append(r.Cycles, members)
	}
	sort.Slice(r.Cycles, func(i, j int) bool { return minID(r.Cycles[i]) < minID(r.Cycles[j]) })
	for i, c := range r.Cycles {
		r.Problems = append(r.Problems, Problem{Kind: tree.ParentCycle, NodeID: minID(c), Ref: byID[minID(c)].ParentID})
		r.Breaks = append(r.Breaks, suggestBreak(g, ids, byID, c, i))
	}

	ix, err := tree.Build(nodes, rootID, folderOnTop)
	r.BuildErr = err
	if err == nil {
		r.Stats = collectStats(ix)
	}
	return r
}

func minID(ids []string) string {
	m := ids[0]
	for _, id := range ids[1:] {
		if id < m {
			m = id
		}
	}
	return m
}

// suggestBreak picks the cycle member with the most children, ties broken
// by id, so reparenting it to the root rescues the largest subtree.
func suggestBreak(g graph.Directed, ids map[string]int64, byID map[string]model.TreeNode, cycle []string, index int) CycleBreak {
	best := CycleBreak{Cycle: index, Collateral: -1}
	for _, id := range cycle {
		n := graph.NodesOf(g.To(ids[id]))
		if len(n) > best.Collateral || (len(n) == best.Collateral && id < best.NodeID) {
			best.NodeID = id
			best.Parent = byID[id].ParentID
			best.Collateral = len(n)
		}
	}
	return best
}

func collectStats(ix *tree.Index) *Stats {
	s := &Stats{}
	for _, n := range ix.Nodes() {
		if n.ID == ix.RootID() {
			continue
		}
		s.Nodes++
		if n.IsFolder {
			s.Folders++
		} else {
			s.Files++
		}
		if n.Draggable {
			s.Draggable++
		}
		if d, _ := ix.Depth(n.ID); d > s.MaxDepth {
			s.MaxDepth = d
		}
	}
	parents := append([]string{ix.RootID()}, ix.FolderIDs()...)
	for _, p := range parents {
		if c := ix.ChildCount(p); c > s.MaxFanOut || (c == s.MaxFanOut && c > 0 && p < s.FanOutParent) {
			s.MaxFanOut = c
			s.FanOutParent = p
		}
	}
	return s
}

// Summary renders the report as plain lines for terminal output.
func (r *Report) Summary() string {
	var b strings.Builder
	if r.Healthy() {
		fmt.Fprintf(&b, "ok: %d nodes (%d folders, %d files, %d draggable)\n",
			r.Stats.Nodes, r.Stats.Folders, r.Stats.Files, r.Stats.Draggable)
		fmt.Fprintf(&b, "max depth %d, widest folder %q with %d children\n",
			r.Stats.MaxDepth, r.Stats.FanOutParent, r.Stats.MaxFanOut)
		return b.String()
	}

	fmt.Fprintf(&b, "invalid: %v\n", r.BuildErr)
	for _, p := range r.Problems {
		fmt.Fprintf(&b, "  %s\n", p)
	}
	for i, c := range r.Cycles {
		fmt.Fprintf(&b, "  cycle %d: %s\n", i+1, strings.Join(c, " -> "))
	}
	for _, br := range r.Breaks {
		fmt.Fprintf(&b, "  fix cycle %d: move %q (parent %q, %d children) under %q\n",
			br.Cycle+1, br.NodeID, br.Parent, br.Collateral, r.RootID)
	}
	return b.String()
}
