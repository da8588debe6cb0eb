package analysis

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/bonsai/pkg/model"
	"github.com/Dicklesworthstone/bonsai/pkg/tree"
	"github.com/Dicklesworthstone/bonsai/pkg/tree/treetest"
	"pgregory.net/rapid"
)

func kinds(r *Report) []tree.IntegrityKind {
	var out []tree.IntegrityKind
	for _, p := range r.Problems {
		out = append(out, p.Kind)
	}
	return out
}

func TestDiagnoseHealthy(t *testing.T) {
	r := Diagnose(treetest.Project(), treetest.RootID, true)
	if !r.Healthy() || len(r.Problems) != 0 {
		t.Fatalf("report = %+v", r)
	}
	want := Stats{Nodes: 11, Folders: 4, Files: 7, Draggable: 11, MaxDepth: 3, MaxFanOut: 4, FanOutParent: "src"}
	if *r.Stats != want {
		t.Errorf("stats = %+v, want %+v", *r.Stats, want)
	}
	if !strings.HasPrefix(r.Summary(), "ok: 11 nodes") {
		t.Errorf("summary = %q", r.Summary())
	}
}

func TestDiagnoseCollectsEveryProblem(t *testing.T) {
	nodes := []model.TreeNode{
		treetest.Folder("root", "root"),
		treetest.File("a", "root"),
		treetest.File("a", "root"),
		treetest.File("lost", "nowhere"),
		{ID: "", ParentID: "root"},
	}
	r := Diagnose(nodes, "root", false)
	if r.Healthy() {
		t.Fatal("expected failure")
	}
	got := kinds(r)
	want := []tree.IntegrityKind{tree.DuplicateID, tree.InvalidNode, tree.DanglingParent}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("kinds = %v, want %v", got, want)
	}
	if !errors.Is(r.BuildErr, tree.ErrIntegrity) {
		t.Errorf("BuildErr = %v", r.BuildErr)
	}
}

func TestDiagnoseCycles(t *testing.T) {
	nodes := []model.TreeNode{
		treetest.Folder("root", "root"),
		treetest.Folder("x", "z"),
		treetest.Folder("y", "x"),
		treetest.Folder("z", "y"),
		treetest.File("leaf", "y"),
		treetest.Folder("self", "self"),
		treetest.File("ok", "root"),
	}
	r := Diagnose(nodes, "root", false)

	if len(r.Cycles) != 2 {
		t.Fatalf("cycles = %v", r.Cycles)
	}
	if !reflect.DeepEqual(r.Cycles[0], []string{"self"}) {
		t.Errorf("first cycle = %v", r.Cycles[0])
	}
	if len(r.Cycles[1]) != 3 {
		t.Errorf("second cycle = %v", r.Cycles[1])
	}

	br := r.Breaks[1]
	if br.NodeID != "y" || br.Parent != "x" || br.Collateral != 2 {
		t.Errorf("break = %+v, want y (2 children)", br)
	}
	s := r.Summary()
	if !strings.Contains(s, `move "y"`) || !strings.Contains(s, "cycle 2:") {
		t.Errorf("summary = %s", s)
	}
}

func TestDiagnoseRootNotSelf(t *testing.T) {
	nodes := []model.TreeNode{treetest.Folder("root", "x"), treetest.Folder("x", "root")}
	r := Diagnose(nodes, "root", false)
	if got := kinds(r); len(got) == 0 || got[0] != tree.RootNotSelf {
		t.Errorf("kinds = %v", got)
	}
}

// Diagnose agrees with tree.Build about validity.
func TestPropertyDiagnoseMatchesBuild(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nodes := treetest.Gen(t)
		if len(nodes) > 1 && rapid.Bool().Draw(t, "corrupt") {
			i := rapid.IntRange(1, len(nodes)-1).Draw(t, "victim")
			j := rapid.IntRange(1, len(nodes)-1).Draw(t, "parent")
			nodes[i].ParentID = nodes[j].ID
		}
		_, err := tree.Build(nodes, treetest.RootID, false)
		r := Diagnose(nodes, treetest.RootID, false)
		if (err == nil) != r.Healthy() {
			t.Fatalf("Build err = %v, report healthy = %v", err, r.Healthy())
		}
		if !r.Healthy() && len(r.Problems) == 0 {
			t.Fatalf("unhealthy report without problems: %v", err)
		}
	})
}
