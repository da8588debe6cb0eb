package treeview

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/Dicklesworthstone/bonsai/pkg/dragdrop"
	"github.com/Dicklesworthstone/bonsai/pkg/model"
	"github.com/Dicklesworthstone/bonsai/pkg/tree"
	"github.com/Dicklesworthstone/bonsai/pkg/tree/treetest"
)

func newView(t *testing.T, props Props) *View {
	t.Helper()
	if props.Nodes == nil {
		props.Nodes = treetest.Basic()
	}
	if props.RootID == "" {
		props.RootID = treetest.RootID
	}
	v, err := New(props)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v
}

func TestNewRejectsBrokenCollection(t *testing.T) {
	nodes := append(treetest.Basic(), treetest.File("X", "missing"))
	_, err := New(Props{Nodes: nodes, RootID: "root"})
	if !errors.Is(err, tree.ErrIntegrity) {
		t.Errorf("err = %v, want ErrIntegrity", err)
	}
}

func TestRenderCallbackInputs(t *testing.T) {
	v := newView(t, Props{
		UseSelection: true,
		Render: func(n model.TreeNode, opened, selected bool, depth, childCount int) string {
			return fmt.Sprintf("%s o=%v s=%v d=%d c=%d", n.ID, opened, selected, depth, childCount)
		},
	})
	v.Commands().SelectItem("C", false, true)

	got := v.Render()
	want := []string{
		"A o=true s=false d=1 c=2",
		"C o=false s=true d=2 c=0",
		"D o=false s=false d=2 c=0",
		"B o=false s=false d=1 c=0",
		"",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Render =\n%q\nwant\n%q", got, want)
	}
}

func TestDefaultRenderUsesLabel(t *testing.T) {
	v := newView(t, Props{})
	if got := v.RenderRow(0); got != "A" {
		t.Errorf("RenderRow(0) = %q", got)
	}
}

func TestActivateModes(t *testing.T) {
	v := newView(t, Props{UseSelection: true})
	v.Commands().ExpandAll() // A C D B

	v.Activate(1, ActivatePlain)
	v.Activate(3, ActivateRange)
	if got := v.Selection().SecondaryIDs(); !reflect.DeepEqual(got, []string{"C", "D", "B"}) {
		t.Errorf("range = %v", got)
	}
	v.Activate(2, ActivateToggle)
	if got := v.Selection().SecondaryIDs(); !reflect.DeepEqual(got, []string{"C", "B"}) {
		t.Errorf("toggle = %v", got)
	}
	if v.Focus() != 2 {
		t.Errorf("focus = %d", v.Focus())
	}
}

func TestActivateFolderKeepsFocus(t *testing.T) {
	v := newView(t, Props{UseSelection: true})
	v.Activate(1, ActivatePlain) // B
	v.Activate(0, ActivatePlain) // open A

	if v.Focus() != 0 {
		t.Errorf("focus = %d, want A", v.Focus())
	}
	rows := v.Rows()
	if len(rows) != 5 || !rows[0].Opened || !rows[0].Focused {
		t.Errorf("rows = %+v", rows)
	}
	if !rows[3].Selected || rows[3].Node.ID != "B" {
		t.Error("B should still be selected")
	}
}

func TestFocusClampsOnCollapse(t *testing.T) {
	v := newView(t, Props{})
	v.Commands().ExpandAll()
	v.SetFocus(3)
	v.Commands().CollapseAll()
	if v.Focus() != 1 {
		t.Errorf("focus = %d, want last real row", v.Focus())
	}
	v.MoveFocus(-10)
	if v.Focus() != 0 {
		t.Errorf("focus = %d", v.Focus())
	}
}

func TestDropRoundTrip(t *testing.T) {
	var proposal []model.TreeNode
	v := newView(t, Props{OnDrop: func(n []model.TreeNode) { proposal = n }})
	v.Commands().ExpandAll()

	dnd := v.DragDrop()
	dt, err := dnd.DragStart("B")
	if err != nil {
		t.Fatal(err)
	}
	if !dnd.Drop(dragdrop.DropZone{Index: 0, Kind: dragdrop.ZoneBody}, dt) {
		t.Fatal("drop into A refused")
	}
	if err := v.SetNodes(proposal); err != nil {
		t.Fatal(err)
	}
	if got := v.Sequence().IDs(); !reflect.DeepEqual(got, []string{"A", "B", "C", "D"}) {
		t.Errorf("visible = %v", got)
	}
}

func TestDragDropSeesCurrentSequence(t *testing.T) {
	v := newView(t, Props{})
	dnd := v.DragDrop()

	v.Commands().ExpandAll() // A C D B
	target, ok := dnd.ResolveTarget(dragdrop.DropZone{Index: 3, Kind: dragdrop.ZoneBody})
	if !ok || target.Node.ID != "B" {
		t.Errorf("target = %+v; drag-and-drop is reading a stale sequence", target)
	}
}

func TestSetNodesErrorKeepsSnapshot(t *testing.T) {
	v := newView(t, Props{})
	before := v.Sequence().IDs()

	bad := []model.TreeNode{treetest.Folder("root", "root"), treetest.File("x", "x")}
	if err := v.SetNodes(bad); err == nil {
		t.Fatal("expected error")
	}
	if got := v.Sequence().IDs(); !reflect.DeepEqual(got, before) {
		t.Errorf("snapshot changed: %v", got)
	}
}

func TestSetFolderOnTop(t *testing.T) {
	nodes := []model.TreeNode{
		treetest.Folder("root", "root"),
		treetest.File("E", "root"),
		treetest.Folder("A", "root"),
	}
	v := newView(t, Props{Nodes: nodes})
	if got := v.Sequence().IDs(); !reflect.DeepEqual(got, []string{"E", "A"}) {
		t.Errorf("before = %v", got)
	}
	if err := v.SetFolderOnTop(true); err != nil {
		t.Fatal(err)
	}
	if got := v.Sequence().IDs(); !reflect.DeepEqual(got, []string{"A", "E"}) {
		t.Errorf("after = %v", got)
	}
}
