// Package treeview wires the index, selection and drag-and-drop controllers
// into one view a host drives: nodes and flags in, rows and callbacks out.
package treeview

import (
	"fmt"

	"github.com/Dicklesworthstone/bonsai/pkg/dragdrop"
	"github.com/Dicklesworthstone/bonsai/pkg/logger"
	"github.com/Dicklesworthstone/bonsai/pkg/model"
	"github.com/Dicklesworthstone/bonsai/pkg/selection"
	"github.com/Dicklesworthstone/bonsai/pkg/tree"
	"github.com/Dicklesworthstone/bonsai/pkg/viewport"
)

// RenderFunc draws one row. childCount is zero for files.
type RenderFunc func(node model.TreeNode, opened, selected bool, depth, childCount int) string

// Props is everything a host supplies.
type Props struct {
	Nodes           []model.TreeNode
	RootID          string
	FolderOnTop     bool
	UseSelection    bool
	UseExternalDrop bool
	CanDrop         dragdrop.Predicate
	Render          RenderFunc
	Open            tree.OpenSet
	Scroller        viewport.Binding

	OnSelectionChange          func(node *model.TreeNode)
	OnSecondarySelectionChange func(nodes []model.TreeNode)
	OnSequenceChange           func(seq *tree.Sequence)
	OnDrop                     func(nodes []model.TreeNode)
	OnExternalDrop             func(drop dragdrop.ExternalDrop)
	OnPhaseChange              func(from, to dragdrop.Phase)
}

// ActivateMode is the resolved intent of a modified activation.
type ActivateMode int

const (
	ActivatePlain ActivateMode = iota
	ActivateRange
	ActivateToggle
)

// RowView is a visible row with its selection flags.
type RowView struct {
	tree.Row
	Index    int
	Selected bool
	Focused  bool
}

// View is the composed tree view.
type View struct {
	props Props
	sel   *selection.Controller
	dnd   *dragdrop.Controller
	focus int
}

// New builds the index and both controllers.
func New(props Props) (*View, error) {
	ix, err := tree.Build(props.Nodes, props.RootID, props.FolderOnTop)
	if err != nil {
		return nil, fmt.Errorf("building tree: %w", err)
	}

	v := &View{props: props}
	v.sel = selection.New(ix, selection.Options{
		UseSelection: props.UseSelection,
		Scroller:     props.Scroller,
		Open:         props.Open,
		Observers: selection.Observers{
			OnSelectionChange:          props.OnSelectionChange,
			OnSecondarySelectionChange: props.OnSecondarySelectionChange,
			OnSequenceChange:           v.sequenceChanged,
		},
	})
	v.dnd = dragdrop.New(ix, v.sel.Sequence(), v.sel, dragdrop.Options{
		UseExternalDrop: props.UseExternalDrop,
		CanDrop:         props.CanDrop,
		OnDrop:          props.OnDrop,
		OnExternalDrop:  props.OnExternalDrop,
		OnPhaseChange:   props.OnPhaseChange,
	})
	return v, nil
}

func (v *View) sequenceChanged(seq *tree.Sequence) {
	if v.dnd != nil {
		v.dnd.SetSnapshot(v.sel.Index(), seq)
	}
	v.clampFocus(seq)
	if v.props.OnSequenceChange != nil {
		v.props.OnSequenceChange(seq)
	}
}

// SetNodes rebuilds from a new collection, typically an accepted drop
// proposal. On error the previous snapshot stays in place.
func (v *View) SetNodes(nodes []model.TreeNode) error {
	ix, err := tree.Build(nodes, v.props.RootID, v.props.FolderOnTop)
	if err != nil {
		return fmt.Errorf("rebuilding tree: %w", err)
	}
	v.props.Nodes = nodes
	v.sel.SetIndex(ix)
	v.dnd.SetSnapshot(ix, v.sel.Sequence())
	logger.Debug("treeview: nodes replaced", "count", len(nodes))
	return nil
}

// SetFolderOnTop changes sibling ordering and rebuilds.
func (v *View) SetFolderOnTop(on bool) error {
	prev := v.props.FolderOnTop
	v.props.FolderOnTop = on
	if err := v.SetNodes(v.props.Nodes); err != nil {
		v.props.FolderOnTop = prev
		return err
	}
	return nil
}

// SetScroller attaches the viewport binding.
func (v *View) SetScroller(b viewport.Binding) {
	v.sel.SetScroller(b)
}

// Props returns the current props.
func (v *View) Props() Props {
	return v.props
}

// Selection returns the selection controller.
func (v *View) Selection() *selection.Controller {
	return v.sel
}

// DragDrop returns the drag-and-drop controller.
func (v *View) DragDrop() *dragdrop.Controller {
	return v.dnd
}

// Commands returns the imperative command surface.
func (v *View) Commands() selection.Commands {
	return v.sel.Commands()
}

// Index returns the current index snapshot.
func (v *View) Index() *tree.Index {
	return v.sel.Index()
}

// Sequence returns the current visible sequence.
func (v *View) Sequence() *tree.Sequence {
	return v.sel.Sequence()
}

// Focus returns the focused visible index.
func (v *View) Focus() int {
	return v.focus
}

// SetFocus moves keyboard focus, clamped to the real rows.
func (v *View) SetFocus(i int) {
	v.focus = i
	v.clampFocus(v.sel.Sequence())
}

// MoveFocus moves focus by delta rows.
func (v *View) MoveFocus(delta int) {
	v.SetFocus(v.focus + delta)
}

// FocusID moves focus to id if it is visible.
func (v *View) FocusID(id string) bool {
	i, ok := v.sel.Sequence().IndexOf(id)
	if ok {
		v.focus = i
	}
	return ok
}

// FocusedRow returns the focused row; false when nothing is visible.
func (v *View) FocusedRow() (RowView, bool) {
	return v.RowAt(v.focus)
}

func (v *View) clampFocus(seq *tree.Sequence) {
	last := seq.SentinelIndex() - 1
	if v.focus > last {
		v.focus = last
	}
	if v.focus < 0 {
		v.focus = 0
	}
}

// RowAt returns row i with selection flags. The sentinel is included.
func (v *View) RowAt(i int) (RowView, bool) {
	row, ok := v.sel.Sequence().Row(i)
	if !ok {
		return RowView{}, false
	}
	return RowView{
		Row:      row,
		Index:    i,
		Selected: !row.Sentinel && v.sel.IsSelected(row.Node.ID),
		Focused:  i == v.focus,
	}, true
}

// Rows returns every visible row, sentinel last.
func (v *View) Rows() []RowView {
	seq := v.sel.Sequence()
	out := make([]RowView, 0, seq.Len())
	for i := 0; i < seq.Len(); i++ {
		r, _ := v.RowAt(i)
		out = append(out, r)
	}
	return out
}

// RenderRow draws row i through the host render callback. The sentinel
// renders empty.
func (v *View) RenderRow(i int) string {
	r, ok := v.RowAt(i)
	if !ok || r.Sentinel {
		return ""
	}
	if v.props.Render == nil {
		return r.Node.Label
	}
	return v.props.Render(r.Node, r.Opened, r.Selected, r.Depth, r.ChildCount)
}

// Render draws every visible row.
func (v *View) Render() []string {
	seq := v.sel.Sequence()
	out := make([]string, seq.Len())
	for i := range out {
		out[i] = v.RenderRow(i)
	}
	return out
}

// Activate runs the plain, range or toggle activation for row i, the way
// a click with the corresponding modifier does.
func (v *View) Activate(i int, mode ActivateMode) {
	r, ok := v.RowAt(i)
	if !ok || r.Sentinel {
		return
	}
	v.focus = i
	switch mode {
	case ActivateRange:
		v.sel.ExtendSelection(r.Node.ID, i, false)
	case ActivateToggle:
		v.sel.ExtendSelection(r.Node.ID, i, true)
	default:
		v.sel.StartSelection(r.Node.ID)
	}
	if id := r.Node.ID; !v.FocusID(id) {
		v.clampFocus(v.sel.Sequence())
	}
}
