// Package selection owns the expand/collapse state and the single, range and
// toggle selection of a tree view.
package selection

import (
	"slices"

	"github.com/Dicklesworthstone/bonsai/pkg/logger"
	"github.com/Dicklesworthstone/bonsai/pkg/model"
	"github.com/Dicklesworthstone/bonsai/pkg/tree"
	"github.com/Dicklesworthstone/bonsai/pkg/viewport"
)

// State is one committed snapshot of the controller's mutable state.
//
// When SecondaryIDs is non-empty and PrimaryID is set, PrimaryID is a member
// of SecondaryIDs. PrimaryID never names a folder.
type State struct {
	AnchorID     string
	PrimaryID    string
	SecondaryIDs []string
	Open         tree.OpenSet
}

func (s State) clone() State {
	s.SecondaryIDs = slices.Clone(s.SecondaryIDs)
	s.Open = s.Open.Clone()
	return s
}

// Observers receive committed changes. Any of them may be nil.
type Observers struct {
	// OnSelectionChange gets the new primary node, or nil when cleared.
	OnSelectionChange func(node *model.TreeNode)
	// OnSecondarySelectionChange gets the highlighted nodes in selection order.
	OnSecondarySelectionChange func(nodes []model.TreeNode)
	// OnSequenceChange gets the visible sequence after every rebuild.
	OnSequenceChange func(seq *tree.Sequence)
}

// Options configures a Controller.
type Options struct {
	UseSelection bool
	Observers    Observers
	Scroller     viewport.Binding // Receives autoScroll requests; may be nil
	Open         tree.OpenSet     // Initial open set
}

// Commands is the imperative surface a host can hold on to.
type Commands interface {
	SelectItem(id string, autoScroll, expandFolders bool) bool
	ExpandAll()
	CollapseAll()
	ToggleItem(id string) bool
}

// Controller owns the open set and selection state. All operations run
// synchronously; each computes a complete next State and commits it through
// commit, so readers only ever see whole snapshots.
type Controller struct {
	ix    *tree.Index
	seq   *tree.Sequence
	state State
	opts  Options

	// Last index the anchor was seen at, used when the anchor is hidden.
	anchorIndex int
}

// New creates a controller over ix.
func New(ix *tree.Index, opts Options) *Controller {
	open := opts.Open
	if open == nil {
		open = tree.NewOpenSet()
	}
	c := &Controller{
		ix:    ix,
		opts:  opts,
		state: State{Open: open.Clone()},
	}
	c.seq = tree.Flatten(ix, ix.RootID(), c.state.Open)
	c.publishSequence()
	return c
}

// SetIndex swaps in a rebuilt index and re-flattens. Selection and open ids
// that no longer exist are left alone; reconciling them is the host's call.
func (c *Controller) SetIndex(ix *tree.Index) {
	c.ix = ix
	c.seq = tree.Flatten(ix, ix.RootID(), c.state.Open)
	logger.Debug("selection: index replaced", "nodes", ix.Len(), "visible", c.seq.Len()-1)
	c.publishSequence()
}

// SetScroller sets the binding that receives autoScroll requests.
func (c *Controller) SetScroller(b viewport.Binding) {
	c.opts.Scroller = b
	if b != nil {
		b.SetSequence(c.seq)
	}
}

// Index returns the current index snapshot.
func (c *Controller) Index() *tree.Index {
	return c.ix
}

// Sequence returns the current visible sequence.
func (c *Controller) Sequence() *tree.Sequence {
	return c.seq
}

// State returns a copy of the committed state.
func (c *Controller) State() State {
	return c.state.clone()
}

// SecondaryIDs returns the current multi-selection in order.
func (c *Controller) SecondaryIDs() []string {
	return slices.Clone(c.state.SecondaryIDs)
}

// IsSelected reports whether id is highlighted.
func (c *Controller) IsSelected(id string) bool {
	return slices.Contains(c.state.SecondaryIDs, id)
}

// IsOpen reports whether folder id is expanded.
func (c *Controller) IsOpen(id string) bool {
	return c.state.Open.Has(id)
}

// Commands returns the imperative command surface.
func (c *Controller) Commands() Commands {
	return commands{c}
}

// StartSelection handles a plain activation of id. A folder toggles open
// and the selection is untouched; any other node becomes the anchor, the
// primary and the sole secondary selection.
func (c *Controller) StartSelection(id string) {
	node, ok := c.ix.Node(id)
	if !ok {
		return
	}
	if node.IsFolder {
		c.ToggleItem(id, true)
		return
	}
	if !c.opts.UseSelection {
		return
	}
	c.selectSingle(id)
}

// ExtendSelection handles a modified activation at visibleIndex. Exclusive
// toggles id in the secondary selection; otherwise the secondary selection
// becomes the draggable rows between the anchor and visibleIndex.
func (c *Controller) ExtendSelection(id string, visibleIndex int, exclusive bool) {
	if !c.opts.UseSelection || id == c.state.AnchorID {
		return
	}
	node, ok := c.ix.Node(id)
	if !ok {
		return
	}
	if c.state.AnchorID == "" && !exclusive {
		if node.IsFolder {
			return
		}
		c.selectSingle(id)
		return
	}

	next := c.state.clone()
	if exclusive {
		if !node.Draggable {
			return
		}
		if i := slices.Index(next.SecondaryIDs, id); i >= 0 {
			next.SecondaryIDs = slices.Delete(next.SecondaryIDs, i, i+1)
		} else {
			next.SecondaryIDs = append(next.SecondaryIDs, id)
		}
		c.commit(next, false, true)
		return
	}

	target := c.resolveVisibleIndex(id, visibleIndex)
	if target < 0 {
		return
	}
	from := c.anchorVisibleIndex()

	step := 1
	if target < from {
		step = -1
	}
	var ids []string
	for i := from; ; i += step {
		row, ok := c.seq.Row(i)
		if ok && !row.Sentinel {
			rid := row.Node.ID
			if row.Node.Draggable || rid == id || rid == c.state.PrimaryID {
				ids = append(ids, rid)
			}
		}
		if i == target {
			break
		}
	}
	if !slices.Contains(ids, id) {
		ids = append(ids, id)
	}
	if p := c.state.PrimaryID; p != "" && !slices.Contains(ids, p) {
		ids = append([]string{p}, ids...)
	}
	next.SecondaryIDs = ids
	c.commit(next, false, true)
}

// ClearSelection empties anchor, primary and secondary selection.
func (c *Controller) ClearSelection() {
	next := c.state.clone()
	next.AnchorID, next.PrimaryID, next.SecondaryIDs = "", "", nil
	c.commit(next, true, true)
}

// SelectItem selects id programmatically. A folder resolves to its first
// child, descending until a non-folder is found. With expandFolders every
// ancestor of the resolved node is opened; with autoScroll the scroller is
// asked to center it if it is visible. An empty id clears the selection.
// Unknown ids and folders without a selectable descendant return false.
func (c *Controller) SelectItem(id string, autoScroll, expandFolders bool) bool {
	if id == "" {
		c.ClearSelection()
		return true
	}

	node, ok := c.ix.Node(id)
	if !ok {
		return false
	}
	for node.IsFolder {
		child, ok := c.ix.FirstChild(node.ID)
		if !ok {
			return false
		}
		node = child
	}

	next := c.state.clone()
	if expandFolders {
		next.Open = next.Open.With(c.ix.Ancestors(node.ID)...)
	}
	next.AnchorID = node.ID
	next.PrimaryID = node.ID
	next.SecondaryIDs = []string{node.ID}
	c.commit(next, true, true)

	if autoScroll && c.opts.Scroller != nil {
		if i, ok := c.seq.IndexOf(node.ID); ok {
			c.opts.Scroller.ScrollToIndex(viewport.ScrollRequest{
				Index:  i,
				Align:  viewport.AlignCenter,
				Smooth: true,
			})
		}
	}
	return true
}

// ExpandAll opens every folder in the index.
func (c *Controller) ExpandAll() {
	next := c.state.clone()
	next.Open = tree.NewOpenSet(c.ix.FolderIDs()...)
	c.commit(next, false, false)
}

// CollapseAll closes every folder.
func (c *Controller) CollapseAll() {
	next := c.state.clone()
	next.Open = tree.NewOpenSet()
	c.commit(next, false, false)
}

// ToggleItem flips id in the open set. Unless skipExistenceCheck is set, it
// returns false without effect when id is not a known folder.
func (c *Controller) ToggleItem(id string, skipExistenceCheck bool) bool {
	if !skipExistenceCheck && !c.ix.IsFolder(id) {
		return false
	}
	next := c.state.clone()
	next.Open = next.Open.Toggled(id)
	c.commit(next, false, false)
	return true
}

// SetOpen replaces the open set, e.g. when restoring persisted view state.
func (c *Controller) SetOpen(open tree.OpenSet) {
	next := c.state.clone()
	next.Open = open.Clone()
	c.commit(next, false, false)
}

func (c *Controller) selectSingle(id string) {
	next := c.state.clone()
	next.AnchorID = id
	next.PrimaryID = id
	next.SecondaryIDs = []string{id}
	c.commit(next, true, true)
}

// resolveVisibleIndex trusts visibleIndex when it points at id and falls
// back to id's current position otherwise.
func (c *Controller) resolveVisibleIndex(id string, visibleIndex int) int {
	if row, ok := c.seq.Row(visibleIndex); ok && !row.Sentinel && row.Node.ID == id {
		return visibleIndex
	}
	if i, ok := c.seq.IndexOf(id); ok {
		return i
	}
	return -1
}

// anchorVisibleIndex returns where a range starts. A hidden anchor is
// represented by its nearest visible ancestor, the collapsed folder hiding
// it; failing that, by the index it was last seen at, clamped.
func (c *Controller) anchorVisibleIndex() int {
	if i, ok := c.seq.IndexOf(c.state.AnchorID); ok {
		return i
	}
	for _, a := range c.ix.Ancestors(c.state.AnchorID) {
		if i, ok := c.seq.IndexOf(a); ok {
			return i
		}
	}
	last := c.seq.SentinelIndex() - 1
	if c.anchorIndex > last {
		return max(last, 0)
	}
	return c.anchorIndex
}

// commit is the single entry point for state changes: it installs next,
// re-flattens when the open set changed, then notifies observers.
func (c *Controller) commit(next State, notifySingle, notifyMulti bool) {
	openChanged := !next.Open.Equal(c.state.Open)
	c.state = next
	if openChanged {
		c.seq = tree.Flatten(c.ix, c.ix.RootID(), c.state.Open)
	}
	if i, ok := c.seq.IndexOf(c.state.AnchorID); ok {
		c.anchorIndex = i
	}

	if openChanged {
		c.publishSequence()
	}
	if notifySingle && c.opts.Observers.OnSelectionChange != nil {
		var primary *model.TreeNode
		if n, ok := c.ix.Node(c.state.PrimaryID); ok {
			primary = &n
		}
		c.opts.Observers.OnSelectionChange(primary)
	}
	if notifyMulti && c.opts.Observers.OnSecondarySelectionChange != nil {
		c.opts.Observers.OnSecondarySelectionChange(c.secondaryNodes())
	}
}

func (c *Controller) publishSequence() {
	if c.opts.Scroller != nil {
		c.opts.Scroller.SetSequence(c.seq)
	}
	if c.opts.Observers.OnSequenceChange != nil {
		c.opts.Observers.OnSequenceChange(c.seq)
	}
}

func (c *Controller) secondaryNodes() []model.TreeNode {
	nodes := make([]model.TreeNode, 0, len(c.state.SecondaryIDs))
	for _, id := range c.state.SecondaryIDs {
		if n, ok := c.ix.Node(id); ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

type commands struct{ c *Controller }

func (x commands) SelectItem(id string, autoScroll, expandFolders bool) bool {
	return x.c.SelectItem(id, autoScroll, expandFolders)
}

func (x commands) ExpandAll()   { x.c.ExpandAll() }
func (x commands) CollapseAll() { x.c.CollapseAll() }

func (x commands) ToggleItem(id string) bool {
	return x.c.ToggleItem(id, false)
}
