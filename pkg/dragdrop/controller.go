package dragdrop

import (
	"fmt"
	"slices"

	"github.com/Dicklesworthstone/bonsai/pkg/logger"
	"github.com/Dicklesworthstone/bonsai/pkg/model"
	"github.com/Dicklesworthstone/bonsai/pkg/tree"
	"github.com/google/uuid"
)

// Options configures a Controller. Callbacks may be nil.
type Options struct {
	UseExternalDrop bool
	CanDrop         Predicate

	// OnDrop receives the proposed replacement collection.
	OnDrop func(nodes []model.TreeNode)
	// OnExternalDrop receives foreign drops when UseExternalDrop is set.
	OnExternalDrop func(drop ExternalDrop)
	// OnPhaseChange observes session transitions.
	OnPhaseChange func(from, to Phase)
}

// Controller runs drag sessions over one index and sequence snapshot. It
// reads the multi-selection but never changes it.
type Controller struct {
	ix   *tree.Index
	seq  *tree.Sequence
	sel  SelectionReader
	opts Options

	phase   Phase
	session *Session

	newToken func() string
}

// New creates a controller. sel may be nil when selection is disabled.
func New(ix *tree.Index, seq *tree.Sequence, sel SelectionReader, opts Options) *Controller {
	return &Controller{
		ix:       ix,
		seq:      seq,
		sel:      sel,
		opts:     opts,
		newToken: func() string { return uuid.NewString() },
	}
}

// SetSnapshot installs a rebuilt index and sequence.
func (c *Controller) SetSnapshot(ix *tree.Index, seq *tree.Sequence) {
	c.ix, c.seq = ix, seq
}

// Phase returns the session phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Session returns a copy of the active session.
func (c *Controller) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	s := *c.session
	s.DraggedIDs = slices.Clone(s.DraggedIDs)
	return s, true
}

// Hover returns the hovered target while it is droppable. An invalid hover
// has no affordance.
func (c *Controller) Hover() (Target, bool) {
	if c.session == nil || !c.session.CanDrop {
		return Target{}, false
	}
	return c.session.Target, true
}

// CanDrop reports whether sourceID may be dropped at targetID. An empty
// sourceID is a foreign drag, which only the host predicate judges.
func (c *Controller) CanDrop(sourceID, targetID string) bool {
	target, ok := c.ix.Node(targetID)
	if !ok {
		return false
	}

	if sourceID == "" {
		return c.consult(nil, target, true)
	}

	if targetID == sourceID || c.ix.IsWithin(targetID, sourceID) {
		return false
	}
	if c.sel != nil && slices.Contains(c.sel.SecondaryIDs(), targetID) {
		return false
	}

	source, ok := c.ix.Node(sourceID)
	if !ok {
		return false
	}
	return c.consult(&source, target, true)
}

func (c *Controller) consult(source *model.TreeNode, target model.TreeNode, def bool) bool {
	if c.opts.CanDrop == nil {
		return def
	}
	if allowed, ok := c.opts.CanDrop(source, target); ok {
		return allowed
	}
	return def
}

// ResolveTarget maps a hovered zone to a target. A folder body is a drop
// inside; a file body is a drop after the file; gaps are sibling drops.
// The sentinel row stands for the gap after the last real row.
func (c *Controller) ResolveTarget(zone DropZone) (Target, bool) {
	row, ok := c.seq.Row(zone.Index)
	if !ok {
		return Target{}, false
	}
	if row.Sentinel {
		last := c.seq.SentinelIndex() - 1
		prev, ok := c.seq.Row(last)
		if !ok {
			return Target{}, false
		}
		return Target{Node: prev.Node, Index: last, InsertAfter: true}, true
	}

	t := Target{Node: row.Node, Index: zone.Index}
	switch zone.Kind {
	case ZoneBody:
		if row.Node.IsFolder {
			t.IsFolderZone = true
		} else {
			t.InsertAfter = true
		}
	case ZoneGap:
		t.InsertAfter = zone.After
	}
	return t, true
}

// DragStart begins a drag of id. If id is part of the multi-selection the
// whole selection is dragged. The returned transfer carries a fresh token.
func (c *Controller) DragStart(id string) (DataTransfer, error) {
	if c.phase != PhaseIdle {
		return DataTransfer{}, ErrDragActive
	}
	node, ok := c.ix.Node(id)
	if !ok || !node.Draggable {
		return DataTransfer{}, fmt.Errorf("%w: %q", ErrNotDraggable, id)
	}

	c.session = &Session{
		Token:      c.newToken(),
		DraggedID:  id,
		DraggedIDs: c.draggedSet(id),
	}
	c.setPhase(PhaseDragging)
	return DataTransfer{Token: c.session.Token, Data: id}, nil
}

func (c *Controller) draggedSet(id string) []string {
	if c.sel == nil {
		return []string{id}
	}
	secondary := c.sel.SecondaryIDs()
	if !slices.Contains(secondary, id) {
		return []string{id}
	}
	ids := make([]string, 0, len(secondary))
	for _, s := range secondary {
		if n, ok := c.ix.Node(s); ok && n.Draggable {
			ids = append(ids, s)
		}
	}
	return FoldDescendants(c.ix, ids)
}

// IsOwn reports whether dt belongs to the active session.
func (c *Controller) IsOwn(dt DataTransfer) bool {
	return c.session != nil && dt.Token != "" && dt.Token == c.session.Token
}

// DragOver updates the hover for zone and reports whether a drop there
// would be accepted.
func (c *Controller) DragOver(zone DropZone, dt DataTransfer) bool {
	target, ok := c.ResolveTarget(zone)

	if !c.IsOwn(dt) {
		return ok && c.opts.UseExternalDrop && c.CanDrop("", target.Node.ID)
	}

	c.session.Zone = nil
	c.session.Target = Target{}
	c.session.CanDrop = false
	if !ok {
		return false
	}

	allowed := true
	for _, id := range c.session.DraggedIDs {
		if !c.CanDrop(id, target.Node.ID) {
			allowed = false
			break
		}
	}
	z := zone
	c.session.Zone = &z
	c.session.Target = target
	c.session.CanDrop = allowed
	if !allowed {
		logger.Debug("dragdrop: hover rejected", "token", c.session.Token, "target", target.Node.ID)
	}
	return allowed
}

// Drop finishes a gesture at zone. An own drag whose hover is droppable
// moves through dropping, computes the proposal and hands it to OnDrop.
// A foreign drag goes to OnExternalDrop when external drops are enabled.
// It reports whether anything was delivered to the host.
func (c *Controller) Drop(zone DropZone, dt DataTransfer) bool {
	if !c.IsOwn(dt) {
		return c.dropExternal(zone, dt)
	}

	if !c.DragOver(zone, dt) {
		c.DragEnd()
		return false
	}
	c.setPhase(PhaseDropping)
	s := c.session

	nodes, err := ComputeDrop(c.ix, s.DraggedIDs, s.Target.Node, s.Target.IsFolderZone, s.Target.InsertAfter)
	c.session = nil
	c.setPhase(PhaseIdle)
	if err != nil {
		logger.Debug("dragdrop: drop rejected", "token", s.Token, "err", err)
		return false
	}
	if c.opts.OnDrop != nil {
		c.opts.OnDrop(nodes)
	}
	return true
}

func (c *Controller) dropExternal(zone DropZone, dt DataTransfer) bool {
	if !c.opts.UseExternalDrop || c.opts.OnExternalDrop == nil {
		return false
	}
	drop := ExternalDrop{Payload: dt.Data}
	if target, ok := c.ResolveTarget(zone); ok {
		if !c.CanDrop("", target.Node.ID) {
			return false
		}
		n := target.Node
		drop.RelativeNode = &n
		drop.InsertAfter = target.InsertAfter
		drop.IsFolderZone = target.IsFolderZone
	}
	c.opts.OnExternalDrop(drop)
	return true
}

// DragEnd ends the gesture without a drop. Nothing is mutated and the
// hover is cleared.
func (c *Controller) DragEnd() {
	if c.session == nil {
		return
	}
	c.session = nil
	if c.phase == PhaseDragging {
		c.setPhase(PhaseCancelled)
	}
	c.setPhase(PhaseIdle)
}

func (c *Controller) setPhase(p Phase) {
	if p == c.phase {
		return
	}
	from := c.phase
	c.phase = p
	logger.Debug("dragdrop: phase", "from", from.String(), "to", p.String())
	if c.opts.OnPhaseChange != nil {
		c.opts.OnPhaseChange(from, p)
	}
}
