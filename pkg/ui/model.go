package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dicklesworthstone/bonsai/pkg/config"
	"github.com/Dicklesworthstone/bonsai/pkg/dragdrop"
	"github.com/Dicklesworthstone/bonsai/pkg/loader"
	"github.com/Dicklesworthstone/bonsai/pkg/logger"
	"github.com/Dicklesworthstone/bonsai/pkg/model"
	"github.com/Dicklesworthstone/bonsai/pkg/tree"
	"github.com/Dicklesworthstone/bonsai/pkg/treeview"
	"github.com/Dicklesworthstone/bonsai/pkg/viewport"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// SplitViewThreshold is the width above which the detail pane is shown.
const SplitViewThreshold = 100

// zoneMode is where a keyboard drag drops relative to the focused row.
type zoneMode int

const (
	zoneInside zoneMode = iota
	zoneBefore
	zoneAfter
)

func (z zoneMode) String() string {
	switch z {
	case zoneInside:
		return "inside"
	case zoneBefore:
		return "before"
	default:
		return "after"
	}
}

// Options configures NewModel.
type Options struct {
	Config    config.Config
	Nodes     []model.TreeNode
	Paths     []string // Source files; the first one is the save target
	StatePath string   // tree-state.json; empty disables persistence
	Worker    *BackgroundWorker
	Renderer  *lipgloss.Renderer
	Clipboard func(string) error // Defaults to the system clipboard
}

// events collects treeview callbacks. They fire in the middle of a
// controller call, so the model applies them once that call returns.
type events struct {
	proposal []model.TreeNode
	external *dragdrop.ExternalDrop
}

// dragState tracks the gesture driving the drag controller.
type dragState struct {
	active   bool
	mouse    bool
	transfer dragdrop.DataTransfer
	mode     zoneMode
	zone     dragdrop.DropZone
	canDrop  bool

	// Mouse press bookkeeping.
	pressed       bool
	pressIndex    int
	deferredPlain bool
}

// host holds the state shared by every copy of Model.
type host struct {
	cfg       config.Config
	view      *treeview.View
	vp        *viewport.Renderer
	theme     Theme
	ev        *events
	drag      *dragState
	savedOpen tree.OpenSet
}

// Model is the bubbletea model hosting one tree view.
type Model struct {
	h         *host
	keys      KeyMap
	help      help.Model
	paths     []string
	statePath string
	worker    *BackgroundWorker
	detail    *glamour.TermRenderer
	copyFn    func(string) error

	status    string
	statusErr bool
	dirty     bool
	showHelp  bool
	ready     bool
	width     int
	height    int

	isSplitView bool
}

// NewModel builds the view over opts.Nodes. The open set is restored from
// opts.StatePath when present.
func NewModel(opts Options) (Model, error) {
	cfg := opts.Config
	h := &host{
		cfg:   cfg,
		theme: DefaultTheme(opts.Renderer),
		ev:    &events{},
		drag:  &dragState{},
	}
	h.vp = viewport.NewRenderer(h.renderRow)

	var open tree.OpenSet
	if opts.StatePath != "" {
		open = LoadTreeState(opts.StatePath)
	}

	ev := h.ev
	v, err := treeview.New(treeview.Props{
		Nodes:           opts.Nodes,
		RootID:          cfg.RootID,
		FolderOnTop:     cfg.FolderOnTop,
		UseSelection:    cfg.SelectionEnabled(),
		UseExternalDrop: cfg.UseExternalDrop,
		Open:            open,
		Scroller:        h.vp,
		OnSecondarySelectionChange: func(nodes []model.TreeNode) {
			logger.Debug("ui: selection", "count", len(nodes))
		},
		OnDrop: func(nodes []model.TreeNode) {
			ev.proposal = nodes
		},
		OnExternalDrop: func(d dragdrop.ExternalDrop) {
			ev.external = &d
		},
	})
	if err != nil {
		return Model{}, err
	}
	h.view = v
	h.savedOpen = v.Selection().State().Open

	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	return Model{
		h:         h,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		paths:     opts.Paths,
		statePath: opts.StatePath,
		worker:    opts.Worker,
		copyFn:    copyFn,
	}, nil
}

// TreeView returns the tree view the model drives.
func (m Model) TreeView() *treeview.View {
	return m.h.view
}

// Dirty reports whether the tree has unsaved moves.
func (m Model) Dirty() bool {
	return m.dirty
}

// Status returns the current status line message.
func (m Model) Status() string {
	return m.status
}

func (m Model) Init() tea.Cmd {
	if m.worker != nil {
		return m.worker.WaitForSnapshot()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.isSplitView = msg.Width > SplitViewThreshold
		m.layout()

	case SnapshotReadyMsg:
		m.applySnapshot(msg)
		if m.worker != nil {
			cmds = append(cmds, m.worker.WaitForSnapshot())
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		if msg.Paste {
			m.paste(string(msg.Runes))
			break
		}
		if m.h.drag.active && !m.h.drag.mouse {
			m.handleDragKey(msg)
			break
		}
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	m.applyEvents()
	m.persistOpen()
	return m, tea.Batch(cmds...)
}

func (m *Model) layout() {
	treeWidth := m.width
	if m.isSplitView {
		treeWidth = int(float64(m.width) * 0.6)
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(m.width-treeWidth-4),
		)
		if err == nil {
			m.detail = r
		}
	}
	m.h.vp.SetSize(treeWidth, m.treeHeight())
	m.h.vp.EnsureVisible(m.h.view.Focus())
}

func (m Model) treeHeight() int {
	h := m.height - 1
	if m.showHelp {
		h -= len(m.keys.FullHelp()[0]) + 1
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	v := m.h.view
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.ExtendRange):
		switch msg.String() {
		case "shift+up":
			v.MoveFocus(-1)
		case "shift+down":
			v.MoveFocus(1)
		}
		v.Activate(v.Focus(), treeview.ActivateRange)
	case key.Matches(msg, m.keys.Up):
		v.MoveFocus(-1)
	case key.Matches(msg, m.keys.Down):
		v.MoveFocus(1)
	case key.Matches(msg, m.keys.PageUp):
		v.MoveFocus(-m.treeHeight())
	case key.Matches(msg, m.keys.PageDown):
		v.MoveFocus(m.treeHeight())
	case key.Matches(msg, m.keys.Home):
		v.SetFocus(0)
	case key.Matches(msg, m.keys.End):
		v.SetFocus(v.Sequence().SentinelIndex() - 1)
	case key.Matches(msg, m.keys.Right):
		m.expandOrDescend()
	case key.Matches(msg, m.keys.Left):
		m.collapseOrAscend()

	case key.Matches(msg, m.keys.Activate):
		v.Activate(v.Focus(), treeview.ActivatePlain)
	case key.Matches(msg, m.keys.ToggleSelect):
		v.Activate(v.Focus(), treeview.ActivateToggle)
	case key.Matches(msg, m.keys.Clear):
		v.Selection().ClearSelection()
	case key.Matches(msg, m.keys.ExpandAll):
		v.Commands().ExpandAll()
	case key.Matches(msg, m.keys.CollapseAll):
		v.Commands().CollapseAll()

	case key.Matches(msg, m.keys.Grab):
		m.grab()
	case key.Matches(msg, m.keys.Copy):
		m.copySelection()
	case key.Matches(msg, m.keys.Save):
		m.save()
	case key.Matches(msg, m.keys.FolderOrder):
		on := !v.Props().FolderOnTop
		if err := v.SetFolderOnTop(on); err != nil {
			m.setError(err)
		} else {
			m.setStatus(fmt.Sprintf("folders on top: %v", on))
		}
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.layout()
	case key.Matches(msg, m.keys.Cancel):
		m.status, m.statusErr = "", false
	default:
		return nil
	}
	m.h.vp.EnsureVisible(v.Focus())
	return nil
}

// expandOrDescend opens a closed folder or moves into an open one.
// Opening goes through activation, which toggles folders.
func (m *Model) expandOrDescend() {
	v := m.h.view
	r, ok := v.FocusedRow()
	if !ok || r.Sentinel || !r.Node.IsFolder {
		return
	}
	if !r.Opened {
		v.Activate(r.Index, treeview.ActivatePlain)
		return
	}
	if r.ChildCount > 0 {
		v.MoveFocus(1)
	}
}

// collapseOrAscend closes an open folder or moves to the parent row.
func (m *Model) collapseOrAscend() {
	v := m.h.view
	r, ok := v.FocusedRow()
	if !ok || r.Sentinel {
		return
	}
	if r.Node.IsFolder && r.Opened {
		v.Activate(r.Index, treeview.ActivatePlain)
		return
	}
	v.FocusID(r.Node.ParentID)
}

// grab starts a keyboard drag from the focused row.
func (m *Model) grab() {
	v := m.h.view
	r, ok := v.FocusedRow()
	if !ok || r.Sentinel {
		return
	}
	dt, err := v.DragDrop().DragStart(r.Node.ID)
	if err != nil {
		m.setError(err)
		return
	}
	d := m.h.drag
	*d = dragState{active: true, transfer: dt, mode: zoneAfter}
	m.hoverFocused()
}

func (m *Model) handleDragKey(msg tea.KeyMsg) {
	v := m.h.view
	d := m.h.drag
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
		v.DragDrop().DragEnd()
		*d = dragState{}
		m.setStatus("move cancelled")
		return
	case key.Matches(msg, m.keys.Drop):
		m.dropAt(d.zone)
		return
	case key.Matches(msg, m.keys.NextZone):
		d.mode = m.nextZone(d.mode)
	case key.Matches(msg, m.keys.Up):
		v.MoveFocus(-1)
	case key.Matches(msg, m.keys.Down):
		v.MoveFocus(1)
	case key.Matches(msg, m.keys.Home):
		v.SetFocus(0)
	case key.Matches(msg, m.keys.End):
		v.SetFocus(v.Sequence().SentinelIndex() - 1)
	case key.Matches(msg, m.keys.Right):
		m.expandOrDescend()
	case key.Matches(msg, m.keys.Left):
		m.collapseOrAscend()
	default:
		return
	}
	m.hoverFocused()
	m.h.vp.EnsureVisible(v.Focus())
}

// zoneFor maps a drop position on row r to the zone the row offers for
// it. Folders have a body (inside) zone, every row has a gap before, and
// only the last row of a folder has a gap after. A file body drops after
// the file, so files always offer after.
func zoneFor(r treeview.RowView, z zoneMode) (dragdrop.DropZone, bool) {
	switch z {
	case zoneInside:
		if !r.Node.IsFolder {
			return dragdrop.DropZone{}, false
		}
		return dragdrop.DropZone{Index: r.Index, Kind: dragdrop.ZoneBody}, true
	case zoneBefore:
		return dragdrop.DropZone{Index: r.Index, Kind: dragdrop.ZoneGap}, true
	default:
		if r.LastOfFolder {
			return dragdrop.DropZone{Index: r.Index, Kind: dragdrop.ZoneGap, After: true}, true
		}
		if !r.Node.IsFolder {
			return dragdrop.DropZone{Index: r.Index, Kind: dragdrop.ZoneBody}, true
		}
		return dragdrop.DropZone{}, false
	}
}

// nextZone cycles to the next position the focused row offers.
func (m *Model) nextZone(z zoneMode) zoneMode {
	r, ok := m.h.view.FocusedRow()
	if !ok || r.Sentinel {
		return z
	}
	for range 3 {
		z = (z + 1) % 3
		if _, ok := zoneFor(r, z); ok {
			return z
		}
	}
	return z
}

// hoverFocused recomputes the keyboard drop zone and asks the controller
// whether it accepts it.
func (m *Model) hoverFocused() {
	v := m.h.view
	d := m.h.drag
	r, ok := v.FocusedRow()
	if !ok || r.Sentinel {
		d.zone = dragdrop.DropZone{Index: v.Sequence().SentinelIndex(), Kind: dragdrop.ZoneBody}
	} else {
		zone, ok := zoneFor(r, d.mode)
		if !ok {
			d.mode = zoneInside
			zone, _ = zoneFor(r, d.mode)
		}
		d.zone = zone
	}
	d.canDrop = v.DragDrop().DragOver(d.zone, d.transfer)
}

// dropAt ends the active drag at zone.
func (m *Model) dropAt(zone dragdrop.DropZone) {
	d := m.h.drag
	dt := d.transfer
	*d = dragState{}
	if !m.h.view.DragDrop().Drop(zone, dt) {
		m.setStatus("cannot drop there")
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	v := m.h.view
	d := m.h.drag

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		v.MoveFocus(-1)
		m.h.vp.EnsureVisible(v.Focus())
		return
	case tea.MouseButtonWheelDown:
		v.MoveFocus(1)
		m.h.vp.EnsureVisible(v.Focus())
		return
	}

	i, onRow := m.h.vp.RowAt(msg.Y)
	if onRow && m.isSplitView && msg.X >= m.h.vp.Width() {
		onRow = false
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !onRow {
			return
		}
		r, ok := v.RowAt(i)
		if !ok || r.Sentinel {
			return
		}
		mode := activateMode(msg)
		d.pressed = true
		d.pressIndex = i
		// A plain press on a multi-selection member keeps the selection
		// so it can be dragged; it collapses on release instead.
		if mode == treeview.ActivatePlain && r.Selected && len(v.Selection().SecondaryIDs()) > 1 {
			d.deferredPlain = true
			v.SetFocus(i)
			return
		}
		v.Activate(i, mode)

	case tea.MouseActionMotion:
		if !d.pressed || !onRow {
			return
		}
		if !d.active {
			if i == d.pressIndex {
				return
			}
			r, ok := v.RowAt(d.pressIndex)
			if !ok || r.Sentinel {
				d.pressed = false
				return
			}
			dt, err := v.DragDrop().DragStart(r.Node.ID)
			if err != nil {
				d.pressed = false
				m.setError(err)
				return
			}
			d.active, d.mouse, d.transfer = true, true, dt
			d.deferredPlain = false
		}
		d.zone = dragdrop.DropZone{Index: i, Kind: dragdrop.ZoneBody}
		d.canDrop = v.DragDrop().DragOver(d.zone, d.transfer)

	case tea.MouseActionRelease:
		switch {
		case d.active && onRow:
			m.dropAt(dragdrop.DropZone{Index: i, Kind: dragdrop.ZoneBody})
		case d.active:
			v.DragDrop().DragEnd()
			*d = dragState{}
		case d.deferredPlain:
			idx := d.pressIndex
			*d = dragState{}
			v.Activate(idx, treeview.ActivatePlain)
		default:
			*d = dragState{}
		}
	}
}

func activateMode(msg tea.MouseMsg) treeview.ActivateMode {
	switch {
	case msg.Shift:
		return treeview.ActivateRange
	case msg.Ctrl, msg.Alt:
		return treeview.ActivateToggle
	}
	return treeview.ActivatePlain
}

// paste delivers pasted text as a drop from outside the tree at the
// focused row.
func (m *Model) paste(text string) {
	if !m.h.cfg.UseExternalDrop {
		m.setStatus("external drop is disabled")
		return
	}
	v := m.h.view
	zone := dragdrop.DropZone{Index: v.Focus(), Kind: dragdrop.ZoneGap, After: true}
	if r, ok := v.FocusedRow(); ok && !r.Sentinel && r.Node.IsFolder && r.Opened {
		zone = dragdrop.DropZone{Index: r.Index, Kind: dragdrop.ZoneBody}
	}
	dt := dragdrop.DataTransfer{Data: text}
	if !v.DragDrop().DragOver(zone, dt) && v.Sequence().SentinelIndex() > 0 {
		m.setStatus("cannot drop there")
		return
	}
	if !v.DragDrop().Drop(zone, dt) {
		m.setStatus("cannot drop there")
	}
}

// applyEvents acts on the callbacks collected during this update.
func (m *Model) applyEvents() {
	ev := m.h.ev
	if ev.proposal != nil {
		nodes := ev.proposal
		ev.proposal = nil
		if err := m.h.view.SetNodes(nodes); err != nil {
			m.setError(err)
		} else {
			m.dirty = true
			m.setStatus("moved")
			logger.Info("ui: drop accepted", "nodes", len(nodes))
		}
	}
	if ev.external != nil {
		drop := *ev.external
		ev.external = nil
		m.insertExternal(drop)
	}
}

// insertExternal adds one file node per non-empty pasted line at the drop
// position.
func (m *Model) insertExternal(drop dragdrop.ExternalDrop) {
	v := m.h.view
	props := v.Props()

	parent := props.RootID
	if rel := drop.RelativeNode; rel != nil {
		parent = rel.ParentID
		if drop.IsFolderZone {
			parent = rel.ID
		}
	}

	nodes := model.CloneNodes(props.Nodes)
	var ids []string
	for _, line := range strings.Split(drop.Payload, "\n") {
		label := strings.TrimSpace(line)
		if label == "" {
			continue
		}
		id := uuid.NewString()
		ids = append(ids, id)
		nodes = append(nodes, model.TreeNode{
			ID:        id,
			ParentID:  parent,
			Label:     label,
			Draggable: true,
		})
	}
	if len(ids) == 0 {
		return
	}

	if drop.RelativeNode != nil {
		ix, err := tree.Build(nodes, props.RootID, props.FolderOnTop)
		if err != nil {
			m.setError(err)
			return
		}
		placed, err := dragdrop.ComputeDrop(ix, ids, *drop.RelativeNode, drop.IsFolderZone, drop.InsertAfter)
		if err != nil {
			m.setError(err)
			return
		}
		nodes = placed
	}

	if err := v.SetNodes(nodes); err != nil {
		m.setError(err)
		return
	}
	v.Commands().SelectItem(ids[0], true, true)
	v.FocusID(ids[0])
	m.dirty = true
	m.setStatus(fmt.Sprintf("added %d node(s)", len(ids)))
}

func (m *Model) applySnapshot(msg SnapshotReadyMsg) {
	switch {
	case msg.Err != nil:
		m.setError(msg.Err)
	case msg.Snapshot == nil:
	case msg.Snapshot.Report != nil:
		summary, _, _ := strings.Cut(msg.Snapshot.Report.Summary(), "\n")
		m.setError(errors.New("reload skipped: " + summary))
	default:
		if m.h.drag.active {
			m.h.view.DragDrop().DragEnd()
			*m.h.drag = dragState{}
		}
		if err := m.h.view.SetNodes(msg.Snapshot.Nodes); err != nil {
			m.setError(err)
			return
		}
		m.dirty = false
		m.setStatus("reloaded")
	}
}

func (m *Model) copySelection() {
	sel := m.h.view.Selection()
	ids := sel.SecondaryIDs()
	if len(ids) == 0 {
		if p := sel.State().PrimaryID; p != "" {
			ids = []string{p}
		}
	}
	if len(ids) == 0 {
		m.setStatus("nothing selected")
		return
	}
	if err := m.copyFn(strings.Join(ids, "\n")); err != nil {
		m.setError(fmt.Errorf("clipboard: %w", err))
		return
	}
	m.setStatus(fmt.Sprintf("copied %d id(s)", len(ids)))
}

func (m *Model) save() {
	if len(m.paths) == 0 {
		m.setStatus("no file to save to")
		return
	}
	nodes := m.h.view.Props().Nodes
	if err := loader.Save(m.paths[0], nodes); err != nil {
		m.setError(err)
		return
	}
	if m.worker != nil {
		m.worker.SetLastHash(nodes)
	}
	m.dirty = false
	m.setStatus("saved " + m.paths[0])
}

// persistOpen writes the open set when it changed.
func (m *Model) persistOpen() {
	if m.statePath == "" {
		return
	}
	open := m.h.view.Selection().State().Open
	if open.Equal(m.h.savedOpen) {
		return
	}
	SaveTreeState(m.statePath, open)
	m.h.savedOpen = open
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(err error) {
	m.status, m.statusErr = err.Error(), true
	logger.Warn("ui: action failed", "err", err)
}

// renderRow is the viewport's row renderer.
func (h *host) renderRow(i int, row tree.Row, width int) string {
	f := rowFlags{Focused: i == h.view.Focus()}
	if !row.Sentinel {
		f.Selected = h.view.Selection().IsSelected(row.Node.ID)
	}
	if h.drag.active && h.drag.canDrop {
		if t, ok := h.view.DragDrop().Hover(); ok && t.Index == i {
			f.DropTarget = true
			switch {
			case t.IsFolderZone:
				f.DropMark = zoneInside.String()
			case t.InsertAfter:
				f.DropMark = zoneAfter.String()
			default:
				f.DropMark = zoneBefore.String()
			}
		}
	}
	return styleRow(h.theme, row, f, h.cfg.DepthStep, width)
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	body := m.h.vp.View()
	if m.isSplitView {
		treePane := lipgloss.NewStyle().Width(m.h.vp.Width()).Height(m.treeHeight()).Render(body)
		detail := lipgloss.NewStyle().
			Width(m.width - m.h.vp.Width() - 2).
			Height(m.treeHeight()).
			PaddingLeft(2).
			Render(m.renderDetail())
		body = lipgloss.JoinHorizontal(lipgloss.Top, treePane, detail)
	}

	parts := []string{body}
	if m.showHelp {
		parts = append(parts, m.h.theme.Help.Render(m.help.FullHelpView(m.keys.FullHelp())))
	}
	parts = append(parts, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderDetail describes the primary selection in markdown.
func (m Model) renderDetail() string {
	sel := m.h.view.Selection()
	id := sel.State().PrimaryID
	n, ok := m.h.view.Index().Node(id)
	if !ok {
		return m.h.theme.Guide.Render("nothing selected")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", n.Label)
	sb.WriteString("| ID | Parent | Draggable |\n|---|---|---|\n")
	fmt.Fprintf(&sb, "| `%s` | `%s` | %v |\n\n", n.ID, n.ParentID, n.Draggable)
	if ids := sel.SecondaryIDs(); len(ids) > 1 {
		fmt.Fprintf(&sb, "%d nodes selected\n\n", len(ids))
	}
	if n.Payload != nil {
		if data, err := json.MarshalIndent(n.Payload, "", "  "); err == nil {
			sb.WriteString("```json\n" + string(data) + "\n```\n")
		}
	}

	if m.detail == nil {
		return sb.String()
	}
	out, err := m.detail.Render(sb.String())
	if err != nil {
		return fmt.Sprintf("Error rendering markdown: %v", err)
	}
	return out
}

func (m Model) renderFooter() string {
	t := m.h.theme
	d := m.h.drag

	mode := "TREE"
	keys := m.help.ShortHelpView(m.keys.ShortHelp())
	if d.active {
		mode = "MOVE " + d.mode.String()
		if d.mouse {
			mode = "MOVE"
		}
		if !d.canDrop {
			mode += " (blocked)"
		}
		keys = m.help.ShortHelpView(m.keys.DragHelp())
	}

	modeSection := t.Renderer.NewStyle().Background(t.Primary).Foreground(t.Bg).Bold(true).Padding(0, 1).Render(mode)

	sel := m.h.view.Selection()
	count := fmt.Sprintf("%d rows", m.h.view.Sequence().SentinelIndex())
	if n := len(sel.SecondaryIDs()); n > 0 {
		count += fmt.Sprintf(" • %d selected", n)
	}
	if m.dirty {
		count += " • modified"
	}
	countSection := t.StatusBar.Render(count)

	statusSection := ""
	if m.status != "" {
		if m.statusErr {
			statusSection = t.StatusErr.Render(m.status)
		} else {
			statusSection = t.StatusBar.Render(m.status)
		}
	}
	keysSection := t.Help.Render(keys)

	leftWidth := lipgloss.Width(modeSection) + lipgloss.Width(countSection) + lipgloss.Width(statusSection)
	remaining := m.width - leftWidth - lipgloss.Width(keysSection)
	if remaining < 0 {
		remaining = 0
		keysSection = ""
	}
	filler := t.Renderer.NewStyle().Width(remaining).Render("")
	return lipgloss.JoinHorizontal(lipgloss.Bottom, modeSection, countSection, statusSection, filler, keysSection)
}
