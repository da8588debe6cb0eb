package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Dicklesworthstone/bonsai/pkg/analysis"
	"github.com/Dicklesworthstone/bonsai/pkg/config"
	"github.com/Dicklesworthstone/bonsai/pkg/dragdrop"
	"github.com/Dicklesworthstone/bonsai/pkg/export"
	"github.com/Dicklesworthstone/bonsai/pkg/loader"
	"github.com/Dicklesworthstone/bonsai/pkg/logger"
	"github.com/Dicklesworthstone/bonsai/pkg/model"
	"github.com/Dicklesworthstone/bonsai/pkg/tree"
	"github.com/Dicklesworthstone/bonsai/pkg/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// options are the parsed command line flags.
type options struct {
	root        string
	foldersTop  bool
	configPath  string
	check       bool
	print       bool
	exportSVG   string
	dragImage   string
	move        string
	to          string
	inside      bool
	after       bool
	yes         bool
	watch       bool
	showVersion bool

	set   map[string]bool // Flags given explicitly
	files []string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("bonsai", flag.ContinueOnError)
	fs.SetOutput(stderr)
	o := &options{set: map[string]bool{}}
	fs.StringVar(&o.root, "root", "", "Root node id (default from config, else \"root\")")
	fs.BoolVar(&o.foldersTop, "folders-on-top", false, "Order folders before files among siblings")
	fs.StringVar(&o.configPath, "config", "", "Config file (default: discovered .bonsai/config.yaml)")
	fs.BoolVar(&o.check, "check", false, "Validate the collection and print diagnostics (exit 1 when invalid)")
	fs.BoolVar(&o.print, "print", false, "Print the fully expanded tree as Markdown")
	fs.StringVar(&o.exportSVG, "export-svg", "", "Write the expanded outline as SVG to this path")
	fs.StringVar(&o.dragImage, "drag-image", "", "With -move, write the drag image PNG of the moved nodes")
	fs.StringVar(&o.move, "move", "", "Comma-separated ids to move, in selection order")
	fs.StringVar(&o.to, "to", "", "Drop target id for -move")
	fs.BoolVar(&o.inside, "inside", false, "Drop inside the target folder")
	fs.BoolVar(&o.after, "after", false, "Insert after the target (default: before)")
	fs.BoolVar(&o.yes, "yes", false, "Write -move results without asking")
	fs.BoolVar(&o.watch, "watch", false, "Reload the TUI when a file changes")
	fs.BoolVar(&o.showVersion, "version", false, "Show version")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: bonsai [flags] FILE [FILE...]")
		fmt.Fprintln(stderr, "\nBrowse and rearrange a tree stored as a flat JSON or YAML node list.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	o.files = fs.Args()
	return o, nil
}

// run executes the command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if o.showVersion {
		fmt.Fprintf(stdout, "bonsai %s\n", version)
		return 0
	}
	if len(o.files) == 0 {
		fmt.Fprintln(stderr, "Error: at least one FILE is required")
		return 2
	}
	if o.move != "" && o.to == "" {
		fmt.Fprintln(stderr, "Error: -move needs -to")
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	cfg, projectDir, err := config.LoadOrDefault(o.configPath, cwd)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	if o.set["root"] {
		cfg.RootID = o.root
	}
	if o.set["folders-on-top"] {
		cfg.FolderOnTop = o.foldersTop
	}

	closeLog, err := logger.Init(logger.Options{
		Enabled: cfg.Log.Enabled,
		LogDir:  cfg.Log.Dir,
		Level:   logger.ParseLevel(cfg.Log.Level),
	})
	if err != nil {
		fmt.Fprintf(stderr, "Warning: logging disabled: %v\n", err)
	} else {
		defer closeLog()
	}

	nodes, err := loader.LoadMany(context.Background(), o.files)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading nodes: %v\n", err)
		return 1
	}
	logger.Info("bonsai: loaded", "files", len(o.files), "nodes", len(nodes))

	if o.check {
		rep := analysis.Diagnose(nodes, cfg.RootID, cfg.FolderOnTop)
		fmt.Fprint(stdout, rep.Summary())
		if !rep.Healthy() {
			return 1
		}
		return 0
	}

	ix, err := tree.Build(nodes, cfg.RootID, cfg.FolderOnTop)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprint(stderr, analysis.Diagnose(nodes, cfg.RootID, cfg.FolderOnTop).Summary())
		return 1
	}

	acted := false
	if o.print {
		acted = true
		if err := printTree(stdout, ix, titleFor(o.files)); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	if o.exportSVG != "" {
		acted = true
		if err := export.SaveSVG(ix, o.exportSVG, export.SVGOptions{}); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(stderr, "Wrote %s\n", o.exportSVG)
	}
	if o.move != "" {
		acted = true
		if err := moveNodes(o, ix, stdout, stderr); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	if acted {
		return 0
	}

	if err := runTUI(o, cfg, projectDir, cwd, nodes); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func titleFor(files []string) string {
	if len(files) == 1 {
		return strings.TrimSuffix(filepath.Base(files[0]), filepath.Ext(files[0]))
	}
	return "bonsai"
}

// printTree writes the Markdown outline, styled with glamour when stdout is
// a terminal.
func printTree(w io.Writer, ix *tree.Index, title string) error {
	md := export.GenerateMarkdown(ix, title)
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		_, err := io.WriteString(w, md)
		return err
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	out, err := export.RenderMarkdown(md, width)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// staticSelection reports the moved ids as the multi-selection, so a
// target inside the moved set is rejected like it is in the TUI.
type staticSelection []string

func (s staticSelection) SecondaryIDs() []string { return s }

// planMove validates a command line move and returns the proposal.
func planMove(ix *tree.Index, ids []string, targetID string, inside, after bool) ([]model.TreeNode, error) {
	target, ok := ix.Node(targetID)
	if !ok {
		return nil, fmt.Errorf("unknown target %q", targetID)
	}
	if inside && !target.IsFolder {
		return nil, fmt.Errorf("target %q is not a folder", targetID)
	}

	seq := tree.Flatten(ix, ix.RootID(), tree.NewOpenSet(ix.FolderIDs()...))
	dnd := dragdrop.New(ix, seq, staticSelection(ids), dragdrop.Options{})
	for _, id := range ids {
		n, ok := ix.Node(id)
		if !ok {
			return nil, fmt.Errorf("unknown node %q", id)
		}
		if !n.Draggable {
			return nil, fmt.Errorf("%q: %w", id, dragdrop.ErrNotDraggable)
		}
		if !dnd.CanDrop(id, targetID) {
			return nil, fmt.Errorf("cannot drop %q on %q: %w", id, targetID, dragdrop.ErrInvalidDrop)
		}
	}
	return dragdrop.ComputeDrop(ix, ids, target, inside, after)
}

func splitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func moveNodes(o *options, ix *tree.Index, stdout, stderr io.Writer) error {
	ids := splitIDs(o.move)
	out, err := planMove(ix, ids, o.to, o.inside, o.after)
	if err != nil {
		return err
	}

	if o.dragImage != "" {
		labels := make([]string, 0, len(ids))
		for _, id := range dragdrop.FoldDescendants(ix, ids) {
			n, _ := ix.Node(id)
			labels = append(labels, n.Label)
		}
		if err := export.SaveDragImage(labels, o.dragImage, export.DragImageOptions{}); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "Wrote %s\n", o.dragImage)
	}

	where := "before"
	switch {
	case o.inside && o.after:
		where = "at the end of"
	case o.inside:
		where = "at the start of"
	case o.after:
		where = "after"
	}
	summary := fmt.Sprintf("Move %s %s %q and write %s?", strings.Join(ids, ", "), where, o.to, o.files[0])

	if !o.yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("refusing to write without -yes when stdin is not a terminal")
		}
		confirmed := false
		err := huh.NewConfirm().
			Title(summary).
			Affirmative("Write").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(stdout, "Cancelled")
			return nil
		}
	}

	if err := loader.Save(o.files[0], out); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Moved %d node(s) %s %s\n", len(ids), where, o.to)
	return nil
}

func runTUI(o *options, cfg *config.Config, projectDir, cwd string, nodes []model.TreeNode) error {
	if projectDir != "" {
		if err := config.EnsureStateDirIgnored(projectDir); err != nil {
			logger.Warn("bonsai: could not update .gitignore", "err", err)
		}
	} else {
		projectDir = cwd
	}

	var worker *ui.BackgroundWorker
	if o.watch {
		w, err := ui.NewBackgroundWorker(ui.WorkerConfig{
			Paths:       o.files,
			RootID:      cfg.RootID,
			FolderOnTop: cfg.FolderOnTop,
		})
		if err != nil {
			return fmt.Errorf("watching files: %w", err)
		}
		w.SetLastHash(nodes)
		if err := w.Start(); err != nil {
			return fmt.Errorf("watching files: %w", err)
		}
		defer w.Stop()
		worker = w
	}

	m, err := ui.NewModel(ui.Options{
		Config:    *cfg,
		Nodes:     nodes,
		Paths:     o.files,
		StatePath: cfg.StatePath(projectDir),
		Worker:    worker,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(ui.Model); ok && fm.Dirty() {
		fmt.Fprintln(os.Stderr, "Unsaved moves were discarded (ctrl+s saves)")
	}
	return nil
}
