package ui

import (
	"context"
	"fmt"
	"hash/fnv"
	"runtime/debug"
	"sync"
	"time"

	"github.com/Dicklesworthstone/bonsai/pkg/analysis"
	"github.com/Dicklesworthstone/bonsai/pkg/loader"
	"github.com/Dicklesworthstone/bonsai/pkg/logger"
	"github.com/Dicklesworthstone/bonsai/pkg/model"
	tea "github.com/charmbracelet/bubbletea"
	json "github.com/goccy/go-json"
)

// WorkerState represents the current state of the background worker.
type WorkerState int

const (
	// WorkerIdle means the worker is waiting for file changes.
	WorkerIdle WorkerState = iota
	// WorkerProcessing means the worker is building a new snapshot.
	WorkerProcessing
	// WorkerStopped means the worker has been stopped.
	WorkerStopped
)

// WorkerError wraps errors with the phase they happened in.
type WorkerError struct {
	Phase string // "load", "diagnose"
	Cause error
	Time  time.Time
}

func (e WorkerError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Phase, e.Cause)
}

func (e WorkerError) Unwrap() error {
	return e.Cause
}

// Snapshot is one reloaded collection. Report is set when the collection
// does not build, so the UI can say why instead of swapping it in.
type Snapshot struct {
	Nodes  []model.TreeNode
	Report *analysis.Report
	Hash   uint64
}

// SnapshotReadyMsg carries a new snapshot into the bubbletea loop.
type SnapshotReadyMsg struct {
	Snapshot *Snapshot
	Err      *WorkerError
}

// WorkerConfig configures the BackgroundWorker.
type WorkerConfig struct {
	Paths       []string
	RootID      string
	FolderOnTop bool
}

// BackgroundWorker owns the file watcher and turns reloads into snapshots
// off the UI goroutine. Identical content is deduplicated.
type BackgroundWorker struct {
	cfg WorkerConfig

	mu       sync.Mutex
	state    WorkerState
	started  bool
	lastHash uint64

	watcher *loader.Watcher
	out     chan SnapshotReadyMsg

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewBackgroundWorker creates a worker watching cfg.Paths.
func NewBackgroundWorker(cfg WorkerConfig) (*BackgroundWorker, error) {
	fw, err := loader.NewWatcher(cfg.Paths)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &BackgroundWorker{
		cfg:     cfg,
		watcher: fw,
		out:     make(chan SnapshotReadyMsg, 1),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching. Calling it again has no effect.
func (w *BackgroundWorker) Start() error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = true
	w.mu.Unlock()

	if err := w.watcher.Start(); err != nil {
		close(w.done)
		return err
	}
	go w.processLoop()
	return nil
}

// Stop halts the worker. It is idempotent.
func (w *BackgroundWorker) Stop() {
	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	w.state = WorkerStopped
	wasStarted := w.started
	w.mu.Unlock()

	w.cancel()
	w.watcher.Stop()
	if wasStarted {
		select {
		case <-w.done:
		case <-time.After(2 * time.Second):
		}
	}
}

// State returns the current worker state.
func (w *BackgroundWorker) State() WorkerState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// SetLastHash records content the UI already shows, e.g. after the user
// saved it, so the resulting file event is not reloaded.
func (w *BackgroundWorker) SetLastHash(nodes []model.TreeNode) {
	h := hashNodes(nodes)
	w.mu.Lock()
	w.lastHash = h
	w.mu.Unlock()
}

// WaitForSnapshot returns a command that blocks until the next snapshot.
func (w *BackgroundWorker) WaitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-w.out:
			return msg
		case <-w.ctx.Done():
			return nil
		}
	}
}

func (w *BackgroundWorker) processLoop() {
	defer close(w.done)
	for {
		select {
		case <-w.ctx.Done():
			return
		case r, ok := <-w.watcher.Changes():
			if !ok {
				return
			}
			if msg, ok := w.process(r); ok {
				w.publish(msg)
			}
		}
	}
}

// process builds a snapshot from one reload. It returns false for content
// identical to the last snapshot.
func (w *BackgroundWorker) process(r loader.Reload) (SnapshotReadyMsg, bool) {
	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return SnapshotReadyMsg{}, false
	}
	w.state = WorkerProcessing
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		if w.state == WorkerProcessing {
			w.state = WorkerIdle
		}
		w.mu.Unlock()
	}()

	if r.Err != nil {
		logger.Warn("ui: reload failed", "err", r.Err)
		return SnapshotReadyMsg{Err: &WorkerError{Phase: "load", Cause: r.Err, Time: time.Now()}}, true
	}

	h := hashNodes(r.Nodes)
	w.mu.Lock()
	same := h == w.lastHash
	w.lastHash = h
	w.mu.Unlock()
	if same {
		return SnapshotReadyMsg{}, false
	}

	snap := &Snapshot{Nodes: r.Nodes, Hash: h}
	if werr := safeCompute("diagnose", func() error {
		rep := analysis.Diagnose(r.Nodes, w.cfg.RootID, w.cfg.FolderOnTop)
		if !rep.Healthy() {
			snap.Report = rep
		}
		return nil
	}); werr != nil {
		return SnapshotReadyMsg{Err: werr}, true
	}
	return SnapshotReadyMsg{Snapshot: snap}, true
}

func (w *BackgroundWorker) publish(msg SnapshotReadyMsg) {
	select {
	case w.out <- msg:
		return
	default:
	}
	// Replace a snapshot the UI has not picked up yet.
	select {
	case <-w.out:
	default:
	}
	select {
	case w.out <- msg:
	default:
	}
}

// safeCompute executes fn and recovers from any panics.
func safeCompute(phase string, fn func() error) (result *WorkerError) {
	defer func() {
		if r := recover(); r != nil {
			result = &WorkerError{
				Phase: phase,
				Cause: fmt.Errorf("panic: %v\n%s", r, debug.Stack()),
				Time:  time.Now(),
			}
		}
	}()
	if err := fn(); err != nil {
		return &WorkerError{Phase: phase, Cause: err, Time: time.Now()}
	}
	return nil
}

func hashNodes(nodes []model.TreeNode) uint64 {
	data, err := json.Marshal(nodes)
	if err != nil {
		return 0
	}
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64()
}
