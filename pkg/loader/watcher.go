package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/Dicklesworthstone/bonsai/pkg/logger"
	"github.com/Dicklesworthstone/bonsai/pkg/model"
	"github.com/fsnotify/fsnotify"
)

// Reload is one re-read of the watched files.
type Reload struct {
	Nodes []model.TreeNode
	Err   error
}

// Watcher reloads a set of collection files when any of them changes.
type Watcher struct {
	paths   []string
	names   map[string]struct{}
	watcher *fsnotify.Watcher
	out     chan Reload

	debounce time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	once     sync.Once
}

// NewWatcher creates a watcher for paths. Call Start to begin.
func NewWatcher(paths []string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())

	w := &Watcher{
		paths:    paths,
		names:    make(map[string]struct{}, len(paths)),
		watcher:  fw,
		out:      make(chan Reload, 1),
		debounce: 150 * time.Millisecond,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		w.names[abs] = struct{}{}
	}
	return w, nil
}

// Changes delivers reloads. Only the newest pending reload is kept.
func (w *Watcher) Changes() <-chan Reload {
	return w.out
}

// Start watches the directories holding the files. Directories rather than
// files are watched so editors that replace a file by rename still trigger.
func (w *Watcher) Start() error {
	dirs := make(map[string]struct{})
	for name := range w.names {
		dirs[filepath.Dir(name)] = struct{}{}
	}
	for d := range dirs {
		if err := w.watcher.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}
	go w.watchLoop()
	return nil
}

// Stop shuts the watcher down and closes Changes.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		w.cancel()
		w.watcher.Close()
	})
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	_, ok := w.names[abs]
	return ok
}

func (w *Watcher) watchLoop() {
	defer close(w.out)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-w.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			// Collapse bursts of writes into one reload.
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.publish(w.reload())

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("loader: watcher error", "err", err)
		}
	}
}

func (w *Watcher) reload() Reload {
	nodes, err := LoadMany(w.ctx, w.paths)
	return Reload{Nodes: nodes, Err: err}
}

func (w *Watcher) publish(r Reload) {
	select {
	case w.out <- r:
		return
	default:
	}
	// Drop the stale pending reload in favour of this one.
	select {
	case <-w.out:
	default:
	}
	select {
	case w.out <- r:
	default:
	}
}
