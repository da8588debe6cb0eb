package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/bonsai/pkg/loader"
	"github.com/Dicklesworthstone/bonsai/pkg/tree/treetest"
)

func newTestWorker() *BackgroundWorker {
	ctx, cancel := context.WithCancel(context.Background())
	return &BackgroundWorker{
		cfg:    WorkerConfig{RootID: treetest.RootID},
		out:    make(chan SnapshotReadyMsg, 1),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

func TestWorkerProcessDeduplicates(t *testing.T) {
	w := newTestWorker()

	msg, ok := w.process(loader.Reload{Nodes: treetest.Basic()})
	if !ok || msg.Snapshot == nil || msg.Err != nil {
		t.Fatalf("first reload = %+v, %v", msg, ok)
	}
	if msg.Snapshot.Report != nil {
		t.Errorf("healthy collection got report %v", msg.Snapshot.Report.Summary())
	}
	if _, ok := w.process(loader.Reload{Nodes: treetest.Basic()}); ok {
		t.Error("identical content should be skipped")
	}
	if w.State() != WorkerIdle {
		t.Errorf("state = %v, want idle", w.State())
	}
}

func TestWorkerSetLastHashSkipsOwnSave(t *testing.T) {
	w := newTestWorker()
	w.SetLastHash(treetest.Basic())
	if _, ok := w.process(loader.Reload{Nodes: treetest.Basic()}); ok {
		t.Error("content marked as shown should be skipped")
	}
}

func TestWorkerProcessReportsBrokenCollection(t *testing.T) {
	w := newTestWorker()
	nodes := append(treetest.Basic(), treetest.File("X", "missing"))

	msg, ok := w.process(loader.Reload{Nodes: nodes})
	if !ok || msg.Snapshot == nil {
		t.Fatalf("reload = %+v, %v", msg, ok)
	}
	if msg.Snapshot.Report == nil || msg.Snapshot.Report.Healthy() {
		t.Error("expected an unhealthy report")
	}
}

func TestWorkerProcessLoadError(t *testing.T) {
	w := newTestWorker()
	cause := errors.New("boom")

	msg, ok := w.process(loader.Reload{Err: cause})
	if !ok || msg.Err == nil {
		t.Fatalf("reload = %+v, %v", msg, ok)
	}
	if msg.Err.Phase != "load" || !errors.Is(msg.Err, cause) {
		t.Errorf("err = %v", msg.Err)
	}
}

func TestWorkerPublishKeepsNewest(t *testing.T) {
	w := newTestWorker()
	w.publish(SnapshotReadyMsg{Snapshot: &Snapshot{Hash: 1}})
	w.publish(SnapshotReadyMsg{Snapshot: &Snapshot{Hash: 2}})

	got := w.WaitForSnapshot()().(SnapshotReadyMsg)
	if got.Snapshot.Hash != 2 {
		t.Errorf("hash = %d, want 2", got.Snapshot.Hash)
	}
}

func TestWaitForSnapshotAfterCancel(t *testing.T) {
	w := newTestWorker()
	w.cancel()
	if msg := w.WaitForSnapshot()(); msg != nil {
		t.Errorf("msg = %v, want nil", msg)
	}
}

func TestSafeComputeRecoversPanic(t *testing.T) {
	err := safeCompute("diagnose", func() error { panic("bad") })
	if err == nil || err.Phase != "diagnose" {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(err.Error(), "panic: bad") {
		t.Errorf("err = %v", err)
	}
	if safeCompute("x", func() error { return nil }) != nil {
		t.Error("nil fn error should be nil")
	}
}
