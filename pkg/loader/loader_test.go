package loader

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Dicklesworthstone/bonsai/pkg/model"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFormatFor(t *testing.T) {
	tests := map[string]Format{
		"tree.json": FormatJSON,
		"tree.YAML": FormatYAML,
		"tree.yml":  FormatYAML,
		"tree":      FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFor(path); got != want {
			t.Errorf("FormatFor(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestLoadJSONShapes(t *testing.T) {
	dir := t.TempDir()
	bare := writeFile(t, dir, "bare.json", `[
  {"id": "root", "parent": "root", "text": "", "isFolder": true, "canDrag": false},
  {"id": "a", "parent": "root", "text": "A", "isFolder": false, "canDrag": true, "data": {"size": 3}}
]`)
	wrapped := writeFile(t, dir, "wrapped.json", `{"nodes": [{"id": "a", "parent": "root", "text": "A"}]}`)

	nodes, err := Load(bare)
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 2 || nodes[1].Label != "A" || !nodes[1].Draggable {
		t.Errorf("bare = %+v", nodes)
	}
	if nodes[1].Payload == nil {
		t.Error("payload should pass through")
	}

	nodes, err = Load(wrapped)
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 || nodes[0].ID != "a" {
		t.Errorf("wrapped = %+v", nodes)
	}
}

func TestLoadYAMLShapes(t *testing.T) {
	dir := t.TempDir()
	bare := writeFile(t, dir, "bare.yaml", "- {id: root, parent: root, isFolder: true}\n- {id: a, parent: root, text: A}\n")
	wrapped := writeFile(t, dir, "wrapped.yml", "nodes:\n  - id: a\n    parent: root\n    canDrag: true\n")

	nodes, err := Load(bare)
	if err != nil {
		t.Fatal(err)
	}
	if got := model.IDs(nodes); !reflect.DeepEqual(got, []string{"root", "a"}) {
		t.Errorf("bare = %v", got)
	}
	nodes, err = Load(wrapped)
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 || !nodes[0].Draggable {
		t.Errorf("wrapped = %+v", nodes)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name, file, body, want string
	}{
		{"bad json", "x.json", "[{", "decoding json"},
		{"empty id", "y.json", `[{"id": "", "parent": "root"}]`, "node 0"},
		{"bad yaml", "z.yaml", "nodes: [", "decoding yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.body)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) || !strings.Contains(err.Error(), path) {
				t.Errorf("err = %v, want path and %q", err, tt.want)
			}
		})
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); !os.IsNotExist(err) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.json", "  \n")
	nodes, err := Load(path)
	if err != nil || len(nodes) != 0 {
		t.Errorf("Load(empty) = %v, %v", nodes, err)
	}
}

func TestLoadManyKeepsArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, id := range []string{"c", "a", "b"} {
		paths = append(paths, writeFile(t, dir, id+".json", `[{"id": "`+id+`", "parent": "root"}]`))
	}

	nodes, err := LoadMany(context.Background(), paths)
	if err != nil {
		t.Fatal(err)
	}
	if got := model.IDs(nodes); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Errorf("order = %v", got)
	}
}

func TestLoadManyFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `[{"id": "a", "parent": "root"}]`)
	_, err := LoadMany(context.Background(), []string{good, filepath.Join(dir, "nope.json")})
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	nodes := []model.TreeNode{
		{ID: "root", ParentID: "root", IsFolder: true},
		{ID: "a", ParentID: "root", Label: "A", Draggable: true},
	}
	for _, name := range []string{"out.json", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := Save(path, nodes); err != nil {
				t.Fatal(err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, nodes) {
				t.Errorf("round trip = %+v", got)
			}
			entries, _ := os.ReadDir(filepath.Dir(path))
			if len(entries) != 1 {
				t.Errorf("temp file left behind: %v", entries)
			}
		})
	}
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tree.json", `[{"id": "a", "parent": "root"}]`)

	w, err := NewWatcher([]string{path})
	if err != nil {
		t.Fatal(err)
	}
	w.debounce = 10 * time.Millisecond
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	writeFile(t, dir, "other.json", `[]`)
	writeFile(t, dir, "tree.json", `[{"id": "b", "parent": "root"}]`)

	select {
	case r := <-w.Changes():
		if r.Err != nil {
			t.Fatal(r.Err)
		}
		if got := model.IDs(r.Nodes); !reflect.DeepEqual(got, []string{"b"}) {
			t.Errorf("reloaded = %v", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload within 5s")
	}
}

func TestWatcherStopClosesChanges(t *testing.T) {
	w, err := NewWatcher([]string{filepath.Join(t.TempDir(), "x.json")})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()

	select {
	case _, ok := <-w.Changes():
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Changes not closed after Stop")
	}
}
