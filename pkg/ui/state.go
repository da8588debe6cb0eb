package ui

import (
	"os"
	"path/filepath"

	"github.com/Dicklesworthstone/bonsai/pkg/logger"
	"github.com/Dicklesworthstone/bonsai/pkg/tree"
	json "github.com/goccy/go-json"
)

// TreeState is the persisted view state of the tree, saved to
// <state_dir>/tree-state.json so the open folders survive restarts.
//
// File format (JSON):
//
//	{
//	  "version": 1,
//	  "open": ["src", "src/components"]
//	}
//
// Stale ids are kept in the file and ignored when flattening; a missing or
// corrupted file means everything starts collapsed.
type TreeState struct {
	Version int      `json:"version"`
	Open    []string `json:"open"`
}

// TreeStateVersion is the current schema version for tree persistence
const TreeStateVersion = 1

// LoadTreeState reads the open set from path. Any failure yields an empty
// set; only a corrupted file is worth a warning.
func LoadTreeState(path string) tree.OpenSet {
	if path == "" {
		return tree.NewOpenSet()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return tree.NewOpenSet()
	}

	var state TreeState
	if err := json.Unmarshal(data, &state); err != nil {
		logger.Warn("ui: invalid tree state file, starting collapsed", "path", path, "err", err)
		return tree.NewOpenSet()
	}
	if state.Version != TreeStateVersion {
		logger.Warn("ui: unknown tree state version", "path", path, "version", state.Version)
		return tree.NewOpenSet()
	}
	return tree.NewOpenSet(state.Open...)
}

// SaveTreeState writes the open set to path. Errors are logged but do not
// interrupt the user.
func SaveTreeState(path string, open tree.OpenSet) {
	if path == "" {
		return
	}
	state := TreeState{Version: TreeStateVersion, Open: open.IDs()}
	if state.Open == nil {
		state.Open = []string{}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		logger.Warn("ui: failed to marshal tree state", "err", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Warn("ui: failed to create state directory", "path", path, "err", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Warn("ui: failed to write tree state", "path", path, "err", err)
	}
}
