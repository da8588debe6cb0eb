// Package loader reads and writes node collections as JSON or YAML.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Dicklesworthstone/bonsai/pkg/model"
	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Format is a collection file encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the encoding from the file extension; anything that is
// not .yaml/.yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// document is the wrapped file form: {"nodes": [...]}. A bare array is
// accepted too.
type document struct {
	Nodes []model.TreeNode `json:"nodes" yaml:"nodes"`
}

// Decode parses a collection in the given format.
func Decode(data []byte, f Format) ([]model.TreeNode, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch f {
	case FormatYAML:
		var nodes []model.TreeNode
		if err := yaml.Unmarshal(trimmed, &nodes); err == nil {
			return nodes, nil
		}
		var doc document
		if err := yaml.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
		return doc.Nodes, nil
	default:
		if trimmed[0] == '[' {
			var nodes []model.TreeNode
			if err := json.Unmarshal(trimmed, &nodes); err != nil {
				return nil, fmt.Errorf("decoding json: %w", err)
			}
			return nodes, nil
		}
		var doc document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
		return doc.Nodes, nil
	}
}

// Encode writes a collection as a bare array in the given format.
func Encode(nodes []model.TreeNode, f Format) ([]byte, error) {
	if nodes == nil {
		nodes = []model.TreeNode{}
	}
	switch f {
	case FormatYAML:
		return yaml.Marshal(nodes)
	default:
		data, err := json.MarshalIndent(nodes, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// Load reads one collection file and validates each node.
func Load(path string) ([]model.TreeNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	nodes, err := Decode(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i := range nodes {
		if err := nodes[i].Validate(); err != nil {
			return nil, fmt.Errorf("%s: node %d: %w", path, i, err)
		}
	}
	return nodes, nil
}

// LoadMany loads every path concurrently and concatenates the results in
// argument order. The first failure cancels the rest.
func LoadMany(ctx context.Context, paths []string) ([]model.TreeNode, error) {
	results := make([][]model.TreeNode, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			nodes, err := Load(p)
			if err != nil {
				return err
			}
			results[i] = nodes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.TreeNode
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// Save writes nodes to path in the format its extension implies. The file
// is replaced atomically through a temp file in the same directory.
func Save(path string, nodes []model.TreeNode) error {
	data, err := Encode(nodes, FormatFor(path))
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
