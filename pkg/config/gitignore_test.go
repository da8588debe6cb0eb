package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCoversStateDir(t *testing.T) {
	tests := []struct {
		line    string
		matches bool
	}{
		{".bonsai", true},
		{".bonsai/", true},
		{".bonsai/*", true},
		{".bonsai/**", true},
		{".bonsai/**/*", true},
		{"/.bonsai/", true},
		{"", false},
		{".bonsai2", false},
		{"bonsai/", false},
		{"*.bonsai", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := coversStateDir(tt.line); got != tt.matches {
				t.Errorf("coversStateDir(%q) = %v, want %v", tt.line, got, tt.matches)
			}
		})
	}
}

func TestEnsureStateDirIgnored(t *testing.T) {
	tests := []struct {
		name     string
		existing *string
		want     string
	}{
		{"no file", nil, "# bonsai view state\n.bonsai/\n"},
		{"no trailing newline", ptr("node_modules/"), "node_modules/\n\n# bonsai view state\n.bonsai/\n"},
		{"trailing newline", ptr("*.log\n"), "*.log\n\n# bonsai view state\n.bonsai/\n"},
		{"already present", ptr("/.bonsai\n"), "/.bonsai\n"},
		{"commented out", ptr("# .bonsai/\n"), "# .bonsai/\n\n# bonsai view state\n.bonsai/\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, ".gitignore")
			if tt.existing != nil {
				if err := os.WriteFile(path, []byte(*tt.existing), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			if err := EnsureStateDirIgnored(dir); err != nil {
				t.Fatal(err)
			}
			// Second call must not append again.
			if err := EnsureStateDirIgnored(dir); err != nil {
				t.Fatal(err)
			}
			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
			if strings.Count(string(got), ".bonsai/\n") > 1 && tt.name != "commented out" {
				t.Error("pattern appended twice")
			}
		})
	}
}

func ptr(s string) *string { return &s }
