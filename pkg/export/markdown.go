// Package export renders a tree as markdown, SVG and drag ghost images.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/Dicklesworthstone/bonsai/pkg/tree"
	"github.com/charmbracelet/glamour"
)

// Outline returns the fully expanded visible sequence without the sentinel.
func Outline(ix *tree.Index) []tree.Row {
	seq := tree.Flatten(ix, ix.RootID(), tree.NewOpenSet(ix.FolderIDs()...))
	rows := seq.Rows()
	return rows[:len(rows)-1]
}

func label(r tree.Row) string {
	if r.Node.Label != "" {
		return r.Node.Label
	}
	return r.Node.ID
}

// GenerateMarkdown writes the tree as a nested markdown list. Folders are
// bold and carry their child count.
func GenerateMarkdown(ix *tree.Index, title string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	}

	rows := Outline(ix)
	if len(rows) == 0 {
		sb.WriteString("_empty tree_\n")
		return sb.String()
	}
	for _, r := range rows {
		indent := strings.Repeat("  ", r.Depth-1)
		text := escapeMarkdown(label(r))
		if r.Node.IsFolder {
			sb.WriteString(fmt.Sprintf("%s- **%s/** (%d)\n", indent, text, r.ChildCount))
		} else {
			sb.WriteString(fmt.Sprintf("%s- %s\n", indent, text))
		}
	}
	return sb.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// RenderMarkdown styles markdown for a terminal of the given width.
func RenderMarkdown(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	return r.Render(md)
}

// SaveMarkdownToFile writes the markdown outline to a file
func SaveMarkdownToFile(ix *tree.Index, title, filename string) error {
	return os.WriteFile(filename, []byte(GenerateMarkdown(ix, title)), 0o644)
}
