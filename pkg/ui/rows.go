package ui

import (
	"strconv"
	"strings"

	"github.com/Dicklesworthstone/bonsai/pkg/tree"
	"github.com/mattn/go-runewidth"
)

// Row glyphs.
const (
	glyphOpen   = "▾"
	glyphClosed = "▸"
	glyphFile   = "•"
	glyphBranch = "├─"
	glyphLast   = "└─"
	glyphEnd    = "┄ end"
)

// rowFlags is the per-row state the host adds on top of the tree row.
type rowFlags struct {
	Selected   bool
	Focused    bool
	DropTarget bool
	DropMark   string // "", "inside", "before" or "after"
}

// rowLayout turns a row into its plain text. Styling is applied on top so
// tests can assert on layout without ANSI codes.
func rowLayout(row tree.Row, depthStep, width int) string {
	if row.Sentinel {
		return truncate(glyphEnd, width)
	}

	var b strings.Builder
	indent := (row.Depth - 1) * depthStep
	if indent < 0 {
		indent = 0
	}
	b.WriteString(strings.Repeat(" ", indent))
	if row.Depth > 0 {
		if row.LastOfFolder {
			b.WriteString(glyphLast)
		} else {
			b.WriteString(glyphBranch)
		}
		b.WriteByte(' ')
	}

	switch {
	case row.Node.IsFolder && row.Opened:
		b.WriteString(glyphOpen)
	case row.Node.IsFolder:
		b.WriteString(glyphClosed)
	default:
		b.WriteString(glyphFile)
	}
	b.WriteByte(' ')
	b.WriteString(row.Node.Label)
	if row.Node.IsFolder {
		b.WriteString(" (" + strconv.Itoa(row.ChildCount) + ")")
	}
	return truncate(b.String(), width)
}

// styleRow draws a laid-out row with the theme.
func styleRow(t Theme, row tree.Row, f rowFlags, depthStep, width int) string {
	text := rowLayout(row, depthStep, width-markWidth(f))
	if f.DropMark != "" {
		text += " ⇢ " + f.DropMark
	}

	style := t.Renderer.NewStyle()
	switch {
	case row.Sentinel:
		style = t.Guide
	case !row.Node.Draggable:
		style = t.Locked
	case row.Node.IsFolder:
		style = t.FolderText
	}
	if f.Selected {
		style = style.Inherit(t.Selected)
	}
	if f.DropTarget {
		style = style.Inherit(t.DropTarget)
	}

	cursor := "  "
	if f.Focused {
		cursor = t.Focused.Render("> ")
	}
	return cursor + style.Render(text)
}

func markWidth(f rowFlags) int {
	w := 2
	if f.DropMark != "" {
		w += runewidth.StringWidth(" ⇢ " + f.DropMark)
	}
	return w
}

// truncate shortens s to fit width display columns. A width of zero or
// less means unbounded.
func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return runewidth.Truncate(s, width, "…")
}
