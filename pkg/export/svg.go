package export

import (
	"fmt"
	"io"
	"os"

	"github.com/Dicklesworthstone/bonsai/pkg/tree"
	svg "github.com/ajstarks/svgo"
	"github.com/mattn/go-runewidth"
)

// SVGOptions controls outline geometry.
type SVGOptions struct {
	RowHeight int // default 22
	Indent    int // per depth level, default 18
	CharWidth int // approximate glyph advance, default 8
	Padding   int // default 12
}

func (o *SVGOptions) defaults() {
	if o.RowHeight <= 0 {
		o.RowHeight = 22
	}
	if o.Indent <= 0 {
		o.Indent = 18
	}
	if o.CharWidth <= 0 {
		o.CharWidth = 8
	}
	if o.Padding <= 0 {
		o.Padding = 12
	}
}

// WriteSVG draws the fully expanded tree as an outline with guide lines
// from each node to its parent.
func WriteSVG(w io.Writer, ix *tree.Index, opts SVGOptions) error {
	opts.defaults()
	rows := Outline(ix)

	width := 2 * opts.Padding
	for _, r := range rows {
		x := opts.Padding + r.Depth*opts.Indent + runewidth.StringWidth(label(r))*opts.CharWidth + opts.Indent
		if x+opts.Padding > width {
			width = x + opts.Padding
		}
	}
	height := 2*opts.Padding + max(len(rows), 1)*opts.RowHeight

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#ffffff")

	// Guide lines from each row up to its parent's row.
	rowY := make(map[string]int, len(rows))
	for i, r := range rows {
		y := opts.Padding + i*opts.RowHeight + opts.RowHeight/2
		rowY[r.Node.ID] = y
		x := opts.Padding + r.Depth*opts.Indent
		if py, ok := rowY[r.Node.ParentID]; ok {
			px := x - opts.Indent + opts.Indent/2
			canvas.Line(px, py+opts.RowHeight/2-4, px, y, "stroke:#c0c0c0;stroke-width:1")
			canvas.Line(px, y, x-2, y, "stroke:#c0c0c0;stroke-width:1")
		}
	}

	for i, r := range rows {
		y := opts.Padding + i*opts.RowHeight + opts.RowHeight/2
		x := opts.Padding + r.Depth*opts.Indent
		style := "font-family:monospace;font-size:13px;fill:#222222"
		text := label(r)
		if r.Node.IsFolder {
			canvas.Rect(x, y-5, 10, 10, "fill:#e8b84a;stroke:#a07a20")
			style += ";font-weight:bold"
			text = fmt.Sprintf("%s (%d)", text, r.ChildCount)
		} else {
			canvas.Circle(x+5, y, 3, "fill:#6a8fd0")
		}
		if !r.Node.Draggable {
			style += ";fill-opacity:0.6"
		}
		canvas.Text(x+16, y+4, text, style)
	}

	canvas.End()
	return nil
}

// SaveSVG writes the outline SVG to a file.
func SaveSVG(ix *tree.Index, filename string, opts SVGOptions) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteSVG(f, ix, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
