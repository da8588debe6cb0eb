package export

import (
	"errors"
	"fmt"
	"io"
	"os"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"
)

// DragImageOptions controls the ghost image.
type DragImageOptions struct {
	MaxLabels int // Labels drawn before "+N more"; default 5
	Width     int // default 220
}

const (
	ghostRowHeight = 20
	ghostPadding   = 8
	ghostOffset    = 3 // Shift of each stacked card
)

// DragImage draws the labels of dragged nodes as a stack of cards, the
// ghost shown under the pointer while dragging.
func DragImage(w io.Writer, labels []string, opts DragImageOptions) error {
	if len(labels) == 0 {
		return errors.New("drag image needs at least one label")
	}
	if opts.MaxLabels <= 0 {
		opts.MaxLabels = 5
	}
	if opts.Width <= 0 {
		opts.Width = 220
	}

	shown := labels
	extra := 0
	if len(shown) > opts.MaxLabels {
		extra = len(shown) - opts.MaxLabels
		shown = shown[:opts.MaxLabels]
	}
	lines := len(shown)
	if extra > 0 {
		lines++
	}

	stack := min(len(labels), 3) - 1
	cardH := lines*ghostRowHeight + 2*ghostPadding
	width := opts.Width + stack*ghostOffset
	height := cardH + stack*ghostOffset

	dc := gg.NewContext(width, height)
	dc.SetRGBA(0, 0, 0, 0)
	dc.Clear()

	// Back cards first so the front card covers them.
	for i := stack; i >= 0; i-- {
		off := float64(i * ghostOffset)
		dc.DrawRoundedRectangle(off, off, float64(opts.Width)-1, float64(cardH)-1, 4)
		shade := 0.97 - 0.06*float64(i)
		dc.SetRGBA(shade, shade, shade, 0.92)
		dc.FillPreserve()
		dc.SetRGB(0.55, 0.6, 0.7)
		dc.SetLineWidth(1)
		dc.Stroke()
	}

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetRGB(0.12, 0.12, 0.15)
	maxText := float64(opts.Width - 2*ghostPadding)
	for i, l := range shown {
		y := float64(ghostPadding + i*ghostRowHeight + ghostRowHeight/2)
		dc.DrawStringAnchored(fitText(dc, l, maxText), ghostPadding, y, 0, 0.5)
	}
	if extra > 0 {
		dc.SetRGB(0.4, 0.4, 0.45)
		y := float64(ghostPadding + len(shown)*ghostRowHeight + ghostRowHeight/2)
		dc.DrawStringAnchored(fmt.Sprintf("+%d more", extra), ghostPadding, y, 0, 0.5)
	}

	return dc.EncodePNG(w)
}

// fitText trims s with an ellipsis until it fits maxWidth.
func fitText(dc *gg.Context, s string, maxWidth float64) string {
	if w, _ := dc.MeasureString(s); w <= maxWidth {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		candidate := string(r) + "..."
		if w, _ := dc.MeasureString(candidate); w <= maxWidth {
			return candidate
		}
	}
	return "..."
}

// SaveDragImage writes the ghost PNG to a file.
func SaveDragImage(labels []string, filename string, opts DragImageOptions) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := DragImage(f, labels, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
