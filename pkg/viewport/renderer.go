package viewport

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/Dicklesworthstone/bonsai/pkg/tree"
)

// RowRenderer draws one row of the current sequence.
type RowRenderer func(index int, row tree.Row, width int) string

// Renderer is a windowed Binding: it only renders rows inside the window,
// so drawing cost stays constant regardless of sequence length. Row heights
// are one line.
type Renderer struct {
	seq          *tree.Sequence
	render       RowRenderer
	viewport     viewport.Model
	width        int
	height       int
	scrollOffset int // Tracked independently of viewport.YOffset

	lastRequest *ScrollRequest
}

// NewRenderer creates a renderer that draws rows with render.
func NewRenderer(render RowRenderer) *Renderer {
	return &Renderer{
		render:   render,
		viewport: viewport.New(0, 0),
	}
}

// SetSize updates the window size.
func (r *Renderer) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.viewport.Width = width
	r.viewport.Height = height
	r.clamp()
}

// SetSequence swaps in a freshly flattened sequence.
func (r *Renderer) SetSequence(seq *tree.Sequence) {
	r.seq = seq
	r.clamp()
}

// ScrollToIndex moves the window so req.Index is visible at the requested
// alignment. Smooth is recorded but rendered as a jump: a terminal redraw is
// the smallest step available.
func (r *Renderer) ScrollToIndex(req ScrollRequest) {
	if r.seq == nil || req.Index < 0 || req.Index >= r.seq.Len() {
		return
	}
	saved := req
	r.lastRequest = &saved

	h := r.visibleHeight()
	switch req.Align {
	case AlignStart:
		r.scrollOffset = req.Index
	case AlignCenter:
		r.scrollOffset = req.Index - h/2
	case AlignEnd:
		r.scrollOffset = req.Index - h + 1
	default:
		if req.Index < r.scrollOffset {
			r.scrollOffset = req.Index
		}
		if req.Index >= r.scrollOffset+h {
			r.scrollOffset = req.Index - h + 1
		}
	}
	r.clamp()
}

// EnsureVisible scrolls the minimum needed to reveal index.
func (r *Renderer) EnsureVisible(index int) {
	r.ScrollToIndex(ScrollRequest{Index: index, Align: AlignAuto})
}

// Width returns the window width in columns.
func (r *Renderer) Width() int {
	return r.width
}

// LastRequest returns the most recent accepted scroll request.
func (r *Renderer) LastRequest() (ScrollRequest, bool) {
	if r.lastRequest == nil {
		return ScrollRequest{}, false
	}
	return *r.lastRequest, true
}

// Offset returns the index of the first row in the window.
func (r *Renderer) Offset() int {
	return r.scrollOffset
}

// Window returns the half-open range of rows currently drawn.
func (r *Renderer) Window() (start, end int) {
	if r.seq == nil {
		return 0, 0
	}
	start = r.scrollOffset
	end = start + r.visibleHeight()
	if end > r.seq.Len() {
		end = r.seq.Len()
	}
	return start, end
}

// RowAt maps a window-relative line (e.g. a mouse Y) to a sequence index.
func (r *Renderer) RowAt(line int) (int, bool) {
	start, end := r.Window()
	i := start + line
	if line < 0 || i >= end {
		return 0, false
	}
	return i, true
}

// View renders the rows inside the window.
func (r *Renderer) View() string {
	if r.seq == nil {
		return ""
	}
	start, end := r.Window()

	var b strings.Builder
	for i := start; i < end; i++ {
		row, _ := r.seq.Row(i)
		b.WriteString(r.render(i, row, r.width))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	r.viewport.SetContent(b.String())
	r.viewport.YOffset = 0
	return r.viewport.View()
}

func (r *Renderer) visibleHeight() int {
	if r.height <= 0 {
		return 20
	}
	return r.height
}

// clamp keeps the offset within [0, len - height].
func (r *Renderer) clamp() {
	if r.seq == nil {
		r.scrollOffset = 0
		return
	}
	maxOffset := r.seq.Len() - r.visibleHeight()
	if maxOffset < 0 {
		maxOffset = 0
	}
	if r.scrollOffset > maxOffset {
		r.scrollOffset = maxOffset
	}
	if r.scrollOffset < 0 {
		r.scrollOffset = 0
	}
}
