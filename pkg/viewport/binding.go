// Package viewport is the boundary between the tree core and whatever
// virtualizes rows on screen. The core emits a visible sequence and scroll
// requests; a Binding turns them into pixels, cells or markup.
package viewport

import "github.com/Dicklesworthstone/bonsai/pkg/tree"

// Align is where a scrolled-to row should land in the window.
type Align int

const (
	AlignAuto   Align = iota // Scroll the minimum needed to reveal the row
	AlignStart               // Row at the top
	AlignCenter              // Row centered
	AlignEnd                 // Row at the bottom
)

func (a Align) String() string {
	switch a {
	case AlignStart:
		return "start"
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	default:
		return "auto"
	}
}

// ScrollRequest asks a binding to bring a visible index into view.
type ScrollRequest struct {
	Index  int
	Align  Align
	Smooth bool
}

// Binding consumes visible sequences and scroll requests.
type Binding interface {
	SetSequence(seq *tree.Sequence)
	ScrollToIndex(req ScrollRequest)
}
