package ui

import "github.com/charmbracelet/lipgloss"

// Theme holds the colors and styles the tree view draws with.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Folder    lipgloss.AdaptiveColor
	Danger    lipgloss.AdaptiveColor
	Bg        lipgloss.AdaptiveColor
	BgAccent  lipgloss.AdaptiveColor

	Selected   lipgloss.Style
	Focused    lipgloss.Style
	DropTarget lipgloss.Style
	Guide      lipgloss.Style
	FolderText lipgloss.Style
	Locked     lipgloss.Style
	StatusBar  lipgloss.Style
	StatusErr  lipgloss.Style
	Help       lipgloss.Style
}

// DefaultTheme returns the standard palette bound to r (nil for the
// default renderer).
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	t := Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"},
		Secondary: lipgloss.AdaptiveColor{Light: "#1F7A5C", Dark: "#50FA7B"},
		Muted:     lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#6C6C6C"},
		Highlight: lipgloss.AdaptiveColor{Light: "#C25E00", Dark: "#FFB86C"},
		Folder:    lipgloss.AdaptiveColor{Light: "#8A6D00", Dark: "#F1FA8C"},
		Danger:    lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF5555"},
		Bg:        lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1F29"},
		BgAccent:  lipgloss.AdaptiveColor{Light: "#E6E6F5", Dark: "#44475A"},
	}

	t.Selected = r.NewStyle().Background(t.BgAccent).Bold(true)
	t.Focused = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.DropTarget = r.NewStyle().Foreground(t.Secondary).Underline(true)
	t.Guide = r.NewStyle().Foreground(t.Muted)
	t.FolderText = r.NewStyle().Foreground(t.Folder).Bold(true)
	t.Locked = r.NewStyle().Foreground(t.Muted).Italic(true)
	t.StatusBar = r.NewStyle().Foreground(t.Primary).Padding(0, 1)
	t.StatusErr = r.NewStyle().Foreground(t.Danger).Bold(true).Padding(0, 1)
	t.Help = r.NewStyle().Foreground(t.Muted).Padding(0, 1)
	return t
}
