package app

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const helpMarkdown = `# scoreleaf

Paged score reading. Pages are aligned to engraved systems, never cut
through one.

## Keys

| Key | Action |
| --- | --- |
| right, l, space, pgdn | next page |
| left, h, pgup | previous page |
| g, home | first page |
| G, end | last page |
| +, - | zoom in / out |
| 0 | reset zoom |
| ? | toggle this help |
| q | quit |

The mouse wheel also turns pages. Zoom and window size changes re-lay the
score out; the current position is kept.
`

// renderHelp renders the help overlay, caching the glamour output since the
// source never changes. If glamour fails the raw markdown is shown.
func (m *Model) renderHelp() string {
	if m.helpView == "" {
		width := m.width - 6
		if width > 72 {
			width = 72
		}
		out := helpMarkdown
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err == nil {
			if rendered, rerr := r.Render(helpMarkdown); rerr == nil {
				out = rendered
			}
		}
		m.helpView = out
	}
	box := overlayStyle.Render(m.helpView)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
