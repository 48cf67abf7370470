package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// View draws the canvas rows followed by the footer. While a pass holds the
// busy flag the canvas keeps showing the previous page; only the footer
// changes, which is what makes a slow reflow feel like a settled page with
// a spinner rather than a flickering scroll.
func (m *Model) View() string {
	if m.loadErr != nil {
		return errorStyle.Render("could not open score: "+m.loadErr.Error()) + "\n"
	}
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderCanvas() + "\n" + m.renderFooter()
}

func (m *Model) renderCanvas() string {
	rows := m.height - FooterRows
	if rows <= 0 {
		return ""
	}
	s := m.surface()
	if s == nil {
		msg := m.spinner.View() + " Opening score..."
		return lipgloss.Place(m.width, rows, lipgloss.Center, lipgloss.Center, msg)
	}
	return halfBlocks(s.Visible(m.canvasWidth(), m.canvasHeight()))
}

// renderFooter emits the two status rows: score identity and zoom on the
// first, page position plus transient status on the second.
func (m *Model) renderFooter() string {
	heading := m.title
	if heading == "" {
		heading = m.scorePath
	}
	if m.composer != "" {
		heading += " · " + m.composer
	}
	first := titleStyle.Render(truncate(heading, m.width-12)) +
		footerStyle.Render(fmt.Sprintf("  %.2gx", m.zoom))

	parts := []string{}
	if p := m.pageStatus(); p != "" {
		parts = append(parts, p)
	}
	if m.busy {
		parts = append(parts, busyStyle.Render(m.spinner.View()+" rendering"))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	parts = append(parts, "? help  q quit")
	second := footerStyle.Render(truncate(strings.Join(parts, "  |  "), m.width))

	return first + "\n" + second
}

// truncate trims a plain string to the given display width. Styled
// segments are composed after truncation so ANSI sequences never get cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
