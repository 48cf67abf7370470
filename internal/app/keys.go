package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// handleKey routes key presses. Page gestures go through the navigator,
// which refuses them while the engine is busy; zoom changes feed the
// viewport tracker like any other environment change.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.savePosition()
		m.tracker.Close()
		return m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "esc":
		m.showHelp = false
		return m, nil

	case "right", "l", "pgdown", " ", "down", "j":
		return m, m.afterGesture(m.nav.Advance(1))

	case "left", "h", "pgup", "up", "k":
		return m, m.afterGesture(m.nav.Advance(-1))

	case "g", "home":
		return m, m.afterGesture(m.nav.First())

	case "G", "end":
		return m, m.afterGesture(m.nav.Last())

	case "+", "=":
		m.setZoom(m.zoom + ZoomStep)
		return m, nil

	case "-", "_":
		m.setZoom(m.zoom - ZoomStep)
		return m, nil

	case "0":
		m.setZoom(1)
		return m, nil
	}

	return m, nil
}

// handleMouse maps wheel ticks to page turns: scrolling down advances.
func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelDown:
		return m, m.afterGesture(m.nav.Wheel(1))
	case tea.MouseButtonWheelUp:
		return m, m.afterGesture(m.nav.Wheel(-1))
	}
	return m, nil
}

// afterGesture persists the new position and schedules the navigator's
// revalidation tick. A refused gesture while busy just reports the state.
func (m *Model) afterGesture(applied bool) tea.Cmd {
	if !applied {
		if m.busy {
			m.status = "Rendering, page turn ignored"
		}
		return nil
	}
	m.status = ""
	m.savePosition()
	return tea.Tick(RevalidateDelay, func(time.Time) tea.Msg {
		return revalidateMsg{}
	})
}

// setZoom clamps and records a new zoom level, then lets the tracker decide
// whether it warrants a reflow.
func (m *Model) setZoom(z float64) {
	if z < MinUserZoom {
		z = MinUserZoom
	}
	if z > MaxUserZoom {
		z = MaxUserZoom
	}
	if z == m.zoom {
		return
	}
	m.zoom = z
	m.status = fmt.Sprintf("zoom %.2gx", z)
	if m.loaded {
		m.tracker.Observe(m.viewportChange())
	}
}
