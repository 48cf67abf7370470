// Package app is the terminal score viewer: a Bubble Tea program that wires
// the pagination engine, the engraving renderer and the position store into
// a paged, gesture-driven reading surface drawn with half-block cells.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/scoreleaf/scoreleaf/internal/config"
	"github.com/scoreleaf/scoreleaf/internal/engine"
	"github.com/scoreleaf/scoreleaf/internal/render"
	"github.com/scoreleaf/scoreleaf/internal/store"
)

// Model holds the Bubble Tea state for the viewer.
type Model struct {
	cfg       config.Config
	scorePath string
	markup    string
	tun       engine.Tuning

	eng       *render.Engraver
	busyCtl   *engine.Busy
	coord     *engine.Coordinator
	tracker   *engine.Tracker
	nav       *engine.Navigator
	positions *store.Store

	// events carries engine callbacks back into the Update loop.
	events chan tea.Msg

	spinner spinner.Model

	width   int
	height  int
	zoom    float64
	busy    bool
	loading bool
	loaded  bool
	loadErr error
	status  string

	showHelp bool
	helpView string

	title    string
	composer string
}

// New prepares the viewer for one score. The markup is the score file's
// content; positions may be nil when position persistence is unavailable.
func New(cfg config.Config, scorePath, markup string, positions *store.Store) *Model {
	tun := cfg.Tuning()

	m := &Model{
		cfg:       cfg,
		scorePath: scorePath,
		markup:    markup,
		tun:       tun,
		eng:       render.NewEngraver(),
		positions: positions,
		events:    make(chan tea.Msg, 32),
		zoom:      cfg.InitialZoom(),
	}

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Line

	m.busyCtl = engine.NewBusy(tun, func(busy bool) {
		m.post(busyChangedMsg{busy: busy})
	}, appLog)

	hooks := engine.Hooks{
		OnFrame: func() { m.post(frameAppliedMsg{}) },
		OnError: func(err error) { m.post(engineErrMsg{err: err}) },
	}
	m.coord = engine.NewCoordinator(m.eng, m.busyCtl, tun, hooks, appLog)
	m.tracker = engine.NewTracker(m.coord, tun, appLog)
	m.nav = engine.NewNavigator(m.coord, tun, appLog)
	return m
}

// Init starts the spinner and the engine event pump.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitEvent(m.events))
}

// Update is the Bubble Tea update loop.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.busy || m.loading {
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.loaded && !m.loading && m.loadErr == nil && m.width > 0 {
			m.loading = true
			return m, m.loadCmd()
		}
		if m.loaded {
			m.tracker.Observe(m.viewportChange())
		}
		return m, nil

	case loadResultMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err
			return m, nil
		}
		m.loaded = true
		if sc := m.eng.Score(); sc != nil {
			m.title = sc.Title
			m.composer = sc.Composer
		}
		m.restorePosition()
		return m, nil

	case frameAppliedMsg:
		m.loaded = true
		return m, waitEvent(m.events)

	case busyChangedMsg:
		m.busy = msg.busy
		if m.busy {
			return m, tea.Batch(m.spinner.Tick, waitEvent(m.events))
		}
		return m, waitEvent(m.events)

	case engineErrMsg:
		m.status = "Render failed: " + msg.err.Error()
		return m, waitEvent(m.events)

	case revalidateMsg:
		if m.nav.Revalidate() {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

// loadCmd runs the initial document load on a background goroutine. The
// first reflow happens inside LoadDocument, so by the time the result
// message arrives the first page is applied.
func (m *Model) loadCmd() tea.Cmd {
	metrics := m.viewportChange()
	return func() tea.Msg {
		err := m.coord.LoadDocument(context.Background(), m.markup, engine.ViewportMetrics{
			Width:      metrics.Width,
			Height:     metrics.Height,
			Zoom:       metrics.Zoom,
			PixelRatio: metrics.PixelRatio,
		})
		return loadResultMsg{err: err}
	}
}

// restorePosition steers the view back to the band the reader left off at,
// if a position was saved for this score. Band anchoring survives geometry
// changes, so the saved page number is ignored.
func (m *Model) restorePosition() {
	if m.positions == nil {
		return
	}
	pos, err := m.positions.Lookup(m.scorePath)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			appLog.Warn("position restore failed", "path", m.scorePath, "error", err)
		}
		return
	}
	if pos.Band > 0 {
		m.coord.ApplyPageForBand(pos.Band)
	}
}

// savePosition records the current page's start band for the next open.
func (m *Model) savePosition() {
	if m.positions == nil || !m.loaded {
		return
	}
	page := m.coord.Page()
	band := m.coord.StartBand(page)
	if band < 0 {
		return
	}
	err := m.positions.Save(m.scorePath, store.Position{Page: page, Band: band, Zoom: m.zoom})
	if err != nil {
		appLog.Warn("position save failed", "path", m.scorePath, "error", err)
	}
}

// viewportChange converts the current terminal geometry into viewport
// pixels: one column is one pixel wide, one row is two pixels tall under
// half-block drawing, and the footer rows are not part of the canvas.
func (m *Model) viewportChange() engine.ViewportChange {
	return engine.ViewportChange{
		Width:      float64(m.canvasWidth()),
		Height:     float64(m.canvasHeight()),
		Zoom:       m.zoom,
		PixelRatio: 1,
	}
}

func (m *Model) canvasWidth() int { return m.width }

func (m *Model) canvasHeight() int {
	rows := m.height - FooterRows
	if rows < 0 {
		rows = 0
	}
	return rows * PixelsPerRow
}

// surface returns the engine's current surface, or nil before the first
// completed reflow.
func (m *Model) surface() *render.Surface {
	s, _ := m.coord.Layout().(*render.Surface)
	return s
}

// post delivers an engine callback into the event channel without blocking
// the engine goroutine. Dropped events are safe: every message the engine
// posts is a level signal, not an edge the UI must count.
func (m *Model) post(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
	}
}

func waitEvent(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-ch }
}

func (m *Model) pageStatus() string {
	count := m.coord.PageCount()
	if count == 0 {
		return ""
	}
	return fmt.Sprintf("page %d/%d", m.coord.Page()+1, count)
}
