package engine

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"
)

// ViewportChange is one observation of the viewport environment, regardless
// of which signal source produced it (resize event, visual-viewport event,
// zoom poll). All sources feed the same coalescing stage.
type ViewportChange struct {
	Width      float64
	Height     float64
	Zoom       float64
	PixelRatio float64
}

func (v ViewportChange) metrics() ViewportMetrics {
	return ViewportMetrics{Width: v.Width, Height: v.Height, Zoom: v.Zoom, PixelRatio: v.PixelRatio}
}

// Tracker debounces bursts of viewport observations and classifies the net
// change as width-affecting (full reflow) or height-only (cheap
// repagination). Classification compares against the metrics the coordinator
// last handled successfully, not the last observation, so a burst that ends
// where the last pass already was produces no work at all.
type Tracker struct {
	coord *Coordinator
	tun   Tuning
	log   *slog.Logger

	mu     sync.Mutex
	latest ViewportChange
	timer  *time.Timer
	closed bool
}

// NewTracker builds a tracker feeding the given coordinator.
func NewTracker(coord *Coordinator, tun Tuning, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{coord: coord, tun: tun, log: log}
}

// Observe records one viewport observation and (re)arms the debounce window.
// Only the newest observation in a burst survives.
func (t *Tracker) Observe(v ViewportChange) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.latest = v
	if t.timer == nil {
		t.timer = time.AfterFunc(t.tun.DebounceWindow, t.flush)
		return
	}
	t.timer.Reset(t.tun.DebounceWindow)
}

// Flush classifies the pending observation immediately, bypassing the
// debounce window. Used by tests and by hosts that already debounce.
func (t *Tracker) Flush() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
	t.flush()
}

// Close stops the debounce timer; subsequent observations are dropped.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// StartPolling samples the environment periodically until the context ends.
// Zoom scale is not event-driven on every host, so a low-frequency poll
// backs up the event sources. Each sample goes through Observe and the usual
// debounce, so polling cannot cause extra passes on its own.
func (t *Tracker) StartPolling(ctx context.Context, sample func() ViewportChange) {
	go func() {
		ticker := time.NewTicker(t.tun.ZoomPollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.Observe(sample())
			}
		}
	}()
}

// flush runs when the debounce window closes: compare the surviving
// observation against the last successfully handled metrics and dispatch the
// matching pass, or nothing when the change was redundant.
func (t *Tracker) flush() {
	t.mu.Lock()
	v := t.latest
	t.timer = nil
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return
	}

	m := v.metrics()
	handled := t.coord.HandledMetrics()
	eps := t.tun.MetricsEpsilon
	switch {
	case handled.IsZero(),
		math.Abs(m.Width-handled.Width) > eps,
		math.Abs(m.Zoom-handled.Zoom) > zoomEpsilon:
		t.log.Debug("dispatching width reflow",
			"width", m.Width, "height", m.Height, "zoom", m.Zoom)
		t.coord.Reflow(m, IntentPreserve)
	case math.Abs(m.Height-handled.Height) > eps:
		t.log.Debug("dispatching height repagination", "height", m.Height)
		t.coord.Repaginate(m)
	default:
		t.log.Debug("viewport change redundant, skipped")
	}
}

// zoomEpsilon is the absolute zoom tolerance; zoom reports drift slightly
// between polls on some hosts.
const zoomEpsilon = 0.01
