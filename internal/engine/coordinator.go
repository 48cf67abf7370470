package engine

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
)

// PassKind distinguishes the two heavy operations the coordinator runs.
type PassKind int

const (
	// WidthReflow re-renders the document at the new layout width, rescans
	// bands and repaginates. Triggered by width or zoom changes.
	WidthReflow PassKind = iota
	// HeightRepagination reuses the existing band list and only recomputes
	// page boundaries for a new page height. Triggered by height-only
	// changes such as a mobile URL bar or a terminal losing rows.
	HeightRepagination
)

func (k PassKind) String() string {
	if k == WidthReflow {
		return "width-reflow"
	}
	return "height-repagination"
}

// Pending is the single-slot follow-up queue. A width request overrides a
// pending height request; the reverse never happens.
type Pending int

const (
	PendingNone Pending = iota
	PendingWidth
	PendingHeight
)

// Intent selects the page applied after a width reflow completes.
type Intent int

const (
	// IntentReset jumps to the first page (fresh document).
	IntentReset Intent = iota
	// IntentPreserve re-applies the page nearest the band the reader was on.
	IntentPreserve
)

// DocumentRenderer is the external rendering dependency. Load parses the
// markup, Render lays the document out at the given width and returns the
// fresh surface. Render is synchronous and heavy; the coordinator bounds the
// damage by never running two passes at once.
type DocumentRenderer interface {
	Load(ctx context.Context, markup string) error
	SetZoom(zoom float64)
	Render(layoutWidth float64) (LayoutProvider, error)
}

// Hooks are the coordinator's outward edges. All of them are optional.
type Hooks struct {
	// OnFrame fires after a frame has been applied to the surface.
	OnFrame func()
	// OnError fires on a renderer failure, the only error class that is
	// surfaced to the user.
	OnError func(error)
	// WaitSettle, when set, blocks until the host signals that the busy
	// overlay had a paint opportunity, or until the context expires. The
	// coordinator always races it against the settle timeout.
	WaitSettle func(ctx context.Context)
}

// Coordinator owns the shared pagination state and serializes the heavy
// passes over it. At most one pass runs at a time; requests arriving during
// a pass land in the single pending slot and exactly one of them is drained
// when the pass completes. Document swaps bump a generation counter, and
// every pass re-checks the counter before mutating shared state, so a stale
// in-flight pass is abandoned in place and the latest document always wins.
type Coordinator struct {
	renderer DocumentRenderer
	tun      Tuning
	busy     *Busy
	hooks    Hooks
	log      *slog.Logger

	mu             sync.Mutex
	layout         LayoutProvider
	st             pageState
	handled        ViewportMetrics
	gen            uint64
	running        bool
	runningKind    PassKind
	pending        Pending
	pendingMetrics ViewportMetrics
	pendingIntent  Intent

	apl applier
}

// NewCoordinator wires a coordinator to its renderer and busy controller.
func NewCoordinator(r DocumentRenderer, busy *Busy, tun Tuning, hooks Hooks, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		renderer: r,
		tun:      tun,
		busy:     busy,
		hooks:    hooks,
		log:      log,
		apl:      applier{tun: tun, log: log},
	}
}

// LoadDocument swaps the displayed document. The previous band list, page
// starts and page index are invalidated immediately, any in-flight pass is
// left to notice the generation bump and abandon itself, and a fresh width
// reflow is started against the given metrics.
func (c *Coordinator) LoadDocument(ctx context.Context, markup string, m ViewportMetrics) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.st = pageState{}
	c.layout = nil
	c.handled = ViewportMetrics{}
	c.pending = PendingNone
	c.mu.Unlock()

	if err := c.renderer.Load(ctx, markup); err != nil {
		c.log.Error("document load failed", "error", err)
		c.fireError(err)
		return err
	}
	if c.staleGen(gen) {
		return nil
	}
	c.Reflow(m, IntentReset)
	return nil
}

// Reflow requests a width reflow: re-render at the viewport width, rescan,
// repaginate, re-apply. If a pass is already running the request is
// remembered in the pending slot and the call returns immediately.
func (c *Coordinator) Reflow(m ViewportMetrics, intent Intent) {
	c.request(WidthReflow, m, intent)
}

// Repaginate requests a height-only repagination: no re-render, the existing
// bands are repacked for the new page height. Queued like Reflow, except a
// pending width request is never downgraded.
func (c *Coordinator) Repaginate(m ViewportMetrics) {
	c.request(HeightRepagination, m, IntentPreserve)
}

// request is the single entry point implementing the concurrency discipline:
// one running pass, one pending slot, width beats height, exactly one drain
// per completion.
func (c *Coordinator) request(kind PassKind, m ViewportMetrics, intent Intent) {
	c.mu.Lock()
	if c.running {
		switch kind {
		case WidthReflow:
			c.pending = PendingWidth
			c.pendingMetrics = m
			c.pendingIntent = intent
		case HeightRepagination:
			if c.pending != PendingWidth {
				c.pending = PendingHeight
				c.pendingMetrics = m
				c.pendingIntent = intent
			}
		}
		c.log.Debug("pass queued", "kind", kind.String(), "running", c.runningKind.String())
		c.mu.Unlock()
		return
	}
	c.running = true
	c.runningKind = kind
	gen := c.gen
	c.mu.Unlock()

	for {
		c.runPass(kind, m, intent, gen)

		c.mu.Lock()
		if c.pending == PendingNone {
			c.running = false
			c.mu.Unlock()
			return
		}
		if c.pending == PendingWidth {
			kind = WidthReflow
		} else {
			kind = HeightRepagination
		}
		m = c.pendingMetrics
		intent = c.pendingIntent
		c.pending = PendingNone
		c.runningKind = kind
		gen = c.gen
		c.mu.Unlock()
	}
}

func (c *Coordinator) runPass(kind PassKind, m ViewportMetrics, intent Intent, gen uint64) {
	if kind == WidthReflow {
		c.runWidthReflow(m, intent, gen)
	} else {
		c.runHeightRepagination(m, gen)
	}
}

// runWidthReflow performs the full pass: render at the viewport width, scan
// bands, compute starts, apply the target page. Shared state is only touched
// after the generation re-check, under the mutex.
func (c *Coordinator) runWidthReflow(m ViewportMetrics, intent Intent, gen uint64) {
	c.busy.Set(PhaseRender)
	defer c.busy.Clear()
	c.settle()

	zoom := m.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	// The renderer scales its own geometry by zoom and the surface is
	// presented unscaled, so the canvas width must track the viewport width.
	layoutWidth := clampFloat(m.Width, c.tun.MinLayoutWidth, c.tun.MaxLayoutWidth)
	c.renderer.SetZoom(zoom)
	layout, err := c.renderer.Render(layoutWidth)
	if err != nil {
		c.log.Error("render failed", "layoutWidth", layoutWidth, "error", err)
		c.fireError(err)
		return
	}
	if c.staleGen(gen) {
		c.log.Debug("width reflow abandoned, document superseded")
		return
	}

	c.busy.SetPhase(PhaseScan)
	bands := ScanBands(layout.Groups(), m.container(), c.tun)
	if len(bands) == 0 {
		// Surface not ready yet. Keep the previous page intact; the next
		// trigger retries from scratch.
		c.log.Debug("scan produced no bands, pass aborted")
		return
	}
	starts := ComputeStarts(bands, m.Height-c.tun.TopGutter, c.tun)

	c.busy.SetPhase(PhaseApply)
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	target := 0
	if intent == IntentPreserve && len(c.st.starts) > 0 {
		prevBand := clampInt(c.st.starts[c.st.page], 0, len(bands)-1)
		target = PageForBand(starts, prevBand)
	}
	c.layout = layout
	c.st = pageState{bands: bands, starts: starts}
	frame := c.apl.apply(&c.st, target, m.Height)
	c.handled = m
	c.mu.Unlock()

	layout.ApplyFrame(frame)
	c.log.Info("width reflow complete",
		"layoutWidth", layoutWidth, "bands", len(bands), "pages", len(starts), "page", target)
	c.fireFrame()
}

// runHeightRepagination repacks the existing bands for a new page height.
// No renderer involvement, no band rescan.
func (c *Coordinator) runHeightRepagination(m ViewportMetrics, gen uint64) {
	c.busy.Set(PhaseApply)
	defer c.busy.Clear()
	c.settle()

	c.mu.Lock()
	if c.gen != gen || len(c.st.bands) == 0 || c.layout == nil {
		c.mu.Unlock()
		c.log.Debug("height repagination skipped, no bands")
		return
	}
	prevBand := c.st.starts[c.st.page]
	c.st.starts = ComputeStarts(c.st.bands, m.Height-c.tun.TopGutter, c.tun)
	target := PageForBand(c.st.starts, prevBand)
	frame := c.apl.apply(&c.st, target, m.Height)
	c.handled = m
	layout := c.layout
	c.mu.Unlock()

	layout.ApplyFrame(frame)
	c.log.Info("height repagination complete", "pages", c.PageCount(), "page", target)
	c.fireFrame()
}

// ApplyPage re-applies the given page against the last handled metrics.
// Returns false when no surface is ready or a pass is running (navigation is
// ignored while the engine is busy).
func (c *Coordinator) ApplyPage(index int) bool {
	c.mu.Lock()
	if c.running || c.layout == nil || len(c.st.starts) == 0 {
		c.mu.Unlock()
		return false
	}
	frame := c.apl.apply(&c.st, index, c.handled.Height)
	layout := c.layout
	c.mu.Unlock()

	layout.ApplyFrame(frame)
	c.fireFrame()
	return true
}

// ApplyPageForBand recomputes page starts from current bands and applies the
// page containing the given band index. Used by navigation's self-healing
// retry, where the desired band is authoritative because page numbering may
// have shifted underneath the gesture.
func (c *Coordinator) ApplyPageForBand(band int) bool {
	c.mu.Lock()
	if c.running || c.layout == nil || len(c.st.bands) == 0 {
		c.mu.Unlock()
		return false
	}
	band = clampInt(band, 0, len(c.st.bands)-1)
	c.st.starts = ComputeStarts(c.st.bands, c.handled.Height-c.tun.TopGutter, c.tun)
	frame := c.apl.apply(&c.st, PageForBand(c.st.starts, band), c.handled.Height)
	layout := c.layout
	c.mu.Unlock()

	layout.ApplyFrame(frame)
	c.fireFrame()
	return true
}

// Layout returns the surface of the last completed reflow, or nil before
// the first one. The frame already applied to it is current as of the last
// fireFrame.
func (c *Coordinator) Layout() LayoutProvider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layout
}

// Page returns the currently displayed page index.
func (c *Coordinator) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.page
}

// PageCount returns the number of pages, 0 before the first scan.
func (c *Coordinator) PageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.st.starts)
}

// StartBand returns the index of the first band of the given page, or -1.
func (c *Coordinator) StartBand(page int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if page < 0 || page >= len(c.st.starts) {
		return -1
	}
	return c.st.starts[page]
}

// PageOfBand returns the page currently containing the given band index.
func (c *Coordinator) PageOfBand(band int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return PageForBand(c.st.starts, band)
}

// Bands returns a copy of the current band list.
func (c *Coordinator) Bands() []Band {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Band, len(c.st.bands))
	copy(out, c.st.bands)
	return out
}

// Starts returns a copy of the current page starts.
func (c *Coordinator) Starts() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int, len(c.st.starts))
	copy(out, c.st.starts)
	return out
}

// HandledMetrics returns the metrics of the last successfully completed
// pass. Zero before the first pass.
func (c *Coordinator) HandledMetrics() ViewportMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handled
}

// PendingSlot exposes the follow-up queue state, primarily for tests and
// diagnostics.
func (c *Coordinator) PendingSlot() Pending {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// IsBusy reports whether a pass currently holds the busy flag.
func (c *Coordinator) IsBusy() bool { return c.busy.IsBusy() }

func (c *Coordinator) staleGen(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen != gen
}

// settle gives the host one paint opportunity before blocking work begins,
// bounded by the settle timeout so the pass can never stall on the signal.
func (c *Coordinator) settle() {
	if c.hooks.WaitSettle == nil {
		runtime.Gosched()
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.tun.SettleTimeout)
	defer cancel()
	c.hooks.WaitSettle(ctx)
}

func (c *Coordinator) fireFrame() {
	if c.hooks.OnFrame != nil {
		c.hooks.OnFrame()
	}
}

func (c *Coordinator) fireError(err error) {
	if c.hooks.OnError != nil {
		c.hooks.OnError(err)
	}
}
