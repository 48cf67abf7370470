package engine

import (
	"log/slog"
	"sync"
	"time"
)

// Navigator converts discrete gestures into page-advance requests and owns
// the self-healing retry: after a page is applied, the host calls Revalidate
// on its next tick; if the displayed page did not actually move because the
// page table had gone stale, the navigator recomputes boundaries and retries
// toward the band it wanted visible rather than the page number it asked
// for, since numbering may have shifted.
type Navigator struct {
	coord *Coordinator
	tun   Tuning
	log   *slog.Logger

	mu         sync.Mutex
	targetBand int
	touchY     float64
	touchAt    time.Time
	touching   bool
}

// NewNavigator builds a navigator over the given coordinator.
func NewNavigator(coord *Coordinator, tun Tuning, log *slog.Logger) *Navigator {
	if log == nil {
		log = slog.Default()
	}
	return &Navigator{coord: coord, tun: tun, log: log, targetBand: -1}
}

// Advance requests a relative page move. Gestures are ignored while the
// engine is busy. Returns whether a page was applied.
func (n *Navigator) Advance(delta int) bool {
	if n.coord.IsBusy() {
		return false
	}
	count := n.coord.PageCount()
	if count == 0 {
		return false
	}
	target := clampInt(n.coord.Page()+delta, 0, count-1)
	return n.goToPage(target)
}

// First jumps to the first page.
func (n *Navigator) First() bool {
	if n.coord.IsBusy() || n.coord.PageCount() == 0 {
		return false
	}
	return n.goToPage(0)
}

// Last jumps to the final page.
func (n *Navigator) Last() bool {
	count := n.coord.PageCount()
	if n.coord.IsBusy() || count == 0 {
		return false
	}
	return n.goToPage(count - 1)
}

// GoTo jumps to an absolute page index (clamped).
func (n *Navigator) GoTo(page int) bool {
	count := n.coord.PageCount()
	if n.coord.IsBusy() || count == 0 {
		return false
	}
	return n.goToPage(clampInt(page, 0, count-1))
}

// Wheel maps one wheel tick to a page turn: scrolling down advances.
func (n *Navigator) Wheel(delta float64) bool {
	switch {
	case delta > 0:
		return n.Advance(1)
	case delta < 0:
		return n.Advance(-1)
	}
	return false
}

// TouchStart records the anchor of a potential swipe.
func (n *Navigator) TouchStart(y float64, at time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.touching = true
	n.touchY = y
	n.touchAt = at
}

// TouchEnd classifies the finished touch: a vertical move beyond the
// distance threshold, completed within the duration ceiling, turns the page.
// Swiping up (content pushed up) advances.
func (n *Navigator) TouchEnd(y float64, at time.Time) bool {
	n.mu.Lock()
	if !n.touching {
		n.mu.Unlock()
		return false
	}
	n.touching = false
	dy := n.touchY - y
	dt := at.Sub(n.touchAt)
	n.mu.Unlock()

	if dt > n.tun.SwipeMaxDuration {
		return false
	}
	switch {
	case dy >= n.tun.SwipeMinDistance:
		return n.Advance(1)
	case dy <= -n.tun.SwipeMinDistance:
		return n.Advance(-1)
	}
	return false
}

// Revalidate is called by the host on the tick after a gesture was applied.
// If the page containing the desired band is not the displayed one, the page
// table went stale under the gesture; recompute and steer toward the band.
// Returns whether a corrective apply was issued.
func (n *Navigator) Revalidate() bool {
	n.mu.Lock()
	band := n.targetBand
	n.targetBand = -1
	n.mu.Unlock()
	if band < 0 {
		return false
	}
	if n.coord.PageOfBand(band) == n.coord.Page() {
		return false
	}
	n.log.Debug("page boundaries stale after gesture, retrying toward band", "band", band)
	return n.coord.ApplyPageForBand(band)
}

// goToPage applies the page and remembers its start band for revalidation.
func (n *Navigator) goToPage(page int) bool {
	band := n.coord.StartBand(page)
	if !n.coord.ApplyPage(page) {
		return false
	}
	n.mu.Lock()
	n.targetBand = band
	n.mu.Unlock()
	return true
}
