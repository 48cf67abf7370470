package engine

import (
	"log/slog"
	"sync"
	"time"
)

// Phase names the stage a running pass is in. The fail-safe treats render
// and scan as known-heavy phases whose wall time may legitimately exceed the
// busy ceiling.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRender
	PhaseScan
	PhaseApply
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRender:
		return "render"
	case PhaseScan:
		return "scan"
	case PhaseApply:
		return "apply"
	}
	return "unknown"
}

func (p Phase) heavy() bool { return p == PhaseRender || p == PhaseScan }

// Busy tracks the flag behind the input-blocking overlay. The owning pass
// sets it on entry and clears it on every completion path; a fail-safe timer
// independently force-clears it after a fixed ceiling so the UI can never
// appear frozen forever, even if the pass dies without reaching its clear.
// The fail-safe only clears the flag, it never touches page state.
type Busy struct {
	mu       sync.Mutex
	busy     bool
	phase    Phase
	timer    *time.Timer
	ceiling  time.Duration
	heavyExt time.Duration
	onChange func(bool)
	log      *slog.Logger
}

// NewBusy builds a busy controller. onChange, if non-nil, is invoked outside
// the controller's lock on every flag transition.
func NewBusy(tun Tuning, onChange func(bool), log *slog.Logger) *Busy {
	if log == nil {
		log = slog.Default()
	}
	return &Busy{
		ceiling:  tun.BusyCeiling,
		heavyExt: tun.BusyHeavyExtension,
		onChange: onChange,
		log:      log,
	}
}

// Set marks the controller busy in the given phase and arms the fail-safe.
func (b *Busy) Set(phase Phase) {
	b.mu.Lock()
	changed := !b.busy
	b.busy = true
	b.phase = phase
	b.stopTimerLocked()
	b.timer = time.AfterFunc(b.ceiling, b.failSafe)
	b.mu.Unlock()
	b.notify(changed, true)
}

// SetPhase updates the phase of the running pass without touching the timer.
func (b *Busy) SetPhase(phase Phase) {
	b.mu.Lock()
	if b.busy {
		b.phase = phase
	}
	b.mu.Unlock()
}

// Clear drops the flag and disarms the fail-safe.
func (b *Busy) Clear() {
	b.mu.Lock()
	changed := b.busy
	b.busy = false
	b.phase = PhaseIdle
	b.stopTimerLocked()
	b.mu.Unlock()
	b.notify(changed, false)
}

// IsBusy reports the flag.
func (b *Busy) IsBusy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.busy
}

// failSafe fires when a pass has held the flag for the full ceiling. While
// the pass sits in a known-heavy phase the clear is deferred by re-arming a
// shorter timer; otherwise the flag is forcibly dropped.
func (b *Busy) failSafe() {
	b.mu.Lock()
	if !b.busy {
		b.mu.Unlock()
		return
	}
	if b.phase.heavy() {
		b.timer = time.AfterFunc(b.heavyExt, b.failSafe)
		b.mu.Unlock()
		return
	}
	b.busy = false
	phase := b.phase
	b.phase = PhaseIdle
	b.mu.Unlock()
	b.log.Warn("busy flag force-cleared by fail-safe", "phase", phase.String())
	b.notify(true, false)
}

func (b *Busy) stopTimerLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (b *Busy) notify(changed, state bool) {
	if changed && b.onChange != nil {
		b.onChange(state)
	}
}
