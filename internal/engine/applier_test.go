package engine

import (
	"context"
	"log/slog"
	"testing"

	"github.com/scoreleaf/scoreleaf/internal/logging"
)

func newTestApplier() *applier {
	return &applier{tun: DefaultTuning(), log: logging.New("engine-test")}
}

func newPageState(bands []Band, viewH float64, tun Tuning) *pageState {
	return &pageState{
		bands:  bands,
		starts: ComputeStarts(bands, viewH-tun.TopGutter, tun),
	}
}

func TestApplyAlignsStartBandBelowGutter(t *testing.T) {
	a := newTestApplier()
	bands := bandsFromPairs([2]float64{0, 100}, [2]float64{400, 500}, [2]float64{800, 900})
	st := newPageState(bands, 300, a.tun)

	f := a.apply(st, 1, 300)
	if st.page != 1 {
		t.Fatalf("page = %d, want 1", st.page)
	}
	want := bands[1].Top - a.tun.TopGutter
	if f.OffsetY != want {
		t.Fatalf("OffsetY = %v, want %v", f.OffsetY, want)
	}
	if f.TopGutter.Bottom != a.tun.TopGutter {
		t.Fatalf("top gutter = %+v, want bottom at %v", f.TopGutter, a.tun.TopGutter)
	}
}

func TestApplyClampsIndex(t *testing.T) {
	a := newTestApplier()
	bands := bandsFromPairs([2]float64{0, 100}, [2]float64{400, 500})
	st := newPageState(bands, 300, a.tun)

	a.apply(st, 99, 300)
	if st.page != len(st.starts)-1 {
		t.Fatalf("page = %d, want clamped to %d", st.page, len(st.starts)-1)
	}
	a.apply(st, -5, 300)
	if st.page != 0 {
		t.Fatalf("page = %d, want clamped to 0", st.page)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	a := newTestApplier()
	bands := bandsFromPairs(
		[2]float64{0, 120}, [2]float64{140, 260}, [2]float64{280, 400}, [2]float64{420, 540})
	st := newPageState(bands, 300, a.tun)

	first := a.apply(st, 1, 300)
	startsLen := len(st.starts)
	second := a.apply(st, st.page, 300)
	if first != second {
		t.Fatalf("re-apply produced a different frame:\n  first  %+v\n  second %+v", first, second)
	}
	if len(st.starts) != startsLen {
		t.Fatal("re-apply recomputed page starts")
	}
}

func TestApplyRepairsStaleBoundariesAfterShrink(t *testing.T) {
	a := newTestApplier()
	bands := bandsFromPairs(
		[2]float64{0, 120}, [2]float64{140, 260}, [2]float64{280, 400},
		[2]float64{420, 540}, [2]float64{560, 680})
	// Paginated for a 600px viewport, then the viewport shrank to 300px.
	st := newPageState(bands, 600, a.tun)
	staleStarts := len(st.starts)

	f := a.apply(st, 0, 300)
	if len(st.starts) <= staleStarts {
		t.Fatalf("expected starts recomputed for shrunk viewport, still %v", st.starts)
	}

	// No next-page content may remain visible: every band beyond the page
	// end that pokes into the viewport must be covered by the mask.
	end := pageEndBand(st.starts, st.page, len(st.bands))
	for i := end + 1; i < len(bands); i++ {
		top := bands[i].Top - f.OffsetY
		if top >= 300 {
			continue
		}
		if f.PageMask.IsZero() {
			t.Fatalf("band %d peeks at %v but no page mask installed", i, top)
		}
		if top < f.PageMask.Top {
			t.Fatalf("band %d top %v above mask top %v", i, top, f.PageMask.Top)
		}
	}
	if !f.PageMask.IsZero() && f.PageMask.Top > 300-a.tun.PeekGuard {
		t.Fatalf("mask top %v beyond peek guard limit %v", f.PageMask.Top, 300-a.tun.PeekGuard)
	}
}

func TestApplyLastPageMarginPushesFinalBand(t *testing.T) {
	a := newTestApplier()
	// Second band's bottom lands within the safety margin of the page edge.
	viewH := 300.0
	pageH := viewH - a.tun.TopGutter
	bands := []Band{
		{Top: 0, Bottom: 120},
		{Top: 140, Bottom: pageH - a.tun.LastBandMargin + 2},
	}
	st := &pageState{bands: bands, starts: []int{0}}

	a.apply(st, 0, viewH)
	if len(st.starts) != 2 || st.starts[1] != 1 {
		t.Fatalf("expected final band pushed to its own page, starts %v", st.starts)
	}
}

func TestApplyMasksPeekingNextBand(t *testing.T) {
	a := newTestApplier()
	// Page 0 holds band 0; band 1 starts inside the viewport but does not
	// fit, so its sliver must be masked.
	bands := bandsFromPairs([2]float64{0, 150}, [2]float64{200, 460})
	st := &pageState{bands: bands, starts: []int{0, 1}}

	f := a.apply(st, 0, 300)
	if f.PageMask.IsZero() {
		t.Fatal("expected a page mask for the peeking band")
	}
	wantTop := bands[0].Bottom - f.OffsetY
	if f.PageMask.Top != wantTop {
		t.Fatalf("mask top = %v, want %v", f.PageMask.Top, wantTop)
	}
	if f.PageMask.Bottom != 300 {
		t.Fatalf("mask bottom = %v, want viewport height 300", f.PageMask.Bottom)
	}
}

func TestApplyBottomMarginAlwaysPresent(t *testing.T) {
	a := newTestApplier()
	bands := bandsFromPairs([2]float64{0, 100})
	st := &pageState{bands: bands, starts: []int{0}}

	f := a.apply(st, 0, 300)
	if f.BottomMargin.IsZero() {
		t.Fatal("expected bottom margin strip")
	}
	if f.BottomMargin.Bottom != 300 || f.BottomMargin.Top != 300-a.tun.PeekGuard {
		t.Fatalf("bottom margin = %+v", f.BottomMargin)
	}
}

// warnCounter is an slog.Handler counting warning-level records.
type warnCounter struct{ warns int }

func (w *warnCounter) Enabled(context.Context, slog.Level) bool { return true }
func (w *warnCounter) Handle(_ context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		w.warns++
	}
	return nil
}
func (w *warnCounter) WithAttrs([]slog.Attr) slog.Handler { return w }
func (w *warnCounter) WithGroup(string) slog.Handler      { return w }

func TestApplyAcceptsFusedTitleFirstPage(t *testing.T) {
	wc := &warnCounter{}
	a := &applier{tun: DefaultTuning(), log: slog.New(wc)}
	// A short title fused with the first two systems overhangs the page
	// height by design; applying that page must not be treated as a stale
	// boundary.
	bands := bandsFromPairs(
		[2]float64{0, 20}, [2]float64{30, 160}, [2]float64{170, 310}, [2]float64{320, 460})
	st := newPageState(bands, 288, a.tun)
	if len(st.starts) != 2 || st.starts[1] != 3 {
		t.Fatalf("fixture starts = %v, want [0 3]", st.starts)
	}

	first := a.apply(st, 0, 288)
	second := a.apply(st, 0, 288)
	if first != second {
		t.Fatalf("re-apply produced a different frame:\n  first  %+v\n  second %+v", first, second)
	}
	if st.page != 0 || len(st.starts) != 2 {
		t.Fatalf("fused page destabilized: page %d, starts %v", st.page, st.starts)
	}
	if wc.warns != 0 {
		t.Fatalf("applying the fused title page logged %d convergence warnings", wc.warns)
	}
}

func TestApplyEmptyStateIsNoop(t *testing.T) {
	a := newTestApplier()
	st := &pageState{}
	if f := a.apply(st, 0, 300); f != (Frame{}) {
		t.Fatalf("expected zero frame for empty state, got %+v", f)
	}
}

func TestApplyTerminatesOnPathologicalGeometry(t *testing.T) {
	a := newTestApplier()
	// Bands taller than the page on every page; corrections keep firing but
	// the attempt bound must stop the loop.
	bands := bandsFromPairs(
		[2]float64{0, 500}, [2]float64{510, 1010}, [2]float64{1020, 1520})
	st := newPageState(bands, 200, a.tun)
	_ = a.apply(st, 1, 200)
	if st.page < 0 || st.page >= len(st.starts) {
		t.Fatalf("page %d out of range after correction, starts %v", st.page, st.starts)
	}
}
