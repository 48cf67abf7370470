package engine

import "log/slog"

// pageState is the shared pagination state owned by the coordinator: the
// current band list, the derived page starts, and the displayed page index.
// It is only ever mutated from within a held running slot.
type pageState struct {
	bands  []Band
	starts []int
	page   int
}

// applier turns a page index into a presentation Frame, defending against
// stale page boundaries along the way. Boundaries go stale when the viewport
// changes between pagination and application (a shrink mid-display is the
// classic case); rather than trusting the page table, the applier re-checks
// it and recomputes when the geometry disagrees.
type applier struct {
	tun Tuning
	log *slog.Logger
}

// apply clamps the index, repairs stale page boundaries, records the
// resulting page on st and returns the Frame to install. The correction loop
// runs to a fixed point bounded by MaxApplyAttempts; exhausting the bound is
// a logged no-op and the best state reached so far is applied.
//
// viewH is the full viewport height; the usable page height is viewH minus
// the top gutter. Re-applying the already-active page with unchanged
// geometry is idempotent: it yields an identical Frame and no recompute.
func (a *applier) apply(st *pageState, index int, viewH float64) Frame {
	if len(st.bands) == 0 || len(st.starts) == 0 {
		return Frame{}
	}
	pageH := viewH - a.tun.TopGutter

	stable := false
	for attempt := 0; attempt < a.tun.MaxApplyAttempts; attempt++ {
		index = clampInt(index, 0, len(st.starts)-1)
		start := st.starts[index]
		top := st.bands[start].Top

		// Next-band peek check: if the following page's first band already
		// fits inside this page, the table was computed for a larger
		// viewport and needs to be rebuilt. The last-band margin is part of
		// the fit test, otherwise this check and the margin rule below
		// would push the same band back and forth.
		if index+1 < len(st.starts) {
			next := st.bands[st.starts[index+1]]
			if next.Bottom-top <= pageH-a.tun.LastBandMargin {
				st.starts = ComputeStarts(st.bands, pageH, a.tun)
				index = PageForBand(st.starts, start)
				continue
			}
		}

		// Last-page margin rule: the final band must not sit within the
		// safety margin of the page's bottom edge. Push it onto a page of
		// its own instead of letting it hug (or cross) the edge.
		if index == len(st.starts)-1 && start < len(st.bands)-1 {
			last := st.bands[len(st.bands)-1]
			if last.Bottom-top > pageH-a.tun.LastBandMargin {
				st.starts = append(st.starts, len(st.bands)-1)
				continue
			}
		}

		// Stale-bounds safety check: the band assumed to close this page
		// must actually fit. Bands that grew (zoom rounding) force a
		// recompute. A title-led first page is measured against the
		// allowance the paginator grants it, not the bare page height.
		end := pageEndBand(st.starts, index, len(st.bands))
		limit := pageH
		if index == 0 && titleLike(st.bands, a.tun) {
			limit = pageH * (1 + a.tun.FirstPageSlack)
			if end == 2 {
				if fused := pageH * a.tun.TitleFusionSpan; fused > limit {
					limit = fused
				}
			}
		}
		if end > start && st.bands[end].Bottom-top > limit {
			st.starts = ComputeStarts(st.bands, pageH, a.tun)
			index = PageForBand(st.starts, start)
			continue
		}

		stable = true
		break
	}
	if !stable {
		a.log.Warn("page boundary correction did not converge",
			"page", index, "bands", len(st.bands), "attempts", a.tun.MaxApplyAttempts)
	}

	st.page = clampInt(index, 0, len(st.starts)-1)
	return a.frame(st, viewH)
}

// frame computes the translation and mask windows for the page recorded on
// st. All coordinates in the returned Frame are viewport-relative.
func (a *applier) frame(st *pageState, viewH float64) Frame {
	start := st.starts[st.page]
	top := st.bands[start].Top
	offset := top - a.tun.TopGutter

	f := Frame{
		OffsetY:      offset,
		TopGutter:    Span{Top: 0, Bottom: a.tun.TopGutter},
		BottomMargin: Span{Top: viewH - a.tun.PeekGuard, Bottom: viewH},
	}

	end := pageEndBand(st.starts, st.page, len(st.bands))
	endY := st.bands[end].Bottom - offset
	if end < len(st.bands)-1 {
		peekTop := st.bands[end+1].Top - offset
		if peekTop < viewH {
			f.PageMask = Span{Top: endY, Bottom: viewH}
		}
	}
	return f
}
