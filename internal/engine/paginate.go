package engine

import "sort"

// ComputeStarts derives page boundaries from a band list and a page height.
// The result is the index of the first band of every page: strictly
// increasing, starting at 0, covering every band. A single band taller than
// the page still becomes its own page; the index always advances by at least
// one band per page, so termination does not depend on the band geometry.
//
// Pages are packed greedily: starting at band i, following bands join the
// page while the cumulative span bands[j].Bottom-bands[i].Top stays within
// the page height. The first page is granted extra slack when its first band
// is title-like (see titleLike), so a short title line is kept together with
// the opening systems instead of occupying a page of its own.
func ComputeStarts(bands []Band, pageHeight float64, tun Tuning) []int {
	if len(bands) == 0 {
		return nil
	}
	starts := []int{0}
	titled := titleLike(bands, tun)
	i := 0
	for i < len(bands) {
		allow := pageHeight
		if i == 0 && titled {
			allow += tun.FirstPageSlack * pageHeight
		}
		j := i
		for j+1 < len(bands) && bands[j+1].Bottom-bands[i].Top <= allow {
			j++
		}
		// Title fusion: even when the slack was not enough, try hard to keep
		// the title and the first two systems on page one.
		if i == 0 && titled && j < 2 && len(bands) >= 3 &&
			bands[2].Bottom-bands[0].Top <= pageHeight*tun.TitleFusionSpan {
			j = 2
		}
		i = j + 1
		if i < len(bands) {
			starts = append(starts, i)
		}
	}
	return starts
}

// titleLike reports whether the first band looks like a title line: clearly
// shorter than the median of the next few bands. The comparison threshold is
// floored at TitleMinHeight so degenerate medians do not disable the
// heuristic entirely.
func titleLike(bands []Band, tun Tuning) bool {
	if len(bands) < 2 {
		return false
	}
	n := tun.TitleLookahead
	if n > len(bands)-1 {
		n = len(bands) - 1
	}
	heights := make([]float64, n)
	for k := 0; k < n; k++ {
		heights[k] = bands[k+1].Height()
	}
	sort.Float64s(heights)
	median := heights[n/2]
	if n%2 == 0 {
		median = (heights[n/2-1] + heights[n/2]) / 2
	}
	threshold := tun.TitleMaxRatio * median
	if threshold < tun.TitleMinHeight {
		threshold = tun.TitleMinHeight
	}
	return bands[0].Height() < threshold
}

// PageForBand returns the index of the page whose band range contains the
// given band index.
func PageForBand(starts []int, band int) int {
	page := 0
	for p, s := range starts {
		if s > band {
			break
		}
		page = p
	}
	return page
}

// pageEndBand returns the index of the last band on the given page.
func pageEndBand(starts []int, page, bandCount int) int {
	if page+1 < len(starts) {
		return starts[page+1] - 1
	}
	return bandCount - 1
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
