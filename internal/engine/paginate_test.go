package engine

import (
	"testing"
)

func bandsFromPairs(pairs ...[2]float64) []Band {
	out := make([]Band, len(pairs))
	for i, p := range pairs {
		out[i] = Band{Top: p[0], Bottom: p[1]}
	}
	return out
}

// checkStartsInvariants verifies the structural contract of ComputeStarts:
// strictly increasing, first element 0, final page covers the last band.
func checkStartsInvariants(t *testing.T, bands []Band, starts []int) {
	t.Helper()
	if len(starts) == 0 {
		t.Fatal("expected at least one page start")
	}
	if starts[0] != 0 {
		t.Fatalf("first start is %d, want 0", starts[0])
	}
	for i := 1; i < len(starts); i++ {
		if starts[i] <= starts[i-1] {
			t.Fatalf("starts not strictly increasing: %v", starts)
		}
	}
	if last := starts[len(starts)-1]; last > len(bands)-1 {
		t.Fatalf("last start %d beyond final band %d", last, len(bands)-1)
	}
}

func TestComputeStartsNoPairFits(t *testing.T) {
	bands := bandsFromPairs([2]float64{0, 100}, [2]float64{110, 250}, [2]float64{260, 400})
	starts := ComputeStarts(bands, 150, DefaultTuning())
	checkStartsInvariants(t, bands, starts)
	want := []int{0, 1, 2}
	if len(starts) != len(want) {
		t.Fatalf("got starts %v, want %v", starts, want)
	}
	for i := range want {
		if starts[i] != want[i] {
			t.Fatalf("got starts %v, want %v", starts, want)
		}
	}
}

func TestComputeStartsTitleFusionKeepsTitleWithFirstSystem(t *testing.T) {
	// A 30px title followed by two tall systems: without the title
	// heuristic the title band would be exiled to its own page.
	bands := bandsFromPairs([2]float64{0, 30}, [2]float64{40, 300}, [2]float64{310, 560})
	starts := ComputeStarts(bands, 310, DefaultTuning())
	checkStartsInvariants(t, bands, starts)
	if len(starts) != 2 || starts[1] != 2 {
		t.Fatalf("got starts %v, want [0 2]", starts)
	}
	if page := PageForBand(starts, 1); page != 0 {
		t.Fatalf("band 1 on page %d, want 0 (fused with title)", page)
	}
}

func TestComputeStartsTitleFusionForcesFirstTwoSystems(t *testing.T) {
	// The two systems overflow the plain page height but sit within the
	// fusion span, so all three bands land on page one.
	bands := bandsFromPairs([2]float64{0, 20}, [2]float64{30, 160}, [2]float64{170, 310}, [2]float64{320, 460})
	tun := DefaultTuning()
	starts := ComputeStarts(bands, 280, tun)
	checkStartsInvariants(t, bands, starts)
	if PageForBand(starts, 2) != 0 {
		t.Fatalf("band 2 not fused onto page 0: starts %v", starts)
	}
	if PageForBand(starts, 3) == 0 {
		t.Fatalf("band 3 unexpectedly on page 0: starts %v", starts)
	}
}

func TestComputeStartsOversizedBandGetsOwnPage(t *testing.T) {
	bands := bandsFromPairs([2]float64{0, 50}, [2]float64{60, 600}, [2]float64{610, 660})
	starts := ComputeStarts(bands, 200, DefaultTuning())
	checkStartsInvariants(t, bands, starts)
	// The 540px band exceeds the 200px page but still becomes exactly one
	// page; the index advances past it.
	if PageForBand(starts, 1) == PageForBand(starts, 2) {
		t.Fatalf("oversized band shares a page: starts %v", starts)
	}
}

func TestComputeStartsSingleBand(t *testing.T) {
	bands := bandsFromPairs([2]float64{0, 900})
	starts := ComputeStarts(bands, 100, DefaultTuning())
	if len(starts) != 1 || starts[0] != 0 {
		t.Fatalf("got starts %v, want [0]", starts)
	}
}

func TestComputeStartsEmpty(t *testing.T) {
	if starts := ComputeStarts(nil, 100, DefaultTuning()); starts != nil {
		t.Fatalf("got starts %v for empty bands, want nil", starts)
	}
}

func TestComputeStartsPacksGreedily(t *testing.T) {
	// Ten uniform 80px systems with 20px gaps, 310px pages: three systems
	// span 280, four span 380, so pages hold three systems each.
	var bands []Band
	for i := 0; i < 10; i++ {
		top := float64(i) * 100
		bands = append(bands, Band{Top: top, Bottom: top + 80})
	}
	starts := ComputeStarts(bands, 310, DefaultTuning())
	checkStartsInvariants(t, bands, starts)
	want := []int{0, 3, 6, 9}
	if len(starts) != len(want) {
		t.Fatalf("got starts %v, want %v", starts, want)
	}
	for i := range want {
		if starts[i] != want[i] {
			t.Fatalf("got starts %v, want %v", starts, want)
		}
	}
}

func TestTitleLike(t *testing.T) {
	tun := DefaultTuning()
	tests := []struct {
		name  string
		bands []Band
		want  bool
	}{
		{
			name:  "short title before tall systems",
			bands: bandsFromPairs([2]float64{0, 30}, [2]float64{40, 300}, [2]float64{310, 560}),
			want:  true,
		},
		{
			name:  "uniform systems",
			bands: bandsFromPairs([2]float64{0, 100}, [2]float64{110, 250}, [2]float64{260, 400}),
			want:  false,
		},
		{
			name:  "single band",
			bands: bandsFromPairs([2]float64{0, 30}),
			want:  false,
		},
		{
			name:  "tiny bands everywhere stay above the floor",
			bands: bandsFromPairs([2]float64{0, 5}, [2]float64{10, 16}, [2]float64{20, 26}),
			want:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := titleLike(tt.bands, tun); got != tt.want {
				t.Fatalf("titleLike = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPageForBand(t *testing.T) {
	starts := []int{0, 3, 6, 9}
	tests := []struct {
		band, want int
	}{
		{0, 0}, {2, 0}, {3, 1}, {5, 1}, {6, 2}, {9, 3}, {42, 3},
	}
	for _, tt := range tests {
		if got := PageForBand(starts, tt.band); got != tt.want {
			t.Fatalf("PageForBand(%d) = %d, want %d", tt.band, got, tt.want)
		}
	}
}
