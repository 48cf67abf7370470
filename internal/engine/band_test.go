package engine

import "testing"

func TestScanBandsMergesWithinGap(t *testing.T) {
	tun := DefaultTuning()
	c := Container{Width: 800, Height: 600, PixelRatio: 1}
	// Two clusters: staff lines 10px apart merge, the 40px gap separates.
	groups := []Rect{
		{X: 0, Y: 0, W: 700, H: 8},
		{X: 0, Y: 18, W: 700, H: 8},
		{X: 0, Y: 66, W: 700, H: 8},
		{X: 0, Y: 76, W: 700, H: 8},
	}
	bands := ScanBands(groups, c, tun)
	if len(bands) != 2 {
		t.Fatalf("got %d bands, want 2: %v", len(bands), bands)
	}
	if bands[0].Top != 0 || bands[0].Bottom != 26 {
		t.Fatalf("band 0 = %+v, want {0 26}", bands[0])
	}
	if bands[1].Top != 66 || bands[1].Bottom != 84 {
		t.Fatalf("band 1 = %+v, want {66 84}", bands[1])
	}
}

func TestScanBandsSortsUnorderedGroups(t *testing.T) {
	tun := DefaultTuning()
	c := Container{Width: 800, Height: 600, PixelRatio: 1}
	groups := []Rect{
		{X: 0, Y: 200, W: 700, H: 20},
		{X: 0, Y: 0, W: 700, H: 20},
		{X: 0, Y: 100, W: 700, H: 20},
	}
	bands := ScanBands(groups, c, tun)
	if len(bands) != 3 {
		t.Fatalf("got %d bands, want 3", len(bands))
	}
	for i := 1; i < len(bands); i++ {
		if bands[i].Top <= bands[i-1].Top {
			t.Fatalf("bands not ordered by top: %v", bands)
		}
	}
}

func TestScanBandsFiltersNoise(t *testing.T) {
	tun := DefaultTuning()
	c := Container{Width: 800, Height: 600, PixelRatio: 1}
	groups := []Rect{
		{X: 0, Y: 0, W: 700, H: 20},
		{X: 10, Y: 300, W: 2, H: 40},  // too narrow
		{X: 10, Y: 400, W: 400, H: 1}, // too short
	}
	bands := ScanBands(groups, c, tun)
	if len(bands) != 1 {
		t.Fatalf("got %d bands, want 1 after noise filter: %v", len(bands), bands)
	}
}

func TestScanBandsEmptySurface(t *testing.T) {
	bands := ScanBands(nil, Container{Width: 800, Height: 600, PixelRatio: 1}, DefaultTuning())
	if bands != nil {
		t.Fatalf("got %v for empty surface, want nil", bands)
	}
}

func TestScanBandsDenseDisplayMergesWider(t *testing.T) {
	tun := DefaultTuning()
	groups := []Rect{
		{X: 0, Y: 0, W: 700, H: 10},
		{X: 0, Y: 28, W: 700, H: 10}, // 18px gap: above base, below widened
	}
	normal := ScanBands(groups, Container{Width: 800, Height: 600, PixelRatio: 1}, tun)
	if len(normal) != 2 {
		t.Fatalf("got %d bands at dpr 1, want 2", len(normal))
	}
	dense := ScanBands(groups, Container{Width: 800, Height: 600, PixelRatio: 2}, tun)
	if len(dense) != 1 {
		t.Fatalf("got %d bands at dpr 2, want 1 (wider merge gap)", len(dense))
	}
}

func TestScanBandsShortContainerMergesWider(t *testing.T) {
	tun := DefaultTuning()
	groups := []Rect{
		{X: 0, Y: 0, W: 700, H: 10},
		{X: 0, Y: 30, W: 700, H: 10}, // 20px gap
	}
	tall := ScanBands(groups, Container{Width: 800, Height: 600, PixelRatio: 1}, tun)
	if len(tall) != 2 {
		t.Fatalf("got %d bands on tall container, want 2", len(tall))
	}
	short := ScanBands(groups, Container{Width: 800, Height: 300, PixelRatio: 1}, tun)
	if len(short) != 1 {
		t.Fatalf("got %d bands on short container, want 1 (wider merge gap)", len(short))
	}
}

func TestScanBandsIsPure(t *testing.T) {
	tun := DefaultTuning()
	c := Container{Width: 800, Height: 600, PixelRatio: 1}
	groups := []Rect{
		{X: 0, Y: 50, W: 700, H: 20},
		{X: 0, Y: 0, W: 700, H: 20},
	}
	first := ScanBands(groups, c, tun)
	second := ScanBands(groups, c, tun)
	if len(first) != len(second) {
		t.Fatalf("repeated scans disagree: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("repeated scans disagree: %v vs %v", first, second)
		}
	}
	// Input order must be preserved for the caller.
	if groups[0].Y != 50 {
		t.Fatal("ScanBands mutated its input slice")
	}
}
