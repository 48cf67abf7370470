package render

import (
	"testing"

	"github.com/gogpu/gg"

	"github.com/scoreleaf/scoreleaf/internal/engine"
)

// inkSurface returns a Surface whose entire canvas is painted with ink, so
// any background pixel in Visible output must come from a mask or an
// out-of-range translation.
func inkSurface(w, h int) *Surface {
	dc := gg.NewContext(w, h)
	dc.ClearWithColor(gg.FromColor(surfaceInk))
	return &Surface{dc: dc}
}

func isBG(t *testing.T, s *Surface, viewW, viewH, x, y int) bool {
	t.Helper()
	img := s.Visible(viewW, viewH)
	return img.RGBAAt(x, y) == surfaceBG
}

func TestApplyFrameRoundTrip(t *testing.T) {
	s := inkSurface(10, 40)
	f := engine.Frame{
		OffsetY:      12,
		TopGutter:    engine.Span{Top: 0, Bottom: 4},
		BottomMargin: engine.Span{Top: 28, Bottom: 30},
	}
	s.ApplyFrame(f)
	if got := s.Frame(); got != f {
		t.Fatalf("Frame() = %+v, want %+v", got, f)
	}
}

func TestVisibleTranslatesByOffset(t *testing.T) {
	s := inkSurface(10, 40)
	s.ApplyFrame(engine.Frame{OffsetY: 10})

	// Row 0 maps to surface row 10, well inside the canvas.
	if isBG(t, s, 10, 20, 5, 0) {
		t.Fatal("in-range translated pixel should carry surface ink")
	}
	// Row 35 maps to surface row 45, past the bottom edge.
	if !isBG(t, s, 10, 40, 5, 35) {
		t.Fatal("pixels past the surface bottom must read as background")
	}
}

func TestVisibleNegativeOffsetReadsBackground(t *testing.T) {
	s := inkSurface(10, 40)
	s.ApplyFrame(engine.Frame{OffsetY: -5})
	if !isBG(t, s, 10, 20, 3, 2) {
		t.Fatal("rows above the surface top must read as background")
	}
	if isBG(t, s, 10, 20, 3, 8) {
		t.Fatal("rows inside the surface must carry ink")
	}
}

func TestVisiblePaintsMaskSpans(t *testing.T) {
	s := inkSurface(10, 100)
	s.ApplyFrame(engine.Frame{
		TopGutter:    engine.Span{Top: 0, Bottom: 8},
		BottomMargin: engine.Span{Top: 46, Bottom: 50},
		PageMask:     engine.Span{Top: 30, Bottom: 50},
	})

	img := s.Visible(10, 50)
	for _, y := range []int{0, 7, 30, 40, 46, 49} {
		if img.RGBAAt(4, y) != surfaceBG {
			t.Fatalf("row %d should be masked", y)
		}
	}
	for _, y := range []int{8, 15, 29} {
		if img.RGBAAt(4, y) == surfaceBG {
			t.Fatalf("row %d should show surface ink", y)
		}
	}
}

func TestVisibleZeroSpansMaskNothing(t *testing.T) {
	s := inkSurface(10, 100)
	s.ApplyFrame(engine.Frame{})
	img := s.Visible(10, 50)
	for _, y := range []int{0, 25, 49} {
		if img.RGBAAt(4, y) == surfaceBG {
			t.Fatalf("row %d masked by a zero span", y)
		}
	}
}

func TestVisibleWiderThanSurface(t *testing.T) {
	s := inkSurface(10, 40)
	s.ApplyFrame(engine.Frame{})
	img := s.Visible(20, 20)
	if img.RGBAAt(15, 5) != surfaceBG {
		t.Fatal("columns past the surface edge must read as background")
	}
	if img.RGBAAt(5, 5) == surfaceBG {
		t.Fatal("columns inside the surface must carry ink")
	}
}

func TestGroupsReturnsCopy(t *testing.T) {
	s := inkSurface(10, 10)
	s.groups = []engine.Rect{{X: 1, Y: 2, W: 3, H: 4}}
	got := s.Groups()
	got[0].Y = 99
	if s.groups[0].Y != 2 {
		t.Fatal("Groups must not expose internal state")
	}
}
