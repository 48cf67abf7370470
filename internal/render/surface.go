package render

import (
	"image"
	"image/color"
	"sync"

	"github.com/gogpu/gg"

	"github.com/scoreleaf/scoreleaf/internal/engine"
)

// Background and ink colors of the rendered surface. The masks painted over
// page edges use the background color so a masked sliver is indistinguishable
// from empty paper.
var (
	surfaceBG  = color.RGBA{R: 0x12, G: 0x12, B: 0x16, A: 0xff}
	surfaceInk = color.RGBA{R: 0xd8, G: 0xd4, B: 0xc8, A: 0xff}
	titleInk   = color.RGBA{R: 0xc9, G: 0xa2, B: 0x5c, A: 0xff}
)

// Surface is one rendered layout of a score: a vector canvas plus the
// bounding boxes of its leaf shape groups. It implements the engine's
// LayoutProvider. A Surface is immutable after rendering except for the
// presentation frame, which the engine replaces wholesale on every apply.
type Surface struct {
	dc     *gg.Context
	groups []engine.Rect

	mu    sync.Mutex
	frame engine.Frame
}

// Groups returns the shape-group bounding boxes relative to the surface top.
func (s *Surface) Groups() []engine.Rect {
	out := make([]engine.Rect, len(s.groups))
	copy(out, s.groups)
	return out
}

// ApplyFrame installs the presentation frame. Cheap by contract: the frame
// is consulted at blit time, nothing is re-rendered.
func (s *Surface) ApplyFrame(f engine.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = f
}

// Frame returns the currently installed presentation frame.
func (s *Surface) Frame() engine.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Size returns the full rendered extent in pixels.
func (s *Surface) Size() (w, h int) {
	return s.dc.Width(), s.dc.Height()
}

// Visible composes the viewport image: the surface translated by the frame
// offset with the opaque masking strips painted over it. This is the only
// path pixels take to the screen, so everything the engine decided (page
// position, peek masking, edge strips) is observable here.
func (s *Surface) Visible(viewW, viewH int) *image.RGBA {
	frame := s.Frame()
	src := s.dc.Image()
	out := image.NewRGBA(image.Rect(0, 0, viewW, viewH))

	for y := 0; y < viewH; y++ {
		srcY := y + int(frame.OffsetY)
		masked := inSpan(frame.TopGutter, y) || inSpan(frame.BottomMargin, y) || inSpan(frame.PageMask, y)
		for x := 0; x < viewW; x++ {
			if masked || srcY < 0 || srcY >= s.dc.Height() || x >= s.dc.Width() {
				out.SetRGBA(x, y, surfaceBG)
				continue
			}
			out.Set(x, y, src.At(x, srcY))
		}
	}
	return out
}

func inSpan(sp engine.Span, y int) bool {
	if sp.IsZero() {
		return false
	}
	fy := float64(y)
	return fy >= sp.Top && fy < sp.Bottom
}
