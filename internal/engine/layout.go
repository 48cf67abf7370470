package engine

// Span is a vertical pixel range in viewport coordinates. The zero Span
// means "absent".
type Span struct {
	Top    float64
	Bottom float64
}

// IsZero reports whether the span is absent.
func (s Span) IsZero() bool { return s.Top == 0 && s.Bottom == 0 }

// Height returns the span's vertical extent.
func (s Span) Height() float64 { return s.Bottom - s.Top }

// Frame is the complete presentation state the engine applies to a surface:
// a vertical translation plus up to three opaque masking strips. Applying the
// same Frame twice is always safe; the Frame is the engine's only observable
// side effect on the surface.
type Frame struct {
	// OffsetY is how far, in pixels, the surface is shifted upward so the
	// current page's first band sits at the top of the viewport.
	OffsetY float64

	// TopGutter paints over the strip above the page content so the page
	// edge is clean regardless of rounding.
	TopGutter Span

	// BottomMargin paints over the strip at the very bottom of the viewport.
	BottomMargin Span

	// PageMask hides the sliver of next-page content that would otherwise
	// peek into the page because band heights rarely divide the viewport
	// evenly. Absent when nothing peeks.
	PageMask Span
}

// LayoutProvider abstracts the rendered surface so the scanner and applier
// can be exercised against synthetic geometry. Implementations report the
// bounding boxes of the surface's leaf shape groups relative to the container
// top edge, and accept presentation frames.
type LayoutProvider interface {
	// Groups enumerates the leaf shape-group bounding boxes of the rendered
	// surface, relative to the container's top-left corner.
	Groups() []Rect

	// ApplyFrame positions the surface and installs the opaque masks. It
	// must be cheap and must not re-render.
	ApplyFrame(Frame)
}

// ViewportMetrics is a snapshot of the environment a pass runs against. The
// coordinator stamps the metrics it last handled successfully, so change
// detection compares against applied state rather than observed state.
type ViewportMetrics struct {
	Width      float64
	Height     float64
	Zoom       float64
	PixelRatio float64
}

// IsZero reports whether the metrics have never been set.
func (m ViewportMetrics) IsZero() bool {
	return m.Width == 0 && m.Height == 0 && m.Zoom == 0
}

func (m ViewportMetrics) container() Container {
	return Container{Width: m.Width, Height: m.Height, PixelRatio: m.PixelRatio}
}
