package engine

import "sort"

// Rect is the axis-aligned bounding box of one rendered shape group, in
// pixels relative to the container's top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Bottom returns the y coordinate of the rect's lower edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Band is a vertically clustered region of rendered content, treated as an
// atomic, un-splittable unit for pagination. Bands are produced fresh by
// every scan and never mutated afterwards.
type Band struct {
	Top    float64
	Bottom float64
}

// Height returns the band's vertical extent.
func (b Band) Height() float64 { return b.Bottom - b.Top }

// Container describes the scan environment: the visible container size and
// the device pixel ratio of the display the surface was rendered for.
type Container struct {
	Width      float64
	Height     float64
	PixelRatio float64
}

// ScanBands clusters the bounding boxes of a rendered surface's leaf shape
// groups into an ordered band list. Boxes under the tuning noise thresholds
// are dropped, the rest are sorted by top coordinate and merged whenever the
// vertical gap between a box and the growing band is below a dynamic
// threshold. The threshold widens on high-density displays and on short
// containers, where one staff system would otherwise fragment into several
// bands.
//
// ScanBands is a pure function of its inputs. An empty result means the
// surface was not ready; callers must abort the current pass without touching
// existing page state.
func ScanBands(groups []Rect, c Container, tun Tuning) []Band {
	boxes := make([]Rect, 0, len(groups))
	for _, g := range groups {
		if g.W < tun.MinBoxWidth || g.H < tun.MinBoxHeight {
			continue
		}
		boxes = append(boxes, g)
	}
	if len(boxes) == 0 {
		return nil
	}
	sort.Slice(boxes, func(i, j int) bool { return boxes[i].Y < boxes[j].Y })

	gap := mergeGap(c, tun)
	bands := make([]Band, 0, len(boxes))
	cur := Band{Top: boxes[0].Y, Bottom: boxes[0].Bottom()}
	for _, b := range boxes[1:] {
		if b.Y-cur.Bottom < gap {
			if bot := b.Bottom(); bot > cur.Bottom {
				cur.Bottom = bot
			}
			continue
		}
		bands = append(bands, cur)
		cur = Band{Top: b.Y, Bottom: b.Bottom()}
	}
	return append(bands, cur)
}

// mergeGap derives the dynamic merge threshold for the given container.
func mergeGap(c Container, tun Tuning) float64 {
	gap := tun.BandGap
	if c.PixelRatio > tun.DensePixelRatio {
		gap *= tun.DenseGapFactor
	}
	if c.Height > 0 && c.Height < tun.ShortContainerHeight {
		gap *= tun.ShortContainerGapFactor
	}
	return gap
}
