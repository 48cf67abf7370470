// Package render implements the Document Renderer consumed by the engine:
// it lays a parsed score out as a tall scroll of staff systems on a gg
// vector canvas and reports the bounding box of every drawn cluster so the
// engine can scan the result into bands.
//
// Engraving fidelity is explicitly not a goal. Systems carry real staves,
// barlines, noteheads and stems so the geometry behaves like an engraved
// score, but nothing here aspires to publication quality.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gg"

	"github.com/scoreleaf/scoreleaf/internal/engine"
	"github.com/scoreleaf/scoreleaf/internal/logging"
	"github.com/scoreleaf/scoreleaf/internal/score"
)

// ErrNoDocument is returned by Render before any markup has been loaded.
var ErrNoDocument = errors.New("render: no document loaded")

// Geometry constants, in unzoomed pixels. Every drawn dimension is these
// values scaled by the current zoom.
const (
	marginX    = 20.0 // left/right page margin
	topPad     = 16.0 // space above the first drawn cluster
	bottomPad  = 24.0 // space below the last system
	titleH     = 18.0 // title block height
	titleGap   = 24.0 // gap between title block and first system
	staffGap   = 6.0  // distance between adjacent staff lines
	stemPad    = 10.0 // room above/below the staff for stems and ledger notes
	systemGap  = 36.0 // vertical distance between systems
	beatWidth  = 12.0 // horizontal space per quarter-note beat
	measurePad = 16.0 // fixed space per measure (barline + breathing room)
	noteRadius = 2.5
	minZoom    = 0.5
	maxZoom    = 4.0
)

// Engraver renders score markup into Surfaces. It satisfies
// engine.DocumentRenderer: Load parses, SetZoom scales subsequent renders,
// Render is the synchronous heavy step producing a fresh Surface.
type Engraver struct {
	mu   sync.Mutex
	sc   *score.Score
	zoom float64
	log  *slog.Logger
}

// NewEngraver returns an Engraver at zoom 1.
func NewEngraver() *Engraver {
	return &Engraver{zoom: 1, log: logging.New("render")}
}

// Load parses the markup and makes it the engraver's current document.
func (e *Engraver) Load(ctx context.Context, markup string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sc, err := score.Parse(markup)
	if err != nil {
		return fmt.Errorf("load score: %w", err)
	}
	e.mu.Lock()
	e.sc = sc
	e.mu.Unlock()
	e.log.Info("score loaded", "title", sc.Title, "measures", len(sc.Measures))
	return nil
}

// SetZoom sets the scale of subsequent renders, clamped to a sane range.
func (e *Engraver) SetZoom(z float64) {
	if z < minZoom {
		z = minZoom
	}
	if z > maxZoom {
		z = maxZoom
	}
	e.mu.Lock()
	e.zoom = z
	e.mu.Unlock()
}

// Zoom returns the current zoom factor.
func (e *Engraver) Zoom() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.zoom
}

// Score returns the currently loaded document, or nil.
func (e *Engraver) Score() *score.Score {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sc
}

// Render lays the document out at the given width and draws it. The
// returned Surface is fresh on every call; earlier surfaces stay valid for
// readers still blitting them.
func (e *Engraver) Render(layoutWidth float64) (engine.LayoutProvider, error) {
	e.mu.Lock()
	sc := e.sc
	zoom := e.zoom
	e.mu.Unlock()
	if sc == nil {
		return nil, ErrNoDocument
	}

	lay := layoutScore(sc, layoutWidth, zoom)
	dc := gg.NewContext(int(layoutWidth), int(lay.totalH))
	dc.ClearWithColor(gg.FromColor(surfaceBG))

	var groups []engine.Rect
	if lay.title != nil {
		drawTitle(dc, *lay.title, zoom)
		groups = append(groups, *lay.title)
	}
	for _, sys := range lay.systems {
		drawSystem(dc, sys, zoom)
		for _, m := range sys.measureBoxes {
			groups = append(groups, m)
		}
	}

	e.log.Debug("rendered",
		"layoutWidth", layoutWidth, "zoom", zoom,
		"systems", len(lay.systems), "height", lay.totalH)
	return &Surface{dc: dc, groups: groups}, nil
}

// layout is the computed geometry of one render: where the title block and
// each system sit on the scroll.
type layout struct {
	title   *engine.Rect
	systems []systemLayout
	totalH  float64
}

type systemLayout struct {
	y            float64 // top of the system box (including stem padding)
	measures     []score.Measure
	measureBoxes []engine.Rect
}

// layoutScore wraps measures into systems at the given width. Greedy
// packing, at least one measure per system; a measure wider than the line
// gets a system of its own and is drawn clipped.
func layoutScore(sc *score.Score, layoutWidth, zoom float64) layout {
	var lay layout
	avail := layoutWidth - 2*marginX*zoom
	sysBoxH := (4*staffGap + 2*stemPad) * zoom

	y := topPad * zoom
	if sc.Title != "" {
		titleW := layoutWidth * 0.45
		lay.title = &engine.Rect{X: marginX * zoom, Y: y, W: titleW, H: titleH * zoom}
		y += (titleH + titleGap) * zoom
	}

	i := 0
	for i < len(sc.Measures) {
		sys := systemLayout{y: y}
		x := marginX * zoom
		used := 0.0
		for i < len(sc.Measures) {
			w := measureWidth(sc.Measures[i], zoom)
			if len(sys.measures) > 0 && used+w > avail {
				break
			}
			sys.measures = append(sys.measures, sc.Measures[i])
			sys.measureBoxes = append(sys.measureBoxes, engine.Rect{X: x, Y: y, W: w, H: sysBoxH})
			x += w
			used += w
			i++
		}
		lay.systems = append(lay.systems, sys)
		y += sysBoxH + systemGap*zoom
	}
	lay.totalH = y - systemGap*zoom + bottomPad*zoom
	return lay
}

func measureWidth(m score.Measure, zoom float64) float64 {
	return (measurePad + beatWidth*m.Beats()) * zoom
}

// drawTitle fakes a centered title: a filled accent block with two rules,
// enough to produce title-shaped geometry without font plumbing.
func drawTitle(dc *gg.Context, box engine.Rect, zoom float64) {
	dc.SetColor(titleInk)
	dc.DrawRectangle(box.X, box.Y+box.H*0.25, box.W, box.H*0.5)
	dc.Fill()
	dc.SetLineWidth(1 * zoom)
	dc.DrawLine(box.X, box.Y, box.X+box.W, box.Y)
	dc.DrawLine(box.X, box.Y+box.H, box.X+box.W*0.7, box.Y+box.H)
	dc.Stroke()
}

// drawSystem engraves one system: staff, barlines, then the notes of each
// measure spread by beat position.
func drawSystem(dc *gg.Context, sys systemLayout, zoom float64) {
	if len(sys.measureBoxes) == 0 {
		return
	}
	left := sys.measureBoxes[0].X
	right := sys.measureBoxes[len(sys.measureBoxes)-1].X + sys.measureBoxes[len(sys.measureBoxes)-1].W
	staffTop := sys.y + stemPad*zoom

	dc.SetColor(surfaceInk)
	dc.SetLineWidth(1 * zoom)
	for line := 0; line < 5; line++ {
		ly := staffTop + float64(line)*staffGap*zoom
		dc.DrawLine(left, ly, right, ly)
	}
	dc.Stroke()

	staffBottom := staffTop + 4*staffGap*zoom
	for mi, box := range sys.measureBoxes {
		// Barline at the measure's right edge (and a leading one for the
		// first measure).
		if mi == 0 {
			dc.DrawLine(box.X, staffTop, box.X, staffBottom)
		}
		dc.DrawLine(box.X+box.W, staffTop, box.X+box.W, staffBottom)
		dc.Stroke()
		drawMeasure(dc, sys.measures[mi], box, staffBottom, zoom)
	}
}

func drawMeasure(dc *gg.Context, m score.Measure, box engine.Rect, staffBottom, zoom float64) {
	x := box.X + measurePad*zoom*0.5
	for _, n := range m.Notes {
		if n.Rest {
			// Rests sit as a small block on the middle line.
			ry := staffBottom - 2*staffGap*zoom
			dc.DrawRectangle(x-2*zoom, ry-2*zoom, 4*zoom, 4*zoom)
			dc.Fill()
		} else {
			ny := noteY(n, staffBottom, zoom)
			dc.DrawCircle(x, ny, noteRadius*zoom)
			dc.Fill()
			dc.SetLineWidth(1 * zoom)
			dc.DrawLine(x+noteRadius*zoom, ny, x+noteRadius*zoom, ny-7*zoom)
			dc.Stroke()
		}
		x += beatWidth * n.Beats() * zoom
	}
}

// noteY maps a pitch to its vertical staff position. E4 sits on the bottom
// line of the treble staff; each diatonic step is half a staff gap.
func noteY(n score.Note, staffBottom, zoom float64) float64 {
	const e4 = 30 // staff position of E4
	return staffBottom - float64(n.StaffPosition()-e4)*staffGap*zoom/2
}
