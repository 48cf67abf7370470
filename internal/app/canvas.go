package app

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// halfBlocks draws an image into terminal cells. Each cell is one upper
// half-block whose foreground carries the top pixel and whose background
// carries the bottom pixel, doubling the vertical resolution of the grid.
func halfBlocks(img *image.RGBA) string {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return ""
	}

	var sb strings.Builder
	for y := 0; y < h; y += PixelsPerRow {
		if y > 0 {
			sb.WriteByte('\n')
		}
		var runStart int
		var runTop, runBot color.RGBA
		runLen := 0
		flush := func(end int) {
			if runLen == 0 {
				return
			}
			cell := lipgloss.NewStyle().
				Foreground(hexColor(runTop)).
				Background(hexColor(runBot))
			sb.WriteString(cell.Render(strings.Repeat("▀", end-runStart)))
		}
		for x := 0; x < w; x++ {
			top := img.RGBAAt(x, y)
			bot := top
			if y+1 < h {
				bot = img.RGBAAt(x, y+1)
			}
			if runLen == 0 || top != runTop || bot != runBot {
				flush(x)
				runStart = x
				runTop, runBot = top, bot
				runLen = 1
				continue
			}
			runLen++
		}
		flush(w)
	}
	return sb.String()
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
