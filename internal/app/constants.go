package app

import "time"

// Layout constants define the fixed parts of the terminal layout.
const (
	// FooterRows is the number of rows reserved for the bottom status area.
	FooterRows = 2

	// PixelsPerRow is the vertical resolution of one terminal row when the
	// canvas is drawn with half-block characters.
	PixelsPerRow = 2
)

// Interaction constants control gesture and zoom behavior.
const (
	// ZoomStep is the zoom delta applied per zoom keypress.
	ZoomStep = 0.25

	// MinUserZoom and MaxUserZoom bound the zoom reachable from the keyboard.
	MinUserZoom = 0.5
	MaxUserZoom = 4.0

	// RevalidateDelay is how long after a page gesture the navigator is asked
	// to double-check that the page it wanted is the page on screen.
	RevalidateDelay = 50 * time.Millisecond
)
