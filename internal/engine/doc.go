// Package engine implements viewport pagination for a continuously flowing
// rendered score.
//
// A rendered score is a tall scroll of staff systems. The engine inspects the
// scroll's shape groups and clusters them into bands (one band per system),
// packs consecutive bands into pages that fit the current viewport, and
// positions the surface so exactly one page is visible, masking slivers of
// neighboring pages. When the viewport, zoom, or document changes, the
// coordinator re-derives the pages: a width or zoom change forces a full
// re-render at a new layout width, a height-only change merely repaginates
// the existing bands.
//
// At most one heavy pass runs at a time. Requests arriving while a pass is
// running are remembered in a single pending slot (a width request overrides
// a pending height request, never the reverse) and drained when the running
// pass completes. All page state lives in the coordinator behind one mutex;
// other components only read it or request a re-run.
package engine
