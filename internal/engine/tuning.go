package engine

import "time"

// Tuning collects every numeric heuristic the engine uses. The defaults were
// chosen against common terminal sizes; all of them can be overridden through
// the config file, so deployments can adjust them without a rebuild.
type Tuning struct {
	// MinBoxWidth and MinBoxHeight filter out noise boxes (ledger ticks,
	// rounding slivers) before bands are formed.
	MinBoxWidth  float64
	MinBoxHeight float64

	// BandGap is the base vertical gap, in surface pixels, under which two
	// boxes merge into the same band.
	BandGap float64

	// DensePixelRatio is the device pixel ratio above which the merge gap is
	// widened by DenseGapFactor. High-density displays report finer boxes,
	// which would otherwise fragment one system into several bands.
	DensePixelRatio float64
	DenseGapFactor  float64

	// ShortContainerHeight is the container height, in pixels, below which
	// the merge gap is widened by ShortContainerGapFactor. Small viewports
	// must merge more aggressively or a single system shatters into many
	// bands and pages degenerate to slivers.
	ShortContainerHeight    float64
	ShortContainerGapFactor float64

	// TopGutter is the fixed gap, in pixels, kept above the first band of
	// the displayed page.
	TopGutter float64

	// TitleMaxRatio classifies the first band as title-like when its height
	// is under this fraction of the median height of the following bands.
	// TitleMinHeight floors the comparison threshold. TitleLookahead is how
	// many following bands contribute to the median.
	TitleMaxRatio  float64
	TitleMinHeight float64
	TitleLookahead int

	// FirstPageSlack is the extra page-height fraction granted on the first
	// page when its first band is title-like, so a short title line is not
	// exiled to a page of its own.
	FirstPageSlack float64

	// TitleFusionSpan is the page-height multiple within which the title
	// plus the first two systems are forced onto page one together.
	TitleFusionSpan float64

	// LastBandMargin is the safety distance, in pixels, between the final
	// band's bottom and the page's bottom edge. A closer fit pushes the band
	// onto a page of its own so it is never truncated.
	LastBandMargin float64

	// PeekGuard is the minimum masked sliver, in pixels, kept at the bottom
	// page edge so rounding never lets next-page content peek through.
	PeekGuard float64

	// MaxApplyAttempts bounds the page applier's self-correction loop.
	// Exceeding it is a logged no-op, never a crash.
	MaxApplyAttempts int

	// MinLayoutWidth and MaxLayoutWidth clamp the layout width handed to
	// the renderer, in surface pixels. The surface is presented unscaled,
	// so outside the clamp the canvas no longer matches the viewport.
	MinLayoutWidth float64
	MaxLayoutWidth float64

	// DebounceWindow is how long the viewport tracker waits after the last
	// observed change before classifying and dispatching it.
	DebounceWindow time.Duration

	// ZoomPollInterval drives the optional zoom poll on hosts where scale
	// changes are not event-driven.
	ZoomPollInterval time.Duration

	// SettleTimeout bounds every wait on a paint-settled signal. The wait
	// always resolves in the timeout's favor so a pass can never stall.
	SettleTimeout time.Duration

	// BusyCeiling force-clears a stuck busy flag. BusyHeavyExtension is the
	// re-arm interval used while the owning pass sits in a known-heavy phase
	// (render or scan), where a long wall time is expected.
	BusyCeiling        time.Duration
	BusyHeavyExtension time.Duration

	// SwipeMinDistance and SwipeMaxDuration classify a touch sequence as a
	// page-turn swipe.
	SwipeMinDistance float64
	SwipeMaxDuration time.Duration

	// MetricsEpsilon is the pixel tolerance under which two viewport
	// measurements count as equal.
	MetricsEpsilon float64
}

// DefaultTuning returns the stock tuning values.
func DefaultTuning() Tuning {
	return Tuning{
		MinBoxWidth:  4,
		MinBoxHeight: 2,

		BandGap:                 14,
		DensePixelRatio:         1.5,
		DenseGapFactor:          1.5,
		ShortContainerHeight:    420,
		ShortContainerGapFactor: 1.75,

		TopGutter: 8,

		TitleMaxRatio:  0.6,
		TitleMinHeight: 8,
		TitleLookahead: 5,

		FirstPageSlack:  0.08,
		TitleFusionSpan: 1.12,

		LastBandMargin: 10,
		PeekGuard:      2,

		MaxApplyAttempts: 4,

		MinLayoutWidth: 60,
		MaxLayoutWidth: 2400,

		DebounceWindow:   200 * time.Millisecond,
		ZoomPollInterval: time.Second,
		SettleTimeout:    250 * time.Millisecond,

		BusyCeiling:        6 * time.Second,
		BusyHeavyExtension: 2 * time.Second,

		SwipeMinDistance: 48,
		SwipeMaxDuration: 600 * time.Millisecond,

		MetricsEpsilon: 0.5,
	}
}
