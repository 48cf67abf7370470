package app

// Messages delivered to the Update loop. The engine runs its passes on
// background goroutines and signals through the model's event channel; the
// channel is drained back into Bubble Tea by waitEvent.

// frameAppliedMsg fires after the engine applied a presentation frame to the
// surface. The view simply redraws from current state.
type frameAppliedMsg struct{}

// busyChangedMsg fires on busy flag transitions.
type busyChangedMsg struct {
	busy bool
}

// engineErrMsg carries a renderer failure surfaced by the engine.
type engineErrMsg struct {
	err error
}

// loadResultMsg carries the outcome of the initial document load.
type loadResultMsg struct {
	err error
}

// revalidateMsg fires one tick after a page gesture so the navigator can
// verify the page it wanted is the page on screen.
type revalidateMsg struct{}
