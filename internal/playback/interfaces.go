package playback

import (
	"time"

	"convoplay/internal/demo"
)

// PlayState is the affordance the control surface should show.
type PlayState string

const (
	PlayStatePlay   PlayState = "play"
	PlayStatePause  PlayState = "pause"
	PlayStateReplay PlayState = "replay"
)

// Renderer is the capability surface the controller drives. Implementations
// render to a real medium (terminal, generated document) or just record calls
// in tests; the controller never touches a rendering primitive directly.
type Renderer interface {
	// Reveal renders the step and marks it visible for entrance animation.
	Reveal(step demo.Step)
	// ClearAll removes every rendered step of the active scenario.
	ClearAll()
	// SetProgress updates the visual countdown. active=false clears it.
	SetProgress(fraction float64, active bool)
	// SetPlayState reflects play/pause/replay affordances on the controls.
	SetPlayState(state PlayState)
	// ShowUpNext displays the scenario-transition card.
	ShowUpNext(next demo.Scenario)
	// FadeOut and FadeIn bracket scenario switches with an opacity
	// transition of roughly FadeDuration.
	FadeOut()
	FadeIn()
	// ScrollIntoView keeps the newest revealed step visible.
	ScrollIntoView()
}

// Timer is an opaque handle to a scheduled callback.
type Timer interface {
	// Stop cancels the timer; it reports false if the callback already
	// fired or was stopped. Cancellation need not be synchronous: the
	// controller guards against stale firings itself.
	Stop() bool
}

// Scheduler abstracts timer creation so tests can drive time manually.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
	Now() time.Time
}
