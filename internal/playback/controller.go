// Package playback implements the timing and state-machine engine that
// decides when each conversation step appears, how playback reacts to user
// controls, and how scenarios hand over to each other. All methods must be
// called from a single logical thread; scheduler callbacks re-enter through
// that same thread (the scheduler implementation is responsible for
// marshalling when its timers fire elsewhere).
package playback

import (
	"time"

	"convoplay/internal/demo"
	"convoplay/internal/timing"
)

// State names the controller's finite states.
type State int

const (
	// Unstarted: first step shown as a static preview, nothing scheduled.
	Unstarted State = iota
	// Playing: a reveal is scheduled.
	Playing
	// PausedMidStream: user paused after at least one auto-reveal.
	PausedMidStream
	// SceneComplete: all steps of the current scenario revealed.
	SceneComplete
	// Transitioning: up-next card or fade in flight, a switch is pending.
	Transitioning
)

func (s State) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Playing:
		return "playing"
	case PausedMidStream:
		return "paused"
	case SceneComplete:
		return "complete"
	case Transitioning:
		return "transitioning"
	}
	return "unknown"
}

// FadeDuration is the opacity transition bracketing scenario switches.
const FadeDuration = 300 * time.Millisecond

// Options tune a controller at construction time.
type Options struct {
	// Speed is the initial multiplier; 0 means 1x.
	Speed float64
	// ReducedMotion reveals whole scenarios synchronously with no
	// scheduling at all.
	ReducedMotion bool
}

// Controller owns the playback position and all scheduling. One instance per
// rendered document; the demo it plays is immutable.
type Controller struct {
	demo  *demo.Demo
	rend  Renderer
	sched Scheduler

	state       State
	scenarioIdx int
	// stepIdx is the index of the next step to reveal, 0..len(steps).
	stepIdx       int
	hasStarted    bool
	speed         float64
	reducedMotion bool

	// seq invalidates outstanding timers: a fired callback whose captured
	// seq no longer matches is stale and ignored. Needed because timer
	// cancellation is not guaranteed synchronous on every platform.
	seq     uint64
	pending Timer

	// swapResume records whether the in-flight transition will resume
	// playback once it lands. A tab switch arriving mid-transition inherits
	// this instead of treating the fade itself as activity, so chained
	// switches from an idle preview stay idle.
	swapResume bool

	// In-flight reveal bookkeeping for mid-delay speed changes. baseDelay
	// is content time; contentConsumed accumulates across reschedules.
	baseDelay       time.Duration
	contentConsumed time.Duration
	scheduledAt     time.Time

	countdown *Countdown
}

// NewController builds a controller positioned at the first scenario's static
// preview. The demo must already be validated and default-filled.
func NewController(d *demo.Demo, rend Renderer, sched Scheduler, opts Options) *Controller {
	speed := opts.Speed
	if speed <= 0 {
		speed = 1
	}
	c := &Controller{
		demo:          d,
		rend:          rend,
		sched:         sched,
		speed:         speed,
		reducedMotion: opts.ReducedMotion,
		countdown:     NewCountdown(rend, sched),
	}
	c.showPreview()
	return c
}

func (c *Controller) State() State     { return c.state }
func (c *Controller) Speed() float64   { return c.speed }
func (c *Controller) HasStarted() bool { return c.hasStarted }
func (c *Controller) StepIndex() int   { return c.stepIdx }
func (c *Controller) Scenario() demo.Scenario {
	return c.demo.Scenarios[c.scenarioIdx]
}
func (c *Controller) ScenarioID() string { return c.Scenario().ID }

// Play starts, resumes, or replays depending on the current state. It is a
// no-op while playback is already active.
func (c *Controller) Play() {
	if c.state == Playing || c.state == Transitioning {
		return
	}
	c.cancelPending()
	if c.reducedMotion {
		c.revealAllNow()
		return
	}
	switch c.state {
	case Unstarted:
		// Step 0 is already on screen as the preview; schedule step 1
		// after the preview step's own delay.
		c.hasStarted = true
		c.state = Playing
		c.rend.SetPlayState(PlayStatePause)
		c.scheduleReveal(c.lastRevealed())
	case PausedMidStream:
		// Resume reveals the next step immediately rather than
		// replaying the paused one.
		c.state = Playing
		c.rend.SetPlayState(PlayStatePause)
		c.reveal()
	case SceneComplete:
		// Explicit replay: restart the current scenario from step 0.
		c.restartScenario()
	}
}

// Pause cancels the pending reveal without rolling back position.
func (c *Controller) Pause() {
	if c.state != Playing {
		return
	}
	c.cancelPending()
	c.countdown.Stop()
	c.state = PausedMidStream
	c.rend.SetPlayState(PlayStatePlay)
}

// Toggle maps a single play/pause control onto Play and Pause.
func (c *Controller) Toggle() {
	if c.state == Playing {
		c.Pause()
		return
	}
	c.Play()
}

// Reset returns the current scenario to its initial single-step preview.
// Interrupting a transition restores visibility first so the preview never
// lands on a faded stage.
func (c *Controller) Reset() {
	c.cancelPending()
	c.countdown.Stop()
	if c.state == Transitioning {
		c.rend.FadeIn()
	}
	c.showPreview()
}

// SetSpeed changes the multiplier. While a reveal is in flight the remaining
// wall-clock time is rescaled so the step's total content-time delay is
// preserved; in any other state it is a pure configuration update.
func (c *Controller) SetSpeed(multiplier float64) {
	if multiplier <= 0 {
		return
	}
	old := c.speed
	c.speed = multiplier
	if c.state != Playing || c.pending == nil || old == multiplier {
		return
	}

	now := c.sched.Now()
	elapsedWall := now.Sub(c.scheduledAt)
	if elapsedWall < 0 {
		elapsedWall = 0
	}
	// Scale elapsed wall time back to content time before re-dividing by
	// the new multiplier, so the change never restarts the delay.
	elapsedContent := c.contentConsumed + time.Duration(float64(elapsedWall)*old)
	remainingContent := c.baseDelay - elapsedContent
	if remainingContent < 0 {
		remainingContent = 0
	}
	remainingWall := time.Duration(float64(remainingContent) / multiplier)

	c.contentConsumed = elapsedContent
	c.scheduledAt = now
	c.cancelPending()
	c.armReveal(remainingWall)

	fraction := 1.0
	if c.baseDelay > 0 {
		fraction = float64(elapsedContent) / float64(c.baseDelay)
	}
	c.countdown.Rescale(fraction, remainingWall)
}

// SwitchScenario is the user-initiated tab switch. It bypasses the up-next
// card, preserves whether playback was active, and is a no-op when the
// requested scenario is already current.
func (c *Controller) SwitchScenario(id string) {
	target := c.demo.ScenarioIndex(id)
	if target < 0 || target == c.scenarioIdx {
		return
	}
	wasActive := c.state == Playing || (c.state == Transitioning && c.swapResume)
	c.cancelPending()
	c.countdown.Stop()
	c.state = Transitioning
	c.swapResume = wasActive
	c.rend.FadeOut()
	c.schedule(FadeDuration, func() { c.swapScenario(target, wasActive) })
}

// SetDocumentVisible suspends only the visual countdown while the document is
// hidden; the reveal timer keeps running so playback continues on schedule.
func (c *Controller) SetDocumentVisible(visible bool) {
	if visible {
		c.countdown.Resume()
		return
	}
	c.countdown.Suspend()
}

// --- internals ---

func (c *Controller) steps() []demo.Step {
	return c.demo.Scenarios[c.scenarioIdx].Steps
}

func (c *Controller) lastRevealed() demo.Step {
	return c.steps()[c.stepIdx-1]
}

func (c *Controller) showPreview() {
	c.rend.ClearAll()
	c.rend.Reveal(c.steps()[0])
	c.stepIdx = 1
	c.hasStarted = false
	c.state = Unstarted
	c.rend.SetPlayState(PlayStatePlay)
}

func (c *Controller) restartScenario() {
	c.rend.ClearAll()
	c.rend.Reveal(c.steps()[0])
	c.stepIdx = 1
	c.hasStarted = true
	c.state = Playing
	c.rend.SetPlayState(PlayStatePause)
	c.rend.ScrollIntoView()
	c.scheduleReveal(c.lastRevealed())
}

// reveal shows the next step and either reschedules or completes the scene.
func (c *Controller) reveal() {
	steps := c.steps()
	if c.stepIdx >= len(steps) {
		c.completeScene()
		return
	}
	step := steps[c.stepIdx]
	c.rend.Reveal(step)
	c.stepIdx++
	c.rend.ScrollIntoView()
	if c.stepIdx < len(steps) {
		c.scheduleReveal(step)
		return
	}
	c.completeScene()
}

func (c *Controller) completeScene() {
	c.countdown.Stop()
	if c.demo.Meta.AutoAdvance && len(c.demo.Scenarios) > 1 {
		c.state = Transitioning
		c.swapResume = true
		next := c.demo.Scenarios[(c.scenarioIdx+1)%len(c.demo.Scenarios)]
		c.rend.ShowUpNext(next)
		c.schedule(timing.UpNextDelay(c.demo.Meta.Timing, c.speed), c.beginAdvance)
		return
	}
	c.state = SceneComplete
	c.rend.SetPlayState(PlayStateReplay)
}

// beginAdvance runs when the up-next dwell elapses: fade, then swap and keep
// playing.
func (c *Controller) beginAdvance() {
	next := (c.scenarioIdx + 1) % len(c.demo.Scenarios)
	c.rend.FadeOut()
	c.schedule(FadeDuration, func() { c.swapScenario(next, true) })
}

// swapScenario lands a transition or tab switch. resume=true starts playing
// the new scenario immediately, skipping the static preview so there is no
// visible flash.
func (c *Controller) swapScenario(target int, resume bool) {
	c.scenarioIdx = target
	c.rend.ClearAll()
	c.rend.Reveal(c.steps()[0])
	c.stepIdx = 1
	c.rend.FadeIn()
	c.rend.ScrollIntoView()
	if !resume {
		c.hasStarted = false
		c.state = Unstarted
		c.rend.SetPlayState(PlayStatePlay)
		return
	}
	if c.reducedMotion {
		c.revealAllNow()
		return
	}
	c.hasStarted = true
	c.state = Playing
	c.rend.SetPlayState(PlayStatePause)
	c.scheduleReveal(c.lastRevealed())
}

// revealAllNow is the reduced-motion path: every remaining step appears
// synchronously and the scene lands complete with no timers outstanding.
func (c *Controller) revealAllNow() {
	steps := c.steps()
	if c.state == SceneComplete {
		c.rend.ClearAll()
		c.rend.Reveal(steps[0])
		c.stepIdx = 1
	}
	for c.stepIdx < len(steps) {
		c.rend.Reveal(steps[c.stepIdx])
		c.stepIdx++
	}
	c.rend.ScrollIntoView()
	c.countdown.Stop()
	c.hasStarted = true
	c.state = SceneComplete
	c.rend.SetPlayState(PlayStateReplay)
}

// scheduleReveal schedules the next reveal after the just-revealed step's
// delay and starts a fresh countdown over it.
func (c *Controller) scheduleReveal(justRevealed demo.Step) {
	c.baseDelay = timing.BaseDelay(justRevealed, c.demo.Meta.Timing)
	c.contentConsumed = 0
	c.scheduledAt = c.sched.Now()
	wall := timing.Calculate(justRevealed, c.demo.Meta.Timing, c.speed)
	c.armReveal(wall)
	c.countdown.Start(wall)
}

func (c *Controller) armReveal(d time.Duration) {
	seq := c.seq
	c.pending = c.sched.AfterFunc(d, func() { c.onTimer(seq, c.reveal) })
}

// schedule arms a non-reveal transition step in the same single-timer arena.
func (c *Controller) schedule(d time.Duration, fn func()) {
	seq := c.seq
	c.pending = c.sched.AfterFunc(d, func() { c.onTimer(seq, fn) })
}

func (c *Controller) onTimer(seq uint64, fn func()) {
	if seq != c.seq {
		return
	}
	c.pending = nil
	fn()
}

// cancelPending is the first action of every state-changing operation: it
// guarantees the previously scheduled callback can never fire afterwards,
// preserving the single-outstanding-timer invariant.
func (c *Controller) cancelPending() {
	c.seq++
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}
