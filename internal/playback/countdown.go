package playback

import "time"

// FrameInterval is the visual countdown's update cadence (~60fps).
const FrameInterval = 16 * time.Millisecond

// Countdown renders a continuously updating progress fraction for the
// in-flight reveal delay. It is strictly observational: it tracks the
// controller's schedule but never drives it, and its per-frame loop is
// cancelable independently of the reveal timer. Progress is recomputed from
// the wall clock each frame, so a suspended loop cannot drift.
type Countdown struct {
	rend  Renderer
	sched Scheduler

	seq       uint64
	active    bool
	suspended bool
	start     time.Time
	duration  time.Duration
	timer     Timer
}

func NewCountdown(rend Renderer, sched Scheduler) *Countdown {
	return &Countdown{rend: rend, sched: sched}
}

// Start begins a fresh countdown over the given wall-clock duration.
func (c *Countdown) Start(duration time.Duration) {
	c.cancel()
	if duration <= 0 {
		c.rend.SetProgress(1, true)
		return
	}
	c.active = true
	c.suspended = false
	c.start = c.sched.Now()
	c.duration = duration
	c.rend.SetProgress(0, true)
	c.arm()
}

// Stop halts the loop and resets the visual to empty.
func (c *Countdown) Stop() {
	c.cancel()
	c.rend.SetProgress(0, false)
}

// Suspend halts per-frame updates without forgetting the schedule. Used on
// visibility loss: the reveal timer keeps running, only the drawing stops.
// The armed frame timer is cancelled so Resume never stacks a second loop.
func (c *Countdown) Suspend() {
	if !c.active || c.suspended {
		return
	}
	c.suspended = true
	c.seq++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Resume restarts the frame loop after a Suspend.
func (c *Countdown) Resume() {
	if !c.active || !c.suspended {
		return
	}
	c.suspended = false
	c.arm()
}

// Rescale adjusts the countdown after a mid-delay speed change so the
// reported fraction stays continuous: the bar resumes from fractionDone and
// fills the rest over remaining wall-clock time.
func (c *Countdown) Rescale(fractionDone float64, remaining time.Duration) {
	if !c.active {
		return
	}
	if fractionDone < 0 {
		fractionDone = 0
	}
	if fractionDone >= 1 {
		c.rend.SetProgress(1, true)
		c.cancel()
		return
	}
	total := time.Duration(float64(remaining) / (1 - fractionDone))
	now := c.sched.Now()
	c.start = now.Add(-time.Duration(fractionDone * float64(total)))
	c.duration = total
	c.rend.SetProgress(fractionDone, true)
}

func (c *Countdown) arm() {
	seq := c.seq
	c.timer = c.sched.AfterFunc(FrameInterval, func() { c.frame(seq) })
}

func (c *Countdown) frame(seq uint64) {
	if seq != c.seq || !c.active || c.suspended {
		return
	}
	elapsed := c.sched.Now().Sub(c.start)
	progress := float64(elapsed) / float64(c.duration)
	if progress < 0 {
		progress = 0
	}
	if progress >= 1 {
		c.rend.SetProgress(1, true)
		c.active = false
		return
	}
	c.rend.SetProgress(progress, true)
	c.arm()
}

func (c *Countdown) cancel() {
	c.seq++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.active = false
	c.suspended = false
}
