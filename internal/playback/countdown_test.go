package playback

import (
	"testing"
	"time"
)

func TestCountdownProgressesMonotonically(t *testing.T) {
	rend := &recordingRenderer{}
	sched := newFakeScheduler()
	cd := NewCountdown(rend, sched)

	cd.Start(time.Second)
	if !rend.active || rend.fraction != 0 {
		t.Fatalf("start should show an empty active bar, got %v/%v", rend.fraction, rend.active)
	}

	last := 0.0
	for i := 0; i < 10; i++ {
		sched.Advance(100 * time.Millisecond)
		if rend.fraction < last {
			t.Fatalf("progress went backwards: %v -> %v", last, rend.fraction)
		}
		last = rend.fraction
	}
	// One more frame interval pushes the loop past the deadline.
	sched.Advance(2 * FrameInterval)
	if rend.fraction != 1 {
		t.Fatalf("expected full bar at the deadline, got %v", rend.fraction)
	}
}

func TestCountdownSelfTerminatesAtFull(t *testing.T) {
	rend := &recordingRenderer{}
	sched := newFakeScheduler()
	cd := NewCountdown(rend, sched)

	cd.Start(100 * time.Millisecond)
	sched.Advance(200 * time.Millisecond)
	if n := sched.outstanding(); n != 0 {
		t.Fatalf("finished countdown must stop scheduling frames, %d outstanding", n)
	}
}

func TestCountdownStopClearsVisual(t *testing.T) {
	rend := &recordingRenderer{}
	sched := newFakeScheduler()
	cd := NewCountdown(rend, sched)

	cd.Start(time.Second)
	sched.Advance(500 * time.Millisecond)
	cd.Stop()
	if rend.active {
		t.Fatalf("stop must deactivate the visual")
	}
	sched.Advance(time.Second)
	if rend.fraction != 0 {
		t.Fatalf("stopped countdown must not draw, got %v", rend.fraction)
	}
}

func TestCountdownSuspendFreezesWithoutForgetting(t *testing.T) {
	rend := &recordingRenderer{}
	sched := newFakeScheduler()
	cd := NewCountdown(rend, sched)

	cd.Start(2 * time.Second)
	sched.Advance(500 * time.Millisecond)
	cd.Suspend()
	frozen := rend.fraction
	sched.Advance(500 * time.Millisecond)
	if rend.fraction != frozen {
		t.Fatalf("suspended countdown drew a frame")
	}

	// Resume recomputes from the wall clock, so the bar jumps to the true
	// elapsed fraction rather than resuming from the frozen one.
	cd.Resume()
	sched.Advance(100 * time.Millisecond)
	if rend.fraction <= frozen {
		t.Fatalf("resume should catch up to wall time, got %v (frozen %v)", rend.fraction, frozen)
	}
}

func TestSuspendResumeWithinOneFrameKeepsSingleLoop(t *testing.T) {
	rend := &recordingRenderer{}
	sched := newFakeScheduler()
	cd := NewCountdown(rend, sched)

	cd.Start(time.Second)
	sched.Advance(20 * time.Millisecond)
	// Suspend and resume before the armed frame fires: exactly one frame
	// loop may survive.
	cd.Suspend()
	cd.Resume()
	if n := sched.outstanding(); n != 1 {
		t.Fatalf("expected a single frame timer after suspend/resume, got %d", n)
	}
	before := rend.fraction
	sched.Advance(100 * time.Millisecond)
	if rend.fraction <= before {
		t.Fatalf("countdown stalled after suspend/resume cycle")
	}
}

func TestCountdownResumeWithoutSuspendIsNoop(t *testing.T) {
	rend := &recordingRenderer{}
	sched := newFakeScheduler()
	cd := NewCountdown(rend, sched)

	cd.Start(time.Second)
	before := sched.outstanding()
	cd.Resume()
	if sched.outstanding() != before {
		t.Fatalf("resume without suspend must not arm extra frames")
	}
}

func TestCountdownRescaleKeepsFractionContinuous(t *testing.T) {
	rend := &recordingRenderer{}
	sched := newFakeScheduler()
	cd := NewCountdown(rend, sched)

	cd.Start(3 * time.Second)
	sched.Advance(time.Second)

	// A 2x speed change one second in: a third done, one second remaining.
	cd.Rescale(1.0/3.0, time.Second)
	if rend.fraction < 0.32 || rend.fraction > 0.34 {
		t.Fatalf("rescale should report the handed-over fraction, got %v", rend.fraction)
	}
	sched.Advance(500 * time.Millisecond)
	if rend.fraction < 0.65 || rend.fraction > 0.68 {
		t.Fatalf("expected ~2/3 halfway through the remainder, got %v", rend.fraction)
	}
	sched.Advance(600 * time.Millisecond)
	if rend.fraction != 1 {
		t.Fatalf("expected full bar after the rescaled remainder, got %v", rend.fraction)
	}
}

func TestCountdownZeroDurationFillsImmediately(t *testing.T) {
	rend := &recordingRenderer{}
	sched := newFakeScheduler()
	cd := NewCountdown(rend, sched)

	cd.Start(0)
	if rend.fraction != 1 || !rend.active {
		t.Fatalf("zero-duration countdown should render full, got %v/%v", rend.fraction, rend.active)
	}
	if sched.outstanding() != 0 {
		t.Fatalf("zero-duration countdown must not schedule frames")
	}
}
