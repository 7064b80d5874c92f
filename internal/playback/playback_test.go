package playback

import (
	"time"

	"convoplay/internal/demo"
)

// fakeScheduler drives time manually. Timers fire in deadline order when
// Advance crosses them, re-entrantly like the real dispatch loop.
type fakeScheduler struct {
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{now: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)}
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	t := &fakeTimer{at: s.now.Add(d), fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Now() time.Time { return s.now }

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward, firing due timers in order. Callbacks may
// schedule new timers; those fire too if they fall within the window.
func (s *fakeScheduler) Advance(d time.Duration) {
	target := s.now.Add(d)
	for {
		next := s.nextDue(target)
		if next == nil {
			break
		}
		s.now = next.at
		next.fired = true
		next.fn()
	}
	s.now = target
}

func (s *fakeScheduler) nextDue(target time.Time) *fakeTimer {
	var next *fakeTimer
	for _, t := range s.timers {
		if t.fired || t.stopped || t.at.After(target) {
			continue
		}
		if next == nil || t.at.Before(next.at) {
			next = t
		}
	}
	return next
}

func (s *fakeScheduler) outstanding() int {
	n := 0
	for _, t := range s.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

// recordingRenderer captures every call so tests can assert on ordering.
type recordingRenderer struct {
	revealed   []demo.Step
	clears     int
	fadeOuts   int
	fadeIns    int
	upNext     []string
	playStates []PlayState
	fraction   float64
	active     bool
}

func (r *recordingRenderer) Reveal(step demo.Step) { r.revealed = append(r.revealed, step) }
func (r *recordingRenderer) ClearAll()             { r.clears++; r.revealed = nil }
func (r *recordingRenderer) SetProgress(fraction float64, active bool) {
	r.fraction = fraction
	r.active = active
}
func (r *recordingRenderer) SetPlayState(state PlayState) { r.playStates = append(r.playStates, state) }
func (r *recordingRenderer) ShowUpNext(next demo.Scenario) {
	r.upNext = append(r.upNext, next.ID)
}
func (r *recordingRenderer) FadeOut()        { r.fadeOuts++ }
func (r *recordingRenderer) FadeIn()         { r.fadeIns++ }
func (r *recordingRenderer) ScrollIntoView() {}

func (r *recordingRenderer) lastPlayState() PlayState {
	if len(r.playStates) == 0 {
		return ""
	}
	return r.playStates[len(r.playStates)-1]
}

// testDemo builds a validated two-scenario demo with deterministic delays:
// every step is exactly 15 words, so each reveal delay is 3000ms at 1x.
func testDemo(autoAdvance bool) *demo.Demo {
	words := "one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen"
	scenario := func(id string) demo.Scenario {
		return demo.Scenario{
			ID:    id,
			Title: id,
			Participants: []demo.Participant{
				{ID: "a", Label: "A", Role: demo.RoleLeft},
				{ID: "b", Label: "B", Role: demo.RoleRight},
			},
			Steps: []demo.Step{
				{Kind: demo.StepMessage, From: "a", Content: words},
				{Kind: demo.StepMessage, From: "b", Content: words},
				{Kind: demo.StepMessage, From: "a", Content: words},
			},
		}
	}
	return &demo.Demo{
		Kind:          demo.DemoKind,
		SchemaVersion: 1,
		Meta: demo.Meta{
			Title:       "t",
			AutoAdvance: autoAdvance,
			Timing: demo.TimingSpec{
				MinDelayMS:           1000,
				MaxDelayMS:           8000,
				MSPerWord:            200,
				AnnotationMultiplier: 1.15,
				UpNextDelayMS:        2500,
			},
			Speeds: []float64{0.5, 1, 2, 4},
		},
		Scenarios: []demo.Scenario{scenario("first"), scenario("second")},
	}
}

const stepDelay = 3 * time.Second
