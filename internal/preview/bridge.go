package preview

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"convoplay/internal/demo"
	"convoplay/internal/playback"
)

// screen is what the controller has told us to display. It implements
// playback.Renderer; every method runs on the bubbletea update goroutine, so
// no locking is needed.
type screen struct {
	revealed  []demo.Step
	fraction  float64
	active    bool
	playState playback.PlayState
	upNext    string
	faded     bool
}

func (s *screen) Reveal(step demo.Step) { s.revealed = append(s.revealed, step) }

func (s *screen) ClearAll() {
	s.revealed = s.revealed[:0]
	s.upNext = ""
}

func (s *screen) SetProgress(fraction float64, active bool) {
	s.fraction = fraction
	s.active = active
}

func (s *screen) SetPlayState(state playback.PlayState) {
	s.playState = state
	s.upNext = ""
}

func (s *screen) ShowUpNext(next demo.Scenario) { s.upNext = next.Title }

func (s *screen) FadeOut() { s.faded = true }
func (s *screen) FadeIn()  { s.faded = false }

// ScrollIntoView is satisfied by always rendering the tail of the transcript.
func (s *screen) ScrollIntoView() {}

// timerMsg carries a fired controller callback into Update so the controller
// is only ever entered from the bubbletea goroutine.
type timerMsg struct{ fn func() }

// dispatcher is the playback.Scheduler used by the terminal preview: a
// WallClock whose callbacks are re-routed through the program's message loop,
// so the controller is only ever entered from the bubbletea goroutine.
type dispatcher struct {
	mu    sync.Mutex
	send  func(tea.Msg)
	clock playback.WallClock
}

func (d *dispatcher) attach(send func(tea.Msg)) {
	d.mu.Lock()
	d.send = send
	d.mu.Unlock()
}

func (d *dispatcher) AfterFunc(dur time.Duration, fn func()) playback.Timer {
	return d.clock.AfterFunc(dur, func() { d.dispatch(fn) })
}

func (d *dispatcher) Now() time.Time { return d.clock.Now() }

func (d *dispatcher) dispatch(fn func()) {
	d.mu.Lock()
	send := d.send
	d.mu.Unlock()
	if send != nil {
		send(timerMsg{fn})
	}
}
