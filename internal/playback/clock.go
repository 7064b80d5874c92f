package playback

import "time"

// WallClock schedules callbacks on real timers. Callbacks fire on their own
// goroutine; callers that require single-threaded delivery (the terminal
// preview, for one) wrap the callback to marshal it onto their event loop.
type WallClock struct{}

func NewWallClock() WallClock { return WallClock{} }

func (WallClock) AfterFunc(d time.Duration, fn func()) Timer {
	return wallTimer{t: time.AfterFunc(d, fn)}
}

func (WallClock) Now() time.Time { return time.Now() }

type wallTimer struct{ t *time.Timer }

func (w wallTimer) Stop() bool { return w.t.Stop() }
