package tui

import (
	"time"

	"github.com/sadopc/passport/internal/session"
	"github.com/sadopc/passport/internal/tracker"
)

// timerState is what the timer panel shows.
type timerState int

const (
	timerStopped timerState = iota
	timerRunning
	timerPaused
)

// timerModel caches the tracker's timer for rendering. The tracker stays the
// source of truth; tick only refreshes the cached values.
type timerModel struct {
	tracker *tracker.Tracker
	clock   tracker.Clock

	state     timerState
	elapsedMs int64
}

func newTimerModel(tr *tracker.Tracker, clock tracker.Clock) timerModel {
	t := timerModel{tracker: tr, clock: clock}
	t.tick()
	return t
}

func (t *timerModel) start() error {
	if err := t.tracker.StartTimer(); err != nil {
		return err
	}
	t.tick()
	return nil
}

func (t *timerModel) stop() error {
	if err := t.tracker.StopTimer(false); err != nil {
		return err
	}
	t.tick()
	return nil
}

func (t *timerModel) toggle() error {
	if t.tracker.Running() {
		return t.stop()
	}
	return t.start()
}

func (t *timerModel) tick() {
	t.elapsedMs = t.tracker.ElapsedMs(t.clock.Now())
	switch {
	case t.tracker.Running():
		t.state = timerRunning
	case t.elapsedMs > 0:
		t.state = timerPaused
	default:
		t.state = timerStopped
	}
}

func (t timerModel) running() bool { return t.state == timerRunning }
func (t timerModel) paused() bool  { return t.state == timerPaused }

func (t timerModel) display() string {
	return session.FormatElapsed(t.elapsedMs)
}

func (t timerModel) currentElapsed() time.Duration {
	return time.Duration(t.elapsedMs) * time.Millisecond
}
