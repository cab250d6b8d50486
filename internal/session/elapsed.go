package session

import (
	"fmt"
	"time"
)

// ElapsedMs is the total session time at now. A clock that moves backwards
// never makes the in-flight segment negative.
func ElapsedMs(t TimerState, now time.Time) int64 {
	if !t.Running {
		return t.AccumulatedMs
	}
	return t.AccumulatedMs + segmentMs(t.StartedAt, now)
}

// Fold banks the in-flight segment and stops the timer. It returns the new
// timer state and the folded segment length.
func Fold(t TimerState, now time.Time) (TimerState, int64) {
	var seg int64
	if t.Running {
		seg = segmentMs(t.StartedAt, now)
	}
	t.AccumulatedMs += seg
	t.Running = false
	t.StartedAt = nil
	return t, seg
}

func segmentMs(startedAt *time.Time, now time.Time) int64 {
	if startedAt == nil {
		return 0
	}
	d := now.Sub(*startedAt).Milliseconds()
	if d < 0 {
		return 0
	}
	return d
}

// FormatElapsed renders milliseconds as mm:ss, or h:mm:ss past the hour.
func FormatElapsed(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	d := time.Duration(ms) * time.Millisecond
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
