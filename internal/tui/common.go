package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/passport/internal/tracker"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewChecklist
	viewSplits
	viewSettings
)

var viewNames = []string{"Dashboard", "Checklist", "Splits", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type timerStartedMsg struct{}
type timerStoppedMsg struct{}

type exportDoneMsg struct {
	path string
}

type sharedMsg struct {
	text string
}

type badgeUnlockedMsg struct{}

// stateChangedMsg asks views that cache tracker data to reload it.
type stateChangedMsg struct{}

// flushMsg fires when a debounce window opened by gen may have elapsed.
type flushMsg struct {
	field string
	gen   uint64
}

type searchMsg struct {
	gen uint64
}

type settingsSavedMsg struct{}

// --- Helpers ---

func errStatus(prefix string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: prefix + ": " + err.Error(), isError: true}
	}
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

// checkBadge unlocks the badge on the first full completion.
func checkBadge(tr *tracker.Tracker) tea.Cmd {
	return func() tea.Msg {
		unlocked, err := tr.EvaluateBadge()
		if err != nil {
			return statusMsg{text: "Save failed: " + err.Error(), isError: true}
		}
		if unlocked {
			return badgeUnlockedMsg{}
		}
		return stateChangedMsg{}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
