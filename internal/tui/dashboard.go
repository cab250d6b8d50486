package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/passport/internal/session"
	"github.com/sadopc/passport/internal/tracker"
)

type dashboardModel struct {
	tracker *tracker.Tracker
	clock   tracker.Clock
	timer   timerModel
	bar     progress.Model
	width   int
	height  int

	summary session.Summary

	formActive   bool
	form         *huh.Form
	confirmReset *bool
}

func newDashboardModel(tr *tracker.Tracker, clock tracker.Clock) dashboardModel {
	confirm := false
	d := dashboardModel{
		tracker:      tr,
		clock:        clock,
		timer:        newTimerModel(tr, clock),
		bar:          progress.New(progress.WithGradient(string(colorPrimary), string(colorSuccess)), progress.WithoutPercentage()),
		confirmReset: &confirm,
	}
	d.refresh()
	return d
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.bar.Width = max(10, w-12)
}

func (d dashboardModel) isRunning() bool { return d.timer.running() }
func (d dashboardModel) isPaused() bool  { return d.timer.paused() }

func (d *dashboardModel) refresh() {
	d.timer.tick()
	d.summary = d.tracker.Summary(d.clock.Now())
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tickMsg, stateChangedMsg:
		d.refresh()
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			if d.timer.running() {
				return d, nil
			}
			return d.timerAction(d.timer.start, timerStartedMsg{})
		case key.Matches(msg, keys.Stop):
			if !d.timer.running() {
				return d, nil
			}
			return d.timerAction(d.timer.stop, timerStoppedMsg{})
		case key.Matches(msg, keys.Toggle):
			var done tea.Msg = timerStartedMsg{}
			if d.timer.running() {
				done = timerStoppedMsg{}
			}
			return d.timerAction(d.timer.toggle, done)
		case key.Matches(msg, keys.Hydrate):
			if err := d.tracker.IncrementHydration(); err != nil {
				return d, errStatus("Save failed", err)
			}
			d.refresh()
			return d, status(fmt.Sprintf("💧 Hydration break #%d", d.summary.Hydration))
		case key.Matches(msg, keys.Route):
			next := d.summary.Route.Next()
			if err := d.tracker.SetRoute(next); err != nil {
				return d, errStatus("Save failed", err)
			}
			d.refresh()
			return d, status("Route: " + next.Title())
		case key.Matches(msg, keys.Reset):
			return d.showResetForm()
		}
	}
	return d, nil
}

func (d dashboardModel) timerAction(fn func() error, done tea.Msg) (dashboardModel, tea.Cmd) {
	if err := fn(); err != nil {
		return d, errStatus("Timer error", err)
	}
	d.refresh()
	return d, func() tea.Msg { return done }
}

func (d dashboardModel) showResetForm() (dashboardModel, tea.Cmd) {
	*d.confirmReset = false
	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Reset everything?").
				Description("Clears every stop, hydration breaks, the timer and the badge.").
				Affirmative("Reset").
				Negative("Cancel").
				Value(d.confirmReset),
		),
	).WithShowHelp(true)
	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	switch d.form.State {
	case huh.StateCompleted:
		d.formActive = false
		d.form = nil
		if !*d.confirmReset {
			return d, nil
		}
		if err := d.tracker.ResetAll(); err != nil {
			return d, errStatus("Reset failed", err)
		}
		d.refresh()
		return d, tea.Batch(
			func() tea.Msg { return stateChangedMsg{} },
			status("Session reset"),
		)
	case huh.StateAborted:
		d.formActive = false
		d.form = nil
		return d, nil
	}
	return d, cmd
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4
	if d.formActive && d.form != nil {
		return activePanelStyle.Width(contentWidth).Render(d.form.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderTimerPanel(contentWidth),
		d.renderProgressPanel(contentWidth),
	)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	timeStr := d.timer.display()

	switch d.timer.state {
	case timerRunning:
		content := lipgloss.JoinVertical(lipgloss.Center,
			timerRunningStyle.Width(w-6).Render(timeStr),
			successStyle.Render("●  RUNNING"),
			mutedStyle.Render("x: stop  space: pause"),
		)
		return activePanelStyle.Width(w).Render(content)
	case timerPaused:
		content := lipgloss.JoinVertical(lipgloss.Center,
			timerPausedStyle.Width(w-6).Render(timeStr),
			warningStyle.Render("⏸  PAUSED"),
			mutedStyle.Render("s: resume"),
		)
		return panelStyle.Width(w).Render(content)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		timerStyle.Width(w-6).Render(timeStr),
		mutedStyle.Render("■  STOPPED"),
		mutedStyle.Render("Press s when you reach the first stop"),
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderProgressPanel(w int) string {
	s := d.summary

	header := fmt.Sprintf("%s  %s",
		titleStyle.Render("Passport"),
		highlightStyle.Render(fmt.Sprintf("%d/%d countries (%d%%)", s.Completed, s.Total, s.Percent)),
	)
	bar := d.bar.ViewAs(float64(s.Percent) / 100)

	pace := fmt.Sprintf("Pace   %s", paceStyle(s.Pace).Render(s.Pace.String()))
	route := fmt.Sprintf("Route  %s  %s", subtitleStyle.Render(s.Route.Title()), mutedStyle.Render(s.Route.Hint()))
	water := fmt.Sprintf("Water  %s", waterStyle.Render(fmt.Sprintf("💧 × %d", s.Hydration)))

	badge := mutedStyle.Render("🏅 Complete all stops to stamp your passport")
	if s.BadgeUnlocked {
		badge = accentStyle.Bold(true).Render("🏅 Passport stamped!")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		header, "", bar, "", pace, route, water, "", badge, "",
		mutedStyle.Render("w: water  r: route  R: reset"),
	)
	return panelStyle.Width(w).Render(content)
}
