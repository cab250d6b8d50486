package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/sadopc/passport/internal/export"
	"github.com/sadopc/passport/internal/store"
	"github.com/sadopc/passport/internal/tracker"
)

const defaultTick = 500 * time.Millisecond

type Options struct {
	Clock     tracker.Clock
	Logger    *zap.Logger
	ExportDir string
}

// App is the root Bubble Tea model.
type App struct {
	tracker *tracker.Tracker
	store   *store.Store
	log     *zap.Logger
	clock   tracker.Clock
	width   int
	height  int

	activeView    viewState
	showHelp      bool
	showBadge     bool
	exportPicking bool
	exportCursor  int
	exportDir     string
	tickEvery     time.Duration

	dashboard dashboardModel
	checklist checklistModel
	splits    splitsModel
	settings  settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(tr *tracker.Tracker, s *store.Store, opts Options) App {
	h := help.New()
	h.ShowAll = false

	if opts.Clock == nil {
		opts.Clock = tracker.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ExportDir == "" {
		opts.ExportDir, _ = os.UserHomeDir()
	}

	tick := defaultTick
	if s != nil {
		tick = s.GetDurationSetting(store.SettingTickInterval, defaultTick)
	}

	return App{
		tracker:    tr,
		store:      s,
		log:        opts.Logger.With(zap.String("module", "tui")),
		clock:      opts.Clock,
		activeView: viewDashboard,
		exportDir:  opts.ExportDir,
		tickEvery:  tick,
		dashboard:  newDashboardModel(tr, opts.Clock),
		checklist:  newChecklistModel(tr, opts.Clock, loadDebounce(s)),
		splits:     newSplitsModel(tr, s),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(a.tickEvery),
		checkBadge(a.tracker),
		a.splits.refresh(),
		a.settings.refresh(),
	)
}

func tickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.checklist.setSize(a.width, contentHeight)
		a.splits.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.showBadge {
			a.showBadge = false
			if key.Matches(msg, keys.Share) {
				return a, a.doShare()
			}
			return a, nil
		}

		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			if msg.String() == "ctrl+c" {
				return a.quit()
			}
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a.quit()
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Share):
			return a, a.doShare()
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewDashboard)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewChecklist)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewSplits)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		cmds = append(cmds, tickCmd(a.tickEvery))
		a.dashboard, _ = a.dashboard.update(msg)
		a.checklist, _ = a.checklist.update(msg)
		return a, tea.Batch(cmds...)

	case stateChangedMsg:
		return a, a.broadcast(msg)

	case badgeUnlockedMsg:
		a.showBadge = true
		a.log.Info("badge shown")
		return a, a.broadcast(stateChangedMsg{})

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case timerStartedMsg:
		a.setStatus("Timer started")
		return a, nil

	case timerStoppedMsg:
		a.setStatus("Timer stopped")
		return a, a.splits.refresh()

	case exportDoneMsg:
		a.setStatus("Exported to " + msg.path)
		a.exportPicking = false
		return a, nil

	case sharedMsg:
		a.setStatus("Copied! Paste it anywhere.")
		return a, nil

	case settingsSavedMsg:
		if a.store != nil {
			a.tickEvery = a.store.GetDurationSetting(store.SettingTickInterval, defaultTick)
		}
		a.checklist.debounce = loadDebounce(a.store)
		a.setStatus("Settings saved")
		return a, nil

	case flushMsg, searchMsg:
		var cmd tea.Cmd
		a.checklist, cmd = a.checklist.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a *App) setStatus(text string) {
	a.status = text
	a.statusErr = false
}

// broadcast delivers msg to every view that caches tracker state.
func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.dashboard, cmd = a.dashboard.update(msg)
	cmds = append(cmds, cmd)
	a.checklist, cmd = a.checklist.update(msg)
	cmds = append(cmds, cmd)
	a.splits, cmd = a.splits.update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

// quit writes any buffered edits before exiting.
func (a App) quit() (tea.Model, tea.Cmd) {
	if err := a.checklist.flush(); err != nil {
		a.log.Error("flush on quit failed", zap.Error(err))
	}
	return a, tea.Quit
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewChecklist:
		a.checklist, cmd = a.checklist.update(msg)
	case viewSplits:
		a.splits, cmd = a.splits.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.formActive
	case viewChecklist:
		return a.checklist.capturing()
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard, viewChecklist:
		return func() tea.Msg { return stateChangedMsg{} }
	case viewSplits:
		return a.splits.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewChecklist:
		content = a.checklist.view()
	case viewSplits:
		content = a.splits.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(1, a.height-headerHeight-footerHeight)

	switch {
	case a.showBadge:
		content = a.renderBadge(contentHeight)
	case a.exportPicking:
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("🌍 passport")
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	timerInfo := ""
	switch {
	case a.dashboard.isRunning():
		timerInfo = successStyle.Render(" ● " + a.dashboard.timer.display())
	case a.dashboard.isPaused():
		timerInfo = warningStyle.Render(" ⏸ " + a.dashboard.timer.display())
	}

	unsaved := ""
	if n := a.checklist.pending.Pending(); n > 0 {
		unsaved = mutedStyle.Render(fmt.Sprintf(" ✎ %d unsaved", n))
	}

	left := footerStyle.Render(helpView)
	right := unsaved + timerInfo + status

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderBadge(h int) string {
	s := a.tracker.Summary(a.clock.Now())
	body := lipgloss.JoinVertical(lipgloss.Center,
		"🏅",
		"",
		titleStyle.Render("Passport stamped!"),
		fmt.Sprintf("All %d countries in %s", s.Total, a.dashboard.timer.display()),
		waterStyle.Render(fmt.Sprintf("💧 %d hydration breaks", s.Hydration)),
		"",
		mutedStyle.Render("y: copy share text  ·  any key to close"),
	)
	return lipgloss.Place(a.width, h, lipgloss.Center, lipgloss.Center, badgeModalStyle.Render(body))
}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export Format"), ""}
	for i, f := range export.Formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+strings.ToUpper(string(f))))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(export.Formats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(export.Formats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(f export.Format) tea.Cmd {
	st := a.tracker.Snapshot()
	path := export.DefaultPath(a.exportDir, f, a.clock.Now())
	return func() tea.Msg {
		if err := export.Write(f, st, a.tracker.Catalog(), path); err != nil {
			a.log.Error("export failed", zap.String("format", string(f)), zap.Error(err))
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func (a App) doShare() tea.Cmd {
	s := a.tracker.Summary(a.clock.Now())
	return func() tea.Msg {
		text, err := export.CopyShareText(s)
		if err != nil {
			a.log.Warn("clipboard unavailable", zap.Error(err))
			return statusMsg{text: "Copy failed: " + text, isError: true}
		}
		return sharedMsg{text: text}
	}
}
