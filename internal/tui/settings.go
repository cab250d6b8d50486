package tui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/passport/internal/store"
)

// settingFields lists the editable settings in form order.
var settingFields = []struct {
	key, title, fallback string
}{
	{store.SettingTickInterval, "Refresh interval (ms)", "500"},
	{store.SettingDrinkDebounce, "Drink save delay (ms)", "200"},
	{store.SettingNotesDebounce, "Notes save delay (ms)", "250"},
	{store.SettingPhotoDebounce, "Photo save delay (ms)", "250"},
	{store.SettingSearchDebounce, "Search delay (ms)", "150"},
}

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	values map[string]*string
}

func newSettingsModel(s *store.Store) settingsModel {
	values := make(map[string]*string, len(settingFields))
	for _, f := range settingFields {
		v := ""
		values[f.key] = &v
	}
	return settingsModel{
		store:  s,
		values: values,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	var fields []huh.Field
	for _, f := range settingFields {
		*s.values[f.key] = s.getVal(f.key, f.fallback)
		fields = append(fields, huh.NewInput().
			Title(f.title).
			Value(s.values[f.key]).
			Validate(validateMillis))
	}

	s.form = huh.NewForm(
		huh.NewGroup(fields...).Title("Timing"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, errStatus("Settings not saved", err)
		}
		return s, tea.Batch(
			s.refresh(),
			func() tea.Msg { return settingsSavedMsg{} },
		)
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	for _, f := range settingFields {
		if err := s.store.SetSetting(f.key, *s.values[f.key]); err != nil {
			return fmt.Errorf("save setting %q: %w", f.key, err)
		}
	}
	return nil
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	rows := []string{title, ""}
	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}
	rows = append(rows, "", mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func validateMillis(s string) error {
	ms, err := strconv.Atoi(s)
	if err != nil {
		return errors.New("enter a whole number of milliseconds")
	}
	if ms < 50 || ms > 10000 {
		return errors.New("must be between 50 and 10000")
	}
	return nil
}

func formatSettingValue(k, v string) string {
	for _, f := range settingFields {
		if f.key != k {
			continue
		}
		if ms, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d ms", ms)
		}
	}
	return v
}
