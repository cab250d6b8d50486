package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/passport/internal/catalog"
	"github.com/sadopc/passport/internal/session"
	"github.com/sadopc/passport/internal/store"
	"github.com/sadopc/passport/internal/tracker"
)

const maxRating = 5

// editField is the free-text stop field being edited inline.
type editField int

const (
	editNone editField = iota
	editDrink
	editNotes
	editPhoto
)

func (f editField) String() string {
	switch f {
	case editDrink:
		return "drink"
	case editNotes:
		return "notes"
	case editPhoto:
		return "photo"
	}
	return ""
}

func (f editField) title() string {
	switch f {
	case editDrink:
		return "Drink"
	case editNotes:
		return "Notes"
	case editPhoto:
		return "Photo"
	}
	return ""
}

func (f editField) patch(v string) session.StopPatch {
	switch f {
	case editDrink:
		return session.StopPatch{ChosenDrink: session.String(v)}
	case editNotes:
		return session.StopPatch{Notes: session.String(v)}
	case editPhoto:
		return session.StopPatch{PhotoRef: session.String(v)}
	}
	return session.StopPatch{}
}

func (f editField) value(sp session.StopProgress) string {
	switch f {
	case editDrink:
		return sp.ChosenDrink
	case editNotes:
		return sp.Notes
	case editPhoto:
		return sp.PhotoRef
	}
	return ""
}

// debounce holds the coalescing windows, read from the settings table.
type debounce struct {
	drink  time.Duration
	notes  time.Duration
	photo  time.Duration
	search time.Duration
}

var defaultDebounce = debounce{
	drink:  200 * time.Millisecond,
	notes:  250 * time.Millisecond,
	photo:  250 * time.Millisecond,
	search: 150 * time.Millisecond,
}

func loadDebounce(s *store.Store) debounce {
	if s == nil {
		return defaultDebounce
	}
	return debounce{
		drink:  s.GetDurationSetting(store.SettingDrinkDebounce, defaultDebounce.drink),
		notes:  s.GetDurationSetting(store.SettingNotesDebounce, defaultDebounce.notes),
		photo:  s.GetDurationSetting(store.SettingPhotoDebounce, defaultDebounce.photo),
		search: s.GetDurationSetting(store.SettingSearchDebounce, defaultDebounce.search),
	}
}

func (d debounce) window(f editField) time.Duration {
	switch f {
	case editDrink:
		return d.drink
	case editNotes:
		return d.notes
	}
	return d.photo
}

type checklistModel struct {
	tracker *tracker.Tracker
	clock   tracker.Clock
	width   int
	height  int

	state   session.State
	visible []catalog.Stop
	cursor  int

	query     string
	mode      session.FilterMode
	searching bool
	search    textinput.Model
	searchGen uint64

	editing    editField
	editStop   string
	original   string
	input      textinput.Model
	suggestion int

	pending  *tracker.Coalescer
	debounce debounce
}

func newChecklistModel(tr *tracker.Tracker, clock tracker.Clock, db debounce) checklistModel {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search countries"

	input := textinput.New()
	input.CharLimit = 280

	c := checklistModel{
		tracker:  tr,
		clock:    clock,
		search:   search,
		input:    input,
		pending:  tracker.NewCoalescer(),
		debounce: db,
	}
	c.refresh()
	return c
}

func (c *checklistModel) setSize(w, h int) {
	c.width = w
	c.height = h
	c.input.Width = max(10, w-20)
	c.search.Width = max(10, w-20)
}

// capturing reports whether keystrokes belong to a text input.
func (c checklistModel) capturing() bool {
	return c.searching || c.editing != editNone
}

func (c *checklistModel) refresh() {
	c.state = c.tracker.Snapshot()
	c.visible = session.Filter(c.state, c.tracker.Catalog(), c.query, c.mode)
	c.cursor = clamp(c.cursor, 0, max(0, len(c.visible)-1))
}

func (c checklistModel) selected() (catalog.Stop, bool) {
	if c.cursor < 0 || c.cursor >= len(c.visible) {
		return catalog.Stop{}, false
	}
	return c.visible[c.cursor], true
}

// flush writes every buffered edit now.
func (c *checklistModel) flush() error {
	writes := c.pending.Drain()
	if len(writes) == 0 {
		return nil
	}
	return c.tracker.Apply(writes)
}

func (c checklistModel) update(msg tea.Msg) (checklistModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg, stateChangedMsg:
		c.refresh()
		return c, nil

	case flushMsg:
		if !c.pending.Latest(msg.field, msg.gen) {
			return c, nil
		}
		writes := c.pending.Due(c.clock.Now())
		if len(writes) == 0 {
			return c, nil
		}
		if err := c.tracker.Apply(writes); err != nil {
			return c, errStatus("Save failed", err)
		}
		c.refresh()
		return c, nil

	case searchMsg:
		if msg.gen != c.searchGen {
			return c, nil
		}
		c.query = c.search.Value()
		c.refresh()
		return c, nil

	case tea.KeyMsg:
		switch {
		case c.searching:
			return c.updateSearch(msg)
		case c.editing != editNone:
			return c.updateEdit(msg)
		}
		return c.updateList(msg)
	}
	return c, nil
}

func (c checklistModel) updateList(msg tea.KeyMsg) (checklistModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if c.cursor > 0 {
			c.cursor--
		}
	case key.Matches(msg, keys.Down):
		if c.cursor < len(c.visible)-1 {
			c.cursor++
		}
	case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
		return c.toggleDone()
	case key.Matches(msg, keys.Clear):
		stop, ok := c.selected()
		if !ok {
			return c, nil
		}
		if err := c.tracker.ClearStop(stop.Key); err != nil {
			return c, errStatus("Save failed", err)
		}
		c.refresh()
		return c, status("Cleared " + stop.Name)
	case key.Matches(msg, keys.RatingUp):
		return c.rate(1)
	case key.Matches(msg, keys.RatingDown):
		return c.rate(-1)
	case key.Matches(msg, keys.Drink):
		return c.beginEdit(editDrink)
	case key.Matches(msg, keys.Notes):
		return c.beginEdit(editNotes)
	case key.Matches(msg, keys.Photo):
		return c.beginEdit(editPhoto)
	case key.Matches(msg, keys.Search):
		c.searching = true
		c.search.SetValue(c.query)
		c.search.CursorEnd()
		return c, c.search.Focus()
	case key.Matches(msg, keys.Filter):
		c.mode = c.mode.Next()
		c.refresh()
	case key.Matches(msg, keys.Back):
		if c.query != "" {
			c.query = ""
			c.search.SetValue("")
			c.refresh()
		}
	}
	return c, nil
}

func (c checklistModel) toggleDone() (checklistModel, tea.Cmd) {
	stop, ok := c.selected()
	if !ok {
		return c, nil
	}
	done := !c.state.Items[stop.Key].Completed
	if err := c.tracker.PatchStop(stop.Key, session.StopPatch{Completed: session.Bool(done)}, false); err != nil {
		return c, errStatus("Save failed", err)
	}
	c.refresh()
	if !done {
		return c, nil
	}
	return c, tea.Batch(checkBadge(c.tracker), status(fmt.Sprintf("%s %s ✓", stop.Emoji, stop.Name)))
}

func (c checklistModel) rate(delta int) (checklistModel, tea.Cmd) {
	stop, ok := c.selected()
	if !ok {
		return c, nil
	}
	cur, _ := strconv.Atoi(c.state.Items[stop.Key].Rating)
	next := clamp(cur+delta, 0, maxRating)
	if next == cur {
		return c, nil
	}
	rating := ""
	if next > 0 {
		rating = strconv.Itoa(next)
	}
	if err := c.tracker.PatchStop(stop.Key, session.StopPatch{Rating: session.String(rating)}, false); err != nil {
		return c, errStatus("Save failed", err)
	}
	c.refresh()
	return c, nil
}

func (c checklistModel) beginEdit(f editField) (checklistModel, tea.Cmd) {
	stop, ok := c.selected()
	if !ok {
		return c, nil
	}
	c.editing = f
	c.editStop = stop.Key
	c.suggestion = -1
	c.input.Prompt = f.title() + ": "
	c.input.Placeholder = ""
	if f == editDrink {
		c.input.Placeholder = strings.Join(stop.Suggestions[:], " / ")
	}
	if f == editPhoto {
		c.input.Placeholder = stop.DefaultPhoto
	}
	c.original = f.value(c.state.Items[stop.Key])
	c.input.SetValue(c.original)
	c.input.CursorEnd()
	return c, c.input.Focus()
}

func (c checklistModel) endEdit() (checklistModel, tea.Cmd) {
	c.editing = editNone
	c.editStop = ""
	c.input.Blur()
	err := c.flush()
	c.refresh()
	if err != nil {
		return c, errStatus("Save failed", err)
	}
	return c, nil
}

// cancelEdit drops the buffered edit and puts back the value the field had
// when editing began.
func (c checklistModel) cancelEdit() (checklistModel, tea.Cmd) {
	field, stop := c.editing, c.editStop
	c.pending.Cancel(tracker.FieldKey(stop, field.String()))
	c.editing = editNone
	c.editStop = ""
	c.input.Blur()

	var cmd tea.Cmd
	if field.value(c.tracker.Snapshot().Items[stop]) != c.original {
		if err := c.tracker.PatchStop(stop, field.patch(c.original), false); err != nil {
			cmd = errStatus("Save failed", err)
		}
	}
	c.refresh()
	return c, cmd
}

// queue buffers the input's current value and schedules its flush.
func (c checklistModel) queue() (checklistModel, tea.Cmd) {
	field := tracker.FieldKey(c.editStop, c.editing.String())
	window := c.debounce.window(c.editing)
	gen := c.pending.Put(tracker.Write{
		Field: field,
		Stop:  c.editStop,
		Patch: c.editing.patch(c.input.Value()),
	}, window, c.clock.Now())
	return c, tea.Tick(window, func(time.Time) tea.Msg {
		return flushMsg{field: field, gen: gen}
	})
}

func (c checklistModel) updateEdit(msg tea.KeyMsg) (checklistModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		return c.endEdit()
	case key.Matches(msg, keys.Back):
		return c.cancelEdit()
	case c.editing == editDrink && key.Matches(msg, keys.Suggest):
		stop, _ := c.tracker.Catalog().Lookup(c.editStop)
		c.suggestion = (c.suggestion + 1) % len(stop.Suggestions)
		c.input.SetValue(stop.Suggestions[c.suggestion])
		c.input.CursorEnd()
		return c.queue()
	}

	before := c.input.Value()
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	if c.input.Value() == before {
		return c, cmd
	}
	c, flush := c.queue()
	return c, tea.Batch(cmd, flush)
}

func (c checklistModel) updateSearch(msg tea.KeyMsg) (checklistModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Enter):
		c.searching = false
		c.search.Blur()
		c.searchGen++
		c.query = c.search.Value()
		c.refresh()
		return c, nil
	}

	before := c.search.Value()
	var cmd tea.Cmd
	c.search, cmd = c.search.Update(msg)
	if c.search.Value() == before {
		return c, cmd
	}
	c.searchGen++
	gen := c.searchGen
	return c, tea.Batch(cmd, tea.Tick(c.debounce.search, func(time.Time) tea.Msg {
		return searchMsg{gen: gen}
	}))
}

func (c checklistModel) view() string {
	w := c.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Checklist"), "  ", c.renderFilterTabs(),
	)

	var rows []string
	rows = append(rows, header)
	switch {
	case c.searching:
		rows = append(rows, c.search.View())
	case c.query != "":
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("search: %q  (esc to clear)", c.query)))
	}
	rows = append(rows, "")

	if len(c.visible) == 0 {
		rows = append(rows, mutedStyle.Render("  No stops match."))
	}
	for i, stop := range c.visible {
		rows = append(rows, c.renderRow(i, stop))
	}

	rows = append(rows, "")
	rows = append(rows, c.renderDetail())
	rows = append(rows, "")
	if c.editing != editNone {
		hint := "  enter: save  esc: cancel"
		if c.editing == editDrink {
			hint += "  tab: suggestion"
		}
		rows = append(rows, mutedStyle.Render(hint))
	} else {
		rows = append(rows, mutedStyle.Render("  space: done  d: drink  n: notes  p: photo  +/-: rating  c: clear  /: search  f: filter"))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (c checklistModel) renderFilterTabs() string {
	var tabs []string
	for _, m := range []session.FilterMode{session.FilterAll, session.FilterDone, session.FilterOpen} {
		if m == c.mode {
			tabs = append(tabs, activeTabStyle.Render(m.String()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(m.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

func (c checklistModel) renderRow(i int, stop catalog.Stop) string {
	item := c.state.Items[stop.Key]
	cursor := "  "
	style := normalItemStyle
	if i == c.cursor {
		cursor = "> "
		style = selectedItemStyle
	}
	check := "[ ]"
	name := style.Render(fmt.Sprintf("%-10s", stop.Name))
	if item.Completed {
		check = successStyle.Render("[✓]")
		if i != c.cursor {
			name = doneItemStyle.Render(fmt.Sprintf("%-10s", stop.Name))
		}
	}

	extra := item.ChosenDrink
	if item.Rating != "" {
		extra += " " + stars(item.Rating)
	}
	return fmt.Sprintf("%s%s %s %s  %s", cursor, check, stop.Emoji, name, mutedStyle.Render(extra))
}

func (c checklistModel) renderDetail() string {
	stop, ok := c.selected()
	if !ok {
		return ""
	}
	item := c.state.Items[stop.Key]

	field := func(f editField, label, v string) string {
		if c.editing == f && c.editStop == stop.Key {
			return "  " + c.input.View()
		}
		if v == "" {
			v = mutedStyle.Render("—")
		}
		return fmt.Sprintf("  %-8s %s", label, v)
	}

	photo := item.PhotoRef
	if photo == "" {
		photo = mutedStyle.Render(stop.DefaultPhoto)
	}
	updated := "—"
	if item.LastUpdated != nil {
		updated = item.LastUpdated.Local().Format("Jan 02 15:04")
	}

	lines := []string{
		subtitleStyle.Render(fmt.Sprintf("%s %s", stop.Emoji, stop.Name)) + "  " + mutedStyle.Render(stop.Hint),
		mutedStyle.Render("  try: " + strings.Join(stop.Suggestions[:], ", ")),
		field(editDrink, "Drink", item.ChosenDrink),
		fmt.Sprintf("  %-8s %s", "Rating", stars(item.Rating)),
		field(editNotes, "Notes", item.Notes),
		field(editPhoto, "Photo", photo),
		mutedStyle.Render(fmt.Sprintf("  %-8s %s", "Updated", updated)),
	}
	return strings.Join(lines, "\n")
}

func stars(rating string) string {
	n, err := strconv.Atoi(rating)
	if err != nil || n <= 0 {
		return mutedStyle.Render("—")
	}
	n = min(n, maxRating)
	return warningStyle.Render(strings.Repeat("★", n)) + mutedStyle.Render(strings.Repeat("☆", maxRating-n))
}
