package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/passport/internal/catalog"
	"github.com/sadopc/passport/internal/session"
	"github.com/sadopc/passport/internal/store"
	"github.com/sadopc/passport/internal/tracker"
)

type splitsModel struct {
	tracker *tracker.Tracker
	store   *store.Store
	width   int
	height  int

	route    catalog.Route
	splits   []session.Split
	segments []store.Segment
	total    int64

	chart barchart.Model
}

func newSplitsModel(tr *tracker.Tracker, s *store.Store) splitsModel {
	return splitsModel{
		tracker: tr,
		store:   s,
		chart:   barchart.New(60, 12),
	}
}

func (r *splitsModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.buildChart()
}

type splitsDataMsg struct {
	route    catalog.Route
	splits   []session.Split
	segments []store.Segment
	total    int64
}

func (r splitsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		st := r.tracker.Snapshot()
		msg := splitsDataMsg{
			route:  st.Route,
			splits: session.Splits(st, r.tracker.Catalog()),
		}
		if r.store != nil {
			msg.segments, _ = r.store.ListSegments(r.tracker.Name())
			msg.total, _ = r.store.SegmentTotal(r.tracker.Name())
		}
		return msg
	}
}

func (r splitsModel) update(msg tea.Msg) (splitsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case splitsDataMsg:
		r.route = msg.route
		r.splits = msg.splits
		r.segments = msg.segments
		r.total = msg.total
		r.buildChart()
		return r, nil
	case stateChangedMsg:
		return r, r.refresh()
	}
	return r, nil
}

// gaps returns the time spent reaching each split. The first split is
// measured from the first timer start when one is logged.
func (r splitsModel) gaps() []time.Duration {
	out := make([]time.Duration, len(r.splits))
	for i, s := range r.splits {
		out[i] = s.Gap
	}
	if len(r.splits) > 0 && len(r.segments) > 0 {
		if first := r.splits[0].At.Sub(r.segments[0].StartedAt); first > 0 {
			out[0] = first
		}
	}
	return out
}

func (r *splitsModel) buildChart() {
	chartWidth := max(20, r.width-8)
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}
	r.chart = barchart.New(chartWidth, chartHeight)

	ideal := r.route.IdealPerStop()
	var bars []barchart.BarData
	for i, gap := range r.gaps() {
		style := successStyle
		if gap > ideal*115/100 {
			style = warningStyle
		}
		if gap < ideal*75/100 {
			style = errorStyle
		}
		bars = append(bars, barchart.BarData{
			Label: shortName(r.splits[i].Name),
			Values: []barchart.BarValue{{
				Name:  r.splits[i].Name,
				Value: gap.Minutes(),
				Style: style,
			}},
		})
	}
	if len(bars) == 0 {
		bars = []barchart.BarData{{
			Label:  "",
			Values: []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}},
		}}
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func shortName(name string) string {
	runes := []rune(name)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return strings.ToUpper(string(runes))
}

func (r splitsModel) view() string {
	w := r.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Splits"), "  ",
		mutedStyle.Render(fmt.Sprintf("minutes per stop · ideal %s (%s)", formatGap(r.route.IdealPerStop()), r.route.Title())),
	)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderSplitTable(), "", r.renderSegments(),
		),
	)
}

func (r splitsModel) renderSplitTable() string {
	if len(r.splits) == 0 {
		return mutedStyle.Render("  No completed stops yet")
	}

	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %-3s %-12s %-8s %8s", "#", "Stop", "At", "Split")),
		mutedStyle.Render("  " + strings.Repeat("─", 34)),
	}
	for i, gap := range r.gaps() {
		s := r.splits[i]
		rows = append(rows, fmt.Sprintf("  %-3d %-12s %-8s %8s",
			i+1, s.Name, s.At.Local().Format("15:04"), formatGap(gap),
		))
	}
	return strings.Join(rows, "\n")
}

func (r splitsModel) renderSegments() string {
	title := fmt.Sprintf("%s  %s",
		titleStyle.Render("Timer log"),
		highlightStyle.Render(session.FormatElapsed(r.total)),
	)
	if len(r.segments) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("  No finished timer runs"))
	}

	rows := []string{title}
	for _, sg := range r.segments {
		rows = append(rows, fmt.Sprintf("  %s → %s  %s",
			sg.StartedAt.Local().Format("15:04"),
			sg.EndedAt.Local().Format("15:04"),
			session.FormatElapsed(sg.DurationMs),
		))
	}
	return strings.Join(rows, "\n")
}

func formatGap(d time.Duration) string {
	return session.FormatElapsed(d.Milliseconds())
}
