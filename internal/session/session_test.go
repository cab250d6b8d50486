package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/passport/internal/catalog"
)

var t0 = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := t0.Add(d)
	return &t
}

func completeN(st State, cat *catalog.Catalog, n int) State {
	for i, key := range cat.Keys() {
		if i >= n {
			break
		}
		item := st.Items[key]
		item.Completed = true
		st.Items[key] = item
	}
	return st
}

// ============================================================
// Model
// ============================================================

func TestFreshHasExactlyCatalogKeys(t *testing.T) {
	cat := catalog.Default()
	st := Fresh(cat, "id-1")

	require.Len(t, st.Items, cat.Len())
	for _, key := range cat.Keys() {
		assert.Equal(t, StopProgress{}, st.Items[key], key)
	}
	assert.Equal(t, "id-1", st.ID)
	assert.Zero(t, st.HydrationCount)
	assert.False(t, st.BadgeUnlocked)
	assert.Equal(t, TimerState{}, st.Timer)
	assert.Equal(t, catalog.RouteNone, st.Route)
}

func TestNewMintsDistinctIDs(t *testing.T) {
	cat := catalog.Default()
	a, b := New(cat), New(cat)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCloneIsDeep(t *testing.T) {
	cat := catalog.Default()
	st := Fresh(cat, "x")
	st.Items["italy"] = StopProgress{Completed: true, LastUpdated: at(time.Minute)}
	st.Timer = TimerState{Running: true, StartedAt: at(0)}

	c := st.Clone()
	item := c.Items["italy"]
	item.Notes = "changed"
	*item.LastUpdated = t0
	c.Items["italy"] = item
	*c.Timer.StartedAt = t0.Add(time.Hour)

	assert.Empty(t, st.Items["italy"].Notes)
	assert.Equal(t, t0.Add(time.Minute), *st.Items["italy"].LastUpdated)
	assert.Equal(t, t0, *st.Timer.StartedAt)
}

func TestApplyPatch(t *testing.T) {
	sp := StopProgress{ChosenDrink: "Bellini", Notes: "keep"}
	got := sp.Apply(StopPatch{Completed: Bool(true), ChosenDrink: String("Chianti")})

	assert.True(t, got.Completed)
	assert.Equal(t, "Chianti", got.ChosenDrink)
	assert.Equal(t, "keep", got.Notes)
	assert.Equal(t, "Bellini", sp.ChosenDrink, "receiver must not change")
}

func TestPatchMergeAndEmpty(t *testing.T) {
	assert.True(t, StopPatch{}.Empty())

	p := StopPatch{Notes: String("a")}.Merge(StopPatch{Notes: String("b"), Rating: String("4")})
	assert.Equal(t, "b", *p.Notes)
	assert.Equal(t, "4", *p.Rating)
	assert.Nil(t, p.Completed)
	assert.False(t, p.Empty())
}

func TestClearPatch(t *testing.T) {
	sp := StopProgress{Completed: true, ChosenDrink: "x", Notes: "y", PhotoRef: "z", Rating: "5"}
	got := sp.Apply(ClearPatch())
	assert.Equal(t, StopProgress{}, got)
}

// ============================================================
// Elapsed time
// ============================================================

func TestElapsedStopped(t *testing.T) {
	tm := TimerState{AccumulatedMs: 5000}
	assert.Equal(t, int64(5000), ElapsedMs(tm, t0.Add(time.Hour)))
}

func TestElapsedRunning(t *testing.T) {
	tm := TimerState{Running: true, StartedAt: at(0), AccumulatedMs: 1000}
	assert.Equal(t, int64(61000), ElapsedMs(tm, t0.Add(time.Minute)))
}

func TestElapsedClampsBackwardClock(t *testing.T) {
	tm := TimerState{Running: true, StartedAt: at(time.Minute), AccumulatedMs: 2000}
	assert.Equal(t, int64(2000), ElapsedMs(tm, t0))
	assert.Equal(t, int64(2000), ElapsedMs(tm, t0.Add(time.Minute)))
}

func TestElapsedRunningWithoutStart(t *testing.T) {
	tm := TimerState{Running: true, AccumulatedMs: 300}
	assert.Equal(t, int64(300), ElapsedMs(tm, t0))
}

func TestFold(t *testing.T) {
	tm := TimerState{Running: true, StartedAt: at(0), AccumulatedMs: 1000}
	got, seg := Fold(tm, t0.Add(10*time.Second))

	assert.Equal(t, int64(10000), seg)
	assert.Equal(t, TimerState{AccumulatedMs: 11000}, got)

	// Backward clock folds nothing.
	got, seg = Fold(TimerState{Running: true, StartedAt: at(time.Hour), AccumulatedMs: 7}, t0)
	assert.Zero(t, seg)
	assert.Equal(t, int64(7), got.AccumulatedMs)

	// Stopped timer is unchanged.
	got, seg = Fold(TimerState{AccumulatedMs: 9}, t0)
	assert.Zero(t, seg)
	assert.Equal(t, TimerState{AccumulatedMs: 9}, got)
}

func TestElapsedMonotonicAcrossCycles(t *testing.T) {
	tm := TimerState{}
	clock := t0
	prev := int64(0)
	steps := []struct {
		advance time.Duration
		action  string
	}{
		{0, "start"}, {30 * time.Second, "tick"}, {0, "tick"}, {time.Minute, "stop"},
		{5 * time.Minute, "tick"}, {0, "start"}, {-10 * time.Second, "tick"},
		{20 * time.Second, "stop"}, {time.Second, "start"}, {time.Hour, "tick"},
	}
	for i, s := range steps {
		clock = clock.Add(s.advance)
		switch s.action {
		case "start":
			if !tm.Running {
				now := clock
				tm.Running, tm.StartedAt = true, &now
			}
		case "stop":
			tm, _ = Fold(tm, clock)
		}
		got := ElapsedMs(tm, clock)
		require.GreaterOrEqual(t, got, int64(0), "step %d", i)
		if s.advance >= 0 {
			require.GreaterOrEqual(t, got, prev, "step %d", i)
		}
		prev = got
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "00:00"},
		{-5, "00:00"},
		{61_000, "01:01"},
		{59*60_000 + 59_000, "59:59"},
		{3_600_000, "1:00:00"},
		{3_725_000, "1:02:05"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatElapsed(tt.ms), "ms=%d", tt.ms)
	}
}

// ============================================================
// Progress
// ============================================================

func TestCompletionPercentAllCounts(t *testing.T) {
	want := []int{0, 9, 18, 27, 36, 45, 55, 64, 73, 82, 91, 100}
	for count := 0; count <= 11; count++ {
		assert.Equal(t, want[count], CompletionPercent(count, 11), "count=%d", count)
	}
	assert.Equal(t, 0, CompletionPercent(3, 0))
}

func TestCompletionCountIgnoresUnknownKeys(t *testing.T) {
	cat := catalog.Default()
	st := Fresh(cat, "x")
	st.Items["atlantis"] = StopProgress{Completed: true}
	st = completeN(st, cat, 3)

	assert.Equal(t, 3, CompletionCount(st, cat))
}

func TestClassifyPaceScenarios(t *testing.T) {
	min := int64(60_000)

	// 21 minutes, one stop, no route.
	assert.Equal(t, PaceOnPace, ClassifyPace(21*min, 1, true, catalog.RouteNone))
	// Five minutes in, nothing done yet.
	assert.Equal(t, PaceStarting, ClassifyPace(5*min, 0, true, catalog.RouteNone))
	assert.Equal(t, PaceStarting, ClassifyPace(5*min, 0, false, catalog.RouteNone))
	// Never started.
	assert.Equal(t, PaceNotStarted, ClassifyPace(0, 0, false, catalog.RouteNone))
	assert.Equal(t, PaceNotStarted, ClassifyPace(0, 4, false, catalog.RouteNone))
	// Just started, zero elapsed.
	assert.Equal(t, PaceStarting, ClassifyPace(0, 2, true, catalog.RouteNone))
}

func TestClassifyPaceBuckets(t *testing.T) {
	ideal := catalog.RouteNone.IdealPerStop().Milliseconds()
	tests := []struct {
		ratio float64
		want  Pace
	}{
		{0.5, PaceTooFast},
		{0.75, PaceTooFast},
		{0.76, PaceOnPace},
		{1.15, PaceOnPace},
		{1.16, PaceSlow},
		{1.6, PaceSlow},
		{1.61, PaceVerySlow},
		{4, PaceVerySlow},
	}
	for _, tt := range tests {
		elapsed := int64(tt.ratio * float64(ideal) * 2)
		assert.Equal(t, tt.want, ClassifyPace(elapsed, 2, true, catalog.RouteNone), "ratio=%v", tt.ratio)
	}
}

func TestClassifyPaceRouteShiftsIdeal(t *testing.T) {
	elapsed := (20 * time.Minute).Milliseconds()
	assert.Equal(t, PaceOnPace, ClassifyPace(elapsed, 1, true, catalog.RouteLight))
	assert.Equal(t, PaceOnPace, ClassifyPace(elapsed, 1, true, catalog.RouteMedium))

	elapsed = (15 * time.Minute).Milliseconds()
	assert.Equal(t, PaceTooFast, ClassifyPace(elapsed, 1, true, catalog.RouteHeavy))
	assert.Equal(t, PaceOnPace, ClassifyPace(elapsed, 1, true, catalog.RouteLight))

	elapsed = (30 * time.Minute).Milliseconds()
	assert.Equal(t, PaceSlow, ClassifyPace(elapsed, 1, true, catalog.RouteHeavy))
	assert.Equal(t, PaceVerySlow, ClassifyPace(elapsed, 1, true, catalog.RouteLight))
}

func TestPaceStatesExclusive(t *testing.T) {
	for _, running := range []bool{false, true} {
		for _, elapsed := range []int64{0, 1, 60_000, 10_000_000} {
			for completed := 0; completed <= 11; completed++ {
				p := ClassifyPace(elapsed, completed, running, catalog.RouteNone)
				states := 0
				if p == PaceNotStarted {
					states++
				}
				if p == PaceStarting {
					states++
				}
				if p.Classified() {
					states++
				}
				require.Equal(t, 1, states, "running=%v elapsed=%d completed=%d", running, elapsed, completed)
			}
		}
	}
}

func TestPaceString(t *testing.T) {
	assert.Equal(t, "—", PaceNotStarted.String())
	assert.Equal(t, "On pace ✅", PaceOnPace.String())
	assert.Equal(t, "?", Pace(99).String())
}

func TestBadgeEarned(t *testing.T) {
	assert.False(t, BadgeEarned(10, 11))
	assert.True(t, BadgeEarned(11, 11))
	assert.False(t, BadgeEarned(0, 0))
}

func TestSummarize(t *testing.T) {
	cat := catalog.Default()
	st := completeN(Fresh(cat, "x"), cat, 6)
	st.Timer = TimerState{Running: true, StartedAt: at(0), AccumulatedMs: 0}
	st.HydrationCount = 2
	st.Route = catalog.RouteHeavy

	s := Summarize(st, cat, t0.Add(2*time.Hour))
	assert.Equal(t, 6, s.Completed)
	assert.Equal(t, 11, s.Total)
	assert.Equal(t, 55, s.Percent)
	assert.Equal(t, (2 * time.Hour).Milliseconds(), s.ElapsedMs)
	assert.True(t, s.Running)
	assert.Equal(t, PaceOnPace, s.Pace)
	assert.Equal(t, 2, s.Hydration)
	assert.False(t, s.BadgeEarned)

	// Repeated calls are stable.
	assert.Equal(t, s, Summarize(st, cat, t0.Add(2*time.Hour)))
}

func TestSplits(t *testing.T) {
	cat := catalog.Default()
	st := Fresh(cat, "x")
	st.Items["norway"] = StopProgress{Completed: true, LastUpdated: at(40 * time.Minute)}
	st.Items["mexico"] = StopProgress{Completed: true, LastUpdated: at(20 * time.Minute)}
	st.Items["china"] = StopProgress{Completed: false, LastUpdated: at(50 * time.Minute)}
	st.Items["italy"] = StopProgress{Completed: true}

	splits := Splits(st, cat)
	require.Len(t, splits, 2)
	assert.Equal(t, "mexico", splits[0].Key)
	assert.Zero(t, splits[0].Gap)
	assert.Equal(t, "norway", splits[1].Key)
	assert.Equal(t, 20*time.Minute, splits[1].Gap)
}

// ============================================================
// Filter
// ============================================================

func TestFilter(t *testing.T) {
	cat := catalog.Default()
	st := Fresh(cat, "x")
	st.Items["germany"] = StopProgress{Completed: true}
	st.Items["norway"] = StopProgress{Completed: true}

	keys := func(stops []catalog.Stop) []string {
		var out []string
		for _, s := range stops {
			out = append(out, s.Key)
		}
		return out
	}

	assert.Len(t, Filter(st, cat, "", FilterAll), 11)
	assert.Equal(t, []string{"norway", "germany"}, keys(Filter(st, cat, "", FilterDone)))
	assert.Len(t, Filter(st, cat, "", FilterOpen), 9)
	assert.Equal(t, []string{"germany"}, keys(Filter(st, cat, " GER ", FilterAll)))
	assert.Empty(t, Filter(st, cat, "ger", FilterOpen))
	assert.Equal(t, []string{"morocco"}, keys(Filter(st, cat, "roc", FilterOpen)))
}

func TestFilterModeCycle(t *testing.T) {
	assert.Equal(t, FilterDone, FilterAll.Next())
	assert.Equal(t, FilterOpen, FilterDone.Next())
	assert.Equal(t, FilterAll, FilterOpen.Next())
	assert.Equal(t, "Open", FilterOpen.String())
	assert.Equal(t, "All", FilterMode(7).String())
}
