package tracker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/passport/internal/catalog"
	"github.com/sadopc/passport/internal/session"
)

const testName = "datw_tracker_v1"

var t0 = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time           { return c.now }
func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

type segment struct {
	start, end time.Time
	ms         int64
}

type memPersister struct {
	data     map[string][]byte
	segments []segment
	saves    int
	loadErr  error
	saveErr  error
}

func newMemPersister() *memPersister {
	return &memPersister{data: make(map[string][]byte)}
}

func (m *memPersister) LoadSnapshot(name string) ([]byte, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data[name], nil
}

func (m *memPersister) SaveSnapshot(name string, data []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.data[name] = append([]byte(nil), data...)
	return nil
}

func (m *memPersister) RecordSegment(_ string, start, end time.Time, ms int64) error {
	m.segments = append(m.segments, segment{start, end, ms})
	return nil
}

func (m *memPersister) ClearSegments(string) error {
	m.segments = nil
	return nil
}

func newTestTracker(t *testing.T) (*Tracker, *memPersister, *fakeClock) {
	t.Helper()
	p := newMemPersister()
	clk := &fakeClock{now: t0}
	tr := New(p, catalog.Default(), testName, WithClock(clk))
	tr.Load()
	return tr, p, clk
}

// reload simulates a page reload: a new tracker over the same persister.
func reload(t *testing.T, p *memPersister, clk *fakeClock) *Tracker {
	t.Helper()
	tr := New(p, catalog.Default(), testName, WithClock(clk))
	tr.Load()
	return tr
}

// ============================================================
// Load / save
// ============================================================

func TestLoadMissingSnapshotIsFresh(t *testing.T) {
	tr, p, _ := newTestTracker(t)
	st := tr.Snapshot()

	assert.Len(t, st.Items, 11)
	assert.Zero(t, st.HydrationCount)
	assert.False(t, st.Timer.Running)
	assert.Zero(t, p.saves, "loading must not write")
}

func TestLoadCorruptSnapshotIsFresh(t *testing.T) {
	p := newMemPersister()
	p.data[testName] = []byte("}{ definitely not json")
	tr := New(p, catalog.Default(), testName)

	st := tr.Load()
	assert.Len(t, st.Items, 11)
	assert.Equal(t, 0, session.CompletionCount(st, catalog.Default()))
}

func TestLoadErrorIsFresh(t *testing.T) {
	p := newMemPersister()
	p.loadErr = errors.New("disk on fire")
	tr := New(p, catalog.Default(), testName)

	st := tr.Load()
	assert.Len(t, st.Items, 11)
}

func TestLoadSaveRoundTrip(t *testing.T) {
	tr, p, clk := newTestTracker(t)
	require.NoError(t, tr.PatchStop("italy", session.StopPatch{
		Completed:   session.Bool(true),
		ChosenDrink: session.String("Bellini"),
		Notes:       session.String("worth it"),
		PhotoRef:    session.String("photo-123"),
		Rating:      session.String("5"),
	}, false))
	require.NoError(t, tr.IncrementHydration())
	require.NoError(t, tr.SetRoute(catalog.RouteLight))
	require.NoError(t, tr.StartTimer())
	clk.advance(90 * time.Second)

	before := tr.Snapshot()
	after := reload(t, p, clk).Snapshot()
	assert.Equal(t, before, after)
}

func TestLoadOlderCatalogSnapshot(t *testing.T) {
	old := catalog.MustNew(catalog.Stop{Key: "mexico"}, catalog.Stop{Key: "epcot"})
	p := newMemPersister()
	oldTracker := New(p, old, testName)
	oldTracker.Load()
	require.NoError(t, oldTracker.PatchStop("epcot", session.StopPatch{Completed: session.Bool(true)}, false))
	require.NoError(t, oldTracker.PatchStop("mexico", session.StopPatch{Completed: session.Bool(true)}, false))

	cur := New(p, catalog.Default(), testName)
	st := cur.Load()
	assert.ElementsMatch(t, catalog.Default().Keys(), keys(st))
	assert.True(t, st.Items["mexico"].Completed)
}

func TestSnapshotIsIsolated(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	st := tr.Snapshot()
	st.Items["italy"] = session.StopProgress{Completed: true}
	st.HydrationCount = 99

	fresh := tr.Snapshot()
	assert.False(t, fresh.Items["italy"].Completed)
	assert.Zero(t, fresh.HydrationCount)
}

// ============================================================
// PatchStop
// ============================================================

func TestPatchStopSetsLastUpdated(t *testing.T) {
	tr, _, clk := newTestTracker(t)
	clk.now = t0.Add(5*time.Minute + 123456789*time.Nanosecond)

	require.NoError(t, tr.PatchStop("italy", session.StopPatch{Completed: session.Bool(true)}, false))
	first := tr.Snapshot().Items["italy"].LastUpdated
	require.NotNil(t, first)
	assert.True(t, first.Equal(session.Millis(clk.now)))

	clk.advance(10 * time.Minute)
	require.NoError(t, tr.PatchStop("italy", session.StopPatch{Completed: session.Bool(false)}, true))
	item := tr.Snapshot().Items["italy"]
	assert.False(t, item.Completed)
	require.NotNil(t, item.LastUpdated)
	assert.True(t, item.LastUpdated.Equal(*first), "silent patch keeps timestamp")
}

func TestPatchStopUnknownKeyIsNoop(t *testing.T) {
	tr, p, _ := newTestTracker(t)
	before := tr.Snapshot()

	require.NoError(t, tr.PatchStop("atlantis", session.StopPatch{Completed: session.Bool(true)}, false))
	assert.Equal(t, before, tr.Snapshot())
	assert.Zero(t, p.saves)
}

func TestPatchStopPersistsImmediately(t *testing.T) {
	tr, p, clk := newTestTracker(t)
	require.NoError(t, tr.PatchStop("japan", session.StopPatch{Notes: session.String("sake flight")}, false))
	assert.Equal(t, 1, p.saves)

	st := reload(t, p, clk).Snapshot()
	assert.Equal(t, "sake flight", st.Items["japan"].Notes)
}

func TestKeySetStableUnderPatches(t *testing.T) {
	tr, _, clk := newTestTracker(t)
	keysToTry := append(catalog.Default().Keys(), "atlantis", "", "ITALY", "narnia")
	for i := 0; i < 200; i++ {
		key := keysToTry[i%len(keysToTry)]
		silent := i%3 == 0
		require.NoError(t, tr.PatchStop(key, session.StopPatch{Completed: session.Bool(i%2 == 0)}, silent))
		clk.advance(time.Second)
	}
	assert.ElementsMatch(t, catalog.Default().Keys(), keys(tr.Snapshot()))
}

func TestClearStop(t *testing.T) {
	tr, _, clk := newTestTracker(t)
	require.NoError(t, tr.PatchStop("uk", session.StopPatch{
		Completed: session.Bool(true), Notes: session.String("wobbly"), Rating: session.String("2"),
	}, false))
	stamp := tr.Snapshot().Items["uk"].LastUpdated
	clk.advance(time.Hour)

	require.NoError(t, tr.ClearStop("uk"))
	item := tr.Snapshot().Items["uk"]
	assert.False(t, item.Completed)
	assert.Empty(t, item.Notes)
	assert.Empty(t, item.Rating)
	assert.Equal(t, stamp, item.LastUpdated)
}

func TestSaveFailureKeepsState(t *testing.T) {
	tr, p, _ := newTestTracker(t)
	p.saveErr = errors.New("read-only")

	err := tr.PatchStop("china", session.StopPatch{Completed: session.Bool(true)}, false)
	require.Error(t, err)
	assert.True(t, tr.Snapshot().Items["china"].Completed)

	p.saveErr = nil
	require.NoError(t, tr.Save())
	assert.Contains(t, string(p.data[testName]), `"china"`)
}

func TestApplyWrites(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	err := tr.Apply([]Write{
		{Field: FieldKey("usa", "drink"), Stop: "usa", Patch: session.StopPatch{ChosenDrink: session.String("Lager")}},
		{Field: FieldKey("usa", "notes"), Stop: "usa", Patch: session.StopPatch{Notes: session.String("burger")}},
		{Field: FieldKey("nowhere", "notes"), Stop: "nowhere", Patch: session.StopPatch{Notes: session.String("x")}},
	})
	require.NoError(t, err)

	usa := tr.Snapshot().Items["usa"]
	assert.Equal(t, "Lager", usa.ChosenDrink)
	assert.Equal(t, "burger", usa.Notes)
	assert.NotNil(t, usa.LastUpdated)
}

func TestEditAfterCompletionMovesSplit(t *testing.T) {
	tr, _, clk := newTestTracker(t)
	done := session.StopPatch{Completed: session.Bool(true)}

	require.NoError(t, tr.PatchStop("mexico", done, false))
	clk.advance(20 * time.Minute)
	require.NoError(t, tr.PatchStop("norway", done, false))
	clk.advance(5 * time.Minute)
	require.NoError(t, tr.PatchStop("mexico", session.StopPatch{Notes: session.String("salt rim")}, false))

	splits := session.Splits(tr.Snapshot(), tr.Catalog())
	require.Len(t, splits, 2)
	assert.Equal(t, "norway", splits[0].Key)
	assert.Equal(t, "mexico", splits[1].Key)
	assert.Equal(t, 5*time.Minute, splits[1].Gap)

	// A silent patch leaves the order alone.
	clk.advance(5 * time.Minute)
	require.NoError(t, tr.PatchStop("norway", session.StopPatch{Rating: session.String("4")}, true))
	assert.Equal(t, "norway", session.Splits(tr.Snapshot(), tr.Catalog())[0].Key)
}

func TestApplyMergesPerStop(t *testing.T) {
	tr, p, _ := newTestTracker(t)
	err := tr.Apply([]Write{
		{Field: FieldKey("uk", "drink"), Stop: "uk", Patch: session.StopPatch{ChosenDrink: session.String("Bitter")}},
		{Field: FieldKey("uk", "notes"), Stop: "uk", Patch: session.StopPatch{Notes: session.String("rain")}},
		{Field: FieldKey("uk", "drink"), Stop: "uk", Patch: session.StopPatch{ChosenDrink: session.String("Pimm's Cup")}},
		{Field: FieldKey("france", "photo"), Stop: "france"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, p.saves, "one save per touched stop, empty patches skipped")
	uk := tr.Snapshot().Items["uk"]
	assert.Equal(t, "Pimm's Cup", uk.ChosenDrink)
	assert.Equal(t, "rain", uk.Notes)
	assert.Nil(t, tr.Snapshot().Items["france"].LastUpdated)
}

// ============================================================
// Setters
// ============================================================

func TestHydration(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	require.NoError(t, tr.IncrementHydration())
	require.NoError(t, tr.IncrementHydration())
	assert.Equal(t, 2, tr.Snapshot().HydrationCount)

	require.NoError(t, tr.SetHydration(5))
	assert.Equal(t, 5, tr.Snapshot().HydrationCount)

	require.NoError(t, tr.SetHydration(1))
	assert.Equal(t, 5, tr.Snapshot().HydrationCount, "only reset may lower hydration")
}

func TestSetRoute(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	require.NoError(t, tr.SetRoute(catalog.RouteHeavy))
	assert.Equal(t, catalog.RouteHeavy, tr.Snapshot().Route)

	require.NoError(t, tr.SetRoute(catalog.Route("extreme")))
	assert.Equal(t, catalog.RouteHeavy, tr.Snapshot().Route)

	require.NoError(t, tr.SetRoute(catalog.RouteNone))
	assert.Equal(t, catalog.RouteNone, tr.Snapshot().Route)
}

// ============================================================
// Timer
// ============================================================

func TestTimerStartStop(t *testing.T) {
	tr, p, clk := newTestTracker(t)
	require.NoError(t, tr.StartTimer())
	assert.True(t, tr.Running())

	clk.advance(3 * time.Minute)
	assert.Equal(t, int64(180_000), tr.ElapsedMs(clk.Now()))

	require.NoError(t, tr.StopTimer(false))
	assert.False(t, tr.Running())
	assert.Equal(t, int64(180_000), tr.Snapshot().Timer.AccumulatedMs)
	assert.Nil(t, tr.Snapshot().Timer.StartedAt)

	require.Len(t, p.segments, 1)
	assert.Equal(t, int64(180_000), p.segments[0].ms)
	assert.True(t, p.segments[0].start.Equal(t0))
}

func TestTimerStartIsIdempotent(t *testing.T) {
	tr, p, clk := newTestTracker(t)
	require.NoError(t, tr.StartTimer())
	saves := p.saves
	started := tr.Snapshot().Timer.StartedAt

	clk.advance(time.Minute)
	require.NoError(t, tr.StartTimer())
	assert.Equal(t, saves, p.saves)
	assert.Equal(t, started, tr.Snapshot().Timer.StartedAt)
}

func TestTimerStopWhenStopped(t *testing.T) {
	tr, p, _ := newTestTracker(t)
	require.NoError(t, tr.StopTimer(false))
	assert.Zero(t, p.saves)

	require.NoError(t, tr.StopTimer(true))
	assert.Equal(t, 1, p.saves, "hard stop always persists")
	assert.Empty(t, p.segments)
}

func TestTimerHardStopFoldsSegment(t *testing.T) {
	tr, _, clk := newTestTracker(t)
	require.NoError(t, tr.StartTimer())
	clk.advance(40 * time.Second)

	require.NoError(t, tr.StopTimer(true))
	st := tr.Snapshot()
	assert.False(t, st.Timer.Running)
	assert.Equal(t, int64(40_000), st.Timer.AccumulatedMs)
}

func TestTimerBackwardClock(t *testing.T) {
	tr, p, clk := newTestTracker(t)
	require.NoError(t, tr.StartTimer())
	clk.advance(-5 * time.Minute)

	assert.Equal(t, int64(0), tr.ElapsedMs(clk.Now()))
	require.NoError(t, tr.StopTimer(false))
	assert.Zero(t, tr.Snapshot().Timer.AccumulatedMs)
	assert.Empty(t, p.segments)
}

func TestTimerMonotonicAcrossPauseResume(t *testing.T) {
	tr, _, clk := newTestTracker(t)
	var prev int64
	for i := 0; i < 5; i++ {
		require.NoError(t, tr.StartTimer())
		clk.advance(time.Minute)
		cur := tr.ElapsedMs(clk.Now())
		require.GreaterOrEqual(t, cur, prev)
		prev = cur

		require.NoError(t, tr.StopTimer(false))
		clk.advance(10 * time.Minute)
		cur = tr.ElapsedMs(clk.Now())
		require.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
	assert.Equal(t, int64(5*60_000), prev)
}

func TestTimerContinuesAcrossReload(t *testing.T) {
	tr, p, clk := newTestTracker(t)
	require.NoError(t, tr.StartTimer())
	clk.advance(2 * time.Minute)

	again := reload(t, p, clk)
	assert.True(t, again.Running(), "load must not auto-pause")
	clk.advance(3 * time.Minute)
	assert.Equal(t, int64(5*60_000), again.ElapsedMs(clk.Now()))
}

// ============================================================
// Badge
// ============================================================

func completeAll(t *testing.T, tr *Tracker) {
	t.Helper()
	for _, key := range tr.Catalog().Keys() {
		require.NoError(t, tr.PatchStop(key, session.StopPatch{Completed: session.Bool(true)}, false))
	}
}

func TestBadgeUnlocksOnce(t *testing.T) {
	tr, _, _ := newTestTracker(t)

	unlocked, err := tr.EvaluateBadge()
	require.NoError(t, err)
	assert.False(t, unlocked)

	completeAll(t, tr)
	unlocked, err = tr.EvaluateBadge()
	require.NoError(t, err)
	assert.True(t, unlocked)

	for i := 0; i < 3; i++ {
		unlocked, err = tr.EvaluateBadge()
		require.NoError(t, err)
		assert.False(t, unlocked, "re-evaluation must not re-trigger")
	}
	assert.True(t, tr.Snapshot().BadgeUnlocked)
}

func TestBadgeStaysAfterUncheck(t *testing.T) {
	tr, p, clk := newTestTracker(t)
	completeAll(t, tr)
	_, err := tr.EvaluateBadge()
	require.NoError(t, err)

	require.NoError(t, tr.PatchStop("canada", session.StopPatch{Completed: session.Bool(false)}, false))
	unlocked, err := tr.EvaluateBadge()
	require.NoError(t, err)
	assert.False(t, unlocked)
	assert.True(t, tr.Snapshot().BadgeUnlocked)

	// Re-completing does not fire again either, even after a reload.
	again := reload(t, p, clk)
	require.NoError(t, again.PatchStop("canada", session.StopPatch{Completed: session.Bool(true)}, false))
	unlocked, err = again.EvaluateBadge()
	require.NoError(t, err)
	assert.False(t, unlocked)
}

func TestSetBadgeUnlocked(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	changed, err := tr.SetBadgeUnlocked()
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = tr.SetBadgeUnlocked()
	require.NoError(t, err)
	assert.False(t, changed)
}

// ============================================================
// Reset
// ============================================================

func TestResetAll(t *testing.T) {
	tr, p, clk := newTestTracker(t)
	oldID := tr.Snapshot().ID
	completeAll(t, tr)
	_, err := tr.EvaluateBadge()
	require.NoError(t, err)
	require.NoError(t, tr.SetHydration(7))
	require.NoError(t, tr.SetRoute(catalog.RouteMedium))
	require.NoError(t, tr.StartTimer())
	clk.advance(time.Hour)
	require.NoError(t, tr.StopTimer(false))
	require.NoError(t, tr.StartTimer())
	clk.advance(time.Minute)

	require.NoError(t, tr.ResetAll())
	assert.Empty(t, p.segments)

	st := reload(t, p, clk).Snapshot()
	cat := catalog.Default()
	assert.Equal(t, 0, session.CompletionCount(st, cat))
	assert.Zero(t, st.HydrationCount)
	assert.False(t, st.BadgeUnlocked)
	assert.False(t, st.Timer.Running)
	assert.Zero(t, st.Timer.AccumulatedMs)
	assert.Equal(t, catalog.RouteNone, st.Route)
	assert.NotEqual(t, oldID, st.ID)

	// A new session can earn the badge again.
	completeAll(t, tr)
	unlocked, err := tr.EvaluateBadge()
	require.NoError(t, err)
	assert.True(t, unlocked)
}

// ============================================================
// Scenarios
// ============================================================

func TestScenarioOnPaceAfterTwentyOneMinutes(t *testing.T) {
	tr, _, clk := newTestTracker(t)
	require.NoError(t, tr.StartTimer())
	clk.advance(21 * time.Minute)
	require.NoError(t, tr.PatchStop("mexico", session.StopPatch{Completed: session.Bool(true)}, false))

	s := tr.Summary(clk.Now())
	assert.Equal(t, session.PaceOnPace, s.Pace)
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 9, s.Percent)
}

func TestScenarioStartingAfterFiveMinutes(t *testing.T) {
	tr, _, clk := newTestTracker(t)
	require.NoError(t, tr.StartTimer())
	clk.advance(5 * time.Minute)

	assert.Equal(t, session.PaceStarting, tr.Summary(clk.Now()).Pace)
}

func TestScenarioNotStarted(t *testing.T) {
	tr, _, clk := newTestTracker(t)
	assert.Equal(t, session.PaceNotStarted, tr.Summary(clk.Now()).Pace)
}

func keys(st session.State) []string {
	var out []string
	for k := range st.Items {
		out = append(out, k)
	}
	return out
}
