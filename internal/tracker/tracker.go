package tracker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sadopc/passport/internal/catalog"
	"github.com/sadopc/passport/internal/session"
)

// ErrUnknownStop is logged when a caller patches a key the catalog does not know.
var ErrUnknownStop = errors.New("unknown stop")

// Persister stores one opaque snapshot per tracker name. A missing snapshot
// is reported as nil data and a nil error.
type Persister interface {
	LoadSnapshot(name string) ([]byte, error)
	SaveSnapshot(name string, data []byte) error
}

// SegmentLog is implemented by persisters that keep a history of timer runs.
type SegmentLog interface {
	RecordSegment(name string, start, end time.Time, durationMs int64) error
	ClearSegments(name string) error
}

// Tracker owns the session state. Every mutation goes through it and is
// written through to the Persister before the method returns.
//
// Mutators update the in-memory state first; a returned error only means the
// snapshot could not be written, and the next successful save catches up.
type Tracker struct {
	mu    sync.Mutex
	p     Persister
	cat   *catalog.Catalog
	name  string
	clock Clock
	log   *zap.Logger
	state session.State
}

type Option func(*Tracker)

func WithClock(c Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// New creates a tracker holding a fresh state. Call Load to restore the
// persisted session.
func New(p Persister, cat *catalog.Catalog, name string, opts ...Option) *Tracker {
	t := &Tracker{
		p:     p,
		cat:   cat,
		name:  name,
		clock: SystemClock{},
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.With(zap.String("module", "tracker"), zap.String("tracker", name))
	t.state = session.New(cat)
	return t
}

func (t *Tracker) Catalog() *catalog.Catalog { return t.cat }
func (t *Tracker) Name() string              { return t.name }

func (t *Tracker) now() time.Time {
	return session.Millis(t.clock.Now())
}

// Load restores the persisted session, falling back to a fresh one when the
// snapshot is missing or unreadable. It never fails.
func (t *Tracker) Load() session.State {
	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := t.p.LoadSnapshot(t.name)
	switch {
	case err != nil:
		t.log.Warn("load snapshot failed, starting fresh", zap.Error(err))
		t.state = session.New(t.cat)
	case len(data) == 0:
		t.log.Info("no snapshot, starting fresh")
		t.state = session.New(t.cat)
	default:
		st, err := session.Decode(data, t.cat)
		if err != nil {
			t.log.Warn("corrupt snapshot, starting fresh", zap.Error(err), zap.Int("bytes", len(data)))
			st = session.New(t.cat)
		}
		t.state = st
	}
	return t.state.Clone()
}

// Save writes the whole state, overwriting the previous snapshot.
func (t *Tracker) Save() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.persistLocked()
}

func (t *Tracker) persistLocked() error {
	data, err := session.Encode(t.state)
	if err != nil {
		return err
	}
	if err := t.p.SaveSnapshot(t.name, data); err != nil {
		t.log.Error("save snapshot failed", zap.Error(err))
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Snapshot returns a deep copy of the current state.
func (t *Tracker) Snapshot() session.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// Summary derives the display values at now.
func (t *Tracker) Summary(now time.Time) session.Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return session.Summarize(t.state, t.cat, now)
}

// PatchStop applies patch to the stop named key and stamps LastUpdated,
// unless silent. Unknown keys are logged and ignored.
func (t *Tracker) PatchStop(key string, patch session.StopPatch, silent bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.cat.Has(key) {
		t.log.Warn("patch ignored", zap.String("stop", key), zap.Error(ErrUnknownStop))
		return nil
	}
	item := t.state.Items[key].Apply(patch)
	if !silent {
		now := t.now()
		item.LastUpdated = &now
	}
	t.state.Items[key] = item
	t.log.Debug("stop patched", zap.String("stop", key), zap.Bool("silent", silent))
	return t.persistLocked()
}

// ClearStop wipes a stop's fields without touching its timestamp.
func (t *Tracker) ClearStop(key string) error {
	return t.PatchStop(key, session.ClearPatch(), true)
}

// Apply writes a batch of coalesced edits. Edits to the same stop are merged
// in order, later fields winning, so each stop is patched and saved once.
// Empty patches are skipped.
func (t *Tracker) Apply(writes []Write) error {
	merged := make(map[string]session.StopPatch)
	var order []string
	for _, w := range writes {
		if w.Patch.Empty() {
			continue
		}
		prev, seen := merged[w.Stop]
		if !seen {
			order = append(order, w.Stop)
		}
		merged[w.Stop] = prev.Merge(w.Patch)
	}

	var errs []error
	for _, stop := range order {
		if err := t.PatchStop(stop, merged[stop], false); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetHydration sets the hydration count. Only ResetAll may lower it.
func (t *Tracker) SetHydration(n int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n < t.state.HydrationCount {
		t.log.Warn("hydration decrease ignored", zap.Int("current", t.state.HydrationCount), zap.Int("requested", n))
		return nil
	}
	t.state.HydrationCount = n
	return t.persistLocked()
}

func (t *Tracker) IncrementHydration() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state.HydrationCount++
	return t.persistLocked()
}

func (t *Tracker) SetRoute(r catalog.Route) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !r.Valid() {
		t.log.Warn("unknown route ignored", zap.String("route", string(r)))
		return nil
	}
	t.state.Route = r
	return t.persistLocked()
}

// SetBadgeUnlocked sets the badge flag. It only ever moves false→true and
// reports whether it changed.
func (t *Tracker) SetBadgeUnlocked() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unlockLocked()
}

func (t *Tracker) unlockLocked() (bool, error) {
	if t.state.BadgeUnlocked {
		return false, nil
	}
	t.state.BadgeUnlocked = true
	t.log.Info("badge unlocked", zap.String("session", t.state.ID))
	return true, t.persistLocked()
}

// EvaluateBadge unlocks the badge the first time every stop is complete.
// It returns true on that first transition only.
func (t *Tracker) EvaluateBadge() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.BadgeUnlocked {
		return false, nil
	}
	if !session.BadgeEarned(session.CompletionCount(t.state, t.cat), t.cat.Len()) {
		return false, nil
	}
	return t.unlockLocked()
}

func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Timer.Running
}

// ElapsedMs is the session time at now.
func (t *Tracker) ElapsedMs(now time.Time) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return session.ElapsedMs(t.state.Timer, now)
}

// StartTimer starts the session timer. Starting a running timer is a no-op.
func (t *Tracker) StartTimer() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Timer.Running {
		return nil
	}
	now := t.now()
	t.state.Timer.Running = true
	t.state.Timer.StartedAt = &now
	t.log.Info("timer started")
	return t.persistLocked()
}

// StopTimer banks the running segment. Stopping a stopped timer is a no-op
// unless hard is set, which always forces the stopped state and persists.
func (t *Tracker) StopTimer(hard bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.state.Timer.Running && !hard {
		return nil
	}
	t.stopLocked()
	return t.persistLocked()
}

func (t *Tracker) stopLocked() {
	now := t.now()
	prev := t.state.Timer
	var seg int64
	t.state.Timer, seg = session.Fold(prev, now)
	if seg <= 0 || prev.StartedAt == nil {
		return
	}
	t.log.Info("timer stopped", zap.Int64("segment_ms", seg), zap.Int64("total_ms", t.state.Timer.AccumulatedMs))
	if sl, ok := t.p.(SegmentLog); ok {
		if err := sl.RecordSegment(t.name, *prev.StartedAt, now, seg); err != nil {
			t.log.Warn("record segment failed", zap.Error(err))
		}
	}
}

// ResetAll replaces the session with a fresh one under a new ID. It is the
// only way to lower hydration, clear the badge or zero the timer.
func (t *Tracker) ResetAll() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = session.New(t.cat)
	if sl, ok := t.p.(SegmentLog); ok {
		if err := sl.ClearSegments(t.name); err != nil {
			t.log.Warn("clear segments failed", zap.Error(err))
		}
	}
	t.log.Info("session reset", zap.String("session", t.state.ID))
	return t.persistLocked()
}
