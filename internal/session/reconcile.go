package session

import (
	"time"

	"github.com/sadopc/passport/internal/catalog"
)

// Persisted is a snapshot as read back from storage. Any field may be
// missing (nil), and Items may hold keys the catalog no longer knows.
type Persisted struct {
	ID             *string
	Items          map[string]PersistedStop
	HydrationCount *int
	Timer          *PersistedTimer
	BadgeUnlocked  *bool
	Route          *string
}

type PersistedStop struct {
	Completed   *bool
	ChosenDrink *string
	Notes       *string
	PhotoRef    *string
	Rating      *string
	LastUpdated *time.Time
}

type PersistedTimer struct {
	Running       *bool
	StartedAt     *time.Time
	AccumulatedMs *int64
}

// Reconcile merges p onto base field by field:
//
//   - the catalog defines the key set: missing stops come from base, unknown ones are dropped
//   - a present persisted field overrides the base value
//   - a missing persisted field keeps the base value
//
// Values that would break an invariant are normalized rather than rejected.
func Reconcile(p Persisted, base State, cat *catalog.Catalog) State {
	out := base.Clone()

	if p.ID != nil && *p.ID != "" {
		out.ID = *p.ID
	}
	if p.HydrationCount != nil {
		out.HydrationCount = max(*p.HydrationCount, 0)
	}
	if p.BadgeUnlocked != nil {
		out.BadgeUnlocked = *p.BadgeUnlocked
	}
	if p.Route != nil {
		if r, ok := catalog.ParseRoute(*p.Route); ok {
			out.Route = r
		} else {
			out.Route = catalog.RouteNone
		}
	}
	if p.Timer != nil {
		out.Timer = reconcileTimer(*p.Timer, out.Timer)
	}

	items := make(map[string]StopProgress, cat.Len())
	for _, key := range cat.Keys() {
		item := out.Items[key]
		if ps, ok := p.Items[key]; ok {
			item = reconcileStop(ps, item)
		}
		items[key] = item
	}
	out.Items = items
	return out
}

func reconcileStop(ps PersistedStop, item StopProgress) StopProgress {
	if ps.Completed != nil {
		item.Completed = *ps.Completed
	}
	if ps.ChosenDrink != nil {
		item.ChosenDrink = *ps.ChosenDrink
	}
	if ps.Notes != nil {
		item.Notes = *ps.Notes
	}
	if ps.PhotoRef != nil {
		item.PhotoRef = *ps.PhotoRef
	}
	if ps.Rating != nil {
		item.Rating = *ps.Rating
	}
	if ps.LastUpdated != nil {
		item.LastUpdated = cloneTime(ps.LastUpdated)
	}
	return item
}

func reconcileTimer(pt PersistedTimer, t TimerState) TimerState {
	if pt.Running != nil {
		t.Running = *pt.Running
	}
	if pt.StartedAt != nil {
		t.StartedAt = cloneTime(pt.StartedAt)
	}
	if pt.AccumulatedMs != nil {
		t.AccumulatedMs = max(*pt.AccumulatedMs, 0)
	}
	if !t.Running {
		t.StartedAt = nil
	} else if t.StartedAt == nil {
		// A running timer with no start cannot accrue; treat it as stopped.
		t.Running = false
	}
	return t
}
