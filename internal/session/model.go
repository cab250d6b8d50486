package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/passport/internal/catalog"
)

// StopProgress is the user's record for one stop.
type StopProgress struct {
	Completed   bool
	ChosenDrink string
	Notes       string
	PhotoRef    string
	Rating      string // "1".."5", empty when unrated
	LastUpdated *time.Time
}

// TimerState banks completed run segments in AccumulatedMs; StartedAt is only
// meaningful while Running.
type TimerState struct {
	Running       bool
	StartedAt     *time.Time
	AccumulatedMs int64
}

// State is the whole persisted session. Items always holds exactly the
// catalog's keys.
type State struct {
	ID             string
	Items          map[string]StopProgress
	HydrationCount int
	Timer          TimerState
	BadgeUnlocked  bool
	Route          catalog.Route
}

// StopPatch carries the fields to change on a stop; nil fields are left alone.
type StopPatch struct {
	Completed   *bool
	ChosenDrink *string
	Notes       *string
	PhotoRef    *string
	Rating      *string
}

func Bool(v bool) *bool       { return &v }
func String(v string) *string { return &v }

// ClearPatch resets every user-entered field of a stop.
func ClearPatch() StopPatch {
	return StopPatch{
		Completed:   Bool(false),
		ChosenDrink: String(""),
		Notes:       String(""),
		PhotoRef:    String(""),
		Rating:      String(""),
	}
}

// Empty reports whether the patch changes nothing.
func (p StopPatch) Empty() bool {
	return p.Completed == nil && p.ChosenDrink == nil && p.Notes == nil && p.PhotoRef == nil && p.Rating == nil
}

// Merge overlays the non-nil fields of other onto p.
func (p StopPatch) Merge(other StopPatch) StopPatch {
	if other.Completed != nil {
		p.Completed = other.Completed
	}
	if other.ChosenDrink != nil {
		p.ChosenDrink = other.ChosenDrink
	}
	if other.Notes != nil {
		p.Notes = other.Notes
	}
	if other.PhotoRef != nil {
		p.PhotoRef = other.PhotoRef
	}
	if other.Rating != nil {
		p.Rating = other.Rating
	}
	return p
}

// Apply returns a copy of sp with the patch applied. LastUpdated is not touched.
func (sp StopProgress) Apply(p StopPatch) StopProgress {
	if p.Completed != nil {
		sp.Completed = *p.Completed
	}
	if p.ChosenDrink != nil {
		sp.ChosenDrink = *p.ChosenDrink
	}
	if p.Notes != nil {
		sp.Notes = *p.Notes
	}
	if p.PhotoRef != nil {
		sp.PhotoRef = *p.PhotoRef
	}
	if p.Rating != nil {
		sp.Rating = *p.Rating
	}
	return sp
}

// New returns a fresh session with a newly minted ID.
func New(cat *catalog.Catalog) State {
	return Fresh(cat, uuid.NewString())
}

// Fresh returns the default state for cat: every stop empty, timer stopped
// and zeroed, counters zero.
func Fresh(cat *catalog.Catalog, id string) State {
	items := make(map[string]StopProgress, cat.Len())
	for _, key := range cat.Keys() {
		items[key] = StopProgress{}
	}
	return State{
		ID:    id,
		Items: items,
	}
}

// Clone returns a deep copy that shares nothing with st.
func (st State) Clone() State {
	out := st
	out.Items = make(map[string]StopProgress, len(st.Items))
	for k, v := range st.Items {
		v.LastUpdated = cloneTime(v.LastUpdated)
		out.Items[k] = v
	}
	out.Timer.StartedAt = cloneTime(st.Timer.StartedAt)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
