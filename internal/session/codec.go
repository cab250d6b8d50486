package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/sadopc/passport/internal/catalog"
)

// SchemaVersion is written into every snapshot. Version 1 is the browser
// tracker's format, which has no version field.
const SchemaVersion = 2

// Timestamps are Unix milliseconds so browser exports import unchanged.
type wireState struct {
	Version        int                 `json:"version,omitempty"`
	ID             *string             `json:"id,omitempty"`
	Items          map[string]wireStop `json:"items,omitempty"`
	HydrationCount *int                `json:"hydrationCount,omitempty"`
	Timer          *wireTimer          `json:"timer,omitempty"`
	BadgeUnlocked  *bool               `json:"badgeUnlocked,omitempty"`
	Route          *string             `json:"route,omitempty"`
}

type wireStop struct {
	Completed   *bool   `json:"completed,omitempty"`
	ChosenDrink *string `json:"chosenDrink,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	PhotoRef    *string `json:"photoRef,omitempty"`
	Rating      *string `json:"rating,omitempty"`
	LastUpdated *int64  `json:"lastUpdated,omitempty"`
}

type wireTimer struct {
	Running       *bool  `json:"running,omitempty"`
	StartedAt     *int64 `json:"startedAt,omitempty"`
	AccumulatedMs *int64 `json:"accumulatedMs,omitempty"`
}

// Encode serializes every field of st.
func Encode(st State) ([]byte, error) {
	w := wireState{
		Version:        SchemaVersion,
		ID:             String(st.ID),
		Items:          make(map[string]wireStop, len(st.Items)),
		HydrationCount: intPtr(st.HydrationCount),
		Timer: &wireTimer{
			Running:       Bool(st.Timer.Running),
			StartedAt:     toMillis(st.Timer.StartedAt),
			AccumulatedMs: int64Ptr(st.Timer.AccumulatedMs),
		},
		BadgeUnlocked: Bool(st.BadgeUnlocked),
		Route:         String(string(st.Route)),
	}
	for key, item := range st.Items {
		w.Items[key] = wireStop{
			Completed:   Bool(item.Completed),
			ChosenDrink: String(item.ChosenDrink),
			Notes:       String(item.Notes),
			PhotoRef:    String(item.PhotoRef),
			Rating:      String(item.Rating),
			LastUpdated: toMillis(item.LastUpdated),
		}
	}
	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return data, nil
}

// Parse decodes a snapshot into its partial form without reconciling it.
// Only data that is not a JSON object is an error. Each field is decoded on
// its own, so a field with an unexpected type reads as missing and the rest
// of the snapshot survives. The browser tracker's names (done, drink,
// updatedAt, hydrations, elapsedMs) are read as fallbacks but never written.
func Parse(data []byte) (Persisted, error) {
	var top rawObject
	if err := json.Unmarshal(data, &top); err != nil {
		return Persisted{}, fmt.Errorf("unmarshal session: %w", err)
	}

	p := Persisted{
		ID:             field[string](top, "id"),
		HydrationCount: field[int](top, "hydrationCount", "hydrations"),
		BadgeUnlocked:  field[bool](top, "badgeUnlocked"),
		Route:          field[string](top, "route"),
	}
	if timer, ok := object(top, "timer"); ok {
		p.Timer = &PersistedTimer{
			Running:       field[bool](timer, "running"),
			StartedAt:     fromMillis(field[int64](timer, "startedAt")),
			AccumulatedMs: field[int64](timer, "accumulatedMs", "elapsedMs"),
		}
	}
	if items, ok := object(top, "items"); ok {
		p.Items = make(map[string]PersistedStop, len(items))
		for key := range items {
			stop, ok := object(items, key)
			if !ok {
				continue
			}
			p.Items[key] = PersistedStop{
				Completed:   field[bool](stop, "completed", "done"),
				ChosenDrink: field[string](stop, "chosenDrink", "drink"),
				Notes:       field[string](stop, "notes"),
				PhotoRef:    field[string](stop, "photoRef"),
				Rating:      rating(stop),
				LastUpdated: fromMillis(field[int64](stop, "lastUpdated", "updatedAt")),
			}
		}
	}
	return p, nil
}

type rawObject map[string]json.RawMessage

// object decodes the named member as a nested object.
func object(obj rawObject, name string) (rawObject, bool) {
	raw, ok := obj[name]
	if !ok || isNull(raw) {
		return nil, false
	}
	var out rawObject
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

// field returns the first of names that is present, non-null and decodes as T.
func field[T any](obj rawObject, names ...string) *T {
	for _, name := range names {
		raw, ok := obj[name]
		if !ok || isNull(raw) {
			continue
		}
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return &v
		}
	}
	return nil
}

// rating accepts the string form this tracker writes and a bare number.
func rating(stop rawObject) *string {
	if s := field[string](stop, "rating"); s != nil {
		return s
	}
	if n := field[int](stop, "rating"); n != nil {
		return String(strconv.Itoa(*n))
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Decode parses data and reconciles it against a fresh state for cat.
func Decode(data []byte, cat *catalog.Catalog) (State, error) {
	p, err := Parse(data)
	if err != nil {
		return State{}, err
	}
	return Reconcile(p, New(cat), cat), nil
}

// Millis normalizes t to the precision snapshots keep.
func Millis(t time.Time) time.Time {
	return time.UnixMilli(t.UnixMilli()).UTC()
}

func toMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func fromMillis(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).UTC()
	return &t
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
