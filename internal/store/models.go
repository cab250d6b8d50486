package store

import "time"

// Snapshot is one persisted session document. Data is opaque to the store.
type Snapshot struct {
	Name      string
	Data      []byte
	UpdatedAt time.Time
}

// Segment is one start→stop run of the session timer.
type Segment struct {
	ID         int64
	Snapshot   string
	StartedAt  time.Time
	EndedAt    time.Time
	DurationMs int64
}

type Setting struct {
	Key   string
	Value string
}

// Setting keys seeded by the first migration.
const (
	SettingTickInterval   = "tick_interval_ms"
	SettingDrinkDebounce  = "drink_debounce_ms"
	SettingNotesDebounce  = "notes_debounce_ms"
	SettingPhotoDebounce  = "photo_debounce_ms"
	SettingSearchDebounce = "search_debounce_ms"
)
