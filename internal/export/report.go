package export

import (
	"time"

	"github.com/sadopc/passport/internal/catalog"
	"github.com/sadopc/passport/internal/session"
)

// Report is the document written by the JSON and YAML exporters.
type Report struct {
	ExportedAt string       `json:"exported_at" yaml:"exported_at"`
	Session    string       `json:"session" yaml:"session"`
	Completed  int          `json:"completed" yaml:"completed"`
	Total      int          `json:"total" yaml:"total"`
	Percent    int          `json:"percent" yaml:"percent"`
	Elapsed    string       `json:"elapsed" yaml:"elapsed"`
	ElapsedMs  int64        `json:"elapsed_ms" yaml:"elapsed_ms"`
	Running    bool         `json:"running" yaml:"running"`
	Pace       string       `json:"pace" yaml:"pace"`
	Route      string       `json:"route,omitempty" yaml:"route,omitempty"`
	Hydration  int          `json:"hydration_breaks" yaml:"hydration_breaks"`
	Badge      bool         `json:"badge_unlocked" yaml:"badge_unlocked"`
	Stops      []StopRecord `json:"stops" yaml:"stops"`
}

type StopRecord struct {
	Position  int    `json:"position" yaml:"position"`
	Key       string `json:"key" yaml:"key"`
	Country   string `json:"country" yaml:"country"`
	Completed bool   `json:"completed" yaml:"completed"`
	Drink     string `json:"drink,omitempty" yaml:"drink,omitempty"`
	Rating    string `json:"rating,omitempty" yaml:"rating,omitempty"`
	Notes     string `json:"notes,omitempty" yaml:"notes,omitempty"`
	Photo     string `json:"photo,omitempty" yaml:"photo,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Records lists every catalog stop in itinerary order with its progress.
func Records(st session.State, cat *catalog.Catalog) []StopRecord {
	stops := cat.Stops()
	out := make([]StopRecord, 0, len(stops))
	for i, s := range stops {
		item := st.Items[s.Key]
		rec := StopRecord{
			Position:  i + 1,
			Key:       s.Key,
			Country:   s.Name,
			Completed: item.Completed,
			Drink:     item.ChosenDrink,
			Rating:    item.Rating,
			Notes:     item.Notes,
			Photo:     item.PhotoRef,
		}
		if item.LastUpdated != nil {
			rec.UpdatedAt = item.LastUpdated.Local().Format(time.RFC3339)
		}
		out = append(out, rec)
	}
	return out
}

// NewReport snapshots st at now.
func NewReport(st session.State, cat *catalog.Catalog, now time.Time) Report {
	sum := session.Summarize(st, cat, now)
	r := Report{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Session:    st.ID,
		Completed:  sum.Completed,
		Total:      sum.Total,
		Percent:    sum.Percent,
		Elapsed:    session.FormatElapsed(sum.ElapsedMs),
		ElapsedMs:  sum.ElapsedMs,
		Running:    sum.Running,
		Pace:       sum.Pace.String(),
		Hydration:  sum.Hydration,
		Badge:      sum.BadgeUnlocked,
		Stops:      Records(st, cat),
	}
	if sum.Route != catalog.RouteNone {
		r.Route = string(sum.Route)
	}
	return r
}
