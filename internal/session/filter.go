package session

import (
	"strings"

	"github.com/sadopc/passport/internal/catalog"
)

type FilterMode int

const (
	FilterAll FilterMode = iota
	FilterDone
	FilterOpen
)

var filterNames = []string{"All", "Done", "Open"}

func (f FilterMode) String() string {
	if f < 0 || int(f) >= len(filterNames) {
		return "All"
	}
	return filterNames[f]
}

// Next cycles All → Done → Open → All.
func (f FilterMode) Next() FilterMode {
	return FilterMode((int(f) + 1) % len(filterNames))
}

// Filter returns the stops whose name contains query (case-insensitive) and
// whose completion matches mode, in itinerary order.
func Filter(st State, cat *catalog.Catalog, query string, mode FilterMode) []catalog.Stop {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []catalog.Stop
	for _, s := range cat.Stops() {
		if q != "" && !strings.Contains(strings.ToLower(s.Name), q) {
			continue
		}
		done := st.Items[s.Key].Completed
		switch mode {
		case FilterDone:
			if !done {
				continue
			}
		case FilterOpen:
			if done {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}
