package session

import (
	"math"
	"sort"
	"time"

	"github.com/sadopc/passport/internal/catalog"
)

// Pace buckets progress speed. PaceNotStarted, PaceStarting and the four
// classified buckets are mutually exclusive.
type Pace int

const (
	PaceNotStarted Pace = iota
	PaceStarting
	PaceTooFast
	PaceOnPace
	PaceSlow
	PaceVerySlow
)

var paceLabels = map[Pace]string{
	PaceNotStarted: "—",
	PaceStarting:   "Starting…",
	PaceTooFast:    "Too fast ⚠️",
	PaceOnPace:     "On pace ✅",
	PaceSlow:       "Slow & steady 👍",
	PaceVerySlow:   "Very slow 🐢",
}

func (p Pace) String() string {
	if l, ok := paceLabels[p]; ok {
		return l
	}
	return "?"
}

// Classified reports whether p is one of the four speed buckets.
func (p Pace) Classified() bool {
	return p >= PaceTooFast && p <= PaceVerySlow
}

// Pace thresholds as multiples of the route's ideal time per stop.
const (
	tooFastRatio = 0.75
	onPaceRatio  = 1.15
	slowRatio    = 1.6
)

// CompletionCount counts completed stops among the catalog's keys.
func CompletionCount(st State, cat *catalog.Catalog) int {
	n := 0
	for _, key := range cat.Keys() {
		if st.Items[key].Completed {
			n++
		}
	}
	return n
}

// CompletionPercent is round(100*count/total).
func CompletionPercent(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(count) / float64(total)))
}

// ClassifyPace compares minutes per completed stop against the route's ideal.
func ClassifyPace(elapsedMs int64, completed int, running bool, route catalog.Route) Pace {
	if !running && elapsedMs == 0 {
		return PaceNotStarted
	}
	if completed <= 0 || elapsedMs <= 0 {
		return PaceStarting
	}

	perStop := float64(elapsedMs) / float64(completed)
	ratio := perStop / float64(route.IdealPerStop().Milliseconds())
	switch {
	case ratio <= tooFastRatio:
		return PaceTooFast
	case ratio <= onPaceRatio:
		return PaceOnPace
	case ratio <= slowRatio:
		return PaceSlow
	default:
		return PaceVerySlow
	}
}

// BadgeEarned is the unlock predicate: every stop completed.
func BadgeEarned(completed, total int) bool {
	return total > 0 && completed >= total
}

// Summary is the derived view shown on every refresh.
type Summary struct {
	Completed     int
	Total         int
	Percent       int
	ElapsedMs     int64
	Running       bool
	Pace          Pace
	Route         catalog.Route
	Hydration     int
	BadgeUnlocked bool
	BadgeEarned   bool
}

// Summarize derives every display value from st at now. It has no side
// effects and can be called as often as the scheduler likes.
func Summarize(st State, cat *catalog.Catalog, now time.Time) Summary {
	completed := CompletionCount(st, cat)
	elapsed := ElapsedMs(st.Timer, now)
	return Summary{
		Completed:     completed,
		Total:         cat.Len(),
		Percent:       CompletionPercent(completed, cat.Len()),
		ElapsedMs:     elapsed,
		Running:       st.Timer.Running,
		Pace:          ClassifyPace(elapsed, completed, st.Timer.Running, st.Route),
		Route:         st.Route,
		Hydration:     st.HydrationCount,
		BadgeUnlocked: st.BadgeUnlocked,
		BadgeEarned:   BadgeEarned(completed, cat.Len()),
	}
}

// Split is one completed stop and the time since the previous completion.
type Split struct {
	Key  string
	Name string
	At   time.Time
	Gap  time.Duration
}

// Splits lists completed stops ordered by LastUpdated. Stops without a
// timestamp are skipped; the first split has a zero gap.
//
// LastUpdated is the only per-stop timestamp, and every non-silent patch moves
// it. Editing the drink, notes, photo or rating of a stop that is already
// complete therefore moves that stop to the end of the splits.
func Splits(st State, cat *catalog.Catalog) []Split {
	var splits []Split
	for _, s := range cat.Stops() {
		item := st.Items[s.Key]
		if !item.Completed || item.LastUpdated == nil {
			continue
		}
		splits = append(splits, Split{Key: s.Key, Name: s.Name, At: *item.LastUpdated})
	}
	sort.SliceStable(splits, func(i, j int) bool {
		return splits[i].At.Before(splits[j].At)
	})
	for i := 1; i < len(splits); i++ {
		gap := splits[i].At.Sub(splits[i-1].At)
		if gap < 0 {
			gap = 0
		}
		splits[i].Gap = gap
	}
	return splits
}
