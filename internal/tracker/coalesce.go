package tracker

import (
	"sort"
	"time"

	"github.com/sadopc/passport/internal/session"
)

// Write is one pending edit to a stop.
type Write struct {
	Field string
	Stop  string
	Patch session.StopPatch
}

// FieldKey names the buffer slot for one field of one stop.
func FieldKey(stop, field string) string {
	return stop + "." + field
}

type pendingWrite struct {
	write Write
	due   time.Time
	gen   uint64
}

// Coalescer buffers edits per field. A newer edit to the same field replaces
// the pending one and restarts its window, so a burst of keystrokes becomes a
// single write carrying the last value. It does no scheduling of its own:
// callers poll Due from whatever tick they have and Drain on explicit flush.
//
// Not safe for concurrent use.
type Coalescer struct {
	pending map[string]pendingWrite
	gen     uint64
}

func NewCoalescer() *Coalescer {
	return &Coalescer{pending: make(map[string]pendingWrite)}
}

// Put buffers w until window has passed since now, cancelling any pending
// write for the same field. It returns the generation of the new write.
func (c *Coalescer) Put(w Write, window time.Duration, now time.Time) uint64 {
	c.gen++
	c.pending[w.Field] = pendingWrite{write: w, due: now.Add(window), gen: c.gen}
	return c.gen
}

// Due removes and returns the writes whose window has elapsed, oldest first.
func (c *Coalescer) Due(now time.Time) []Write {
	var ready []pendingWrite
	for field, p := range c.pending {
		if !p.due.After(now) {
			ready = append(ready, p)
			delete(c.pending, field)
		}
	}
	return ordered(ready)
}

// Drain removes and returns every pending write, oldest first.
func (c *Coalescer) Drain() []Write {
	all := make([]pendingWrite, 0, len(c.pending))
	for _, p := range c.pending {
		all = append(all, p)
	}
	clear(c.pending)
	return ordered(all)
}

// Cancel drops the pending write for field, reporting whether there was one.
func (c *Coalescer) Cancel(field string) bool {
	_, ok := c.pending[field]
	delete(c.pending, field)
	return ok
}

func (c *Coalescer) Pending() int {
	return len(c.pending)
}

// Latest reports whether gen is still the newest write buffered for field.
func (c *Coalescer) Latest(field string, gen uint64) bool {
	p, ok := c.pending[field]
	return ok && p.gen == gen
}

func ordered(ps []pendingWrite) []Write {
	sort.Slice(ps, func(i, j int) bool { return ps[i].gen < ps[j].gen })
	out := make([]Write, len(ps))
	for i, p := range ps {
		out[i] = p.write
	}
	return out
}
