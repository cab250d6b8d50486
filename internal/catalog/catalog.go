package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyKey     = errors.New("empty stop key")
	ErrDuplicateKey = errors.New("duplicate stop key")
)

// Stop is one itinerary location. Stops are defined at build time and never mutated.
type Stop struct {
	Key          string
	Name         string
	Emoji        string
	Hint         string
	Suggestions  [2]string
	DefaultPhoto string
}

// Catalog is an ordered, read-only list of stops.
type Catalog struct {
	stops []Stop
	index map[string]int
}

// New builds a catalog, rejecting empty or duplicate keys.
func New(stops ...Stop) (*Catalog, error) {
	c := &Catalog{
		stops: make([]Stop, 0, len(stops)),
		index: make(map[string]int, len(stops)),
	}
	for _, s := range stops {
		if s.Key == "" {
			return nil, fmt.Errorf("stop %q: %w", s.Name, ErrEmptyKey)
		}
		if _, ok := c.index[s.Key]; ok {
			return nil, fmt.Errorf("stop %q: %w", s.Key, ErrDuplicateKey)
		}
		c.index[s.Key] = len(c.stops)
		c.stops = append(c.stops, s)
	}
	return c, nil
}

// MustNew is New for package-level catalogs; it panics on invalid input.
func MustNew(stops ...Stop) *Catalog {
	c, err := New(stops...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Len() int { return len(c.stops) }

// Stops returns a copy of the stops in itinerary order.
func (c *Catalog) Stops() []Stop {
	out := make([]Stop, len(c.stops))
	copy(out, c.stops)
	return out
}

func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.stops))
	for i, s := range c.stops {
		keys[i] = s.Key
	}
	return keys
}

func (c *Catalog) Lookup(key string) (Stop, bool) {
	i, ok := c.index[key]
	if !ok {
		return Stop{}, false
	}
	return c.stops[i], true
}

func (c *Catalog) Has(key string) bool {
	_, ok := c.index[key]
	return ok
}

// Position returns the zero-based itinerary position of key, or -1.
func (c *Catalog) Position(key string) int {
	i, ok := c.index[key]
	if !ok {
		return -1
	}
	return i
}
